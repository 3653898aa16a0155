package session

import (
	"strings"
)

// CategoryFromLabel derives a category value from a form label by lower-casing its
// first whitespace-delimited token: "Small (< 5 acres)" becomes "small".
func CategoryFromLabel(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// CreateProfile validates the setup form and stores the resulting profile,
// replacing any existing one. Name and location are required.
func (s *State) CreateProfile(name, location, farmSizeLabel, crops, experienceLabel string) (Profile, error) {
	p, err := s.buildProfile(name, location, farmSizeLabel, crops, experienceLabel)
	if err != nil {
		return Profile{}, err
	}
	s.profile = &p
	return p, nil
}

func (s *State) buildProfile(name, location, farmSizeLabel, crops, experienceLabel string) (Profile, error) {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return Profile{}, &ValidationError{
			Fields: missing,
			Errors: []string{"please fill in all required fields: " + strings.Join(missing, ", ")},
		}
	}

	return Profile{
		FullName:        name,
		Location:        location,
		FarmSize:        FarmSize(CategoryFromLabel(farmSizeLabel)),
		PrimaryCrops:    crops,
		ExperienceLevel: ExperienceLevel(CategoryFromLabel(experienceLabel)),
		CreatedAt:       s.now(),
	}, nil
}

// Profile returns a copy of the current profile, or nil when signed out.
func (s *State) Profile() *Profile {
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// HasProfile reports whether a profile exists.
func (s *State) HasProfile() bool { return s.profile != nil }

// UpdateProfile merges the non-nil fields of u into the existing profile.
// Name and location stay required: a blank value for either rejects the whole
// update and leaves the profile unchanged.
func (s *State) UpdateProfile(u ProfileUpdate) (Profile, error) {
	if s.profile == nil {
		return Profile{}, &NotFoundError{Resource: "profile"}
	}
	var blank []string
	if u.FullName != nil && strings.TrimSpace(*u.FullName) == "" {
		blank = append(blank, "full_name")
	}
	if u.Location != nil && strings.TrimSpace(*u.Location) == "" {
		blank = append(blank, "location")
	}
	if len(blank) > 0 {
		return Profile{}, &ValidationError{
			Fields: blank,
			Errors: []string{"required fields cannot be blank: " + strings.Join(blank, ", ")},
		}
	}
	if u.FullName != nil {
		s.profile.FullName = *u.FullName
	}
	if u.Location != nil {
		s.profile.Location = *u.Location
	}
	if u.PrimaryCrops != nil {
		s.profile.PrimaryCrops = *u.PrimaryCrops
	}
	return *s.profile, nil
}

// ClearProfile removes the profile.
func (s *State) ClearProfile() { s.profile = nil }
