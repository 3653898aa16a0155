package prompts

import (
	"strconv"
	"strings"

	"github.com/ChamsBouzaiene/harvest/internal/session"
)

// Fallbacks used when the profile is absent or a field is empty.
const (
	FallbackName       = "Farmer"
	FallbackLocation   = "Not specified"
	FallbackFarmSize   = "small"
	FallbackExperience = "beginner"
	FallbackProblems   = "None specified"

	cropsNone    = "None"
	cropsVarious = "Various"
	cropsMany    = "Various crops"
)

// Request is a fully rendered prompt pair for the completion gateway.
type Request struct {
	System string
	User   string

	// TemplateID and Version name the user template that was rendered.
	TemplateID string
	Version    PromptVersion
}

// Template returns "id@version" for logs and results.
func (r Request) Template() string {
	return r.TemplateID + "@" + string(r.Version)
}

// CropPlannerInput holds the crop planner form values.
type CropPlannerInput struct {
	Month   string
	Weather string
	Soil    string
}

// SoilOptimizerInput holds the soil optimizer form values.
type SoilOptimizerInput struct {
	PH       float64
	SoilType string
	Problems []string
}

// PestIdentifierInput holds the pest identifier form values.
type PestIdentifierInput struct {
	Crop     string
	Symptoms string
}

// CropPlanner renders the crop recommendation request.
func CropPlanner(p *session.Profile, in CropPlannerInput) (Request, error) {
	f := profileFields(p)
	return render(CropPlannerID, map[string]string{
		"location":   f.location,
		"month":      in.Month,
		"weather":    in.Weather,
		"soil":       in.Soil,
		"farm_size":  f.farmSize,
		"crops":      or(f.crops, cropsNone),
		"experience": f.experience,
	})
}

// SoilOptimizer renders the soil analysis request.
func SoilOptimizer(p *session.Profile, in SoilOptimizerInput) (Request, error) {
	f := profileFields(p)
	problems := FallbackProblems
	if len(in.Problems) > 0 {
		problems = strings.Join(in.Problems, ", ")
	}
	return render(SoilOptimizerID, map[string]string{
		"location":  f.location,
		"crops":     or(f.crops, cropsMany),
		"farm_size": f.farmSize,
		"ph":        FormatPH(in.PH),
		"soil_type": in.SoilType,
		"problems":  problems,
	})
}

// PestIdentifier renders the pest identification request.
func PestIdentifier(p *session.Profile, in PestIdentifierInput) (Request, error) {
	f := profileFields(p)
	return render(PestIdentifierID, map[string]string{
		"location":  f.location,
		"farm_size": f.farmSize,
		"crop":      in.Crop,
		"symptoms":  in.Symptoms,
	})
}

// Chat renders a conversational question with the farmer's profile as context.
func Chat(p *session.Profile, question string) (Request, error) {
	f := profileFields(p)
	return render(ChatID, map[string]string{
		"name":       f.name,
		"location":   f.location,
		"farm_size":  f.farmSize,
		"crops":      or(f.crops, cropsVarious),
		"experience": f.experience,
		"question":   question,
	})
}

// FormatPH prints a pH reading with at least one decimal: 6.5, 7.0, 6.55.
func FormatPH(ph float64) string {
	s := strconv.FormatFloat(ph, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type fields struct {
	name, location, farmSize, crops, experience string
}

// profileFields applies the fallbacks. crops is left empty when unset because
// each template has its own wording for it.
func profileFields(p *session.Profile) fields {
	if p == nil {
		return fields{
			name:       FallbackName,
			location:   FallbackLocation,
			farmSize:   FallbackFarmSize,
			experience: FallbackExperience,
		}
	}
	return fields{
		name:       or(p.FullName, FallbackName),
		location:   or(p.Location, FallbackLocation),
		farmSize:   or(string(p.FarmSize), FallbackFarmSize),
		crops:      p.PrimaryCrops,
		experience: or(string(p.ExperienceLevel), FallbackExperience),
	}
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func render(id string, vars map[string]string) (Request, error) {
	registry := DefaultRegistry()

	system, err := registry.GetLatest(SystemID)
	if err != nil {
		return Request{}, err
	}

	tmpl, err := registry.GetLatest(id)
	if err != nil {
		return Request{}, err
	}
	b, err := NewPromptBuilder(registry, id, tmpl.Version)
	if err != nil {
		return Request{}, err
	}
	for k, v := range vars {
		b.SetVariable(k, v)
	}
	user, err := b.Build()
	if err != nil {
		return Request{}, err
	}

	return Request{System: system.Content, User: user, TemplateID: id, Version: tmpl.Version}, nil
}
