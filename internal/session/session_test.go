package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/harvest/internal/pages"
)

func newTestState() *State {
	clock := time.Date(2024, 4, 10, 6, 0, 0, 0, time.UTC)
	seq := 0
	return New(
		WithClock(func() time.Time { clock = clock.Add(time.Second); return clock }),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("id-%d", seq) }),
	)
}

func TestNew(t *testing.T) {
	s := New()
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, pages.Welcome, s.Page())
	assert.Nil(t, s.Profile())
	assert.Nil(t, s.Weather())
	assert.Empty(t, s.Recommendations())
	assert.Empty(t, s.Chat())
}

func TestCategoryFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Small (< 5 acres)", "small"},
		{"Medium (5-50 acres)", "medium"},
		{"Large (50-200 acres)", "large"},
		{"very_large", "very_large"},
		{"Very Large (200+ acres)", "very"},
		{"Beginner (0-2 years)", "beginner"},
		{"  EXPERIENCED\t(10+ years)", "experienced"},
		{"intermediate", "intermediate"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryFromLabel(tt.label))
		})
	}
}

func TestCategoryFromLabel_CatalogOptionsDeriveIntoEnums(t *testing.T) {
	sizes := map[FarmSize]bool{FarmSizeSmall: true, FarmSizeMedium: true, FarmSizeLarge: true, FarmSizeVeryLarge: true}
	for _, o := range pages.FarmSizeOptions {
		assert.True(t, sizes[FarmSize(CategoryFromLabel(o.Value))], o.Label)
		assert.Equal(t, o.Value, CategoryFromLabel(pages.OptionValue(pages.FarmSizeOptions, o.Label)))
	}
	levels := map[ExperienceLevel]bool{ExperienceBeginner: true, ExperienceIntermediate: true, ExperienceExperienced: true}
	for _, o := range pages.ExperienceOptions {
		assert.True(t, levels[ExperienceLevel(CategoryFromLabel(o.Value))], o.Label)
		assert.Equal(t, o.Value, CategoryFromLabel(o.Label), "experience labels also derive literally")
	}
}

func TestCreateProfile_Validation(t *testing.T) {
	tests := []struct {
		name       string
		full       string
		location   string
		wantFields []string
	}{
		{"ok", "Ada", "Nairobi", nil},
		{"blank name", "   ", "Nairobi", []string{"full_name"}},
		{"blank location", "Ada", "\t", []string{"location"}},
		{"both blank", "", "", []string{"full_name", "location"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState()
			p, err := s.CreateProfile(tt.full, tt.location, "Small (< 5 acres)", "", "Beginner (0-2 years)")
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.full, p.FullName)
				assert.True(t, s.HasProfile())
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantFields, ve.Fields)
			assert.False(t, s.HasProfile(), "no partial profile")
		})
	}
}

func TestUpdateProfile_RoundTrip(t *testing.T) {
	s := newTestState()
	created, err := s.CreateProfile("Ada Obi", "Enugu", "Large (50-200 acres)", "Yam", "Intermediate (3-10 years)")
	require.NoError(t, err)

	name, loc, crops := "Ada O.", "Abuja", "Yam, Cassava"
	updated, err := s.UpdateProfile(ProfileUpdate{FullName: &name, Location: &loc, PrimaryCrops: &crops})
	require.NoError(t, err)

	want := created
	want.FullName, want.Location, want.PrimaryCrops = name, loc, crops
	assert.Equal(t, want, updated, "only the three mutable fields change")
	assert.Equal(t, want, *s.Profile())

	partial, err := s.UpdateProfile(ProfileUpdate{Location: &created.Location})
	require.NoError(t, err)
	assert.Equal(t, created.Location, partial.Location)
	assert.Equal(t, name, partial.FullName, "nil fields are untouched")
}

func TestUpdateProfile_RejectsBlankRequiredFields(t *testing.T) {
	s := newTestState()
	created, err := s.CreateProfile("Ada Obi", "Enugu", "Small (< 5 acres)", "Yam", "Beginner (0-2 years)")
	require.NoError(t, err)

	blank, crops := "   ", "Cassava"
	_, err = s.UpdateProfile(ProfileUpdate{FullName: &blank, Location: &blank, PrimaryCrops: &crops})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"full_name", "location"}, verr.Fields)
	assert.Equal(t, created, *s.Profile(), "a rejected update changes nothing")

	empty := ""
	_, err = s.UpdateProfile(ProfileUpdate{Location: &empty})
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "Enugu", s.Profile().Location)
}

func TestUpdateProfile_NoProfile(t *testing.T) {
	s := newTestState()
	name := "x"
	_, err := s.UpdateProfile(ProfileUpdate{FullName: &name})
	assert.True(t, IsNotFound(err))
}

func TestProfileIsCopied(t *testing.T) {
	s := newTestState()
	_, err := s.CreateProfile("Ada", "Enugu", "Small (< 5 acres)", "", "Beginner (0-2 years)")
	require.NoError(t, err)

	p := s.Profile()
	p.FullName = "Mallory"
	assert.Equal(t, "Ada", s.Profile().FullName)
}

func TestHistory_AppendDeleteRoundTrip(t *testing.T) {
	s := newTestState()
	s.AppendRecommendation(KindCropPlanner, "Crop Recommendations for June", "maize")
	s.AppendRecommendation(KindSoilOptimizer, "Soil Health Analysis", "lime")
	before := s.Recommendations()

	rec := s.AppendRecommendation(KindPestIdentifier, "Pest Identification for Kale", "aphids")
	assert.Equal(t, 3, s.RecommendationCount())
	assert.Equal(t, rec, s.Recommendations()[0], "newest first")

	s.DeleteRecommendation(rec)
	assert.Equal(t, before, s.Recommendations())
}

func TestHistory_DeleteMissingIsNoop(t *testing.T) {
	s := newTestState()
	rec := s.AppendRecommendation(KindCropPlanner, "t", "b")
	before := s.Recommendations()

	ghost := rec
	ghost.Body = "edited"
	s.DeleteRecommendation(ghost)
	s.DeleteRecommendation(RecommendationRecord{})
	assert.Equal(t, before, s.Recommendations())

	_, err := s.FindRecommendation("nope")
	assert.True(t, IsNotFound(err))
}

func TestHistory_DeleteRemovesFirstMatchOnly(t *testing.T) {
	s := New(
		WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string { return "same" }),
	)
	a := s.AppendRecommendation(KindCropPlanner, "t", "b")
	s.AppendRecommendation(KindCropPlanner, "t", "b")

	s.DeleteRecommendation(a)
	assert.Equal(t, 1, s.RecommendationCount())
}

func TestHistory_DeleteDoesNotAliasSnapshots(t *testing.T) {
	s := newTestState()
	first := s.AppendRecommendation(KindCropPlanner, "a", "1")
	s.AppendRecommendation(KindCropPlanner, "b", "2")
	snapshot := s.Recommendations()

	s.DeleteRecommendation(first)
	assert.Len(t, snapshot, 2)
	assert.Equal(t, "b", snapshot[0].Title)
	assert.Equal(t, "a", snapshot[1].Title)
}

func TestChatTranscript(t *testing.T) {
	s := newTestState()
	s.AppendChatMessage(RoleUser, "hi")
	s.AppendChatMessage(RoleAssistant, "hello")
	assert.Equal(t, []ChatMessage{{RoleUser, "hi"}, {RoleAssistant, "hello"}}, s.Chat())
	assert.Equal(t, 2, s.ChatCount())

	s.ClearChat()
	assert.Empty(t, s.Chat())
}

func TestWeatherCache(t *testing.T) {
	s := newTestState()
	assert.False(t, s.HasWeather())

	s.SetWeather(WeatherSnapshot{TemperatureC: 20, HumidityPct: 55, Description: "mist", IconID: "50d"})
	w := s.Weather()
	require.NotNil(t, w)
	w.TemperatureC = 99
	assert.Equal(t, 20, s.Weather().TemperatureC)

	s.ClearWeather()
	assert.Nil(t, s.Weather())
}

func TestReset(t *testing.T) {
	s := newTestState()
	id := s.ID
	_, err := s.CreateProfile("Ada", "Enugu", "Small (< 5 acres)", "", "Beginner (0-2 years)")
	require.NoError(t, err)
	s.AppendRecommendation(KindCropPlanner, "t", "b")
	s.AppendChatMessage(RoleUser, "q")
	s.SetPage(pages.Dashboard)

	s.Reset()
	assert.Equal(t, id, s.ID)
	assert.Nil(t, s.Profile())
	assert.Empty(t, s.Recommendations())
	assert.Empty(t, s.Chat())
	assert.Equal(t, pages.Welcome, s.Page())
}
