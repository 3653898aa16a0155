package prompts

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/harvest/internal/session"
)

func testProfile() *session.Profile {
	return &session.Profile{
		FullName:        "Amina Otieno",
		Location:        "Nakuru, Kenya",
		FarmSize:        session.FarmSizeMedium,
		PrimaryCrops:    "Maize, Beans",
		ExperienceLevel: session.ExperienceIntermediate,
		CreatedAt:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewPromptRegistry()
	require.NoError(t, r.Register(&Prompt{ID: "a", Version: PromptV1, Content: "one"}))
	require.NoError(t, r.Register(&Prompt{ID: "a", Version: "1.1.0", Content: "two"}))
	require.NoError(t, r.Register(&Prompt{ID: "a", Version: "1.2.0", Content: "three", Deprecated: true}))

	assert.Error(t, r.Register(&Prompt{ID: "a", Version: PromptV1}), "duplicate version")
	assert.Error(t, r.Register(&Prompt{}), "missing ID")

	p, err := r.GetLatest("a")
	require.NoError(t, err)
	assert.Equal(t, "two", p.Content, "deprecated versions are skipped")

	_, err = r.Get("a", "9.9.9")
	assert.Error(t, err)
	_, err = r.Get("missing", PromptV1)
	assert.Error(t, err)
}

func TestRegistry_GetLatestComparesVersionsNumerically(t *testing.T) {
	r := NewPromptRegistry()
	r.MustRegister(&Prompt{ID: "a", Version: "1.9.0", Content: "nine"})
	r.MustRegister(&Prompt{ID: "a", Version: "1.10.0", Content: "ten"})
	r.MustRegister(&Prompt{ID: "a", Version: "1.2", Content: "two"})

	p, err := r.GetLatest("a")
	require.NoError(t, err)
	assert.Equal(t, PromptVersion("1.10.0"), p.Version)

	tests := []struct {
		a, b PromptVersion
		want bool
	}{
		{"2.0.0", "1.99.99", true},
		{"1.0.1", "1.0", true},
		{"1.0", "1.0.0", false},
		{"1.0.0", "1.0.0", false},
		{"1.0.0-beta", "1.0.0-alpha", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.a.newerThan(tt.b), "%s > %s", tt.a, tt.b)
	}
}

func TestDefaultRegistry_HasFarmingPrompts(t *testing.T) {
	for _, id := range []string{SystemID, CropPlannerID, SoilOptimizerID, PestIdentifierID, ChatID} {
		p, err := DefaultRegistry().GetLatest(id)
		require.NoError(t, err, id)
		assert.Equal(t, PromptV1, p.Version)
	}
}

func TestBuilder(t *testing.T) {
	r := NewPromptRegistry()
	r.MustRegister(&Prompt{ID: "t", Version: PromptV1, Content: "Hello {{name}} from {{place}}"})

	t.Run("substitutes once", func(t *testing.T) {
		b, err := NewPromptBuilder(r, "t", PromptV1)
		require.NoError(t, err)
		out, err := b.SetVariable("name", "{{place}}").SetVariable("place", "Kisumu").Build()
		require.NoError(t, err)
		assert.Equal(t, "Hello {{place}} from Kisumu", out)
	})

	t.Run("missing variable", func(t *testing.T) {
		b, err := NewPromptBuilder(r, "t", PromptV1)
		require.NoError(t, err)
		_, err = b.SetVariable("name", "x").Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "place")
	})
}

func TestCropPlanner(t *testing.T) {
	req, err := CropPlanner(testProfile(), CropPlannerInput{Month: "March", Weather: "Hot & Dry", Soil: "Loamy"})
	require.NoError(t, err)

	assert.Equal(t, "You are a helpful and knowledgeable farming assistant. Provide practical, actionable advice for farmers. Be specific, detailed, and consider the farmer's unique situation.", req.System)
	assert.True(t, strings.HasPrefix(req.User, "As an expert agricultural advisor, recommend the best crops"))
	assert.Equal(t, "crop_planner@1.0.0", req.Template())
	for _, want := range []string{
		"Location: Nakuru, Kenya\n",
		"Planting Month: March\n",
		"Weather Conditions: Hot & Dry\n",
		"Soil Type: Loamy\n",
		"Farm Size: medium\n",
		"Current Crops: Maize, Beans\n",
		"Experience: intermediate\n",
		"Provide 3-5 specific crop recommendations with:",
		"5. Potential challenges to watch for",
	} {
		assert.Contains(t, req.User, want)
	}
}

func TestCropPlanner_Fallbacks(t *testing.T) {
	req, err := CropPlanner(nil, CropPlannerInput{Month: "July", Weather: "Cold", Soil: "Clay"})
	require.NoError(t, err)
	assert.Contains(t, req.User, "Location: Not specified\n")
	assert.Contains(t, req.User, "Farm Size: small\n")
	assert.Contains(t, req.User, "Current Crops: None\n")
	assert.Contains(t, req.User, "Experience: beginner\n")

	p := testProfile()
	p.PrimaryCrops = ""
	req, err = CropPlanner(p, CropPlannerInput{Month: "July", Weather: "Cold", Soil: "Clay"})
	require.NoError(t, err)
	assert.Contains(t, req.User, "Current Crops: None\n")
}

func TestSoilOptimizer(t *testing.T) {
	tests := []struct {
		name     string
		profile  *session.Profile
		in       SoilOptimizerInput
		contains []string
	}{
		{
			name:    "with problems",
			profile: testProfile(),
			in:      SoilOptimizerInput{PH: 5.8, SoilType: "Clay", Problems: []string{"Poor Drainage", "Compaction"}},
			contains: []string{
				"- Crops: Maize, Beans\n",
				"- pH Level: 5.8\n",
				"- Soil Type: Clay\n",
				"- Problems: Poor Drainage, Compaction\n",
				"6. Cost-effective solutions suitable for their farm size",
			},
		},
		{
			name:    "no problems, no profile",
			profile: nil,
			in:      SoilOptimizerInput{PH: 7, SoilType: "Chalky"},
			contains: []string{
				"- Location: Not specified\n",
				"- Crops: Various crops\n",
				"- pH Level: 7.0\n",
				"- Problems: None specified\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := SoilOptimizer(tt.profile, tt.in)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, req.User, want)
			}
		})
	}
}

func TestPestIdentifier(t *testing.T) {
	req, err := PestIdentifier(testProfile(), PestIdentifierInput{Crop: "Tomatoes", Symptoms: "yellow leaves with holes"})
	require.NoError(t, err)
	assert.Contains(t, req.User, "- Location: Nakuru, Kenya\n- Farm Size: medium\n")
	assert.Contains(t, req.User, "- Affected Crop: Tomatoes\n- Symptoms: yellow leaves with holes\n")
	assert.Contains(t, req.User, "7. When to seek professional help")
}

func TestChat(t *testing.T) {
	req, err := Chat(nil, "When should I plant maize?")
	require.NoError(t, err)
	assert.Contains(t, req.User, "- Name: Farmer\n")
	assert.Contains(t, req.User, "- Crops: Various\n")
	assert.Contains(t, req.User, "Farmer's Question: When should I plant maize?\n")

	req, err = Chat(testProfile(), "{{name}}?")
	require.NoError(t, err)
	assert.Contains(t, req.User, "- Name: Amina Otieno\n")
	assert.Contains(t, req.User, "Farmer's Question: {{name}}?\n", "user text is not expanded")
}

func TestBuildersAreDeterministic(t *testing.T) {
	p := testProfile()
	soil := SoilOptimizerInput{PH: 6.2, SoilType: "Sandy", Problems: []string{"Erosion", "Low Nutrients"}}

	first, err := SoilOptimizer(p, soil)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := SoilOptimizer(p, soil)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}

	c1, err := Chat(p, "hello")
	require.NoError(t, err)
	c2, err := Chat(p, "hello")
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestFormatPH(t *testing.T) {
	assert.Equal(t, "6.5", FormatPH(6.5))
	assert.Equal(t, "7.0", FormatPH(7))
	assert.Equal(t, "0.0", FormatPH(0))
	assert.Equal(t, "6.55", FormatPH(6.55))
}
