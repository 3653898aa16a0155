package pages

// Option lists offered by the page forms. The first entry of each list is the
// form default.
var (
	FarmSizeOptions = []Option{
		{Label: "Small (< 5 acres)", Value: "small"},
		{Label: "Medium (5-50 acres)", Value: "medium"},
		{Label: "Large (50-200 acres)", Value: "large"},
		{Label: "Very Large (200+ acres)", Value: "very_large"},
	}

	ExperienceOptions = []Option{
		{Label: "Beginner (0-2 years)", Value: "beginner"},
		{Label: "Intermediate (3-10 years)", Value: "intermediate"},
		{Label: "Experienced (10+ years)", Value: "experienced"},
	}

	Months = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}

	WeatherConditions = []string{"Hot & Dry", "Hot & Humid", "Mild/Temperate", "Cold", "Rainy/Monsoon"}

	PlantingSoilTypes = []string{"Clay", "Sandy", "Loamy", "Silty", "Peaty"}

	SoilTypes = []string{"Clay", "Sandy", "Loamy", "Silty", "Chalky"}

	SoilProblems = []string{"Poor Drainage", "Compaction", "Low Nutrients", "Erosion"}

	CropStages = []string{
		"Planting/Seeding", "Germination", "Vegetative Growth",
		"Flowering", "Fruiting", "Ready for Harvest",
	}

	PlannedActivities = []string{
		"Irrigation/Watering", "Fertilizing", "Pesticide Spraying",
		"Harvesting", "Planting", "Soil Preparation",
	}

	Urgencies = []string{"Low", "Medium", "High"}

	CostCategories = []string{"water", "fertilizer", "pest", "energy", "planting"}

	HistoryActions = []string{"delete"}

	SettingsActions = []string{"update_profile", "clear_chat", "clear_recommendations", "refresh_weather"}
)

// Option is an offered label and the category value it stands for.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// OptionValue returns the value of the option labelled label. Labels that are
// not offered are returned unchanged.
func OptionValue(options []Option, label string) string {
	for _, o := range options {
		if o.Label == label {
			return o.Value
		}
	}
	return label
}
