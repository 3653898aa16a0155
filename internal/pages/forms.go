package pages

import (
	"fmt"
)

func ptr(f float64) *float64 { return &f }

var forms = map[ID]*Form{
	ProfileSetup: {
		Page: ProfileSetup,
		Fields: []Field{
			{Name: "full_name", Kind: KindString, Required: true},
			{Name: "location", Kind: KindString, Required: true},
			{Name: "farm_size", Kind: KindString, Default: FarmSizeOptions[0].Label},
			{Name: "primary_crops", Kind: KindString, Default: ""},
			{Name: "experience_level", Kind: KindString, Default: ExperienceOptions[0].Label},
		},
	},
	CropPlanner: {
		Page: CropPlanner,
		Fields: []Field{
			{Name: "month", Kind: KindString, Required: true, Options: Months, Default: Months[0]},
			{Name: "weather", Kind: KindString, Required: true, Options: WeatherConditions, Default: WeatherConditions[0]},
			{Name: "soil", Kind: KindString, Required: true, Options: PlantingSoilTypes, Default: PlantingSoilTypes[0]},
		},
	},
	SoilOptimizer: {
		Page: SoilOptimizer,
		Fields: []Field{
			{Name: "ph", Kind: KindNumber, Required: true, Default: 6.5, Min: ptr(0), Max: ptr(14)},
			{Name: "soil_type", Kind: KindString, Required: true, Options: SoilTypes, Default: SoilTypes[0]},
			{Name: "problems", Kind: KindList, Options: SoilProblems, Default: []any{}},
		},
	},
	PestIdentifier: {
		Page: PestIdentifier,
		Fields: []Field{
			{Name: "crop", Kind: KindString, Required: true},
			{Name: "symptoms", Kind: KindString, Required: true},
		},
	},
	WeatherAlerts: {
		Page: WeatherAlerts,
		Fields: []Field{
			{Name: "stage", Kind: KindString, Required: true, Options: CropStages, Default: CropStages[0]},
			{Name: "activity", Kind: KindString, Required: true, Options: PlannedActivities, Default: PlannedActivities[0]},
			{Name: "urgency", Kind: KindString, Required: true, Options: Urgencies, Default: Urgencies[0]},
		},
	},
	CostTips: {
		Page: CostTips,
		Fields: []Field{
			{Name: "category", Kind: KindString, Required: true, Options: CostCategories, Default: CostCategories[0]},
		},
	},
	Chat: {
		Page: Chat,
		Fields: []Field{
			{Name: "message", Kind: KindString, Required: true},
		},
	},
	History: {
		Page: History,
		Fields: []Field{
			{Name: "action", Kind: KindString, Required: true, Options: HistoryActions, Default: HistoryActions[0]},
			{Name: "id", Kind: KindString, Required: true},
		},
	},
	Settings: {
		Page: Settings,
		Fields: []Field{
			{Name: "action", Kind: KindString, Required: true, Options: SettingsActions},
			{Name: "full_name", Kind: KindString},
			{Name: "location", Kind: KindString},
			{Name: "primary_crops", Kind: KindString},
		},
	},
}

func init() {
	for _, f := range forms {
		f.schema = buildSchema(f.Fields)
	}
}

// FormFor returns the submit form of page. Welcome and Dashboard have no form.
func FormFor(page ID) (*Form, error) {
	f, ok := forms[page]
	if !ok {
		return nil, fmt.Errorf("page %s has no form", page)
	}
	return f, nil
}
