// Package pages describes the pages of the advisory app: their identity, the inputs
// each page form accepts, and the static content some pages render.
package pages

import (
	"fmt"
)

// ID identifies a page. The set is closed; see All.
type ID string

const (
	Welcome        ID = "welcome"
	ProfileSetup   ID = "profile_setup"
	Dashboard      ID = "dashboard"
	CropPlanner    ID = "crop_planner"
	SoilOptimizer  ID = "soil_optimizer"
	PestIdentifier ID = "pest_identifier"
	WeatherAlerts  ID = "weather_alerts"
	CostTips       ID = "cost_tips"
	Chat           ID = "chat"
	History        ID = "history"
	Settings       ID = "settings"
)

// All lists every page in navigation order.
var All = []ID{
	Welcome, ProfileSetup, Dashboard,
	CropPlanner, SoilOptimizer, PestIdentifier,
	WeatherAlerts, CostTips, Chat, History, Settings,
}

// Valid reports whether id is one of the known pages.
func (id ID) Valid() bool {
	for _, known := range All {
		if id == known {
			return true
		}
	}
	return false
}

// Advisory reports whether the page calls the model and saves a recommendation.
func (id ID) Advisory() bool {
	switch id {
	case CropPlanner, SoilOptimizer, PestIdentifier:
		return true
	}
	return false
}

// InApp reports whether the page is only reachable once a profile exists.
func (id ID) InApp() bool {
	return id.Valid() && id != Welcome && id != ProfileSetup
}

// Parse converts s to a page ID.
func Parse(s string) (ID, error) {
	id := ID(s)
	if !id.Valid() {
		return "", fmt.Errorf("unknown page: %q", s)
	}
	return id, nil
}
