package controller

import (
	"errors"
	"fmt"

	"github.com/ChamsBouzaiene/harvest/internal/pages"
)

var (
	// ErrInvalidTransition is returned for an action the current page does not accept.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnknownAction is returned when parsing an action name outside the closed set.
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnknownPage is returned when the session sits on a page with no handler.
	ErrUnknownPage = errors.New("unknown page")
	// ErrNoForm is returned by Submit on pages that take no input.
	ErrNoForm = errors.New("page has no form")
)

// Action is a named user action that may move the session to another page.
type Action string

const (
	ActionGetStarted         Action = "get_started"
	ActionCreateProfile      Action = "create_profile"
	ActionOpenDashboard      Action = "open_dashboard"
	ActionOpenCropPlanner    Action = "open_crop_planner"
	ActionOpenSoilOptimizer  Action = "open_soil_optimizer"
	ActionOpenPestIdentifier Action = "open_pest_identifier"
	ActionOpenWeatherAlerts  Action = "open_weather_alerts"
	ActionOpenCostTips       Action = "open_cost_tips"
	ActionOpenChat           Action = "open_chat"
	ActionOpenHistory        Action = "open_history"
	ActionOpenSettings       Action = "open_settings"
	ActionSignOut            Action = "sign_out"
)

// Actions lists every action.
var Actions = []Action{
	ActionGetStarted, ActionCreateProfile,
	ActionOpenDashboard, ActionOpenCropPlanner, ActionOpenSoilOptimizer, ActionOpenPestIdentifier,
	ActionOpenWeatherAlerts, ActionOpenCostTips, ActionOpenChat, ActionOpenHistory, ActionOpenSettings,
	ActionSignOut,
}

// ParseAction converts s to an Action.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// navigation holds the unguarded sidebar and dashboard-tool actions, accepted
// from every in-app page.
var navigation = map[Action]pages.ID{
	ActionOpenDashboard:      pages.Dashboard,
	ActionOpenCropPlanner:    pages.CropPlanner,
	ActionOpenSoilOptimizer:  pages.SoilOptimizer,
	ActionOpenPestIdentifier: pages.PestIdentifier,
	ActionOpenWeatherAlerts:  pages.WeatherAlerts,
	ActionOpenCostTips:       pages.CostTips,
	ActionOpenChat:           pages.Chat,
	ActionOpenHistory:        pages.History,
	ActionOpenSettings:       pages.Settings,
}

// transitions is the full (page, action) -> page table. The welcome entry is
// the unguarded target; get_started is redirected to the dashboard when a
// profile already exists.
var transitions = buildTransitions()

func buildTransitions() map[pages.ID]map[Action]pages.ID {
	t := map[pages.ID]map[Action]pages.ID{
		pages.Welcome:      {ActionGetStarted: pages.ProfileSetup},
		pages.ProfileSetup: {ActionCreateProfile: pages.Dashboard},
	}
	for _, page := range pages.All {
		if !page.InApp() {
			continue
		}
		row := make(map[Action]pages.ID, len(navigation)+1)
		for action, target := range navigation {
			row[action] = target
		}
		if page == pages.Settings {
			row[ActionSignOut] = pages.Welcome
		}
		t[page] = row
	}
	return t
}

// Next returns the page action leads to from page, given whether a profile exists.
func Next(page pages.ID, action Action, hasProfile bool) (pages.ID, error) {
	row, ok := transitions[page]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	target, ok := row[action]
	if !ok {
		return "", fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, page)
	}
	if page == pages.Welcome && action == ActionGetStarted && hasProfile {
		return pages.Dashboard, nil
	}
	return target, nil
}

// Available lists the actions page accepts, in declaration order.
func Available(page pages.ID) []Action {
	row := transitions[page]
	out := make([]Action, 0, len(row))
	for _, a := range Actions {
		if _, ok := row[a]; ok {
			out = append(out, a)
		}
	}
	return out
}
