// Package controller drives one advisory session: it owns the page state
// machine and dispatches page submissions to the profile store, the prompt
// builders, the completion gateway and the history store.
package controller

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/gateway"
	"github.com/ChamsBouzaiene/harvest/internal/pages"
	"github.com/ChamsBouzaiene/harvest/internal/search"
	"github.com/ChamsBouzaiene/harvest/internal/session"
)

// WeatherSource returns current conditions for a location, or nil when
// unavailable. *weather.Client implements it.
type WeatherSource interface {
	Get(ctx context.Context, location string) *session.WeatherSnapshot
}

// Controller is the navigation controller for a single session. Like the
// session it drives, it is not safe for concurrent use.
type Controller struct {
	state     *session.State
	completer gateway.Completer
	weather   WeatherSource
	catalog   *pages.Catalog
	index     *search.Index
	logger    *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithCatalog replaces the embedded static content catalog.
func WithCatalog(cat *pages.Catalog) Option {
	return func(c *Controller) { c.catalog = cat }
}

// New creates a controller over state. weather may be nil, in which case
// weather is never available.
func New(state *session.State, completer gateway.Completer, weather WeatherSource, opts ...Option) (*Controller, error) {
	if state == nil {
		return nil, fmt.Errorf("controller: session state is required")
	}
	if completer == nil {
		completer = gateway.New(nil, "", nil)
	}

	c := &Controller{
		state:     state,
		completer: completer,
		weather:   weather,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("session_id", state.ID))

	if c.catalog == nil {
		cat, err := pages.LoadCatalog()
		if err != nil {
			return nil, err
		}
		c.catalog = cat
	}

	idx, err := search.NewIndex()
	if err != nil {
		return nil, err
	}
	c.index = idx

	return c, nil
}

// Close clears the session and releases the history search index.
func (c *Controller) Close() error {
	c.state.Reset()
	return c.index.Close()
}

// Page returns the active page.
func (c *Controller) Page() pages.ID { return c.state.Page() }

// Profile returns a copy of the profile, or nil when signed out.
func (c *Controller) Profile() *session.Profile { return c.state.Profile() }

// Recommendations returns saved recommendations newest first.
func (c *Controller) Recommendations() []session.RecommendationRecord {
	return c.state.Recommendations()
}

// Chat returns the chat transcript in order.
func (c *Controller) Chat() []session.ChatMessage { return c.state.Chat() }

// Actions lists the actions the active page accepts.
func (c *Controller) Actions() []Action { return Available(c.state.Page()) }

// GoTo performs a navigation action from the active page and returns the new page.
// create_profile is only reachable through Submit on the profile setup page.
func (c *Controller) GoTo(action Action) (pages.ID, error) {
	from := c.state.Page()
	if action == ActionCreateProfile {
		return from, fmt.Errorf("%w: %s requires the profile form", ErrInvalidTransition, action)
	}

	next, err := Next(from, action, c.state.HasProfile())
	if err != nil {
		return from, err
	}

	if action == ActionSignOut {
		c.signOut()
	} else {
		c.state.SetPage(next)
	}

	c.logger.Debug("navigated",
		zap.String("from", string(from)),
		zap.String("action", string(action)),
		zap.String("to", string(next)))
	return next, nil
}

// SignOut performs the sign_out action from the settings page.
func (c *Controller) SignOut() error {
	_, err := c.GoTo(ActionSignOut)
	return err
}

// signOut drops the profile and the weather cached for its location and
// returns to the welcome page. History and chat are kept.
func (c *Controller) signOut() {
	c.state.ClearProfile()
	c.state.ClearWeather()
	c.state.SetPage(pages.Welcome)
	c.logger.Info("signed out")
}

// Weather returns the session's weather snapshot, fetching it for the profile
// location on first use. Only a non-nil result is cached.
func (c *Controller) Weather(ctx context.Context) *session.WeatherSnapshot {
	if c.state.HasWeather() {
		return c.state.Weather()
	}

	p := c.state.Profile()
	if p == nil || strings.TrimSpace(p.Location) == "" || c.weather == nil {
		return nil
	}

	snap := c.weather.Get(ctx, p.Location)
	if snap == nil {
		return nil
	}
	c.state.SetWeather(*snap)
	return c.state.Weather()
}

// DashboardView is what the dashboard page shows.
type DashboardView struct {
	FirstName       string                   `json:"first_name"`
	ActiveCrops     int                      `json:"active_crops"`
	Recommendations int                      `json:"recommendations"`
	ChatMessages    int                      `json:"chat_messages"`
	Weather         *session.WeatherSnapshot `json:"weather,omitempty"`
	Tools           []Action                 `json:"tools"`
}

// Dashboard assembles the dashboard view, fetching weather if needed.
func (c *Controller) Dashboard(ctx context.Context) DashboardView {
	view := DashboardView{
		FirstName:       "Farmer",
		Recommendations: c.state.RecommendationCount(),
		ChatMessages:    c.state.ChatCount(),
		Weather:         c.Weather(ctx),
		Tools: []Action{
			ActionOpenCropPlanner, ActionOpenPestIdentifier, ActionOpenSoilOptimizer,
			ActionOpenCostTips, ActionOpenWeatherAlerts, ActionOpenChat,
		},
	}

	if p := c.state.Profile(); p != nil {
		if fields := strings.Fields(p.FullName); len(fields) > 0 {
			view.FirstName = fields[0]
		}
		if p.PrimaryCrops != "" {
			view.ActiveCrops = len(strings.Split(p.PrimaryCrops, ","))
		}
	}
	return view
}

// SearchHistory runs a full-text search over saved recommendations. kind may
// be empty to search every kind.
func (c *Controller) SearchHistory(query string, kind session.RecommendationKind) ([]session.RecommendationRecord, error) {
	if err := c.index.Sync(c.state.Recommendations()); err != nil {
		return nil, err
	}

	hits, err := c.index.Search(query, kind, 0)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("history searched",
		zap.String("kind", string(kind)),
		zap.Int("indexed", c.index.Len()),
		zap.Int("hits", len(hits)))

	out := make([]session.RecommendationRecord, 0, len(hits))
	for _, h := range hits {
		rec, err := c.state.FindRecommendation(h.ID)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// DeleteRecommendation removes the saved recommendation with the given ID.
func (c *Controller) DeleteRecommendation(id string) (session.RecommendationRecord, error) {
	rec, err := c.state.FindRecommendation(id)
	if err != nil {
		return session.RecommendationRecord{}, err
	}
	c.state.DeleteRecommendation(rec)
	c.logger.Info("recommendation deleted", zap.String("id", id), zap.String("kind", string(rec.Kind)))
	return rec, nil
}
