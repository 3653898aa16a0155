package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/harvest/internal/pages"
)

// State owns everything one user session knows: the optional profile, the cached
// weather snapshot, saved recommendations, the chat transcript and the current page.
//
// A State is owned by exactly one request handler at a time and is not safe for
// concurrent use; callers that share it across goroutines must serialize access.
type State struct {
	ID string

	profile *Profile
	weather *WeatherSnapshot
	records []RecommendationRecord
	chat    []ChatMessage
	page    pages.ID

	now   func() time.Time
	newID func() string
}

// Option configures a State.
type Option func(*State)

// WithClock overrides the time source used for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithIDGenerator overrides the generator used for recommendation IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *State) { s.newID = gen }
}

// New creates a session with no profile, empty history and the welcome page active.
func New(opts ...Option) *State {
	s := &State{
		ID:    uuid.NewString(),
		page:  pages.Welcome,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page returns the active page.
func (s *State) Page() pages.ID { return s.page }

// SetPage moves the session to page. Transition rules are enforced by the controller.
func (s *State) SetPage(page pages.ID) { s.page = page }

// Weather returns a copy of the cached snapshot, or nil if none is cached.
func (s *State) Weather() *WeatherSnapshot {
	if s.weather == nil {
		return nil
	}
	w := *s.weather
	return &w
}

// HasWeather reports whether a snapshot is cached.
func (s *State) HasWeather() bool { return s.weather != nil }

// SetWeather caches snap for the rest of the session.
func (s *State) SetWeather(snap WeatherSnapshot) { s.weather = &snap }

// ClearWeather drops the cached snapshot so the next read fetches again.
func (s *State) ClearWeather() { s.weather = nil }

// Reset returns the session to its initial values, keeping its ID.
func (s *State) Reset() {
	s.profile = nil
	s.weather = nil
	s.records = nil
	s.chat = nil
	s.page = pages.Welcome
}
