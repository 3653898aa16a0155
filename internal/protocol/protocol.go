// Package protocol defines the NDJSON messages exchanged between a front-end
// and `harvest engine --stdio`. Each line on stdin is one Command; each line on
// stdout is one Event.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ChamsBouzaiene/harvest/internal/controller"
	"github.com/ChamsBouzaiene/harvest/internal/session"
)

// CommandType enumerates all supported front-end -> engine commands.
type CommandType string

const (
	CommandStartSession  CommandType = "start_session"
	CommandEndSession    CommandType = "end_session"
	CommandNavigate      CommandType = "navigate"
	CommandSubmit        CommandType = "submit"
	CommandGetState      CommandType = "get_state"
	CommandGetDashboard  CommandType = "get_dashboard"
	CommandSearchHistory CommandType = "search_history"
	CommandDeleteRecord  CommandType = "delete_recommendation"
	CommandSaveConfig    CommandType = "save_config"
	CommandGetConfig     CommandType = "get_config"
)

// Command is a marker interface implemented by all protocol commands.
type Command interface {
	GetType() CommandType
}

// StartSessionCommand opens a fresh advisory session on the welcome page.
type StartSessionCommand struct {
	Type      CommandType `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
}

func (c StartSessionCommand) GetType() CommandType { return CommandStartSession }

// EndSessionCommand discards a session and everything in it.
type EndSessionCommand struct {
	Type      CommandType `json:"type"`
	SessionID string      `json:"session_id"`
}

func (c EndSessionCommand) GetType() CommandType { return CommandEndSession }

// NavigateCommand performs one navigation action.
type NavigateCommand struct {
	Type      CommandType `json:"type"`
	SessionID string      `json:"session_id"`
	Action    string      `json:"action"`
}

func (c NavigateCommand) GetType() CommandType { return CommandNavigate }

// SubmitCommand submits the active page's form.
type SubmitCommand struct {
	Type      CommandType    `json:"type"`
	SessionID string         `json:"session_id"`
	RequestID string         `json:"request_id,omitempty"`
	Inputs    map[string]any `json:"inputs"`
}

func (c SubmitCommand) GetType() CommandType { return CommandSubmit }

// GetStateCommand asks for a state event.
type GetStateCommand struct {
	Type      CommandType `json:"type"`
	SessionID string      `json:"session_id"`
}

func (c GetStateCommand) GetType() CommandType { return CommandGetState }

// GetDashboardCommand asks for the dashboard view, fetching weather if needed.
type GetDashboardCommand struct {
	Type      CommandType `json:"type"`
	SessionID string      `json:"session_id"`
}

func (c GetDashboardCommand) GetType() CommandType { return CommandGetDashboard }

// SearchHistoryCommand runs a full-text search over saved recommendations.
type SearchHistoryCommand struct {
	Type      CommandType `json:"type"`
	SessionID string      `json:"session_id"`
	Query     string      `json:"query"`
	Kind      string      `json:"kind,omitempty"`
}

func (c SearchHistoryCommand) GetType() CommandType { return CommandSearchHistory }

// DeleteRecordCommand removes one saved recommendation by ID.
type DeleteRecordCommand struct {
	Type      CommandType `json:"type"`
	SessionID string      `json:"session_id"`
	ID        string      `json:"id"`
}

func (c DeleteRecordCommand) GetType() CommandType { return CommandDeleteRecord }

// SaveConfigCommand persists user configuration.
type SaveConfigCommand struct {
	Type   CommandType       `json:"type"`
	Config map[string]string `json:"config"`
}

func (c SaveConfigCommand) GetType() CommandType { return CommandSaveConfig }

// GetConfigCommand requests the current configuration.
type GetConfigCommand struct {
	Type CommandType `json:"type"`
}

func (c GetConfigCommand) GetType() CommandType { return CommandGetConfig }

type rawCommand struct {
	Type      CommandType `json:"type"`
	SessionID string      `json:"session_id"`
}

// sessionScoped lists the commands that must name an existing session.
var sessionScoped = map[CommandType]bool{
	CommandEndSession:    true,
	CommandNavigate:      true,
	CommandSubmit:        true,
	CommandGetState:      true,
	CommandGetDashboard:  true,
	CommandSearchHistory: true,
	CommandDeleteRecord:  true,
}

// DecodeCommand converts raw JSON into a strongly typed command.
func DecodeCommand(data []byte) (Command, error) {
	var base rawCommand
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	if sessionScoped[base.Type] && base.SessionID == "" {
		return nil, fmt.Errorf("%s requires session_id", base.Type)
	}

	var (
		cmd Command
		err error
	)
	switch base.Type {
	case CommandStartSession:
		cmd, err = decodeAs[StartSessionCommand](data)
	case CommandEndSession:
		cmd, err = decodeAs[EndSessionCommand](data)
	case CommandNavigate:
		var c NavigateCommand
		if c, err = decodeAs[NavigateCommand](data); err == nil && c.Action == "" {
			err = errors.New("navigate requires action")
		}
		cmd = c
	case CommandSubmit:
		var c SubmitCommand
		if c, err = decodeAs[SubmitCommand](data); err == nil && c.Inputs == nil {
			c.Inputs = map[string]any{}
		}
		cmd = c
	case CommandGetState:
		cmd, err = decodeAs[GetStateCommand](data)
	case CommandGetDashboard:
		cmd, err = decodeAs[GetDashboardCommand](data)
	case CommandSearchHistory:
		cmd, err = decodeAs[SearchHistoryCommand](data)
	case CommandDeleteRecord:
		var c DeleteRecordCommand
		if c, err = decodeAs[DeleteRecordCommand](data); err == nil && c.ID == "" {
			err = errors.New("delete_recommendation requires id")
		}
		cmd = c
	case CommandSaveConfig:
		cmd, err = decodeAs[SaveConfigCommand](data)
	case CommandGetConfig:
		cmd, err = decodeAs[GetConfigCommand](data)
	default:
		return nil, fmt.Errorf("unknown command type: %s", base.Type)
	}
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

func decodeAs[T Command](data []byte) (T, error) {
	var cmd T
	if err := json.Unmarshal(data, &cmd); err != nil {
		return cmd, fmt.Errorf("decode %s: %w", cmd.GetType(), err)
	}
	return cmd, nil
}

// NewSessionID generates a new opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// EventType enumerates engine -> front-end events.
type EventType string

const (
	EventStatus        EventType = "status"
	EventState         EventType = "state"
	EventResult        EventType = "result"
	EventDashboard     EventType = "dashboard"
	EventHistory       EventType = "history"
	EventError         EventType = "error"
	EventSetupRequired EventType = "setup_required"
	EventConfigLoaded  EventType = "config_loaded"
)

// Event is implemented by every outgoing message.
type Event interface {
	isEvent()
	GetType() EventType
}

// MarshalEvent serializes an event into JSON for NDJSON transport.
func MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}

type eventBase struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

func (eventBase) isEvent() {}

// StatusEvent communicates coarse engine state.
type StatusEvent struct {
	eventBase
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// NewStatusEvent constructs a status event.
func NewStatusEvent(sessionID, status, detail string) StatusEvent {
	return StatusEvent{
		eventBase: eventBase{Type: EventStatus, SessionID: sessionID},
		Status:    status,
		Detail:    detail,
	}
}

func (e StatusEvent) GetType() EventType { return e.Type }

// StateEvent reports the active page and what it accepts.
type StateEvent struct {
	eventBase
	Page            string              `json:"page"`
	Advisory        bool                `json:"advisory"`
	Actions         []controller.Action `json:"actions"`
	Profile         *session.Profile    `json:"profile,omitempty"`
	Recommendations int                 `json:"recommendations"`
	ChatMessages    int                 `json:"chat_messages"`
}

// NewStateEvent snapshots ctrl into a state event.
func NewStateEvent(sessionID string, ctrl *controller.Controller) StateEvent {
	return StateEvent{
		eventBase:       eventBase{Type: EventState, SessionID: sessionID},
		Page:            string(ctrl.Page()),
		Advisory:        ctrl.Page().Advisory(),
		Actions:         ctrl.Actions(),
		Profile:         ctrl.Profile(),
		Recommendations: len(ctrl.Recommendations()),
		ChatMessages:    len(ctrl.Chat()),
	}
}

func (e StateEvent) GetType() EventType { return e.Type }

// ResultEvent carries the outcome of a submit command.
type ResultEvent struct {
	eventBase
	RequestID string            `json:"request_id,omitempty"`
	Result    controller.Result `json:"result"`
}

// NewResultEvent constructs a result event.
func NewResultEvent(sessionID, requestID string, res controller.Result) ResultEvent {
	return ResultEvent{
		eventBase: eventBase{Type: EventResult, SessionID: sessionID},
		RequestID: requestID,
		Result:    res,
	}
}

func (e ResultEvent) GetType() EventType { return e.Type }

// DashboardEvent carries the dashboard view.
type DashboardEvent struct {
	eventBase
	Dashboard controller.DashboardView `json:"dashboard"`
}

// NewDashboardEvent constructs a dashboard event.
func NewDashboardEvent(sessionID string, view controller.DashboardView) DashboardEvent {
	return DashboardEvent{
		eventBase: eventBase{Type: EventDashboard, SessionID: sessionID},
		Dashboard: view,
	}
}

func (e DashboardEvent) GetType() EventType { return e.Type }

// HistoryEvent lists recommendation records, newest first.
type HistoryEvent struct {
	eventBase
	Query   string                         `json:"query,omitempty"`
	Records []session.RecommendationRecord `json:"records"`
}

// NewHistoryEvent constructs a history event.
func NewHistoryEvent(sessionID, query string, records []session.RecommendationRecord) HistoryEvent {
	if records == nil {
		records = []session.RecommendationRecord{}
	}
	return HistoryEvent{
		eventBase: eventBase{Type: EventHistory, SessionID: sessionID},
		Query:     query,
		Records:   records,
	}
}

func (e HistoryEvent) GetType() EventType { return e.Type }

// ErrorEvent reports recoverable protocol or engine issues.
type ErrorEvent struct {
	eventBase
	Message string   `json:"message"`
	Kind    string   `json:"kind,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Details string   `json:"details,omitempty"`
}

// NewErrorEvent constructs an error event.
func NewErrorEvent(sessionID, message, kind, details string) ErrorEvent {
	return ErrorEvent{
		eventBase: eventBase{Type: EventError, SessionID: sessionID},
		Message:   message,
		Kind:      kind,
		Details:   details,
	}
}

func (e ErrorEvent) GetType() EventType { return e.Type }

// SetupRequiredEvent tells the front-end no config file exists yet.
type SetupRequiredEvent struct {
	eventBase
}

// NewSetupRequiredEvent constructs a setup_required event.
func NewSetupRequiredEvent() SetupRequiredEvent {
	return SetupRequiredEvent{eventBase: eventBase{Type: EventSetupRequired}}
}

func (e SetupRequiredEvent) GetType() EventType { return e.Type }

// ConfigLoadedEvent returns the current configuration with secrets masked.
type ConfigLoadedEvent struct {
	eventBase
	Config map[string]string `json:"config"`
}

// NewConfigLoadedEvent constructs a config_loaded event.
func NewConfigLoadedEvent(config map[string]string) ConfigLoadedEvent {
	return ConfigLoadedEvent{
		eventBase: eventBase{Type: EventConfigLoaded},
		Config:    config,
	}
}

func (e ConfigLoadedEvent) GetType() EventType { return e.Type }
