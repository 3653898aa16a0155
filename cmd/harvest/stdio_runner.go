package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/config"
	"github.com/ChamsBouzaiene/harvest/internal/controller"
	"github.com/ChamsBouzaiene/harvest/internal/gateway"
	"github.com/ChamsBouzaiene/harvest/internal/protocol"
	"github.com/ChamsBouzaiene/harvest/internal/session"
)

func runStdIOEngine(ctx context.Context, env *runtimeEnv, in io.Reader, out io.Writer) error {
	env.logger.Info("starting engine stdio bridge")
	runner := newStdIORunner(in, out, env)
	runner.emitEvent(protocol.NewStatusEvent("", "engine_ready", "stdio protocol ready"))
	return runner.Run(ctx)
}

// stdioRunner reads commands line by line and applies them in order. Events
// are written by a single goroutine so lines never interleave.
type stdioRunner struct {
	scanner *bufio.Scanner
	writer  *bufio.Writer
	events  chan protocol.Event
	env     *runtimeEnv
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*controller.Controller
}

func newStdIORunner(in io.Reader, out io.Writer, env *runtimeEnv) *stdioRunner {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	r := &stdioRunner{
		scanner:  scanner,
		writer:   bufio.NewWriter(out),
		events:   make(chan protocol.Event, 256),
		env:      env,
		logger:   env.logger.Named("stdio"),
		sessions: make(map[string]*controller.Controller),
	}
	if env.config != nil && !env.config.Exists() {
		r.emitEvent(protocol.NewSetupRequiredEvent())
	}
	return r
}

func (r *stdioRunner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer r.closeSessions()

	errCh := make(chan error, 1)
	go r.flushEvents(errCh)

	for ctx.Err() == nil && r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		if err := r.handleLine(ctx, line); err != nil {
			r.logger.Debug("stdio command error", zap.Error(err))
		}
	}

	if err := r.scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		r.emitEvent(protocol.NewErrorEvent("", fmt.Sprintf("stdin error: %v", err), "protocol_error", ""))
	}
	close(r.events)
	return <-errCh
}

func (r *stdioRunner) flushEvents(errCh chan<- error) {
	for ev := range r.events {
		if err := r.writeEvent(ev); err != nil {
			// Keep draining so emitters never block.
			for range r.events {
			}
			errCh <- err
			return
		}
	}
	errCh <- r.writer.Flush()
}

func (r *stdioRunner) writeEvent(ev protocol.Event) error {
	payload, err := protocol.MarshalEvent(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := r.writer.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return r.writer.Flush()
}

func (r *stdioRunner) emitEvent(ev protocol.Event) {
	r.events <- ev
}

func (r *stdioRunner) handleLine(ctx context.Context, line string) error {
	cmd, err := protocol.DecodeCommand([]byte(line))
	if err != nil {
		r.emitEvent(protocol.NewErrorEvent("", err.Error(), "invalid_command", truncate(line, 256)))
		return err
	}

	switch c := cmd.(type) {
	case protocol.StartSessionCommand:
		return r.startSession(c)
	case protocol.EndSessionCommand:
		return r.endSession(c.SessionID)
	case protocol.GetConfigCommand:
		return r.getConfig()
	case protocol.SaveConfigCommand:
		return r.saveConfig(c)
	}

	id, ctrl, err := r.sessionFor(cmd)
	if err != nil {
		r.emitEvent(protocol.NewErrorEvent(id, err.Error(), "session_error", ""))
		return err
	}

	switch c := cmd.(type) {
	case protocol.GetStateCommand:
		r.emitEvent(protocol.NewStateEvent(id, ctrl))
	case protocol.NavigateCommand:
		action, err := controller.ParseAction(c.Action)
		if err == nil {
			_, err = ctrl.GoTo(action)
		}
		if err != nil {
			r.emitError(id, err)
			return err
		}
		r.emitEvent(protocol.NewStateEvent(id, ctrl))
	case protocol.SubmitCommand:
		r.emitEvent(protocol.NewStatusEvent(id, "working", string(ctrl.Page())))
		res, err := ctrl.Submit(ctx, c.Inputs)
		if err != nil {
			r.emitError(id, err)
			return err
		}
		r.emitEvent(protocol.NewResultEvent(id, c.RequestID, res))
		r.emitEvent(protocol.NewStateEvent(id, ctrl))
	case protocol.GetDashboardCommand:
		if !ctrl.Page().InApp() {
			err := errors.New("dashboard requires a profile")
			r.emitError(id, err)
			return err
		}
		r.emitEvent(protocol.NewDashboardEvent(id, ctrl.Dashboard(ctx)))
	case protocol.SearchHistoryCommand:
		var (
			recs []session.RecommendationRecord
			err  error
		)
		if strings.TrimSpace(c.Query) == "" && c.Kind == "" {
			recs = ctrl.Recommendations()
		} else {
			recs, err = ctrl.SearchHistory(c.Query, session.RecommendationKind(c.Kind))
		}
		if err != nil {
			r.emitError(id, err)
			return err
		}
		r.emitEvent(protocol.NewHistoryEvent(id, c.Query, recs))
	case protocol.DeleteRecordCommand:
		if _, err := ctrl.DeleteRecommendation(c.ID); err != nil {
			r.emitError(id, err)
			return err
		}
		r.emitEvent(protocol.NewHistoryEvent(id, "", ctrl.Recommendations()))
	default:
		err := fmt.Errorf("unhandled command type: %s", cmd.GetType())
		r.emitEvent(protocol.NewErrorEvent(id, err.Error(), "invalid_command", ""))
		return err
	}
	return nil
}

func (r *stdioRunner) startSession(c protocol.StartSessionCommand) error {
	id := c.SessionID
	if id == "" {
		id = protocol.NewSessionID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; exists {
		err := fmt.Errorf("session %s already exists", id)
		r.emitEvent(protocol.NewErrorEvent(id, err.Error(), "session_error", ""))
		return err
	}

	ctrl, err := r.env.newController()
	if err != nil {
		r.emitEvent(protocol.NewErrorEvent(id, err.Error(), "session_error", ""))
		return err
	}
	r.sessions[id] = ctrl

	detail := "model=" + r.env.gateway.String()
	if !r.env.gateway.Configured() {
		detail = "model=unconfigured"
	}
	r.emitEvent(protocol.NewStatusEvent(id, "session_ready", detail))
	r.emitEvent(protocol.NewStateEvent(id, ctrl))
	return nil
}

func (r *stdioRunner) endSession(id string) error {
	r.mu.Lock()
	ctrl, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		err := fmt.Errorf("unknown session: %s", id)
		r.emitEvent(protocol.NewErrorEvent(id, err.Error(), "session_error", ""))
		return err
	}
	_ = ctrl.Close()
	r.emitEvent(protocol.NewStatusEvent(id, "session_closed", ""))
	return nil
}

func (r *stdioRunner) sessionFor(cmd protocol.Command) (string, *controller.Controller, error) {
	var id string
	switch c := cmd.(type) {
	case protocol.GetStateCommand:
		id = c.SessionID
	case protocol.NavigateCommand:
		id = c.SessionID
	case protocol.SubmitCommand:
		id = c.SessionID
	case protocol.GetDashboardCommand:
		id = c.SessionID
	case protocol.SearchHistoryCommand:
		id = c.SessionID
	case protocol.DeleteRecordCommand:
		id = c.SessionID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ctrl, ok := r.sessions[id]
	if !ok {
		return id, nil, fmt.Errorf("unknown session: %s", id)
	}
	return id, ctrl, nil
}

func (r *stdioRunner) closeSessions() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ctrl := range r.sessions {
		_ = ctrl.Close()
		delete(r.sessions, id)
	}
}

func (r *stdioRunner) getConfig() error {
	if r.env.config == nil {
		err := errors.New("config manager not initialized")
		r.emitEvent(protocol.NewErrorEvent("", err.Error(), "config_error", ""))
		return err
	}
	cfg, err := r.env.config.Load()
	if err != nil {
		r.emitEvent(protocol.NewErrorEvent("", err.Error(), "config_error", ""))
		return err
	}
	r.emitEvent(protocol.NewConfigLoadedEvent(configView(cfg)))
	return nil
}

// saveConfig persists the given keys over the saved config. New sessions keep
// using the model chosen at startup; a restart picks the change up.
func (r *stdioRunner) saveConfig(c protocol.SaveConfigCommand) error {
	if r.env.config == nil {
		err := errors.New("config manager not initialized")
		r.emitEvent(protocol.NewErrorEvent("", err.Error(), "config_error", ""))
		return err
	}
	cfg, err := r.env.config.Load()
	if err != nil {
		cfg = &config.Config{}
	}
	for key, value := range c.Config {
		if err := cfg.Set(key, value); err != nil {
			r.emitEvent(protocol.NewErrorEvent("", err.Error(), "config_error", ""))
			return err
		}
	}
	if err := r.env.config.Save(cfg); err != nil {
		r.emitEvent(protocol.NewErrorEvent("", err.Error(), "config_error", ""))
		return err
	}
	r.emitEvent(protocol.NewStatusEvent("", "config_saved", r.env.config.GetConfigPath()))
	r.emitEvent(protocol.NewConfigLoadedEvent(configView(cfg)))
	return nil
}

// emitError classifies err into an error event kind.
func (r *stdioRunner) emitError(sessionID string, err error) {
	ev := protocol.NewErrorEvent(sessionID, err.Error(), errorKind(err), "")
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		ev.Fields = verr.Fields
	}
	r.emitEvent(ev)
}

func errorKind(err error) string {
	switch {
	case session.IsValidationError(err):
		return "validation_error"
	case errors.Is(err, controller.ErrUnknownAction), errors.Is(err, controller.ErrInvalidTransition):
		return "navigation_error"
	case errors.Is(err, controller.ErrNoForm):
		return "no_form"
	case session.IsNotFound(err):
		return "not_found"
	case gateway.IsConfigurationError(err):
		return "configuration_error"
	case gateway.IsServiceError(err):
		return "service_error"
	}
	return "engine_error"
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
