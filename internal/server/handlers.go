package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/controller"
	"github.com/ChamsBouzaiene/harvest/internal/gateway"
	"github.com/ChamsBouzaiene/harvest/internal/pages"
	"github.com/ChamsBouzaiene/harvest/internal/session"
)

type stateResponse struct {
	Page            pages.ID            `json:"page"`
	Advisory        bool                `json:"advisory"`
	Profile         *session.Profile    `json:"profile,omitempty"`
	Actions         []controller.Action `json:"actions"`
	Recommendations int                 `json:"recommendations"`
	ChatMessages    int                 `json:"chat_messages"`
}

func (s *Server) snapshot() stateResponse {
	actions := s.ctrl.Actions()
	if actions == nil {
		actions = []controller.Action{}
	}
	return stateResponse{
		Page:            s.ctrl.Page(),
		Advisory:        s.ctrl.Page().Advisory(),
		Profile:         s.ctrl.Profile(),
		Actions:         actions,
		Recommendations: len(s.ctrl.Recommendations()),
		ChatMessages:    len(s.ctrl.Chat()),
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleState(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.snapshot())
}

// handleForm describes the inputs a page's submit accepts. It reads only
// static page metadata, so it does not take the session lock.
func (s *Server) handleForm(c *gin.Context) {
	page, err := pages.Parse(c.Param("page"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	form, err := pages.FormFor(page)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, form)
}

func (s *Server) handleAction(c *gin.Context) {
	action, err := controller.ParseAction(c.Param("action"))
	if err != nil {
		s.fail(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ctrl.GoTo(action); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.snapshot())
}

func (s *Server) handleSubmit(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}
	if body == nil {
		body = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.ctrl.Submit(c.Request.Context(), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleDashboard(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.Page().InApp() {
		c.JSON(http.StatusConflict, gin.H{"error": "no profile"})
		return
	}
	c.JSON(http.StatusOK, s.ctrl.Dashboard(c.Request.Context()))
}

func (s *Server) handleHistory(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": s.ctrl.Recommendations()})
}

func (s *Server) handleSearch(c *gin.Context) {
	kind := session.RecommendationKind(c.Query("kind"))

	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.ctrl.SearchHistory(c.Query("q"), kind)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleDelete(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.ctrl.DeleteRecommendation(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": rec})
}

func (s *Server) handleChat(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"messages": s.ctrl.Chat()})
}

// fail maps controller, session and gateway errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": err.Error()}

	var verr *session.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body["fields"] = verr.Fields
	case errors.Is(err, controller.ErrUnknownAction):
		status = http.StatusBadRequest
	case errors.Is(err, controller.ErrInvalidTransition), errors.Is(err, controller.ErrNoForm):
		status = http.StatusConflict
	case session.IsNotFound(err):
		status = http.StatusNotFound
	case gateway.IsConfigurationError(err):
		status = http.StatusServiceUnavailable
	case gateway.IsServiceError(err):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, body)
}
