package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/pages"
	"github.com/ChamsBouzaiene/harvest/internal/prompts"
	"github.com/ChamsBouzaiene/harvest/internal/session"
)

// Result is the outcome of a page submission.
type Result struct {
	Page    pages.ID                      `json:"page"`
	Title   string                        `json:"title,omitempty"`
	Body    string                        `json:"body,omitempty"`
	Message string                        `json:"message,omitempty"`
	Record  *session.RecommendationRecord `json:"record,omitempty"`
	Reply   *session.ChatMessage          `json:"reply,omitempty"`
	Profile *session.Profile              `json:"profile,omitempty"`
	Prompt  string                        `json:"prompt,omitempty"`
}

type handler func(c *Controller, ctx context.Context, in inputs) (Result, error)

var handlers = map[pages.ID]handler{
	pages.ProfileSetup:   (*Controller).submitProfileSetup,
	pages.CropPlanner:    (*Controller).submitCropPlanner,
	pages.SoilOptimizer:  (*Controller).submitSoilOptimizer,
	pages.PestIdentifier: (*Controller).submitPestIdentifier,
	pages.WeatherAlerts:  (*Controller).submitWeatherAlerts,
	pages.CostTips:       (*Controller).submitCostTips,
	pages.Chat:           (*Controller).submitChat,
	pages.History:        (*Controller).submitHistory,
	pages.Settings:       (*Controller).submitSettings,
}

// Submit validates raw against the active page's form and runs the page's
// handler. On error the session is left as it was, except that a chat message
// whose completion failed stays in the transcript unanswered.
func (c *Controller) Submit(ctx context.Context, raw map[string]any) (Result, error) {
	page := c.state.Page()

	form, err := pages.FormFor(page)
	if err != nil {
		return Result{Page: page}, fmt.Errorf("%w: %s", ErrNoForm, page)
	}
	h, ok := handlers[page]
	if !ok {
		return Result{Page: page}, fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}

	normalized, err := form.Validate(raw)
	if err != nil {
		var inErr *pages.InputError
		if errors.As(err, &inErr) {
			return Result{Page: page}, &session.ValidationError{Fields: inErr.Fields, Errors: inErr.Errors}
		}
		return Result{Page: page}, err
	}

	res, err := h(c, ctx, inputs(normalized))
	if err != nil {
		c.logger.Warn("submit failed", zap.String("page", string(page)), zap.Error(err))
		return Result{Page: c.state.Page()}, err
	}
	if res.Page == "" {
		res.Page = c.state.Page()
	}
	return res, nil
}

// SubmitText is Submit for key=value pairs typed as text.
func (c *Controller) SubmitText(ctx context.Context, pairs map[string]string) (Result, error) {
	form, err := pages.FormFor(c.state.Page())
	if err != nil {
		return Result{Page: c.state.Page()}, fmt.Errorf("%w: %s", ErrNoForm, c.state.Page())
	}
	raw, err := form.ParseText(pairs)
	if err != nil {
		var inErr *pages.InputError
		if errors.As(err, &inErr) {
			return Result{Page: c.state.Page()}, &session.ValidationError{Fields: inErr.Fields, Errors: inErr.Errors}
		}
		return Result{Page: c.state.Page()}, err
	}
	return c.Submit(ctx, raw)
}

func (c *Controller) submitProfileSetup(_ context.Context, in inputs) (Result, error) {
	next, err := Next(c.state.Page(), ActionCreateProfile, c.state.HasProfile())
	if err != nil {
		return Result{}, err
	}

	p, err := c.state.CreateProfile(
		in.str("full_name"),
		in.str("location"),
		pages.OptionValue(pages.FarmSizeOptions, in.str("farm_size")),
		in.str("primary_crops"),
		pages.OptionValue(pages.ExperienceOptions, in.str("experience_level")),
	)
	if err != nil {
		return Result{}, err
	}
	c.state.SetPage(next)

	c.logger.Info("profile created",
		zap.String("farm_size", string(p.FarmSize)),
		zap.String("experience", string(p.ExperienceLevel)))
	return Result{Page: next, Profile: &p, Message: "✅ Profile created successfully!"}, nil
}

func (c *Controller) submitCropPlanner(ctx context.Context, in inputs) (Result, error) {
	month := in.str("month")
	req, err := prompts.CropPlanner(c.state.Profile(), prompts.CropPlannerInput{
		Month:   month,
		Weather: in.str("weather"),
		Soil:    in.str("soil"),
	})
	if err != nil {
		return Result{}, err
	}
	return c.advise(ctx, session.KindCropPlanner, "Crop Recommendations for "+month, req,
		"✅ Recommendation saved to history!")
}

func (c *Controller) submitSoilOptimizer(ctx context.Context, in inputs) (Result, error) {
	req, err := prompts.SoilOptimizer(c.state.Profile(), prompts.SoilOptimizerInput{
		PH:       in.num("ph"),
		SoilType: in.str("soil_type"),
		Problems: in.list("problems"),
	})
	if err != nil {
		return Result{}, err
	}
	return c.advise(ctx, session.KindSoilOptimizer, "Soil Health Analysis", req,
		"✅ Analysis saved to history!")
}

func (c *Controller) submitPestIdentifier(ctx context.Context, in inputs) (Result, error) {
	crop, symptoms := in.str("crop"), in.str("symptoms")
	if err := requireText(map[string]string{"crop": crop, "symptoms": symptoms}); err != nil {
		return Result{}, err
	}

	req, err := prompts.PestIdentifier(c.state.Profile(), prompts.PestIdentifierInput{
		Crop:     crop,
		Symptoms: symptoms,
	})
	if err != nil {
		return Result{}, err
	}
	return c.advise(ctx, session.KindPestIdentifier, "Pest Identification for "+crop, req,
		"✅ Report saved to history!")
}

// advise calls the model and, only on success, saves the answer to history.
func (c *Controller) advise(ctx context.Context, kind session.RecommendationKind, title string, req prompts.Request, message string) (Result, error) {
	body, err := c.completer.Complete(ctx, req.System, req.User)
	if err != nil {
		return Result{}, err
	}

	rec := c.state.AppendRecommendation(kind, title, body)
	c.logger.Info("recommendation saved",
		zap.String("id", rec.ID),
		zap.String("kind", string(kind)),
		zap.String("prompt", req.Template()),
		zap.Int("history_size", c.state.RecommendationCount()))

	return Result{Title: title, Body: body, Record: &rec, Message: message, Prompt: req.Template()}, nil
}

func (c *Controller) submitWeatherAlerts(ctx context.Context, in inputs) (Result, error) {
	return Result{
		Title: "Weather-Based Advice",
		Body:  c.catalog.WeatherAdvice(in.str("stage"), in.str("activity"), in.str("urgency")),
	}, nil
}

func (c *Controller) submitCostTips(ctx context.Context, in inputs) (Result, error) {
	return Result{
		Title: "Money-Saving Strategies",
		Body:  c.catalog.CostTips(in.str("category")),
	}, nil
}

func (c *Controller) submitChat(ctx context.Context, in inputs) (Result, error) {
	question := in.str("message")
	if err := requireText(map[string]string{"message": question}); err != nil {
		return Result{}, err
	}

	req, err := prompts.Chat(c.state.Profile(), question)
	if err != nil {
		return Result{}, err
	}

	c.state.AppendChatMessage(session.RoleUser, question)

	answer, err := c.completer.Complete(ctx, req.System, req.User)
	if err != nil {
		return Result{}, err
	}

	reply := c.state.AppendChatMessage(session.RoleAssistant, answer)
	return Result{Body: answer, Reply: &reply, Prompt: req.Template()}, nil
}

func (c *Controller) submitHistory(_ context.Context, in inputs) (Result, error) {
	switch in.str("action") {
	case "delete":
		rec, err := c.DeleteRecommendation(in.str("id"))
		if err != nil {
			return Result{}, err
		}
		return Result{Record: &rec, Message: "Deleted " + rec.Title}, nil
	}
	return Result{}, session.NewValidationError("action", "unsupported history action")
}

func (c *Controller) submitSettings(_ context.Context, in inputs) (Result, error) {
	switch in.str("action") {
	case "update_profile":
		var u session.ProfileUpdate
		if v, ok := in.optStr("full_name"); ok {
			u.FullName = &v
		}
		if v, ok := in.optStr("location"); ok {
			u.Location = &v
		}
		if v, ok := in.optStr("primary_crops"); ok {
			u.PrimaryCrops = &v
		}
		p, err := c.state.UpdateProfile(u)
		if err != nil {
			return Result{}, err
		}
		return Result{Profile: &p, Message: "✅ Profile updated!"}, nil

	case "clear_chat":
		c.state.ClearChat()
		return Result{Message: "Chat cleared!"}, nil

	case "clear_recommendations":
		c.state.ClearRecommendations()
		return Result{Message: "Recommendations cleared!"}, nil

	case "refresh_weather":
		c.state.ClearWeather()
		return Result{Message: "Weather will be refreshed on the next dashboard visit."}, nil
	}
	return Result{}, session.NewValidationError("action", "unsupported settings action")
}

// requireText rejects blank values, listing fields in sorted order.
func requireText(values map[string]string) error {
	var missing []string
	for _, name := range sortedKeys(values) {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &session.ValidationError{
		Fields: missing,
		Errors: []string{"please fill in all fields: " + strings.Join(missing, ", ")},
	}
}
