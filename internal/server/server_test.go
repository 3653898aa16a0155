package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/harvest/internal/controller"
	"github.com/ChamsBouzaiene/harvest/internal/gateway"
	"github.com/ChamsBouzaiene/harvest/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubWeather struct{}

func (stubWeather) Get(context.Context, string) *session.WeatherSnapshot {
	return &session.WeatherSnapshot{TemperatureC: 24, HumidityPct: 55, Description: "few clouds", IconID: "02d"}
}

type testServer struct {
	srv   *Server
	reply string
	err   error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{reply: "Plant okra and cowpeas; both thrive in heat."}
	completer := gateway.Func(func(ctx context.Context, system, user string) (string, error) {
		return ts.reply, ts.err
	})
	ctrl, err := controller.New(session.New(), completer, stubWeather{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.Close() })
	ts.srv = New(ctrl, Config{}, nil)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (ts *testServer) signIn(t *testing.T) {
	t.Helper()
	code, _ := ts.do(t, http.MethodPost, "/api/actions/get_started", nil)
	require.Equal(t, http.StatusOK, code)
	code, body := ts.do(t, http.MethodPost, "/api/submit", map[string]any{
		"full_name":        "Sam Okafor",
		"location":         "Lagos",
		"farm_size":        "Medium (5-50 acres)",
		"primary_crops":    "Cassava, Maize",
		"experience_level": "Experienced (10+ years)",
	})
	require.Equal(t, http.StatusOK, code, body)
	require.Equal(t, "dashboard", body["page"])
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t)
	code, body := ts.do(t, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestState_StartsOnWelcome(t *testing.T) {
	ts := newTestServer(t)
	code, body := ts.do(t, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "welcome", body["page"])
	assert.Equal(t, []any{"get_started"}, body["actions"])
	assert.Nil(t, body["profile"])
	assert.Equal(t, false, body["advisory"])
}

func TestForms(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.do(t, http.MethodGet, "/api/forms/soil_optimizer", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "soil_optimizer", body["page"])
	fields := body["fields"].([]any)
	require.NotEmpty(t, fields)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.(map[string]any)["name"].(string))
	}
	assert.Contains(t, names, "ph")
	assert.Contains(t, names, "problems")

	code, _ = ts.do(t, http.MethodGet, "/api/forms/barn", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ts.do(t, http.MethodGet, "/api/forms/dashboard", nil)
	assert.Equal(t, http.StatusNotFound, code, "dashboard has no form")
}

func TestState_AdvisoryPage(t *testing.T) {
	ts := newTestServer(t)
	ts.signIn(t)

	code, _ := ts.do(t, http.MethodPost, "/api/actions/open_crop_planner", nil)
	require.Equal(t, http.StatusOK, code)
	_, body := ts.do(t, http.MethodGet, "/api/state", nil)
	assert.Equal(t, true, body["advisory"])
}

func TestActions_StatusCodes(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.do(t, http.MethodPost, "/api/actions/fly_away", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ts.do(t, http.MethodPost, "/api/actions/open_history", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, body := ts.do(t, http.MethodPost, "/api/actions/get_started", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "profile_setup", body["page"])
}

func TestSubmit_ValidationError(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/actions/get_started", nil)

	code, body := ts.do(t, http.MethodPost, "/api/submit", map[string]any{"full_name": "Sam"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["fields"], "location")

	_, state := ts.do(t, http.MethodGet, "/api/state", nil)
	assert.Equal(t, "profile_setup", state["page"])
}

func TestSubmit_NotAnObject(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/submit", bytes.NewBufferString(`["a"]`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_NoFormOnDashboard(t *testing.T) {
	ts := newTestServer(t)
	ts.signIn(t)
	code, _ := ts.do(t, http.MethodPost, "/api/submit", map[string]any{})
	assert.Equal(t, http.StatusConflict, code)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.do(t, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusConflict, code)

	ts.signIn(t)
	code, body := ts.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Sam", body["first_name"])
	assert.EqualValues(t, 2, body["active_crops"])
	weather, ok := body["weather"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 24, weather["temperature_c"])
}

func TestAdvisoryHistoryRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	ts.signIn(t)

	ts.do(t, http.MethodPost, "/api/actions/open_crop_planner", nil)
	code, body := ts.do(t, http.MethodPost, "/api/submit", map[string]any{
		"month": "June", "weather": "Hot & Dry", "soil": "Loamy",
	})
	require.Equal(t, http.StatusOK, code, body)
	record, ok := body["record"].(map[string]any)
	require.True(t, ok)
	id, _ := record["id"].(string)
	require.NotEmpty(t, id)

	_, hist := ts.do(t, http.MethodGet, "/api/history", nil)
	assert.Len(t, hist["records"], 1)

	code, found := ts.do(t, http.MethodGet, "/api/history/search?q=okra", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, found["records"], 1)

	code, _ = ts.do(t, http.MethodDelete, "/api/history/"+id, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = ts.do(t, http.MethodDelete, "/api/history/"+id, nil)
	assert.Equal(t, http.StatusNotFound, code)

	_, hist = ts.do(t, http.MethodGet, "/api/history", nil)
	assert.Empty(t, hist["records"])
}

func TestGatewayErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"configuration", &gateway.ConfigurationError{Reason: "no api key"}, http.StatusServiceUnavailable},
		{"service", &gateway.ServiceError{Err: errors.New("upstream 500")}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.signIn(t)
			ts.err = tc.err

			ts.do(t, http.MethodPost, "/api/actions/open_pest_identifier", nil)
			code, _ := ts.do(t, http.MethodPost, "/api/submit", map[string]any{
				"crop": "Tomato", "symptoms": "yellow leaves with brown spots",
			})
			assert.Equal(t, tc.want, code)

			_, hist := ts.do(t, http.MethodGet, "/api/history", nil)
			assert.Empty(t, hist["records"])
		})
	}
}

func TestChatEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.signIn(t)
	ts.reply = "Water early in the morning."

	ts.do(t, http.MethodPost, "/api/actions/open_chat", nil)
	code, _ := ts.do(t, http.MethodPost, "/api/submit", map[string]any{"message": "When should I water?"})
	require.Equal(t, http.StatusOK, code)

	_, body := ts.do(t, http.MethodGet, "/api/chat", nil)
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	last := msgs[1].(map[string]any)
	assert.Equal(t, "assistant", last["role"])
	assert.Equal(t, "Water early in the morning.", last["content"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
