package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmgoals/goals/internal/app"
	"github.com/gmgoals/goals/internal/config"
	"github.com/gmgoals/goals/internal/db"
	"github.com/gmgoals/goals/internal/model"
	"github.com/gmgoals/goals/internal/service"
)

const (
	testPassword   = "correct horse"
	testCronSecret = "cron-secret"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	token   string
	mailer  *capturingMailer
}

// capturingMailer records messages instead of delivering them.
type capturingMailer struct {
	mu   sync.Mutex
	sent []service.Message
}

func (m *capturingMailer) Name() string { return "capture" }

func (m *capturingMailer) Send(_ context.Context, msg service.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *capturingMailer) messages() []service.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sent)
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:         "Goals Tracker",
		AppEnv:          "test",
		AppURL:          "https://goals.example.com",
		DBDriver:        db.DriverSQLite,
		SecretKey:       "test-secret",
		CronSecret:      testCronSecret,
		AppPassword:     testPassword,
		SessionExpiry:   30 * 24 * time.Hour,
		LoginRateLimit:  10,
		LoginRateWindow: time.Minute,
		Person1Name:     "Mark",
		Person2Name:     "Gabs",
		CurrentYear:     2026,
		MailProvider:    service.MailProviderLog,
		EmailFrom:       "goals@example.com",
		RecipientEmails: []string{"mark@example.com", "gabs@example.com"},
		MetricsEnabled:  true,
		BackupKeep:      2,
	}
}

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) *testServer {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}
	cfg.DBConnection = config.SQLiteDSN(filepath.Join(t.TempDir(), "goals.db"))

	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.RunMigrations(conn.DB, cfg.DBDriver))

	a, err := app.NewWithDB(context.Background(), cfg, conn)
	require.NoError(t, err)

	// A configured relay is swapped for one that records what would be sent.
	var mailer *capturingMailer
	if cfg.MailProvider != "" {
		mailer = &capturingMailer{}
		composer, err := service.NewDigestComposer(cfg.Persons(), cfg.AppURL)
		require.NoError(t, err)
		a.EmailService = service.NewEmailService(mailer, cfg.RecipientEmails)
		a.DigestService = service.NewDigestService(a.GoalService, composer, a.EmailService)
	}

	web := fstest.MapFS{
		"index.html":       {Data: []byte("<!doctype html><title>Goals</title>")},
		"static/app.js":    {Data: []byte("console.log('goals')")},
		"static/style.css": {Data: []byte("body{}")},
	}

	return &testServer{t: t, handler: setupRoutes(a, web), mailer: mailer}
}

func (s *testServer) request(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// do sends an authenticated request, logging in on first use.
func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	if s.token == "" {
		s.token = s.login()
	}
	return s.request(method, path, body, http.Header{"Authorization": {"Bearer " + s.token}})
}

func (s *testServer) login() string {
	s.t.Helper()
	rec := s.request(http.MethodPost, "/api/login", map[string]string{"password": testPassword}, nil)
	require.Equal(s.t, http.StatusOK, rec.Code)

	resp := decode[model.LoginResponse](s.t, rec)
	require.True(s.t, resp.Success)
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["detail"]
}

func cronHeader(secret string) http.Header {
	return http.Header{"Authorization": {"Bearer " + secret}}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.request(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestFrontendBundle(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.request(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Goals</title>")

	rec = s.request(http.MethodGet, "/static/app.js", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")

	rec = s.request(http.MethodGet, "/robots.txt", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Disallow: /")

	rec = s.request(http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("wrong password is a 200 with success false", func(t *testing.T) {
		rec := s.request(http.MethodPost, "/api/login", map[string]string{"password": "nope"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[model.LoginResponse](t, rec)
		assert.False(t, resp.Success)
		assert.Empty(t, resp.Token)
		assert.Equal(t, "Incorrect password", resp.Message)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("correct password sets the cookie", func(t *testing.T) {
		rec := s.request(http.MethodPost, "/api/login", map[string]string{"password": testPassword}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[model.LoginResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, "Welcome!", resp.Message)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, service.AuthCookieName, cookies[0].Name)
		assert.Equal(t, resp.Token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
		assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), cookies[0].MaxAge)

		check := s.request(http.MethodGet, "/api/auth/check", nil, http.Header{
			"Cookie": {service.AuthCookieName + "=" + resp.Token},
		})
		assert.Equal(t, http.StatusOK, check.Code)
		assert.Equal(t, map[string]bool{"authenticated": true}, decode[map[string]bool](t, check))
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := s.request(http.MethodPost, "/api/login", "{", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON body", detail(t, rec))
	})
}

func TestLogoutKeepsBearerTokenValid(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login()

	rec := s.request(http.MethodPost, "/api/logout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out", decode[map[string]string](t, rec)["message"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, service.AuthCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)

	// Tokens are stateless; a captured one keeps working until it expires.
	rec = s.request(http.MethodGet, "/api/auth/check", nil, http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.request(http.MethodGet, "/api/goals", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", detail(t, rec))

	rec = s.request(http.MethodGet, "/api/goals", nil, http.Header{"Authorization": {"Bearer not.a.token"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", detail(t, rec))

	rec = s.request(http.MethodGet, "/api/config", nil, http.Header{
		"Cookie": {service.AuthCookieName + "=garbage"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", detail(t, rec))

	rec = s.request(http.MethodPost, "/api/email/test", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.LoginRateLimit = 2
	})

	for range 2 {
		rec := s.request(http.MethodPost, "/api/login", map[string]string{"password": "nope"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := s.request(http.MethodPost, "/api/login", map[string]string{"password": testPassword}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many login attempts. Please try again later.", detail(t, rec))

	// a forged forwarding header does not open a new window
	rec = s.request(http.MethodPost, "/api/login", map[string]string{"password": testPassword}, http.Header{
		"X-Forwarded-For": {"203.0.113.9"},
	})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLoginRateLimitBehindProxy(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.LoginRateLimit = 1
		cfg.TrustProxy = true
	})

	client := func(ip string) http.Header {
		return http.Header{"X-Forwarded-For": {ip + ", 10.0.0.1"}}
	}

	rec := s.request(http.MethodPost, "/api/login", map[string]string{"password": "nope"}, client("203.0.113.8"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.request(http.MethodPost, "/api/login", map[string]string{"password": "nope"}, client("203.0.113.8"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = s.request(http.MethodPost, "/api/login", map[string]string{"password": testPassword}, client("203.0.113.9"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfigAndYears(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg struct {
		Persons     []string `json:"persons"`
		Categories  []string `json:"categories"`
		CurrentYear int      `json:"currentYear"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, []string{"Mark", "Gabs"}, cfg.Persons)
	assert.Len(t, cfg.Categories, 6)
	assert.Equal(t, 2026, cfg.CurrentYear)

	rec = s.do(http.MethodPost, "/api/goals", map[string]any{"person": "Gabs", "title": "Old goal", "year": 2024})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/years", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2026, 2024}, decode[map[string][]int](t, rec)["years"])
}

func TestGoalLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/api/goals", map[string]any{
		"person":      "Mark",
		"title":       "Run a marathon",
		"category":    "health",
		"target_date": "2026-10-01",
		"milestones":  []string{"5k", "half", "full"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	goal := decode[model.Goal](t, rec)
	assert.Equal(t, 2026, goal.Year)
	assert.Equal(t, "Health", goal.Category)
	assert.Equal(t, 0, goal.Progress)
	require.Len(t, goal.Milestones, 3)
	for i, m := range goal.Milestones {
		assert.Equal(t, i, m.Order)
	}

	// completing milestones drives progress
	rec = s.do(http.MethodPatch, fmt.Sprintf("/api/milestones/%d", goal.Milestones[0].ID), map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.Milestone](t, rec).Completed)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/goals/%d", goal.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 33, decode[model.Goal](t, rec).Progress)

	rec = s.do(http.MethodPatch, fmt.Sprintf("/api/milestones/%d", goal.Milestones[1].ID), map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/goals/%d/milestones", goal.ID), map[string]string{"title": "recover"})
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decode[model.Milestone](t, rec)
	assert.Equal(t, 3, added.Order)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/goals/%d", goal.ID), nil)
	assert.Equal(t, 50, decode[model.Goal](t, rec).Progress)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/milestones/%d", added.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/goals/%d", goal.ID), nil)
	assert.Equal(t, 67, decode[model.Goal](t, rec).Progress)

	// merge patch leaves untouched fields alone and null clears target_date
	rec = s.do(http.MethodPatch, fmt.Sprintf("/api/goals/%d", goal.ID), map[string]any{
		"description": "Autumn race",
		"target_date": nil,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decode[model.Goal](t, rec)
	assert.Equal(t, "Run a marathon", patched.Title)
	assert.Equal(t, "Autumn race", patched.Description)
	assert.Nil(t, patched.TargetDate)
	assert.Equal(t, 67, patched.Progress)

	// check-ins
	rec = s.do(http.MethodPost, fmt.Sprintf("/api/goals/%d/checkins", goal.ID), map[string]string{"note": "Ran 10k today"})
	require.Equal(t, http.StatusCreated, rec.Code)
	checkIn := decode[model.CheckIn](t, rec)
	assert.Equal(t, "Ran 10k today", checkIn.Note)

	rec = s.do(http.MethodGet, "/api/goals?year=2026&person=Mark", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	goals := decode[[]model.Goal](t, rec)
	require.Len(t, goals, 1)
	assert.Len(t, goals[0].CheckIns, 1)
	assert.Len(t, goals[0].Milestones, 3)

	rec = s.do(http.MethodGet, "/api/goals?person=Gabs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/checkins/%d", checkIn.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/checkins/%d", checkIn.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Check-in not found", detail(t, rec))

	// delete cascades
	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/goals/%d", goal.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/goals/%d", goal.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Goal not found", detail(t, rec))

	rec = s.do(http.MethodPatch, fmt.Sprintf("/api/milestones/%d", goal.Milestones[0].ID), map[string]any{"completed": false})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Milestone not found", detail(t, rec))
}

func TestManualProgressWithoutMilestones(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/api/goals", map[string]any{"person": "Gabs", "title": "Meditate", "is_habit": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	goal := decode[model.Goal](t, rec)
	assert.True(t, goal.IsHabit)
	assert.Equal(t, "Personal", goal.Category)

	rec = s.do(http.MethodPatch, fmt.Sprintf("/api/goals/%d", goal.ID), map[string]any{"progress": 40})
	require.Equal(t, http.StatusOK, rec.Code)
	patched := decode[model.Goal](t, rec)
	assert.Equal(t, 40, patched.Progress)
	assert.Equal(t, "Meditate", patched.Title)
}

func TestGoalErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		detail string
	}{
		{"non-integer id", http.MethodGet, "/api/goals/abc", nil, http.StatusNotFound, "Goal not found"},
		{"missing goal", http.MethodGet, "/api/goals/999", nil, http.StatusNotFound, "Goal not found"},
		{"patch missing goal", http.MethodPatch, "/api/goals/999", map[string]any{"title": "x"}, http.StatusNotFound, "Goal not found"},
		{"delete missing goal", http.MethodDelete, "/api/goals/999", nil, http.StatusNotFound, "Goal not found"},
		{"milestone on missing goal", http.MethodPost, "/api/goals/999/milestones", map[string]string{"title": "x"}, http.StatusNotFound, "Goal not found"},
		{"check-in on missing goal", http.MethodPost, "/api/goals/999/checkins", map[string]string{"note": "x"}, http.StatusNotFound, "Goal not found"},
		{"delete missing milestone", http.MethodDelete, "/api/milestones/999", nil, http.StatusNotFound, "Milestone not found"},
		{"non-integer year", http.MethodGet, "/api/goals?year=soon", nil, http.StatusUnprocessableEntity, "year must be an integer"},
		{"unknown person", http.MethodPost, "/api/goals", map[string]any{"person": "Bob", "title": "x"}, http.StatusUnprocessableEntity, "person must be one of Mark, Gabs"},
		{"missing title", http.MethodPost, "/api/goals", map[string]any{"person": "Mark"}, http.StatusUnprocessableEntity, "title is required"},
		{"bad date", http.MethodPost, "/api/goals", map[string]any{"person": "Mark", "title": "x", "target_date": "01/02/2026"}, http.StatusUnprocessableEntity, "target_date must be a date in YYYY-MM-DD format"},
		{"wrong type", http.MethodPost, "/api/goals", map[string]any{"person": "Mark", "title": "x", "year": "2026"}, http.StatusUnprocessableEntity, "year has the wrong type"},
		{"malformed", http.MethodPost, "/api/goals", "{\"person\":", http.StatusBadRequest, "Invalid JSON body"},
		{"empty check-in", http.MethodPost, "/api/goals/1/checkins", map[string]string{"note": ""}, http.StatusUnprocessableEntity, "note is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.detail, detail(t, rec))
		})
	}
}

func TestCronEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.request(http.MethodPost, "/api/email/monthly-summary", nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid cron secret", detail(t, rec))

	rec = s.request(http.MethodPost, "/api/email/monthly-summary", nil, cronHeader("wrong"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// a session is not a substitute for the cron secret
	rec = s.do(http.MethodPost, "/api/email/monthly-summary", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.request(http.MethodPost, "/api/email/monthly-summary", nil, cronHeader(testCronSecret))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Monthly summary sent successfully", decode[map[string]string](t, rec)["message"])
	require.Len(t, s.mailer.messages(), 1)

	rec = s.request(http.MethodPost, "/api/backup", nil, cronHeader(testCronSecret))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Backup storage not configured", detail(t, rec))
}

func TestEmailNotConfigured(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.MailProvider = ""
	})

	rec := s.request(http.MethodPost, "/api/email/monthly-summary", nil, cronHeader(testCronSecret))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to send email", detail(t, rec))

	rec = s.do(http.MethodPost, "/api/email/test", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to send email", detail(t, rec))
}

func TestTestEmailSendsDigest(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/api/goals", map[string]any{"person": "Mark", "title": "Run a marathon"})
	require.Equal(t, http.StatusCreated, rec.Code)
	goal := decode[model.Goal](t, rec)
	rec = s.do(http.MethodPost, fmt.Sprintf("/api/goals/%d/checkins", goal.ID), map[string]string{"note": "Ran 10k today"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/email/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Test email sent successfully", decode[map[string]string](t, rec)["message"])

	sent := s.mailer.messages()
	require.Len(t, sent, 1)
	assert.True(t, strings.HasPrefix(sent[0].Subject, "🎯 Your Goals Update –"), sent[0].Subject)
	assert.Equal(t, []string{"mark@example.com", "gabs@example.com"}, sent[0].To)
	assert.Contains(t, sent[0].HTML, "Run a marathon")
	assert.Contains(t, sent[0].HTML, "Ran 10k today")
	assert.Contains(t, sent[0].HTML, "No goals set yet for Gabs")
	assert.NotEmpty(t, sent[0].Text)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	s.do(http.MethodGet, "/api/goals", nil)

	rec := s.request(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `goals_http_requests_total{method="GET",route="GET /api/goals",status="200"} 1`)
	assert.Contains(t, body, `goals_login_attempts_total{result="success"} 1`)

	disabled := newTestServer(t, func(cfg *config.Config) {
		cfg.MetricsEnabled = false
	})
	rec = disabled.request(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
