package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/backend/auth"
	"portal/backend/leaderboard"
	"portal/backend/models"
	"portal/backend/quiz"
	"portal/backend/routes"
	"portal/backend/session"
	"portal/backend/store"
)

type testPortal struct {
	app     *fiber.App
	store   *store.MemoryStore
	manager *session.Manager
}

func newTestPortal(t *testing.T) *testPortal {
	t.Helper()
	st := store.NewMemoryStore()
	logger := log.New(io.Discard, "", 0)
	sessionFile := filepath.Join(t.TempDir(), "session")

	client := auth.NewClient(st, "test-secret", sessionFile, logger)
	resolver := session.NewRoleResolver(st.Profiles(), time.Second, logger)
	manager := session.NewManager(client, resolver, time.Second, logger)
	t.Cleanup(manager.Close)
	manager.Initialize(context.Background())

	engine := quiz.NewEngine(st.Attempts(), quiz.DefaultBank(), 75, logger)
	aggregator := leaderboard.NewAggregator(st.Earnings(), st.Profiles(), logger)

	app := fiber.New()
	routes.SetupRoutes(app, manager, st, engine, aggregator, logger)
	return &testPortal{app: app, store: st, manager: manager}
}

func (p *testPortal) request(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := p.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func (p *testPortal) register(t *testing.T, email string) {
	t.Helper()
	resp, _ := p.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"email":      email,
		"password":   "secret1",
		"first_name": "Ada",
		"last_name":  "Park",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func (p *testPortal) login(t *testing.T, email string) {
	t.Helper()
	resp, _ := p.request(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Eventually(t, func() bool {
		return p.manager.RoleState() == session.RoleResolved
	}, time.Second, 5*time.Millisecond)
}

func (p *testPortal) promoteToAdmin(t *testing.T, userID uint) {
	t.Helper()
	profile, err := p.store.Profiles().Get(context.Background(), userID)
	require.NoError(t, err)
	profile.Role = models.RoleAdmin
	require.NoError(t, p.store.Profiles().Insert(context.Background(), &profile))
	p.manager.RefreshProfile(context.Background())
	require.Eventually(t, func() bool {
		return p.manager.IsAdmin()
	}, time.Second, 5*time.Millisecond)
}

func data(payload map[string]interface{}) map[string]interface{} {
	d, _ := payload["data"].(map[string]interface{})
	return d
}

func TestRegisterValidation(t *testing.T) {
	p := newTestPortal(t)

	resp, _ := p.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"email":    "ada@portal.io",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = p.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"email":      "ada@portal.io",
		"password":   "short",
		"first_name": "Ada",
		"last_name":  "Park",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = p.request(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"email":            "ada@portal.io",
		"password":         "secret1",
		"confirm_password": "different",
		"first_name":       "Ada",
		"last_name":        "Park",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterLoginSession(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")

	resp, payload := p.request(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "ada@portal.io",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := data(payload)["user"].(map[string]interface{})
	assert.Equal(t, "ada@portal.io", user["email"])

	resp, payload = p.request(t, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "authenticated", data(payload)["state"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")

	resp, _ := p.request(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "ada@portal.io",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	p := newTestPortal(t)
	for _, path := range []string{"/api/dashboard", "/api/videos", "/api/quiz/questions", "/api/leaderboard", "/api/user/profile"} {
		resp, _ := p.request(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.login(t, "ada@portal.io")

	resp, _ := p.request(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = p.request(t, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestQuizQuestionsHideAnswers(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.login(t, "ada@portal.io")

	resp, payload := p.request(t, http.MethodGet, "/api/quiz/questions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	questions := data(payload)["questions"].([]interface{})
	require.Len(t, questions, 20)
	first := questions[0].(map[string]interface{})
	assert.Contains(t, first, "question")
	assert.Contains(t, first, "options")
	assert.NotContains(t, first, "CorrectAnswer")
	assert.NotContains(t, first, "correct_answer")
}

func TestQuizSubmitAndResult(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.login(t, "ada@portal.io")

	answers := map[string]string{}
	for _, q := range quiz.DefaultBank() {
		answers[fmt.Sprint(q.ID)] = q.CorrectAnswer
	}
	resp, payload := p.request(t, http.MethodPost, "/api/quiz/submit", fiber.Map{"answers": answers})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 100.0, data(payload)["score"])
	assert.Equal(t, true, data(payload)["saved"])

	resp, payload = p.request(t, http.MethodGet, "/api/quiz/result", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 100.0, data(payload)["highest_score"])
	assert.Equal(t, true, data(payload)["passed"])
}

func TestQuizSubmitRequiresAllAnswers(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.login(t, "ada@portal.io")

	resp, _ := p.request(t, http.MethodPost, "/api/quiz/submit", fiber.Map{
		"answers": map[string]string{"1": "B"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardForTrainee(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.login(t, "ada@portal.io")

	resp, payload := p.request(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := data(payload)
	assert.Equal(t, models.RoleTrainee, d["role"])
	assert.Equal(t, "Ada Park", d["display_name"])
	assert.Len(t, d["videos"].([]interface{}), 4)
}

func TestAdminRoutesGated(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.login(t, "ada@portal.io")

	resp, _ := p.request(t, http.MethodPut, "/api/admin/leaderboard/2", fiber.Map{"amount": 100.0})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	p.promoteToAdmin(t, p.manager.UserID())
	resp, _ = p.request(t, http.MethodPut, "/api/admin/leaderboard/2", fiber.Map{"amount": 100.0})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminDashboardListsUsers(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.register(t, "bob@portal.io")
	p.login(t, "ada@portal.io")
	p.promoteToAdmin(t, p.manager.UserID())

	require.NoError(t, p.store.Attempts().Insert(context.Background(), &models.QuizAttempt{UserID: 2, Score: 85}))

	resp, payload := p.request(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := data(payload)
	assert.Equal(t, models.RoleAdmin, d["role"])

	users := d["users"].([]interface{})
	require.Len(t, users, 2)
	scores := map[string]interface{}{}
	for _, u := range users {
		entry := u.(map[string]interface{})
		scores[entry["email"].(string)] = entry["highest_score"]
	}
	assert.Equal(t, 85.0, scores["bob@portal.io"])
	assert.Nil(t, scores["ada@portal.io"])
}

func TestLeaderboardFlow(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.register(t, "bob@portal.io")
	p.login(t, "ada@portal.io")
	p.promoteToAdmin(t, p.manager.UserID())

	resp, _ := p.request(t, http.MethodPut, "/api/admin/leaderboard/2", fiber.Map{"amount": 300.0, "month": "2026-08"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, payload := p.request(t, http.MethodPost, "/api/admin/leaderboard/2/add", fiber.Map{"delta": 50.0, "month": "2026-08"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 350.0, data(payload)["amount"])

	resp, _ = p.request(t, http.MethodPut, "/api/admin/leaderboard/2", fiber.Map{"amount": -10.0, "month": "2026-08"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = p.request(t, http.MethodPost, "/api/admin/leaderboard/2/add", fiber.Map{"delta": 0.0, "month": "2026-08"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, payload = p.request(t, http.MethodGet, "/api/leaderboard?month=2026-08", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := data(payload)["entries"].([]interface{})
	require.Len(t, entries, 1)
	top := entries[0].(map[string]interface{})
	assert.Equal(t, 1.0, top["rank"])
	assert.Equal(t, 350.0, top["amount"])
}

func TestUpdateProfile(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.login(t, "ada@portal.io")

	resp, _ := p.request(t, http.MethodPut, "/api/user/profile", fiber.Map{
		"first_name": "Grace",
		"last_name":  "Ng",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload := p.request(t, http.MethodGet, "/api/user/profile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Grace Ng", data(payload)["display_name"])

	resp, _ = p.request(t, http.MethodPut, "/api/user/profile", fiber.Map{"first_name": "Grace"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSelfDeleteRejected(t *testing.T) {
	p := newTestPortal(t)
	p.register(t, "ada@portal.io")
	p.register(t, "bob@portal.io")
	p.login(t, "ada@portal.io")
	p.promoteToAdmin(t, p.manager.UserID())

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", p.manager.UserID()), nil)
	resp, err := p.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/users/2", nil)
	resp, err = p.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = p.store.Profiles().Get(context.Background(), 2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
