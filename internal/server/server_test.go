package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuddyApator/Energie-Buddy/internal/auth"
	"github.com/BuddyApator/Energie-Buddy/internal/database"
	"github.com/BuddyApator/Energie-Buddy/internal/ledger"
	"github.com/BuddyApator/Energie-Buddy/internal/meter"
	"github.com/BuddyApator/Energie-Buddy/internal/settings"
)

type testEnv struct {
	srv     *Server
	handler http.Handler
	cookie  *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	db, err := database.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv := New(
		ledger.NewService(db),
		auth.NewService(db),
		auth.NewSessionManager(time.Hour),
		settings.NewStore(filepath.Join(dir, "settings.json")),
		meter.NewClient(time.Second),
		time.Second,
	)
	srv.discover = func(ctx context.Context, timeout time.Duration) (string, error) {
		return "", nil // no device on the test network
	}

	return &testEnv{srv: srv, handler: srv.Routes()}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "alice@example.com", "password": "pw", "name": "Alice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "alice@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			e.cookie = c
		}
	}
	require.NotNil(t, e.cookie, "login must set a session cookie")
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/readings", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"email": "bob", "password": "pw", "name": "Bob"}
	rec := env.do(t, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "bob", "password": "right", "name": "Bob"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "bob", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReadingAndDashboardFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	t1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	rec := env.do(t, http.MethodPost, "/api/readings",
		map[string]any{"recorded_at": t1.Format(time.RFC3339), "value": 100.0})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/readings",
		map[string]any{"recorded_at": t2.Format(time.RFC3339), "value": 112.5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dash dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))

	assert.Equal(t, "Alice", dash.DisplayName)
	assert.Len(t, dash.Points, 2)
	require.Len(t, dash.Consumption, 1)
	assert.InDelta(t, 12.5, dash.Consumption[0].Delta, 1e-9)
	// Default unit price is 0.30 per kWh.
	assert.InDelta(t, 3.75, dash.Consumption[0].Cost, 1e-9)
	assert.Equal(t, "3.75", dash.Consumption[0].CostDisplay)
	assert.False(t, dash.NotEnoughData)

	require.NotNil(t, dash.Budget)
	assert.InDelta(t, 0.75, dash.Budget.Progress, 1e-9)
}

func TestDashboardWithSingleReading(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	rec := env.do(t, http.MethodPost, "/api/readings", map[string]any{"value": 50.0})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dash dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Empty(t, dash.Consumption)
	assert.Nil(t, dash.Budget)
	assert.True(t, dash.NotEnoughData)
	assert.Len(t, dash.Recent, 1)
}

func TestCreateReadingRejectsNegative(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	rec := env.do(t, http.MethodPost, "/api/readings", map[string]any{"value": -3.0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentReadings(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		rec := env.do(t, http.MethodPost, "/api/readings",
			map[string]any{"recorded_at": base.AddDate(0, 0, i).Format(time.RFC3339), "value": float64(100 + i)})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/readings/recent?n=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var readings []struct {
		Value float64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readings))
	require.Len(t, readings, 2)
	assert.Equal(t, 102.0, readings[0].Value)
	assert.Equal(t, 103.0, readings[1].Value)
}

func TestSettingsRoundTripOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	rec := env.do(t, http.MethodPut, "/api/settings", map[string]any{
		"device_address": "192.168.1.42:80",
		"unit_price":     0.42,
		"daily_budget":   6.0,
		"mode":           "auto",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got settings.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 0.42, got.UnitPrice)
	assert.Equal(t, settings.ModeAuto, got.Mode)
}

func TestSettingsRejectBadBudget(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	rec := env.do(t, http.MethodPut, "/api/settings", map[string]any{
		"unit_price":   0.30,
		"daily_budget": 0.0,
		"mode":         "manual",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDiscoverNoDeviceIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	rec := env.do(t, http.MethodPost, "/api/device/discover", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp["address"])
}

func TestPollWithoutConfiguredDevice(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	rec := env.do(t, http.MethodPost, "/api/device/poll", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPollAppendsReading(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"StatusSNS":{"SML":{"Total_in":777.5,"Power_curr":120}}}`)
	}))
	defer relay.Close()

	rec := env.do(t, http.MethodPost, "/api/device/poll",
		map[string]string{"address": relay.Listener.Addr().String()})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/readings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var readings []struct {
		Value float64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readings))
	require.Len(t, readings, 1)
	assert.Equal(t, 777.5, readings[0].Value)
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
