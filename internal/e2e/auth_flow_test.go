package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/shared"
	_ "github.com/medicore/medicore/internal/testing/guard"
)

// memoryAccounts is an in-memory auth.Repository keeping one id namespace
// per role, mirroring the per-role tables in PostgreSQL.
type memoryAccounts struct {
	mu       sync.Mutex
	accounts map[shared.Role]map[string]*auth.Account
	nextID   map[shared.Role]int64
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{
		accounts: map[shared.Role]map[string]*auth.Account{
			shared.RolePatient: {},
			shared.RoleDoctor:  {},
			shared.RoleAdmin:   {},
		},
		nextID: map[shared.Role]int64{},
	}
}

func (m *memoryAccounts) FindByEmail(_ context.Context, role shared.Role, email string) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[role][email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return account, nil
}

func (m *memoryAccounts) create(role shared.Role, email, passwordHash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[role][email]; exists {
		return 0, shared.ErrDuplicateEmail
	}
	m.nextID[role]++
	id := m.nextID[role]
	now := time.Now().UTC()
	m.accounts[role][email] = &auth.Account{
		ID: id, Email: email, PasswordHash: passwordHash, Role: role,
		CreatedAt: now, UpdatedAt: now,
	}
	return id, nil
}

func (m *memoryAccounts) CreatePatient(_ context.Context, reg auth.PatientRegistration, passwordHash string) (int64, error) {
	return m.create(shared.RolePatient, reg.Email, passwordHash)
}

func (m *memoryAccounts) CreateDoctor(_ context.Context, reg auth.DoctorRegistration, passwordHash string) (int64, error) {
	return m.create(shared.RoleDoctor, reg.Email, passwordHash)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenService("e2e-secret", time.Hour, 720*time.Hour)
	guard := auth.Guard{Tokens: tokens, Logger: logger}

	service := auth.NewService(newMemoryAccounts(), tokens)
	handler := auth.NewHandler(logger, service)

	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireRole(shared.RolePatient))
		r.Get("/api/patients/profile", func(w http.ResponseWriter, r *http.Request) {
			principal, _ := shared.PrincipalFromContext(r.Context())
			_ = json.NewEncoder(w).Encode(map[string]any{"id": principal.ID})
		})
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireRole(shared.RoleDoctor))
		r.Get("/api/appointments/schedule", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body map[string]any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func getWithToken(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeTokens(t *testing.T, resp *http.Response) (access, refresh string) {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.AccessToken)
	require.NotEmpty(t, body.RefreshToken)
	return body.AccessToken, body.RefreshToken
}

func TestPatientAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	// Register a patient account.
	resp := postJSON(t, srv.URL+"/api/auth/register/patient", map[string]any{
		"first_name":     "Maya",
		"last_name":      "Iyer",
		"email":          "maya@example.com",
		"password":       "s3cret-pass",
		"date_of_birth":  "1991-04-12",
		"contact_number": "+1-555-0100",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Wrong password is rejected without leaking which part was wrong.
	resp = postJSON(t, srv.URL+"/api/auth/login", map[string]any{
		"email":    "maya@example.com",
		"password": "wrong-pass",
		"role":     "patient",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Correct credentials yield a token pair.
	resp = postJSON(t, srv.URL+"/api/auth/login", map[string]any{
		"email":    "maya@example.com",
		"password": "s3cret-pass",
		"role":     "patient",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	access, refresh := decodeTokens(t, resp)

	// The patient token opens patient routes.
	resp = getWithToken(t, srv.URL+"/api/patients/profile", access)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The same token is rejected on doctor routes with 403, not 401.
	resp = getWithToken(t, srv.URL+"/api/appointments/schedule", access)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Refresh tokens never pass as access tokens.
	resp = getWithToken(t, srv.URL+"/api/patients/profile", refresh)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// The refresh endpoint issues a fresh pair from the refresh token.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/auth/refresh", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+refresh)
	refreshResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)
	var refreshBody struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(refreshResp.Body).Decode(&refreshBody))
	refreshResp.Body.Close()
	require.NotEmpty(t, refreshBody.AccessToken)
	newAccess := refreshBody.AccessToken

	resp = getWithToken(t, srv.URL+"/api/patients/profile", newAccess)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestUnknownAccountLogin(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "whatever",
		"role":     "doctor",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
