package auth_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/medicore/internal/auth"
	_ "github.com/medicore/medicore/testing"
)

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthRouter(repo auth.Repository) http.Handler {
	handler := auth.NewHandler(slogDiscard(), newService(repo))
	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	return r
}

func postJSON(t *testing.T, h http.Handler, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestRegisterPatientEndpoint(t *testing.T) {
	router := newAuthRouter(newMockRepo())

	res := postJSON(t, router, "/api/auth/register/patient", `{
		"first_name": "Ada",
		"last_name": "Lovelace",
		"email": "ada@x.com",
		"password": "secret-one",
		"date_of_birth": "1990-12-10",
		"contact_number": "555-0100"
	}`, nil)

	require.Equal(t, http.StatusCreated, res.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
	assert.Equal(t, "patient", body["role"])
}

func TestRegisterDuplicateEmailEndpoint(t *testing.T) {
	router := newAuthRouter(newMockRepo())
	payload := `{
		"first_name": "Ada",
		"last_name": "Lovelace",
		"email": "ada@x.com",
		"password": "secret-one",
		"date_of_birth": "1990-12-10",
		"contact_number": "555-0100"
	}`

	res := postJSON(t, router, "/api/auth/register/patient", payload, nil)
	require.Equal(t, http.StatusCreated, res.Code)

	res = postJSON(t, router, "/api/auth/register/patient", payload, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router := newAuthRouter(newMockRepo())

	res := postJSON(t, router, "/api/auth/register/doctor", `{
		"first_name": "Gregory",
		"last_name": "House",
		"email": "house@x.com",
		"password": "secret-one",
		"specialization": "Diagnostics",
		"contact_number": "555-0101",
		"consultation_fees": 150
	}`, nil)
	require.Equal(t, http.StatusCreated, res.Code)

	res = postJSON(t, router, "/api/auth/login", `{"email":"house@x.com","password":"wrong-pass","role":"doctor"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = postJSON(t, router, "/api/auth/login", `{"email":"house@x.com","password":"secret-one","role":"doctor"}`, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "doctor", body["role"])
}

func TestLoginInvalidRole(t *testing.T) {
	router := newAuthRouter(newMockRepo())

	res := postJSON(t, router, "/api/auth/login", `{"email":"a@x.com","password":"whatever","role":"superuser"}`, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	router := newAuthRouter(newMockRepo())

	res := postJSON(t, router, "/api/auth/register/patient", `{
		"first_name": "Ada",
		"last_name": "Lovelace",
		"email": "ada@x.com",
		"password": "secret-one",
		"date_of_birth": "1990-12-10",
		"contact_number": "555-0100"
	}`, nil)
	require.Equal(t, http.StatusCreated, res.Code)
	var tokens map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &tokens))

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tokens["refresh_token"])
	res = postJSON(t, router, "/api/auth/refresh", "", header)
	require.Equal(t, http.StatusOK, res.Code)
	var refreshed map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed["access_token"])

	// Presenting the access token to refresh fails the same way a garbage
	// token does.
	header.Set("Authorization", "Bearer "+tokens["access_token"])
	res = postJSON(t, router, "/api/auth/refresh", "", header)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
