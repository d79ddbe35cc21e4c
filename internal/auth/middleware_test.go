package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/shared"
	_ "github.com/medicore/medicore/testing"
)

func newGuardedServer(t *testing.T, tokens *auth.TokenService, role shared.Role) http.Handler {
	t.Helper()
	guard := auth.Guard{Tokens: tokens}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := shared.PrincipalFromContext(r.Context())
		require.True(t, ok, "principal missing from context")
		w.WriteHeader(http.StatusOK)
	})
	return guard.RequireRole(role)(handler)
}

func TestGuardMissingToken(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour, time.Hour)
	srv := newGuardedServer(t, tokens, shared.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestGuardInvalidToken(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour, time.Hour)
	srv := newGuardedServer(t, tokens, shared.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestGuardRefreshTokenRejected(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour, time.Hour)
	srv := newGuardedServer(t, tokens, shared.RolePatient)

	pair, err := tokens.Issue(1, shared.RolePatient)
	require.NoError(t, err)

	// A refresh token never passes an access-only check, even for the right
	// role, and the rejection is indistinguishable from any other bad token.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestGuardRoleMismatch(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour, time.Hour)
	srv := newGuardedServer(t, tokens, shared.RoleDoctor)

	pair, err := tokens.Issue(3, shared.RolePatient)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestGuardSuccessInjectsPrincipal(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour, time.Hour)
	guard := auth.Guard{Tokens: tokens}

	pair, err := tokens.Issue(11, shared.RoleDoctor)
	require.NoError(t, err)

	var got shared.Principal
	handler := guard.RequireRole(shared.RoleDoctor)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := shared.PrincipalFromContext(r.Context())
		require.True(t, ok)
		got = p
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, shared.RoleDoctor, got.Role)
}
