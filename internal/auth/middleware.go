package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/medicore/medicore/internal/platform/httpx"
	"github.com/medicore/medicore/internal/shared"
)

// Guard wraps protected routes with role enforcement. It trusts the role
// claim in the verified token and performs no database access, so the token
// signature is the only trust anchor for authorization.
type Guard struct {
	Tokens *TokenService
	Logger *slog.Logger
}

// RequireRole rejects requests without a valid access token (401) or with a
// token for another role (403). On success the decoded principal is injected
// into the request context for downstream query scoping.
func (g Guard) RequireRole(role shared.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.Unauthorized(w)
				return
			}
			principal, err := g.Tokens.Verify(token, KindAccess)
			if err != nil {
				// Expired, malformed and wrong-kind tokens all answer 401 so
				// responses cannot be used to probe which check failed.
				httpx.Unauthorized(w)
				return
			}
			if principal.Role != role {
				if g.Logger != nil {
					g.Logger.Warn("role mismatch",
						slog.String("required", role.String()),
						slog.String("got", principal.Role.String()),
						slog.String("path", r.URL.Path))
				}
				httpx.Forbidden(w)
				return
			}
			ctx := shared.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
