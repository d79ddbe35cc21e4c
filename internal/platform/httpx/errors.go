// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/medicore/medicore/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Token verification failures are collapsed to a single 401 upstream of this
// function: handlers pass shared sentinels only, never raw token errors.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicateEmail):
		Problem(w, http.StatusBadRequest, "Duplicate Email", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// Unauthorized rejects a request whose bearer token is missing, expired or
// otherwise unverifiable. The reason is deliberately not echoed back.
func Unauthorized(w http.ResponseWriter) {
	Problem(w, http.StatusUnauthorized, "Unauthorized", "missing or invalid token")
}

// Forbidden rejects a verified principal whose role does not match the route.
func Forbidden(w http.ResponseWriter) {
	Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
}
