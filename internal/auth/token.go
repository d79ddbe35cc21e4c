package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medicore/medicore/internal/shared"
)

// Verification failures are collapsed to these three cases and nothing finer:
// callers must not learn why a signature did not verify.
var (
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenKindMismatch = errors.New("token kind mismatch")
)

type tokenClaims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the signed access/refresh token pair. It
// holds no per-token state: the HMAC secret passed at construction is the
// sole trust anchor, and rotating it invalidates every outstanding token.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService constructs a TokenService. The secret comes from process
// configuration and must never be ambient state.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue signs an access/refresh pair for the principal. Both tokens embed the
// role as a first-class claim so the guard never needs a database round-trip.
func (s *TokenService) Issue(principalID int64, role shared.Role) (TokenPair, error) {
	access, err := s.sign(principalID, role, KindAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(principalID, role, KindRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify decodes a token and checks signature, expiry and kind. Any failure
// other than expiry or a kind mismatch reports ErrTokenInvalid.
func (s *TokenService) Verify(token string, kind TokenKind) (shared.Principal, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return shared.Principal{}, ErrTokenExpired
		}
		return shared.Principal{}, ErrTokenInvalid
	}
	if !parsed.Valid {
		return shared.Principal{}, ErrTokenInvalid
	}
	if claims.Kind != string(kind) {
		return shared.Principal{}, ErrTokenKindMismatch
	}
	role, err := shared.ParseRole(claims.Role)
	if err != nil {
		return shared.Principal{}, ErrTokenInvalid
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return shared.Principal{}, ErrTokenInvalid
	}
	return shared.Principal{ID: id, Role: role}, nil
}

// Refresh exchanges a valid refresh token for a new access token carrying the
// same principal and role. The refresh token is not rotated and stays valid
// until natural expiry.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	principal, err := s.Verify(refreshToken, KindRefresh)
	if err != nil {
		return "", err
	}
	return s.sign(principal.ID, principal.Role, KindAccess, s.accessTTL)
}

func (s *TokenService) sign(id int64, role shared.Role, kind TokenKind, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role: role.String(),
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
