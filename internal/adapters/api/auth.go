package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"sportsschool/internal/domain/access"
)

// DefaultTokenTTL is how long an issued bearer token stays valid.
const DefaultTokenTTL = 12 * time.Hour

// ErrInvalidToken is returned for a malformed, expired or wrongly signed token.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload. Subject carries the account ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  access.Role `json:"role"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	AccountID string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      access.Role `json:"role"`
}

// Can reports whether the principal's role grants capability.
func (p Principal) Can(capability access.Capability) bool {
	return access.Can(p.Role, capability)
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. A zero ttl uses DefaultTokenTTL.
// PRE: secret is non-empty
func NewTokenIssuer(secret []byte, ttl time.Duration, now func() time.Time) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: now}
}

// Issue signs a token for p.
// POST: Returned token expires after the issuer's ttl
func (ti *TokenIssuer) Issue(p Principal) (string, time.Time, error) {
	issued := ti.now()
	expires := issued.Add(ti.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.AccountID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email: p.Email,
		Name:  p.Name,
		Role:  p.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// Parse verifies token and returns its principal.
func (ti *TokenIssuer) Parse(token string) (Principal, error) {
	claims := &Claims{}
	// Expiry is checked below against the issuer's clock.
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Name}, SkipClaimsValidation: true}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return ti.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !claims.VerifyExpiresAt(ti.now(), true) {
		return Principal{}, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return Principal{}, fmt.Errorf("%w: missing subject or role", ErrInvalidToken)
	}
	return Principal{AccountID: claims.Subject, Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFromContext returns the principal stored by authenticate.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// authenticate rejects requests without a valid bearer token.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, r, &AppError{Code: CodeUnauthorized, Message: "Authentication required", Status: http.StatusUnauthorized})
			return
		}
		p, err := h.tokens.Parse(token)
		if err != nil {
			writeError(w, r, &AppError{Code: CodeUnauthorized, Message: "Session expired. Please sign in again.", Status: http.StatusUnauthorized, Err: err})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	})
}

// requireCap rejects principals whose role lacks capability.
func requireCap(capability access.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || !p.Can(capability) {
				writeError(w, r, forbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// principal returns the caller. Routes behind authenticate always have one.
func principal(r *http.Request) Principal {
	p, _ := PrincipalFromContext(r.Context())
	return p
}
