// Package auth verifies session tokens issued by the external identity
// provider and resolves caller roles. Token issuance is not this service's
// job; it only checks signatures and expiry on what the provider minted.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"bukid/internal/core"
)

var (
	ErrMissingToken = errors.New("missing or malformed authorization header")
	ErrInvalidToken = errors.New("invalid session token")
)

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Session is the authenticated caller attached to a request.
type Session struct {
	UserID string
	Email  string
	Name   string
	Role   core.Role
}

// RolePolicy resolves a caller's role from their identity. The barangay
// grants admin to exactly one configured email; everyone else is a member.
// Injecting the policy keeps the rule testable and swappable instead of a
// string literal buried in handlers.
type RolePolicy struct {
	adminEmail string
}

func NewRolePolicy(adminEmail string) RolePolicy {
	return RolePolicy{adminEmail: strings.ToLower(strings.TrimSpace(adminEmail))}
}

func (p RolePolicy) Resolve(email string) core.Role {
	if p.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), p.adminEmail) {
		return core.RoleAdmin
	}
	return core.RoleMember
}

// Verifier parses bearer tokens and maps them to sessions.
type Verifier struct {
	secret []byte
	policy RolePolicy
}

func NewVerifier(secret string, policy RolePolicy) *Verifier {
	return &Verifier{secret: []byte(secret), policy: policy}
}

// SessionFromRequest extracts and verifies the bearer token. Callers decide
// whether a missing session is fatal: read-only endpoints are public, writes
// are not.
func (v *Verifier) SessionFromRequest(r *http.Request) (Session, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return Session{}, ErrMissingToken
	}
	tokenStr := strings.TrimSpace(header[len("Bearer "):])

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	return Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   v.policy.Resolve(claims.Email),
	}, nil
}
