package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bukid/internal/core"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRolePolicyResolve(t *testing.T) {
	policy := NewRolePolicy("Kapitan@Barangay.PH")

	tests := []struct {
		email string
		want  core.Role
	}{
		{"kapitan@barangay.ph", core.RoleAdmin},
		{"KAPITAN@BARANGAY.PH", core.RoleAdmin},
		{" kapitan@barangay.ph ", core.RoleAdmin},
		{"resident@barangay.ph", core.RoleMember},
		{"", core.RoleMember},
	}
	for _, tt := range tests {
		if got := policy.Resolve(tt.email); got != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.email, got, tt.want)
		}
	}

	// An unset policy grants nobody admin.
	empty := NewRolePolicy("")
	if got := empty.Resolve("kapitan@barangay.ph"); got != core.RoleMember {
		t.Errorf("empty policy Resolve() = %s, want member", got)
	}
}

func TestVerifierSessionFromRequest(t *testing.T) {
	policy := NewRolePolicy("kapitan@barangay.ph")
	v := NewVerifier(testSecret, policy)

	claims := Claims{
		Email: "kapitan@barangay.ph",
		Name:  "Kapitan Cruz",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	r := httptest.NewRequest("GET", "/api/budget", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))

	sess, err := v.SessionFromRequest(r)
	if err != nil {
		t.Fatalf("SessionFromRequest() error = %v", err)
	}
	if sess.UserID != "user-1" || sess.Email != "kapitan@barangay.ph" {
		t.Errorf("session = %+v", sess)
	}
	if sess.Role != core.RoleAdmin {
		t.Errorf("Role = %s, want admin", sess.Role)
	}
}

func TestVerifierSessionFromRequest_Failures(t *testing.T) {
	v := NewVerifier(testSecret, NewRolePolicy("kapitan@barangay.ph"))

	expired := Claims{
		Email: "resident@barangay.ph",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"no header", "", ErrMissingToken},
		{"not bearer", "Basic abc", ErrMissingToken},
		{"garbage token", "Bearer not.a.token", ErrInvalidToken},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", expired), ErrInvalidToken},
		{"expired token", "Bearer " + signToken(t, testSecret, expired), ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/budget", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			_, err := v.SessionFromRequest(r)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SessionFromRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
