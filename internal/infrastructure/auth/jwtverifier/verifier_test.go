package jwtverifier

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-signing-key"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "user-42",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
}

func newVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := New(Options{Secret: testSecret, Audience: "authenticated"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return v
}

func TestVerifyReturnsSubject(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

	identity, err := newVerifier(t).Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.UserID != "user-42" {
		t.Fatalf("expected user-42, got %q", identity.UserID)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	cases := map[string]string{
		"garbage":        "not-a-jwt",
		"wrong secret":   sign(t, jwt.SigningMethodHS256, []byte("other-secret"), validClaims()),
		"expired":        sign(t, jwt.SigningMethodHS256, []byte(testSecret), expired),
		"wrong audience": sign(t, jwt.SigningMethodHS256, []byte(testSecret), wrongAudience),
		"no expiry":      sign(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry),
		"alg none":       sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims()),
	}
	verifier := newVerifier(t)
	for name, token := range cases {
		if _, err := verifier.Verify(context.Background(), token); err == nil {
			t.Fatalf("%s: expected verification error", name)
		}
	}
}

func TestVerifyAllowsMissingSubject(t *testing.T) {
	claims := validClaims()
	claims.Subject = ""
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

	identity, err := newVerifier(t).Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.UserID != "" {
		t.Fatalf("expected empty user id, got %q", identity.UserID)
	}
}

func TestEmptyAudienceSkipsAudienceCheck(t *testing.T) {
	verifier, err := New(Options{Secret: testSecret})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	claims := validClaims()
	claims.Audience = nil
	token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), claims)

	if _, err := verifier.Verify(context.Background(), token); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New(Options{Secret: "  "}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
