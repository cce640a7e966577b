package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/study-assistant/internal/core/domain"
)

func TestAuthenticateRejectsMalformedHeaderWithoutVerifying(t *testing.T) {
	headers := []string{"", "Basic abc", "bearer abc", "Bearer ", "Bearer    ", "Token Bearer abc"}
	for _, header := range headers {
		verifier := &verifierFake{identity: domain.Identity{UserID: "u1"}}
		uc := NewAuthUseCase(verifier)

		_, err := uc.Authenticate(context.Background(), header)
		if !domain.IsKind(err, domain.ErrUnauthorized) {
			t.Fatalf("header %q: expected ErrUnauthorized, got %v", header, err)
		}
		if len(verifier.tokens) != 0 {
			t.Fatalf("header %q: verifier must not be called", header)
		}
	}
}

func TestAuthenticateMapsVerifierFailureToInvalidToken(t *testing.T) {
	uc := NewAuthUseCase(&verifierFake{err: errors.New("signature mismatch")})

	_, err := uc.Authenticate(context.Background(), "Bearer abc")
	if !domain.IsKind(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateRequiresUserID(t *testing.T) {
	uc := NewAuthUseCase(&verifierFake{identity: domain.Identity{UserID: "  "}})

	_, err := uc.Authenticate(context.Background(), "Bearer abc")
	if !domain.IsKind(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticatePassesTokenToVerifier(t *testing.T) {
	verifier := &verifierFake{identity: domain.Identity{UserID: "user-1"}}
	uc := NewAuthUseCase(verifier)

	identity, err := uc.Authenticate(context.Background(), "Bearer token-123")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if identity.UserID != "user-1" {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if len(verifier.tokens) != 1 || verifier.tokens[0] != "token-123" {
		t.Fatalf("unexpected verified tokens %v", verifier.tokens)
	}
}
