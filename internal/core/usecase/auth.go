package usecase

import (
	"context"
	"strings"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
)

const bearerPrefix = "Bearer "

type AuthUseCase struct {
	verifier ports.IdentityVerifier
}

func NewAuthUseCase(verifier ports.IdentityVerifier) *AuthUseCase {
	return &AuthUseCase{verifier: verifier}
}

// Authenticate resolves the caller from an Authorization header value. It
// must run before any document access.
func (uc *AuthUseCase) Authenticate(ctx context.Context, authorizationHeader string) (domain.Identity, error) {
	token, ok := bearerToken(authorizationHeader)
	if !ok {
		return domain.Identity{}, domain.NewError(domain.ErrUnauthorized, "authenticate", "missing or malformed bearer credential")
	}

	identity, err := uc.verifier.Verify(ctx, token)
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidToken) {
			return domain.Identity{}, err
		}
		return domain.Identity{}, domain.WrapError(domain.ErrInvalidToken, "authenticate", err)
	}
	if strings.TrimSpace(identity.UserID) == "" {
		return domain.Identity{}, domain.NewClientError(domain.ErrInvalidToken, "authenticate", "User ID not found in token")
	}
	return identity, nil
}

func bearerToken(headerValue string) (string, bool) {
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(headerValue, bearerPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}
