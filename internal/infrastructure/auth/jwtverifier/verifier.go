package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
)

const defaultLeeway = 30 * time.Second

type Options struct {
	Secret string
	// Audience is required in the aud claim when non-empty.
	Audience string
	Leeway   time.Duration
}

// Verifier validates HMAC-signed access tokens issued by the identity
// service and maps the sub claim onto the caller identity.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

var _ ports.IdentityVerifier = (*Verifier)(nil)

func New(opts Options) (*Verifier, error) {
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, errors.New("jwt verifier: secret is required")
	}
	leeway := opts.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if audience := strings.TrimSpace(opts.Audience); audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(audience))
	}

	return &Verifier{
		secret: []byte(opts.Secret),
		parser: jwt.NewParser(parserOpts...),
	}, nil
}

// Verify returns an Identity with an empty UserID when the token is valid
// but carries no subject.
func (v *Verifier) Verify(_ context.Context, token string) (domain.Identity, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return domain.Identity{}, errors.New("token is not valid")
	}
	return domain.Identity{UserID: strings.TrimSpace(claims.Subject)}, nil
}
