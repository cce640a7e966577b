package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoDocuments      = errors.New("no documents")
	ErrRateLimited      = errors.New("rate limited")
	ErrCreditsExhausted = errors.New("credits exhausted")
	ErrUpstream         = errors.New("upstream service error")
	ErrGenerationFailed = errors.New("generation failed")
	ErrStore            = errors.New("document store failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// NewError builds a typed error that carries only a message.
func NewError(kind error, operation, message string) error {
	return fmt.Errorf("%s: %w: %s", operation, kind, message)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ClientError carries a message that may be returned to the caller verbatim.
type ClientError struct {
	Kind      error
	Operation string
	Message   string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Operation, e.Kind, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Kind
}

func NewClientError(kind error, operation, message string) error {
	return &ClientError{Kind: kind, Operation: operation, Message: message}
}

// ClientMessage returns the caller-safe message of the first ClientError in
// the chain.
func ClientMessage(err error) (string, bool) {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message, true
	}
	return "", false
}
