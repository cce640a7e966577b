package ports

import (
	"context"
	"io"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/kirillkom/study-assistant/internal/core/domain"
)

// DocumentSource reads uploaded documents. Implementations must apply
// filter.OwnerID as an equality predicate.
type DocumentSource interface {
	ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)
}

// IdentityVerifier validates a bearer token and yields the caller.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// ExtractionRequest asks the gateway for a forced function call.
type ExtractionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	FunctionName    string
	FunctionSummary string
	Schema          jsonschema.Definition
}

// ChatGateway talks to the hosted model endpoint.
type ChatGateway interface {
	// StreamChat returns the upstream event stream body unmodified.
	StreamChat(ctx context.Context, turns []domain.ChatTurn) (io.ReadCloser, error)
	// ExtractStructured returns the raw arguments of the forced function call.
	ExtractStructured(ctx context.Context, req ExtractionRequest) ([]byte, error)
}

// UsageEvent describes one finished gateway call.
type UsageEvent struct {
	RequestID    string    `json:"request_id,omitempty"`
	UserID       string    `json:"user_id"`
	Operation    string    `json:"operation"`
	Outcome      string    `json:"outcome"`
	DurationMS   float64   `json:"duration_ms"`
	Documents    int       `json:"documents"`
	ContextChars int       `json:"context_chars"`
	At           time.Time `json:"at"`
}

// UsagePublisher emits usage events; failures are not fatal to the caller.
type UsagePublisher interface {
	PublishUsage(ctx context.Context, event UsageEvent) error
}

// PipelineObserver receives pipeline measurements.
type PipelineObserver interface {
	ObserveContext(operation string, chars int, truncated bool)
	ObserveGatewayCall(operation, outcome string, duration time.Duration)
}
