package ports

import (
	"context"
	"io"

	"github.com/kirillkom/study-assistant/internal/core/domain"
)

// Authenticator is the inbound contract for the bearer credential step.
type Authenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (domain.Identity, error)
}

// ChatService streams a document-grounded chat reply.
type ChatService interface {
	StreamChat(ctx context.Context, caller domain.Identity, req domain.ChatRequest) (io.ReadCloser, error)
}

// AnalysisService runs the structured PYQ analysis.
type AnalysisService interface {
	AnalyzePYQ(ctx context.Context, caller domain.Identity) (*domain.AnalysisResult, error)
}
