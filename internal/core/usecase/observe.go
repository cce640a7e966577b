package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
)

type noopObserver struct{}

func (noopObserver) ObserveContext(string, int, bool)                 {}
func (noopObserver) ObserveGatewayCall(string, string, time.Duration) {}

type noopPublisher struct{}

func (noopPublisher) PublishUsage(context.Context, ports.UsageEvent) error { return nil }

// gatewayOutcome is the low-cardinality label for a finished gateway call.
func gatewayOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsKind(err, domain.ErrRateLimited):
		return "rate_limited"
	case domain.IsKind(err, domain.ErrCreditsExhausted):
		return "credits_exhausted"
	case domain.IsKind(err, domain.ErrGenerationFailed):
		return "generation_failed"
	default:
		return "upstream_error"
	}
}

func publishUsage(ctx context.Context, publisher ports.UsagePublisher, event ports.UsageEvent) {
	event.RequestID = domain.RequestIDFromContext(ctx)
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := publisher.PublishUsage(ctx, event); err != nil {
		slog.Warn("usage_publish_failed",
			"request_id", event.RequestID,
			"operation", event.Operation,
			"error", err,
		)
	}
}
