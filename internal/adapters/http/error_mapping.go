package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kirillkom/study-assistant/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrUnauthorized), domain.IsKind(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrInvalidInput), domain.IsKind(err, domain.ErrNoDocuments):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case domain.IsKind(err, domain.ErrCreditsExhausted):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text shown to clients. Upstream detail stays in
// the logs.
func publicMessage(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrUnauthorized):
		return "Unauthorized"
	case domain.IsKind(err, domain.ErrInvalidToken):
		if msg, ok := domain.ClientMessage(err); ok {
			return msg
		}
		return "Invalid token"
	case domain.IsKind(err, domain.ErrInvalidInput):
		if msg, ok := domain.ClientMessage(err); ok {
			return msg
		}
		var jsonErr *invalidJSONError
		if errors.As(err, &jsonErr) {
			return "Invalid JSON body"
		}
		return "Invalid request"
	case domain.IsKind(err, domain.ErrNoDocuments):
		return "No PYQ documents found. Please upload previous year question papers first."
	case domain.IsKind(err, domain.ErrRateLimited):
		return "Rate limit exceeded. Please try again later."
	case domain.IsKind(err, domain.ErrCreditsExhausted):
		return "AI credits exhausted. Please add credits to continue."
	case domain.IsKind(err, domain.ErrStore):
		return "Failed to fetch documents"
	case domain.IsKind(err, domain.ErrGenerationFailed):
		return "Failed to generate analysis"
	case domain.IsKind(err, domain.ErrUpstream):
		return "AI service error"
	default:
		return "Internal server error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	attrs := []any{
		"request_id", domain.RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", err,
	}
	if status >= 500 {
		slog.Error("request_failed", attrs...)
	} else {
		slog.Warn("request_failed", attrs...)
	}
	writeJSON(w, status, map[string]string{"error": publicMessage(err)})
}
