package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "gateway status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("gateway %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("gateway %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

// statusCode extracts the upstream HTTP status from either transport path.
func statusCode(err error) (int, bool) {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

// classifyGatewayError never marks an error retryable: a model call is made
// at most once per request. Quota responses do not count against the breaker.
func classifyGatewayError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{}
	}
	if code, ok := statusCode(err); ok {
		switch code {
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			return resilience.ErrorClassification{}
		}
		return resilience.ErrorClassification{RecordFailure: code >= 500}
	}
	return resilience.ErrorClassification{RecordFailure: true}
}

func toDomainError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if code, ok := statusCode(err); ok {
		switch code {
		case http.StatusTooManyRequests:
			return domain.WrapError(domain.ErrRateLimited, operation, err)
		case http.StatusPaymentRequired:
			return domain.WrapError(domain.ErrCreditsExhausted, operation, err)
		}
	}
	return domain.WrapError(domain.ErrUpstream, operation, err)
}
