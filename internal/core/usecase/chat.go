package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
)

const (
	DefaultMaxMessages     = 50
	DefaultMaxMessageChars = 10000

	operationChat = "study_chat"
)

type ChatOptions struct {
	Limits       domain.ChatLimits
	ContextLimit ContextLimits
	Observer     ports.PipelineObserver
	Publisher    ports.UsagePublisher
}

type ChatUseCase struct {
	docs         ports.DocumentSource
	gateway      ports.ChatGateway
	limits       domain.ChatLimits
	contextLimit ContextLimits
	observer     ports.PipelineObserver
	publisher    ports.UsagePublisher
}

func NewChatUseCase(docs ports.DocumentSource, gateway ports.ChatGateway, opts ChatOptions) *ChatUseCase {
	limits := opts.Limits
	if limits.MaxMessages <= 0 {
		limits.MaxMessages = DefaultMaxMessages
	}
	if limits.MaxMessageChars <= 0 {
		limits.MaxMessageChars = DefaultMaxMessageChars
	}
	uc := &ChatUseCase{
		docs:         docs,
		gateway:      gateway,
		limits:       limits,
		contextLimit: opts.ContextLimit,
		observer:     opts.Observer,
		publisher:    opts.Publisher,
	}
	if uc.observer == nil {
		uc.observer = noopObserver{}
	}
	if uc.publisher == nil {
		uc.publisher = noopPublisher{}
	}
	return uc
}

// StreamChat returns the upstream event stream. The caller owns the body.
func (uc *ChatUseCase) StreamChat(ctx context.Context, caller domain.Identity, req domain.ChatRequest) (io.ReadCloser, error) {
	turns, err := SanitizeTurns(req.Messages, uc.limits)
	if err != nil {
		return nil, err
	}

	category, known := domain.ParseCategory(req.Category)
	if !known && req.Category != "" {
		slog.Debug("chat_category_defaulted", "request_id", domain.RequestIDFromContext(ctx), "category", req.Category)
	}

	filter := domain.DocumentFilter{OwnerID: caller.UserID}
	if category.Restricts() {
		filter.Category = category
	}
	docs, err := uc.docs.ListDocuments(ctx, filter)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStore, "list chat documents", err)
	}

	assembled := BuildChatContext(docs, uc.contextLimit)
	uc.observer.ObserveContext(operationChat, utf8.RuneCountInString(assembled.Text), assembled.Truncated)

	messages := make([]domain.ChatTurn, 0, len(turns)+1)
	messages = append(messages, domain.ChatTurn{
		Role:    domain.RoleSystem,
		Content: BuildChatSystemPrompt(category, assembled.Text),
	})
	messages = append(messages, turns...)

	start := time.Now()
	body, err := uc.gateway.StreamChat(ctx, messages)
	duration := time.Since(start)
	outcome := gatewayOutcome(err)
	uc.observer.ObserveGatewayCall(operationChat, outcome, duration)
	publishUsage(ctx, uc.publisher, ports.UsageEvent{
		UserID:       caller.UserID,
		Operation:    operationChat,
		Outcome:      outcome,
		DurationMS:   float64(duration.Microseconds()) / 1000.0,
		Documents:    assembled.Documents,
		ContextChars: utf8.RuneCountInString(assembled.Text),
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// SanitizeTurns enforces the role set and the count and length caps. Content
// over the cap is cut at the end; no turn is dropped.
func SanitizeTurns(turns []domain.ChatTurn, limits domain.ChatLimits) ([]domain.ChatTurn, error) {
	if turns == nil {
		return nil, domain.NewClientError(domain.ErrInvalidInput, "sanitize turns", "Messages array is required")
	}
	if len(turns) > limits.MaxMessages {
		return nil, domain.NewClientError(domain.ErrInvalidInput, "sanitize turns", fmt.Sprintf("Maximum %d messages allowed", limits.MaxMessages))
	}

	out := make([]domain.ChatTurn, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case domain.RoleUser, domain.RoleAssistant:
		default:
			return nil, domain.NewClientError(domain.ErrInvalidInput, "sanitize turns", "Invalid message role")
		}
		content, _ := truncateRunes(turn.Content, limits.MaxMessageChars)
		out = append(out, domain.ChatTurn{Role: turn.Role, Content: content})
	}
	return out, nil
}
