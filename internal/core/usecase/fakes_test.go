package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
)

type docsFake struct {
	docs    []domain.Document
	err     error
	calls   int
	filters []domain.DocumentFilter
}

func (f *docsFake) ListDocuments(_ context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	f.calls++
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type gatewayFake struct {
	streamBody string
	toolArgs   string
	err        error

	turns      []domain.ChatTurn
	extraction ports.ExtractionRequest
}

func (f *gatewayFake) StreamChat(_ context.Context, turns []domain.ChatTurn) (io.ReadCloser, error) {
	f.turns = turns
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.streamBody)), nil
}

func (f *gatewayFake) ExtractStructured(_ context.Context, req ports.ExtractionRequest) ([]byte, error) {
	f.extraction = req
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.toolArgs), nil
}

type verifierFake struct {
	identity domain.Identity
	err      error
	tokens   []string
}

func (f *verifierFake) Verify(_ context.Context, token string) (domain.Identity, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return domain.Identity{}, f.err
	}
	return f.identity, nil
}

type observerFake struct {
	mu        sync.Mutex
	contexts  []int
	truncated []bool
	outcomes  []string
}

func (f *observerFake) ObserveContext(_ string, chars int, truncated bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contexts = append(f.contexts, chars)
	f.truncated = append(f.truncated, truncated)
}

func (f *observerFake) ObserveGatewayCall(_ string, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

type publisherFake struct {
	events []ports.UsageEvent
	err    error
}

func (f *publisherFake) PublishUsage(_ context.Context, event ports.UsageEvent) error {
	f.events = append(f.events, event)
	return f.err
}
