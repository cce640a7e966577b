package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
)

const operationAnalysis = "analyze_pyq"

type AnalysisOptions struct {
	ContextLimit ContextLimits
	Observer     ports.PipelineObserver
	Publisher    ports.UsagePublisher
}

type AnalysisUseCase struct {
	docs         ports.DocumentSource
	gateway      ports.ChatGateway
	contextLimit ContextLimits
	observer     ports.PipelineObserver
	publisher    ports.UsagePublisher
}

func NewAnalysisUseCase(docs ports.DocumentSource, gateway ports.ChatGateway, opts AnalysisOptions) *AnalysisUseCase {
	limit := opts.ContextLimit
	if limit.PerDocument <= 0 {
		limit.PerDocument = DefaultMaxDocumentChars
	}
	if limit.Total <= 0 {
		limit.Total = DefaultMaxContextChars
	}
	uc := &AnalysisUseCase{
		docs:         docs,
		gateway:      gateway,
		contextLimit: limit,
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

func (uc *AnalysisUseCase) AnalyzePYQ(ctx context.Context, caller domain.Identity) (*domain.AnalysisResult, error) {
	docs, err := uc.docs.ListDocuments(ctx, domain.DocumentFilter{
		OwnerID:  caller.UserID,
		Category: domain.CategoryPYQ,
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrStore, "list pyq documents", err)
	}
	if len(docs) == 0 {
		return nil, domain.NewError(domain.ErrNoDocuments, "analyze pyq", "no pyq documents for caller")
	}

	assembled := BuildAnalysisContext(docs, uc.contextLimit)
	contextChars := utf8.RuneCountInString(assembled.Text)
	uc.observer.ObserveContext(operationAnalysis, contextChars, assembled.Truncated)

	start := time.Now()
	result, err := uc.extract(ctx, assembled.Text)
	duration := time.Since(start)
	outcome := gatewayOutcome(err)
	uc.observer.ObserveGatewayCall(operationAnalysis, outcome, duration)
	publishUsage(ctx, uc.publisher, ports.UsageEvent{
		UserID:       caller.UserID,
		Operation:    operationAnalysis,
		Outcome:      outcome,
		DurationMS:   float64(duration.Microseconds()) / 1000.0,
		Documents:    assembled.Documents,
		ContextChars: contextChars,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *AnalysisUseCase) extract(ctx context.Context, documentContext string) (*domain.AnalysisResult, error) {
	schema := AnalysisSchema()
	raw, err := uc.gateway.ExtractStructured(ctx, ports.ExtractionRequest{
		SystemPrompt:    analysisSystemPrompt,
		UserPrompt:      buildAnalysisPrompt(documentContext),
		FunctionName:    analysisFunctionName,
		FunctionSummary: analysisFunctionSummary,
		Schema:          schema,
	})
	if err != nil {
		return nil, err
	}
	return DecodeAnalysis(schema, raw)
}

// DecodeAnalysis checks raw function arguments against schema before
// trusting any field.
func DecodeAnalysis(schema jsonschema.Definition, raw []byte) (*domain.AnalysisResult, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return nil, domain.NewError(domain.ErrGenerationFailed, "decode analysis", "empty function arguments")
	}

	var result domain.AnalysisResult
	if err := jsonschema.VerifySchemaAndUnmarshal(schema, raw, &result); err != nil {
		return nil, domain.WrapError(domain.ErrGenerationFailed, "decode analysis "+AnalysisSchemaVersion, err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}
