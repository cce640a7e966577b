package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
	"github.com/kirillkom/study-assistant/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL = "https://ai.gateway.lovable.dev/v1"
	DefaultModel   = "google/gemini-3-flash-preview"
	DefaultTimeout = 120 * time.Second
)

type Options struct {
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
	Executor *resilience.Executor
	// HTTPClient overrides the transport; its Timeout must stay zero for
	// streaming to outlive the header deadline.
	HTTPClient *http.Client
}

// Client is an OpenAI-compatible chat completions gateway.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	api        *openai.Client
	executor   *resilience.Executor
}

var _ ports.ChatGateway = (*Client)(nil)

func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = timeout
		httpClient = &http.Client{Transport: transport}
	}

	apiCfg := openai.DefaultConfig(opts.APIKey)
	apiCfg.BaseURL = baseURL
	apiCfg.HTTPClient = httpClient

	return &Client{
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		model:      model,
		timeout:    timeout,
		httpClient: httpClient,
		api:        openai.NewClientWithConfig(apiCfg),
		executor:   opts.Executor,
	}
}

// StreamChat forwards the turns with streaming enabled and hands back the
// upstream body once a 2xx status arrives.
func (c *Client) StreamChat(ctx context.Context, turns []domain.ChatTurn) (io.ReadCloser, error) {
	payload := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toMessages(turns),
		Stream:   true,
	}

	body, err := resilience.Do(ctx, c.executor, "gateway.stream_chat", func(ctx context.Context) (io.ReadCloser, error) {
		return c.openStream(ctx, payload)
	}, classifyGatewayError)
	if err != nil {
		return nil, toDomainError("stream chat", err)
	}
	return body, nil
}

// ExtractStructured forces a single function call and returns its raw
// arguments.
func (c *Client) ExtractStructured(ctx context.Context, req ports.ExtractionRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        req.FunctionName,
				Description: req.FunctionSummary,
				Parameters:  req.Schema,
			},
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: req.FunctionName},
		},
	}

	resp, err := resilience.Do(ctx, c.executor, "gateway.extract_structured", func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return c.api.CreateChatCompletion(ctx, payload)
	}, classifyGatewayError)
	if err != nil {
		return nil, toDomainError("extract structured", err)
	}

	args, err := functionArguments(resp, req.FunctionName)
	if err != nil {
		return nil, domain.WrapError(domain.ErrGenerationFailed, "extract structured", err)
	}
	return []byte(args), nil
}

func functionArguments(resp openai.ChatCompletionResponse, name string) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gateway returned no choices")
	}
	for _, call := range resp.Choices[0].Message.ToolCalls {
		if call.Function.Name != "" && call.Function.Name != name {
			continue
		}
		if strings.TrimSpace(call.Function.Arguments) == "" {
			return "", fmt.Errorf("function %s returned empty arguments", name)
		}
		return call.Function.Arguments, nil
	}
	return "", fmt.Errorf("gateway response carries no %s call", name)
}

func toMessages(turns []domain.ChatTurn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	return messages
}
