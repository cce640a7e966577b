package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
)

const maxRequestBodyBytes = 8 << 20

// Metrics is the HTTP-facing part of the metrics registry.
type Metrics interface {
	Handler() http.Handler
	Middleware(next http.Handler) http.Handler
}

type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Metrics        Metrics
}

type Router struct {
	auth     ports.Authenticator
	chat     ports.ChatService
	analysis ports.AnalysisService
	spec     []byte
	opts     Options
}

func NewRouter(
	auth ports.Authenticator,
	chat ports.ChatService,
	analysis ports.AnalysisService,
	opts Options,
) (*Router, error) {
	spec, err := loadOpenAPISpec()
	if err != nil {
		return nil, err
	}
	return &Router{
		auth:     auth,
		chat:     chat,
		analysis: analysis,
		spec:     spec,
		opts:     opts,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/openapi.json", rt.openapi)
	mux.HandleFunc("/v1/study-chat", rt.studyChat)
	mux.HandleFunc("/v1/analyze-pyq", rt.analyzePYQ)
	if rt.opts.Metrics != nil {
		mux.Handle("/metrics", rt.opts.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	handler = corsMiddleware(handler)
	if rt.opts.Metrics != nil {
		handler = rt.opts.Metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openapi(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rt.spec)
}

type studyChatRequest struct {
	Messages []domain.ChatTurn `json:"messages"`
	Category string            `json:"category"`
}

func (rt *Router) studyChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	caller, err := rt.auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req studyChatRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	body, err := rt.chat.StreamChat(r.Context(), caller, domain.ChatRequest{
		Messages: req.Messages,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	relayEventStream(w, r, body)
}

type analyzePYQResponse struct {
	Success bool                   `json:"success"`
	Data    *domain.AnalysisResult `json:"data"`
}

func (rt *Router) analyzePYQ(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	caller, err := rt.auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := rt.analysis.AnalyzePYQ(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzePYQResponse{Success: true, Data: result})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewClientError(domain.ErrInvalidInput, "decode body", "Request body too large")
		}
		return domain.WrapError(domain.ErrInvalidInput, "decode body", &invalidJSONError{cause: err})
	}
	return nil
}

type invalidJSONError struct {
	cause error
}

func (e *invalidJSONError) Error() string { return "invalid json: " + e.cause.Error() }
func (e *invalidJSONError) Unwrap() error { return e.cause }

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}
