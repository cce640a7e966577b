package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/study-assistant/internal/config"
	"github.com/kirillkom/study-assistant/internal/core/domain"
)

type docsFake struct {
	calls int
}

func (f *docsFake) ListDocuments(context.Context, domain.DocumentFilter) ([]domain.Document, error) {
	f.calls++
	return nil, nil
}

func testConfig() config.Config {
	return config.Config{
		PostgresDSN:             "postgres://unused",
		AuthJWTSecret:           "secret",
		AuthJWTAudience:         "authenticated",
		AIGatewayURL:            "http://127.0.0.1:1/v1",
		AIGatewayAPIKey:         "key",
		AIGatewayModel:          "test-model",
		AIGatewayTimeoutSeconds: 5,
		ChatMaxMessages:         50,
		ChatMaxMessageChars:     10000,
		ContextMaxDocumentChars: 20000,
		ContextMaxTotalChars:    50000,
		BreakerEnabled:          true,
	}
}

func TestAssembleServesOperationalRoutes(t *testing.T) {
	app, err := Assemble(testConfig(), &docsFake{}, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	handler := app.Handler()

	for _, path := range []string{"/healthz", "/metrics", "/openapi.json"} {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, path, nil))
		if res.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, res.Code)
		}
	}
}

func TestAssembledAnalysisNeedsDocumentsBeforeGateway(t *testing.T) {
	docs := &docsFake{}
	app, err := Assemble(testConfig(), docs, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	_, err = app.Analysis.AnalyzePYQ(context.Background(), domain.Identity{UserID: "user-1"})
	if !domain.IsKind(err, domain.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
	if docs.calls != 1 {
		t.Fatalf("expected one document read, got %d", docs.calls)
	}
}

func TestAssembledRouterRejectsAnonymousCalls(t *testing.T) {
	docs := &docsFake{}
	app, err := Assemble(testConfig(), docs, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	res := httptest.NewRecorder()
	app.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/study-chat", strings.NewReader(`{"messages":[]}`)))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if docs.calls != 0 {
		t.Fatalf("documents must not be read for anonymous callers")
	}
}

func TestAssembleRejectsMissingSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.AIGatewayAPIKey = ""
	if _, err := Assemble(cfg, &docsFake{}, nil); err == nil {
		t.Fatalf("expected config validation error")
	}
}
