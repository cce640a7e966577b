package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "github.com/kirillkom/study-assistant/internal/adapters/http"
	"github.com/kirillkom/study-assistant/internal/config"
	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
	"github.com/kirillkom/study-assistant/internal/core/usecase"
	"github.com/kirillkom/study-assistant/internal/infrastructure/auth/jwtverifier"
	"github.com/kirillkom/study-assistant/internal/infrastructure/llm/gateway"
	"github.com/kirillkom/study-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/study-assistant/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/study-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/study-assistant/internal/observability/metrics"
)

const serviceName = "study-api"

type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	Auth     ports.Authenticator
	Chat     ports.ChatService
	Analysis ports.AnalysisService

	router  *httpadapter.Router
	closeFn func()
}

// New opens the document store and the optional usage bus, then wires
// the use cases.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if cfg.DocumentsEnsureSchema {
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	var publisher ports.UsagePublisher
	var usage *nats.UsagePublisher
	if cfg.NATSURL != "" {
		usage, err = nats.NewUsagePublisher(cfg.NATSURL, cfg.NATSUsageSubject, nats.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.Config{
				RetryMaxAttempts: 2,
				BreakerEnabled:   true,
			}),
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init usage publisher: %w", err)
		}
		publisher = usage
	} else {
		slog.Info("usage_events_disabled")
	}

	app, err := Assemble(cfg, repo, publisher)
	if err != nil {
		usage.Close()
		_ = db.Close()
		return nil, err
	}
	app.closeFn = closeAll(usage, db)
	return app, nil
}

// Assemble builds the application around an already opened document source.
func Assemble(cfg config.Config, docs ports.DocumentSource, publisher ports.UsagePublisher) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	verifier, err := jwtverifier.New(jwtverifier.Options{
		Secret:   cfg.AuthJWTSecret,
		Audience: cfg.AuthJWTAudience,
	})
	if err != nil {
		return nil, fmt.Errorf("init jwt verifier: %w", err)
	}

	gatewayClient := gateway.New(gateway.Options{
		BaseURL: cfg.AIGatewayURL,
		APIKey:  cfg.AIGatewayAPIKey,
		Model:   cfg.AIGatewayModel,
		Timeout: cfg.AIGatewayTimeout(),
		Executor: resilience.NewExecutor(resilience.Config{
			RetryMaxAttempts:        1,
			BreakerEnabled:          cfg.BreakerEnabled,
			BreakerMinRequests:      uint32(max(cfg.BreakerMinRequests, 0)),
			BreakerFailureRatio:     cfg.BreakerFailureRatio,
			BreakerOpenTimeout:      cfg.BreakerOpenTimeout(),
			BreakerHalfOpenMaxCalls: uint32(max(cfg.BreakerHalfOpenMaxCalls, 0)),
		}),
	})

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	contextLimits := usecase.ContextLimits{
		PerDocument: cfg.ContextMaxDocumentChars,
		Total:       cfg.ContextMaxTotalChars,
	}

	auth := usecase.NewAuthUseCase(verifier)
	chat := usecase.NewChatUseCase(docs, gatewayClient, usecase.ChatOptions{
		Limits: domain.ChatLimits{
			MaxMessages:     cfg.ChatMaxMessages,
			MaxMessageChars: cfg.ChatMaxMessageChars,
		},
		// Chat applies only the total ceiling.
		ContextLimit: usecase.ContextLimits{Total: cfg.ContextMaxTotalChars},
		Observer:     httpMetrics,
		Publisher:    publisher,
	})
	analysis := usecase.NewAnalysisUseCase(docs, gatewayClient, usecase.AnalysisOptions{
		ContextLimit: contextLimits,
		Observer:     httpMetrics,
		Publisher:    publisher,
	})

	router, err := httpadapter.NewRouter(auth, chat, analysis, httpadapter.Options{
		RateLimitRPS:   cfg.APIRateLimitRPS,
		RateLimitBurst: cfg.APIRateLimitBurst,
		Metrics:        httpMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("init router: %w", err)
	}

	return &App{
		Config:   cfg,
		Metrics:  httpMetrics,
		Auth:     auth,
		Chat:     chat,
		Analysis: analysis,
		router:   router,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.router.Handler()
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func closeAll(usage *nats.UsagePublisher, db *sql.DB) func() {
	return func() {
		usage.Close()
		if err := db.Close(); err != nil {
			slog.Warn("postgres_close_failed", "error", err)
		}
	}
}
