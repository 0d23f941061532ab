package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/elee1766/bookdesk/src/aisdk"
	"github.com/elee1766/bookdesk/src/api"
	"github.com/elee1766/bookdesk/src/config"
	"github.com/elee1766/bookdesk/src/desk"
	"github.com/elee1766/bookdesk/src/deskagent"
	"github.com/elee1766/bookdesk/src/events"
	"github.com/elee1766/bookdesk/src/executor"
	"github.com/elee1766/bookdesk/src/orclient"
	"github.com/elee1766/bookdesk/src/storage"
	"github.com/samber/do/v2"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*storage.DB
}

// Shutdown implements do.ShutdownerWithError.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// HealthCheck implements do.HealthcheckerWithContext.
func (h *StoreHandle) HealthCheck(ctx context.Context) error {
	return h.DB.DB().PingContext(ctx)
}

// PublisherHandle wraps the event publisher with shutdown capability.
type PublisherHandle struct {
	events.Publisher
}

// Shutdown implements do.ShutdownerWithError.
func (h *PublisherHandle) Shutdown() error {
	return h.Close()
}

// HTTPServerHandle wraps http.Server with shutdown capability.
type HTTPServerHandle struct {
	*http.Server
	limiter         *api.RateLimiter
	shutdownTimeout time.Duration
}

// Shutdown implements do.ShutdownerWithError. It waits for in-flight requests up to
// the configured shutdown timeout.
func (h *HTTPServerHandle) Shutdown() error {
	if h.limiter != nil {
		h.limiter.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ProvideStore opens the database and applies pending migrations.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("database opened", "path", cfg.Database.Path, "schema_version", storage.LatestVersion())
	return &StoreHandle{DB: db}, nil
}

// ProvidePublisher returns the Kafka publisher when events are enabled and a no-op otherwise.
func ProvidePublisher(i do.Injector) (*PublisherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)

	if !cfg.Events.Enabled {
		return &PublisherHandle{Publisher: events.Noop{}}, nil
	}
	publisher, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:  cfg.Events.Brokers,
		Topic:    cfg.Events.Topic,
		ClientID: cfg.Events.ClientID,
		Timeout:  cfg.Events.Timeout.Std(),
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("publishing events to kafka", "brokers", cfg.Events.Brokers, "topic", cfg.Events.Topic)
	return &PublisherHandle{Publisher: publisher}, nil
}

// ProvideDesk provides the domain service.
func ProvideDesk(i do.Injector) (*desk.Service, error) {
	store := do.MustInvoke[*StoreHandle](i)
	publisher := do.MustInvoke[*PublisherHandle](i)
	logger := do.MustInvoke[*slog.Logger](i)

	return desk.NewService(store.DB.DB(),
		desk.WithPublisher(publisher.Publisher),
		desk.WithLogger(logger),
	), nil
}

// ProvideModelClient provides the chat completion client bound to the configured model.
func ProvideModelClient(i do.Injector) (aisdk.ModelClient, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)

	if cfg.LLM.APIKey == "" {
		logger.Warn("no API key configured; chat requests will fail")
	}
	client := orclient.NewClient(orclient.Config{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Logger:     logger,
		Timeout:    cfg.LLM.Timeout.Std(),
		RetryCount: cfg.LLM.RetryCount,
		RetryDelay: cfg.LLM.RetryDelay.Std(),
		SiteURL:    cfg.LLM.SiteURL,
		SiteName:   cfg.LLM.SiteName,
	})
	return client.Model(cfg.LLM.Model), nil
}

// ProvideAgentBuilder provides the desk agent builder.
func ProvideAgentBuilder(i do.Injector) (*deskagent.Builder, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)
	svc := do.MustInvoke[*desk.Service](i)
	model := do.MustInvoke[aisdk.ModelClient](i)

	return deskagent.NewBuilder(svc, model, deskagent.Config{
		Temperature:     cfg.Agent.Temperature,
		MaxSteps:        cfg.Agent.MaxSteps,
		SystemPrompt:    cfg.Agent.SystemPrompt,
		RecordToolCalls: cfg.Agent.RecordToolCalls,
		Logger:          logger,
	})
}

// ProvideExecutor provides the chat turn service.
func ProvideExecutor(i do.Injector) (*executor.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)

	return executor.NewService(executor.ServiceConfig{
		Desk:        do.MustInvoke[*desk.Service](i),
		Agent:       do.MustInvoke[*deskagent.Builder](i),
		TurnTimeout: cfg.Agent.TurnTimeout.Std(),
		Logger:      logger,
	})
}

// ProvideHTTPServer provides the HTTP server. It is not listening until App.Serve.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)
	store := do.MustInvoke[*StoreHandle](i)

	var limiter *api.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = api.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	handler := api.NewServer(
		do.MustInvoke[*desk.Service](i),
		do.MustInvoke[*executor.Service](i),
		store.DB.DB(),
		api.Config{CORSOrigins: cfg.Server.CORSOrigins, ChatLimiter: limiter},
		logger,
	)

	shutdownTimeout := cfg.Server.ShutdownTimeout.Std()
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &HTTPServerHandle{
		Server: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout.Std(),
			WriteTimeout: cfg.Server.WriteTimeout.Std(),
			ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		limiter:         limiter,
		shutdownTimeout: shutdownTimeout,
	}, nil
}
