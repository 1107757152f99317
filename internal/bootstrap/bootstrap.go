package bootstrap

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/config"
	"wealthwatch-service/internal/infrastructure/auth"
	infraconfig "wealthwatch-service/internal/infrastructure/config"
	httpserver "wealthwatch-service/internal/infrastructure/http"
	"wealthwatch-service/internal/infrastructure/provider"
	"wealthwatch-service/internal/infrastructure/worker"
)

// App is the assembled API process. Worker is nil when no recorder is
// configured.
type App struct {
	Handler http.Handler
	Worker  application.Worker
	Quotes  *application.QuoteService
}

// Build wires the API from cfg. The returned cleanup closes storage clients
// and must run after the worker has stopped.
func Build(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func(), error) {
	providers, searcher, err := ProvideProviders(cfg)
	if err != nil {
		return nil, func() {}, err
	}
	storage, cleanup, err := ProvideStorage(ctx, cfg, log)
	if err != nil {
		return nil, func() {}, err
	}

	app := &App{}
	resolverOpts := []application.ResolverOption{application.WithResolverLogger(log)}
	if storage.Recorder != nil {
		queue, w := worker.NewQueue(storage.Recorder, infraconfig.DefaultRecordQueueSize)
		resolverOpts = append(resolverOpts, application.WithRecorder(queue))
		app.Worker = w
	}

	synth := provider.NewSynthetic()
	resolver := application.NewResolver(providers, synth, resolverOpts...)
	quoteOpts := []application.Option{
		application.WithConcurrency(cfg.BatchConcurrency),
		application.WithMaxBatch(cfg.MaxBatchSymbols),
		application.WithLogger(log),
	}
	if searcher != nil {
		quoteOpts = append(quoteOpts, application.WithSearcher(searcher))
	}
	app.Quotes = application.NewQuoteService(resolver, synth, quoteOpts...)
	portfolio := application.NewPortfolioService(app.Quotes, nil)

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn("JWT_SECRET not set; tokens will not survive a restart")
	}
	tokens := auth.NewIssuer(secret, auth.WithTTL(infraconfig.DefaultTokenTTL))

	serverOpts := []httpserver.ServerOption{httpserver.WithCORSOrigins(cfg.CORSOrigins)}
	if storage.Stats != nil {
		serverOpts = append(serverOpts, httpserver.WithResolutionStats(storage.Stats))
	}
	if storage.Log != nil {
		serverOpts = append(serverOpts, httpserver.WithResolutionLog(storage.Log))
	}
	if storage.Ping != nil {
		serverOpts = append(serverOpts, httpserver.WithReadyCheck(storage.Ping))
	}
	app.Handler = httpserver.NewRouter(httpserver.NewServer(app.Quotes, portfolio, tokens, serverOpts...))

	log.Info("app.built",
		zap.Strings("providers", resolver.Providers()),
		zap.Strings("recorders", cfg.Recorder),
		zap.Int("batch_concurrency", cfg.BatchConcurrency),
	)
	return app, cleanup, nil
}
