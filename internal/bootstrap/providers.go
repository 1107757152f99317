package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/config"
	infraconfig "wealthwatch-service/internal/infrastructure/config"
	"wealthwatch-service/internal/infrastructure/pg"
	"wealthwatch-service/internal/infrastructure/provider"
	redisstore "wealthwatch-service/internal/infrastructure/redis"
)

var (
	ErrMissingDBURL    = errors.New("DATABASE_URL is required for RECORDER=pg")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrUnknownRecorder = errors.New("unknown recorder")
)

// ProvideProviders builds the adapters named in PROVIDERS, in order. The
// first adapter that can search symbols is returned as the searcher.
func ProvideProviders(cfg config.Config) ([]application.QuoteProvider, application.SymbolSearcher, error) {
	client := &http.Client{Timeout: cfg.RequestTimeout}
	var (
		out      []application.QuoteProvider
		searcher application.SymbolSearcher
	)
	for _, name := range cfg.Providers {
		var p application.QuoteProvider
		switch name {
		case provider.AlphaVantageName:
			p = &provider.AlphaVantage{BaseURL: cfg.AlphaVantageBase, APIKey: cfg.AlphaVantageKey, Client: client}
		case provider.YahooName:
			p = &provider.Yahoo{BaseURL: cfg.YahooBase, Client: client}
		default:
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
		}
		if s, ok := p.(application.SymbolSearcher); ok && searcher == nil {
			searcher = s
		}
		out = append(out, p)
	}
	return out, searcher, nil
}

// Storage is whatever RECORDER enabled. Recorder is nil when nothing is.
type Storage struct {
	Recorder application.ResolutionRecorder
	Stats    application.ResolutionStats
	Log      application.ResolutionLog
	Ping     func(ctx context.Context) error
}

func ProvideStorage(ctx context.Context, cfg config.Config, log *zap.Logger) (Storage, func(), error) {
	var (
		st       Storage
		sinks    application.MultiRecorder
		pings    []func(context.Context) error
		cleanups []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	for _, name := range cfg.Recorder {
		switch name {
		case "redis":
			rec, closeRedis, err := ProvideRedisRecorder(ctx, cfg)
			if err != nil {
				cleanup()
				return Storage{}, func() {}, err
			}
			cleanups = append(cleanups, closeRedis)
			sinks = append(sinks, rec)
			pings = append(pings, rec.Ping)
			st.Stats = rec
			log.Info("recorder.enabled", zap.String("backend", name), zap.String("addr", cfg.RedisAddr))
		case "pg":
			db, closeDB, err := ProvideDB(ctx, log, cfg)
			if err != nil {
				cleanup()
				return Storage{}, func() {}, err
			}
			cleanups = append(cleanups, closeDB)
			repo := pg.NewResolutionRepo(db)
			sinks = append(sinks, repo)
			pings = append(pings, db.Ping)
			st.Log = repo
			log.Info("recorder.enabled", zap.String("backend", name))
		default:
			cleanup()
			return Storage{}, func() {}, fmt.Errorf("%w: %q", ErrUnknownRecorder, name)
		}
	}
	switch len(sinks) {
	case 0:
	case 1:
		st.Recorder = sinks[0]
	default:
		st.Recorder = sinks
	}
	if len(pings) > 0 {
		st.Ping = func(ctx context.Context) error {
			for _, ping := range pings {
				if err := ping(ctx); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return st, cleanup, nil
}

func ProvideDB(ctx context.Context, log *zap.Logger, cfg config.Config) (*pg.DB, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, func() {}, ErrMissingDBURL
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	cleanup := func() {
		log.Info("closing pg")
		db.Close()
	}
	return db, cleanup, nil
}

// ProvideRedisRecorder connects and waits for Redis to answer a ping.
func ProvideRedisRecorder(ctx context.Context, cfg config.Config) (*redisstore.Recorder, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	rec := redisstore.New(client, redisstore.DefaultStatsKey)

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 250 * time.Millisecond
	exp.MaxInterval = 2 * time.Second
	exp.MaxElapsedTime = infraconfig.DefaultStartupWait
	if err := backoff.Retry(func() error { return rec.Ping(ctx) }, backoff.WithContext(exp, ctx)); err != nil {
		_ = client.Close()
		return nil, func() {}, fmt.Errorf("ping redis: %w", err)
	}
	return rec, func() { _ = client.Close() }, nil
}
