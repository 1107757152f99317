package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wealthwatch-service/internal/domain"
)

const syntheticSource = "synthetic"

// Resolver walks the configured providers in order and returns the first
// successful answer. When every provider fails the synthesizer answers.
type Resolver struct {
	providers []QuoteProvider
	synth     Synthesizer
	recorder  ResolutionRecorder
	clock     Clock
	log       *zap.Logger
}

type ResolverOption func(*Resolver)

func WithRecorder(r ResolutionRecorder) ResolverOption {
	return func(rs *Resolver) { rs.recorder = r }
}
func WithResolverClock(c Clock) ResolverOption { return func(rs *Resolver) { rs.clock = c } }
func WithResolverLogger(l *zap.Logger) ResolverOption {
	return func(rs *Resolver) { rs.log = l }
}

func NewResolver(providers []QuoteProvider, synth Synthesizer, opts ...ResolverOption) *Resolver {
	r := &Resolver{providers: providers, synth: synth}
	for _, opt := range opts {
		opt(r)
	}
	if r.recorder == nil {
		r.recorder = NoopRecorder{}
	}
	if r.clock == nil {
		r.clock = realClock{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

func (r *Resolver) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

func (r *Resolver) ResolveQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	res := domain.Resolution{Kind: domain.KindQuote, Symbol: symbol}
	q, idx, failures := walk(r.providers, func(p QuoteProvider) (domain.Quote, error) {
		return p.FetchQuote(ctx, symbol)
	})
	res.Failures = failures
	if idx >= 0 {
		q.Provenance, q.Source = domain.ProvenanceAt(idx), r.providers[idx].Name()
		r.done(ctx, res, q.Provenance, q.Source)
		return q, nil
	}

	q, err := r.synth.Quote(symbol)
	if err != nil {
		r.notFound(ctx, res)
		return domain.Quote{}, fmt.Errorf("quote %s: %w", symbol, err)
	}
	q.Provenance = domain.ProvenanceSynthetic
	if q.Source == "" {
		q.Source = syntheticSource
	}
	r.done(ctx, res, q.Provenance, q.Source)
	return q, nil
}

func (r *Resolver) ResolveHistory(ctx context.Context, symbol string, period domain.Period) (domain.HistorySeries, error) {
	res := domain.Resolution{Kind: domain.KindHistory, Symbol: symbol, Period: period}
	s, idx, failures := walk(r.providers, func(p QuoteProvider) (domain.HistorySeries, error) {
		return p.FetchHistory(ctx, symbol, period)
	})
	res.Failures = failures
	if idx >= 0 {
		s.Provenance, s.Source = domain.ProvenanceAt(idx), r.providers[idx].Name()
		r.done(ctx, res, s.Provenance, s.Source)
		return s, nil
	}

	s, err := r.synth.History(symbol, period, r.clock.Now())
	if err != nil {
		r.notFound(ctx, res)
		return domain.HistorySeries{}, fmt.Errorf("history %s: %w", symbol, err)
	}
	s.Provenance = domain.ProvenanceSynthetic
	if s.Source == "" {
		s.Source = syntheticSource
	}
	r.done(ctx, res, s.Provenance, s.Source)
	return s, nil
}

func (r *Resolver) ResolveCryptoQuote(ctx context.Context, symbol string) (domain.CryptoQuote, error) {
	res := domain.Resolution{Kind: domain.KindCrypto, Symbol: symbol}
	q, idx, failures := walk(r.providers, func(p QuoteProvider) (domain.CryptoQuote, error) {
		return p.FetchCryptoQuote(ctx, symbol)
	})
	res.Failures = failures
	if idx >= 0 {
		q.Provenance, q.Source = domain.ProvenanceAt(idx), r.providers[idx].Name()
		r.done(ctx, res, q.Provenance, q.Source)
		return q, nil
	}

	q, err := r.synth.CryptoQuote(symbol)
	if err != nil {
		r.notFound(ctx, res)
		return domain.CryptoQuote{}, fmt.Errorf("crypto quote %s: %w", symbol, err)
	}
	q.Provenance = domain.ProvenanceSynthetic
	if q.Source == "" {
		q.Source = syntheticSource
	}
	r.done(ctx, res, q.Provenance, q.Source)
	return q, nil
}

// walk returns the first successful value with the index of the provider
// that produced it, or -1 when all of them failed.
func walk[T any](providers []QuoteProvider, fetch func(QuoteProvider) (T, error)) (T, int, []domain.ProviderFailure) {
	var failures []domain.ProviderFailure
	for i, p := range providers {
		v, err := attempt(p, fetch)
		if err == nil {
			return v, i, failures
		}
		failures = append(failures, classify(p, err).Failure())
	}
	var zero T
	return zero, -1, failures
}

func attempt[T any](p QuoteProvider, fetch func(QuoteProvider) (T, error)) (out T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = NewFetchError(p.Name(), domain.ReasonMalformed, fmt.Errorf("panic: %v", rec))
		}
	}()
	return fetch(p)
}

// classify tags errors that are not already a *FetchError as network errors.
func classify(p QuoteProvider, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return NewFetchError(p.Name(), domain.ReasonNetwork, err)
}

func (r *Resolver) done(ctx context.Context, res domain.Resolution, prov domain.Provenance, source string) {
	res.Provenance, res.Source = prov, source
	r.record(ctx, res)
}

func (r *Resolver) notFound(ctx context.Context, res domain.Resolution) {
	res.NotFound = true
	r.record(ctx, res)
}

func (r *Resolver) record(ctx context.Context, res domain.Resolution) {
	res.ResolvedAt = r.clock.Now()
	log := r.log.With(
		zap.String("kind", string(res.Kind)),
		zap.String("symbol", res.Symbol),
		zap.String("provenance", string(res.Provenance)),
		zap.String("source", res.Source),
		zap.Any("failures", res.Failures),
	)
	switch {
	case res.NotFound:
		log.Info("resolve.not_found")
	case res.Provenance == domain.ProvenanceSynthetic:
		log.Warn("resolve.synthetic_fallback")
	default:
		log.Debug("resolve.ok")
	}
	if err := r.recorder.Record(ctx, res); err != nil {
		log.Warn("resolve.record_failed", zap.Error(err))
	}
}
