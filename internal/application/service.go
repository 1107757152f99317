package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wealthwatch-service/internal/domain"
	"wealthwatch-service/internal/indicator"
	infraconfig "wealthwatch-service/internal/infrastructure/config"
)

const searchLimit = 5

var (
	TrendingSymbols  = []string{"AAPL", "MSFT", "GOOGL", "TSLA", "AMZN", "NVDA"}
	TopCryptoSymbols = []string{"BTC", "ETH", "USDT", "BNB", "SOL"}
)

type QuoteService struct {
	resolver    *Resolver
	synth       Synthesizer
	searcher    SymbolSearcher
	concurrency int
	maxBatch    int
	log         *zap.Logger
}

type Option func(*QuoteService)

func WithSearcher(s SymbolSearcher) Option { return func(q *QuoteService) { q.searcher = s } }
func WithConcurrency(n int) Option        { return func(q *QuoteService) { q.concurrency = n } }
func WithMaxBatch(n int) Option           { return func(q *QuoteService) { q.maxBatch = n } }
func WithLogger(l *zap.Logger) Option     { return func(q *QuoteService) { q.log = l } }

func NewQuoteService(resolver *Resolver, synth Synthesizer, opts ...Option) *QuoteService {
	s := &QuoteService{resolver: resolver, synth: synth}
	for _, opt := range opts {
		opt(s)
	}
	if s.concurrency <= 0 {
		s.concurrency = infraconfig.DefaultBatchConcurrency
	}
	if s.maxBatch <= 0 {
		s.maxBatch = infraconfig.DefaultMaxBatchSymbols
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *QuoteService) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	sym, err := domain.ParseSymbol(symbol)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return s.resolver.ResolveQuote(ctx, sym)
}

// Quotes resolves every valid symbol and keeps the input order. Symbols that
// are malformed or cannot be resolved are left out of the result.
func (s *QuoteService) Quotes(ctx context.Context, symbols []string) ([]domain.Quote, error) {
	if len(symbols) > s.maxBatch {
		return nil, fmt.Errorf("%w: at most %d symbols per request", ErrBadRequest, s.maxBatch)
	}
	valid := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		sym, err := domain.ParseSymbol(raw)
		if err != nil {
			s.log.Debug("quotes.skip_invalid", zap.String("symbol", raw))
			continue
		}
		valid = append(valid, sym)
	}
	return collect(ctx, s, valid, s.resolver.ResolveQuote), nil
}

func (s *QuoteService) Trending(ctx context.Context) ([]domain.Quote, error) {
	return s.Quotes(ctx, TrendingSymbols)
}

// History resolves the series for symbol and recomputes day changes and the
// 14-period RSI on whatever tier answered.
func (s *QuoteService) History(ctx context.Context, symbol, period string) (domain.HistorySeries, error) {
	sym, err := domain.ParseSymbol(symbol)
	if err != nil {
		return domain.HistorySeries{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return domain.HistorySeries{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	series, err := s.resolver.ResolveHistory(ctx, sym, p)
	if err != nil {
		return domain.HistorySeries{}, err
	}
	series.Symbol, series.Period = sym, p
	series.FillDayChanges()
	indicator.ApplyRSI(series)
	return series, nil
}

func (s *QuoteService) CryptoQuote(ctx context.Context, symbol string) (domain.CryptoQuote, error) {
	sym, err := domain.ParseSymbol(symbol)
	if err != nil {
		return domain.CryptoQuote{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return s.resolver.ResolveCryptoQuote(ctx, domain.CryptoBase(sym))
}

func (s *QuoteService) CryptoTop(ctx context.Context) ([]domain.CryptoQuote, error) {
	return collect(ctx, s, TopCryptoSymbols, s.resolver.ResolveCryptoQuote), nil
}

// Search looks the query up with the primary searcher and falls back to the
// built-in symbol table. It never fails.
func (s *QuoteService) Search(ctx context.Context, query string) []domain.SearchMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchMatch{}
	}
	if s.searcher != nil {
		matches, err := s.searcher.Search(ctx, query, searchLimit)
		if err == nil && len(matches) > 0 {
			if len(matches) > searchLimit {
				matches = matches[:searchLimit]
			}
			return matches
		}
		if err != nil {
			s.log.Debug("search.upstream_failed", zap.String("query", query), zap.Error(err))
		}
	}
	matches := s.synth.Search(query, searchLimit)
	if matches == nil {
		matches = []domain.SearchMatch{}
	}
	return matches
}

func (s *QuoteService) Providers() []string { return s.resolver.Providers() }

// collect resolves symbols with bounded concurrency and returns the
// successes in input order.
func collect[T any](ctx context.Context, s *QuoteService, symbols []string, resolve func(context.Context, string) (T, error)) []T {
	results := make([]T, len(symbols))
	ok := make([]bool, len(symbols))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, sym := range symbols {
		g.Go(func() error {
			v, err := resolve(ctx, sym)
			if err != nil {
				s.log.Debug("batch.drop", zap.String("symbol", sym), zap.Error(err))
				return nil
			}
			results[i], ok[i] = v, true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]T, 0, len(symbols))
	for i := range results {
		if ok[i] {
			out = append(out, results[i])
		}
	}
	return out
}
