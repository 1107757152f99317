package application

import (
	"context"
	"fmt"
	"time"

	"wealthwatch-service/internal/domain"
)

//go:generate mockgen -destination=mock_provider_test.go -package=application -self_package=wealthwatch-service/internal/application wealthwatch-service/internal/application QuoteProvider

// QuoteProvider is one upstream market-data source. Every failure is
// returned as a *FetchError.
type QuoteProvider interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (domain.Quote, error)
	FetchHistory(ctx context.Context, symbol string, period domain.Period) (domain.HistorySeries, error)
	FetchCryptoQuote(ctx context.Context, symbol string) (domain.CryptoQuote, error)
}

// SymbolSearcher is implemented by providers that can look up tickers.
type SymbolSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchMatch, error)
}

// Synthesizer answers when every provider failed. It returns ErrNotFound
// for symbols it does not know and never fails otherwise.
type Synthesizer interface {
	Quote(symbol string) (domain.Quote, error)
	History(symbol string, period domain.Period, now time.Time) (domain.HistorySeries, error)
	CryptoQuote(symbol string) (domain.CryptoQuote, error)
	Search(query string, limit int) []domain.SearchMatch
}

// ResolutionRecorder receives the outcome of every fallback walk.
type ResolutionRecorder interface {
	Record(ctx context.Context, r domain.Resolution) error
}

// ResolutionStats reports counters of answered tiers and failure reasons.
type ResolutionStats interface {
	Stats(ctx context.Context) (map[string]int64, error)
}

// ResolutionLog returns the most recent resolutions, newest first.
type ResolutionLog interface {
	Recent(ctx context.Context, limit int) ([]domain.Resolution, error)
}

type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// FetchError is a tagged provider failure.
type FetchError struct {
	Provider string
	Reason   domain.FailureReason
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func NewFetchError(provider string, reason domain.FailureReason, err error) *FetchError {
	return &FetchError{Provider: provider, Reason: reason, Err: err}
}

// Failure flattens e for audit records.
func (e *FetchError) Failure() domain.ProviderFailure {
	f := domain.ProviderFailure{Provider: e.Provider, Reason: e.Reason}
	if e.Err != nil {
		f.Message = e.Err.Error()
	}
	return f
}
