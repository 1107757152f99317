package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"wealthwatch-service/internal/domain"
)

var errBoom = errors.New("boom")

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

// fakeProvider answers from fixed maps; symbols missing from quotes fail
// with err (or not_found when err is nil).
type fakeProvider struct {
	name    string
	quotes  map[string]float64
	series  map[string]domain.HistorySeries
	err     error
	panics  bool
	calls   atomic.Int32
	mu      sync.Mutex
	symbols []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) track(symbol string) {
	f.calls.Add(1)
	f.mu.Lock()
	f.symbols = append(f.symbols, symbol)
	f.mu.Unlock()
}

func (f *fakeProvider) fail() error {
	if f.panics {
		panic("unexpected payload")
	}
	if f.err != nil {
		return f.err
	}
	return NewFetchError(f.name, domain.ReasonNotFound, nil)
}

func (f *fakeProvider) FetchQuote(_ context.Context, symbol string) (domain.Quote, error) {
	f.track(symbol)
	price, ok := f.quotes[symbol]
	if !ok {
		return domain.Quote{}, f.fail()
	}
	return domain.NewQuote(symbol, symbol, price, 1, testNow), nil
}

func (f *fakeProvider) FetchHistory(_ context.Context, symbol string, _ domain.Period) (domain.HistorySeries, error) {
	f.track(symbol)
	s, ok := f.series[symbol]
	if !ok {
		return domain.HistorySeries{}, f.fail()
	}
	return s, nil
}

func (f *fakeProvider) FetchCryptoQuote(_ context.Context, symbol string) (domain.CryptoQuote, error) {
	f.track(symbol)
	price, ok := f.quotes[symbol]
	if !ok {
		return domain.CryptoQuote{}, f.fail()
	}
	return domain.NewCryptoQuote(symbol, symbol, price, 1, testNow), nil
}

// fakeSynth knows a few symbols and builds flat-ish series of the period's
// length.
type fakeSynth struct{ known map[string]float64 }

func newFakeSynth() *fakeSynth {
	return &fakeSynth{known: map[string]float64{"AAPL": 175.23, "MSFT": 378.85, "BTC": 43250}}
}

func (f *fakeSynth) Quote(symbol string) (domain.Quote, error) {
	p, ok := f.known[symbol]
	if !ok {
		return domain.Quote{}, ErrNotFound
	}
	return domain.NewQuote(symbol, symbol, p, 0.5, testNow), nil
}

func (f *fakeSynth) History(symbol string, period domain.Period, now time.Time) (domain.HistorySeries, error) {
	p, ok := f.known[symbol]
	if !ok {
		return domain.HistorySeries{}, ErrNotFound
	}
	n := period.Points(now)
	start := domain.Day(now).AddDate(0, 0, -(n - 1))
	pts := make([]domain.HistoryPoint, n)
	for i := range pts {
		c := p
		if i%2 == 1 {
			c = p + 1
		}
		pts[i] = domain.HistoryPoint{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100}
	}
	return domain.NewHistorySeries(symbol, period, pts), nil
}

func (f *fakeSynth) CryptoQuote(symbol string) (domain.CryptoQuote, error) {
	p, ok := f.known[symbol]
	if !ok {
		return domain.CryptoQuote{}, ErrNotFound
	}
	return domain.NewCryptoQuote(symbol, symbol, p, 10, testNow), nil
}

func (f *fakeSynth) Search(query string, limit int) []domain.SearchMatch {
	var out []domain.SearchMatch
	for sym := range f.known {
		if strings.Contains(sym, strings.ToUpper(query)) && len(out) < limit {
			out = append(out, domain.SearchMatch{Symbol: sym, Name: sym})
		}
	}
	return out
}

type fakeRecorder struct {
	mu   sync.Mutex
	recs []domain.Resolution
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, r domain.Resolution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, r)
	return f.err
}

func (f *fakeRecorder) all() []domain.Resolution {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Resolution(nil), f.recs...)
}

type fakeSearcher struct {
	matches []domain.SearchMatch
	err     error
}

func (f fakeSearcher) Search(context.Context, string, int) ([]domain.SearchMatch, error) {
	return f.matches, f.err
}

func dailySeries(symbol string, closes ...float64) domain.HistorySeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	pts := make([]domain.HistoryPoint, len(closes))
	for i, c := range closes {
		pts[i] = domain.HistoryPoint{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 10}
	}
	return domain.NewHistorySeries(symbol, domain.Period1M, pts)
}
