package provider

import (
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
)

const SyntheticName = "synthetic"

type instrumentKind string

const (
	kindEquity instrumentKind = "Equity"
	kindIndex  instrumentKind = "Index"
	kindCrypto instrumentKind = "Cryptocurrency"
)

type instrument struct {
	symbol    string
	name      string
	kind      instrumentKind
	price     float64
	change    float64
	marketCap float64
	volume    float64
}

// Values are illustrative and not market data.
var instruments = []instrument{
	{"AAPL", "Apple Inc.", kindEquity, 175.23, 2.45, 2.72e12, 52_340_000},
	{"GOOGL", "Alphabet Inc.", kindEquity, 142.56, 0.89, 1.78e12, 24_120_000},
	{"MSFT", "Microsoft Corporation", kindEquity, 378.85, -1.23, 2.81e12, 21_870_000},
	{"TSLA", "Tesla, Inc.", kindEquity, 248.42, 5.67, 7.89e11, 98_450_000},
	{"AMZN", "Amazon.com, Inc.", kindEquity, 156.78, 3.21, 1.62e12, 41_230_000},
	{"NVDA", "NVIDIA Corporation", kindEquity, 485.09, 12.45, 1.2e12, 39_560_000},
	{"META", "Meta Platforms, Inc.", kindEquity, 334.92, -2.18, 8.6e11, 15_780_000},
	{"NFLX", "Netflix, Inc.", kindEquity, 567.34, 8.76, 2.48e11, 4_120_000},
	{"^GSPC", "S&P 500", kindIndex, 4769.83, 15.29, 0, 3_950_000_000},
	{"^DJI", "Dow Jones", kindIndex, 37689.54, 123.86, 0, 310_000_000},
	{"^IXIC", "NASDAQ", kindIndex, 15011.35, 69.21, 0, 5_120_000_000},
	{"^RUT", "Russell 2000", kindIndex, 2027.07, -8.45, 0, 1_230_000_000},
	{"BTC", "Bitcoin", kindCrypto, 43250.12, 1250.45, 8.47e11, 2.41e10},
	{"ETH", "Ethereum", kindCrypto, 2650.78, 45.23, 3.18e11, 1.12e10},
	{"USDT", "Tether", kindCrypto, 1.00, 0, 9.18e10, 4.35e10},
	{"BNB", "BNB", kindCrypto, 312.45, -4.12, 4.81e10, 8.9e8},
	{"SOL", "Solana", kindCrypto, 98.76, 3.45, 4.25e10, 2.1e9},
}

// Synthetic serves made-up but stable data for a fixed set of symbols. It is
// the last tier of the resolver and is always tagged with synthetic
// provenance.
type Synthetic struct {
	Now func() time.Time
}

var _ application.Synthesizer = (*Synthetic)(nil)

func NewSynthetic() *Synthetic { return &Synthetic{} }

func (s *Synthetic) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func lookup(symbol string) (instrument, bool) {
	sym := domain.NormalizeSymbol(symbol)
	for _, in := range instruments {
		if in.symbol == sym {
			return in, true
		}
	}
	base := domain.CryptoBase(sym)
	for _, in := range instruments {
		if in.kind == kindCrypto && in.symbol == base {
			return in, true
		}
	}
	return instrument{}, false
}

func (s *Synthetic) Quote(symbol string) (domain.Quote, error) {
	in, ok := lookup(symbol)
	if !ok {
		return domain.Quote{}, application.ErrNotFound
	}
	q := domain.NewQuote(domain.NormalizeSymbol(symbol), in.name, in.price, in.change, s.now())
	if in.marketCap > 0 {
		mc := in.marketCap
		q.MarketCap = &mc
	}
	vol := int64(in.volume)
	q.Volume = &vol
	q.Source = SyntheticName
	return q, nil
}

func (s *Synthetic) CryptoQuote(symbol string) (domain.CryptoQuote, error) {
	in, ok := lookup(symbol)
	if !ok || in.kind != kindCrypto {
		return domain.CryptoQuote{}, application.ErrNotFound
	}
	q := domain.NewCryptoQuote(in.symbol, in.name, in.price, in.change, s.now())
	mc, vol := in.marketCap, in.volume
	q.MarketCap, q.Volume = &mc, &vol
	q.Source = SyntheticName
	return q, nil
}

// History walks backwards from the table price so the last close matches
// the synthetic quote. The walk is seeded by symbol, period and day, so
// repeated calls on the same day agree. RSI values are placeholders.
func (s *Synthetic) History(symbol string, period domain.Period, now time.Time) (domain.HistorySeries, error) {
	in, ok := lookup(symbol)
	if !ok {
		return domain.HistorySeries{}, application.ErrNotFound
	}
	sym := domain.NormalizeSymbol(symbol)
	today := domain.Day(now)
	n := period.Points(now)
	rng := rand.New(rand.NewPCG(seed(sym, period, today), uint64(n)))

	closes := make([]float64, n)
	closes[n-1] = in.price
	for i := n - 2; i >= 0; i-- {
		step := (rng.Float64()*2 - 1) * 0.02
		c := closes[i+1] / (1 + step)
		closes[i] = clamp(c, in.price*0.5, in.price*1.5)
	}

	points := make([]domain.HistoryPoint, n)
	start := today.AddDate(0, 0, -(n - 1))
	for i, c := range closes {
		open := c * (1 + (rng.Float64()*2-1)*0.01)
		if i > 0 {
			open = closes[i-1]
		}
		hi := max(open, c) * (1 + rng.Float64()*0.01)
		lo := min(open, c) * (1 - rng.Float64()*0.01)
		rsi := domain.Round2(30 + rng.Float64()*40)
		day := start.AddDate(0, 0, i)
		stamp := day.Unix()
		points[i] = domain.HistoryPoint{
			Date:      day,
			Timestamp: &stamp,
			Open:      domain.Round2(open),
			High:      domain.Round2(hi),
			Low:       domain.Round2(lo),
			Close:     domain.Round2(c),
			Volume:    int64(in.volume * (0.5 + rng.Float64())),
			RSI:       &rsi,
		}
	}

	series := domain.NewHistorySeries(sym, period, points)
	series.FillDayChanges()
	series.Source = SyntheticName
	return series, nil
}

// Search matches query against symbols and names, case-insensitively, in
// table order.
func (s *Synthetic) Search(query string, limit int) []domain.SearchMatch {
	q := strings.ToUpper(strings.TrimSpace(query))
	out := []domain.SearchMatch{}
	if q == "" {
		return out
	}
	for _, in := range instruments {
		if len(out) == limit {
			break
		}
		if strings.Contains(in.symbol, q) || strings.Contains(strings.ToUpper(in.name), q) {
			out = append(out, domain.SearchMatch{Symbol: in.symbol, Name: in.name, Type: string(in.kind), Region: region(in.kind)})
		}
	}
	return out
}

func region(k instrumentKind) string {
	if k == kindCrypto {
		return "Global"
	}
	return "United States"
}

func seed(symbol string, period domain.Period, day time.Time) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol + "|" + string(period) + "|" + day.Format(domain.DateLayout)))
	return h.Sum64()
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
