package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
	"wealthwatch-service/internal/infrastructure/httpx"
)

const AlphaVantageName = "alphavantage"

type AlphaVantage struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Now     func() time.Time
}

var (
	_ application.QuoteProvider  = (*AlphaVantage)(nil)
	_ application.SymbolSearcher = (*AlphaVantage)(nil)
)

// avEnvelope carries the fields Alpha Vantage puts in a 200 response instead
// of data.
type avEnvelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (e avEnvelope) failure() (domain.FailureReason, error) {
	switch {
	case e.Note != "":
		return domain.ReasonRateLimit, errors.New(e.Note)
	case e.Information != "":
		return domain.ReasonRateLimit, errors.New(e.Information)
	case e.ErrorMessage != "":
		return domain.ReasonNotFound, errors.New(e.ErrorMessage)
	}
	return "", nil
}

type avReply interface {
	failure() (domain.FailureReason, error)
}

type avGlobalQuote struct {
	avEnvelope
	Quote map[string]string `json:"Global Quote"`
}

type avDaily struct {
	avEnvelope
	Series map[string]map[string]string `json:"Time Series (Daily)"`
}

type avExchangeRate struct {
	avEnvelope
	Rate map[string]string `json:"Realtime Currency Exchange Rate"`
}

type avSearch struct {
	avEnvelope
	BestMatches []map[string]string `json:"bestMatches"`
}

func (p *AlphaVantage) Name() string { return AlphaVantageName }

func (p *AlphaVantage) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func (p *AlphaVantage) query(ctx context.Context, params url.Values, out avReply) error {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return fail(AlphaVantageName, domain.ReasonNetwork, fmt.Errorf("invalid base url: %w", err))
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/query"
	params.Set("apikey", p.APIKey)
	u.RawQuery = params.Encode()

	c := httpx.Client{HTTP: p.Client}
	if err := c.GetJSON(ctx, u.String(), out); err != nil {
		return fromHTTP(AlphaVantageName, err)
	}
	if reason, err := out.failure(); err != nil {
		return fail(AlphaVantageName, reason, err)
	}
	return nil
}

func (p *AlphaVantage) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	symbol = domain.NormalizeSymbol(symbol)
	var body avGlobalQuote
	if err := p.query(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}, &body); err != nil {
		return domain.Quote{}, err
	}
	if len(body.Quote) == 0 {
		return domain.Quote{}, fail(AlphaVantageName, domain.ReasonEmpty, fmt.Errorf("empty global quote for %s", symbol))
	}

	price, err := avFloat(body.Quote, "05. price")
	if err != nil {
		return domain.Quote{}, err
	}
	change, err := avFloat(body.Quote, "09. change")
	if err != nil {
		return domain.Quote{}, err
	}
	q := domain.NewQuote(symbol, symbol, price, change, p.now())
	if v, ok := body.Quote["06. volume"]; ok {
		vol, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return domain.Quote{}, fail(AlphaVantageName, domain.ReasonMalformed, fmt.Errorf("volume %q: %w", v, err))
		}
		q.Volume = &vol
	}
	return q, nil
}

func (p *AlphaVantage) FetchHistory(ctx context.Context, symbol string, period domain.Period) (domain.HistorySeries, error) {
	symbol = domain.NormalizeSymbol(symbol)
	size := "full"
	if period == domain.Period1M || period == domain.Period3M {
		size = "compact"
	}
	var body avDaily
	params := url.Values{"function": {"TIME_SERIES_DAILY"}, "symbol": {symbol}, "outputsize": {size}}
	if err := p.query(ctx, params, &body); err != nil {
		return domain.HistorySeries{}, err
	}
	if body.Series == nil {
		return domain.HistorySeries{}, fail(AlphaVantageName, domain.ReasonMalformed, errors.New("missing daily time series"))
	}

	points := make([]domain.HistoryPoint, 0, len(body.Series))
	for day, row := range body.Series {
		pt, err := avPoint(day, row)
		if err != nil {
			return domain.HistorySeries{}, err
		}
		points = append(points, pt)
	}
	now := p.now()
	series := domain.NewHistorySeries(symbol, period, points).Since(period.Since(now))
	if len(series.Points) == 0 {
		return domain.HistorySeries{}, fail(AlphaVantageName, domain.ReasonEmpty, fmt.Errorf("no daily points for %s", symbol))
	}
	return series, nil
}

// FetchCryptoQuote prices one unit of symbol in USD. The exchange-rate
// endpoint reports no change, so Change is 0.
func (p *AlphaVantage) FetchCryptoQuote(ctx context.Context, symbol string) (domain.CryptoQuote, error) {
	base := domain.CryptoBase(symbol)
	var body avExchangeRate
	params := url.Values{"function": {"CURRENCY_EXCHANGE_RATE"}, "from_currency": {base}, "to_currency": {"USD"}}
	if err := p.query(ctx, params, &body); err != nil {
		return domain.CryptoQuote{}, err
	}
	if len(body.Rate) == 0 {
		return domain.CryptoQuote{}, fail(AlphaVantageName, domain.ReasonEmpty, fmt.Errorf("empty exchange rate for %s", base))
	}
	rate, err := avFloat(body.Rate, "5. Exchange Rate")
	if err != nil {
		return domain.CryptoQuote{}, err
	}
	updated := p.now()
	if v := body.Rate["6. Last Refreshed"]; v != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			updated = t.UTC()
		}
	}
	return domain.NewCryptoQuote(base, body.Rate["2. From_Currency Name"], rate, 0, updated), nil
}

func (p *AlphaVantage) Search(ctx context.Context, query string, limit int) ([]domain.SearchMatch, error) {
	var body avSearch
	if err := p.query(ctx, url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {query}}, &body); err != nil {
		return nil, err
	}
	out := make([]domain.SearchMatch, 0, limit)
	for _, m := range body.BestMatches {
		if len(out) == limit {
			break
		}
		out = append(out, domain.SearchMatch{
			Symbol: m["1. symbol"],
			Name:   m["2. name"],
			Type:   m["3. type"],
			Region: m["4. region"],
		})
	}
	return out, nil
}

func avFloat(row map[string]string, key string) (float64, error) {
	v, ok := row[key]
	if !ok {
		return 0, fail(AlphaVantageName, domain.ReasonMalformed, fmt.Errorf("missing %q", key))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fail(AlphaVantageName, domain.ReasonMalformed, fmt.Errorf("%s %q: %w", key, v, err))
	}
	return f, nil
}

func avPoint(day string, row map[string]string) (domain.HistoryPoint, error) {
	d, err := time.Parse(domain.DateLayout, day)
	if err != nil {
		return domain.HistoryPoint{}, fail(AlphaVantageName, domain.ReasonMalformed, fmt.Errorf("date %q: %w", day, err))
	}
	pt := domain.HistoryPoint{Date: d}
	for key, dst := range map[string]*float64{"1. open": &pt.Open, "2. high": &pt.High, "3. low": &pt.Low, "4. close": &pt.Close} {
		if *dst, err = avFloat(row, key); err != nil {
			return domain.HistoryPoint{}, err
		}
	}
	vol, err := avFloat(row, "5. volume")
	if err != nil {
		return domain.HistoryPoint{}, err
	}
	pt.Volume = int64(vol)
	return pt, nil
}
