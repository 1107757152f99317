package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
	"wealthwatch-service/internal/infrastructure/httpx"
)

const (
	YahooName = "yahoo"

	yahooQuotePath = "/v7/finance/quote"
	yahooChartPath = "/v8/finance/chart/"
	yahooUserAgent = "Mozilla/5.0 (compatible; wealthwatch/1.0)"
)

var yahooRanges = map[domain.Period]string{
	domain.Period1M:  "1mo",
	domain.Period3M:  "3mo",
	domain.Period6M:  "6mo",
	domain.PeriodYTD: "ytd",
	domain.Period1Y:  "1y",
	domain.Period3Y:  "5y",
}

type Yahoo struct {
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

var _ application.QuoteProvider = (*Yahoo)(nil)

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooQuoteResp struct {
	QuoteResponse struct {
		Result []yahooQuote `json:"result"`
		Error  *yahooError  `json:"error"`
	} `json:"quoteResponse"`
}

type yahooQuote struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketVolume        *float64 `json:"regularMarketVolume"`
	RegularMarketTime          int64    `json:"regularMarketTime"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	MarketCap                  *float64 `json:"marketCap"`
}

type yahooChartResp struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooError        `json:"error"`
	} `json:"chart"`
}

type yahooChartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []yahooOHLCV `json:"quote"`
	} `json:"indicators"`
}

// Yahoo pads missing sessions with nulls.
type yahooOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

func (p *Yahoo) Name() string { return YahooName }

func (p *Yahoo) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func (p *Yahoo) get(ctx context.Context, path string, params url.Values, out any) error {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return fail(YahooName, domain.ReasonNetwork, fmt.Errorf("invalid base url: %w", err))
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = params.Encode()

	c := httpx.Client{HTTP: p.Client, UserAgent: yahooUserAgent}
	if err := c.GetJSON(ctx, u.String(), out); err != nil {
		return fromHTTP(YahooName, err)
	}
	return nil
}

func (p *Yahoo) quote(ctx context.Context, symbol string) (yahooQuote, error) {
	var body yahooQuoteResp
	if err := p.get(ctx, yahooQuotePath, url.Values{"symbols": {symbol}}, &body); err != nil {
		return yahooQuote{}, err
	}
	if e := body.QuoteResponse.Error; e != nil {
		return yahooQuote{}, fail(YahooName, domain.ReasonMalformed, fmt.Errorf("%s: %s", e.Code, e.Description))
	}
	if len(body.QuoteResponse.Result) == 0 {
		return yahooQuote{}, fail(YahooName, domain.ReasonEmpty, fmt.Errorf("no quote for %s", symbol))
	}
	r := body.QuoteResponse.Result[0]
	if r.RegularMarketPrice == nil {
		return yahooQuote{}, fail(YahooName, domain.ReasonMalformed, fmt.Errorf("no market price for %s", symbol))
	}
	return r, nil
}

func (r yahooQuote) name(fallback string) string {
	switch {
	case r.LongName != "":
		return r.LongName
	case r.ShortName != "":
		return r.ShortName
	}
	return fallback
}

func (r yahooQuote) change() float64 {
	switch {
	case r.RegularMarketChange != nil:
		return *r.RegularMarketChange
	case r.RegularMarketPreviousClose != nil:
		return *r.RegularMarketPrice - *r.RegularMarketPreviousClose
	}
	return 0
}

func (r yahooQuote) updated(now time.Time) time.Time {
	if r.RegularMarketTime > 0 {
		return time.Unix(r.RegularMarketTime, 0).UTC()
	}
	return now
}

func (p *Yahoo) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	symbol = domain.NormalizeSymbol(symbol)
	r, err := p.quote(ctx, symbol)
	if err != nil {
		return domain.Quote{}, err
	}
	q := domain.NewQuote(symbol, r.name(symbol), *r.RegularMarketPrice, r.change(), r.updated(p.now()))
	q.MarketCap = r.MarketCap
	if r.RegularMarketVolume != nil {
		v := int64(*r.RegularMarketVolume)
		q.Volume = &v
	}
	return q, nil
}

// FetchCryptoQuote queries the USD pair, e.g. BTC-USD, and reports it under
// the bare symbol.
func (p *Yahoo) FetchCryptoQuote(ctx context.Context, symbol string) (domain.CryptoQuote, error) {
	base := domain.CryptoBase(symbol)
	r, err := p.quote(ctx, base+"-USD")
	if err != nil {
		return domain.CryptoQuote{}, err
	}
	name := strings.TrimSuffix(r.name(base), " USD")
	q := domain.NewCryptoQuote(base, name, *r.RegularMarketPrice, r.change(), r.updated(p.now()))
	q.MarketCap = r.MarketCap
	q.Volume = r.RegularMarketVolume
	return q, nil
}

func (p *Yahoo) FetchHistory(ctx context.Context, symbol string, period domain.Period) (domain.HistorySeries, error) {
	symbol = domain.NormalizeSymbol(symbol)
	rng, ok := yahooRanges[period]
	if !ok {
		rng = yahooRanges[domain.DefaultPeriod]
	}
	var body yahooChartResp
	params := url.Values{"range": {rng}, "interval": {"1d"}}
	if err := p.get(ctx, yahooChartPath+symbol, params, &body); err != nil {
		return domain.HistorySeries{}, err
	}
	if e := body.Chart.Error; e != nil {
		reason := domain.ReasonMalformed
		if e.Code == "Not Found" {
			reason = domain.ReasonNotFound
		}
		return domain.HistorySeries{}, fail(YahooName, reason, fmt.Errorf("%s: %s", e.Code, e.Description))
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Timestamp) == 0 {
		return domain.HistorySeries{}, fail(YahooName, domain.ReasonEmpty, fmt.Errorf("no chart data for %s", symbol))
	}

	res := body.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return domain.HistorySeries{}, fail(YahooName, domain.ReasonMalformed, errors.New("chart without quote indicators"))
	}
	points, err := yahooPoints(res.Timestamp, res.Indicators.Quote[0])
	if err != nil {
		return domain.HistorySeries{}, err
	}
	series := domain.NewHistorySeries(symbol, period, points).Since(period.Since(p.now()))
	if len(series.Points) == 0 {
		return domain.HistorySeries{}, fail(YahooName, domain.ReasonEmpty, fmt.Errorf("no chart points for %s", symbol))
	}
	return series, nil
}

// yahooPoints zips the parallel arrays of a chart result. Sessions without a
// close are skipped.
func yahooPoints(ts []int64, q yahooOHLCV) ([]domain.HistoryPoint, error) {
	n := len(ts)
	if len(q.Open) != n || len(q.High) != n || len(q.Low) != n || len(q.Close) != n || len(q.Volume) != n {
		return nil, fail(YahooName, domain.ReasonMalformed, fmt.Errorf("chart arrays disagree on length (%d timestamps)", n))
	}
	out := make([]domain.HistoryPoint, 0, n)
	for i, t := range ts {
		if q.Close[i] == nil {
			continue
		}
		c := *q.Close[i]
		stamp := t
		out = append(out, domain.HistoryPoint{
			Date:      time.Unix(t, 0).UTC(),
			Timestamp: &stamp,
			Open:      orDefault(q.Open[i], c),
			High:      orDefault(q.High[i], c),
			Low:       orDefault(q.Low[i], c),
			Close:     c,
			Volume:    int64(orDefault(q.Volume[i], 0)),
		})
	}
	return out, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
