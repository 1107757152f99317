package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
	"wealthwatch-service/internal/infrastructure/auth"
	"wealthwatch-service/internal/infrastructure/provider"
)

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return testNow }

// ibmProvider answers IBM only and fails everything else as not found.
type ibmProvider struct{}

func (ibmProvider) Name() string { return "stub" }

func (ibmProvider) FetchQuote(_ context.Context, symbol string) (domain.Quote, error) {
	if symbol != "IBM" {
		return domain.Quote{}, application.NewFetchError("stub", domain.ReasonNotFound, nil)
	}
	return domain.NewQuote("IBM", "International Business Machines", 191.234, 1.1, testNow), nil
}

func (ibmProvider) FetchHistory(context.Context, string, domain.Period) (domain.HistorySeries, error) {
	return domain.HistorySeries{}, application.NewFetchError("stub", domain.ReasonRateLimit, nil)
}

func (ibmProvider) FetchCryptoQuote(context.Context, string) (domain.CryptoQuote, error) {
	return domain.CryptoQuote{}, application.NewFetchError("stub", domain.ReasonNetwork, errors.New("dial tcp: refused"))
}

type stubStats map[string]int64

func (s stubStats) Stats(context.Context) (map[string]int64, error) { return s, nil }

type stubLog []domain.Resolution

func (l stubLog) Recent(_ context.Context, limit int) ([]domain.Resolution, error) {
	if limit < len(l) {
		return l[:limit], nil
	}
	return l, nil
}

func setup(opts ...ServerOption) http.Handler {
	synth := &provider.Synthetic{Now: func() time.Time { return testNow }}
	resolver := application.NewResolver([]application.QuoteProvider{ibmProvider{}}, synth, application.WithResolverClock(fixedClock{}))
	quotes := application.NewQuoteService(resolver, synth)
	portfolio := application.NewPortfolioService(quotes, fixedClock{})
	tokens := auth.NewIssuer("test-secret", auth.WithNow(func() time.Time { return testNow }))
	return NewRouter(NewServer(quotes, portfolio, tokens, opts...))
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	h := setup()
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
}

func TestHealth(t *testing.T) {
	rec := do(t, setup(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]string{"status": "healthy", "version": "1.0.0"}, decode[map[string]string](t, rec))
}

func TestReadyz_FailingCheck(t *testing.T) {
	h := setup(WithReadyCheck(func(context.Context) error { return errors.New("db down") }))
	rec := do(t, h, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "unavailable", decode[errorBody](t, rec).Code)
}

func TestRequestID_Propagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	rec := httptest.NewRecorder()
	setup().ServeHTTP(rec, req)
	require.Equal(t, "rid-1", rec.Header().Get("X-Request-ID"))
}

func TestGetQuote_Primary(t *testing.T) {
	rec := do(t, setup(), http.MethodGet, "/api/stocks/quote/ibm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[quoteDTO](t, rec)
	require.Equal(t, "IBM", q.Symbol)
	require.Equal(t, 191.23, q.Price)
	require.Equal(t, "primary", q.Provenance)
	require.Equal(t, "stub", q.Source)
}

func TestGetQuote_SyntheticFallback(t *testing.T) {
	rec := do(t, setup(), http.MethodGet, "/api/stocks/quote/AAPL", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[quoteDTO](t, rec)
	require.Equal(t, 175.23, q.Price)
	require.Equal(t, "synthetic", q.Provenance)
	require.True(t, q.LastUpdated.Equal(testNow))
}

func TestGetQuote_EscapedIndexSymbol(t *testing.T) {
	rec := do(t, setup(), http.MethodGet, "/api/stocks/quote/%5EGSPC", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "^GSPC", decode[quoteDTO](t, rec).Symbol)
}

func TestGetQuote_Errors(t *testing.T) {
	h := setup()

	rec := do(t, h, http.MethodGet, "/api/stocks/quote/NOPE", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decode[errorBody](t, rec).Code)

	rec = do(t, h, http.MethodGet, "/api/stocks/quote/bad$sym", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "bad_request", decode[errorBody](t, rec).Code)
}

func TestGetQuotes_DropsInvalid(t *testing.T) {
	rec := do(t, setup(), http.MethodPost, "/api/stocks/quotes", []string{"msft", "b@d", "NOPE", "IBM"})
	require.Equal(t, http.StatusOK, rec.Code)
	qs := decode[[]quoteDTO](t, rec)
	require.Len(t, qs, 2)
	require.Equal(t, "MSFT", qs[0].Symbol)
	require.Equal(t, "IBM", qs[1].Symbol)
}

func TestGetQuotes_BadBody(t *testing.T) {
	rec := do(t, setup(), http.MethodPost, "/api/stocks/quotes", map[string]string{"symbol": "AAPL"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTrending(t *testing.T) {
	rec := do(t, setup(), http.MethodGet, "/api/stocks/trending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	qs := decode[[]quoteDTO](t, rec)
	require.Len(t, qs, len(application.TrendingSymbols))
	for i, q := range qs {
		require.Equal(t, application.TrendingSymbols[i], q.Symbol)
	}
}

func TestGetHistory(t *testing.T) {
	h := setup()

	rec := do(t, h, http.MethodGet, "/api/stocks/history/AAPL?period=1M", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hist := decode[historyDTO](t, rec)
	require.Equal(t, "AAPL", hist.Symbol)
	require.Equal(t, "1M", hist.Period)
	require.Equal(t, "synthetic", hist.Provenance)
	require.NotEmpty(t, hist.Data)
	require.Nil(t, hist.Data[0].DayChange)
	require.Nil(t, hist.Data[0].RSI)
	last := hist.Data[len(hist.Data)-1]
	require.NotNil(t, last.DayChange)
	require.NotNil(t, last.RSI)
	require.Equal(t, 175.23, last.Close)

	rec = do(t, h, http.MethodGet, "/api/stocks/history/AAPL", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "3M", decode[historyDTO](t, rec).Period)

	rec = do(t, h, http.MethodGet, "/api/stocks/history/AAPL?period=2W", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCrypto(t *testing.T) {
	h := setup()

	rec := do(t, h, http.MethodGet, "/api/stocks/crypto/quote/btc-usd", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[cryptoQuoteDTO](t, rec)
	require.Equal(t, "BTC", q.Symbol)
	require.NotNil(t, q.MarketCap)
	require.NotNil(t, q.Volume)

	rec = do(t, h, http.MethodGet, "/api/stocks/crypto/top", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	top := decode[[]cryptoQuoteDTO](t, rec)
	require.Len(t, top, len(application.TopCryptoSymbols))
	require.Equal(t, "BTC", top[0].Symbol)
}

func TestSearch_FallsBackToTable(t *testing.T) {
	rec := do(t, setup(), http.MethodGet, "/api/stocks/search/apple", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ms := decode[[]searchMatchDTO](t, rec)
	require.NotEmpty(t, ms)
	require.Equal(t, "AAPL", ms[0].Symbol)
}

func TestValueHolding(t *testing.T) {
	h := setup()
	body := holdingRequestDTO{UserID: "demo", Symbol: "AAPL", Shares: 10, AverageCost: 150}
	rec := do(t, h, http.MethodPost, "/api/stocks/holdings", body)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[holdingDTO](t, rec)
	require.Equal(t, 175.23, got.CurrentPrice)
	require.Equal(t, 1752.3, got.TotalValue)
	require.Equal(t, 252.3, got.GainLoss)
	require.Equal(t, 16.82, got.GainLossPercent)

	body.Shares = 0
	rec = do(t, h, http.MethodPost, "/api/stocks/holdings", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/stocks/holdings/demo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}

func TestAssetsAndAccounts(t *testing.T) {
	h := setup()

	rec := do(t, h, http.MethodGet, "/api/assets/holdings/demo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]holdingDTO](t, rec), 5)

	rec = do(t, h, http.MethodGet, "/api/assets/holdings/demo/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5, decode[holdingsSummaryDTO](t, rec).HoldingsCount)

	rec = do(t, h, http.MethodGet, "/api/accounts/demo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]accountDTO](t, rec), 3)

	rec = do(t, h, http.MethodGet, "/api/accounts/demo/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[accountsSummaryDTO](t, rec)
	require.Equal(t, 32000.75, sum.TotalBalance)
	require.Equal(t, 3, sum.AccountsCount)

	rec = do(t, h, http.MethodGet, "/api/accounts/someone/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[accountsSummaryDTO](t, rec)
	require.Zero(t, empty.TotalBalance)
	require.Empty(t, empty.Accounts)
}

func TestAuthFlow(t *testing.T) {
	h := setup()

	rec := do(t, h, http.MethodPost, "/api/auth/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decode[tokenDTO](t, rec)
	require.NotEmpty(t, tok.Token)
	require.Equal(t, testNow.Add(24*time.Hour), tok.ExpiresAt.UTC())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	me := httptest.NewRecorder()
	h.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	require.Equal(t, "demo", decode[map[string]string](t, me)["username"])

	rec = do(t, h, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/auth/login", loginRequest{Username: "not valid!"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister(t *testing.T) {
	h := setup()
	rec := do(t, h, http.MethodPost, "/api/auth/register", registerRequest{Username: "alice", Email: "alice@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/auth/register", registerRequest{Username: "bob", Email: "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProviderEndpoints(t *testing.T) {
	rec := do(t, setup(), http.MethodGet, "/api/stocks/providers/stats", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, setup(), http.MethodGet, "/api/stocks/providers/resolutions", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	log := stubLog{
		{ID: 2, Kind: domain.KindQuote, Symbol: "AAPL", Provenance: domain.ProvenanceSynthetic, Source: "synthetic",
			Failures: []domain.ProviderFailure{{Provider: "stub", Reason: domain.ReasonNotFound}}, ResolvedAt: testNow},
		{ID: 1, Kind: domain.KindQuote, Symbol: "IBM", Provenance: domain.ProvenancePrimary, Source: "stub", ResolvedAt: testNow},
	}
	h := setup(WithResolutionStats(stubStats{"total": 2}), WithResolutionLog(log))

	rec = do(t, h, http.MethodGet, "/api/stocks/providers/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[providerStatsDTO](t, rec)
	require.Equal(t, []string{"stub"}, st.Providers)
	require.Equal(t, int64(2), st.Counters["total"])

	rec = do(t, h, http.MethodGet, "/api/stocks/providers/resolutions?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rs := decode[[]resolutionDTO](t, rec)
	require.Len(t, rs, 1)
	require.Equal(t, "AAPL", rs[0].Symbol)
	require.Equal(t, "not_found", rs[0].Failures[0].Reason)

	for _, q := range []string{"limit=0", "limit=abc", "limit=10000"} {
		rec = do(t, h, http.MethodGet, "/api/stocks/providers/resolutions?"+q, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := setup(WithCORSOrigins([]string{"http://localhost:3000"}))
	req := httptest.NewRequest(http.MethodOptions, "/api/stocks/trending", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, setup(), http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "route not found"))
}
