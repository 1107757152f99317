package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
	"wealthwatch-service/internal/infrastructure/auth"
	infraconfig "wealthwatch-service/internal/infrastructure/config"
	"wealthwatch-service/internal/infrastructure/logx"
)

const (
	apiVersion         = "1.0.0"
	maxResolutionLimit = 500
	maxBodyBytes       = 1 << 20
)

type Server struct {
	quotes    *application.QuoteService
	portfolio *application.PortfolioService
	tokens    *auth.Issuer
	stats     application.ResolutionStats
	audit     application.ResolutionLog
	ping      func(ctx context.Context) error
	origins   []string
	validate  *validator.Validate
}

type ServerOption func(*Server)

func WithResolutionStats(st application.ResolutionStats) ServerOption {
	return func(s *Server) { s.stats = st }
}

func WithResolutionLog(l application.ResolutionLog) ServerOption {
	return func(s *Server) { s.audit = l }
}

func WithReadyCheck(ping func(ctx context.Context) error) ServerOption {
	return func(s *Server) { s.ping = ping }
}

func WithCORSOrigins(origins []string) ServerOption {
	return func(s *Server) { s.origins = origins }
}

func NewServer(quotes *application.QuoteService, portfolio *application.PortfolioService, tokens *auth.Issuer, opts ...ServerOption) *Server {
	s := &Server{quotes: quotes, portfolio: portfolio, tokens: tokens, validate: validator.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// stocks

func (s *Server) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol, err := pathParam(r, "symbol")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	q, err := s.quotes.Quote(r.Context(), symbol)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteDTO(q))
}

func (s *Server) GetQuotes(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	if err := decodeBody(w, r, &symbols); err != nil {
		badRequest(w, "body must be a JSON array of symbols")
		return
	}
	qs, err := s.quotes.Quotes(r.Context(), symbols)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteDTOs(qs))
}

func (s *Server) GetTrending(w http.ResponseWriter, r *http.Request) {
	qs, err := s.quotes.Trending(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteDTOs(qs))
}

func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	symbol, err := pathParam(r, "symbol")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var period *string
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &period); err != nil {
		badRequest(w, err.Error())
		return
	}
	p := ""
	if period != nil {
		p = *period
	}
	series, err := s.quotes.History(r.Context(), symbol, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryDTO(series))
}

func (s *Server) GetCryptoQuote(w http.ResponseWriter, r *http.Request) {
	symbol, err := pathParam(r, "symbol")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	q, err := s.quotes.CryptoQuote(r.Context(), symbol)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCryptoDTOs([]domain.CryptoQuote{q})[0])
}

func (s *Server) GetCryptoTop(w http.ResponseWriter, r *http.Request) {
	qs, err := s.quotes.CryptoTop(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCryptoDTOs(qs))
}

func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query, err := pathParam(r, "query")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSearchDTOs(s.quotes.Search(r.Context(), query)))
}

func (s *Server) ProviderStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.fail(w, r, fmt.Errorf("%w: resolution counters are not recorded", application.ErrUnavailable))
		return
	}
	counters, err := s.stats.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, providerStatsDTO{Providers: s.quotes.Providers(), Counters: counters})
}

func (s *Server) RecentResolutions(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		s.fail(w, r, fmt.Errorf("%w: resolution log is not stored", application.ErrUnavailable))
		return
	}
	limit := infraconfig.DefaultResolutionsLimit
	var param *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &param); err != nil {
		badRequest(w, err.Error())
		return
	}
	if param != nil {
		if *param < 1 || *param > maxResolutionLimit {
			badRequest(w, fmt.Sprintf("limit must be between 1 and %d", maxResolutionLimit))
			return
		}
		limit = *param
	}
	rs, err := s.audit.Recent(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResolutionDTOs(rs))
}

// holdings and accounts

func (s *Server) ValueHolding(w http.ResponseWriter, r *http.Request) {
	var body holdingRequestDTO
	if err := decodeBody(w, r, &body); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	h, err := s.portfolio.ValueHolding(r.Context(), body.toRequest())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHoldingDTO(h))
}

// StockHoldings lists positions added through the stocks API. They are
// never stored, so the list is always empty.
func (s *Server) StockHoldings(w http.ResponseWriter, r *http.Request) {
	if _, err := pathParam(r, "user_id"); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, []holdingDTO{})
}

func (s *Server) Holdings(w http.ResponseWriter, r *http.Request) {
	user, err := pathParam(r, "user_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toHoldingDTOs(s.portfolio.Holdings(r.Context(), user)))
}

func (s *Server) HoldingsSummary(w http.ResponseWriter, r *http.Request) {
	user, err := pathParam(r, "user_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	sum := s.portfolio.HoldingsSummary(r.Context(), user)
	writeJSON(w, http.StatusOK, holdingsSummaryDTO{
		TotalValue:           sum.TotalValue,
		TotalGainLoss:        sum.TotalGainLoss,
		TotalGainLossPercent: sum.TotalGainLossPercent,
		TotalInvested:        sum.TotalInvested,
		HoldingsCount:        sum.HoldingsCount,
	})
}

func (s *Server) Accounts(w http.ResponseWriter, r *http.Request) {
	user, err := pathParam(r, "user_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTOs(s.portfolio.Accounts(r.Context(), user)))
}

func (s *Server) AccountsSummary(w http.ResponseWriter, r *http.Request) {
	user, err := pathParam(r, "user_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toAccountsSummaryDTO(s.portfolio.AccountsSummary(r.Context(), user)))
}

// auth

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeBody(w, r, &body); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(body); err != nil {
		badRequest(w, err.Error())
		return
	}
	if body.Username == "" {
		body.Username = application.DemoUser
	}
	token, exp, err := s.tokens.Issue(body.Username)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenDTO{Token: token, TokenType: "bearer", ExpiresAt: exp})
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := decodeBody(w, r, &body); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(body); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "registration accepted", "username": body.Username})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return
	}
	sub, err := s.tokens.Subject(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": sub})
}

// fail maps application errors onto the JSON error envelope.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, application.ErrBadRequest):
		badRequest(w, err.Error())
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, application.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		logx.WithFields(r.Context()).Error("http.internal_error", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", http.StatusText(http.StatusInternalServerError))
	}
}

func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	return v, err
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, "bad_request", msg)
}
