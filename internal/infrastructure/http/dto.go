package httpserver

import (
	"time"

	"wealthwatch-service/internal/application"
	"wealthwatch-service/internal/domain"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type quoteDTO struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	MarketCap     *float64  `json:"market_cap"`
	Volume        *int64    `json:"volume"`
	LastUpdated   time.Time `json:"last_updated"`
	Provenance    string    `json:"provenance"`
	Source        string    `json:"source"`
}

func toQuoteDTO(q domain.Quote) quoteDTO {
	return quoteDTO{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		MarketCap:     q.MarketCap,
		Volume:        q.Volume,
		LastUpdated:   q.UpdatedAt,
		Provenance:    string(q.Provenance),
		Source:        q.Source,
	}
}

func toQuoteDTOs(qs []domain.Quote) []quoteDTO {
	out := make([]quoteDTO, 0, len(qs))
	for _, q := range qs {
		out = append(out, toQuoteDTO(q))
	}
	return out
}

type cryptoQuoteDTO struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	MarketCap     *float64  `json:"market_cap"`
	Volume        *float64  `json:"volume"`
	LastUpdated   time.Time `json:"last_updated"`
	Provenance    string    `json:"provenance"`
	Source        string    `json:"source"`
}

func toCryptoDTOs(qs []domain.CryptoQuote) []cryptoQuoteDTO {
	out := make([]cryptoQuoteDTO, 0, len(qs))
	for _, q := range qs {
		out = append(out, cryptoQuoteDTO{
			Symbol:        q.Symbol,
			Name:          q.Name,
			Price:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
			MarketCap:     q.MarketCap,
			Volume:        q.Volume,
			LastUpdated:   q.UpdatedAt,
			Provenance:    string(q.Provenance),
			Source:        q.Source,
		})
	}
	return out
}

type historyPointDTO struct {
	Date             string   `json:"date"`
	Timestamp        int64    `json:"timestamp"`
	Open             float64  `json:"open"`
	High             float64  `json:"high"`
	Low              float64  `json:"low"`
	Close            float64  `json:"close"`
	Volume           int64    `json:"volume"`
	DayChange        *float64 `json:"day_change"`
	DayChangePercent *float64 `json:"day_change_percent"`
	RSI              *float64 `json:"rsi"`
}

type historyDTO struct {
	Symbol     string            `json:"symbol"`
	Period     string            `json:"period"`
	Provenance string            `json:"provenance"`
	Source     string            `json:"source"`
	Data       []historyPointDTO `json:"data"`
}

func toHistoryDTO(s domain.HistorySeries) historyDTO {
	out := historyDTO{
		Symbol:     s.Symbol,
		Period:     string(s.Period),
		Provenance: string(s.Provenance),
		Source:     s.Source,
		Data:       make([]historyPointDTO, 0, len(s.Points)),
	}
	for _, p := range s.Points {
		stamp := p.Date.Unix()
		if p.Timestamp != nil {
			stamp = *p.Timestamp
		}
		out.Data = append(out.Data, historyPointDTO{
			Date:             p.Date.Format(domain.DateLayout),
			Timestamp:        stamp,
			Open:             p.Open,
			High:             p.High,
			Low:              p.Low,
			Close:            p.Close,
			Volume:           p.Volume,
			DayChange:        p.DayChange,
			DayChangePercent: p.DayChangePercent,
			RSI:              p.RSI,
		})
	}
	return out
}

type searchMatchDTO struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Region string `json:"region"`
}

func toSearchDTOs(ms []domain.SearchMatch) []searchMatchDTO {
	out := make([]searchMatchDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, searchMatchDTO{Symbol: m.Symbol, Name: m.Name, Type: m.Type, Region: m.Region})
	}
	return out
}

type accountDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Balance     float64   `json:"balance"`
	Currency    string    `json:"currency"`
	LastUpdated time.Time `json:"last_updated"`
}

func toAccountDTOs(as []domain.Account) []accountDTO {
	out := make([]accountDTO, 0, len(as))
	for _, a := range as {
		out = append(out, accountDTO{
			ID:          a.ID,
			UserID:      a.UserID,
			Name:        a.Name,
			Type:        a.Type,
			Balance:     a.Balance,
			Currency:    a.Currency,
			LastUpdated: a.UpdatedAt,
		})
	}
	return out
}

type accountLineDTO struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Balance float64 `json:"balance"`
}

type accountsSummaryDTO struct {
	TotalBalance  float64          `json:"total_balance"`
	AccountsCount int              `json:"accounts_count"`
	Accounts      []accountLineDTO `json:"accounts"`
}

func toAccountsSummaryDTO(s domain.AccountsSummary) accountsSummaryDTO {
	out := accountsSummaryDTO{
		TotalBalance:  s.TotalBalance,
		AccountsCount: s.AccountsCount,
		Accounts:      make([]accountLineDTO, 0, len(s.Accounts)),
	}
	for _, l := range s.Accounts {
		out.Accounts = append(out.Accounts, accountLineDTO{Name: l.Name, Type: l.Type, Balance: l.Balance})
	}
	return out
}

type holdingDTO struct {
	ID              string    `json:"id,omitempty"`
	UserID          string    `json:"user_id"`
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	Shares          float64   `json:"shares"`
	AverageCost     float64   `json:"average_cost"`
	CurrentPrice    float64   `json:"current_price"`
	TotalValue      float64   `json:"total_value"`
	GainLoss        float64   `json:"gain_loss"`
	GainLossPercent float64   `json:"gain_loss_percent"`
	CreatedAt       time.Time `json:"created_at"`
}

func toHoldingDTO(h domain.Holding) holdingDTO {
	return holdingDTO{
		ID:              h.ID,
		UserID:          h.UserID,
		Symbol:          h.Symbol,
		Name:            h.Name,
		Shares:          h.Shares,
		AverageCost:     h.AverageCost,
		CurrentPrice:    h.CurrentPrice,
		TotalValue:      h.TotalValue,
		GainLoss:        h.GainLoss,
		GainLossPercent: h.GainLossPercent,
		CreatedAt:       h.UpdatedAt,
	}
}

func toHoldingDTOs(hs []domain.Holding) []holdingDTO {
	out := make([]holdingDTO, 0, len(hs))
	for _, h := range hs {
		out = append(out, toHoldingDTO(h))
	}
	return out
}

type holdingsSummaryDTO struct {
	TotalValue           float64 `json:"total_value"`
	TotalGainLoss        float64 `json:"total_gain_loss"`
	TotalGainLossPercent float64 `json:"total_gain_loss_percent"`
	TotalInvested        float64 `json:"total_invested"`
	HoldingsCount        int     `json:"holdings_count"`
}

type holdingRequestDTO struct {
	UserID      string  `json:"user_id"`
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Shares      float64 `json:"shares"`
	AverageCost float64 `json:"average_cost"`
}

func (d holdingRequestDTO) toRequest() application.HoldingRequest {
	return application.HoldingRequest{
		UserID:      d.UserID,
		Symbol:      d.Symbol,
		Name:        d.Name,
		Shares:      d.Shares,
		AverageCost: d.AverageCost,
	}
}

type failureDTO struct {
	Provider string `json:"provider"`
	Reason   string `json:"reason"`
	Message  string `json:"message,omitempty"`
}

type resolutionDTO struct {
	ID         int64        `json:"id"`
	Kind       string       `json:"kind"`
	Symbol     string       `json:"symbol"`
	Period     string       `json:"period,omitempty"`
	Provenance string       `json:"provenance,omitempty"`
	Source     string       `json:"source,omitempty"`
	NotFound   bool         `json:"not_found"`
	Failures   []failureDTO `json:"failures"`
	ResolvedAt time.Time    `json:"resolved_at"`
}

func toResolutionDTOs(rs []domain.Resolution) []resolutionDTO {
	out := make([]resolutionDTO, 0, len(rs))
	for _, r := range rs {
		d := resolutionDTO{
			ID:         r.ID,
			Kind:       string(r.Kind),
			Symbol:     r.Symbol,
			Period:     string(r.Period),
			Provenance: string(r.Provenance),
			Source:     r.Source,
			NotFound:   r.NotFound,
			Failures:   make([]failureDTO, 0, len(r.Failures)),
			ResolvedAt: r.ResolvedAt,
		}
		for _, f := range r.Failures {
			d.Failures = append(d.Failures, failureDTO{Provider: f.Provider, Reason: string(f.Reason), Message: f.Message})
		}
		out = append(out, d)
	}
	return out
}

type providerStatsDTO struct {
	Providers []string         `json:"providers"`
	Counters  map[string]int64 `json:"counters"`
}

type loginRequest struct {
	Username string `json:"username" validate:"omitempty,max=64,alphanum"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64,alphanum"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type tokenDTO struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}
