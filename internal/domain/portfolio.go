package domain

import "time"

type Account struct {
	ID        string
	UserID    string
	Name      string
	Type      string
	Balance   float64
	Currency  string
	UpdatedAt time.Time
}

type AccountLine struct {
	Name    string
	Type    string
	Balance float64
}

type AccountsSummary struct {
	TotalBalance  float64
	AccountsCount int
	Accounts      []AccountLine
}

type Holding struct {
	ID              string
	UserID          string
	Symbol          string
	Name            string
	Shares          float64
	AverageCost     float64
	CurrentPrice    float64
	TotalValue      float64
	GainLoss        float64
	GainLossPercent float64
	UpdatedAt       time.Time
}

// Revalue recomputes the derived fields of h at price.
func (h *Holding) Revalue(price float64) {
	invested := h.Shares * h.AverageCost
	h.CurrentPrice = price
	h.TotalValue = Round2(h.Shares * price)
	h.GainLoss = Round2(h.TotalValue - invested)
	h.GainLossPercent = 0
	if invested != 0 {
		h.GainLossPercent = Round2((h.Shares*price - invested) / invested * 100)
	}
}

type HoldingsSummary struct {
	TotalValue           float64
	TotalGainLoss        float64
	TotalGainLossPercent float64
	TotalInvested        float64
	HoldingsCount        int
}
