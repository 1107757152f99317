package domain

import "time"

type Quote struct {
	Symbol        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent float64
	MarketCap     *float64
	Volume        *int64
	UpdatedAt     time.Time
	Provenance    Provenance
	Source        string
}

// NewQuote rounds price and change for display and derives ChangePercent
// from the rounded values so the two stay consistent.
func NewQuote(symbol, name string, price, change float64, updatedAt time.Time) Quote {
	price, change = Round2(price), Round2(change)
	if name == "" {
		name = symbol
	}
	return Quote{
		Symbol:        symbol,
		Name:          name,
		Price:         price,
		Change:        change,
		ChangePercent: ChangePercent(price, change),
		UpdatedAt:     updatedAt,
	}
}

type CryptoQuote struct {
	Symbol        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent float64
	MarketCap     *float64
	Volume        *float64
	UpdatedAt     time.Time
	Provenance    Provenance
	Source        string
}

func NewCryptoQuote(symbol, name string, price, change float64, updatedAt time.Time) CryptoQuote {
	q := NewQuote(symbol, name, price, change, updatedAt)
	return CryptoQuote{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		UpdatedAt:     q.UpdatedAt,
	}
}

type SearchMatch struct {
	Symbol string
	Name   string
	Type   string
	Region string
}
