package application

import (
	"time"

	"wealthwatch-service/internal/domain"
)

const DemoUser = "demo"

func demoAccounts(now time.Time) []domain.Account {
	return []domain.Account{
		{ID: "1", UserID: DemoUser, Name: "Chase Checking", Type: "checking", Balance: 12500.75, Currency: "USD", UpdatedAt: now},
		{ID: "2", UserID: DemoUser, Name: "Chase Savings", Type: "savings", Balance: 18500.00, Currency: "USD", UpdatedAt: now},
		{ID: "3", UserID: DemoUser, Name: "Credit Union", Type: "checking", Balance: 1000.00, Currency: "USD", UpdatedAt: now},
	}
}

func demoHoldings(now time.Time) []domain.Holding {
	rows := []struct {
		id, symbol, name    string
		shares, cost, price float64
	}{
		{"1", "AAPL", "Apple Inc.", 50, 150, 175.23},
		{"2", "GOOGL", "Alphabet Inc.", 25, 120, 142.56},
		{"3", "MSFT", "Microsoft Corporation", 30, 300, 378.85},
		{"4", "TSLA", "Tesla, Inc.", 15, 200, 248.42},
		{"5", "NVDA", "NVIDIA Corporation", 20, 400, 485.09},
	}
	out := make([]domain.Holding, 0, len(rows))
	for _, r := range rows {
		h := domain.Holding{
			ID:          r.id,
			UserID:      DemoUser,
			Symbol:      r.symbol,
			Name:        r.name,
			Shares:      r.shares,
			AverageCost: r.cost,
			UpdatedAt:   now,
		}
		h.Revalue(r.price)
		out = append(out, h)
	}
	return out
}
