package application

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"wealthwatch-service/internal/domain"
)

// HoldingRequest is a position to be priced against the current quote.
type HoldingRequest struct {
	UserID      string  `validate:"required,max=64"`
	Symbol      string  `validate:"required,max=15"`
	Name        string  `validate:"max=128"`
	Shares      float64 `validate:"gt=0"`
	AverageCost float64 `validate:"gte=0"`
}

type quoter interface {
	Quote(ctx context.Context, symbol string) (domain.Quote, error)
}

// PortfolioService serves the demo accounts and holdings. Nothing is
// persisted.
type PortfolioService struct {
	quotes   quoter
	clock    Clock
	validate *validator.Validate
	accounts map[string][]domain.Account
	holdings map[string][]domain.Holding
}

func NewPortfolioService(quotes quoter, clock Clock) *PortfolioService {
	if clock == nil {
		clock = realClock{}
	}
	now := clock.Now()
	return &PortfolioService{
		quotes:   quotes,
		clock:    clock,
		validate: validator.New(),
		accounts: map[string][]domain.Account{DemoUser: demoAccounts(now)},
		holdings: map[string][]domain.Holding{DemoUser: demoHoldings(now)},
	}
}

func (s *PortfolioService) Accounts(_ context.Context, userID string) []domain.Account {
	out := make([]domain.Account, len(s.accounts[userID]))
	copy(out, s.accounts[userID])
	return out
}

func (s *PortfolioService) AccountsSummary(ctx context.Context, userID string) domain.AccountsSummary {
	accounts := s.Accounts(ctx, userID)
	sum := domain.AccountsSummary{AccountsCount: len(accounts), Accounts: make([]domain.AccountLine, 0, len(accounts))}
	var total float64
	for _, a := range accounts {
		total += a.Balance
		sum.Accounts = append(sum.Accounts, domain.AccountLine{Name: a.Name, Type: a.Type, Balance: a.Balance})
	}
	sum.TotalBalance = domain.Round2(total)
	return sum
}

func (s *PortfolioService) Holdings(_ context.Context, userID string) []domain.Holding {
	out := make([]domain.Holding, len(s.holdings[userID]))
	copy(out, s.holdings[userID])
	return out
}

func (s *PortfolioService) HoldingsSummary(ctx context.Context, userID string) domain.HoldingsSummary {
	holdings := s.Holdings(ctx, userID)
	var value, gain, invested float64
	for _, h := range holdings {
		value += h.TotalValue
		gain += h.GainLoss
		invested += h.Shares * h.AverageCost
	}
	sum := domain.HoldingsSummary{
		TotalValue:    domain.Round2(value),
		TotalGainLoss: domain.Round2(gain),
		TotalInvested: domain.Round2(invested),
		HoldingsCount: len(holdings),
	}
	if invested > 0 {
		sum.TotalGainLossPercent = domain.Round2(gain / invested * 100)
	}
	return sum
}

// ValueHolding prices req at the current quote. The holding is not stored.
func (s *PortfolioService) ValueHolding(ctx context.Context, req HoldingRequest) (domain.Holding, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.Holding{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	q, err := s.quotes.Quote(ctx, req.Symbol)
	if err != nil {
		return domain.Holding{}, err
	}
	name := req.Name
	if name == "" {
		name = q.Name
	}
	h := domain.Holding{
		UserID:      req.UserID,
		Symbol:      q.Symbol,
		Name:        name,
		Shares:      req.Shares,
		AverageCost: req.AverageCost,
		UpdatedAt:   s.clock.Now(),
	}
	h.Revalue(q.Price)
	return h, nil
}
