package service

import (
	"context"
	"time"

	"QuantInvest/internal/domain/models"
)

// AccountReports computes the reports of one brokerage account. Every call
// fetches fresh data; nothing is cached between calls.
type AccountReports interface {
	AccountID() string
	AccountBalanceSummary(ctx context.Context) (*models.BalanceSummary, error)
	AccountPositions(ctx context.Context) ([]models.Position, error)
	AccountActivities(ctx context.Context, start, end time.Time) ([]models.Activity, error)
	InvestmentSummary(ctx context.Context) ([]models.PositionRow, error)
	HistoricalDividendIncome(ctx context.Context) (*models.DividendHistory, error)
	CalculateAccountReturn(ctx context.Context) (*models.AccountReturnSummary, error)
	SuggestCashAllocation(ctx context.Context, targetCashRate float64) (*models.CashAllocation, error)
}
