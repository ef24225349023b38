package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"QuantInvest/internal/domain/models"
)

// SuggestCashAllocation compares the USD cash on hand with the target cash
// rate (in percent of total equity) and suggests which way to move. It never
// places orders.
func (b *AccountReportBuilder) SuggestCashAllocation(ctx context.Context, targetCashRate float64) (*models.CashAllocation, error) {
	if targetCashRate < 0 || targetCashRate > 100 {
		return nil, models.ErrInvalidCashRate
	}
	defer b.track("allocate")()

	summary, err := b.AccountBalanceSummary(ctx)
	if err != nil {
		return nil, err
	}
	row, err := summary.Row(CurrencyUSD)
	if err != nil {
		return nil, err
	}

	return cashAllocation(row.TotalEquity, row.MarketValue, targetCashRate), nil
}

func cashAllocation(totalEquity, totalMV, rate float64) *models.CashAllocation {
	equity := decimal.NewFromFloat(totalEquity)
	mv := decimal.NewFromFloat(totalMV)
	current := equity.Sub(mv)
	target := equity.Mul(decimal.NewFromFloat(rate)).Div(decimal.NewFromInt(100))

	out := &models.CashAllocation{
		TargetRate:       rate,
		TotalEquity:      totalEquity,
		TotalMarketValue: totalMV,
		CurrentCash:      current.InexactFloat64(),
		TargetCash:       target.InexactFloat64(),
	}

	if target.LessThan(current) {
		amount := current.Sub(target)
		out.Action = models.ActionInvestMore
		out.Amount = amount.InexactFloat64()
		out.TargetMarketValue = mv.Add(amount).InexactFloat64()
	} else {
		amount := target.Sub(current)
		out.Action = models.ActionRaiseCash
		out.Amount = amount.InexactFloat64()
		out.TargetMarketValue = mv.Sub(amount).InexactFloat64()
	}
	return out
}
