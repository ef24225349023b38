package usecase

import (
	"context"

	"QuantInvest/internal/domain/models"
	"QuantInvest/pkg/util"
)

// CalculateAccountReturn computes two return figures. SimpleReturn compares
// the USD market value with the cost of all positions. WeightedReturn sums
// each position's return weighted by its portfolio share. They use different
// denominators and are not expected to agree.
func (b *AccountReportBuilder) CalculateAccountReturn(ctx context.Context) (*models.AccountReturnSummary, error) {
	defer b.track("return")()

	mv, err := b.USDTotalMarketValue(ctx)
	if err != nil {
		return nil, err
	}
	cost, err := b.USDTotalCost(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := b.InvestmentSummary(ctx)
	if err != nil {
		return nil, err
	}

	terms := make([]float64, len(rows))
	for i, r := range rows {
		terms[i] = r.ReturnPercent * r.PortfolioPercent / 100
	}

	return &models.AccountReturnSummary{
		SimpleReturn:     util.Percent(mv-cost, cost),
		WeightedReturn:   util.Sum(terms...),
		TotalMarketValue: mv,
		TotalCost:        cost,
	}, nil
}
