package usecase

import (
	"context"

	"QuantInvest/internal/domain/models"
	"QuantInvest/pkg/util"
)

// USDTotalCost sums the cost of every position. Positions are not filtered
// by currency, so CAD positions are added at face value.
func (b *AccountReportBuilder) USDTotalCost(ctx context.Context) (float64, error) {
	positions, err := b.AccountPositions(ctx)
	if err != nil {
		return 0, err
	}

	costs := make([]float64, len(positions))
	for i, p := range positions {
		costs[i] = p.TotalCost
	}
	return util.Sum(costs...), nil
}

// InvestmentSummary returns one row per open position in API order. Every
// position's weight is taken against the USD market value of the account.
func (b *AccountReportBuilder) InvestmentSummary(ctx context.Context) ([]models.PositionRow, error) {
	defer b.track("investments")()

	totalMV, err := b.USDTotalMarketValue(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := b.AccountPositions(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.PositionRow, 0, len(positions))
	for _, p := range positions {
		// closed out today but still listed
		if !p.IsOpen() {
			continue
		}

		info, err := b.session.TickerInformation(ctx, p.Symbol)
		if err != nil {
			return nil, models.Upstream("get symbol "+p.Symbol, err)
		}

		rows = append(rows, models.PositionRow{
			Symbol:           p.Symbol,
			Description:      info.Description,
			Currency:         info.Currency,
			Quantity:         p.OpenQuantity,
			MarketValue:      p.CurrentMarketValue,
			ReturnPercent:    util.Percent(p.CurrentMarketValue-p.TotalCost, p.TotalCost),
			PortfolioPercent: util.Percent(p.CurrentMarketValue, totalMV),
		})
	}
	return rows, nil
}
