package usecase

import (
	"context"

	"QuantInvest/internal/domain/models"
	"QuantInvest/pkg/util"
)

// HistoricalDividendIncome returns the net dividend income of every calendar
// month from the dividend start date through today, one activities call per
// month. Months without dividends are reported as zero.
func (b *AccountReportBuilder) HistoricalDividendIncome(ctx context.Context) (*models.DividendHistory, error) {
	defer b.track("dividends")()

	ranges := util.MonthRanges(b.dividendStart, b.now())
	months := make([]models.MonthlyDividend, 0, len(ranges))

	for _, r := range ranges {
		end := util.EndOfDay(r.End)
		acts, err := b.session.AccountActivities(ctx, b.accountID, r.Start, end)
		if err != nil {
			return nil, models.Upstream("get activities "+r.Label(), err)
		}

		amounts := make([]float64, 0, len(acts))
		for _, a := range acts {
			if a.Type == models.ActivityDividends {
				amounts = append(amounts, a.NetAmount)
			}
		}

		months = append(months, models.MonthlyDividend{
			Month:  r.Label(),
			Start:  r.Start,
			End:    end,
			Amount: util.Sum(amounts...),
		})
	}

	return &models.DividendHistory{Months: months}, nil
}
