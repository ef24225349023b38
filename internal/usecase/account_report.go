package usecase

import (
	"context"
	"time"

	"QuantInvest/internal/domain/models"
	drepo "QuantInvest/internal/domain/repository"
	"QuantInvest/internal/domain/service"
	"QuantInvest/pkg/logger"
	"QuantInvest/pkg/util"
)

const (
	CurrencyUSD = "USD"
	CurrencyCAD = "CAD"
)

// AccountReportBuilder derives reporting tables for one account from a
// brokerage session. It holds no state between calls: every report fetches
// fresh data, so two reports may see different snapshots.
type AccountReportBuilder struct {
	session       drepo.Session
	accountID     string
	logger        *logger.Logger
	metrics       drepo.Metrics
	now           func() time.Time
	dividendStart time.Time
}

var _ service.AccountReports = (*AccountReportBuilder)(nil)

// ReportOption configures AccountReportBuilder.
type ReportOption func(*AccountReportBuilder)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) ReportOption {
	return func(b *AccountReportBuilder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics records report durations.
func WithMetrics(m drepo.Metrics) ReportOption {
	return func(b *AccountReportBuilder) {
		b.metrics = m
	}
}

// WithClock overrides the clock that decides "today".
func WithClock(now func() time.Time) ReportOption {
	return func(b *AccountReportBuilder) {
		b.now = now
	}
}

// WithDividendStart sets the first day of the dividend history. Its location
// is the time zone of the month buckets.
func WithDividendStart(start time.Time) ReportOption {
	return func(b *AccountReportBuilder) {
		b.dividendStart = start
	}
}

// NewAccountReportBuilder creates a report builder for accountID.
func NewAccountReportBuilder(session drepo.Session, accountID string, opts ...ReportOption) *AccountReportBuilder {
	b := &AccountReportBuilder{
		session:   session,
		accountID: accountID,
		logger:    logger.NewNop(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.dividendStart.IsZero() {
		b.dividendStart = time.Date(2016, time.January, 1, 0, 0, 0, 0, b.now().Location())
	}
	b.logger = b.logger.With(logger.String("account", accountID))
	return b
}

// AccountID returns the account the builder reports on.
func (b *AccountReportBuilder) AccountID() string { return b.accountID }

// AccountBalanceSummary returns one row per currency held, in API order.
func (b *AccountReportBuilder) AccountBalanceSummary(ctx context.Context) (*models.BalanceSummary, error) {
	bal, err := b.session.AccountBalances(ctx, b.accountID)
	if err != nil {
		return nil, models.Upstream("get balances", err)
	}

	rows := make([]models.BalanceRow, 0, len(bal.PerCurrency))
	for _, c := range bal.PerCurrency {
		rows = append(rows, models.BalanceRow{
			Currency:          c.Currency,
			Cash:              c.Cash,
			MarketValue:       c.MarketValue,
			TotalEquity:       c.TotalEquity,
			CashPercent:       util.Percent(c.Cash, c.TotalEquity),
			InvestmentPercent: util.Percent(c.MarketValue, c.TotalEquity),
		})
	}
	return &models.BalanceSummary{Rows: rows}, nil
}

// AccountPositions returns the raw positions of the account.
func (b *AccountReportBuilder) AccountPositions(ctx context.Context) ([]models.Position, error) {
	positions, err := b.session.AccountPositions(ctx, b.accountID)
	if err != nil {
		return nil, models.Upstream("get positions", err)
	}
	return positions, nil
}

// AccountActivities returns the raw activities between start and end.
func (b *AccountReportBuilder) AccountActivities(ctx context.Context, start, end time.Time) ([]models.Activity, error) {
	acts, err := b.session.AccountActivities(ctx, b.accountID, start, end)
	if err != nil {
		return nil, models.Upstream("get activities", err)
	}
	return acts, nil
}

// TotalEquity returns the total equity of the currency row.
func (b *AccountReportBuilder) TotalEquity(ctx context.Context, currency string) (float64, error) {
	row, err := b.balanceRow(ctx, currency)
	if err != nil {
		return 0, err
	}
	return row.TotalEquity, nil
}

// TotalMarketValue returns the market value of the currency row.
func (b *AccountReportBuilder) TotalMarketValue(ctx context.Context, currency string) (float64, error) {
	row, err := b.balanceRow(ctx, currency)
	if err != nil {
		return 0, err
	}
	return row.MarketValue, nil
}

func (b *AccountReportBuilder) USDTotalEquity(ctx context.Context) (float64, error) {
	return b.TotalEquity(ctx, CurrencyUSD)
}

func (b *AccountReportBuilder) USDTotalMarketValue(ctx context.Context) (float64, error) {
	return b.TotalMarketValue(ctx, CurrencyUSD)
}

func (b *AccountReportBuilder) CADTotalEquity(ctx context.Context) (float64, error) {
	return b.TotalEquity(ctx, CurrencyCAD)
}

func (b *AccountReportBuilder) CADTotalMarketValue(ctx context.Context) (float64, error) {
	return b.TotalMarketValue(ctx, CurrencyCAD)
}

func (b *AccountReportBuilder) balanceRow(ctx context.Context, currency string) (models.BalanceRow, error) {
	summary, err := b.AccountBalanceSummary(ctx)
	if err != nil {
		return models.BalanceRow{}, err
	}
	return summary.Row(currency)
}

// track records the duration of a report when metrics are enabled.
func (b *AccountReportBuilder) track(report string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		if b.metrics != nil {
			b.metrics.RecordReport(report, elapsed)
		}
		b.logger.Debug("report computed", logger.String("report", report), logger.Duration("elapsed", elapsed))
	}
}
