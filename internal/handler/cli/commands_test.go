package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantInvest/internal/domain/models"
	"QuantInvest/internal/domain/service"
	"QuantInvest/pkg/config"
)

type fakeReports struct {
	service.AccountReports
	summary  *models.BalanceSummary
	rows     []models.PositionRow
	lastRate float64
	err      error
}

func (f *fakeReports) AccountID() string { return "51234567" }

func (f *fakeReports) AccountBalanceSummary(context.Context) (*models.BalanceSummary, error) {
	return f.summary, f.err
}

func (f *fakeReports) InvestmentSummary(context.Context) ([]models.PositionRow, error) {
	return f.rows, f.err
}

func (f *fakeReports) SuggestCashAllocation(_ context.Context, rate float64) (*models.CashAllocation, error) {
	f.lastRate = rate
	if f.err != nil {
		return nil, f.err
	}
	return &models.CashAllocation{Action: models.ActionRaiseCash, TargetRate: rate, TotalEquity: 10000, TotalMarketValue: 8000, CurrentCash: 2000, TargetCash: 3000, Amount: 1000, TargetMarketValue: 7000}, nil
}

type fakeRuntime struct {
	cfg     *config.Config
	reports *fakeReports
	account string
}

func (f *fakeRuntime) Config() *config.Config { return f.cfg }

func (f *fakeRuntime) Reports(_ context.Context, account string) (service.AccountReports, error) {
	f.account = account
	return f.reports, nil
}

func (f *fakeRuntime) Accounts(context.Context) ([]models.Account, error) {
	return []models.Account{{Number: "51234567", Type: "Margin", Status: "Active", IsPrimary: true}}, nil
}

func newTestCommands(t *testing.T, format string, rep *fakeReports) (map[string]subcommands.Command, *fakeRuntime, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	rt := &fakeRuntime{cfg: cfg, reports: rep}
	var out, errOut bytes.Buffer
	opts := &Options{Account: "quant", Format: format, Out: &out, Err: &errOut}

	cmds := map[string]subcommands.Command{}
	for _, c := range Commands(func(context.Context) (Runtime, error) { return rt, nil }, opts) {
		cmds[c.Name()] = c
	}
	return cmds, rt, &out, &errOut
}

func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return c.Execute(context.Background(), fs)
}

func TestCommandsRegistered(t *testing.T) {
	cmds, _, _, _ := newTestCommands(t, FormatMarkdown, &fakeReports{})
	for _, name := range []string{"accounts", "balances", "positions", "investments", "dividends", "return", "allocate", "activities"} {
		c, ok := cmds[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, c.Synopsis())
		assert.NotEmpty(t, c.Usage())
	}
}

func TestBalancesMarkdown(t *testing.T) {
	rep := &fakeReports{summary: &models.BalanceSummary{Rows: []models.BalanceRow{
		{Currency: "USD", Cash: 1000, MarketValue: 2000, TotalEquity: 3000, CashPercent: 33.33, InvestmentPercent: 66.67},
	}}}
	cmds, rt, out, _ := newTestCommands(t, FormatMarkdown, rep)

	assert.Equal(t, subcommands.ExitSuccess, execute(t, cmds["balances"]))
	assert.Equal(t, "quant", rt.account)
	assert.Contains(t, out.String(), "# Balances 51234567")
	assert.Contains(t, out.String(), "| USD | $1,000.00 | $2,000.00 | $3,000.00 | 33.33% | 66.67% |")
}

func TestInvestmentsJSON(t *testing.T) {
	rep := &fakeReports{rows: []models.PositionRow{{Symbol: "AAPL", Currency: "USD", MarketValue: 1100, ReturnPercent: 10}}}
	cmds, _, out, _ := newTestCommands(t, FormatJSON, rep)

	assert.Equal(t, subcommands.ExitSuccess, execute(t, cmds["investments"]))
	var rows []models.PositionRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	assert.Equal(t, rep.rows, rows)
}

func TestAllocateUsesConfiguredRate(t *testing.T) {
	rep := &fakeReports{}
	cmds, _, out, _ := newTestCommands(t, FormatMarkdown, rep)

	assert.Equal(t, subcommands.ExitSuccess, execute(t, cmds["allocate"]))
	assert.Equal(t, 30.0, rep.lastRate)
	assert.Contains(t, out.String(), "**Raise cash:** sell $1,000.00 of investments.")

	cmds, _, _, _ = newTestCommands(t, FormatMarkdown, rep)
	assert.Equal(t, subcommands.ExitSuccess, execute(t, cmds["allocate"], "-rate", "12.5"))
	assert.Equal(t, 12.5, rep.lastRate)
}

func TestCommandErrors(t *testing.T) {
	rep := &fakeReports{err: &models.AuthenticationError{Message: "manual re-authorization required"}}
	cmds, _, _, errOut := newTestCommands(t, FormatMarkdown, rep)

	assert.Equal(t, subcommands.ExitFailure, execute(t, cmds["balances"]))
	assert.Contains(t, errOut.String(), "manual re-authorization required")
	assert.Contains(t, errOut.String(), "QUESTRADE_API_KEY")

	rep = &fakeReports{err: &models.MissingCurrencyError{Currency: "USD"}}
	cmds, _, _, errOut = newTestCommands(t, FormatMarkdown, rep)
	assert.Equal(t, subcommands.ExitFailure, execute(t, cmds["investments"]))
	assert.Contains(t, errOut.String(), "holds no USD balance")

	cmds, _, _, _ = newTestCommands(t, "xml", &fakeReports{})
	assert.Equal(t, subcommands.ExitUsageError, execute(t, cmds["accounts"]))
}

func TestActivityWindow(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)
	now := time.Date(2024, 3, 20, 15, 4, 5, 0, loc)

	start, end, err := activityWindow("", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 3, 20, 23, 59, 59, 0, loc), end)

	start, end, err = activityWindow("2024-01-05", "2024-01-31", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 0, loc), end)

	_, _, err = activityWindow("2024-02-01", "2024-01-01", now)
	assert.Error(t, err)
	_, _, err = activityWindow("Jan 1", "", now)
	assert.Error(t, err)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$1,234.57", formatMoney(1234.567, "USD"))
	assert.Equal(t, "$12.00", formatMoney(12, "cad"))
	assert.Equal(t, "12.30 XYZ", formatMoney(12.3, "XYZ"))
	assert.Equal(t, "33.30%", formatPercent(33.3))
	assert.Equal(t, "1.5", formatQuantity(1.5))

	md := DividendsMarkdown("1", &models.DividendHistory{Months: []models.MonthlyDividend{
		{Month: "2024-01", Amount: 10.1}, {Month: "2024-02", Amount: 0.2},
	}})
	assert.Contains(t, md, "| 2024-02 | 0.20 |")
	assert.Contains(t, md, "**Total:** 10.30")
}

func TestRenderTable(t *testing.T) {
	var out bytes.Buffer
	r, err := NewRenderer(&out, FormatTable)
	require.NoError(t, err)
	require.NoError(t, r.Render(AccountsMarkdown([]models.Account{{Number: "51234567", Type: "TFSA"}}), nil))
	assert.Contains(t, out.String(), "51234567")
	assert.Contains(t, out.String(), "TFSA")
}
