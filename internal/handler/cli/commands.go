// Package cli exposes the account reports as subcommands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/subcommands"

	"QuantInvest/internal/domain/models"
	"QuantInvest/internal/domain/service"
	"QuantInvest/pkg/config"
	"QuantInvest/pkg/util"
)

// Runtime is what the commands need from the application.
type Runtime interface {
	Config() *config.Config
	Reports(ctx context.Context, account string) (service.AccountReports, error)
	Accounts(ctx context.Context) ([]models.Account, error)
}

// RuntimeFunc lazily builds the runtime, after global flags are parsed.
type RuntimeFunc func(ctx context.Context) (Runtime, error)

// Options are the global flags shared by every command.
type Options struct {
	Account string
	Format  string
	Out     io.Writer
	Err     io.Writer
}

// RegisterFlags binds the shared options to fs.
func (o *Options) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.Account, "account", "", "account alias or number (defaults to default_account)")
	fs.StringVar(&o.Format, "format", FormatTable, "output format: table, markdown or json")
}

// Commands returns every report command.
func Commands(rt RuntimeFunc, opts *Options) []subcommands.Command {
	b := base{runtime: rt, opts: opts}
	return []subcommands.Command{
		&accountsCmd{base: b},
		&balancesCmd{base: b},
		&positionsCmd{base: b},
		&investmentsCmd{base: b},
		&dividendsCmd{base: b},
		&returnCmd{base: b},
		&allocateCmd{base: b},
		&activitiesCmd{base: b},
	}
}

type base struct {
	runtime RuntimeFunc
	opts    *Options
}

// run resolves the runtime and renderer, calls fn and maps its error to an
// exit status.
func (b *base) run(ctx context.Context, fn func(rt Runtime, r *Renderer) error) subcommands.ExitStatus {
	r, err := NewRenderer(b.opts.Out, b.opts.Format)
	if err != nil {
		fmt.Fprintf(b.opts.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	rt, err := b.runtime(ctx)
	if err != nil {
		fmt.Fprintf(b.opts.Err, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := fn(rt, r); err != nil {
		b.report(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// reports is run for commands bound to one account.
func (b *base) reports(ctx context.Context, fn func(rep service.AccountReports, r *Renderer) error) subcommands.ExitStatus {
	return b.run(ctx, func(rt Runtime, r *Renderer) error {
		rep, err := rt.Reports(ctx, b.opts.Account)
		if err != nil {
			return err
		}
		return fn(rep, r)
	})
}

func (b *base) report(err error) {
	fmt.Fprintf(b.opts.Err, "Error: %v\n", err)

	var mc *models.MissingCurrencyError
	switch {
	case errors.Is(err, models.ErrAuthentication):
		fmt.Fprintln(b.opts.Err, "Generate a new access code in the Questrade API hub and set QUESTRADE_API_KEY.")
	case errors.As(err, &mc):
		fmt.Fprintf(b.opts.Err, "The account holds no %s balance.\n", mc.Currency)
	}
}

type accountsCmd struct{ base }

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the accounts of the authenticated user" }
func (*accountsCmd) Usage() string {
	return `accounts

  Lists account numbers, types and status. Also verifies the session.
`
}
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(rt Runtime, r *Renderer) error {
		accounts, err := rt.Accounts(ctx)
		if err != nil {
			return err
		}
		return r.Render(AccountsMarkdown(accounts), accounts)
	})
}

type balancesCmd struct{ base }

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display the per-currency balance summary" }
func (*balancesCmd) Usage() string {
	return `[-account <alias>] balances

  Displays cash, market value and total equity per currency with the cash
  and investment share of equity.
`
}
func (*balancesCmd) SetFlags(*flag.FlagSet) {}

func (c *balancesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.reports(ctx, func(rep service.AccountReports, r *Renderer) error {
		s, err := rep.AccountBalanceSummary(ctx)
		if err != nil {
			return err
		}
		return r.Render(BalancesMarkdown(rep.AccountID(), s), s)
	})
}

type positionsCmd struct{ base }

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display raw positions" }
func (*positionsCmd) Usage() string {
	return `[-account <alias>] positions

  Displays every position as reported by the brokerage, closed ones included.
`
}
func (*positionsCmd) SetFlags(*flag.FlagSet) {}

func (c *positionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.reports(ctx, func(rep service.AccountReports, r *Renderer) error {
		positions, err := rep.AccountPositions(ctx)
		if err != nil {
			return err
		}
		return r.Render(PositionsMarkdown(rep.AccountID(), positions), positions)
	})
}

type investmentsCmd struct{ base }

func (*investmentsCmd) Name() string     { return "investments" }
func (*investmentsCmd) Synopsis() string { return "display open positions with return and portfolio share" }
func (*investmentsCmd) Usage() string {
	return `[-account <alias>] investments

  Displays open positions with their return on cost and their share of the
  USD market value.
`
}
func (*investmentsCmd) SetFlags(*flag.FlagSet) {}

func (c *investmentsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.reports(ctx, func(rep service.AccountReports, r *Renderer) error {
		rows, err := rep.InvestmentSummary(ctx)
		if err != nil {
			return err
		}
		return r.Render(InvestmentsMarkdown(rep.AccountID(), rows), rows)
	})
}

type dividendsCmd struct{ base }

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "display monthly dividend income history" }
func (*dividendsCmd) Usage() string {
	return `[-account <alias>] dividends

  Displays net dividend income for every month since reports.dividend_start_date.
  Issues one brokerage request per month.
`
}
func (*dividendsCmd) SetFlags(*flag.FlagSet) {}

func (c *dividendsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.reports(ctx, func(rep service.AccountReports, r *Renderer) error {
		h, err := rep.HistoricalDividendIncome(ctx)
		if err != nil {
			return err
		}
		return r.Render(DividendsMarkdown(rep.AccountID(), h), h)
	})
}

type returnCmd struct{ base }

func (*returnCmd) Name() string     { return "return" }
func (*returnCmd) Synopsis() string { return "display simple and weighted account return" }
func (*returnCmd) Usage() string {
	return `[-account <alias>] return

  Displays the simple return of market value over cost and the
  portfolio-weighted return of the open positions.
`
}
func (*returnCmd) SetFlags(*flag.FlagSet) {}

func (c *returnCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.reports(ctx, func(rep service.AccountReports, r *Renderer) error {
		ret, err := rep.CalculateAccountReturn(ctx)
		if err != nil {
			return err
		}
		return r.Render(ReturnMarkdown(rep.AccountID(), ret), ret)
	})
}

type allocateCmd struct {
	base
	rate float64
}

func (*allocateCmd) Name() string     { return "allocate" }
func (*allocateCmd) Synopsis() string { return "suggest how to move toward the target cash rate" }
func (*allocateCmd) Usage() string {
	return `[-account <alias>] allocate [-rate <percent>]

  Compares USD cash with the target cash rate and suggests investing more or
  raising cash. No order is placed.
`
}

func (c *allocateCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.rate, "rate", -1, "target cash rate in percent (defaults to reports.target_cash_rate)")
}

func (c *allocateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(rt Runtime, r *Renderer) error {
		rate := c.rate
		if rate == -1 {
			rate = rt.Config().Reports.TargetCashRate
		}
		rep, err := rt.Reports(ctx, c.opts.Account)
		if err != nil {
			return err
		}
		a, err := rep.SuggestCashAllocation(ctx, rate)
		if err != nil {
			return err
		}
		return r.Render(AllocationMarkdown(rep.AccountID(), a), a)
	})
}

type activitiesCmd struct {
	base
	from string
	to   string
}

func (*activitiesCmd) Name() string     { return "activities" }
func (*activitiesCmd) Synopsis() string { return "display raw account activities" }
func (*activitiesCmd) Usage() string {
	return `[-account <alias>] activities [-from <YYYY-MM-DD>] [-to <YYYY-MM-DD>]

  Displays account activities between two dates, both inclusive. Defaults to
  the current month. The brokerage limits one request to 31 days.
`
}

func (c *activitiesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "first day (defaults to the first of the current month)")
	f.StringVar(&c.to, "to", "", "last day (defaults to today)")
}

func (c *activitiesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(rt Runtime, r *Renderer) error {
		loc, err := rt.Config().Location()
		if err != nil {
			return err
		}
		start, end, err := activityWindow(c.from, c.to, time.Now().In(loc))
		if err != nil {
			return err
		}
		rep, err := rt.Reports(ctx, c.opts.Account)
		if err != nil {
			return err
		}
		acts, err := rep.AccountActivities(ctx, start, end)
		if err != nil {
			return err
		}
		return r.Render(ActivitiesMarkdown(rep.AccountID(), acts), acts)
	})
}

// activityWindow resolves the -from/-to flags into [00:00:00, 23:59:59] of
// the selected days in now's location.
func activityWindow(from, to string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	end := now

	var err error
	if from != "" {
		if start, err = util.ParseDate(from, loc); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if to != "" {
		if end, err = util.ParseDate(to, loc); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("-to %s is before -from %s", end.Format(util.DateLayout), start.Format(util.DateLayout))
	}
	return util.Day(start), util.EndOfDay(end), nil
}
