package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"QuantInvest/internal/domain/models"
)

// Output formats.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

const wordWrap = 120

// Renderer writes a report in the selected format. Tables are built as
// markdown and rendered for the terminal with glamour.
type Renderer struct {
	out    io.Writer
	format string
}

func NewRenderer(out io.Writer, format string) (*Renderer, error) {
	switch format {
	case FormatTable, FormatMarkdown, FormatJSON:
	default:
		return nil, fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatTable, FormatMarkdown, FormatJSON)
	}
	return &Renderer{out: out, format: format}, nil
}

// Render writes v as JSON or md as markdown or terminal table.
func (r *Renderer) Render(md string, v interface{}) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatMarkdown:
		_, err := io.WriteString(r.out, md)
		return err
	}

	tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wordWrap))
	if err != nil {
		return fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(r.out, out)
	return err
}

// formatMoney renders amount with the currency's symbol and grouping. Unknown
// codes fall back to a plain two-decimal figure.
func formatMoney(amount float64, currency string) string {
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if code == "" || cur == nil {
		return fmt.Sprintf("%s %s", formatAmount(amount), code)
	}
	// minor units, rounded half away from zero
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

func formatQuantity(v float64) string {
	return decimal.NewFromFloat(v).String()
}

type table struct {
	b strings.Builder
}

func newTable(title string, headers ...string) *table {
	t := &table{}
	if title != "" {
		fmt.Fprintf(&t.b, "# %s\n\n", title)
	}
	t.row(headers...)
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	t.row(seps...)
	return t
}

func (t *table) row(cells ...string) {
	for i, c := range cells {
		cells[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	fmt.Fprintf(&t.b, "| %s |\n", strings.Join(cells, " | "))
}

func (t *table) footer(format string, a ...interface{}) {
	t.b.WriteString("\n")
	fmt.Fprintf(&t.b, format, a...)
	t.b.WriteString("\n")
}

func (t *table) String() string { return t.b.String() }

func AccountsMarkdown(accounts []models.Account) string {
	t := newTable("Accounts", "Number", "Type", "Status", "Primary", "Client type")
	for _, a := range accounts {
		primary := ""
		if a.IsPrimary {
			primary = "yes"
		}
		t.row(a.Number, a.Type, a.Status, primary, a.ClientAccountType)
	}
	return t.String()
}

func BalancesMarkdown(accountID string, s *models.BalanceSummary) string {
	t := newTable("Balances "+accountID, "Currency", "Cash", "Market value", "Total equity", "Cash (%)", "Investment (%)")
	for _, r := range s.Rows {
		t.row(r.Currency,
			formatMoney(r.Cash, r.Currency),
			formatMoney(r.MarketValue, r.Currency),
			formatMoney(r.TotalEquity, r.Currency),
			formatPercent(r.CashPercent),
			formatPercent(r.InvestmentPercent),
		)
	}
	return t.String()
}

func PositionsMarkdown(accountID string, positions []models.Position) string {
	t := newTable("Positions "+accountID, "Symbol", "Open qty", "Closed qty", "Price", "Avg entry", "Market value", "Total cost", "Open P&L")
	for _, p := range positions {
		t.row(p.Symbol,
			formatQuantity(p.OpenQuantity),
			formatQuantity(p.ClosedQuantity),
			formatAmount(p.CurrentPrice),
			formatAmount(p.AverageEntryPrice),
			formatAmount(p.CurrentMarketValue),
			formatAmount(p.TotalCost),
			formatAmount(p.OpenPnL),
		)
	}
	return t.String()
}

func InvestmentsMarkdown(accountID string, rows []models.PositionRow) string {
	t := newTable("Investments "+accountID, "Symbol", "Description", "Currency", "Quantity", "Market value", "Return (%)", "Portfolio (%)")
	for _, r := range rows {
		t.row(r.Symbol, r.Description, r.Currency,
			formatQuantity(r.Quantity),
			formatMoney(r.MarketValue, r.Currency),
			formatPercent(r.ReturnPercent),
			formatPercent(r.PortfolioPercent),
		)
	}
	return t.String()
}

func DividendsMarkdown(accountID string, h *models.DividendHistory) string {
	t := newTable("Dividend income "+accountID, "Month", "Net dividends")
	for _, m := range h.Months {
		t.row(m.Month, formatAmount(m.Amount))
	}
	t.footer("**Total:** %s", formatAmount(h.Total()))
	return t.String()
}

func ReturnMarkdown(accountID string, r *models.AccountReturnSummary) string {
	t := newTable("Account return "+accountID, "Measure", "Value")
	t.row("Market value (USD)", formatMoney(r.TotalMarketValue, "USD"))
	t.row("Total cost", formatAmount(r.TotalCost))
	t.row("Simple return", formatPercent(r.SimpleReturn))
	t.row("Weighted return", formatPercent(r.WeightedReturn))
	return t.String()
}

func AllocationMarkdown(accountID string, a *models.CashAllocation) string {
	t := newTable("Cash allocation "+accountID, "Item", "Value")
	t.row("Total equity", formatMoney(a.TotalEquity, "USD"))
	t.row("Market value", formatMoney(a.TotalMarketValue, "USD"))
	t.row("Current cash", formatMoney(a.CurrentCash, "USD"))
	t.row("Target cash ("+formatPercent(a.TargetRate)+")", formatMoney(a.TargetCash, "USD"))
	t.row("Target market value", formatMoney(a.TargetMarketValue, "USD"))

	switch a.Action {
	case models.ActionInvestMore:
		t.footer("**Invest more:** deploy %s of cash.", formatMoney(a.Amount, "USD"))
	default:
		t.footer("**Raise cash:** sell %s of investments.", formatMoney(a.Amount, "USD"))
	}
	return t.String()
}

func ActivitiesMarkdown(accountID string, acts []models.Activity) string {
	t := newTable("Activities "+accountID, "Trade date", "Type", "Action", "Symbol", "Quantity", "Price", "Net amount", "Currency")
	for _, a := range acts {
		date := ""
		if !a.TradeDate.IsZero() {
			date = a.TradeDate.Format("2006-01-02")
		}
		t.row(date, a.Type, a.Action, a.Symbol,
			formatQuantity(a.Quantity),
			formatAmount(a.Price),
			formatAmount(a.NetAmount),
			a.Currency,
		)
	}
	return t.String()
}
