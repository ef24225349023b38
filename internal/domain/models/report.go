package models

import (
	"time"

	"QuantInvest/pkg/util"
)

// BalanceRow is the per-currency line of the balance summary.
type BalanceRow struct {
	Currency          string  `json:"currency"`
	Cash              float64 `json:"cash"`
	MarketValue       float64 `json:"market_value"`
	TotalEquity       float64 `json:"total_equity"`
	CashPercent       float64 `json:"cash_percent"`
	InvestmentPercent float64 `json:"investment_percent"`
}

// BalanceSummary is the ordered sequence of balance rows keyed by currency.
type BalanceSummary struct {
	Rows []BalanceRow `json:"rows"`
}

// Row returns the row for currency or a MissingCurrencyError.
func (s *BalanceSummary) Row(currency string) (BalanceRow, error) {
	for _, r := range s.Rows {
		if r.Currency == currency {
			return r, nil
		}
	}
	return BalanceRow{}, &MissingCurrencyError{Currency: currency}
}

// Currencies lists the currencies of the summary in row order.
func (s *BalanceSummary) Currencies() []string {
	out := make([]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		out = append(out, r.Currency)
	}
	return out
}

// PositionRow is one line of the investment summary.
type PositionRow struct {
	Symbol           string  `json:"symbol"`
	Description      string  `json:"description"`
	Currency         string  `json:"currency"`
	Quantity         float64 `json:"quantity"`
	MarketValue      float64 `json:"market_value"`
	ReturnPercent    float64 `json:"return_percent"`
	PortfolioPercent float64 `json:"portfolio_percent"`
}

// MonthlyDividend is the net dividend income of one month bucket.
type MonthlyDividend struct {
	Month  string    `json:"month"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Amount float64   `json:"amount"`
}

// DividendHistory holds monthly dividend income in chronological order.
type DividendHistory struct {
	Months []MonthlyDividend `json:"months"`
}

// Total is the sum of all monthly amounts.
func (h *DividendHistory) Total() float64 {
	amounts := make([]float64, len(h.Months))
	for i, m := range h.Months {
		amounts[i] = m.Amount
	}
	return util.Sum(amounts...)
}

// ByMonth returns the amounts keyed by YYYY-MM label.
func (h *DividendHistory) ByMonth() map[string]float64 {
	out := make(map[string]float64, len(h.Months))
	for _, m := range h.Months {
		out[m.Month] = m.Amount
	}
	return out
}

// AccountReturnSummary exposes two independent return figures. They are
// informational and expected to diverge.
type AccountReturnSummary struct {
	// SimpleReturn is 100*(mv-cost)/cost.
	SimpleReturn float64 `json:"simple_return"`
	// WeightedReturn is the portfolio-weighted sum of position returns.
	WeightedReturn   float64 `json:"weighted_return"`
	TotalMarketValue float64 `json:"total_market_value"`
	TotalCost        float64 `json:"total_cost"`
}

// AllocationAction is the direction of a cash allocation suggestion.
type AllocationAction string

const (
	ActionInvestMore AllocationAction = "invest_more"
	ActionRaiseCash  AllocationAction = "raise_cash"
)

// CashAllocation is a suggestion to move toward a target cash rate. It never
// results in an order.
type CashAllocation struct {
	Action            AllocationAction `json:"action"`
	TargetRate        float64          `json:"target_rate"`
	TotalEquity       float64          `json:"total_equity"`
	TotalMarketValue  float64          `json:"total_market_value"`
	CurrentCash       float64          `json:"current_cash"`
	TargetCash        float64          `json:"target_cash"`
	Amount            float64          `json:"amount"`
	TargetMarketValue float64          `json:"target_market_value"`
}
