package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("503 service unavailable")

	up := Upstream("get balances", cause)
	assert.ErrorIs(t, up, ErrUpstream)
	assert.ErrorIs(t, up, cause)
	assert.Equal(t, "get balances: 503 service unavailable", up.Error())

	// already classified errors pass through untouched
	assert.Same(t, up, Upstream("outer", up))
	auth := &AuthenticationError{Message: "manual re-authorization required"}
	wrapped := Upstream("get accounts", fmt.Errorf("wrapped: %w", auth))
	assert.ErrorIs(t, wrapped, ErrAuthentication)
	assert.NotErrorIs(t, wrapped, ErrUpstream)
}

func TestBalanceSummaryRow(t *testing.T) {
	s := &BalanceSummary{Rows: []BalanceRow{{Currency: "CAD", TotalEquity: 10}, {Currency: "USD", TotalEquity: 20}}}

	row, err := s.Row("USD")
	assert.NoError(t, err)
	assert.Equal(t, 20.0, row.TotalEquity)
	assert.Equal(t, []string{"CAD", "USD"}, s.Currencies())

	_, err = s.Row("EUR")
	assert.ErrorIs(t, err, ErrMissingCurrency)
	var mc *MissingCurrencyError
	assert.True(t, errors.As(err, &mc))
	assert.Equal(t, "EUR", mc.Currency)
}

func TestDividendHistoryTotal(t *testing.T) {
	h := &DividendHistory{Months: []MonthlyDividend{
		{Month: "2024-01", Amount: 10.1},
		{Month: "2024-02", Amount: 0},
		{Month: "2024-03", Amount: 20.2},
	}}
	assert.Equal(t, 30.3, h.Total())
	assert.Equal(t, 20.2, h.ByMonth()["2024-03"])
}

func TestBootstrapResultUsable(t *testing.T) {
	assert.True(t, BootstrapResult{State: SessionFresh}.Usable())
	assert.True(t, BootstrapResult{State: SessionRefreshed}.Usable())
	assert.False(t, BootstrapResult{State: SessionInvalid}.Usable())
}
