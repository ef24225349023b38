package models

import "time"

// Account is a brokerage account owned by the authenticated user.
type Account struct {
	Type              string `json:"type"`
	Number            string `json:"number"`
	Status            string `json:"status"`
	IsPrimary         bool   `json:"isPrimary"`
	IsBilling         bool   `json:"isBilling"`
	ClientAccountType string `json:"clientAccountType"`
}

// Position is a brokerage position record as reported by the API.
type Position struct {
	Symbol             string  `json:"symbol"`
	SymbolID           int64   `json:"symbolId"`
	OpenQuantity       float64 `json:"openQuantity"`
	ClosedQuantity     float64 `json:"closedQuantity"`
	CurrentMarketValue float64 `json:"currentMarketValue"`
	CurrentPrice       float64 `json:"currentPrice"`
	AverageEntryPrice  float64 `json:"averageEntryPrice"`
	ClosedPnL          float64 `json:"closedPnl"`
	OpenPnL            float64 `json:"openPnl"`
	TotalCost          float64 `json:"totalCost"`
	IsRealTime         bool    `json:"isRealTime"`
	IsUnderReorg       bool    `json:"isUnderReorg"`
}

// IsOpen reports whether the position still holds shares.
func (p Position) IsOpen() bool { return p.OpenQuantity != 0 }

// CurrencyBalance is one currency bucket of an account balance.
type CurrencyBalance struct {
	Currency          string  `json:"currency"`
	Cash              float64 `json:"cash"`
	MarketValue       float64 `json:"marketValue"`
	TotalEquity       float64 `json:"totalEquity"`
	BuyingPower       float64 `json:"buyingPower"`
	MaintenanceExcess float64 `json:"maintenanceExcess"`
	IsRealTime        bool    `json:"isRealTime"`
}

// Balances holds the per-currency and combined balances of an account.
type Balances struct {
	PerCurrency []CurrencyBalance `json:"perCurrencyBalances"`
	Combined    []CurrencyBalance `json:"combinedBalances"`
}

// ActivityDividends is the activity type of dividend payments.
const ActivityDividends = "Dividends"

// Activity is an account activity (trade, dividend, deposit, ...).
type Activity struct {
	TradeDate       time.Time `json:"tradeDate"`
	TransactionDate time.Time `json:"transactionDate"`
	SettlementDate  time.Time `json:"settlementDate"`
	Action          string    `json:"action"`
	Symbol          string    `json:"symbol"`
	SymbolID        int64     `json:"symbolId"`
	Description     string    `json:"description"`
	Currency        string    `json:"currency"`
	Quantity        float64   `json:"quantity"`
	Price           float64   `json:"price"`
	GrossAmount     float64   `json:"grossAmount"`
	Commission      float64   `json:"commission"`
	NetAmount       float64   `json:"netAmount"`
	Type            string    `json:"type"`
}

// SymbolInfo is the ticker metadata returned by a symbol lookup.
type SymbolInfo struct {
	Symbol          string `json:"symbol"`
	SymbolID        int64  `json:"symbolId"`
	Description     string `json:"description"`
	Currency        string `json:"currency"`
	ListingExchange string `json:"listingExchange"`
	SecurityType    string `json:"securityType"`
}
