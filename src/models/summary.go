package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary is the dashboard snapshot. Every *USD field is the
// USD-equivalent of the matching native-currency pair.
type FinancialSummary struct {
	ExchangeRate decimal.Decimal `json:"exchange_rate"`

	Balance         Amounts         `json:"balance"`
	TotalBalanceUSD decimal.Decimal `json:"total_balance_usd"`

	CustomerDebts    Amounts         `json:"customer_debts"`
	CustomerDebtsUSD decimal.Decimal `json:"customer_debts_usd"`

	PersonalLoans    Amounts         `json:"personal_loans"`
	PersonalLoansUSD decimal.Decimal `json:"personal_loans_usd"`

	CompanyDebts    Amounts         `json:"company_debts"`
	CompanyDebtsUSD decimal.Decimal `json:"company_debts_usd"`

	Inventory         Amounts         `json:"inventory"`
	InventoryValueUSD decimal.Decimal `json:"inventory_value_usd"`

	NetWorthUSD decimal.Decimal `json:"net_worth_usd"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// PeriodTotals holds revenue and profit for one reporting period, kept
// separately per currency.
type PeriodTotals struct {
	Period            string    `json:"period"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	Revenue           Amounts   `json:"revenue"`
	Profit            Amounts   `json:"profit"`
	SaleCount         int       `json:"sale_count"`
	ExcludedDebtSales int       `json:"excluded_debt_sales"`
	Flagged           []int64   `json:"flagged_sales"`
}

// Remainder is what is still owed on one record, per currency.
type Remainder struct {
	ID       int64          `json:"id"`
	Kind     ObligationKind `json:"kind,omitempty"`
	Name     string         `json:"name,omitempty"`
	Currency Currency       `json:"currency"`
	USD      decimal.Decimal `json:"usd"`
	IQD      decimal.Decimal `json:"iqd"`
}

// OutstandingReport lists open remainders with their per-currency sum.
type OutstandingReport struct {
	Records  []Remainder     `json:"records"`
	Total    Amounts         `json:"total"`
	TotalUSD decimal.Decimal `json:"total_usd"`
}

type ItemProfit struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Profit   decimal.Decimal `json:"profit"`
}

// SaleProfit is expressed in the sale's pricing currency.
type SaleProfit struct {
	SaleID   int64           `json:"sale_id"`
	Currency Currency        `json:"currency"`
	Items    []ItemProfit    `json:"items"`
	Discount decimal.Decimal `json:"discount"`
	Profit   decimal.Decimal `json:"profit"`
	Realized bool            `json:"realized"`
}
