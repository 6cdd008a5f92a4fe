package processors

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/models"
)

// ProfitProcessor computes profit for sale lines and whole sales.
type ProfitProcessor interface {
	ItemProfit(item models.SaleItem, sale models.Sale, current Rate) decimal.Decimal
	SaleProfit(sale models.Sale, debts DebtIndex, current Rate) models.SaleProfit
}

// SalesProcessor aggregates sales over a reporting period.
type SalesProcessor interface {
	Totals(sales []models.Sale, debts DebtIndex, period Period, now time.Time, current Rate) models.PeriodTotals
}

// DebtProcessor computes what is still owed on debts and loans.
type DebtProcessor interface {
	Remainder(o models.Obligation) (models.Remainder, bool)
	Outstanding(records []models.Obligation) (models.Amounts, []models.Remainder)
	CustomerOutstanding(sales []models.Sale, debts DebtIndex) (models.Amounts, []models.Remainder)
}

// NetWorthProcessor composes the dashboard summary.
type NetWorthProcessor interface {
	Compose(in NetWorthInput, rate Rate, now time.Time) models.FinancialSummary
}
