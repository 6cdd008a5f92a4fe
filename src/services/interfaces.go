// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"

	"github.com/username/shopledger/backend/src/models"
	"github.com/username/shopledger/backend/src/processors"
)

// Define common service errors
var (
	ErrSaleNotFound  = errors.New("sale not found")
	ErrLedgerLoading = errors.New("failed to load ledger data")
)

// LedgerReader is the read side of the shop database.
type LedgerReader interface {
	GetBalances(ctx context.Context) (models.Balances, error)
	GetSales(ctx context.Context) ([]models.Sale, error)
	GetSale(ctx context.Context, id int64) (models.Sale, error)
	GetDebts(ctx context.Context) ([]models.Debt, error)
	GetObligations(ctx context.Context, kind models.ObligationKind) ([]models.Obligation, error)
	GetStockItems(ctx context.Context) ([]models.StockItem, error)
}

// SettingsStore persists small key/value settings.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// RateService owns the USD->IQD rate. SetRate is the only way to change it.
type RateService interface {
	Current(ctx context.Context) (processors.Rate, error)
	SetRate(ctx context.Context, raw string) (processors.Rate, error)
}

// FinancialService answers dashboard and report queries from fresh or cached snapshots.
type FinancialService interface {
	GetSummary(ctx context.Context) (*models.FinancialSummary, error)
	// Refresh recomputes the summary. Concurrent calls share one computation.
	Refresh(ctx context.Context) (*models.FinancialSummary, error)
	GetPeriodTotals(ctx context.Context, period processors.Period) (*models.PeriodTotals, error)
	GetSaleProfit(ctx context.Context, saleID int64) (*models.SaleProfit, error)
	GetOutstandingObligations(ctx context.Context, kind models.ObligationKind) (*models.OutstandingReport, error)
	GetOutstandingCustomerDebts(ctx context.Context) (*models.OutstandingReport, error)
	InvalidateCache()
}
