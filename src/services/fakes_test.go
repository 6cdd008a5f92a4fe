package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/username/shopledger/backend/src/models"
)

type fakeLedger struct {
	mu            sync.Mutex
	balances      models.Balances
	sales         []models.Sale
	debts         []models.Debt
	companyDebts  []models.Obligation
	personalLoans []models.Obligation
	stock         []models.StockItem

	balanceCalls atomic.Int32
	// block and salesBlock, when set, hold GetBalances and GetSales until
	// closed. entered is signalled on the way in.
	block      chan struct{}
	salesBlock chan struct{}
	entered    chan struct{}
	failAll    error
}

func (f *fakeLedger) signalEntered() {
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
}

func (f *fakeLedger) GetBalances(ctx context.Context) (models.Balances, error) {
	f.balanceCalls.Add(1)
	f.signalEntered()
	if f.block != nil {
		<-f.block
	}
	if err := ctx.Err(); err != nil {
		return models.Balances{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances, f.failAll
}

func (f *fakeLedger) GetSales(ctx context.Context) ([]models.Sale, error) {
	if f.salesBlock != nil {
		f.signalEntered()
		<-f.salesBlock
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sales, f.failAll
}

func (f *fakeLedger) GetSale(ctx context.Context, id int64) (models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return models.Sale{}, f.failAll
	}
	for _, s := range f.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Sale{}, fmt.Errorf("failed to load sale %d: %w", id, sql.ErrNoRows)
}

func (f *fakeLedger) GetDebts(ctx context.Context) ([]models.Debt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.debts, f.failAll
}

func (f *fakeLedger) GetObligations(ctx context.Context, kind models.ObligationKind) ([]models.Obligation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if kind == models.ObligationCompanyDebt {
		return f.companyDebts, f.failAll
	}
	return f.personalLoans, f.failAll
}

func (f *fakeLedger) GetStockItems(ctx context.Context) ([]models.StockItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock, f.failAll
}

type fakeSettings struct {
	mu      sync.Mutex
	values  map[string]string
	failGet error
	failSet error
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: map[string]string{}}
}

func (f *fakeSettings) GetSetting(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return "", false, f.failGet
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeSettings) SetSetting(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet != nil {
		return f.failSet
	}
	f.values[key] = value
	return nil
}

var errDiskGone = errors.New("disk I/O error")
