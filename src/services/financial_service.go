// backend/src/services/financial_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/models"
	"github.com/username/shopledger/backend/src/processors"
	"golang.org/x/sync/singleflight"
)

const (
	ckFinancialSummary = "agg_financial_summary"
	ckPeriodTotals     = "agg_period_totals_%s_%s"
)

const (
	DefaultCacheExpiration = 60 * time.Second
	CacheCleanupInterval   = 5 * time.Minute
)

// maxStaleRecomputes bounds how often a report is recomputed because the
// cache was invalidated while it was being built.
const maxStaleRecomputes = 3

type financialServiceImpl struct {
	ledger            LedgerReader
	rates             RateService
	profitProcessor   processors.ProfitProcessor
	salesProcessor    processors.SalesProcessor
	debtProcessor     processors.DebtProcessor
	netWorthProcessor processors.NetWorthProcessor
	reportCache       *cache.Cache
	refreshGroup      singleflight.Group

	// cacheMu guards generation. InvalidateCache bumps it; reports built
	// under an older generation are never cached.
	cacheMu    sync.Mutex
	generation uint64

	location          *time.Location
	now               func() time.Time
}

func NewFinancialService(
	ledger LedgerReader,
	rates RateService,
	profitProcessor processors.ProfitProcessor,
	salesProcessor processors.SalesProcessor,
	debtProcessor processors.DebtProcessor,
	netWorthProcessor processors.NetWorthProcessor,
	reportCache *cache.Cache,
	location *time.Location,
) FinancialService {
	if location == nil {
		location = time.UTC
	}
	return &financialServiceImpl{
		ledger:            ledger,
		rates:             rates,
		profitProcessor:   profitProcessor,
		salesProcessor:    salesProcessor,
		debtProcessor:     debtProcessor,
		netWorthProcessor: netWorthProcessor,
		reportCache:       reportCache,
		location:          location,
		now:               time.Now,
	}
}

func (s *financialServiceImpl) clock() time.Time {
	return s.now().In(s.location)
}

func (s *financialServiceImpl) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// storeIfCurrent caches value under key unless the cache was invalidated
// after gen was read. With flush set, older reports are dropped first.
func (s *financialServiceImpl) storeIfCurrent(gen uint64, key string, value any, flush bool) bool {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		return false
	}
	if flush {
		s.reportCache.Flush()
	}
	s.reportCache.Set(key, value, cache.DefaultExpiration)
	return true
}

func (s *financialServiceImpl) GetSummary(ctx context.Context) (*models.FinancialSummary, error) {
	if cached, found := s.reportCache.Get(ckFinancialSummary); found {
		return cached.(*models.FinancialSummary), nil
	}
	return s.Refresh(ctx)
}

func (s *financialServiceImpl) Refresh(ctx context.Context) (*models.FinancialSummary, error) {
	result, err, shared := s.refreshGroup.Do(ckFinancialSummary, func() (any, error) {
		// Detached: joined callers and the scheduler share this run.
		return s.computeSummary(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.FromContext(ctx).Debug("Summary refresh joined an in-flight computation")
	}
	return result.(*models.FinancialSummary), nil
}

func (s *financialServiceImpl) computeSummary(ctx context.Context) (*models.FinancialSummary, error) {
	for attempt := 1; ; attempt++ {
		start := time.Now()
		gen := s.currentGeneration()

		rate, err := s.rates.Current(ctx)
		if err != nil {
			return nil, err
		}
		input, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}

		summary := s.netWorthProcessor.Compose(input, rate, s.clock())

		if s.storeIfCurrent(gen, ckFinancialSummary, &summary, true) {
			logger.FromContext(ctx).Info("Financial summary refreshed",
				"netWorthUSD", processors.FormatUSD(summary.NetWorthUSD),
				"rate", summary.ExchangeRate.String(),
				"duration", time.Since(start).String())
			return &summary, nil
		}
		if attempt >= maxStaleRecomputes {
			logger.FromContext(ctx).Warn("Financial summary kept going stale, returning it uncached", "attempts", attempt)
			return &summary, nil
		}
		logger.FromContext(ctx).Info("Report cache invalidated during summary refresh, recomputing", "attempt", attempt)
	}
}

func (s *financialServiceImpl) loadSnapshot(ctx context.Context) (processors.NetWorthInput, error) {
	var in processors.NetWorthInput
	var err error

	if in.Balances, err = s.ledger.GetBalances(ctx); err != nil {
		return in, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}
	if in.Sales, err = s.ledger.GetSales(ctx); err != nil {
		return in, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}
	if in.Debts, err = s.ledger.GetDebts(ctx); err != nil {
		return in, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}
	if in.CompanyDebts, err = s.ledger.GetObligations(ctx, models.ObligationCompanyDebt); err != nil {
		return in, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}
	if in.PersonalLoans, err = s.ledger.GetObligations(ctx, models.ObligationPersonalLoan); err != nil {
		return in, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}
	if in.Stock, err = s.ledger.GetStockItems(ctx); err != nil {
		return in, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}
	return in, nil
}

func (s *financialServiceImpl) GetPeriodTotals(ctx context.Context, period processors.Period) (*models.PeriodTotals, error) {
	now := s.clock()
	from, _ := period.Bounds(now)
	cacheKey := fmt.Sprintf(ckPeriodTotals, period, from.Format("2006-01-02"))
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.PeriodTotals), nil
	}

	for attempt := 1; ; attempt++ {
		gen := s.currentGeneration()

		rate, err := s.rates.Current(ctx)
		if err != nil {
			return nil, err
		}
		sales, err := s.ledger.GetSales(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
		}
		debts, err := s.ledger.GetDebts(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
		}

		totals := s.salesProcessor.Totals(sales, processors.NewDebtIndex(debts), period, now, rate)
		if s.storeIfCurrent(gen, cacheKey, &totals, false) || attempt >= maxStaleRecomputes {
			return &totals, nil
		}
		logger.FromContext(ctx).Info("Report cache invalidated during period totals, recomputing", "period", period, "attempt", attempt)
	}
}

func (s *financialServiceImpl) GetSaleProfit(ctx context.Context, saleID int64) (*models.SaleProfit, error) {
	sale, err := s.ledger.GetSale(ctx, saleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrSaleNotFound, saleID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}

	rate, err := s.rates.Current(ctx)
	if err != nil {
		return nil, err
	}

	var debts []models.Debt
	if sale.IsDebt {
		if debts, err = s.ledger.GetDebts(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
		}
	}

	profit := s.profitProcessor.SaleProfit(sale, processors.NewDebtIndex(debts), rate)
	return &profit, nil
}

func (s *financialServiceImpl) GetOutstandingObligations(ctx context.Context, kind models.ObligationKind) (*models.OutstandingReport, error) {
	rate, err := s.rates.Current(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.ledger.GetObligations(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}

	total, open := s.debtProcessor.Outstanding(records)
	return &models.OutstandingReport{
		Records:  open,
		Total:    total,
		TotalUSD: rate.AmountsToUSD(total),
	}, nil
}

func (s *financialServiceImpl) GetOutstandingCustomerDebts(ctx context.Context) (*models.OutstandingReport, error) {
	rate, err := s.rates.Current(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.ledger.GetSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}
	debts, err := s.ledger.GetDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerLoading, err)
	}

	total, open := s.debtProcessor.CustomerOutstanding(sales, processors.NewDebtIndex(debts))
	return &models.OutstandingReport{
		Records:  open,
		Total:    total,
		TotalUSD: rate.AmountsToUSD(total),
	}, nil
}

// InvalidateCache drops every cached report so the next request recomputes.
// A refresh already running when this is called does not cache its result,
// and later Refresh calls start a new computation instead of joining it.
func (s *financialServiceImpl) InvalidateCache() {
	s.cacheMu.Lock()
	s.generation++
	s.reportCache.Flush()
	s.cacheMu.Unlock()
	s.refreshGroup.Forget(ckFinancialSummary)
	logger.L.Debug("Report cache invalidated")
}
