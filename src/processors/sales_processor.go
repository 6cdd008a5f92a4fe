// backend/src/processors/sales_processor.go
package processors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/models"
)

var (
	ErrUnknownPeriod        = errors.New("unknown period")
	ErrDiscountAppliedTwice = errors.New("sale total has the discount applied twice")
)

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func ParsePeriod(raw string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case PeriodToday, PeriodWeek, PeriodMonth:
		return p, nil
	case "":
		return PeriodToday, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, raw)
}

// Bounds returns the half-open interval [from, to) containing now, in now's
// location. Weeks start on Monday.
func (p Period) Bounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodWeek:
		sinceMonday := (int(now.Weekday()) + 6) % 7
		from := startOfDay.AddDate(0, 0, -sinceMonday)
		return from, from.AddDate(0, 0, 7)
	case PeriodMonth:
		from := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		return from, from.AddDate(0, 1, 0)
	default:
		return startOfDay, startOfDay.AddDate(0, 0, 1)
	}
}

// Cash totals are compared with this much slack per currency.
var totalTolerance = map[models.Currency]decimal.Decimal{
	models.CurrencyUSD: decimal.NewFromFloat(0.01),
	models.CurrencyIQD: IQDBill,
}

// CheckSaleTotal detects a stored total that had the discount subtracted
// twice. Multi-currency and undiscounted sales are not checked.
func CheckSaleTotal(sale models.Sale, current Rate) error {
	if sale.Total.IsMulti() || !sale.Discount.IsPositive() || len(sale.Items) == 0 {
		return nil
	}
	tol, ok := totalTolerance[sale.Currency]
	if !ok {
		return nil
	}

	rate := RateForSale(sale, current)
	subtotal := decimal.Zero
	for _, item := range sale.Items {
		price := rate.Convert(item.SellingPrice, item.ProductCurrency, sale.Currency)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(item.Quantity)))
	}

	total := sale.Total.Amount()
	once := total.Sub(subtotal.Sub(sale.Discount)).Abs()
	twice := total.Sub(subtotal.Sub(sale.Discount.Mul(decimal.NewFromInt(2)))).Abs()
	if once.GreaterThan(tol) && twice.LessThanOrEqual(tol) {
		return fmt.Errorf("%w: sale %d total %s, subtotal %s, discount %s",
			ErrDiscountAppliedTwice, sale.ID, total, subtotal, sale.Discount)
	}
	return nil
}

type salesProcessorImpl struct {
	profit ProfitProcessor
}

func NewSalesProcessor(profit ProfitProcessor) SalesProcessor {
	return &salesProcessorImpl{profit: profit}
}

// Totals sums revenue and profit of realized sales inside the period. A
// multi-currency sale adds each leg to its own currency; a single-currency
// sale only touches its own currency.
func (p *salesProcessorImpl) Totals(sales []models.Sale, debts DebtIndex, period Period, now time.Time, current Rate) models.PeriodTotals {
	from, to := period.Bounds(now)
	result := models.PeriodTotals{
		Period:  string(period),
		From:    from,
		To:      to,
		Flagged: []int64{},
	}

	for _, sale := range sales {
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		if !debts.IsRealized(sale) {
			result.ExcludedDebtSales++
			continue
		}
		if err := CheckSaleTotal(sale, current); err != nil {
			logger.L.Warn("Sale total inconsistent with its items", "saleID", sale.ID, "error", err)
			result.Flagged = append(result.Flagged, sale.ID)
		}

		result.Revenue = result.Revenue.Add(sale.Total.Legs())
		profit := p.profit.SaleProfit(sale, debts, current)
		result.Profit = result.Profit.Plus(sale.Currency, profit.Profit)
		result.SaleCount++
	}
	return result
}
