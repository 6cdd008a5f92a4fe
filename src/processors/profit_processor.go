// backend/src/processors/profit_processor.go
package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/models"
)

// DebtIndex maps a sale ID to the customer debt that backs it.
type DebtIndex map[int64]models.Debt

// NewDebtIndex indexes debts by sale. When a sale has several records, a paid
// one wins.
func NewDebtIndex(debts []models.Debt) DebtIndex {
	idx := make(DebtIndex, len(debts))
	for _, d := range debts {
		if existing, ok := idx[d.SaleID]; ok && existing.IsPaid() {
			continue
		}
		idx[d.SaleID] = d
	}
	return idx
}

// IsRealized reports whether a sale's money has actually come in. Cash sales
// always have; debt sales only once their debt is paid. A debt sale without
// any debt record is treated as unpaid.
func (idx DebtIndex) IsRealized(sale models.Sale) bool {
	if !sale.IsDebt {
		return true
	}
	d, ok := idx[sale.ID]
	return ok && d.IsPaid()
}

type profitProcessorImpl struct{}

func NewProfitProcessor() ProfitProcessor {
	return &profitProcessorImpl{}
}

// ItemProfit returns the line profit in the sale currency.
func (p *profitProcessorImpl) ItemProfit(item models.SaleItem, sale models.Sale, current Rate) decimal.Decimal {
	qty := decimal.NewFromInt(item.Quantity)
	if item.ProductCurrency == sale.Currency {
		return item.SellingPrice.Sub(item.BuyingPrice).Mul(qty)
	}

	rate := RateForSale(sale, current)
	sell := rate.Convert(item.SellingPrice, item.ProductCurrency, sale.Currency)
	buy := rate.Convert(item.BuyingPrice, item.ProductCurrency, sale.Currency)
	return sell.Sub(buy).Mul(qty)
}

func (p *profitProcessorImpl) SaleProfit(sale models.Sale, debts DebtIndex, current Rate) models.SaleProfit {
	result := models.SaleProfit{
		SaleID:   sale.ID,
		Currency: sale.Currency,
		Items:    make([]models.ItemProfit, 0, len(sale.Items)),
		Discount: sale.Discount,
		Realized: debts.IsRealized(sale),
	}

	total := decimal.Zero
	for _, item := range sale.Items {
		profit := p.ItemProfit(item, sale, current)
		result.Items = append(result.Items, models.ItemProfit{
			Name:     item.Name,
			Quantity: item.Quantity,
			Profit:   profit,
		})
		total = total.Add(profit)
	}
	result.Profit = total.Sub(sale.Discount)
	return result
}
