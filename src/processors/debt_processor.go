// backend/src/processors/debt_processor.go
package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/models"
)

type debtProcessorImpl struct{}

func NewDebtProcessor() DebtProcessor {
	return &debtProcessorImpl{}
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// Remainder returns what is left on o. The bool is false for records that are
// closed (PaidAt set). Multi-currency legs are settled independently.
func (p *debtProcessorImpl) Remainder(o models.Obligation) (models.Remainder, bool) {
	if o.PaidAt != nil {
		return models.Remainder{}, false
	}

	r := models.Remainder{
		ID:       o.ID,
		Kind:     o.Kind,
		Name:     o.Name,
		Currency: o.Amount.Currency,
		USD:      decimal.Zero,
		IQD:      decimal.Zero,
	}
	paid := models.Amounts{USD: o.PaidUSD, IQD: o.PaidIQD}

	if o.Amount.IsMulti() {
		r.USD = nonNegative(o.Amount.Leg(models.CurrencyUSD).Sub(paid.USD))
		r.IQD = nonNegative(o.Amount.Leg(models.CurrencyIQD).Sub(paid.IQD))
		return r, true
	}

	c := o.Amount.Currency
	left := nonNegative(o.Amount.Amount().Sub(paid.Leg(c)))
	switch c {
	case models.CurrencyUSD:
		r.USD = left
	case models.CurrencyIQD:
		r.IQD = left
	}
	return r, true
}

// Outstanding sums open remainders per currency. Records with nothing left
// are not listed.
func (p *debtProcessorImpl) Outstanding(records []models.Obligation) (models.Amounts, []models.Remainder) {
	total := models.Amounts{}
	open := make([]models.Remainder, 0, len(records))
	for _, o := range records {
		r, ok := p.Remainder(o)
		if !ok || (r.USD.IsZero() && r.IQD.IsZero()) {
			continue
		}
		total = total.Add(models.Amounts{USD: r.USD, IQD: r.IQD})
		open = append(open, r)
	}
	return total, open
}

// CustomerOutstanding lists unpaid debt sales by their collected-total legs.
func (p *debtProcessorImpl) CustomerOutstanding(sales []models.Sale, debts DebtIndex) (models.Amounts, []models.Remainder) {
	total := models.Amounts{}
	open := make([]models.Remainder, 0)
	for _, sale := range sales {
		if !sale.IsDebt || debts.IsRealized(sale) {
			continue
		}
		legs := sale.Total.Legs()
		total = total.Add(legs)
		open = append(open, models.Remainder{
			ID:       sale.ID,
			Currency: sale.Total.Currency,
			USD:      legs.USD,
			IQD:      legs.IQD,
		})
	}
	return total, open
}
