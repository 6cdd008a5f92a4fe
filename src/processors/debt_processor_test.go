package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/shopledger/backend/src/models"
)

func TestRemainderMultiCurrencyLegsAreIndependent(t *testing.T) {
	loan := models.Obligation{
		ID:      1,
		Kind:    models.ObligationPersonalLoan,
		Name:    "Ali",
		Amount:  models.Multi(dec("200"), dec("50000")),
		PaidUSD: dec("200"),
		PaidIQD: dec("0"),
	}

	r, ok := NewDebtProcessor().Remainder(loan)
	require.True(t, ok)
	assertDecimal(t, "0", r.USD)
	assertDecimal(t, "50000", r.IQD)
}

func TestRemainderSingleCurrency(t *testing.T) {
	p := NewDebtProcessor()
	tests := []struct {
		name string
		o    models.Obligation
		usd  string
		iqd  string
	}{
		{
			name: "usd partly paid",
			o:    models.Obligation{Amount: models.Single(models.CurrencyUSD, dec("500")), PaidUSD: dec("120")},
			usd:  "380",
			iqd:  "0",
		},
		{
			name: "iqd ignores usd payments",
			o:    models.Obligation{Amount: models.Single(models.CurrencyIQD, dec("300000")), PaidUSD: dec("50"), PaidIQD: dec("100000")},
			usd:  "0",
			iqd:  "200000",
		},
		{
			name: "overpaid clamps to zero",
			o:    models.Obligation{Amount: models.Single(models.CurrencyUSD, dec("100")), PaidUSD: dec("150")},
			usd:  "0",
			iqd:  "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := p.Remainder(tt.o)
			require.True(t, ok)
			assertDecimal(t, tt.usd, r.USD)
			assertDecimal(t, tt.iqd, r.IQD)
		})
	}
}

func TestOutstandingExcludesPaidAt(t *testing.T) {
	paidAt := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	records := []models.Obligation{
		{ID: 1, Amount: models.Single(models.CurrencyUSD, dec("100"))},
		{ID: 2, Amount: models.Single(models.CurrencyUSD, dec("900")), PaidAt: &paidAt},
		{ID: 3, Amount: models.Multi(dec("20"), dec("30000")), PaidIQD: dec("10000")},
		{ID: 4, Amount: models.Single(models.CurrencyIQD, dec("5000")), PaidIQD: dec("5000")},
	}

	total, open := NewDebtProcessor().Outstanding(records)
	assertDecimal(t, "120", total.USD)
	assertDecimal(t, "20000", total.IQD)
	require.Len(t, open, 2)
	assert.Equal(t, int64(1), open[0].ID)
	assert.Equal(t, int64(3), open[1].ID)

	_, ok := NewDebtProcessor().Remainder(records[1])
	assert.False(t, ok)
}

func TestCustomerOutstanding(t *testing.T) {
	sales := []models.Sale{
		{ID: 1, IsDebt: true, Total: models.Single(models.CurrencyUSD, dec("100"))},
		{ID: 2, IsDebt: true, Total: models.Multi(dec("10"), dec("14400"))},
		{ID: 3, IsDebt: true, Total: models.Single(models.CurrencyUSD, dec("70"))},
		{ID: 4, Total: models.Single(models.CurrencyUSD, dec("55"))},
		{ID: 5, IsDebt: true, Total: models.Single(models.CurrencyIQD, dec("25000"))},
	}
	debts := NewDebtIndex([]models.Debt{{SaleID: 1}, {SaleID: 2}, {SaleID: 3, Paid: true}})

	total, open := NewDebtProcessor().CustomerOutstanding(sales, debts)
	assertDecimal(t, "110", total.USD)
	assertDecimal(t, "39400", total.IQD)
	assert.Len(t, open, 3)
}
