package processors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/models"
)

var ErrInvalidRate = errors.New("exchange rate must be a positive number")

// Rate is the number of IQD one USD buys. The zero value converts everything
// to zero instead of dividing by zero.
type Rate struct {
	usdToIQD decimal.Decimal
}

// NewRate builds a Rate, rejecting zero and negative values.
func NewRate(usdToIQD decimal.Decimal) (Rate, error) {
	if !usdToIQD.IsPositive() {
		return Rate{}, fmt.Errorf("%w: got %s", ErrInvalidRate, usdToIQD.String())
	}
	return Rate{usdToIQD: usdToIQD}, nil
}

// MustRate is NewRate for constants. It panics on invalid input.
func MustRate(usdToIQD float64) Rate {
	r, err := NewRate(decimal.NewFromFloat(usdToIQD))
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rate) USDToIQD() decimal.Decimal {
	return r.usdToIQD
}

func (r Rate) IsZero() bool {
	return !r.usdToIQD.IsPositive()
}

// ToIQD converts a USD amount into IQD.
func (r Rate) ToIQD(usd decimal.Decimal) decimal.Decimal {
	return usd.Mul(r.usdToIQD)
}

// ToUSD converts an IQD amount into USD.
func (r Rate) ToUSD(iqd decimal.Decimal) decimal.Decimal {
	if r.IsZero() {
		return decimal.Zero
	}
	return iqd.Div(r.usdToIQD)
}

// Convert moves amount from one currency to another. Same-currency and
// unknown pairs return amount untouched.
func (r Rate) Convert(amount decimal.Decimal, from, to models.Currency) decimal.Decimal {
	switch {
	case from == to:
		return amount
	case from == models.CurrencyUSD && to == models.CurrencyIQD:
		return r.ToIQD(amount)
	case from == models.CurrencyIQD && to == models.CurrencyUSD:
		return r.ToUSD(amount)
	}
	return amount
}

// AmountsToUSD collapses a finished USD/IQD pair into one USD figure,
// converting the IQD side once.
func (r Rate) AmountsToUSD(a models.Amounts) decimal.Decimal {
	return a.USD.Add(r.ToUSD(a.IQD))
}

// RateForSale picks the rate recorded on the sale, falling back to current
// when the sale has none or it is not positive.
func RateForSale(sale models.Sale, current Rate) Rate {
	if sale.ExchangeRate == nil {
		return current
	}
	snapshot, err := NewRate(*sale.ExchangeRate)
	if err != nil {
		return current
	}
	return snapshot
}
