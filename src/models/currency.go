// backend/src/models/currency.go
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the ISO-ish code stored on every priced record.
type Currency string

const (
	CurrencyUSD   Currency = "USD"
	CurrencyIQD   Currency = "IQD"
	CurrencyMulti Currency = "MULTI"
)

// DefaultCurrency is used whenever a stored record has no currency.
// Legacy rows disagreed on this (USD in some screens, IQD in others);
// everything now resolves to USD at load time.
const DefaultCurrency = CurrencyUSD

var ErrUnknownCurrency = errors.New("unknown currency")

// ParseCurrency normalizes a stored currency code. Empty input resolves to def.
func ParseCurrency(raw string, def Currency) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return def, nil
	case "USD", "$":
		return CurrencyUSD, nil
	case "IQD", "IQ", "DINAR":
		return CurrencyIQD, nil
	case "MULTI", "MIXED":
		return CurrencyMulti, nil
	}
	return def, fmt.Errorf("%w: %q", ErrUnknownCurrency, raw)
}

// Amounts is a pair of native-currency figures that are never summed together.
type Amounts struct {
	USD decimal.Decimal `json:"usd"`
	IQD decimal.Decimal `json:"iqd"`
}

// Leg returns the figure held in currency c.
func (a Amounts) Leg(c Currency) decimal.Decimal {
	switch c {
	case CurrencyUSD:
		return a.USD
	case CurrencyIQD:
		return a.IQD
	}
	return decimal.Zero
}

// Plus returns a copy with v added to the c leg. Other currencies are ignored.
func (a Amounts) Plus(c Currency, v decimal.Decimal) Amounts {
	switch c {
	case CurrencyUSD:
		a.USD = a.USD.Add(v)
	case CurrencyIQD:
		a.IQD = a.IQD.Add(v)
	}
	return a
}

// Add returns the leg-wise sum of a and b.
func (a Amounts) Add(b Amounts) Amounts {
	return Amounts{USD: a.USD.Add(b.USD), IQD: a.IQD.Add(b.IQD)}
}

// IsZero reports whether both legs are zero.
func (a Amounts) IsZero() bool {
	return a.USD.IsZero() && a.IQD.IsZero()
}

// Money is either a single-currency amount or a multi-currency pair whose
// legs are tracked independently. Build it with Single or Multi.
type Money struct {
	Currency Currency
	legs     Amounts
}

// Single builds a single-currency amount.
func Single(c Currency, amount decimal.Decimal) Money {
	return Money{Currency: c, legs: Amounts{}.Plus(c, amount)}
}

// Multi builds a multi-currency amount.
func Multi(usd, iqd decimal.Decimal) Money {
	return Money{Currency: CurrencyMulti, legs: Amounts{USD: usd, IQD: iqd}}
}

func (m Money) IsMulti() bool {
	return m.Currency == CurrencyMulti
}

// Amount is the single-currency figure. For multi-currency values it is zero.
func (m Money) Amount() decimal.Decimal {
	if m.IsMulti() {
		return decimal.Zero
	}
	return m.legs.Leg(m.Currency)
}

// Leg returns the part of the value denominated in c.
func (m Money) Leg(c Currency) decimal.Decimal {
	return m.legs.Leg(c)
}

// Legs returns both currency legs.
func (m Money) Legs() Amounts {
	return m.legs
}

type moneyJSON struct {
	Currency  Currency         `json:"currency"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	USDAmount *decimal.Decimal `json:"usd_amount,omitempty"`
	IQDAmount *decimal.Decimal `json:"iqd_amount,omitempty"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	out := moneyJSON{Currency: m.Currency}
	if m.IsMulti() {
		usd, iqd := m.legs.USD, m.legs.IQD
		out.USDAmount, out.IQDAmount = &usd, &iqd
	} else {
		amount := m.Amount()
		out.Amount = &amount
	}
	return json.Marshal(out)
}
