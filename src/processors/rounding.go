// backend/src/processors/rounding.go
package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/models"
)

// IQDBill is the smallest dinar note handed out as change.
var IQDBill = decimal.NewFromInt(250)

// RoundIQDToBill rounds to the nearest 250 IQD. Non-positive amounts give 0.
func RoundIQDToBill(amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(IQDBill).Round(0).Mul(IQDBill)
}

// RoundUSD rounds to cents.
func RoundUSD(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// FormatUSD renders a USD amount with at most two decimals and no trailing zeros.
func FormatUSD(amount decimal.Decimal) string {
	return RoundUSD(amount).String()
}

// FormatIQD renders a whole-dinar amount.
func FormatIQD(amount decimal.Decimal) string {
	return amount.Round(0).String()
}

// RoundForCurrency applies the cash rule for c. Only displayed or suggested
// figures go through here; stored totals keep full precision.
func RoundForCurrency(amount decimal.Decimal, c models.Currency) decimal.Decimal {
	switch c {
	case models.CurrencyIQD:
		return RoundIQDToBill(amount)
	case models.CurrencyUSD:
		return RoundUSD(amount)
	}
	return amount
}

// SuggestPayment is the amount to ask the customer for: IQD goes up to the
// next bill, USD to the cent.
func SuggestPayment(total decimal.Decimal, c models.Currency) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	if c == models.CurrencyIQD {
		return total.Div(IQDBill).Ceil().Mul(IQDBill)
	}
	return RoundForCurrency(total, c)
}

// Change is the cash handed back when paid exceeds due, never negative.
func Change(paid, due decimal.Decimal, c models.Currency) decimal.Decimal {
	diff := paid.Sub(due)
	if !diff.IsPositive() {
		return decimal.Zero
	}
	return RoundForCurrency(diff, c)
}

// DiscountedTotal applies discount to subtotal and rounds for cash.
func DiscountedTotal(subtotal, discount decimal.Decimal, c models.Currency) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return RoundForCurrency(total, c)
}
