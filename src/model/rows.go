package model

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/models"
	"github.com/username/shopledger/backend/src/security/validation"
)

// Row types mirror the legacy tables. Columns that older app versions left
// NULL or filled with mixed types are scanned loosely and normalized below.

type saleRow struct {
	ID           int64           `db:"id"`
	Currency     sql.NullString  `db:"currency"`
	Total        sql.NullFloat64 `db:"total"`
	USDAmount    sql.NullFloat64 `db:"usd_amount"`
	IQDAmount    sql.NullFloat64 `db:"iqd_amount"`
	Discount     sql.NullFloat64 `db:"discount"`
	IsDebt       any             `db:"is_debt"`
	ExchangeRate sql.NullFloat64 `db:"exchange_rate"`
	CreatedAt    sql.NullString  `db:"created_at"`
}

type saleItemRow struct {
	SaleID          int64           `db:"sale_id"`
	Name            sql.NullString  `db:"name"`
	Quantity        sql.NullInt64   `db:"quantity"`
	BuyingPrice     sql.NullFloat64 `db:"buying_price"`
	SellingPrice    sql.NullFloat64 `db:"selling_price"`
	ProductCurrency sql.NullString  `db:"product_currency"`
}

type debtRow struct {
	ID        int64           `db:"id"`
	SaleID    sql.NullInt64   `db:"sale_id"`
	Currency  sql.NullString  `db:"currency"`
	Amount    sql.NullFloat64 `db:"amount"`
	USDAmount sql.NullFloat64 `db:"usd_amount"`
	IQDAmount sql.NullFloat64 `db:"iqd_amount"`
	Paid      any             `db:"paid"`
	PaidAt    sql.NullString  `db:"paid_at"`
}

type obligationRow struct {
	ID         int64           `db:"id"`
	Name       sql.NullString  `db:"name"`
	Currency   sql.NullString  `db:"currency"`
	Amount     sql.NullFloat64 `db:"amount"`
	USDAmount  sql.NullFloat64 `db:"usd_amount"`
	IQDAmount  sql.NullFloat64 `db:"iqd_amount"`
	PaymentUSD sql.NullFloat64 `db:"payment_usd_amount"`
	PaymentIQD sql.NullFloat64 `db:"payment_iqd_amount"`
	PaidAt     sql.NullString  `db:"paid_at"`
}

type stockRow struct {
	ID          int64           `db:"id"`
	Kind        string          `db:"kind"`
	Name        sql.NullString  `db:"name"`
	BuyingPrice sql.NullFloat64 `db:"buying_price"`
	Stock       sql.NullInt64   `db:"stock"`
	Currency    sql.NullString  `db:"currency"`
	Archived    any             `db:"archived"`
}

func decimalOf(v sql.NullFloat64) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v.Float64)
}

// currencyOf resolves a stored code, falling back to the default currency for
// blanks and unknown values.
func currencyOf(v sql.NullString, table string, id int64) models.Currency {
	c, err := models.ParseCurrency(v.String, models.DefaultCurrency)
	if err != nil {
		logger.L.Warn("Unknown currency on record, using default", "table", table, "id", id, "currency", v.String, "default", models.DefaultCurrency)
	}
	return c
}

// moneyOf builds a Money from the two legacy shapes: a single amount with a
// currency, or separate usd_amount/iqd_amount columns. A non-zero leg column
// makes the record multi-currency even when amount is also filled; zero legs
// are what older rows defaulted to and are ignored.
func moneyOf(c models.Currency, amount, usd, iqd sql.NullFloat64) models.Money {
	if c == models.CurrencyMulti || hasLeg(usd) || hasLeg(iqd) {
		return models.Multi(decimalOf(usd), decimalOf(iqd))
	}
	return models.Single(c, decimalOf(amount))
}

func hasLeg(v sql.NullFloat64) bool {
	return v.Valid && v.Float64 != 0
}

func flagOf(v any) bool {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	if b, ok := v.([]byte); ok {
		v = strings.TrimSpace(string(b))
	}
	return cast.ToBool(v)
}

func timeOf(v sql.NullString) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	t, err := cast.ToTimeE(strings.TrimSpace(v.String))
	if err != nil {
		logger.L.Warn("Unparsable timestamp on record", "value", v.String, "error", err)
		return nil
	}
	return &t
}

func nameOf(v sql.NullString) string {
	return validation.CleanName(v.String)
}

func (r saleRow) toSale() models.Sale {
	currency := currencyOf(r.Currency, "sales", r.ID)
	total := moneyOf(currency, r.Total, r.USDAmount, r.IQDAmount)
	if currency == models.CurrencyMulti {
		currency = models.DefaultCurrency
	}

	sale := models.Sale{
		ID:       r.ID,
		Currency: currency,
		Total:    total,
		Discount: decimalOf(r.Discount),
		IsDebt:   flagOf(r.IsDebt),
		Items:    []models.SaleItem{},
	}
	if r.ExchangeRate.Valid && r.ExchangeRate.Float64 > 0 {
		rate := decimal.NewFromFloat(r.ExchangeRate.Float64)
		sale.ExchangeRate = &rate
	}
	if created := timeOf(r.CreatedAt); created != nil {
		sale.CreatedAt = *created
	}
	return sale
}

func (r saleItemRow) toItem() models.SaleItem {
	qty := int64(1)
	if r.Quantity.Valid {
		qty = r.Quantity.Int64
	}
	return models.SaleItem{
		Name:            nameOf(r.Name),
		Quantity:        qty,
		BuyingPrice:     decimalOf(r.BuyingPrice),
		SellingPrice:    decimalOf(r.SellingPrice),
		ProductCurrency: currencyOf(r.ProductCurrency, "sale_items", r.SaleID),
	}
}

func (r debtRow) toDebt() models.Debt {
	currency := currencyOf(r.Currency, "customer_debts", r.ID)
	return models.Debt{
		ID:     r.ID,
		SaleID: r.SaleID.Int64,
		Amount: moneyOf(currency, r.Amount, r.USDAmount, r.IQDAmount),
		PaidAt: timeOf(r.PaidAt),
		Paid:   flagOf(r.Paid),
	}
}

func (r obligationRow) toObligation(kind models.ObligationKind) models.Obligation {
	currency := currencyOf(r.Currency, string(kind), r.ID)
	return models.Obligation{
		ID:      r.ID,
		Kind:    kind,
		Name:    nameOf(r.Name),
		Amount:  moneyOf(currency, r.Amount, r.USDAmount, r.IQDAmount),
		PaidUSD: decimalOf(r.PaymentUSD),
		PaidIQD: decimalOf(r.PaymentIQD),
		PaidAt:  timeOf(r.PaidAt),
	}
}

func (r stockRow) toStockItem() models.StockItem {
	return models.StockItem{
		ID:          r.ID,
		Kind:        models.StockKind(r.Kind),
		Name:        nameOf(r.Name),
		BuyingPrice: decimalOf(r.BuyingPrice),
		Stock:       r.Stock.Int64,
		Currency:    currencyOf(r.Currency, string(r.Kind), r.ID),
		Archived:    flagOf(r.Archived),
	}
}
