// backend/src/models/shop.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one line of a sale. Prices are in the product's own currency.
type SaleItem struct {
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	BuyingPrice     decimal.Decimal `json:"buying_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	ProductCurrency Currency        `json:"product_currency"`
}

// Sale is a completed checkout. Currency is the pricing currency (USD or IQD);
// Total carries what was actually collected, which may be split across both.
type Sale struct {
	ID       int64           `json:"id"`
	Currency Currency        `json:"currency"`
	Total    Money           `json:"total"`
	Discount decimal.Decimal `json:"discount"`
	IsDebt   bool            `json:"is_debt"`
	Items    []SaleItem      `json:"items"`
	// ExchangeRate is the USD->IQD rate recorded at sale time, if any.
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Debt is the customer debt record backing a debt sale.
type Debt struct {
	ID     int64      `json:"id"`
	SaleID int64      `json:"sale_id"`
	Amount Money      `json:"amount"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
	Paid   bool       `json:"paid"`
}

// IsPaid is true once the debt has a payment date or the legacy paid flag.
func (d Debt) IsPaid() bool {
	return d.PaidAt != nil || d.Paid
}

type ObligationKind string

const (
	ObligationCompanyDebt  ObligationKind = "company_debt"
	ObligationPersonalLoan ObligationKind = "personal_loan"
)

// Obligation is either money the shop owes a supplier (company debt) or
// money lent out to a person (personal loan).
type Obligation struct {
	ID      int64           `json:"id"`
	Kind    ObligationKind  `json:"kind"`
	Name    string          `json:"name"`
	Amount  Money           `json:"amount"`
	PaidUSD decimal.Decimal `json:"paid_usd"`
	PaidIQD decimal.Decimal `json:"paid_iqd"`
	PaidAt  *time.Time      `json:"paid_at,omitempty"`
}

type StockKind string

const (
	StockProduct   StockKind = "product"
	StockAccessory StockKind = "accessory"
)

type StockItem struct {
	ID          int64           `json:"id"`
	Kind        StockKind       `json:"kind"`
	Name        string          `json:"name"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
	Stock       int64           `json:"stock"`
	Currency    Currency        `json:"currency"`
	Archived    bool            `json:"archived"`
}

// Balances is the cash on hand per currency.
type Balances struct {
	USD decimal.Decimal `json:"usd"`
	IQD decimal.Decimal `json:"iqd"`
}
