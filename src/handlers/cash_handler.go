package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/models"
	"github.com/username/shopledger/backend/src/processors"
	"github.com/username/shopledger/backend/src/security/validation"
	"github.com/username/shopledger/backend/src/utils"
)

// CashHandler exposes the checkout rounding rules so the till shows the same
// figures the reports use.
type CashHandler struct{}

func NewCashHandler() *CashHandler {
	return &CashHandler{}
}

type cashRoundResponse struct {
	Currency  models.Currency  `json:"currency"`
	Amount    decimal.Decimal  `json:"amount"`
	Rounded   decimal.Decimal  `json:"rounded"`
	Suggested decimal.Decimal  `json:"suggested_payment"`
	Display   string           `json:"display"`
	Paid      *decimal.Decimal `json:"paid,omitempty"`
	Change    *decimal.Decimal `json:"change,omitempty"`
}

// HandleRoundCash handles GET /cash/round?amount=&currency=[&paid=].
func (h *CashHandler) HandleRoundCash(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := validation.ParseAmount(q.Get("amount"), "amount")
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	currency, err := validation.ValidateCurrencyCode(q.Get("currency"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := cashRoundResponse{
		Currency:  currency,
		Amount:    amount,
		Rounded:   processors.RoundForCurrency(amount, currency),
		Suggested: processors.SuggestPayment(amount, currency),
	}
	if currency == models.CurrencyUSD {
		resp.Display = processors.FormatUSD(amount)
	} else {
		resp.Display = processors.FormatIQD(resp.Rounded)
	}

	if rawPaid := q.Get("paid"); rawPaid != "" {
		paid, err := validation.ParseAmount(rawPaid, "paid")
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		change := processors.Change(paid, amount, currency)
		resp.Paid, resp.Change = &paid, &change
	}

	utils.SendJSON(w, http.StatusOK, resp)
}
