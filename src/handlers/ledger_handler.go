package handlers

import (
	"net/http"

	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/security/validation"
	"github.com/username/shopledger/backend/src/services"
	"github.com/username/shopledger/backend/src/utils"
)

// LedgerHandler serves what is still owed: company debts, personal loans and
// unpaid customer debts.
type LedgerHandler struct {
	financialService services.FinancialService
}

func NewLedgerHandler(service services.FinancialService) *LedgerHandler {
	return &LedgerHandler{financialService: service}
}

func (h *LedgerHandler) HandleGetOutstandingObligations(w http.ResponseWriter, r *http.Request) {
	kind, err := validation.ValidateObligationKind(r.URL.Query().Get("kind"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.FromContext(r.Context()).Info("Handling GetOutstandingObligations request", "kind", kind)

	report, err := h.financialService.GetOutstandingObligations(r.Context(), kind)
	if err != nil {
		sendServiceError(w, r, err, "retrieving outstanding obligations")
		return
	}
	utils.SendJSON(w, http.StatusOK, report)
}

func (h *LedgerHandler) HandleGetOutstandingCustomerDebts(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Info("Handling GetOutstandingCustomerDebts request")

	report, err := h.financialService.GetOutstandingCustomerDebts(r.Context())
	if err != nil {
		sendServiceError(w, r, err, "retrieving customer debts")
		return
	}
	utils.SendJSON(w, http.StatusOK, report)
}
