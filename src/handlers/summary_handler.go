package handlers

import (
	"net/http"

	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/services"
	"github.com/username/shopledger/backend/src/utils"
)

type SummaryHandler struct {
	financialService services.FinancialService
}

func NewSummaryHandler(service services.FinancialService) *SummaryHandler {
	return &SummaryHandler{financialService: service}
}

func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Info("Handling GetSummary request")

	summary, err := h.financialService.GetSummary(r.Context())
	if err != nil {
		sendServiceError(w, r, err, "retrieving financial summary")
		return
	}
	utils.SendJSON(w, http.StatusOK, summary)
}

// HandleRefreshSummary recomputes the summary now instead of waiting for the
// next scheduled refresh.
func (h *SummaryHandler) HandleRefreshSummary(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Info("Handling RefreshSummary request")

	summary, err := h.financialService.Refresh(r.Context())
	if err != nil {
		sendServiceError(w, r, err, "refreshing financial summary")
		return
	}
	utils.SendJSON(w, http.StatusOK, summary)
}
