package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/models"
	"github.com/username/shopledger/backend/src/processors"
	"github.com/username/shopledger/backend/src/security/validation"
	"github.com/username/shopledger/backend/src/services"
	"github.com/username/shopledger/backend/src/utils"
)

type SalesHandler struct {
	financialService services.FinancialService
	rateService      services.RateService
}

func NewSalesHandler(financial services.FinancialService, rates services.RateService) *SalesHandler {
	return &SalesHandler{financialService: financial, rateService: rates}
}

// periodTotalsResponse adds USD equivalents computed from the finished
// per-currency totals.
type periodTotalsResponse struct {
	*models.PeriodTotals
	RevenueUSDEquivalent decimal.Decimal `json:"revenue_usd_equivalent"`
	ProfitUSDEquivalent  decimal.Decimal `json:"profit_usd_equivalent"`
}

func (h *SalesHandler) HandleGetPeriodTotals(w http.ResponseWriter, r *http.Request) {
	period, err := processors.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		utils.SendJSONError(w, "period must be one of today, week, month", http.StatusBadRequest)
		return
	}

	logger.FromContext(r.Context()).Info("Handling GetPeriodTotals request", "period", period)

	totals, err := h.financialService.GetPeriodTotals(r.Context(), period)
	if err != nil {
		sendServiceError(w, r, err, "retrieving sales totals")
		return
	}
	rate, err := h.rateService.Current(r.Context())
	if err != nil {
		sendServiceError(w, r, err, "retrieving exchange rate")
		return
	}

	utils.SendJSON(w, http.StatusOK, periodTotalsResponse{
		PeriodTotals:         totals,
		RevenueUSDEquivalent: rate.AmountsToUSD(totals.Revenue),
		ProfitUSDEquivalent:  rate.AmountsToUSD(totals.Profit),
	})
}

func (h *SalesHandler) HandleGetSaleProfit(w http.ResponseWriter, r *http.Request) {
	saleID, err := validation.ParseID(chi.URLParam(r, "id"), "sale id")
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.FromContext(r.Context()).Info("Handling GetSaleProfit request", "saleID", saleID)

	profit, err := h.financialService.GetSaleProfit(r.Context(), saleID)
	if err != nil {
		sendServiceError(w, r, err, "calculating sale profit")
		return
	}
	utils.SendJSON(w, http.StatusOK, profit)
}
