package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/services"
	"github.com/username/shopledger/backend/src/utils"
)

type SettingsHandler struct {
	rateService      services.RateService
	financialService services.FinancialService
}

func NewSettingsHandler(rates services.RateService, financial services.FinancialService) *SettingsHandler {
	return &SettingsHandler{rateService: rates, financialService: financial}
}

type exchangeRateResponse struct {
	USDToIQD decimal.Decimal `json:"usd_to_iqd"`
}

// The frontend sends the rate either as a string or as a number.
type exchangeRateRequest struct {
	USDToIQD any `json:"usd_to_iqd"`
}

func (h *SettingsHandler) HandleGetExchangeRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rateService.Current(r.Context())
	if err != nil {
		sendServiceError(w, r, err, "retrieving exchange rate")
		return
	}
	utils.SendJSON(w, http.StatusOK, exchangeRateResponse{USDToIQD: rate.USDToIQD()})
}

func (h *SettingsHandler) HandleUpdateExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req exchangeRateRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1024)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	raw, err := cast.ToStringE(req.USDToIQD)
	if err != nil {
		utils.SendJSONError(w, "usd_to_iqd must be a number", http.StatusBadRequest)
		return
	}

	logger.FromContext(r.Context()).Info("Handling UpdateExchangeRate request", "usdToIQD", raw)

	rate, err := h.rateService.SetRate(r.Context(), raw)
	if err != nil {
		sendServiceError(w, r, err, "updating exchange rate")
		return
	}
	h.financialService.InvalidateCache()

	utils.SendJSON(w, http.StatusOK, exchangeRateResponse{USDToIQD: rate.USDToIQD()})
}
