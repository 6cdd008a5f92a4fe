package handlers

import (
	"errors"
	"net/http"

	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/processors"
	"github.com/username/shopledger/backend/src/security/validation"
	"github.com/username/shopledger/backend/src/services"
	"github.com/username/shopledger/backend/src/utils"
)

// sendServiceError maps service errors onto HTTP statuses. Validation
// messages are shown to the user as-is; anything unexpected is logged and
// reported generically.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, validation.ErrValidationFailed),
		errors.Is(err, processors.ErrInvalidRate),
		errors.Is(err, processors.ErrUnknownPeriod):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrSaleNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	default:
		logger.FromContext(r.Context()).Error("Error "+action, "error", err)
		utils.SendJSONError(w, "Error "+action, http.StatusInternalServerError)
	}
}
