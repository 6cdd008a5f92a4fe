package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/shopledger/backend/src/utils"
	"golang.org/x/time/rate"
)

// RouterDeps are the handlers and HTTP policies the API is built from.
type RouterDeps struct {
	Summary        *SummaryHandler
	Sales          *SalesHandler
	Settings       *SettingsHandler
	Ledger         *LedgerHandler
	Cash           *CashHandler
	Limiter        *rate.Limiter
	AllowedOrigins []string
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	if deps.Limiter != nil {
		r.Use(RateLimitMiddleware(deps.Limiter))
	}
	r.Use(CORSMiddleware(deps.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/summary", func(r chi.Router) {
			r.Get("/", deps.Summary.HandleGetSummary)
			r.Post("/refresh", deps.Summary.HandleRefreshSummary)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/totals", deps.Sales.HandleGetPeriodTotals)
			r.Get("/{id}/profit", deps.Sales.HandleGetSaleProfit)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/exchange-rate", deps.Settings.HandleGetExchangeRate)
			r.Put("/exchange-rate", deps.Settings.HandleUpdateExchangeRate)
		})

		r.Get("/obligations/outstanding", deps.Ledger.HandleGetOutstandingObligations)
		r.Get("/debts/outstanding", deps.Ledger.HandleGetOutstandingCustomerDebts)
		r.Get("/cash/round", deps.Cash.HandleRoundCash)
	})

	return r
}
