package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/shopledger/backend/src/database"
	"github.com/username/shopledger/backend/src/model"
	"github.com/username/shopledger/backend/src/models"
	"github.com/username/shopledger/backend/src/processors"
	"github.com/username/shopledger/backend/src/security/validation"
	"github.com/username/shopledger/backend/src/services"
	"golang.org/x/time/rate"
)

type testAPI struct {
	handler http.Handler
	conn    *sql.DB
}

func newTestAPI(t *testing.T, limiter *rate.Limiter) *testAPI {
	t.Helper()
	conn, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, database.Migrate(conn))

	store := model.NewStore(conn)
	rates := services.NewRateService(store, processors.MustRate(1440), cache.New(cache.NoExpiration, time.Minute),
		validation.NewRateBounds(100, 100000))
	profit := processors.NewProfitProcessor()
	debts := processors.NewDebtProcessor()
	financial := services.NewFinancialService(
		store,
		rates,
		profit,
		processors.NewSalesProcessor(profit),
		debts,
		processors.NewNetWorthProcessor(debts),
		cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval),
		time.UTC,
	)

	return &testAPI{
		conn: conn,
		handler: NewRouter(RouterDeps{
			Summary:        NewSummaryHandler(financial),
			Sales:          NewSalesHandler(financial, rates),
			Settings:       NewSettingsHandler(rates, financial),
			Ledger:         NewLedgerHandler(financial),
			Cash:           NewCashHandler(),
			Limiter:        limiter,
			AllowedOrigins: []string{"http://localhost:5173"},
		}),
	}
}

func (a *testAPI) exec(t *testing.T, query string, args ...any) {
	t.Helper()
	_, err := a.conn.Exec(query, args...)
	require.NoError(t, err)
}

func (a *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestHealthSetsRequestID(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSummaryFollowsExchangeRateChange(t *testing.T) {
	api := newTestAPI(t, nil)
	api.exec(t, `UPDATE balances SET usd_balance = 100, iqd_balance = 144000 WHERE id = 1`)

	rec := api.do(http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody[models.FinancialSummary](t, rec)
	assertDec(t, "1440", summary.ExchangeRate)
	assertDec(t, "200", summary.TotalBalanceUSD)
	assertDec(t, "200", summary.NetWorthUSD)

	rec = api.do(http.MethodPut, "/api/settings/exchange-rate", `{"usd_to_iqd": 1600}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"usd_to_iqd":"1600"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/settings/exchange-rate", "")
	assert.JSONEq(t, `{"usd_to_iqd":"1600"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/summary", "")
	summary = decodeBody[models.FinancialSummary](t, rec)
	assertDec(t, "190", summary.TotalBalanceUSD)
}

func TestUpdateExchangeRateRejectsBadInput(t *testing.T) {
	api := newTestAPI(t, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", `rate=1500`, http.StatusBadRequest},
		{"text", `{"usd_to_iqd": "abc"}`, http.StatusBadRequest},
		{"zero", `{"usd_to_iqd": 0}`, http.StatusBadRequest},
		{"out of range", `{"usd_to_iqd": "50"}`, http.StatusBadRequest},
		{"object", `{"usd_to_iqd": {"v": 1}}`, http.StatusBadRequest},
		{"string with separator", `{"usd_to_iqd": "1,510"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPut, "/api/settings/exchange-rate", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := api.do(http.MethodGet, "/api/settings/exchange-rate", "")
	assert.JSONEq(t, `{"usd_to_iqd":"1510"}`, rec.Body.String())
}

func TestPeriodTotalsEndpoint(t *testing.T) {
	api := newTestAPI(t, nil)
	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	api.exec(t, `INSERT INTO sales (id, currency, total, discount, is_debt, created_at) VALUES (1, 'USD', 100, 0, 0, ?)`, now)
	api.exec(t, `INSERT INTO sale_items (sale_id, name, quantity, buying_price, selling_price, product_currency)
		VALUES (1, 'Charger', 2, 20, 50, 'USD')`)
	api.exec(t, `INSERT INTO sales (id, currency, total, discount, is_debt, created_at) VALUES (2, 'IQD', 72000, 0, 0, ?)`, now)
	api.exec(t, `INSERT INTO sale_items (sale_id, name, quantity, buying_price, selling_price, product_currency)
		VALUES (2, 'Case', 1, 36000, 72000, 'IQD')`)

	rec := api.do(http.MethodGet, "/api/sales/totals?period=today", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		models.PeriodTotals
		RevenueUSDEquivalent decimal.Decimal `json:"revenue_usd_equivalent"`
		ProfitUSDEquivalent  decimal.Decimal `json:"profit_usd_equivalent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "today", resp.Period)
	assert.Equal(t, 2, resp.SaleCount)
	assertDec(t, "100", resp.Revenue.USD)
	assertDec(t, "72000", resp.Revenue.IQD)
	assertDec(t, "60", resp.Profit.USD)
	assertDec(t, "36000", resp.Profit.IQD)
	assertDec(t, "150", resp.RevenueUSDEquivalent)
	assertDec(t, "85", resp.ProfitUSDEquivalent)

	rec = api.do(http.MethodGet, "/api/sales/totals?period=year", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaleProfitEndpoint(t *testing.T) {
	api := newTestAPI(t, nil)
	api.exec(t, `INSERT INTO sales (id, currency, total, discount, is_debt, exchange_rate, created_at)
		VALUES (7, 'USD', 95, 5, 0, 1500, '2026-10-14 10:00:00')`)
	api.exec(t, `INSERT INTO sale_items (sale_id, name, quantity, buying_price, selling_price, product_currency)
		VALUES (7, 'Headphones', 1, 90000, 150000, 'IQD')`)

	rec := api.do(http.MethodGet, "/api/sales/7/profit", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profit := decodeBody[models.SaleProfit](t, rec)
	assert.Equal(t, int64(7), profit.SaleID)
	assert.True(t, profit.Realized)
	// 150000 and 90000 IQD at the sale's own 1500 rate are 100 and 60 USD.
	assertDec(t, "35", profit.Profit)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/sales/99/profit", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/sales/abc/profit", "").Code)
}

func TestOutstandingEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	api.exec(t, `INSERT INTO company_debts (id, company_name, currency, usd_amount, iqd_amount, payment_usd_amount, payment_iqd_amount)
		VALUES (1, 'Supplier', 'MULTI', 200, 50000, 200, 0)`)
	api.exec(t, `INSERT INTO personal_loans (id, person_name, currency, amount, payment_usd_amount, paid_at)
		VALUES (1, 'Omar', 'USD', 300, 0, '2026-10-01 12:00:00')`)
	api.exec(t, `INSERT INTO sales (id, currency, total, discount, is_debt, created_at) VALUES (3, 'IQD', 144000, 0, 1, '2026-10-14 10:00:00')`)
	api.exec(t, `INSERT INTO customer_debts (sale_id, customer_name, amount, currency, paid) VALUES (3, 'Sara', 144000, 'IQD', 'false')`)

	rec := api.do(http.MethodGet, "/api/obligations/outstanding?kind=company_debt", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decodeBody[models.OutstandingReport](t, rec)
	require.Len(t, report.Records, 1)
	assertDec(t, "0", report.Total.USD)
	assertDec(t, "50000", report.Total.IQD)

	rec = api.do(http.MethodGet, "/api/obligations/outstanding?kind=personal_loan", "")
	report = decodeBody[models.OutstandingReport](t, rec)
	assert.Empty(t, report.Records)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/obligations/outstanding", "").Code)

	rec = api.do(http.MethodGet, "/api/debts/outstanding", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report = decodeBody[models.OutstandingReport](t, rec)
	require.Len(t, report.Records, 1)
	assertDec(t, "144000", report.Total.IQD)
	assertDec(t, "100", report.TotalUSD)
}

func TestRoundCashEndpoint(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodGet, "/api/cash/round?amount=1,100&currency=IQD&paid=5000", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"currency": "IQD",
		"amount": "1100",
		"rounded": "1000",
		"suggested_payment": "1250",
		"display": "1000",
		"paid": "5000",
		"change": "4000"
	}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/cash/round?amount=12.345&currency=usd", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"currency": "USD",
		"amount": "12.345",
		"rounded": "12.35",
		"suggested_payment": "12.35",
		"display": "12.35"
	}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/cash/round?amount=-5&currency=USD", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/cash/round?amount=5&currency=EUR", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/cash/round?amount=5&currency=USD&paid=x", "").Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	api := newTestAPI(t, rate.NewLimiter(rate.Every(time.Hour), 1))

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, api.do(http.MethodGet, "/api/health", "").Code)
}

func TestCORSMiddleware(t *testing.T) {
	api := newTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/summary", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
