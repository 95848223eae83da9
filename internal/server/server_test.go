// internal/server/server_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/cache"
	"github.com/propscout/dealengine/internal/domain"
	"github.com/propscout/dealengine/internal/engine/score"
	"github.com/propscout/dealengine/internal/logger"
	"github.com/propscout/dealengine/internal/storage"
	"github.com/propscout/dealengine/internal/storage/models"
)

func testHandler(t *testing.T, c cache.VerdictCache, store storage.Storage) *Handler {
	t.Helper()
	log := &logger.Logger{Logger: zap.NewNop()}
	return NewHandler(domain.DefaultParams(), score.HeuristicSignals{}, c, store, log)
}

func serverProperty() map[string]any {
	return map[string]any{
		"list_price":         285000,
		"bedrooms":           3,
		"bathrooms":          2,
		"square_feet":        1650,
		"monthly_rent":       2800,
		"property_taxes":     5700,
		"insurance":          2850,
		"arv":                425000,
		"average_daily_rate": 185,
		"occupancy_rate":     0.65,
		"days_on_market":     75,
		"listing_status":     "price_drop",
		"market_temperature": "cool",
		"seller_motivation":  []string{"estate_sale"},
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAnalyze_LongTermRental(t *testing.T) {
	h := testHandler(t, cache.NewMockCache(), nil)

	rec := postJSON(t, h.Analyze, map[string]any{
		"purchase_price": 285000,
		"strategy_id":    "long_term_rental",
		"property":       serverProperty(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "long_term_rental", body["strategy"])
	for _, key := range []string{
		"purchase_price", "monthly_payment", "loan_amount", "down_payment",
		"monthly_cash_flow", "annual_cash_flow", "noi", "cap_rate",
		"cash_on_cash_return", "dscr", "total_cash_invested",
		"gross_monthly_rent", "meets_one_percent_rule",
	} {
		assert.Contains(t, body, key, "missing response field %s", key)
	}

	// List price present, so the ladder and score ride along.
	assert.Contains(t, body, "breakeven_price")
	assert.Contains(t, body, "deal_score")
	t.Logf("analyze response: cash_flow=%v score=%v", body["monthly_cash_flow"], body["deal_score"])
}

func TestAnalyze_CamelCaseAccepted(t *testing.T) {
	h := testHandler(t, cache.NewMockCache(), nil)

	rec := postJSON(t, h.Analyze, map[string]any{
		"purchasePrice": 285000,
		"strategyId":    "long_term_rental",
		"property": map[string]any{
			"listPrice":     285000,
			"monthlyRent":   2800,
			"propertyTaxes": 5700,
			"insurance":     2850,
			"bedrooms":      3,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.InDelta(t, 285000, body["purchase_price"], 0.01)
}

func TestAnalyze_UnknownStrategy(t *testing.T) {
	h := testHandler(t, cache.NewMockCache(), nil)

	rec := postJSON(t, h.Analyze, map[string]any{
		"purchase_price": 285000,
		"strategy_id":    "timeshare",
		"property":       serverProperty(),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "strategy_id", body["field"])
}

func TestAnalyze_MissingRentFailsFast(t *testing.T) {
	h := testHandler(t, cache.NewMockCache(), nil)

	prop := serverProperty()
	prop["monthly_rent"] = 0
	rec := postJSON(t, h.Analyze, map[string]any{
		"purchase_price": 285000,
		"strategy_id":    "long_term_rental",
		"property":       prop,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "monthly_rent", body["field"])
	assert.Equal(t, "long_term_rental", body["strategy"])
}

func TestVerdict_FullResponse(t *testing.T) {
	h := testHandler(t, cache.NewMockCache(), nil)

	rec := postJSON(t, h.Verdict, serverProperty())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	for _, key := range []string{
		"deal_score", "grade", "deal_gap_score", "return_quality_score",
		"market_alignment_score", "deal_probability_score",
		"opportunity_factors", "return_factors", "primary_strategy",
		"strategies", "purchase_price", "breakeven_price", "list_price",
	} {
		assert.Contains(t, body, key, "missing verdict field %s", key)
	}

	strategies, ok := body["strategies"].([]any)
	require.True(t, ok)
	assert.Len(t, strategies, 6)

	scoreVal, ok := body["deal_score"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, scoreVal, 0.0)
	assert.Less(t, scoreVal, 100.0)

	factors, ok := body["opportunity_factors"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, factors, "price drop + DOM 75 + motivation should surface factors")
	t.Logf("verdict: score=%.1f grade=%v factors=%v", scoreVal, body["grade"], factors)
}

func TestVerdict_MissingListPrice(t *testing.T) {
	h := testHandler(t, cache.NewMockCache(), nil)

	rec := postJSON(t, h.Verdict, map[string]any{"monthly_rent": 2800})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "list_price", body["field"])
}

func TestVerdict_CacheRoundTrip(t *testing.T) {
	mock := cache.NewMockCache()
	h := testHandler(t, mock, nil)

	first := postJSON(t, h.Verdict, serverProperty())
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 0, mock.Hits)
	assert.Equal(t, 1, mock.Sets)

	second := postJSON(t, h.Verdict, serverProperty())
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, mock.Hits, "identical request should hit the cache")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestVerdict_PersistsRecord(t *testing.T) {
	store := storage.NewMemoryStorage()
	h := testHandler(t, cache.NewMockCache(), store)

	rec := postJSON(t, h.Verdict, serverProperty())
	require.Equal(t, http.StatusOK, rec.Code)

	// The save is fire-and-forget; give it a moment.
	require.Eventually(t, func() bool {
		records, err := store.ListVerdicts(context.Background(), 10, 0)
		return err == nil && len(records) == 1
	}, 2*time.Second, 10*time.Millisecond)

	records, err := store.ListVerdicts(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.InDelta(t, 285000, records[0].ListPrice, 0.01)
	assert.NotEmpty(t, records[0].PrimaryStrategy)
	assert.NotEmpty(t, records[0].VerdictJSON)
}

func TestVerdictByID(t *testing.T) {
	store := storage.NewMemoryStorage()
	h := testHandler(t, cache.NewMockCache(), store)

	rec := postJSON(t, h.Verdict, serverProperty())
	require.Equal(t, http.StatusOK, rec.Code)

	var saved []*models.VerdictRecord
	require.Eventually(t, func() bool {
		records, err := store.ListVerdicts(context.Background(), 10, 0)
		saved = records
		return err == nil && len(records) == 1
	}, 2*time.Second, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/verdicts/"+saved[0].ID, nil)
	req.SetPathValue("id", saved[0].ID)
	got := httptest.NewRecorder()
	h.VerdictByID(got, req)

	require.Equal(t, http.StatusOK, got.Code)
	body := decodeBody(t, got)
	assert.Equal(t, saved[0].ID, body["ID"])
}

func TestVerdictByID_NotFound(t *testing.T) {
	h := testHandler(t, cache.NewMockCache(), storage.NewMemoryStorage())

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verdicts/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.VerdictByID(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerdictByID_RejectsMalformedID(t *testing.T) {
	h := testHandler(t, cache.NewMockCache(), storage.NewMemoryStorage())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/verdicts/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()
	h.VerdictByID(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := testHandler(t, cache.NewMockCache(), nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestRequestLogMiddleware_AssignsRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	RequestLogMiddleware(zap.NewNop())(inner).ServeHTTP(rec, req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"), "bucket exhausted")
	assert.True(t, limiter.Allow("10.0.0.2"), "buckets are per-IP")
}
