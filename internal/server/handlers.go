// internal/server/handlers.go
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/cache"
	"github.com/propscout/dealengine/internal/domain"
	"github.com/propscout/dealengine/internal/engine/score"
	"github.com/propscout/dealengine/internal/engine/solver"
	"github.com/propscout/dealengine/internal/engine/strategy"
	"github.com/propscout/dealengine/internal/engine/verdict"
	"github.com/propscout/dealengine/internal/logger"
	"github.com/propscout/dealengine/internal/storage"
	"github.com/propscout/dealengine/internal/storage/models"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Handler serves the engine over HTTP.
type Handler struct {
	params  domain.EngineParams
	signals score.SignalScorer
	solver  *solver.Solver
	scorer  *score.Scorer
	cache   cache.VerdictCache
	store   storage.Storage
	log     *logger.Logger
}

func NewHandler(params domain.EngineParams, signals score.SignalScorer, c cache.VerdictCache, store storage.Storage, log *logger.Logger) *Handler {
	if c == nil {
		c = cache.Noop{}
	}
	return &Handler{
		params:  params,
		signals: signals,
		solver:  solver.New(params, log.WithComponent("solver")),
		scorer:  score.New(params, signals, log.WithComponent("scorer")),
		cache:   c,
		store:   store,
		log:     log,
	}
}

// analyzeRequest is the per-strategy analysis request. Keys are accepted in
// snake_case or camelCase.
type analyzeRequest struct {
	PurchasePrice float64                     `json:"purchase_price"`
	StrategyID    domain.StrategyID           `json:"strategy_id"`
	Assumptions   *domain.AssumptionOverrides `json:"assumptions"`
	Property      domain.PropertySnapshot     `json:"property"`
}

// Analyze runs one strategy at one price and returns the flat, stable field
// set clients bind to.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		h.writeError(w, "analyze", start, http.StatusBadRequest, errors.New("unreadable request body"))
		return
	}

	var req analyzeRequest
	if err := domain.DecodeLoose(body, &req); err != nil {
		h.writeError(w, "analyze", start, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if !req.StrategyID.Valid() {
		h.writeError(w, "analyze", start, http.StatusBadRequest,
			domain.NewInputError(req.StrategyID, "strategy_id", "unknown strategy"))
		return
	}

	calc, err := strategy.Get(req.StrategyID, h.params, h.log.WithComponent("strategy"))
	if err != nil {
		h.writeError(w, "analyze", start, http.StatusBadRequest, err)
		return
	}

	assumptions := domain.Resolve(req.Assumptions, h.params.Defaults)
	result, err := calc.Calculate(req.PurchasePrice, assumptions, req.Property)
	if err != nil {
		h.log.WithRequest(RequestID(r.Context())).Debug("Analysis rejected", zap.Error(err))
		h.writeError(w, "analyze", start, http.StatusUnprocessableEntity, err)
		return
	}

	response := flattenResult(&result)

	// The price ladder and score piggyback on the same request when the
	// listing carries a list price; their absence never fails the analysis.
	if req.Property.ListPrice > 0 {
		if targets, err := h.solver.Solve(calc, assumptions, req.Property); err == nil {
			response["breakeven_price"] = targets.BreakevenPrice
			response["target_buy_price"] = targets.TargetBuyPrice
			response["wholesale_price"] = targets.WholesalePrice
			response["price_achievable"] = targets.Achievable

			ds := h.scorer.Score(score.Inputs{Property: req.Property, Best: &result, Targets: &targets})
			response["deal_score"] = ds.Score
			response["deal_grade"] = ds.Grade
		}
	}

	h.writeJSON(w, "analyze", start, http.StatusOK, response)
}

// verdictRequest is the top-level verdict request; only list_price is
// required.
type verdictRequest struct {
	domain.PropertySnapshot
	Assumptions *domain.AssumptionOverrides `json:"assumptions"`
}

// Verdict runs all strategies, solves the price ladders, scores the deal
// and returns the combined verdict. Responses are cached by request hash.
func (h *Handler) Verdict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		h.writeError(w, "verdict", start, http.StatusBadRequest, errors.New("unreadable request body"))
		return
	}

	var req verdictRequest
	if err := domain.DecodeLoose(body, &req); err != nil {
		h.writeError(w, "verdict", start, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.ListPrice <= 0 {
		h.writeError(w, "verdict", start, http.StatusBadRequest,
			domain.NewInputError("", "list_price", "required and must be positive"))
		return
	}

	key := requestKey(req)
	if cached, ok := h.cache.Get(r.Context(), key); ok {
		cacheHits.WithLabelValues("hit").Inc()
		h.writeRaw(w, "verdict", start, cached)
		return
	}
	cacheHits.WithLabelValues("miss").Inc()

	requestID := RequestID(r.Context())
	assumptions := domain.Resolve(req.Assumptions, h.params.Defaults)

	// Each computed verdict gets its own correlation id so engine log lines
	// from one analysis can be stitched back together.
	orch := verdict.New(h.params, h.signals, h.log.WithOperation("analyze"))
	v, err := orch.Analyze(r.Context(), req.PropertySnapshot, assumptions)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		h.writeError(w, "verdict", start, status, err)
		return
	}

	verdictScore.Observe(v.Score.Score)
	response := buildVerdictResponse(&v, h.params)

	payload, err := json.Marshal(response)
	if err != nil {
		h.writeError(w, "verdict", start, http.StatusInternalServerError, errors.New("response encoding failed"))
		return
	}

	if err := h.cache.Set(r.Context(), key, payload); err != nil {
		h.log.WithRequest(requestID).Warn("Cache write failed", zap.Error(err))
	}
	h.persistVerdict(requestID, body, &v, payload)

	h.writeRaw(w, "verdict", start, payload)
}

// VerdictByID returns one persisted verdict record.
func (h *Handler) VerdictByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		h.writeError(w, "verdict_by_id", start, http.StatusNotFound, errors.New("verdict not found"))
		return
	}

	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		h.writeError(w, "verdict_by_id", start, http.StatusBadRequest, errors.New("invalid verdict id"))
		return
	}

	record, err := h.store.GetVerdict(r.Context(), id)
	if err != nil {
		h.writeError(w, "verdict_by_id", start, http.StatusNotFound, errors.New("verdict not found"))
		return
	}
	h.writeJSON(w, "verdict_by_id", start, http.StatusOK, record)
}

// History returns recently computed verdicts.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		h.writeJSON(w, "history", start, http.StatusOK, []any{})
		return
	}

	records, err := h.store.ListVerdicts(r.Context(), 50, 0)
	if err != nil {
		h.writeError(w, "history", start, http.StatusInternalServerError, errors.New("history unavailable"))
		return
	}
	h.writeJSON(w, "history", start, http.StatusOK, records)
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":         "ok",
		"engine_version": h.params.Version,
	})
}

// persistVerdict saves the verdict best-effort; a storage failure is logged
// and never surfaced to the caller.
func (h *Handler) persistVerdict(requestID string, requestBody []byte, v *domain.Verdict, payload []byte) {
	if h.store == nil {
		return
	}
	record := &models.VerdictRecord{
		ID:              uuid.New().String(),
		ListPrice:       v.Property.ListPrice,
		PrimaryStrategy: string(v.Primary),
		Score:           v.Score.Score,
		Grade:           v.Score.Grade,
		BreakevenPrice:  v.Targets.BreakevenPrice,
		TargetBuyPrice:  v.Targets.TargetBuyPrice,
		Partial:         v.Partial,
		RequestJSON:     string(requestBody),
		VerdictJSON:     string(payload),
		EngineVersion:   h.params.Version,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.store.SaveVerdict(ctx, record); err != nil {
			h.log.LogError("Failed to save verdict record", err,
				zap.String("request_id", requestID),
				zap.String("verdict_id", record.ID))
		}
	}()
}

// requestKey hashes the canonicalized request so equivalent snake/camel
// requests share a cache entry.
func requestKey(req verdictRequest) string {
	canonical, err := json.Marshal(req)
	if err != nil {
		return uuid.New().String() // uncacheable
	}
	sum := sha256.Sum256(canonical)
	return "verdict:" + hex.EncodeToString(sum[:])
}

func (h *Handler) writeJSON(w http.ResponseWriter, endpoint string, start time.Time, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
	recordRequest(endpoint, http.StatusText(status), start)
}

func (h *Handler) writeRaw(w http.ResponseWriter, endpoint string, start time.Time, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
	recordRequest(endpoint, http.StatusText(http.StatusOK), start)
}

// writeError renders the error taxonomy as {error, field?, strategy?}.
func (h *Handler) writeError(w http.ResponseWriter, endpoint string, start time.Time, status int, err error) {
	body := map[string]string{"error": err.Error()}

	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		body["field"] = inputErr.Field
		if inputErr.Strategy != "" {
			body["strategy"] = string(inputErr.Strategy)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
	recordRequest(endpoint, http.StatusText(status), start)
}
