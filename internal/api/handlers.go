package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/huangsam/mindscore/core"
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the assessment endpoints.
type Handler struct {
	cfg *contract.Config
	eng *core.Engine
	mgr contract.StoreManager
}

// NewHandler creates a handler over the engine and the optional history store.
func NewHandler(cfg *contract.Config, eng *core.Engine, mgr contract.StoreManager) *Handler {
	return &Handler{cfg: cfg, eng: eng, mgr: mgr}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeBadRequest(w, fmt.Sprintf("read body: %v", err))
		return nil, false
	}
	return data, true
}

// limitParam reads ?limit=, falling back to the configured limit.
func (h *Handler) limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.cfg.Limit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer, got %q", raw)
	}
	return n, nil
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"instruments": h.eng.Registry().Len(),
	})
}

// ListInstruments handles GET /api/v1/instruments
func (h *Handler) ListInstruments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.eng.Registry().Definitions())
}

// GetInstrument handles GET /api/v1/instruments/{key}
func (h *Handler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	def, err := h.eng.Registry().Get(mux.Vars(r)["key"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// Score handles POST /api/v1/score
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	req, err := contract.DecodeScoreRequest(data)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := service.Score(h.eng, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Trend handles POST /api/v1/trend
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	req, err := contract.DecodeTrendRequest(data)
	if err != nil {
		writeError(w, err)
		return
	}
	trend, err := service.Trend(h.eng, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

// Insight handles POST /api/v1/insight
func (h *Handler) Insight(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	req, err := contract.DecodeInsightRequest(data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service.Insight(h.eng, req))
}

// RecordResult handles POST /api/v1/users/{userID}/results
func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	req, err := contract.DecodeScoreRequest(data)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := service.ScoreAndRecord(r.Context(), h.eng, h.mgr, mux.Vars(r)["userID"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// UserTrend handles GET /api/v1/users/{userID}/instruments/{key}/trend
func (h *Handler) UserTrend(w http.ResponseWriter, r *http.Request) {
	limit, err := h.limitParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	vars := mux.Vars(r)
	trend, err := service.StoredTrend(r.Context(), h.eng, h.mgr, vars["userID"], vars["key"], limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

// UserInsight handles GET /api/v1/users/{userID}/insight
func (h *Handler) UserInsight(w http.ResponseWriter, r *http.Request) {
	limit, err := h.limitParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	insight, err := service.StoredInsight(r.Context(), h.eng, h.mgr, mux.Vars(r)["userID"], limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insight)
}
