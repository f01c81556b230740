package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wonny/riskdash/internal/pipeline"
	"github.com/wonny/riskdash/internal/simulation"
	"github.com/wonny/riskdash/pkg/logger"
)

// maxPriceFileBytes 업로드 가능한 가격 파일 최대 크기
const maxPriceFileBytes = 32 << 20

// SimulationHandler handles the dashboard API endpoints
// ⭐ SSOT: 시뮬레이션 API 핸들러는 이 구조체에서만
type SimulationHandler struct {
	session *pipeline.Session
	logger  *logger.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(session *pipeline.Session, log *logger.Logger) *SimulationHandler {
	return &SimulationHandler{
		session: session,
		logger:  log,
	}
}

// GetStatus returns the session state
// GET /api/status
func (h *SimulationHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.Status())
}

// PricesResponse represents the result of a price upload
type PricesResponse struct {
	Count   int      `json:"count"`
	Skipped int      `json:"skipped"`
	Current *float64 `json:"current_price,omitempty"`
}

// UploadPrices parses a CSV body and replaces the session price series
// POST /api/prices
func (h *SimulationHandler) UploadPrices(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPriceFileBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Price file too large")
			return
		}
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	report := h.session.LoadPrices(string(body))

	resp := PricesResponse{
		Count:   len(report.Series),
		Skipped: report.Skipped(),
	}
	if last, ok := report.Series.Last(); ok {
		resp.Current = &last
	}

	respondJSON(w, http.StatusOK, resp)
}

// ClearPrices removes the session price series
// DELETE /api/prices
func (h *SimulationHandler) ClearPrices(w http.ResponseWriter, r *http.Request) {
	h.session.ClearPrices()
	w.WriteHeader(http.StatusNoContent)
}

// Simulate validates the config, runs the pipeline and returns the dashboard
// POST /api/simulate
func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	cfg := simulation.DefaultConfig()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := simulation.Validate(cfg); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dash, err := h.session.Run(r.Context(), cfg)
	if err != nil {
		h.logger.WithError(err).Error("Simulation run failed")
		respondError(w, http.StatusBadGateway, "Simulation engine request failed")
		return
	}

	respondJSON(w, http.StatusOK, dash)
}

// GetResult returns the current dashboard
// GET /api/result
func (h *SimulationHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	dash := h.session.Result()
	if dash == nil {
		respondError(w, http.StatusNotFound, "No results yet")
		return
	}
	respondJSON(w, http.StatusOK, dash)
}

// Reset clears prices and the current result
// POST /api/reset
func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.session.Reset()
	w.WriteHeader(http.StatusNoContent)
}
