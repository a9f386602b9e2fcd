package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/leshuiju/shipment-entry/internal/common"
	"github.com/leshuiju/shipment-entry/internal/pipeline"
	"github.com/leshuiju/shipment-entry/internal/repository"
)

// Handlers carries the API dependencies.
type Handlers struct {
	processor *pipeline.Processor
	db        *repository.DB
	logger    *slog.Logger
}

// ProcessRequest is the body of POST /api/process.
type ProcessRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode,omitempty"` // "semantic" (default) or "fallback"
}

type errorResponse struct {
	Error string `json:"error"`
}

// Process handles POST /api/process: the batch entry point.
func (h *Handlers) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	mode := pipeline.ModeSemantic
	if req.Mode == string(pipeline.ModeFallback) {
		mode = pipeline.ModeFallback
	}

	result, err := h.processor.Process(r.Context(), req.Text, mode)
	if err != nil {
		h.logger.Error("api.process.failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrSink) {
			status = http.StatusConflict
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// History handles GET /api/history?limit=N.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.db.Runs.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("api.history.failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Database: "ok"}
	if err := h.db.IsHealthy(); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "error"
		resp.Message = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
