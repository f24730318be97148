// Package server exposes park data over a small read-only HTTP API
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ngmaloney/park-terminal/internal/metrics"
	"github.com/ngmaloney/park-terminal/internal/models"
	"github.com/ngmaloney/park-terminal/internal/nps"
)

// APIParkLimit is how many parks GET /api/parks asks upstream for
const APIParkLimit = 500

// ParkLister is the query the HTTP surface needs
type ParkLister interface {
	Parks(ctx context.Context, stateCode string, limit int) nps.Result[[]models.Park]
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler handles HTTP requests
type Handler struct {
	parks   ParkLister
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler. m and logger may be nil.
func NewHandler(parks ParkLister, m *metrics.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{parks: parks, metrics: m, logger: logger}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/parks", h.handleParks).Methods("GET", "OPTIONS")
	r.HandleFunc("/healthz", h.handleHealth).Methods("GET")
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.Handler()).Methods("GET")
	}
}

// Router builds the mux with routes and middleware applied
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	r.Use(requestIDMiddleware)
	r.Use(h.loggingMiddleware)
	r.Use(corsMiddleware)
	return r
}

func (h *Handler) handleParks(w http.ResponseWriter, r *http.Request) {
	result := h.parks.Parks(r.Context(), "", APIParkLimit)
	if result.Failed() {
		h.logger.Error("listing parks", "error", result.Err, "request_id", RequestID(r.Context()))
		h.writeError(w, "Failed to fetch parks", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, result.Value)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		h.logger.Error("encoding error response", "error", err)
	}
}
