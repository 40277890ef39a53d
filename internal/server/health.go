package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	statusOK   = "ok"
	statusFail = "fail"

	readinessTimeout = 2 * time.Second
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message,omitempty"`
}

type healthHandler struct {
	store  Pinger
	logger *slog.Logger
}

// live answers 200 while the process is up.
func (h *healthHandler) live(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, http.StatusOK, healthResponse{Status: statusOK})
}

// ready answers 503 when the record store cannot be reached.
func (h *healthHandler) ready(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeHealth(w, http.StatusServiceUnavailable, healthResponse{Status: statusFail, Message: "store not initialized"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "Readiness check failed", "error", err)
		writeHealth(w, http.StatusServiceUnavailable, healthResponse{Status: statusFail, Message: err.Error()})
		return
	}
	writeHealth(w, http.StatusOK, healthResponse{Status: statusOK})
}

func writeHealth(w http.ResponseWriter, code int, resp healthResponse) {
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
