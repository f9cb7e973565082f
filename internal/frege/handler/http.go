// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     handler
// Description: HTTP surface of the Frege service: /ws and /health
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/msto63/mAF/internal/frege/service"
	"github.com/msto63/mAF/pkg/core/health"
	"github.com/msto63/mAF/pkg/core/logging"
)

// NewRouter wires the WebSocket endpoint and the health report
func NewRouter(svc *service.Service, registry *health.Registry, logger *logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", NewWebSocketHandler(svc, logger))
	mux.Handle("/health", NewHealthHandler(registry))
	return mux
}

// HealthHandler renders the health registry as JSON
type HealthHandler struct {
	registry *health.Registry
	timeout  time.Duration
}

// NewHealthHandler creates a health handler with a 5s check timeout
func NewHealthHandler(registry *health.Registry) *HealthHandler {
	return &HealthHandler{registry: registry, timeout: 5 * time.Second}
}

// ServeHTTP answers 200 unless a check is unhealthy (503)
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := h.registry.RunWithTimeout(h.timeout)

	w.Header().Set("Content-Type", "application/json")
	if !report.Healthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(report)
}
