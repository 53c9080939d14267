package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orderbot/internal/logger"
	"orderbot/internal/session"
)

// Handler serves the tracking HTTP API.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// SetupRoutes registers all tracking endpoints on a fresh mux.
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/orders/", h.withLogging(h.routeOrderRequests))
	mux.HandleFunc("/sessions/", h.withLogging(h.GetSession))
	mux.HandleFunc("/health", h.withLogging(h.HealthCheck))

	return mux
}

// routeOrderRequests dispatches /orders/{number} and
// /orders/{number}/history.
func (h *Handler) routeOrderRequests(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/history") {
		h.GetOrderHistory(w, r)
	} else {
		h.GetOrder(w, r)
	}
}

// GetOrder handles GET /orders/{order_number}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	number := h.extractOrderNumber(r.URL.Path, "")
	if number == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order number", requestID)
		return
	}

	view, err := h.service.GetOrder(r.Context(), number, requestID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, view, requestID)
}

// GetOrderHistory handles GET /orders/{order_number}/history.
func (h *Handler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	number := h.extractOrderNumber(r.URL.Path, "/history")
	if number == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order number", requestID)
		return
	}

	history, err := h.service.GetOrderHistory(r.Context(), number, requestID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, history, requestID)
}

// GetSession handles GET /sessions/{key}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if key == "" || strings.Contains(key, "/") {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid session key", requestID)
		return
	}

	view, err := h.service.GetSession(r.Context(), key, requestID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Session not found", requestID)
		} else {
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, view, requestID)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	healthy := h.service.HealthCheck(r.Context())

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "tracking-service",
		"healthy":   healthy,
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		response["status"] = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

// extractOrderNumber pulls the ORD_YYYYMMDD_NNN number out of an /orders/
// path, stripping the given suffix first.
func (h *Handler) extractOrderNumber(path, suffix string) string {
	number := strings.TrimPrefix(path, "/orders/")
	if suffix != "" {
		if !strings.HasSuffix(number, suffix) {
			return ""
		}
		number = strings.TrimSuffix(number, suffix)
	}

	if len(number) < 15 || !strings.HasPrefix(number, "ORD_") || strings.Contains(number, "/") {
		return ""
	}
	return number
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

// withLogging wraps a handler with request/response logging.
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
			})
	}
}

// responseWriter captures the status code for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
