// Package http exposes the application state and derived views as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"accountable/internal/currency"
	"accountable/internal/log"
	"accountable/internal/store"
)

type Server struct {
	http.Server
	store       *store.Store
	rates       *currency.Provider
	logger      *log.Logger
	rateLimiter *rateLimiter

	shutdownOnce sync.Once

	// now is injectable for tests; handlers use it for "current month" views.
	now func() time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, st *store.Store, rates *currency.Provider, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentHTTP})
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:       st,
		rates:       rates,
		logger:      logger,
		rateLimiter: newRateLimiter(),
		now:         time.Now,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/state", s.withMiddleware(s.handleGetState))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/budgets", s.withMiddleware(s.handleGetBudgets))
	mux.HandleFunc("PUT /api/budgets", s.withMiddleware(s.handleUpdateBudgets))

	mux.HandleFunc("GET /api/theme", s.withMiddleware(s.handleGetTheme))
	mux.HandleFunc("PUT /api/theme", s.withMiddleware(s.handleSetTheme))

	mux.HandleFunc("GET /api/analytics/totals", s.withMiddleware(s.handleTotals))
	mux.HandleFunc("GET /api/analytics/breakdown", s.withMiddleware(s.handleBreakdown))
	mux.HandleFunc("GET /api/analytics/series", s.withMiddleware(s.handleSeries))
	mux.HandleFunc("GET /api/analytics/stats", s.withMiddleware(s.handleStats))
	mux.HandleFunc("GET /api/analytics/insights", s.withMiddleware(s.handleInsights))

	mux.HandleFunc("GET /api/currency", s.withMiddleware(s.handleGetCurrency))
	mux.HandleFunc("PUT /api/currency/base", s.withMiddleware(s.handleSetBaseCurrency))
	mux.HandleFunc("GET /api/currency/convert", s.withMiddleware(s.handleConvert))

	mux.HandleFunc("GET /api/goals", s.withMiddleware(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.withMiddleware(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.withMiddleware(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withMiddleware(s.handleDeleteGoal))
	mux.HandleFunc("GET /api/goals/progress", s.withMiddleware(s.handleGoalProgress))

	mux.HandleFunc("GET /api/recurring", s.withMiddleware(s.handleListRecurring))
	mux.HandleFunc("POST /api/recurring", s.withMiddleware(s.handleCreateRecurring))
	mux.HandleFunc("PUT /api/recurring/{id}", s.withMiddleware(s.handleUpdateRecurring))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.withMiddleware(s.handleDeleteRecurring))

	mux.HandleFunc("GET /api/export/json", s.withMiddleware(s.handleExportJSON))
	mux.HandleFunc("GET /api/export/csv", s.withMiddleware(s.handleExportCSV))
	mux.HandleFunc("GET /api/export/report", s.withMiddleware(s.handleExportReport))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()

		// Rate limit state mutations only; reads are cheap in-memory lookups.
		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.logger.Warn("Rate limit exceeded",
				"request_id", requestID,
				"client_ip", clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.Info("Request completed",
			"request_id", requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatus, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
