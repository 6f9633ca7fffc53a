package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalLogger only logs HTTP requests when traffic logging is enabled
func (h *Handlers) conditionalLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsTrafficLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", h.handleIndex)
	r.Get("/healthz", h.handleHealthz)

	// Event gateway
	r.Get("/ws", h.Gateway.ServeWs)

	// Join QR code
	r.Get("/join/qr", h.handleJoinQR)

	// Read-only API
	r.Get("/api/watchparties", h.handleGetWatchparties)
	r.Get("/api/library/{category}", h.handleGetLibrary)
	r.Get("/api/schedule", h.handleGetSchedule)
	r.Get("/api/schedule/{category}", h.handleGetCategorySchedule)
	r.Get("/api/results", h.handleGetResults)
	r.Get("/api/session", h.handleGetSession)

	return r
}
