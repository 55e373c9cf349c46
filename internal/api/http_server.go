package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"labtrack/internal/config"
	"labtrack/internal/export"
	"labtrack/internal/metrics"
	"labtrack/internal/models"
	"labtrack/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// Services bundles what the HTTP and gRPC front ends dispatch to.
type Services struct {
	Inventory *service.InventoryService
	Bookings  *service.BookingService
	Movements *service.MovementService
	Dashboard *service.DashboardService
	ViewState *service.ViewStateService
	Exporter  *export.Exporter
	Locations models.LocationCatalog
	Location  *time.Location

	// Ready reports whether backing infrastructure is reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

// HTTPServer exposes the console JSON API.
type HTTPServer struct {
	cfg    config.APIConfig
	svc    Services
	server *http.Server
	auth   *HTTPAuth
	log    zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, svc Services, logger *zerolog.Logger) *HTTPServer {
	if svc.Location == nil {
		svc.Location = time.Local
	}
	srv := &HTTPServer{cfg: cfg, svc: svc, log: zerolog.Nop()}
	if logger != nil {
		srv.log = logger.With().Str("component", "http").Logger()
	}
	srv.auth = NewHTTPAuth(cfg)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

// Handler returns the fully wrapped router.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/v1/inventory", s.handleListInventory)
	mux.HandleFunc("POST /api/v1/inventory", s.handleCreateItem)
	mux.HandleFunc("GET /api/v1/inventory/{id}", s.handleGetItem)
	mux.HandleFunc("PUT /api/v1/inventory/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /api/v1/inventory/{id}", s.handleDeleteItem)

	mux.HandleFunc("GET /api/v1/bookings", s.handleListBookings)
	mux.HandleFunc("POST /api/v1/bookings", s.handleCreateBooking)
	mux.HandleFunc("GET /api/v1/bookings/stats", s.handleBookingStats)
	mux.HandleFunc("PATCH /api/v1/bookings/{id}", s.handleUpdateBooking)
	mux.HandleFunc("DELETE /api/v1/bookings/{id}", s.handleDeleteBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/cancel", s.handleCancelBooking)

	mux.HandleFunc("GET /api/v1/movements", s.handleListMovements)
	mux.HandleFunc("POST /api/v1/movements", s.handleRegisterMovement)
	mux.HandleFunc("GET /api/v1/movements/stats", s.handleMovementStats)

	mux.HandleFunc("GET /api/v1/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/v1/dashboard/kpis", s.handleKPIs)
	mux.HandleFunc("GET /api/v1/dashboard/distribution", s.handleDistribution)
	mux.HandleFunc("GET /api/v1/dashboard/activity", s.handleActivity)

	mux.HandleFunc("GET /api/v1/locations", s.handleLocations)
	mux.HandleFunc("GET /api/v1/export/inventory.xlsx", s.handleExport)
	mux.HandleFunc("POST /api/v1/export/snapshots", s.handleSaveExport)

	mux.HandleFunc("GET /api/v1/view-state", s.handleGetViewState)
	mux.HandleFunc("PUT /api/v1/view-state", s.handleSetViewState)
	mux.HandleFunc("DELETE /api/v1/view-state", s.handleClearViewState)
	mux.HandleFunc("POST /api/v1/view-state/campus", s.handleSelectCampus)
	mux.HandleFunc("POST /api/v1/view-state/building", s.handleSelectBuilding)

	return s.loggingMiddleware(s.auth.Wrap(mux))
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// HTTPAuth provides API-key auth and per-key rate limiting for HTTP endpoints.
type HTTPAuth struct {
	cfg     config.APIConfig
	keys    *keyring
	limiter *rateLimiter
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	return &HTTPAuth{
		cfg:     cfg,
		keys:    newKeyring(cfg.Auth),
		limiter: newRateLimiter(cfg.RateLimit),
	}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.cfg.Enabled || !a.cfg.HTTP.Enabled || isProbe(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.Auth.Enabled {
			client, err := a.checkAuth(r)
			if err != nil {
				statusCode := http.StatusUnauthorized
				if errors.Is(err, errPermissionDenied) {
					statusCode = http.StatusForbidden
				}
				writeError(w, statusCode, err.Error())
				return
			}
			r = r.WithContext(service.WithActor(r.Context(), client.Name))
		}

		if !a.limiter.allow(a.clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request) (config.APIClientKey, error) {
	apiKey := strings.TrimSpace(r.Header.Get(a.keys.apiKeyHeader))
	extra := strings.TrimSpace(r.Header.Get(a.keys.extraHeader))

	client, err := a.keys.authenticate(apiKey, extra)
	if err != nil {
		return config.APIClientKey{}, err
	}
	if err := authorize(client, requiredPermissionHTTP(r)); err != nil {
		return config.APIClientKey{}, err
	}
	return client, nil
}

func requiredPermissionHTTP(r *http.Request) string {
	path := r.URL.Path
	read := r.Method == http.MethodGet || r.Method == http.MethodHead

	switch {
	case strings.HasPrefix(path, "/api/v1/inventory"):
		if read {
			return permReadInventory
		}
		return permWriteInventory
	case strings.HasPrefix(path, "/api/v1/bookings"):
		if read {
			return permReadBookings
		}
		return permWriteBookings
	case strings.HasPrefix(path, "/api/v1/movements"):
		if read {
			return permReadMovements
		}
		return permWriteMovements
	case strings.HasPrefix(path, "/api/v1/dashboard"):
		return permReadDashboard
	case strings.HasPrefix(path, "/api/v1/export"):
		return permExport
	case strings.HasPrefix(path, "/api/v1/locations"), strings.HasPrefix(path, "/api/v1/view-state"):
		return permReadInventory
	}
	return ""
}

func isProbe(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.keys.apiKeyHeader)); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return clientKeyUnknown
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.IncHTTP(r.Method + " " + endpointLabel(r.URL.Path))

		event := s.log.Info()
		if recorder.status >= http.StatusInternalServerError {
			event = s.log.Error()
		}
		event.
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

// endpointLabel keeps the collection part of a path so ids stay out of metric labels.
func endpointLabel(path string) string {
	parts := strings.SplitN(strings.Trim(path, "/"), "/", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return "/" + strings.Join(parts, "/")
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorBody{Error: message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
