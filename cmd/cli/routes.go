package main

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// RouteManager handles the web panel routes
type RouteManager struct {
	sessions       *SessionRegistry
	allowedOrigins []string
	deviceURL      string
	refreshSeconds int
	logger         *slog.Logger
	Router         *mux.Router
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(app *App, sessions *SessionRegistry) *RouteManager {
	refresh := int(app.Config.Device.PollInterval.Seconds())
	if refresh < 1 {
		refresh = 1
	}
	return &RouteManager{
		sessions:       sessions,
		allowedOrigins: app.Config.Server.AllowedOrigins,
		deviceURL:      app.Config.Device.URL,
		refreshSeconds: refresh,
		logger:         app.Logger,
		Router:         mux.NewRouter(),
	}
}

// Setup configures all routes
func (rm *RouteManager) Setup() {
	r := rm.Router
	r.Use(rm.loggingMiddleware)
	r.Use(rm.corsMiddleware)

	// Global OPTIONS handler - catches all preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.HandleFunc("/health", rm.healthHandler).Methods("GET")

	// Server rendered panel
	r.HandleFunc("/", rm.pageHandler).Methods("GET")
	r.HandleFunc("/panels/dashboard/telemetry", rm.telemetryPartialHandler).Methods("GET")
	r.HandleFunc("/panels/{id}", rm.activatePanelHandler).Methods("POST")
	r.HandleFunc("/config", rm.submitConfigHandler).Methods("POST")
	r.HandleFunc("/ota", rm.otaHandler).Methods("POST")
	r.HandleFunc("/reboot", rm.rebootHandler).Methods("POST")

	// API v1 routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/view", rm.viewHandler).Methods("GET")
	api.HandleFunc("/panels", rm.panelsHandler).Methods("GET")
}
