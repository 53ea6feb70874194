package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"propman-backend/internal/handlers"
	"propman-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	lateFeeHandler *handlers.LateFeeHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Protected API routes - late fee operations require a billing role
	lateFeesAPI := r.PathPrefix("/api").Subrouter()
	lateFeesAPI.Use(authMiddleware.RequireRole("admin", "accountant"))
	lateFeesAPI.HandleFunc("/leases/{lease_id}/late-fees/process", lateFeeHandler.ProcessLease).Methods("POST")
	lateFeesAPI.HandleFunc("/leases/{lease_id}/late-fees/preview", lateFeeHandler.Preview).Methods("GET")
	lateFeesAPI.HandleFunc("/late-fees/calculate", lateFeeHandler.Calculate).Methods("POST")

	// The statement is owner-facing and read-only: any active user may
	// download it
	statementsAPI := r.PathPrefix("/api").Subrouter()
	statementsAPI.Use(authMiddleware.Authenticate)
	statementsAPI.HandleFunc("/leases/{lease_id}/late-fees/statement", lateFeeHandler.Statement).Methods("GET")

	return r
}
