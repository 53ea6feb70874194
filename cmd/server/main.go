package main

import (
	"fmt"
	"log"
	"net/http"

	"propman-backend/internal/archive"
	"propman-backend/internal/auth"
	"propman-backend/internal/cache"
	"propman-backend/internal/config"
	"propman-backend/internal/db"
	"propman-backend/internal/gateway"
	"propman-backend/internal/handlers"
	h "propman-backend/internal/http"
	"propman-backend/internal/middleware"
	"propman-backend/internal/repositories"
	"propman-backend/internal/services"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()
	log.Println("[DB] Connected successfully")

	if err := cache.Init(cfg); err != nil {
		log.Printf("[Redis] Unavailable, policy cache disabled: %v", err)
	} else {
		log.Println("[Redis] Connected successfully")
	}

	// Repositories
	obligationRepo := repositories.NewObligationRepository(pool)
	policyRepo := repositories.NewPolicyRepository(pool)
	billingAccountRepo := repositories.NewBillingAccountRepository(pool)
	userRepo := repositories.NewUserRepository(pool)

	// Billing gateway
	billingGateway := gateway.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.LateFee.Currency)

	// Services
	policyService := services.NewPolicyService(policyRepo, cache.NewPolicyCache(), cfg.LateFee.GracePeriodDays, cfg.LateFee.FlatFeeAmount)
	lateFeeService := services.NewLateFeeService(
		obligationRepo,
		policyService,
		billingGateway,
		billingAccountRepo,
		cfg.LateFee.ConcurrencyLimit,
	)
	statementService := services.NewStatementService(lateFeeService)

	archiver := archive.New(cfg)
	if archiver != nil {
		log.Println("[Archive] Batch result archival enabled")
	}

	// Auth
	jwtManager := auth.NewJWTManager(cfg)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtManager)
	lateFeeHandler := handlers.NewLateFeeHandler(lateFeeService, statementService, archiver)
	healthHandler := handlers.NewHealthHandler(pool)

	router := h.NewRouter(authHandler, lateFeeHandler, healthHandler, authMiddleware)
	corsHandler := middleware.NewCORS(cfg)(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
