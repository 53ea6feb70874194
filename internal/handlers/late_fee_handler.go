package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"propman-backend/internal/archive"
	"propman-backend/internal/middleware"
	"propman-backend/internal/models"
	"propman-backend/internal/services"

	"github.com/gorilla/mux"
)

type LateFeeHandler struct {
	Service    *services.LateFeeService
	Statements *services.StatementService
	Archiver   *archive.Archiver
}

func NewLateFeeHandler(service *services.LateFeeService, statements *services.StatementService, archiver *archive.Archiver) *LateFeeHandler {
	return &LateFeeHandler{
		Service:    service,
		Statements: statements,
		Archiver:   archiver,
	}
}

// ProcessLease triggers late fee assessment and application for a lease.
// Always returns a result object; partial failure is visible by
// comparing processed against the eligible count, not by status code.
func (h *LateFeeHandler) ProcessLease(w http.ResponseWriter, r *http.Request) {
	leaseID := mux.Vars(r)["lease_id"]

	// Audit identity: "user <id> <email>" from the authenticated context
	requestedBy, _ := middleware.GetEmailFromContext(r.Context())
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		requestedBy = fmt.Sprintf("user %d %s", userID, requestedBy)
	}

	result, err := h.Service.ProcessLease(r.Context(), leaseID, requestedBy)
	if err != nil {
		if errors.Is(err, services.ErrMissingLeaseID) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Best-effort audit archive; a failed upload never fails the batch.
	if h.Archiver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.Archiver.StoreBatchResult(ctx, result); err != nil {
			log.Printf("[Archive] Failed to store batch result for lease %s: %v", leaseID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Preview returns the assessments a batch run would attempt, without
// side effects.
func (h *LateFeeHandler) Preview(w http.ResponseWriter, r *http.Request) {
	leaseID := mux.Vars(r)["lease_id"]

	assessments, policy, err := h.Service.Preview(r.Context(), leaseID)
	if err != nil {
		if errors.Is(err, services.ErrMissingLeaseID) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"policy":      policy,
		"assessments": assessments,
	})
}

// Calculate exposes the standalone fee calculator. Policy fields are
// optional; missing fields fall back to system defaults.
func (h *LateFeeHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req models.CalculateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.DaysLate < 0 {
		http.Error(w, "days_late must not be negative", http.StatusBadRequest)
		return
	}

	policy := &models.LateFeePolicy{
		GracePeriodDays: models.DefaultGracePeriodDays,
		FlatFeeAmount:   models.DefaultFlatFeeAmount,
	}
	if req.GracePeriodDays != nil {
		policy.GracePeriodDays = *req.GracePeriodDays
	}
	if req.FlatFeeAmount != nil {
		policy.FlatFeeAmount = *req.FlatFeeAmount
	}

	calc := services.CalculateFee(req.RentAmount, req.DaysLate, policy)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(calc)
}

// Statement returns a PDF statement of pending late fee assessments
func (h *LateFeeHandler) Statement(w http.ResponseWriter, r *http.Request) {
	leaseID := mux.Vars(r)["lease_id"]

	pdfBytes, err := h.Statements.GenerateLateFeeStatement(r.Context(), leaseID)
	if err != nil {
		if errors.Is(err, services.ErrMissingLeaseID) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="late-fees-%s.pdf"`, leaseID))
	w.Write(pdfBytes)
}
