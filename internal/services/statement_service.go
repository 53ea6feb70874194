package services

import (
	"bytes"
	"context"
	"fmt"

	"propman-backend/internal/models"
	"propman-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// StatementService renders owner-facing late fee statements. The
// statement is a point-in-time preview of pending assessments; it never
// claims or charges anything.
type StatementService struct {
	lateFees *LateFeeService
}

func NewStatementService(lateFees *LateFeeService) *StatementService {
	return &StatementService{lateFees: lateFees}
}

// GenerateLateFeeStatement generates a PDF statement of the lease's
// pending late fee assessments.
func (s *StatementService) GenerateLateFeeStatement(ctx context.Context, leaseID string) ([]byte, error) {
	assessments, policy, err := s.lateFees.Preview(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Late Fee Assessment Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Lease / policy box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Lease Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Lease: %s", leaseID), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Grace Period: %d days", policy.GracePeriodDays), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Flat Late Fee: %d", policy.FlatFeeAmount), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "", "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Assessments table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Overdue Obligations", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(55, 7, "Obligation", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Due Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Days Late", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Rent", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Late Fee", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Applies", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var totalFees int64
	for _, a := range assessments {
		ob := a.Obligation
		obligationID := ob.ID
		if len(obligationID) > 24 {
			obligationID = obligationID[:21] + "..."
		}
		applies := "No"
		if a.Calculation.ShouldApply {
			applies = "Yes"
			totalFees += a.Calculation.Amount
		}
		pdf.CellFormat(55, 6, obligationID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, ob.DueDate.Format(timeutil.DateLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", ob.DaysLate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, models.FormatMinorAmount(ob.AmountMinor), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", a.Calculation.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, applies, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	// Summary
	pdf.SetFont("Arial", "B", 11)
	if totalFees > 0 {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.CellFormat(190, 8, fmt.Sprintf("Total Assessable Late Fees: %d", totalFees), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}
	return buf.Bytes(), nil
}
