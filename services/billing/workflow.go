package billing

import (
	"fmt"
	"strings"

	"lms/models"

	"gorm.io/gorm"
)

// Workflow is the admin-facing façade over the ledger's verification
// decisions. It owns no state; its one rule is that a reject requires a
// non-empty reason while verify notes stay optional.
type Workflow struct {
	db     *gorm.DB
	ledger *Ledger
}

func NewWorkflow(db *gorm.DB, ledger *Ledger) *Workflow {
	return &Workflow{db: db, ledger: ledger}
}

// ListPending returns all pending payment claims across invoices, oldest
// first, with the parent invoice loaded for the review screen.
func (w *Workflow) ListPending(offset, limit int) ([]models.Payment, int64, error) {
	query := w.db.Model(&models.Payment{}).
		Where("status = ? AND is_deleted = ?", models.PaymentStatusPending, false)

	var total int64
	query.Count(&total)

	var payments []models.Payment
	if err := query.Preload("Invoice").
		Order("submitted_at asc").
		Offset(offset).Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("list pending payments: %w", err)
	}
	return payments, total, nil
}

// Verify accepts a pending payment claim. Notes are optional.
func (w *Workflow) Verify(paymentID uint, notes string) (*models.Invoice, error) {
	return w.ledger.ApplyVerificationDecision(paymentID, Decision{
		Action: DecisionVerify,
		Notes:  strings.TrimSpace(notes),
	})
}

// Reject refuses a pending payment claim. The reason is mandatory.
func (w *Workflow) Reject(paymentID uint, reason string) (*models.Invoice, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}
	return w.ledger.ApplyVerificationDecision(paymentID, Decision{
		Action: DecisionReject,
		Reason: reason,
	})
}
