package billing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"lms/models"
	"lms/services/batchsvc"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger owns invoices and their embedded payment claims. All balance fields
// are recomputed from verified payments inside one transaction per decision;
// nothing here trusts a stored paid/remaining value as input.
type Ledger struct {
	db      *gorm.DB
	batches *batchsvc.Service
	dueDays int
}

func NewLedger(db *gorm.DB, batches *batchsvc.Service, dueDays int) *Ledger {
	if dueDays < 1 {
		dueDays = 7
	}
	return &Ledger{db: db, batches: batches, dueDays: dueDays}
}

// invoiceAttempts bounds the duplicate-key retry loop for invoice numbers.
const invoiceAttempts = 5

// recomputeAttempts bounds the optimistic-concurrency retry loop when two
// decisions race the same invoice's balance.
const recomputeAttempts = 5

// roundMoney normalizes a currency amount to two decimal places. Installment
// sums run through float64; without this an invoice paid in fractional
// amounts could sit a rounding error short of settled forever.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// enrollable batch states - draft, completed and cancelled never take money.
func batchOpen(batch *models.Batch) bool {
	if !batch.IsActive {
		return false
	}
	switch batch.Status {
	case models.BatchStatusPublished, models.BatchStatusUpcoming, models.BatchStatusOngoing:
		return true
	}
	return false
}

// CreateInvoice opens the financial record for one enrollment attempt. The
// gross amount comes from the batch's resolved pricing; discountAmount is an
// externally validated promo value, treated as untrusted and clamped to
// [0, amount]. One non-cancelled invoice per (student, batch).
func (l *Ledger) CreateInvoice(studentID, batchID uint, discountAmount float64) (*models.Invoice, error) {
	batch, pricing, err := l.batches.GetBatch(batchID)
	if err != nil {
		if errors.Is(err, batchsvc.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !batchOpen(batch) {
		return nil, ErrBatchNotOpen
	}
	// Full batches are also caught here so students are not invoiced for a
	// seat they can never claim. The increment guard remains the final word.
	if batch.CurrentStudents >= batch.MaxStudents {
		return nil, fmt.Errorf("%w: batch %s is full", ErrBatchNotOpen, batch.BatchCode)
	}

	var existing models.Invoice
	err = l.db.Where("student_id = ? AND batch_id = ? AND status <> ?",
		studentID, batchID, models.InvoiceStatusCancelled).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEnrollment
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing invoice for student %d batch %d: %w", studentID, batchID, err)
	}

	amount := pricing.EffectiveAmount()
	if discountAmount < 0 {
		discountAmount = 0
	}
	if discountAmount > amount {
		discountAmount = amount
	}
	final := roundMoney(amount - discountAmount)

	var lastErr error
	for attempt := 0; attempt < invoiceAttempts; attempt++ {
		number, err := l.nextInvoiceNumber(time.Now().Year())
		if err != nil {
			return nil, err
		}

		invoice := models.Invoice{
			InvoiceNumber:   number,
			StudentID:       studentID,
			BatchID:         batchID,
			Amount:          amount,
			DiscountAmount:  discountAmount,
			FinalAmount:     final,
			PaidAmount:      0,
			RemainingAmount: final,
			Status:          models.InvoiceStatusPending,
			DueDate:         time.Now().AddDate(0, 0, l.dueDays),
		}

		if err := l.db.Create(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				lastErr = err
				continue // concurrent creation took this number
			}
			return nil, fmt.Errorf("create invoice: %w", err)
		}
		return &invoice, nil
	}

	return nil, fmt.Errorf("create invoice: number collisions persisted: %w", lastErr)
}

// nextInvoiceNumber builds INV{YY}{NNNN}, max+1 over the year's existing
// numbers - same discipline as batch codes, unique index as the backstop.
func (l *Ledger) nextInvoiceNumber(year int) (string, error) {
	prefix := fmt.Sprintf("INV%02d", year%100)

	var numbers []string
	if err := l.db.Model(&models.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Pluck("invoice_number", &numbers).Error; err != nil {
		return "", fmt.Errorf("query invoice numbers for %s: %w", prefix, err)
	}

	maxSeq := 0
	for _, number := range numbers {
		seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return fmt.Sprintf("%s%04d", prefix, maxSeq+1), nil
}

// PaymentSubmission is a student's claim that money was sent.
type PaymentSubmission struct {
	Amount        float64
	Method        models.PaymentMethod
	SenderNumber  string
	TransactionID string
	ScreenshotURL string
}

// RecordPaymentSubmission appends a pending payment claim to an invoice. An
// unverified claim has no financial effect: paid/remaining/status stay put
// until an admin decides.
func (l *Ledger) RecordPaymentSubmission(invoiceID uint, in PaymentSubmission) (*models.Payment, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var invoice models.Invoice
	if err := l.db.Where("id = ?", invoiceID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if invoice.Status == models.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: invoice %s is cancelled", ErrNotFound, invoice.InvoiceNumber)
	}

	payment := models.Payment{
		InvoiceID:     invoice.ID,
		Reference:     uuid.NewString(),
		Amount:        in.Amount,
		Method:        in.Method,
		SenderNumber:  in.SenderNumber,
		TransactionID: in.TransactionID,
		ScreenshotURL: in.ScreenshotURL,
		Status:        models.PaymentStatusPending,
		SubmittedAt:   time.Now(),
	}

	if err := l.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("record payment submission: %w", err)
	}
	return &payment, nil
}

// DecisionAction is an admin's call on a pending payment claim.
type DecisionAction string

const (
	DecisionVerify DecisionAction = "verify"
	DecisionReject DecisionAction = "reject"
)

// Decision carries the admin's verdict. Notes are optional on verify; a
// reject without a reason is refused.
type Decision struct {
	Action DecisionAction
	Notes  string
	Reason string
}

// ApplyVerificationDecision settles one pending payment and recomputes the
// invoice from scratch: paidAmount as the sum of verified payments,
// remainingAmount = max(final - paid, 0), status from the balance. The whole
// thing runs in one transaction; the payment status flip is a guarded update
// so two racing admins cannot both decide the same claim, and the seat
// increment is gated by the invoice's seatCounted flag so additional partial
// verifications never double-count.
//
// Retrying the same decision on a settled payment is a no-op; a conflicting
// decision fails with ErrAlreadyDecided.
func (l *Ledger) ApplyVerificationDecision(paymentID uint, decision Decision) (*models.Invoice, error) {
	if decision.Action == DecisionReject && strings.TrimSpace(decision.Reason) == "" {
		return nil, ErrMissingReason
	}

	var invoice *models.Invoice
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("id = ? AND is_deleted = ?", paymentID, false).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if payment.Status != models.PaymentStatusPending {
			// Idempotent for retries of the same decision, hard error for a
			// conflicting one.
			if (payment.Status == models.PaymentStatusVerified && decision.Action == DecisionVerify) ||
				(payment.Status == models.PaymentStatusRejected && decision.Action == DecisionReject) {
				inv, err := l.loadInvoice(tx, payment.InvoiceID)
				if err != nil {
					return err
				}
				invoice = inv
				return nil
			}
			return ErrAlreadyDecided
		}

		now := time.Now()
		updates := map[string]interface{}{}
		switch decision.Action {
		case DecisionVerify:
			updates["status"] = models.PaymentStatusVerified
			updates["verified_at"] = now
			updates["admin_notes"] = decision.Notes
		case DecisionReject:
			updates["status"] = models.PaymentStatusRejected
			updates["rejection_reason"] = strings.TrimSpace(decision.Reason)
		default:
			return fmt.Errorf("unknown decision action %q", decision.Action)
		}

		// Status lives in the WHERE clause: only one decision can ever move
		// the claim out of pending.
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentStatusPending).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("decide payment %d: %w", payment.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyDecided
		}

		inv, err := l.recompute(tx, payment.InvoiceID)
		if err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// recompute rebuilds the invoice's balance fields from its verified payments
// and claims the batch seat exactly once when the invoice reaches full
// payment. Must run inside the decision transaction.
//
// The write is an optimistic version check with paid_amount as the version
// column: two decisions racing the same invoice each sum the verified
// payments they can see, and only the one whose snapshot is still current
// lands its update. The loser re-reads and re-sums, now seeing the winner's
// committed payment, so a stale sum can never overwrite a fresher one.
func (l *Ledger) recompute(tx *gorm.DB, invoiceID uint) (*models.Invoice, error) {
	for attempt := 0; attempt < recomputeAttempts; attempt++ {
		inv, err := l.loadInvoice(tx, invoiceID)
		if err != nil {
			return nil, err
		}

		var paid float64
		if err := tx.Model(&models.Payment{}).
			Where("invoice_id = ? AND status = ? AND is_deleted = ?",
				invoiceID, models.PaymentStatusVerified, false).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&paid).Error; err != nil {
			return nil, fmt.Errorf("sum verified payments for invoice %d: %w", invoiceID, err)
		}
		paid = roundMoney(paid)

		remaining := roundMoney(inv.FinalAmount - paid)
		if remaining <= 0 {
			remaining = 0
		}

		status := inv.Status
		if remaining == 0 {
			status = models.InvoiceStatusPaid
		} else if paid > 0 {
			status = models.InvoiceStatusPartial
		}

		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND paid_amount = ?", inv.ID, inv.PaidAmount).
			Updates(map[string]interface{}{
				"paid_amount":      paid,
				"remaining_amount": remaining,
				"status":           status,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("recompute invoice %d: %w", invoiceID, res.Error)
		}
		if res.RowsAffected == 0 {
			continue // a concurrent decision moved the balance; re-read and re-sum
		}
		inv.PaidAmount = paid
		inv.RemainingAmount = remaining
		inv.Status = status

		// Seat counting fires once per invoice, on full payment. The guarded
		// flag update is the idempotency gate: whichever verification flips it
		// performs the increment, later ones see zero rows affected.
		if remaining == 0 {
			res := tx.Model(&models.Invoice{}).
				Where("id = ? AND seat_counted = ?", inv.ID, false).
				UpdateColumn("seat_counted", true)
			if res.Error != nil {
				return nil, fmt.Errorf("flag seat for invoice %d: %w", inv.ID, res.Error)
			}
			if res.RowsAffected == 1 {
				if err := l.batches.IncrementEnrollment(tx, inv.BatchID); err != nil {
					return nil, err
				}
				inv.SeatCounted = true
			}
		}

		return inv, nil
	}

	return nil, fmt.Errorf("recompute invoice %d: concurrent balance updates persisted", invoiceID)
}

func (l *Ledger) loadInvoice(tx *gorm.DB, invoiceID uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := tx.Where("id = ?", invoiceID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// GetInvoice returns an invoice with its payments and the derived overdue
// view applied.
func (l *Ledger) GetInvoice(invoiceID uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := l.db.Preload("Payments").Where("id = ?", invoiceID).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	inv.Status = inv.EffectiveStatus(time.Now())
	return &inv, nil
}

// ListStudentInvoices returns a student's invoices, overdue view applied.
func (l *Ledger) ListStudentInvoices(studentID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := l.db.Preload("Payments").
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list invoices for student %d: %w", studentID, err)
	}

	now := time.Now()
	for i := range invoices {
		invoices[i].Status = invoices[i].EffectiveStatus(now)
	}
	return invoices, nil
}

// SweepOverdue persists the derived overdue status for reporting queries.
// The read paths never depend on this having run.
func (l *Ledger) SweepOverdue(now time.Time) (int64, error) {
	res := l.db.Model(&models.Invoice{}).
		Where("status IN ? AND remaining_amount > 0 AND due_date < ?",
			[]models.InvoiceStatus{models.InvoiceStatusPending, models.InvoiceStatusPartial}, now).
		Update("status", models.InvoiceStatusOverdue)
	if res.Error != nil {
		return 0, fmt.Errorf("sweep overdue invoices: %w", res.Error)
	}
	return res.RowsAffected, nil
}
