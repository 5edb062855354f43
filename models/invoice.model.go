package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceStatus defines the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// PaymentMethod defines how a payment claim was made
type PaymentMethod string

const (
	PaymentMethodBkash        PaymentMethod = "bkash"
	PaymentMethodNagad        PaymentMethod = "nagad"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

// PaymentStatus defines the verification state of a payment claim
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Invoice is the financial record of one student's obligation for one batch
// enrollment. PaidAmount, RemainingAmount and Status are recomputed by the
// ledger whenever a payment's verification state changes - never hand-set.
type Invoice struct {
	gorm.Model
	InvoiceNumber string `json:"invoice_number" gorm:"uniqueIndex;not null"` // INV{YY}{NNNN}
	StudentID     uint   `json:"student_id" gorm:"index;not null"`
	BatchID       uint   `json:"batch_id" gorm:"index;not null"`

	Amount          float64 `json:"amount" gorm:"not null"` // gross, from resolved pricing
	DiscountAmount  float64 `json:"discount_amount" gorm:"default:0"`
	FinalAmount     float64 `json:"final_amount" gorm:"not null"` // amount - discountAmount
	PaidAmount      float64 `json:"paid_amount" gorm:"default:0"` // sum of verified payments
	RemainingAmount float64 `json:"remaining_amount" gorm:"default:0"`

	Status  InvoiceStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	DueDate time.Time     `json:"due_date"`

	// Set once when the invoice reaches full payment and the batch seat is
	// claimed. Guards the seat counter against double increments.
	SeatCounted bool `json:"seat_counted" gorm:"default:false"`

	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:InvoiceID"`

	// Relations - omit in JSON by default (only load when needed)
	Student User  `gorm:"foreignKey:StudentID" json:"-"`
	Batch   Batch `gorm:"foreignKey:BatchID" json:"-"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// EffectiveStatus derives the overdue view at read time. Overdue is never a
// stored transition the core depends on; the cron sweep only persists it for
// reporting queries.
func (i *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if (i.Status == InvoiceStatusPending || i.Status == InvoiceStatusPartial) &&
		i.RemainingAmount > 0 && now.After(i.DueDate) {
		return InvoiceStatusOverdue
	}
	return i.Status
}

// Payment is a single submitted payment claim against an Invoice. It has no
// identity outside its parent invoice; admins query it as a review projection.
type Payment struct {
	gorm.Model
	InvoiceID uint   `json:"invoice_id" gorm:"index;not null"`
	Reference string `json:"reference" gorm:"type:varchar(64);uniqueIndex"` // uuid, receipt token

	Amount        float64       `json:"amount" gorm:"not null"`
	Method        PaymentMethod `json:"method" gorm:"type:varchar(20);not null"`
	SenderNumber  string        `json:"sender_number"`
	TransactionID string        `json:"transaction_id"`
	ScreenshotURL string        `json:"screenshot_url"` // opaque file-storage URL

	Status          PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	SubmittedAt     time.Time     `json:"submitted_at" gorm:"not null"`
	VerifiedAt      *time.Time    `json:"verified_at"`
	AdminNotes      string        `json:"admin_notes" gorm:"type:text"`
	RejectionReason string        `json:"rejection_reason" gorm:"type:text"`

	Metadata datatypes.JSON `json:"metadata,omitempty"` // raw gateway payload, if any

	IsDeleted bool `gorm:"default:false"`

	// Relations - omit in JSON by default (only load when needed)
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
