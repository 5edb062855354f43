package billing

import (
	"fmt"
	"testing"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPendingOldestFirst(t *testing.T) {
	fx := setup(t)
	batch := fx.publishedBatch(t, "WD", 5000, 10)

	var claims []*models.Payment
	for i := 1; i <= 3; i++ {
		student := fx.student(t, fmt.Sprintf("s%d@test.com", i))
		invoice, err := fx.ledger.CreateInvoice(student.ID, batch.ID, 0)
		require.NoError(t, err)

		pay, err := fx.ledger.RecordPaymentSubmission(invoice.ID, PaymentSubmission{
			Amount: 1000, Method: models.PaymentMethodBkash, SenderNumber: "01711111111",
		})
		require.NoError(t, err)
		claims = append(claims, pay)
	}

	pending, total, err := fx.workflow.ListPending(0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, pending, 3)
	for i, claim := range claims {
		assert.Equal(t, claim.ID, pending[i].ID)
		assert.NotZero(t, pending[i].Invoice.ID, "review screen needs the parent invoice")
	}

	// The queue shrinks as claims get decided
	_, err = fx.workflow.Verify(claims[0].ID, "ok")
	require.NoError(t, err)

	pending, total, err = fx.workflow.ListPending(0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, pending, 2)
	assert.Equal(t, claims[1].ID, pending[0].ID)
}

func TestListPendingPagination(t *testing.T) {
	fx := setup(t)
	batch := fx.publishedBatch(t, "WD", 5000, 10)

	for i := 1; i <= 5; i++ {
		student := fx.student(t, fmt.Sprintf("s%d@test.com", i))
		invoice, err := fx.ledger.CreateInvoice(student.ID, batch.ID, 0)
		require.NoError(t, err)
		_, err = fx.ledger.RecordPaymentSubmission(invoice.ID, PaymentSubmission{
			Amount: 500, Method: models.PaymentMethodCash,
		})
		require.NoError(t, err)
	}

	page, total, err := fx.workflow.ListPending(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)

	page, _, err = fx.workflow.ListPending(4, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestWorkflowRejectNeedsReason(t *testing.T) {
	fx := setup(t)
	student := fx.student(t, "s1@test.com")
	batch := fx.publishedBatch(t, "WD", 5000, 10)

	invoice, err := fx.ledger.CreateInvoice(student.ID, batch.ID, 0)
	require.NoError(t, err)
	pay, err := fx.ledger.RecordPaymentSubmission(invoice.ID, PaymentSubmission{
		Amount: 5000, Method: models.PaymentMethodNagad, SenderNumber: "01722222222",
	})
	require.NoError(t, err)

	_, err = fx.workflow.Reject(pay.ID, "")
	assert.ErrorIs(t, err, ErrMissingReason)
	_, err = fx.workflow.Reject(pay.ID, "   \t")
	assert.ErrorIs(t, err, ErrMissingReason)

	inv, err := fx.workflow.Reject(pay.ID, "sender number mismatch")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, inv.Status)
}

func TestWorkflowVerifyNotesOptional(t *testing.T) {
	fx := setup(t)
	student := fx.student(t, "s1@test.com")
	batch := fx.publishedBatch(t, "WD", 5000, 10)

	invoice, err := fx.ledger.CreateInvoice(student.ID, batch.ID, 0)
	require.NoError(t, err)
	pay, err := fx.ledger.RecordPaymentSubmission(invoice.ID, PaymentSubmission{
		Amount: 5000, Method: models.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)

	inv, err := fx.workflow.Verify(pay.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)

	_, err = fx.workflow.Verify(404, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
