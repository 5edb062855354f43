package paymentController

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/billing"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// Controller handles student-facing payment submissions.
type Controller struct {
	Ledger *billing.Ledger
}

func NewController(ledger *billing.Ledger) *Controller {
	return &Controller{Ledger: ledger}
}

// SubmitPayment records a pending payment claim against the student's own
// invoice. The claim has no financial effect until an admin verifies it.
func (ct *Controller) SubmitPayment(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	invoiceID := c.Locals("invoiceID").(uint)
	reqData, ok := c.Locals("validatedPayment").(*paymentValidator.SubmitPaymentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Students may only pay their own invoices
	invoice, err := ct.Ledger.GetInvoice(invoiceID)
	if err != nil {
		return respondPaymentError(c, err)
	}
	if invoice.StudentID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	payment, err := ct.Ledger.RecordPaymentSubmission(invoiceID, billing.PaymentSubmission{
		Amount:        reqData.Amount,
		Method:        models.PaymentMethod(reqData.Method),
		SenderNumber:  reqData.SenderNumber,
		TransactionID: reqData.TransactionID,
		ScreenshotURL: reqData.ScreenshotURL,
	})
	if err != nil {
		return respondPaymentError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment submitted! It will be reviewed by an admin.", payment)
}

// respondPaymentError maps billing errors to HTTP responses with the kind preserved
func respondPaymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, billing.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, billing.ErrInvalidAmount):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	case errors.Is(err, billing.ErrMissingReason):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	case errors.Is(err, billing.ErrAlreadyDecided):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
