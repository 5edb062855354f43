package enrollmentController

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/batchsvc"
	"lms/services/billing"
	"lms/utils"
	enrollmentValidator "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// Controller turns an enrollment request into an invoice.
type Controller struct {
	Batches *batchsvc.Service
	Ledger  *billing.Ledger
	Promo   utils.PromoValidator
}

func NewController(batches *batchsvc.Service, ledger *billing.Ledger, promo utils.PromoValidator) *Controller {
	return &Controller{Batches: batches, Ledger: ledger, Promo: promo}
}

// EnrollInBatch creates the invoice for one (student, batch) enrollment.
// An optional promo code is resolved by the external promo service; the
// returned discount is untrusted and clamped by the ledger.
func (ct *Controller) EnrollInBatch(c *fiber.Ctx) error {
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

	batchID := c.Locals("batchID").(uint)
	reqData, _ := c.Locals("validatedEnroll").(*enrollmentValidator.EnrollRequest)

	discountAmount := 0.0
	if reqData != nil && reqData.PromoCode != "" {
		_, pricing, err := ct.Batches.GetBatch(batchID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Batch not found!", nil)
		}

		discountAmount, err = ct.Promo.Validate(reqData.PromoCode, pricing.EffectiveAmount())
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Promo code validation failed!", nil)
		}
		if discountAmount == 0 {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Invalid promo code!", nil)
		}
	}

	invoice, err := ct.Ledger.CreateInvoice(userID, batchID, discountAmount)
	if err != nil {
		return respondBillingError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully! Complete payment to confirm your seat.", invoice)
}

// GetMyInvoices returns the student's invoices with the derived overdue view
func (ct *Controller) GetMyInvoices(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	invoices, err := ct.Ledger.ListStudentInvoices(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch invoices!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Invoices fetched successfully!", invoices)
}

// GetInvoice returns one invoice; students may only read their own
func (ct *Controller) GetInvoice(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	invoiceID := c.Locals("invoiceID").(uint)

	invoice, err := ct.Ledger.GetInvoice(invoiceID)
	if err != nil {
		return respondBillingError(c, err)
	}

	if invoice.StudentID != userID {
		var user models.User
		if err := database.Database.Db.Where("id = ? AND role IN ? AND is_deleted = ?",
			userID, []string{"ADMIN", "MENTOR"}, false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Invoice fetched successfully!", invoice)
}

// respondBillingError maps ledger errors to HTTP responses with the kind preserved
func respondBillingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, billing.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, billing.ErrDuplicateEnrollment):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, billing.ErrBatchNotOpen):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, billing.ErrInvalidAmount):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
