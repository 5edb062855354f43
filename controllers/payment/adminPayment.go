package paymentController

import (
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/billing"
	"lms/utils"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// AdminController is the admin review surface over pending payment claims.
type AdminController struct {
	Workflow *billing.Workflow
}

func NewAdminController(workflow *billing.Workflow) *AdminController {
	return &AdminController{Workflow: workflow}
}

// ListPendingPayments returns pending claims across all invoices, oldest first
func (ct *AdminController) ListPendingPayments(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	payments, total, err := ct.Workflow.ListPending(offset, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending payments fetched!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// VerifyPayment accepts a pending claim and returns the recomputed invoice
func (ct *AdminController) VerifyPayment(c *fiber.Ctx) error {
	paymentID := c.Locals("paymentID").(uint)

	reqData, ok := c.Locals("validatedDecision").(*paymentValidator.DecisionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	invoice, err := ct.Workflow.Verify(paymentID, reqData.Notes)
	if err != nil {
		return respondPaymentError(c, err)
	}

	go notifyDecision(paymentID, invoice, true, "")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully!", invoice)
}

// RejectPayment refuses a pending claim; the reason is mandatory
func (ct *AdminController) RejectPayment(c *fiber.Ctx) error {
	paymentID := c.Locals("paymentID").(uint)

	reqData, ok := c.Locals("validatedDecision").(*paymentValidator.DecisionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	invoice, err := ct.Workflow.Reject(paymentID, reqData.Reason)
	if err != nil {
		return respondPaymentError(c, err)
	}

	go notifyDecision(paymentID, invoice, false, reqData.Reason)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment rejected.", invoice)
}

// notifyDecision emails the student about a decision. Runs detached from the
// request; a mail failure only logs.
func notifyDecision(paymentID uint, invoice *models.Invoice, verified bool, reason string) {
	db := database.Database.Db

	var student models.User
	if err := db.Where("id = ?", invoice.StudentID).First(&student).Error; err != nil {
		log.Printf("[PAYMENT] Could not load student %d for notification: %v", invoice.StudentID, err)
		return
	}

	if verified {
		var payment models.Payment
		if err := db.Where("id = ?", paymentID).First(&payment).Error; err != nil {
			log.Printf("[PAYMENT] Could not load payment %d for notification: %v", paymentID, err)
			return
		}
		utils.SendPaymentVerifiedEmail(student.Email, student.Name,
			invoice.InvoiceNumber, payment.Amount, invoice.RemainingAmount)
		return
	}

	utils.SendPaymentRejectedEmail(student.Email, student.Name, invoice.InvoiceNumber, reason)
}
