package paymentValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// SubmitPaymentRequest is a student's payment claim against an invoice.
type SubmitPaymentRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Method        string  `json:"method" validate:"required,oneof=bkash nagad bank_transfer cash"`
	SenderNumber  string  `json:"sender_number"`
	TransactionID string  `json:"transaction_id"`
	ScreenshotURL string  `json:"screenshot_url"`
}

func SubmitPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		invoiceIDStr := strings.TrimSpace(c.Params("id"))
		invoiceID, err := strconv.Atoi(invoiceIDStr)
		if err != nil || invoiceID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Invoice ID!", nil)
		}

		reqData := new(SubmitPaymentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Amount":
					errors["amount"] = "Amount must be greater than 0!"
				case "Method":
					errors["method"] = "Method must be one of bkash, nagad, bank_transfer, cash!"
				}
			}
		}

		// Mobile-banking claims need the sender number for manual matching
		if (reqData.Method == "bkash" || reqData.Method == "nagad") &&
			strings.TrimSpace(reqData.SenderNumber) == "" {
			errors["sender_number"] = "Sender number is required for mobile banking payments!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("invoiceID", uint(invoiceID))
		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}

// DecisionRequest carries an admin's verify notes or reject reason. The
// reject-requires-reason rule is owned by the billing service so the error
// kind survives to the response.
type DecisionRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

func PaymentDecision() fiber.Handler {
	return func(c *fiber.Ctx) error {
		paymentIDStr := strings.TrimSpace(c.Params("id"))
		paymentID, err := strconv.Atoi(paymentIDStr)
		if err != nil || paymentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payment ID!", nil)
		}

		reqData := new(DecisionRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		c.Locals("paymentID", uint(paymentID))
		c.Locals("validatedDecision", reqData)
		return c.Next()
	}
}

// InvoiceID validates the :id route parameter for invoice reads
func InvoiceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Invoice ID!", nil)
		}

		c.Locals("invoiceID", uint(id))
		return c.Next()
	}
}
