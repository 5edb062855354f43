package enrollmentRoutes

import (
	enrollmentController "lms/controllers/enrollment"
	"lms/middleware"
	enrollmentValidator "lms/validators/enrollment"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up enrollment and student invoice reads
func SetupEnrollmentRoutes(app *fiber.App, ctrl *enrollmentController.Controller) {
	app.Post("/batch/:id/enroll", middleware.JWTMiddleware,
		enrollmentValidator.EnrollBatch(), ctrl.EnrollInBatch)

	invoiceGroup := app.Group("/invoice")
	invoiceGroup.Get("/my", middleware.JWTMiddleware, ctrl.GetMyInvoices)
	invoiceGroup.Get("/:id", middleware.JWTMiddleware, paymentValidator.InvoiceID(), ctrl.GetInvoice)
}
