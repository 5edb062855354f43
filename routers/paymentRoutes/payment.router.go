package paymentRoutes

import (
	paymentController "lms/controllers/payment"
	"lms/middleware"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up payment submission and the admin review surface
func SetupPaymentRoutes(app *fiber.App, ctrl *paymentController.Controller, admin *paymentController.AdminController) {
	// Student submission
	app.Post("/invoice/:id/payment", middleware.JWTMiddleware,
		paymentValidator.SubmitPayment(), ctrl.SubmitPayment)

	// Admin review
	adminGroup := app.Group("/payment/admin")
	adminGroup.Get("/pending", middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"),
		admin.ListPendingPayments)
	adminGroup.Post("/:id/verify", middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"),
		paymentValidator.PaymentDecision(), admin.VerifyPayment)
	adminGroup.Post("/:id/reject", middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"),
		paymentValidator.PaymentDecision(), admin.RejectPayment)
}
