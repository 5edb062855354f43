package batchRoutes

import (
	batchController "lms/controllers/batch"
	"lms/middleware"
	batchValidator "lms/validators/batch"

	"github.com/gofiber/fiber/v2"
)

// SetupBatchRoutes sets up public batch reads and the admin lifecycle surface
func SetupBatchRoutes(app *fiber.App, public *batchController.Controller, admin *batchController.AdminController) {
	batchGroup := app.Group("/batch")

	// Public reads (resolved pricing included)
	batchGroup.Get("/list", public.ListBatches)
	batchGroup.Get("/slug/:slug", public.GetBatchBySlug)
	batchGroup.Get("/:id", batchValidator.BatchID(), public.GetBatch)

	// Admin lifecycle
	adminGroup := batchGroup.Group("/admin")
	adminGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRoles("ADMIN", "MENTOR"),
		batchValidator.CreateBatch(), admin.AdminCreateBatch)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"),
		batchValidator.BatchID(), batchValidator.UpdateBatch(), admin.AdminUpdateBatch)
	adminGroup.Put("/:id/status", middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"),
		batchValidator.BatchID(), batchValidator.UpdateBatchStatus(), admin.AdminUpdateBatchStatus)
	adminGroup.Put("/:id/active", middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"),
		batchValidator.BatchID(), batchValidator.ToggleActive(), admin.AdminToggleBatchActive)
}
