package batchController

import (
	"lms/middleware"
	"lms/models"
	"lms/services/batchsvc"

	"github.com/gofiber/fiber/v2"
)

// Controller exposes public batch reads with resolved pricing.
type Controller struct {
	Batches *batchsvc.Service
}

func NewController(batches *batchsvc.Service) *Controller {
	return &Controller{Batches: batches}
}

// GetBatch returns one batch with its effective pricing
func (ct *Controller) GetBatch(c *fiber.Ctx) error {
	batchID := c.Locals("batchID").(uint)

	batch, pricing, err := ct.Batches.GetBatch(batchID)
	if err != nil {
		return respondBatchError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch fetched successfully!", fiber.Map{
		"batch":   batch,
		"pricing": pricing,
	})
}

// GetBatchBySlug returns one batch by its marketing slug
func (ct *Controller) GetBatchBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	batch, pricing, err := ct.Batches.GetBatchBySlug(slug)
	if err != nil {
		return respondBatchError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch fetched successfully!", fiber.Map{
		"batch":   batch,
		"pricing": pricing,
	})
}

// ListBatches returns batches with pagination, optionally filtered by status
func (ct *Controller) ListBatches(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	batches, total, err := ct.Batches.ListBatches(models.BatchStatus(status), offset, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch batches!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batches fetched successfully!", fiber.Map{
		"batches": batches,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
