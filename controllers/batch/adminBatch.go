package batchController

import (
	"errors"

	"lms/middleware"
	"lms/models"
	"lms/services/batchsvc"
	batchValidator "lms/validators/batch"

	"github.com/gofiber/fiber/v2"
)

// AdminController exposes the batch lifecycle to admins and mentors.
type AdminController struct {
	Batches *batchsvc.Service
}

func NewAdminController(batches *batchsvc.Service) *AdminController {
	return &AdminController{Batches: batches}
}

// AdminCreateBatch provisions a new batch: code, slug and pricing are derived
// server-side before a single insert
func (ct *AdminController) AdminCreateBatch(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedBatch").(*batchValidator.CreateBatchRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	courseType := models.CourseTypeOnline
	if reqData.CourseType != "" {
		courseType = models.CourseType(reqData.CourseType)
	}

	batch, err := ct.Batches.CreateBatch(batchsvc.CreateBatchInput{
		CourseID:      reqData.CourseID,
		Name:          reqData.Name,
		CourseType:    courseType,
		StartDate:     reqData.ParsedStart,
		EndDate:       reqData.ParsedEnd,
		MaxStudents:   reqData.MaxStudents,
		RegularPrice:  reqData.RegularPrice,
		DiscountPrice: reqData.DiscountPrice,
	})
	if err != nil {
		return respondBatchError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Batch created successfully!", batch)
}

// AdminUpdateBatch applies an explicit admin edit; identifiers stay immutable
func (ct *AdminController) AdminUpdateBatch(c *fiber.Ctx) error {
	batchID := c.Locals("batchID").(uint)

	reqData, ok := c.Locals("validatedBatchUpdate").(*batchValidator.UpdateBatchRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	in := batchsvc.UpdateBatchInput{
		Name:          reqData.Name,
		StartDate:     reqData.ParsedStart,
		EndDate:       reqData.ParsedEnd,
		MaxStudents:   reqData.MaxStudents,
		RegularPrice:  reqData.RegularPrice,
		DiscountPrice: reqData.DiscountPrice,
	}
	if reqData.CourseType != nil {
		courseType := models.CourseType(*reqData.CourseType)
		in.CourseType = &courseType
	}

	batch, err := ct.Batches.UpdateBatch(batchID, in)
	if err != nil {
		return respondBatchError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch updated successfully!", batch)
}

// AdminUpdateBatchStatus moves a batch through its lifecycle
func (ct *AdminController) AdminUpdateBatchStatus(c *fiber.Ctx) error {
	batchID := c.Locals("batchID").(uint)

	reqData, ok := c.Locals("validatedStatus").(*batchValidator.UpdateStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	batch, err := ct.Batches.UpdateStatus(batchID, models.BatchStatus(reqData.Status))
	if err != nil {
		return respondBatchError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch status updated successfully!", batch)
}

// AdminToggleBatchActive flips the display flag; allowed on terminal batches
func (ct *AdminController) AdminToggleBatchActive(c *fiber.Ctx) error {
	batchID := c.Locals("batchID").(uint)

	reqData, ok := c.Locals("validatedToggle").(*batchValidator.ToggleActiveRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	batch, err := ct.Batches.SetActive(batchID, *reqData.IsActive)
	if err != nil {
		return respondBatchError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Batch visibility updated!", batch)
}

// respondBatchError maps service errors to HTTP responses, preserving the
// error kind in the message rather than collapsing to a generic failure
func respondBatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, batchsvc.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Batch not found!", nil)
	case errors.Is(err, batchsvc.ErrGeneration):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	case errors.Is(err, batchsvc.ErrInvalidDateRange):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	case errors.Is(err, batchsvc.ErrCapacityExceeded):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, batchsvc.ErrInvalidTransition):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
