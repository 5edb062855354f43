package batchValidator

import (
	"lms/middleware"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

const dateLayout = "2006-01-02"

// CreateBatchRequest is the admin payload for a new batch. Code, slug and
// discount percentage are derived server-side and not accepted here.
type CreateBatchRequest struct {
	CourseID      uint     `json:"course_id" validate:"required"`
	Name          string   `json:"name"`
	CourseType    string   `json:"course_type" validate:"omitempty,oneof=online offline"`
	StartDate     string   `json:"start_date" validate:"required"`
	EndDate       string   `json:"end_date" validate:"required"`
	MaxStudents   int      `json:"max_students" validate:"required,min=1"`
	RegularPrice  *float64 `json:"regular_price" validate:"omitempty,gte=0"`
	DiscountPrice *float64 `json:"discount_price" validate:"omitempty,gte=0"`

	ParsedStart time.Time `json:"-"`
	ParsedEnd   time.Time `json:"-"`
}

func CreateBatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateBatchRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[strings.ToLower(fieldErr.Field())] = "Invalid value for " + fieldErr.Field() + "!"
			}
		}

		// Validate dates
		start, err := time.Parse(dateLayout, reqData.StartDate)
		if err != nil {
			errors["start_date"] = "Start date must be in YYYY-MM-DD format!"
		}
		end, err := time.Parse(dateLayout, reqData.EndDate)
		if err != nil {
			errors["end_date"] = "End date must be in YYYY-MM-DD format!"
		} else if !errorsHas(errors, "start_date") && !end.After(start) {
			errors["end_date"] = "End date must be after start date!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.ParsedStart = start
		reqData.ParsedEnd = end

		c.Locals("validatedBatch", reqData)
		return c.Next()
	}
}

// UpdateBatchRequest carries a partial admin edit; nil leaves a field alone.
type UpdateBatchRequest struct {
	Name          *string  `json:"name"`
	CourseType    *string  `json:"course_type" validate:"omitempty,oneof=online offline"`
	StartDate     *string  `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	MaxStudents   *int     `json:"max_students" validate:"omitempty,min=1"`
	RegularPrice  *float64 `json:"regular_price" validate:"omitempty,gte=0"`
	DiscountPrice *float64 `json:"discount_price" validate:"omitempty,gte=0"`

	ParsedStart *time.Time `json:"-"`
	ParsedEnd   *time.Time `json:"-"`
}

func UpdateBatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateBatchRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[strings.ToLower(fieldErr.Field())] = "Invalid value for " + fieldErr.Field() + "!"
			}
		}

		if reqData.StartDate != nil {
			start, err := time.Parse(dateLayout, *reqData.StartDate)
			if err != nil {
				errors["start_date"] = "Start date must be in YYYY-MM-DD format!"
			} else {
				reqData.ParsedStart = &start
			}
		}
		if reqData.EndDate != nil {
			end, err := time.Parse(dateLayout, *reqData.EndDate)
			if err != nil {
				errors["end_date"] = "End date must be in YYYY-MM-DD format!"
			} else {
				reqData.ParsedEnd = &end
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBatchUpdate", reqData)
		return c.Next()
	}
}

// UpdateStatusRequest moves a batch through its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published upcoming ongoing completed cancelled"`
}

func UpdateBatchStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateStatusRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "Status must be one of draft, published, upcoming, ongoing, completed, cancelled!",
			})
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}

// ToggleActiveRequest flips the display/archival flag.
type ToggleActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func ToggleActive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ToggleActiveRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.IsActive == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"is_active": "is_active is required!",
			})
		}

		c.Locals("validatedToggle", reqData)
		return c.Next()
	}
}

// BatchID validates the :id route parameter
func BatchID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Batch ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Batch ID!", nil)
		}

		c.Locals("batchID", uint(id))
		return c.Next()
	}
}

func errorsHas(errors map[string]string, key string) bool {
	_, ok := errors[key]
	return ok
}
