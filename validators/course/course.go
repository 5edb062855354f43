package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateCourseRequest is the admin payload for a catalog course.
type CreateCourseRequest struct {
	CourseCode     string   `json:"course_code" validate:"required,min=2,max=10,alphanum"`
	CourseShortcut string   `json:"course_shortcut"`
	Title          string   `json:"title" validate:"required,min=3"`
	Description    string   `json:"description"`
	RegularPrice   float64  `json:"regular_price" validate:"gte=0"`
	DiscountPrice  *float64 `json:"discount_price" validate:"omitempty,gte=0"`
	ThumbnailURL   string   `json:"thumbnail_url"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "CourseCode":
					errors["course_code"] = "Course code must be 2-10 alphanumeric characters!"
				case "Title":
					errors["title"] = "Title must be at least 3 characters long!"
				default:
					errors[strings.ToLower(fieldErr.Field())] = "Invalid value for " + fieldErr.Field() + "!"
				}
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.CourseCode = strings.ToUpper(strings.TrimSpace(reqData.CourseCode))

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CourseID validates the :id route parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", uint(id))
		return c.Next()
	}
}
