package enrollmentValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// EnrollRequest is the optional body for an enrollment; the promo code is
// validated by the external promo service, not here.
type EnrollRequest struct {
	PromoCode string `json:"promo_code"`
}

func EnrollBatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		batchIDStr := strings.TrimSpace(c.Params("id"))
		if batchIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Batch ID is required!", nil)
		}

		batchID, err := strconv.Atoi(batchIDStr)
		if err != nil || batchID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Batch ID!", nil)
		}

		reqData := new(EnrollRequest)
		// Body is optional; ignore parse errors on an empty body
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		c.Locals("batchID", uint(batchID))
		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}
