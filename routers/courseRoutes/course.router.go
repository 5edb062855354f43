package courseRoutes

import (
	courseController "lms/controllers/course"
	"lms/middleware"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalog read routes and the admin create
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	courseGroup.Get("/list", courseController.GetAllCourses)
	courseGroup.Get("/:id", courseValidator.CourseID(), courseController.GetCourseDetails)

	adminGroup := courseGroup.Group("/admin")
	adminGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRoles("ADMIN"),
		courseValidator.CreateCourse(), courseController.AdminCreateCourse)
}
