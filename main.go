package main

import (
	"log"

	"lms/config"
	batchController "lms/controllers/batch"
	enrollmentController "lms/controllers/enrollment"
	paymentController "lms/controllers/payment"
	"lms/database"
	batchRoutes "lms/routers/batchRoutes"
	courseRoutes "lms/routers/courseRoutes"
	enrollmentRoutes "lms/routers/enrollmentRoutes"
	paymentRoutes "lms/routers/paymentRoutes"
	"lms/services/batchsvc"
	"lms/services/billing"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	// Core services share one explicitly passed storage handle
	batches := batchsvc.NewService(db)
	ledger := billing.NewLedger(db, batches, config.AppConfig.InvoiceDueDays)
	workflow := billing.NewWorkflow(db, ledger)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	courseRoutes.SetupCourseRoutes(app)
	batchRoutes.SetupBatchRoutes(app,
		batchController.NewController(batches),
		batchController.NewAdminController(batches))
	enrollmentRoutes.SetupEnrollmentRoutes(app,
		enrollmentController.NewController(batches, ledger, utils.NewPromoClient()))
	paymentRoutes.SetupPaymentRoutes(app,
		paymentController.NewController(ledger),
		paymentController.NewAdminController(workflow))

	// Persist the derived overdue view daily for reporting queries
	utils.InitializeOverdueScheduler(ledger)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
