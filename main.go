package main

import (
	"academy/config"
	"academy/database"
	authRoutes "academy/routers/authRoutes"
	consultationRoutes "academy/routers/consultationRoutes"
	courseRoutes "academy/routers/courseRoutes"
	notificationRoutes "academy/routers/notificationRoutes"
	paymentRoutes "academy/routers/paymentRoutes"
	userRoutes "academy/routers/userRoutes"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	userRoutes.SetupUserRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	consultationRoutes.SetupConsultationRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)

	utils.InitializeReminderScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
