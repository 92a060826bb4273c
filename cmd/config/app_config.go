package config

import (
	"Matosinhos-Grocery-Backend/internal/api/handlers"
	"Matosinhos-Grocery-Backend/internal/api/routes"
	"Matosinhos-Grocery-Backend/internal/middleware"
	"Matosinhos-Grocery-Backend/internal/utils"
	"Matosinhos-Grocery-Backend/internal/utils/storage"
	"Matosinhos-Grocery-Backend/pkg/extraction"
	"Matosinhos-Grocery-Backend/pkg/jwt"
	"Matosinhos-Grocery-Backend/pkg/receipt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         20 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up request logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/access.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Europe/Lisbon",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	receiptRepository := receipt.NewReceiptRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	extractor := extraction.NewOpenAIExtractor()
	receiptService := receipt.NewReceiptService(receiptRepository, extractor, s3)

	// Handler
	receiptHandler := handlers.NewReceiptHandler(receiptService, validator)
	authHandler := handlers.NewAuthHandler(jwtService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		ReceiptHandler: receiptHandler,
		AuthHandler:    authHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
