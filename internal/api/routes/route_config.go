package routes

import (
	"Matosinhos-Grocery-Backend/internal/api/handlers"
	"Matosinhos-Grocery-Backend/internal/middleware"
	"Matosinhos-Grocery-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	ReceiptHandler handlers.ReceiptHandler
	AuthHandler    handlers.AuthHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Receipts()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/api/v1/auth/token", c.AuthHandler.IssueToken)
}

func (c *Config) Receipts() {
	receipts := c.App.Group("/api/v1", c.Middleware.AuthMiddleware(c.JWTService))

	receipts.Post("/receipts", c.ReceiptHandler.ProcessReceipt)
	receipts.Get("/receipts", c.ReceiptHandler.GetReceipts)
	receipts.Get("/receipts/:base_id/:extension", c.ReceiptHandler.GetReceiptDetails)

	receipts.Get("/price-logs", c.ReceiptHandler.GetPriceHistory)
	receipts.Get("/stores", c.ReceiptHandler.GetStores)
}
