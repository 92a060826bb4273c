package presenters

import (
	"Matosinhos-Grocery-Backend/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data interface{}, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse renders a failure. Processing failures keep their structured
// (kind, detail) pair so the caller can render a precise message.
func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	response := Response{
		Status:  false,
		Message: message,
	}

	var processingErr *domain.ProcessingError
	if errors.As(err, &processingErr) {
		detail := fiber.Map{
			"kind":   processingErr.Kind,
			"detail": processingErr.Detail,
		}
		if processingErr.Err != nil {
			detail["cause"] = processingErr.Err.Error()
		}
		response.Error = detail
	} else if err != nil {
		response.Error = err.Error()
	}

	return c.Status(code).JSON(response)
}
