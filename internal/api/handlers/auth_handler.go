package handlers

import (
	"Matosinhos-Grocery-Backend/domain"
	"Matosinhos-Grocery-Backend/internal/api/presenters"
	"Matosinhos-Grocery-Backend/internal/utils"
	"Matosinhos-Grocery-Backend/pkg/jwt"
	"crypto/subtle"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AuthHandler interface {
		IssueToken(c *fiber.Ctx) error
	}

	authHandler struct {
		jwtService jwt.JWTService
		validator  *validator.Validate
	}
)

func NewAuthHandler(jwtService jwt.JWTService, validator *validator.Validate) AuthHandler {
	return &authHandler{
		jwtService: jwtService,
		validator:  validator,
	}
}

// IssueToken exchanges the configured admin API key for a short-lived JWT
// used on the administrative routes.
func (h *authHandler) IssueToken(c *fiber.Ctx) error {
	req := new(domain.IssueTokenRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedIssueToken, err)
	}

	adminKey := utils.GetConfig("ADMIN_API_KEY")
	if adminKey == "" || subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(adminKey)) != 1 {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedIssueToken, domain.ErrInvalidAPIKey)
	}

	token := h.jwtService.GenerateTokenUser("admin", domain.RoleAdmin)

	return presenters.SuccessResponse(c, domain.IssueTokenResponse{Token: token}, fiber.StatusOK, domain.MessageSuccessIssueToken)
}
