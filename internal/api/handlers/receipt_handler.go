package handlers

import (
	"Matosinhos-Grocery-Backend/domain"
	"Matosinhos-Grocery-Backend/internal/api/presenters"
	"Matosinhos-Grocery-Backend/pkg/receipt"
	"errors"
	"io"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReceiptHandler interface {
		ProcessReceipt(c *fiber.Ctx) error
		GetReceipts(c *fiber.Ctx) error
		GetReceiptDetails(c *fiber.Ctx) error
		GetPriceHistory(c *fiber.Ctx) error
		GetStores(c *fiber.Ctx) error
	}

	receiptHandler struct {
		receiptService receipt.ReceiptService
		validator      *validator.Validate
	}
)

func NewReceiptHandler(receiptService receipt.ReceiptService, validator *validator.Validate) ReceiptHandler {
	return &receiptHandler{
		receiptService: receiptService,
		validator:      validator,
	}
}

func (h *receiptHandler) ProcessReceipt(c *fiber.Ctx) error {
	req := new(domain.ProcessReceiptRequest)

	file, err := c.FormFile("receipt")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Receipt = file
	req.Category = c.FormValue("category")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessReceipt, err)
	}

	source, err := file.Open()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	defer source.Close()

	content, err := io.ReadAll(source)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.receiptService.Process(c.Context(), content, file.Filename, req.Category)
	if err != nil {
		return presenters.ErrorResponse(c, statusForProcessingError(err), domain.MessageFailedProcessReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessProcessReceipt)
}

func (h *receiptHandler) GetReceipts(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	receipts, count, err := h.receiptService.GetReceipts(c.Context(), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetReceipts, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"receipts": receipts,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetReceipts)
}

func (h *receiptHandler) GetReceiptDetails(c *fiber.Ctx) error {
	baseID := c.Params("base_id")
	extension := c.Params("extension")

	res, err := h.receiptService.GetReceiptByKey(c.Context(), baseID, extension)
	if err != nil {
		if errors.Is(err, domain.ErrReceiptNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetReceipt, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReceipt)
}

func (h *receiptHandler) GetPriceHistory(c *fiber.Ctx) error {
	store := c.Query("store")
	product := c.Query("product")

	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit < 1 {
		limit = 100
	}

	history, err := h.receiptService.GetPriceHistory(c.Context(), store, product, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetPriceHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"price_logs": history,
	}, fiber.StatusOK, domain.MessageSuccessGetPriceHistory)
}

func (h *receiptHandler) GetStores(c *fiber.Ctx) error {
	stores, err := h.receiptService.GetStores(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetStores, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"stores": stores,
	}, fiber.StatusOK, domain.MessageSuccessGetStores)
}

func statusForProcessingError(err error) int {
	kind, ok := domain.KindOf(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch kind {
	case domain.ErrorKindValidation:
		return fiber.StatusBadRequest
	case domain.ErrorKindExtraction:
		return fiber.StatusUnprocessableEntity
	case domain.ErrorKindArchival:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
