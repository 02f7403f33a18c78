package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/internal/api/presenters"
	"github.com/m2-berezin/safedine-app/pkg/table"
)

type (
	TableHandler interface {
		GetRestaurants(c *fiber.Ctx) error
		GetTables(c *fiber.Ctx) error
		SelectTable(c *fiber.Ctx) error
		TableQR(c *fiber.Ctx) error
	}

	tableHandler struct {
		tableService table.TableService
		validator    *validator.Validate
	}
)

func NewTableHandler(tableService table.TableService, validator *validator.Validate) TableHandler {
	return &tableHandler{
		tableService: tableService,
		validator:    validator,
	}
}

func (h *tableHandler) GetRestaurants(c *fiber.Ctx) error {
	res, err := h.tableService.GetRestaurants(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRestaurants, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRestaurants)
}

func (h *tableHandler) GetTables(c *fiber.Ctx) error {
	restaurantID := c.Params("id")

	res, err := h.tableService.GetTables(c.Context(), restaurantID)
	if err != nil {
		if errors.Is(err, domain.ErrRestaurantNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetTables, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetTables, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTables)
}

func (h *tableHandler) SelectTable(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	req := new(domain.SelectTableRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	if err := h.tableService.SelectTable(c.Context(), sessionID, *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, req, fiber.StatusOK, domain.MessageSuccessSelectTable)
}

func (h *tableHandler) TableQR(c *fiber.Ctx) error {
	tableID := c.Params("id")

	png, err := h.tableService.TableQR(c.Context(), tableID)
	if err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGenerateQR, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGenerateQR, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
