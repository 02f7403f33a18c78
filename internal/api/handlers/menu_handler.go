package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/internal/api/presenters"
	"github.com/m2-berezin/safedine-app/pkg/menu"
	"github.com/m2-berezin/safedine-app/pkg/preferences"
)

type (
	MenuHandler interface {
		GetMenu(c *fiber.Ctx) error
		UploadItemImage(c *fiber.Ctx) error
	}

	menuHandler struct {
		menuService       menu.MenuService
		preferenceService preferences.PreferenceService
		validator         *validator.Validate
	}
)

func NewMenuHandler(menuService menu.MenuService, preferenceService preferences.PreferenceService, validator *validator.Validate) MenuHandler {
	return &menuHandler{
		menuService:       menuService,
		preferenceService: preferenceService,
		validator:         validator,
	}
}

// GetMenu serves the active menu filtered for the session's saved
// preferences. ?safe_only=true drops unsafe items instead of annotating
// them.
func (h *menuHandler) GetMenu(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	restaurantID := c.Params("restaurantID")
	safeOnly := c.QueryBool("safe_only", false)

	prefs := h.preferenceService.Get(c.Context(), sessionID)

	res, err := h.menuService.GetMenu(c.Context(), restaurantID, prefs, safeOnly)
	if err != nil {
		if errors.Is(err, domain.ErrMenuNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetMenu, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMenu)
}

func (h *menuHandler) UploadItemImage(c *fiber.Ctx) error {
	req := new(domain.UploadItemImageRequest)
	req.ItemID = c.Params("id")

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadItemImage, err)
	}

	if err := h.menuService.UploadItemImage(c.Context(), *req); err != nil {
		if errors.Is(err, domain.ErrMenuItemNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUploadItemImage, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadItemImage, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUploadItemImage)
}
