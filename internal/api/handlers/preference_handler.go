package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/internal/api/presenters"
	"github.com/m2-berezin/safedine-app/pkg/preferences"
)

type (
	PreferenceHandler interface {
		GetPreferences(c *fiber.Ctx) error
		SavePreferences(c *fiber.Ctx) error
		ResetPreferences(c *fiber.Ctx) error
		GetConsent(c *fiber.Ctx) error
		SetConsent(c *fiber.Ctx) error
	}

	preferenceHandler struct {
		preferenceService preferences.PreferenceService
		validator         *validator.Validate
	}
)

func NewPreferenceHandler(preferenceService preferences.PreferenceService, validator *validator.Validate) PreferenceHandler {
	return &preferenceHandler{
		preferenceService: preferenceService,
		validator:         validator,
	}
}

func (h *preferenceHandler) GetPreferences(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)

	prefs := h.preferenceService.Get(c.Context(), sessionID)
	return presenters.SuccessResponse(c, prefs, fiber.StatusOK, domain.MessageSuccessGetPreferences)
}

func (h *preferenceHandler) SavePreferences(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	userID, _ := c.Locals("user_id").(string)
	req := new(domain.SavePreferencesRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSavePreferences, err)
	}

	prefs := domain.Preferences{Allergens: req.Allergens, Diets: req.Diets}
	if err := h.preferenceService.Save(c.Context(), sessionID, prefs, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSavePreferences, err)
	}

	return presenters.SuccessResponse(c, prefs, fiber.StatusOK, domain.MessageSuccessSavePreferences)
}

func (h *preferenceHandler) ResetPreferences(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)

	if err := h.preferenceService.Reset(c.Context(), sessionID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSavePreferences, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessResetPreferences)
}

func (h *preferenceHandler) GetConsent(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)

	accepted := h.preferenceService.GetConsent(c.Context(), sessionID)
	return presenters.SuccessResponse(c, fiber.Map{"accepted": accepted}, fiber.StatusOK, domain.MessageSuccessGetPreferences)
}

func (h *preferenceHandler) SetConsent(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)

	req := struct {
		Accepted bool `json:"accepted"`
	}{}
	if err := c.BodyParser(&req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.preferenceService.SetConsent(c.Context(), sessionID, req.Accepted); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"accepted": req.Accepted}, fiber.StatusOK, domain.MessageSuccessSavePreferences)
}
