package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/internal/api/presenters"
	"github.com/m2-berezin/safedine-app/pkg/loyalty"
)

type (
	LoyaltyHandler interface {
		GetLoyalty(c *fiber.Ctx) error
		RedeemReward(c *fiber.Ctx) error
	}

	loyaltyHandler struct {
		loyaltyService loyalty.LoyaltyService
		validator      *validator.Validate
	}
)

func NewLoyaltyHandler(loyaltyService loyalty.LoyaltyService, validator *validator.Validate) LoyaltyHandler {
	return &loyaltyHandler{
		loyaltyService: loyaltyService,
		validator:      validator,
	}
}

func (h *loyaltyHandler) GetLoyalty(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.loyaltyService.GetOverview(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetLoyalty, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLoyalty)
}

func (h *loyaltyHandler) RedeemReward(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RedeemRewardRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRedeemReward, err)
	}

	res, err := h.loyaltyService.RedeemReward(c.Context(), userID, req.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRewardNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRedeemReward, err)
		case errors.Is(err, domain.ErrInsufficientPoints),
			errors.Is(err, domain.ErrTierTooLow):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedRedeemReward, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRedeemReward, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRedeemReward)
}
