package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/internal/api/presenters"
	"github.com/m2-berezin/safedine-app/internal/middleware"
	"github.com/m2-berezin/safedine-app/pkg/review"
)

type (
	ReviewHandler interface {
		CreateReview(c *fiber.Ctx) error
		GetReviews(c *fiber.Ctx) error
	}

	reviewHandler struct {
		reviewService review.ReviewService
		validator     *validator.Validate
	}
)

func NewReviewHandler(reviewService review.ReviewService, validator *validator.Validate) ReviewHandler {
	return &reviewHandler{
		reviewService: reviewService,
		validator:     validator,
	}
}

func (h *reviewHandler) CreateReview(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	orderToken := c.Get(middleware.HeaderOrderToken)
	req := new(domain.CreateReviewRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateReview, err)
	}

	res, err := h.reviewService.CreateReview(c.Context(), userID, orderToken, *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReviewOrderScope):
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedCreateReview, err)
		case errors.Is(err, domain.ErrReviewDuplicate):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCreateReview, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateReview, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateReview)
}

func (h *reviewHandler) GetReviews(c *fiber.Ctx) error {
	restaurantID := c.Params("id")

	res, err := h.reviewService.GetReviews(c.Context(), restaurantID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetReviews, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReviews)
}
