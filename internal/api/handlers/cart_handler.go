package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/internal/api/presenters"
	"github.com/m2-berezin/safedine-app/pkg/cart"
)

type (
	CartHandler interface {
		GetCart(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		UpdateCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
	}

	cartHandler struct {
		cartService cart.CartService
		validator   *validator.Validate
	}
)

func NewCartHandler(cartService cart.CartService, validator *validator.Validate) CartHandler {
	return &cartHandler{
		cartService: cartService,
		validator:   validator,
	}
}

func (h *cartHandler) GetCart(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)

	res := h.cartService.Get(c.Context(), sessionID)
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCart)
}

func (h *cartHandler) AddToCart(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	req := new(domain.AddToCartRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToCart, err)
	}

	res, err := h.cartService.Add(c.Context(), sessionID, domain.CartItem{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAddToCart)
}

func (h *cartHandler) UpdateCart(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	req := new(domain.UpdateCartItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateCart, err)
	}

	res, err := h.cartService.SetQuantity(c.Context(), sessionID, req.ID, req.Quantity)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateCart)
}

// RemoveFromCart removes one item when ?item= is given and empties the
// whole cart otherwise.
func (h *cartHandler) RemoveFromCart(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	itemID := c.Query("item")

	if itemID == "" {
		if err := h.cartService.Clear(c.Context(), sessionID); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateCart, err)
		}
		return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessClearCart)
	}

	res, err := h.cartService.Remove(c.Context(), sessionID, itemID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateCart)
}
