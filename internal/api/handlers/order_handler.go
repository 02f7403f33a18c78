package handlers

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/internal/api/presenters"
	"github.com/m2-berezin/safedine-app/internal/middleware"
	"github.com/m2-berezin/safedine-app/pkg/order"
	"github.com/m2-berezin/safedine-app/pkg/tracking"
)

type (
	OrderHandler interface {
		PlaceOrder(c *fiber.Ctx) error
		GetOrders(c *fiber.Ctx) error
		GetOrder(c *fiber.Ctx) error
		GetTracking(c *fiber.Ctx) error
		UpdateStatus(c *fiber.Ctx) error
		WSUpgrade(c *fiber.Ctx) error
		OrderSocket(c *websocket.Conn)
	}

	orderHandler struct {
		orderService order.OrderService
		hub          *tracking.Hub
		validator    *validator.Validate
	}
)

func NewOrderHandler(orderService order.OrderService, hub *tracking.Hub, validator *validator.Validate) OrderHandler {
	return &orderHandler{
		orderService: orderService,
		hub:          hub,
		validator:    validator,
	}
}

func (h *orderHandler) PlaceOrder(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	userID, _ := c.Locals("user_id").(string)
	req := new(domain.PlaceOrderRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageSelectTableFirst, err)
	}

	res, err := h.orderService.Submit(c.Context(), sessionID, userID, *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart),
			errors.Is(err, domain.ErrInvalidAmount):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedPlaceOrder, err)
		case errors.Is(err, domain.ErrMissingOrderContext),
			errors.Is(err, domain.ErrTableResolution):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageSelectTableFirst, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedPlaceOrder, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessPlaceOrder)
}

func (h *orderHandler) GetOrders(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	userID, _ := c.Locals("user_id").(string)

	res := h.orderService.FetchOrders(c.Context(), sessionID, userID)
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetOrders)
}

func (h *orderHandler) GetOrder(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	orderID := c.Params("id")
	orderToken := c.Get(middleware.HeaderOrderToken)

	res, err := h.orderService.GetOrder(c.Context(), orderID, userID, orderToken)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetOrder, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetOrder, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetOrder)
}

func (h *orderHandler) GetTracking(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	res := h.orderService.TrackingSnapshot(c.Context(), sessionID, userID, role == domain.RoleStaff)
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTracking)
}

func (h *orderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	req := new(domain.UpdateOrderStatusRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateStatus, err)
	}

	res, err := h.orderService.UpdateStatus(c.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateStatus, err)
		case errors.Is(err, domain.ErrStatusTransition):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedUpdateStatus, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateStatus, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateStatus)
}

func (h *orderHandler) WSUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// OrderSocket streams tracking snapshots. The client gets the current
// snapshot on connect and a fresh one after every feed event that changed
// its tracker; a dead connection tears the subscription down. The tracker
// scope follows the caller's identity: only staff get the unscoped view,
// guests are confined to their session's token-held orders.
func (h *orderHandler) OrderSocket(c *websocket.Conn) {
	sessionID, _ := c.Locals("session_id").(string)
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	ctx := context.Background()
	tracker := h.orderService.TrackerFor(ctx, sessionID, userID, role == domain.RoleStaff)

	// The notify callback runs on the feed consumer goroutine while this
	// goroutine owns the connection; a buffered signal channel keeps all
	// writes here.
	updates := make(chan struct{}, 1)
	sub := h.hub.Subscribe(tracker, func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := c.WriteJSON(tracker.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case <-updates:
			if err := c.WriteJSON(tracker.Snapshot()); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
