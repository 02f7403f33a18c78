package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessPlaceOrder   = "order placed successfully"
	MessageSuccessGetOrders    = "orders retrieved successfully"
	MessageSuccessGetOrder     = "order retrieved successfully"
	MessageSuccessUpdateStatus = "order status updated successfully"

	MessageFailedPlaceOrder   = "failed to place order"
	MessageFailedGetOrders    = "failed to retrieve orders"
	MessageFailedGetOrder     = "failed to retrieve order"
	MessageFailedUpdateStatus = "failed to update order status"
	MessageSelectTableFirst   = "please select a table first"

	ErrEmptyCart           = errors.New("cannot place an order with an empty cart")
	ErrMissingOrderContext = errors.New("restaurant and table are required")
	ErrTableResolution     = errors.New("table could not be resolved for this restaurant")
	ErrInvalidAmount       = errors.New("invalid order amount")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderSubmission     = errors.New("order submission failed")
	ErrStatusTransition    = errors.New("illegal order status transition")
)

type (
	PlaceOrderRequest struct {
		RestaurantID string `json:"restaurant_id" validate:"required"`
		TableID      string `json:"table_id" validate:"required"`
		TableCode    string `json:"table_code" validate:"required"`
		Notes        string `json:"notes" validate:"omitempty,max=500"`
	}

	PlaceOrderResponse struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		Status    string    `json:"status"`
		// Returned only for guest orders; the one chance the client has to
		// persist the token.
		OrderToken string `json:"order_token,omitempty"`
	}

	OrderItemResponse struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}

	OrderResponse struct {
		ID                    string              `json:"id"`
		RestaurantID          string              `json:"restaurant_id"`
		TableCode             string              `json:"table_code"`
		Items                 []OrderItemResponse `json:"items"`
		TotalAmount           float64             `json:"total_amount"`
		Status                string              `json:"status"`
		Notes                 string              `json:"notes,omitempty"`
		CreatedAt             time.Time           `json:"created_at"`
		EstimatedCompletionAt *time.Time          `json:"estimated_completion_at,omitempty"`
	}

	UpdateOrderStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready completed cancelled"`
	}
)
