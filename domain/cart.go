package domain

import (
	"errors"
)

var (
	MessageSuccessGetCart    = "cart retrieved successfully"
	MessageSuccessAddToCart  = "item added to cart"
	MessageSuccessUpdateCart = "cart updated successfully"
	MessageSuccessClearCart  = "cart cleared successfully"

	MessageFailedGetCart    = "failed to retrieve cart"
	MessageFailedAddToCart  = "failed to add item to cart"
	MessageFailedUpdateCart = "failed to update cart"

	ErrCartItemInvalid = errors.New("cart item must have an id, a name and a non-negative price")
)

type (
	CartItem struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}

	AddToCartRequest struct {
		ID    string  `json:"id" validate:"required"`
		Name  string  `json:"name" validate:"required"`
		Price float64 `json:"price" validate:"gte=0"`
	}

	UpdateCartItemRequest struct {
		ID       string `json:"id" validate:"required"`
		Quantity int    `json:"quantity"`
	}

	CartResponse struct {
		Items []CartItem `json:"items"`
		Total float64    `json:"total"`
	}
)
