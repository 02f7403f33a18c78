package domain

import (
	"errors"
)

var (
	MessageSuccessGetRestaurants = "restaurants retrieved successfully"
	MessageSuccessGetTables      = "tables retrieved successfully"
	MessageSuccessSelectTable    = "table selected successfully"

	MessageFailedGetRestaurants = "failed to retrieve restaurants"
	MessageFailedGetTables      = "failed to retrieve tables"
	MessageFailedGenerateQR     = "failed to generate table QR code"

	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrTableNotFound      = errors.New("table not found")
)

type (
	RestaurantResponse struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Address  string `json:"address"`
		ImageURL string `json:"image_url,omitempty"`
	}

	TableResponse struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}

	SelectTableRequest struct {
		RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
		TableID      string `json:"table_id" validate:"required"`
		TableCode    string `json:"table_code" validate:"required"`
	}
)
