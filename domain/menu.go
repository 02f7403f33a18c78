package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessGetMenu         = "menu retrieved successfully"
	MessageSuccessUploadItemImage = "menu item image uploaded successfully"

	MessageFailedGetMenu         = "failed to retrieve menu"
	MessageFailedUploadItemImage = "failed to upload menu item image"

	ErrMenuNotFound     = errors.New("no active menu for restaurant")
	ErrMenuItemNotFound = errors.New("menu item not found")
)

type (
	MenuItemResponse struct {
		ID              string   `json:"id"`
		Name            string   `json:"name"`
		Description     string   `json:"description,omitempty"`
		Price           float64  `json:"price"`
		Allergens       []string `json:"allergens"`
		DietaryInfo     []string `json:"dietary_info"`
		IsPopular       bool     `json:"is_popular"`
		IsSafe          bool     `json:"is_safe"`
		PreparationTime *int     `json:"preparation_time,omitempty"`
		Calories        *int     `json:"calories,omitempty"`
		SpiceLevel      *int     `json:"spice_level,omitempty"`
		ImageURL        string   `json:"image_url,omitempty"`
	}

	MenuCategoryResponse struct {
		ID    string             `json:"id"`
		Name  string             `json:"name"`
		Items []MenuItemResponse `json:"items"`
	}

	MenuResponse struct {
		ID         string                 `json:"id"`
		Name       string                 `json:"name"`
		Categories []MenuCategoryResponse `json:"categories"`
	}

	UploadItemImageRequest struct {
		ItemID string                `json:"item_id" form:"item_id" validate:"required,uuid"`
		Image  *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}
)
