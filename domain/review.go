package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateReview = "review submitted successfully"
	MessageSuccessGetReviews   = "reviews retrieved successfully"

	MessageFailedCreateReview = "failed to submit review"
	MessageFailedGetReviews   = "failed to retrieve reviews"

	ErrReviewDuplicate = errors.New("order has already been reviewed")
	ErrReviewOrderScope = errors.New("review must reference one of your own orders")
)

type (
	CreateReviewRequest struct {
		RestaurantID     string `json:"restaurant_id" validate:"required,uuid"`
		OrderID          string `json:"order_id" validate:"omitempty,uuid"`
		Rating           int    `json:"rating" validate:"required,min=1,max=5"`
		FoodRating       *int   `json:"food_rating" validate:"omitempty,min=1,max=5"`
		ServiceRating    *int   `json:"service_rating" validate:"omitempty,min=1,max=5"`
		AtmosphereRating *int   `json:"atmosphere_rating" validate:"omitempty,min=1,max=5"`
		Title            string `json:"title" validate:"omitempty,max=120"`
		Comment          string `json:"comment" validate:"omitempty,max=2000"`
		WouldRecommend   *bool  `json:"would_recommend"`
	}

	ReviewResponse struct {
		ID             string    `json:"id"`
		Rating         int       `json:"rating"`
		Title          string    `json:"title,omitempty"`
		Comment        string    `json:"comment,omitempty"`
		WouldRecommend *bool     `json:"would_recommend,omitempty"`
		CreatedAt      time.Time `json:"created_at"`
	}
)
