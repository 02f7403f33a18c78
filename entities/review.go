package entities

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID uuid.UUID  `gorm:"index" json:"restaurant_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	OrderID      *uuid.UUID `gorm:"index" json:"order_id,omitempty"`

	Rating           int     `json:"rating"` // 1..5
	FoodRating       *int    `json:"food_rating,omitempty"`
	ServiceRating    *int    `json:"service_rating,omitempty"`
	AtmosphereRating *int    `json:"atmosphere_rating,omitempty"`
	Title            string  `json:"title,omitempty"`
	Comment          string  `json:"comment,omitempty"`
	WouldRecommend   *bool   `json:"would_recommend,omitempty"`
	VisitDate        *time.Time `json:"visit_date,omitempty"`

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
	User       *User       `gorm:"foreignKey:UserID"`
	Order      *Order      `gorm:"foreignKey:OrderID"`
	Timestamp
}
