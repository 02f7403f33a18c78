package entities

import (
	"github.com/google/uuid"
)

type Location struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name string    `json:"name"`
	City string    `json:"city"`

	Restaurants []*Restaurant `gorm:"foreignKey:LocationID"`
	Timestamp
}

type Restaurant struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	LocationID uuid.UUID `json:"location_id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	ImageURL   string    `json:"image_url,omitempty"`

	Location *Location      `gorm:"foreignKey:LocationID"`
	Tables   []*DiningTable `gorm:"foreignKey:RestaurantID"`
	Timestamp
}

type DiningTable struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID uuid.UUID `gorm:"index:idx_tables_restaurant_code,unique" json:"restaurant_id"`
	Code         string    `gorm:"index:idx_tables_restaurant_code,unique" json:"code"` // human-facing, e.g. "T12"

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
	Timestamp
}
