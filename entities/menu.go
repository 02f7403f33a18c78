package entities

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Menu struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Name         string    `json:"name"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`

	Restaurant *Restaurant     `gorm:"foreignKey:RestaurantID"`
	Categories []*MenuCategory `gorm:"foreignKey:MenuID"`
	Timestamp
}

type MenuCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MenuID       uuid.UUID `json:"menu_id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`

	Menu  *Menu       `gorm:"foreignKey:MenuID"`
	Items []*MenuItem `gorm:"foreignKey:CategoryID"`
	Timestamp
}

type MenuItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`

	// Allergen and diet codes from the closed vocabulary shared with the
	// menu data source (see domain.AllergenCodes / domain.DietCodes).
	Allergens   pq.StringArray `gorm:"type:text[]" json:"allergens"`
	DietaryInfo pq.StringArray `gorm:"type:text[]" json:"dietary_info"`

	IsAvailable     bool   `gorm:"default:true" json:"is_available"`
	IsPopular       bool   `gorm:"default:false" json:"is_popular"`
	PreparationTime *int   `json:"preparation_time,omitempty"` // minutes
	Calories        *int   `json:"calories,omitempty"`
	SpiceLevel      *int   `json:"spice_level,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`

	Category *MenuCategory `gorm:"foreignKey:CategoryID"`
	Timestamp
}
