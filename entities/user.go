package entities

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name     string    `json:"name"`
	Email    string    `gorm:"uniqueIndex" json:"email"`
	Password string    `json:"-"`
	Role     string    `json:"role"` // "user" or "staff"

	// Synced copy of the device-local dietary preferences, written on save
	// when the diner is signed in.
	Allergens pq.StringArray `gorm:"type:text[]" json:"allergens"`
	Diets     pq.StringArray `gorm:"type:text[]" json:"diets"`

	Timestamp
}
