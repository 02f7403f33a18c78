package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderItem is the immutable snapshot of a cart row taken at submission time.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// OrderItems stores the item snapshot as a jsonb column. Rows whose payload
// is not a well-formed array of {id, name, price, quantity} are rejected at
// scan time so the rest of the code only ever sees validated items.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *OrderItems) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*o = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for order items: %T", value)
	}

	var items []OrderItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("malformed order items payload: %w", err)
	}
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 || item.Price < 0 {
			return errors.New("malformed order items payload: invalid item row")
		}
	}
	*o = items
	return nil
}

type Order struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	TableID      uuid.UUID `json:"table_id"`
	TableCode    string    `json:"table_code"`

	Items       OrderItems `gorm:"type:jsonb" json:"items"`
	TotalAmount float64    `json:"total_amount"`
	Status      string     `gorm:"default:pending;index" json:"status"`
	Notes       string     `json:"notes,omitempty"`

	// Exactly one of UserID / OrderToken carries ownership: authenticated
	// orders are looked up by user id, guest orders only by token.
	UserID     *uuid.UUID `gorm:"index" json:"user_id,omitempty"`
	OrderToken *string    `gorm:"index" json:"order_token,omitempty"`

	EstimatedCompletionAt *time.Time `json:"estimated_completion_at,omitempty"`

	Restaurant *Restaurant  `gorm:"foreignKey:RestaurantID"`
	Table      *DiningTable `gorm:"foreignKey:TableID"`
	User       *User        `gorm:"foreignKey:UserID"`
	Timestamp
}

type RestaurantVisit struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID       uuid.UUID `gorm:"index:idx_visits_user_restaurant,unique" json:"user_id"`
	RestaurantID uuid.UUID `gorm:"index:idx_visits_user_restaurant,unique" json:"restaurant_id"`
	FirstVisitAt time.Time `json:"first_visit_at"`
	LastVisitAt  time.Time `json:"last_visit_at"`
	VisitCount   int       `gorm:"default:1" json:"visit_count"`

	User       *User       `gorm:"foreignKey:UserID"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
	Timestamp
}
