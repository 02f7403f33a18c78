package entities

import (
	"github.com/google/uuid"
)

type LoyaltyProfile struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID            uuid.UUID `gorm:"uniqueIndex" json:"user_id"`
	Points            int       `gorm:"default:0" json:"points"`
	Tier              string    `gorm:"default:bronze" json:"tier"` // bronze, silver, gold, platinum
	TierProgress      int       `gorm:"default:0" json:"tier_progress"`
	TotalEarnedPoints int       `gorm:"default:0" json:"total_earned_points"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

type LoyaltyReward struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CostPoints  int       `json:"cost_points"`
	RewardType  string    `json:"reward_type"` // discount, free_item, points_multiplier
	MinTier     string    `gorm:"default:bronze" json:"min_tier"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	Timestamp
}

type LoyaltyTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID  `gorm:"index" json:"user_id"`
	TransactionType string     `json:"transaction_type"` // earned, redeemed
	Points          int        `json:"points"`
	Description     string     `json:"description"`
	OrderID         *uuid.UUID `json:"order_id,omitempty"`
	RewardID        *uuid.UUID `json:"reward_id,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
