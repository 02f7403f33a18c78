package loyalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/entities"
	"gorm.io/gorm"
)

type (
	LoyaltyRepository interface {
		GetProfileByUser(ctx context.Context, userID uuid.UUID) (*entities.LoyaltyProfile, error)
		CreateProfile(ctx context.Context, profile *entities.LoyaltyProfile) error
		UpdateProfile(ctx context.Context, profile *entities.LoyaltyProfile) error
		GetActiveRewards(ctx context.Context) ([]*entities.LoyaltyReward, error)
		GetRewardByID(ctx context.Context, id string) (*entities.LoyaltyReward, error)
		CreateTransaction(ctx context.Context, tx *entities.LoyaltyTransaction) error
	}

	loyaltyRepository struct {
		db *gorm.DB
	}
)

func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository {
	return &loyaltyRepository{db: db}
}

func (r *loyaltyRepository) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*entities.LoyaltyProfile, error) {
	var profile entities.LoyaltyProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *loyaltyRepository) CreateProfile(ctx context.Context, profile *entities.LoyaltyProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *loyaltyRepository) UpdateProfile(ctx context.Context, profile *entities.LoyaltyProfile) error {
	return r.db.WithContext(ctx).Model(profile).
		Updates(map[string]interface{}{
			"points":              profile.Points,
			"tier":                profile.Tier,
			"tier_progress":       profile.TierProgress,
			"total_earned_points": profile.TotalEarnedPoints,
		}).Error
}

func (r *loyaltyRepository) GetActiveRewards(ctx context.Context) ([]*entities.LoyaltyReward, error) {
	var rewards []*entities.LoyaltyReward
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("cost_points asc").
		Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

func (r *loyaltyRepository) GetRewardByID(ctx context.Context, id string) (*entities.LoyaltyReward, error) {
	var reward entities.LoyaltyReward
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *loyaltyRepository) CreateTransaction(ctx context.Context, tx *entities.LoyaltyTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}
