package review

import (
	"context"

	"github.com/m2-berezin/safedine-app/entities"
	"gorm.io/gorm"
)

type (
	ReviewRepository interface {
		CreateReview(ctx context.Context, review *entities.Review) error
		GetReviewsByRestaurant(ctx context.Context, restaurantID string) ([]*entities.Review, error)
		ReviewExistsForOrder(ctx context.Context, orderID string) (bool, error)
	}

	reviewRepository struct {
		db *gorm.DB
	}
)

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *entities.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetReviewsByRestaurant(ctx context.Context, restaurantID string) ([]*entities.Review, error) {
	var reviews []*entities.Review
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ReviewExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Review{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
