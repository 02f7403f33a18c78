package menu

import (
	"context"

	"github.com/m2-berezin/safedine-app/entities"
	"gorm.io/gorm"
)

type (
	MenuRepository interface {
		GetActiveMenu(ctx context.Context, restaurantID string) (*entities.Menu, error)
		GetMenuItemByID(ctx context.Context, id string) (*entities.MenuItem, error)
		UpdateMenuItem(ctx context.Context, item *entities.MenuItem) error
	}

	menuRepository struct {
		db *gorm.DB
	}
)

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) GetActiveMenu(ctx context.Context, restaurantID string) (*entities.Menu, error) {
	var menu entities.Menu
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order asc")
		}).
		Preload("Categories.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("name asc")
		}).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) GetMenuItemByID(ctx context.Context, id string) (*entities.MenuItem, error) {
	var item entities.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) UpdateMenuItem(ctx context.Context, item *entities.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
