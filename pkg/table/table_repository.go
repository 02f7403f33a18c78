package table

import (
	"context"

	"github.com/m2-berezin/safedine-app/entities"
	"gorm.io/gorm"
)

type (
	TableRepository interface {
		GetRestaurants(ctx context.Context) ([]*entities.Restaurant, error)
		GetRestaurantByID(ctx context.Context, id string) (*entities.Restaurant, error)
		GetTablesByRestaurant(ctx context.Context, restaurantID string) ([]*entities.DiningTable, error)
		GetTableByID(ctx context.Context, id string) (*entities.DiningTable, error)
	}

	tableRepository struct {
		db *gorm.DB
	}
)

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) GetRestaurants(ctx context.Context) ([]*entities.Restaurant, error) {
	var restaurants []*entities.Restaurant
	if err := r.db.WithContext(ctx).Order("name asc").Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *tableRepository) GetRestaurantByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	var restaurant entities.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *tableRepository) GetTablesByRestaurant(ctx context.Context, restaurantID string) ([]*entities.DiningTable, error) {
	var tables []*entities.DiningTable
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("code asc").
		Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *tableRepository) GetTableByID(ctx context.Context, id string) (*entities.DiningTable, error) {
	var table entities.DiningTable
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}
