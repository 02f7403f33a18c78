package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/entities"
	"gorm.io/gorm"
)

type (
	OrderRepository interface {
		CreateOrder(ctx context.Context, order *entities.Order) error
		GetOrderByID(ctx context.Context, id string) (*entities.Order, error)
		GetOrdersByUser(ctx context.Context, userID string) ([]*entities.Order, error)
		GetGuestOrderByToken(ctx context.Context, token string) (*entities.Order, error)
		GetRecentOrders(ctx context.Context, userID string, limit int) ([]*entities.Order, error)
		UpdateOrderStatus(ctx context.Context, id string, status string) (*entities.Order, error)

		GetTableByID(ctx context.Context, id string) (*entities.DiningTable, error)
		ResolveTable(ctx context.Context, restaurantID, code string) (*entities.DiningTable, error)

		UpsertVisit(ctx context.Context, userID, restaurantID uuid.UUID) error
	}

	orderRepository struct {
		db *gorm.DB
	}
)

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *entities.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*entities.Order, error) {
	var order entities.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetOrdersByUser(ctx context.Context, userID string) ([]*entities.Order, error) {
	var orders []*entities.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetGuestOrderByToken is the only guest read path: access keys off the
// token itself, never off a broad user_id IS NULL scan.
func (r *orderRepository) GetGuestOrderByToken(ctx context.Context, token string) (*entities.Order, error) {
	var order entities.Order
	if err := r.db.WithContext(ctx).
		Where("order_token = ? AND user_id IS NULL", token).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetRecentOrders(ctx context.Context, userID string, limit int) ([]*entities.Order, error) {
	var orders []*entities.Order
	query := r.db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id string, status string) (*entities.Order, error) {
	if err := r.db.WithContext(ctx).Model(&entities.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status}).Error; err != nil {
		return nil, err
	}
	return r.GetOrderByID(ctx, id)
}

func (r *orderRepository) GetTableByID(ctx context.Context, id string) (*entities.DiningTable, error) {
	var table entities.DiningTable
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *orderRepository) ResolveTable(ctx context.Context, restaurantID, code string) (*entities.DiningTable, error) {
	var table entities.DiningTable
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND code = ?", restaurantID, code).
		First(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// UpsertVisit records one more visit for an authenticated diner:
// first_visit_at is written once, last_visit_at moves with every order.
func (r *orderRepository) UpsertVisit(ctx context.Context, userID, restaurantID uuid.UUID) error {
	now := time.Now()

	var visit entities.RestaurantVisit
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		First(&visit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			visit = entities.RestaurantVisit{
				ID:           uuid.New(),
				UserID:       userID,
				RestaurantID: restaurantID,
				FirstVisitAt: now,
				LastVisitAt:  now,
				VisitCount:   1,
			}
			return r.db.WithContext(ctx).Create(&visit).Error
		}
		return err
	}

	return r.db.WithContext(ctx).Model(&visit).
		Updates(map[string]interface{}{
			"last_visit_at": now,
			"visit_count":   gorm.Expr("visit_count + 1"),
		}).Error
}
