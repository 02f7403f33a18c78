package table

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/pkg/session"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const qrSize = 256

type (
	TableService interface {
		GetRestaurants(ctx context.Context) ([]domain.RestaurantResponse, error)
		GetTables(ctx context.Context, restaurantID string) ([]domain.TableResponse, error)
		SelectTable(ctx context.Context, sessionID string, req domain.SelectTableRequest) error
		GetSelection(ctx context.Context, sessionID string) (domain.SelectTableRequest, bool)
		TableQR(ctx context.Context, tableID string) ([]byte, error)
	}

	tableService struct {
		tableRepository TableRepository
		store           session.Store
		appURL          string
	}
)

func NewTableService(tableRepository TableRepository, store session.Store, appURL string) TableService {
	return &tableService{tableRepository: tableRepository, store: store, appURL: appURL}
}

func (s *tableService) GetRestaurants(ctx context.Context) ([]domain.RestaurantResponse, error) {
	restaurants, err := s.tableRepository.GetRestaurants(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RestaurantResponse, 0, len(restaurants))
	for _, restaurant := range restaurants {
		result = append(result, domain.RestaurantResponse{
			ID:       restaurant.ID.String(),
			Name:     restaurant.Name,
			Address:  restaurant.Address,
			ImageURL: restaurant.ImageURL,
		})
	}
	return result, nil
}

func (s *tableService) GetTables(ctx context.Context, restaurantID string) ([]domain.TableResponse, error) {
	if _, err := s.tableRepository.GetRestaurantByID(ctx, restaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, err
	}

	tables, err := s.tableRepository.GetTablesByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.TableResponse, 0, len(tables))
	for _, table := range tables {
		result = append(result, domain.TableResponse{
			ID:   table.ID.String(),
			Code: table.Code,
		})
	}
	return result, nil
}

// SelectTable pins the session's restaurant and table choice; the order
// submission later reads it back as its default context.
func (s *tableService) SelectTable(ctx context.Context, sessionID string, req domain.SelectTableRequest) error {
	return session.SetJSON(ctx, s.store, sessionID, session.NamespaceSelection, req)
}

func (s *tableService) GetSelection(ctx context.Context, sessionID string) (domain.SelectTableRequest, bool) {
	var selection domain.SelectTableRequest
	ok := session.GetJSON(ctx, s.store, sessionID, session.NamespaceSelection, &selection)
	return selection, ok && selection.RestaurantID != ""
}

// TableQR renders the PNG a restaurant prints on the table: scanning it
// opens the app with restaurant and table preselected.
func (s *tableService) TableQR(ctx context.Context, tableID string) ([]byte, error) {
	table, err := s.tableRepository.GetTableByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTableNotFound
		}
		return nil, err
	}

	target := fmt.Sprintf("%s/?restaurant=%s&table=%s",
		s.appURL, table.RestaurantID.String(), url.QueryEscape(table.Code))
	return qrcode.Encode(target, qrcode.Medium, qrSize)
}
