package table

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"github.com/m2-berezin/safedine-app/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTableRepository struct {
	restaurants map[string]*entities.Restaurant
	tables      map[string]*entities.DiningTable
}

func newFakeTableRepository() *fakeTableRepository {
	return &fakeTableRepository{
		restaurants: map[string]*entities.Restaurant{},
		tables:      map[string]*entities.DiningTable{},
	}
}

func (f *fakeTableRepository) GetRestaurants(ctx context.Context) ([]*entities.Restaurant, error) {
	var result []*entities.Restaurant
	for _, r := range f.restaurants {
		result = append(result, r)
	}
	return result, nil
}

func (f *fakeTableRepository) GetRestaurantByID(ctx context.Context, id string) (*entities.Restaurant, error) {
	if r, ok := f.restaurants[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTableRepository) GetTablesByRestaurant(ctx context.Context, restaurantID string) ([]*entities.DiningTable, error) {
	var result []*entities.DiningTable
	for _, table := range f.tables {
		if table.RestaurantID.String() == restaurantID {
			result = append(result, table)
		}
	}
	return result, nil
}

func (f *fakeTableRepository) GetTableByID(ctx context.Context, id string) (*entities.DiningTable, error) {
	if table, ok := f.tables[id]; ok {
		return table, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestGetTables_UnknownRestaurant(t *testing.T) {
	service := NewTableService(newFakeTableRepository(), session.NewMemoryStore(), "http://localhost")

	_, err := service.GetTables(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestSelectTable_RoundTrip(t *testing.T) {
	service := NewTableService(newFakeTableRepository(), session.NewMemoryStore(), "http://localhost")

	req := domain.SelectTableRequest{
		RestaurantID: uuid.NewString(),
		TableID:      uuid.NewString(),
		TableCode:    "T3",
	}
	require.NoError(t, service.SelectTable(context.Background(), "sess", req))

	got, ok := service.GetSelection(context.Background(), "sess")
	require.True(t, ok)
	assert.Equal(t, req, got)

	_, ok = service.GetSelection(context.Background(), "other")
	assert.False(t, ok)
}

func TestTableQR(t *testing.T) {
	repo := newFakeTableRepository()
	restaurantID := uuid.New()
	table := &entities.DiningTable{ID: uuid.New(), RestaurantID: restaurantID, Code: "T1"}
	repo.tables[table.ID.String()] = table

	service := NewTableService(repo, session.NewMemoryStore(), "http://localhost:5173")

	png, err := service.TableQR(context.Background(), table.ID.String())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = service.TableQR(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
}
