package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"github.com/m2-berezin/safedine-app/pkg/cart"
	"github.com/m2-berezin/safedine-app/pkg/orderfeed"
	"github.com/m2-berezin/safedine-app/pkg/ordertoken"
	"github.com/m2-berezin/safedine-app/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOrderRepository struct {
	orders    map[string]*entities.Order
	tables    map[string]*entities.DiningTable
	visits    int
	createErr error
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{
		orders: map[string]*entities.Order{},
		tables: map[string]*entities.DiningTable{},
	}
}

func (f *fakeOrderRepository) addTable(restaurantID uuid.UUID, code string) *entities.DiningTable {
	table := &entities.DiningTable{ID: uuid.New(), RestaurantID: restaurantID, Code: code}
	f.tables[table.ID.String()] = table
	return table
}

func (f *fakeOrderRepository) CreateOrder(ctx context.Context, order *entities.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	order.CreatedAt = time.Now()
	stored := *order
	f.orders[order.ID.String()] = &stored
	return nil
}

func (f *fakeOrderRepository) GetOrderByID(ctx context.Context, id string) (*entities.Order, error) {
	if order, ok := f.orders[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepository) GetOrdersByUser(ctx context.Context, userID string) ([]*entities.Order, error) {
	var result []*entities.Order
	for _, order := range f.orders {
		if order.UserID != nil && order.UserID.String() == userID {
			result = append(result, order)
		}
	}
	return result, nil
}

func (f *fakeOrderRepository) GetGuestOrderByToken(ctx context.Context, token string) (*entities.Order, error) {
	for _, order := range f.orders {
		if order.UserID == nil && order.OrderToken != nil && *order.OrderToken == token {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepository) GetRecentOrders(ctx context.Context, userID string, limit int) ([]*entities.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepository) UpdateOrderStatus(ctx context.Context, id string, status string) (*entities.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	order.Status = status
	return order, nil
}

func (f *fakeOrderRepository) GetTableByID(ctx context.Context, id string) (*entities.DiningTable, error) {
	if table, ok := f.tables[id]; ok {
		return table, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepository) ResolveTable(ctx context.Context, restaurantID, code string) (*entities.DiningTable, error) {
	for _, table := range f.tables {
		if table.RestaurantID.String() == restaurantID && table.Code == code {
			return table, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepository) UpsertVisit(ctx context.Context, userID, restaurantID uuid.UUID) error {
	f.visits++
	return nil
}

type recordingPublisher struct {
	events []orderfeed.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event orderfeed.Event) error {
	p.events = append(p.events, event)
	return nil
}

type testHarness struct {
	repo      *fakeOrderRepository
	carts     cart.CartService
	tokens    ordertoken.TokenService
	publisher *recordingPublisher
	service   OrderService
}

func newTestHarness() *testHarness {
	store := session.NewMemoryStore()
	h := &testHarness{
		repo:      newFakeOrderRepository(),
		carts:     cart.NewCartService(store),
		tokens:    ordertoken.NewTokenService(store),
		publisher: &recordingPublisher{},
	}
	h.service = NewOrderService(h.repo, h.carts, h.tokens, h.publisher, nil, nil, 0)
	return h
}

func (h *testHarness) fillCart(t *testing.T, sessionID string, price float64, quantity int) {
	t.Helper()
	_, err := h.carts.Add(context.Background(), sessionID, domain.CartItem{
		ID: uuid.NewString(), Name: "Pad Thai", Price: price,
	})
	require.NoError(t, err)
	if quantity > 1 {
		cartState := h.carts.Get(context.Background(), sessionID)
		_, err = h.carts.SetQuantity(context.Background(), sessionID, cartState.Items[0].ID, quantity)
		require.NoError(t, err)
	}
}

func validRequest(restaurantID uuid.UUID, table *entities.DiningTable) domain.PlaceOrderRequest {
	return domain.PlaceOrderRequest{
		RestaurantID: restaurantID.String(),
		TableID:      table.ID.String(),
		TableCode:    table.Code,
	}
}

func TestSubmit_EmptyCartRejected(t *testing.T) {
	h := newTestHarness()
	_, err := h.service.Submit(context.Background(), "sess", "", domain.PlaceOrderRequest{
		RestaurantID: uuid.NewString(), TableID: uuid.NewString(), TableCode: "T1",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestSubmit_MissingContextRejected(t *testing.T) {
	h := newTestHarness()
	h.fillCart(t, "sess", 10, 1)

	_, err := h.service.Submit(context.Background(), "sess", "", domain.PlaceOrderRequest{TableCode: "T1"})
	assert.ErrorIs(t, err, domain.ErrMissingOrderContext)
}

func TestSubmit_PlaceholderTableResolvedByCode(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T7")
	h.fillCart(t, "sess", 12.5, 1)

	// The client holds a table id that was never persisted; the (code,
	// restaurant) pair is the fallback.
	req := domain.PlaceOrderRequest{
		RestaurantID: restaurantID.String(),
		TableID:      uuid.NewString(),
		TableCode:    "T7",
	}
	resp, err := h.service.Submit(context.Background(), "sess", "", req)
	require.NoError(t, err)

	stored := h.repo.orders[resp.ID]
	require.NotNil(t, stored)
	assert.Equal(t, table.ID, stored.TableID)
}

func TestSubmit_UnresolvableTableRejected(t *testing.T) {
	h := newTestHarness()
	h.fillCart(t, "sess", 12.5, 1)

	req := domain.PlaceOrderRequest{
		RestaurantID: uuid.NewString(),
		TableID:      uuid.NewString(),
		TableCode:    "T404",
	}
	_, err := h.service.Submit(context.Background(), "sess", "", req)
	assert.ErrorIs(t, err, domain.ErrTableResolution)

	// The cart survives a failed submission.
	assert.Len(t, h.carts.Get(context.Background(), "sess").Items, 1)
}

func TestSubmit_AmountCeilingEnforced(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")
	h.fillCart(t, "sess", 5001, 2)

	_, err := h.service.Submit(context.Background(), "sess", "", validRequest(restaurantID, table))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestSubmit_GuestOrderMintsToken(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")
	h.fillCart(t, "sess", 9.5, 2)

	resp, err := h.service.Submit(context.Background(), "sess", "", validRequest(restaurantID, table))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), resp.OrderToken)
	assert.Equal(t, "pending", resp.Status)

	// Token is stored in the session, cart is cleared, insert event is out.
	assert.Equal(t, resp.OrderToken, h.tokens.GetToken(context.Background(), "sess", resp.ID))
	assert.Empty(t, h.carts.Get(context.Background(), "sess").Items)
	require.Len(t, h.publisher.events, 1)
	assert.Equal(t, orderfeed.EventInsert, h.publisher.events[0].Kind)
	assert.Equal(t, 19.0, h.publisher.events[0].Order.TotalAmount)
}

func TestSubmit_AuthenticatedOrderHasNoToken(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")
	h.fillCart(t, "sess", 9.5, 1)
	userID := uuid.NewString()

	resp, err := h.service.Submit(context.Background(), "sess", userID, validRequest(restaurantID, table))
	require.NoError(t, err)

	assert.Empty(t, resp.OrderToken)
	stored := h.repo.orders[resp.ID]
	require.NotNil(t, stored.UserID)
	assert.Equal(t, userID, stored.UserID.String())
	assert.Nil(t, stored.OrderToken)
	assert.Equal(t, 1, h.repo.visits)
}

func TestSubmit_PersistFailureLeavesCartAndSession(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")
	h.fillCart(t, "sess", 9.5, 1)
	h.repo.createErr = errors.New("connection refused")

	_, err := h.service.Submit(context.Background(), "sess", "", validRequest(restaurantID, table))
	assert.ErrorIs(t, err, domain.ErrOrderSubmission)

	assert.Len(t, h.carts.Get(context.Background(), "sess").Items, 1)
	assert.Empty(t, h.tokens.ListTokens(context.Background(), "sess"))
	assert.Empty(t, h.publisher.events)
}

func TestFetchOrders_GuestMergesPerTokenLookups(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")

	var ids []string
	for i := 0; i < 3; i++ {
		h.fillCart(t, "sess", float64(10+i), 1)
		resp, err := h.service.Submit(context.Background(), "sess", "", validRequest(restaurantID, table))
		require.NoError(t, err)
		// Spread creation times so the newest-first ordering is observable.
		h.repo.orders[resp.ID].CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		ids = append(ids, resp.ID)
	}

	orders := h.service.FetchOrders(context.Background(), "sess", "")
	require.Len(t, orders, 3)
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[0], orders[2].ID)
}

func TestFetchOrders_StaleTokenContributesNothing(t *testing.T) {
	h := newTestHarness()
	require.NoError(t, h.tokens.StoreToken(context.Background(), "sess", uuid.NewString(), "deadbeef"))

	orders := h.service.FetchOrders(context.Background(), "sess", "")
	assert.Empty(t, orders)
}

func TestFetchOrders_GuestSessionIsolation(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")

	h.fillCart(t, "sess-a", 10, 1)
	_, err := h.service.Submit(context.Background(), "sess-a", "", validRequest(restaurantID, table))
	require.NoError(t, err)

	// A different session holds no tokens and therefore sees no orders.
	assert.Empty(t, h.service.FetchOrders(context.Background(), "sess-b", ""))
	assert.Len(t, h.service.FetchOrders(context.Background(), "sess-a", ""), 1)
}

func TestGetOrder_GuestTokenScopedToSingleOrder(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")

	h.fillCart(t, "sess", 10, 1)
	first, err := h.service.Submit(context.Background(), "sess", "", validRequest(restaurantID, table))
	require.NoError(t, err)
	h.fillCart(t, "sess", 20, 1)
	second, err := h.service.Submit(context.Background(), "sess", "", validRequest(restaurantID, table))
	require.NoError(t, err)

	got, err := h.service.GetOrder(context.Background(), first.ID, "", first.OrderToken)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	// A token only opens the order it was minted for.
	_, err = h.service.GetOrder(context.Background(), second.ID, "", first.OrderToken)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGetOrder_UserCannotReadOthersOrders(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")
	owner := uuid.NewString()

	h.fillCart(t, "sess", 10, 1)
	resp, err := h.service.Submit(context.Background(), "sess", owner, validRequest(restaurantID, table))
	require.NoError(t, err)

	_, err = h.service.GetOrder(context.Background(), resp.ID, uuid.NewString(), "")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestTrackerFor_GuestSeesOnlyOwnSessionOrders(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")

	h.fillCart(t, "sess-a", 10, 1)
	own, err := h.service.Submit(context.Background(), "sess-a", "", validRequest(restaurantID, table))
	require.NoError(t, err)

	tracker := h.service.TrackerFor(context.Background(), "sess-a", "", false)
	snapshot := tracker.Snapshot()
	require.Len(t, snapshot.Orders, 1)
	assert.Equal(t, own.ID, snapshot.Orders[0].ID)

	// Another diner submits from their own session; their order must never
	// surface on this tracker.
	strangerID := uuid.New()
	stranger := entities.Order{
		ID:     uuid.New(),
		UserID: &strangerID,
		Status: "pending",
		Notes:  "no shellfish at the table",
	}
	assert.False(t, tracker.Apply(orderfeed.Event{Kind: orderfeed.EventInsert, Order: stranger}))

	otherToken := "0000000000000000000000000000000000000000000000000000000000000000"
	otherGuest := entities.Order{ID: uuid.New(), OrderToken: &otherToken, Status: "pending"}
	assert.False(t, tracker.Apply(orderfeed.Event{Kind: orderfeed.EventInsert, Order: otherGuest}))

	snapshot = tracker.Snapshot()
	require.Len(t, snapshot.Orders, 1)
	assert.Equal(t, own.ID, snapshot.Orders[0].ID)

	// Status changes to the session's own order still stream through.
	updated := *h.repo.orders[own.ID]
	updated.Status = "confirmed"
	assert.True(t, tracker.Apply(orderfeed.Event{Kind: orderfeed.EventUpdate, Order: updated}))
	assert.Equal(t, "confirmed", tracker.Snapshot().Orders[0].Status)
}

func TestTrackerFor_StaffViewIsUnscoped(t *testing.T) {
	h := newTestHarness()

	tracker := h.service.TrackerFor(context.Background(), "sess", "", true)

	strangerID := uuid.New()
	stranger := entities.Order{ID: uuid.New(), UserID: &strangerID, Status: "pending"}
	assert.True(t, tracker.Apply(orderfeed.Event{Kind: orderfeed.EventInsert, Order: stranger}))

	token := "feed"
	guest := entities.Order{ID: uuid.New(), OrderToken: &token, Status: "pending"}
	assert.True(t, tracker.Apply(orderfeed.Event{Kind: orderfeed.EventInsert, Order: guest}))

	assert.Len(t, tracker.Snapshot().Orders, 2)
}

func TestUpdateStatus_PublishesUpdateEvent(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")
	h.fillCart(t, "sess", 10, 1)
	resp, err := h.service.Submit(context.Background(), "sess", "", validRequest(restaurantID, table))
	require.NoError(t, err)

	updated, err := h.service.UpdateStatus(context.Background(), resp.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", updated.Status)

	last := h.publisher.events[len(h.publisher.events)-1]
	assert.Equal(t, orderfeed.EventUpdate, last.Kind)
	assert.Equal(t, "confirmed", last.Order.Status)
}

func TestUpdateStatus_IllegalTransitionRejected(t *testing.T) {
	h := newTestHarness()
	restaurantID := uuid.New()
	table := h.repo.addTable(restaurantID, "T1")
	h.fillCart(t, "sess", 10, 1)
	resp, err := h.service.Submit(context.Background(), "sess", "", validRequest(restaurantID, table))
	require.NoError(t, err)

	_, err = h.service.UpdateStatus(context.Background(), resp.ID, "ready")
	assert.ErrorIs(t, err, domain.ErrStatusTransition)

	_, err = h.service.UpdateStatus(context.Background(), uuid.NewString(), "confirmed")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
