package cart

import (
	"context"
	"testing"

	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sid = "session-1"

func newService() CartService {
	return NewCartService(session.NewMemoryStore())
}

func TestCart_AddAccumulatesQuantity(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	item := domain.CartItem{ID: "item-1", Name: "Margherita", Price: 9.5}

	_, err := svc.Add(ctx, sid, item)
	require.NoError(t, err)
	res, err := svc.Add(ctx, sid, item)
	require.NoError(t, err)

	// One row with quantity 2, never two rows.
	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Items[0].Quantity)
	assert.Equal(t, 19.0, res.Total)
}

func TestCart_AddRejectsInvalidItem(t *testing.T) {
	svc := newService()
	_, err := svc.Add(context.Background(), sid, domain.CartItem{Name: "no id", Price: 1})
	assert.ErrorIs(t, err, domain.ErrCartItemInvalid)
}

func TestCart_SetQuantity(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, domain.CartItem{ID: "item-1", Name: "Pad Thai", Price: 11})
	require.NoError(t, err)

	res, err := svc.SetQuantity(ctx, sid, "item-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Items[0].Quantity)
	assert.Equal(t, 55.0, res.Total)

	// Quantity zero removes the row instead of storing a zero-quantity one.
	res, err = svc.SetQuantity(ctx, sid, "item-1", 0)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestCart_RemoveMissingIsNoop(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, domain.CartItem{ID: "item-1", Name: "Ramen", Price: 12})
	require.NoError(t, err)

	res, err := svc.Remove(ctx, sid, "does-not-exist")
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestCart_TotalMatchesSubmissionAmount(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, domain.CartItem{ID: "a", Name: "Soup", Price: 4.25})
	require.NoError(t, err)
	_, err = svc.Add(ctx, sid, domain.CartItem{ID: "b", Name: "Steak", Price: 21.5})
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, sid, "a", 3)
	require.NoError(t, err)

	res := svc.Get(ctx, sid)
	assert.Equal(t, Total(res.Items), res.Total)
	assert.InDelta(t, 3*4.25+21.5, res.Total, 1e-9)
}

func TestCart_PersistsAcrossServiceInstances(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	first := NewCartService(store)
	_, err := first.Add(ctx, sid, domain.CartItem{ID: "a", Name: "Tea", Price: 2})
	require.NoError(t, err)

	// Every mutation persists the snapshot, so a fresh service sees it.
	second := NewCartService(store)
	res := second.Get(ctx, sid)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Tea", res.Items[0].Name)
}

func TestCart_ClearEmptiesCart(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, domain.CartItem{ID: "a", Name: "Cake", Price: 6})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, sid))

	res := svc.Get(ctx, sid)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.Total)
}

func TestCart_CorruptStoreDegradesToEmpty(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, sid, session.NamespaceCart, []byte("{not json")))

	svc := NewCartService(store)
	res := svc.Get(ctx, sid)
	assert.Empty(t, res.Items)
}
