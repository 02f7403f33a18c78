package cart

import (
	"context"

	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/pkg/session"
)

type (
	CartService interface {
		Get(ctx context.Context, sessionID string) domain.CartResponse
		Add(ctx context.Context, sessionID string, item domain.CartItem) (domain.CartResponse, error)
		SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (domain.CartResponse, error)
		Remove(ctx context.Context, sessionID, itemID string) (domain.CartResponse, error)
		Clear(ctx context.Context, sessionID string) error
	}

	cartService struct {
		store session.Store
	}
)

func NewCartService(store session.Store) CartService {
	return &cartService{store: store}
}

func (s *cartService) load(ctx context.Context, sessionID string) []domain.CartItem {
	items := []domain.CartItem{}
	session.GetJSON(ctx, s.store, sessionID, session.NamespaceCart, &items)
	return items
}

func (s *cartService) persist(ctx context.Context, sessionID string, items []domain.CartItem) (domain.CartResponse, error) {
	if err := session.SetJSON(ctx, s.store, sessionID, session.NamespaceCart, items); err != nil {
		return domain.CartResponse{}, err
	}
	return domain.CartResponse{Items: items, Total: Total(items)}, nil
}

func (s *cartService) Get(ctx context.Context, sessionID string) domain.CartResponse {
	items := s.load(ctx, sessionID)
	return domain.CartResponse{Items: items, Total: Total(items)}
}

// Add inserts the item with quantity 1, or increments the existing row.
// At most one row exists per item id.
func (s *cartService) Add(ctx context.Context, sessionID string, item domain.CartItem) (domain.CartResponse, error) {
	if item.ID == "" || item.Name == "" || item.Price < 0 {
		return domain.CartResponse{}, domain.ErrCartItemInvalid
	}

	items := s.load(ctx, sessionID)
	found := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		item.Quantity = 1
		items = append(items, item)
	}

	return s.persist(ctx, sessionID, items)
}

// SetQuantity sets the row's quantity directly; zero or less removes it.
func (s *cartService) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (domain.CartResponse, error) {
	items := s.load(ctx, sessionID)

	if quantity <= 0 {
		items = removeItem(items, itemID)
	} else {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Quantity = quantity
				break
			}
		}
	}

	return s.persist(ctx, sessionID, items)
}

// Remove deletes the row if present; removing an absent item is a no-op.
func (s *cartService) Remove(ctx context.Context, sessionID, itemID string) (domain.CartResponse, error) {
	return s.persist(ctx, sessionID, removeItem(s.load(ctx, sessionID), itemID))
}

// Clear empties the cart. Called once, after a confirmed successful order
// submission.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Remove(ctx, sessionID, session.NamespaceCart)
}

// Total is the sum of price times quantity over all rows; the same figure
// later submitted as the order's total_amount.
func Total(items []domain.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func removeItem(items []domain.CartItem, itemID string) []domain.CartItem {
	result := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			result = append(result, item)
		}
	}
	return result
}
