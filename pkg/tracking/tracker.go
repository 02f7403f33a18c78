package tracking

import (
	"sync"

	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"github.com/m2-berezin/safedine-app/pkg/orderfeed"
)

// DefaultLimit is how many recent orders a tracker keeps.
const DefaultLimit = 5

// Scope decides which feed events a tracker may see. The zero value admits
// nothing; every tracker must state its audience explicitly.
type Scope struct {
	all    bool
	userID string
	tokens map[string]struct{}
}

// StaffScope sees every order. Only the staff view may hold it.
func StaffScope() Scope { return Scope{all: true} }

// UserScope admits the orders owned by one authenticated diner.
func UserScope(userID string) Scope { return Scope{userID: userID} }

// GuestScope admits only guest orders carrying one of the session's held
// tokens. An anonymous client therefore sees exactly the orders it can
// already read over HTTP, and nothing of anyone else's.
func GuestScope(tokens []string) Scope {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return Scope{tokens: set}
}

func (s Scope) matches(order *entities.Order) bool {
	if s.all {
		return true
	}
	if s.userID != "" {
		return order.UserID != nil && order.UserID.String() == s.userID
	}
	if order.UserID != nil || order.OrderToken == nil {
		return false
	}
	_, ok := s.tokens[*order.OrderToken]
	return ok
}

// Tracker reconciles a bounded, newest-first list of orders from a change
// feed, admitting only events inside its scope.
type Tracker struct {
	mu     sync.Mutex
	scope  Scope
	limit  int
	orders []entities.Order
}

func NewTracker(scope Scope, limit int, initial []entities.Order) *Tracker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	t := &Tracker{scope: scope, limit: limit}
	if len(initial) > limit {
		initial = initial[:limit]
	}
	t.orders = append(t.orders, initial...)
	return t
}

func (t *Tracker) inScope(order *entities.Order) bool {
	return t.scope.matches(order)
}

// Apply reconciles one feed event and reports whether the list changed.
// Inserts are the only path that grows the list: an update for an id not
// present is dropped, never upgraded to an insert, so update-after-delete
// arriving out of order cannot resurrect a row.
func (t *Tracker) Apply(event orderfeed.Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch event.Kind {
	case orderfeed.EventInsert:
		if !t.inScope(&event.Order) {
			return false
		}
		t.orders = append([]entities.Order{event.Order}, t.orders...)
		if len(t.orders) > t.limit {
			t.orders = t.orders[:t.limit]
		}
		return true

	case orderfeed.EventUpdate:
		if !t.inScope(&event.Order) {
			return false
		}
		for i := range t.orders {
			if t.orders[i].ID == event.Order.ID {
				t.orders[i] = event.Order
				return true
			}
		}
		return false

	case orderfeed.EventDelete:
		for i := range t.orders {
			if t.orders[i].ID == event.Order.ID {
				t.orders = append(t.orders[:i], t.orders[i+1:]...)
				return true
			}
		}
		return false
	}

	return false
}

// Snapshot projects the current list for display: progress percentage,
// status label and the derived completion estimate.
func (t *Tracker) Snapshot() domain.TrackingSnapshotResponse {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := domain.TrackingSnapshotResponse{
		Orders: make([]domain.TrackedOrderResponse, 0, len(t.orders)),
	}
	for i := range t.orders {
		order := &t.orders[i]

		items := make([]domain.OrderItemResponse, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, domain.OrderItemResponse{
				ID:       item.ID,
				Name:     item.Name,
				Price:    item.Price,
				Quantity: item.Quantity,
			})
		}

		snapshot.Orders = append(snapshot.Orders, domain.TrackedOrderResponse{
			ID:          order.ID.String(),
			TableCode:   order.TableCode,
			Items:       items,
			TotalAmount: order.TotalAmount,
			Status:      order.Status,
			StatusLabel: Label(order.Status),
			Progress:    Progress(order.Status),
			EstimatedAt: EstimatedCompletion(order),
			Notes:       order.Notes,
			CreatedAt:   order.CreatedAt,
		})
	}
	return snapshot
}
