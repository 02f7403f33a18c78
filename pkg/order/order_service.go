package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"github.com/m2-berezin/safedine-app/pkg/cart"
	"github.com/m2-berezin/safedine-app/pkg/orderfeed"
	"github.com/m2-berezin/safedine-app/pkg/ordertoken"
	"github.com/m2-berezin/safedine-app/pkg/tracking"
	"gorm.io/gorm"
)

// DefaultAmountCeiling bounds a single order's total as an anti-abuse
// guard rail. Overridable through ORDER_AMOUNT_CEILING.
const DefaultAmountCeiling = 10000

type (
	// LoyaltyAwarder credits points for a submitted order. Implemented by
	// the loyalty service; failures are logged, never fatal to the order.
	LoyaltyAwarder interface {
		AwardOrderPoints(ctx context.Context, userID string, orderID uuid.UUID, amount float64) error
	}

	// ConfirmationSender emails the authenticated diner their receipt.
	ConfirmationSender interface {
		SendOrderConfirmation(ctx context.Context, userID string, order *entities.Order) error
	}

	OrderService interface {
		Submit(ctx context.Context, sessionID, userID string, req domain.PlaceOrderRequest) (domain.PlaceOrderResponse, error)
		FetchOrders(ctx context.Context, sessionID, userID string) []domain.OrderResponse
		GetOrder(ctx context.Context, orderID, userID, orderToken string) (domain.OrderResponse, error)
		UpdateStatus(ctx context.Context, orderID, status string) (domain.OrderResponse, error)
		TrackerFor(ctx context.Context, sessionID, userID string, staff bool) *tracking.Tracker
		TrackingSnapshot(ctx context.Context, sessionID, userID string, staff bool) domain.TrackingSnapshotResponse
	}

	orderService struct {
		orderRepository OrderRepository
		cartService     cart.CartService
		tokenService    ordertoken.TokenService
		publisher       orderfeed.Publisher
		loyalty         LoyaltyAwarder
		mailer          ConfirmationSender
		amountCeiling   float64
	}
)

func NewOrderService(
	orderRepository OrderRepository,
	cartService cart.CartService,
	tokenService ordertoken.TokenService,
	publisher orderfeed.Publisher,
	loyalty LoyaltyAwarder,
	mailer ConfirmationSender,
	amountCeiling float64,
) OrderService {
	if amountCeiling <= 0 {
		amountCeiling = DefaultAmountCeiling
	}
	return &orderService{
		orderRepository: orderRepository,
		cartService:     cartService,
		tokenService:    tokenService,
		publisher:       publisher,
		loyalty:         loyalty,
		mailer:          mailer,
		amountCeiling:   amountCeiling,
	}
}

// Submit turns the session's cart into a persisted order. Validation fails
// fast in a fixed sequence; the cart is cleared only after the write is
// confirmed, so an interrupted submission can simply be retried.
func (s *orderService) Submit(ctx context.Context, sessionID, userID string, req domain.PlaceOrderRequest) (domain.PlaceOrderResponse, error) {
	currentCart := s.cartService.Get(ctx, sessionID)
	if len(currentCart.Items) == 0 {
		return domain.PlaceOrderResponse{}, domain.ErrEmptyCart
	}

	if req.RestaurantID == "" || req.TableID == "" {
		return domain.PlaceOrderResponse{}, domain.ErrMissingOrderContext
	}

	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return domain.PlaceOrderResponse{}, domain.ErrMissingOrderContext
	}

	tableID, err := s.resolveTableID(ctx, req)
	if err != nil {
		return domain.PlaceOrderResponse{}, err
	}

	total := cart.Total(currentCart.Items)
	if total < 0 || total > s.amountCeiling {
		return domain.PlaceOrderResponse{}, domain.ErrInvalidAmount
	}

	items := make(entities.OrderItems, 0, len(currentCart.Items))
	for _, item := range currentCart.Items {
		items = append(items, entities.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	order := &entities.Order{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		TableID:      tableID,
		TableCode:    req.TableCode,
		Items:        items,
		TotalAmount:  total,
		Status:       tracking.StatusPending,
		Notes:        req.Notes,
	}

	var guestToken string
	if userID == "" {
		// The only moment a guest token is ever generated.
		guestToken, err = s.tokenService.GenerateToken()
		if err != nil {
			return domain.PlaceOrderResponse{}, fmt.Errorf("%w: %v", domain.ErrOrderSubmission, err)
		}
		order.OrderToken = &guestToken
	} else {
		userUUID, parseErr := uuid.Parse(userID)
		if parseErr != nil {
			return domain.PlaceOrderResponse{}, domain.ErrParseUUID
		}
		order.UserID = &userUUID
	}

	if err := s.orderRepository.CreateOrder(ctx, order); err != nil {
		// Fail closed: no token stored, cart untouched.
		return domain.PlaceOrderResponse{}, fmt.Errorf("%w: %v", domain.ErrOrderSubmission, err)
	}

	if guestToken != "" {
		if err := s.tokenService.StoreToken(ctx, sessionID, order.ID.String(), guestToken); err != nil {
			log.Printf("failed to store guest token for order %s: %v", order.ID, err)
		}
	}

	if err := s.cartService.Clear(ctx, sessionID); err != nil {
		log.Printf("failed to clear cart for session %s: %v", sessionID, err)
	}

	if userID != "" {
		if err := s.orderRepository.UpsertVisit(ctx, *order.UserID, restaurantID); err != nil {
			log.Printf("failed to record visit for user %s: %v", userID, err)
		}
		if s.loyalty != nil {
			if err := s.loyalty.AwardOrderPoints(ctx, userID, order.ID, total); err != nil {
				log.Printf("failed to award loyalty points for order %s: %v", order.ID, err)
			}
		}
		if s.mailer != nil {
			if err := s.mailer.SendOrderConfirmation(ctx, userID, order); err != nil {
				log.Printf("failed to send order confirmation for order %s: %v", order.ID, err)
			}
		}
	}

	if err := s.publisher.Publish(ctx, orderfeed.Event{Kind: orderfeed.EventInsert, Order: *order}); err != nil {
		log.Printf("failed to publish order insert event for %s: %v", order.ID, err)
	}

	return domain.PlaceOrderResponse{
		ID:         order.ID.String(),
		CreatedAt:  order.CreatedAt,
		Status:     order.Status,
		OrderToken: guestToken,
	}, nil
}

// resolveTableID returns the authoritative table id. Client-held ids that
// are not real persisted records (placeholders minted before the table row
// was confirmed) are resolved through the (code, restaurant) pair.
func (s *orderService) resolveTableID(ctx context.Context, req domain.PlaceOrderRequest) (uuid.UUID, error) {
	if id, err := uuid.Parse(req.TableID); err == nil {
		if table, err := s.orderRepository.GetTableByID(ctx, id.String()); err == nil {
			return table.ID, nil
		}
	}

	if req.TableCode == "" {
		return uuid.Nil, domain.ErrTableResolution
	}
	table, err := s.orderRepository.ResolveTable(ctx, req.RestaurantID, req.TableCode)
	if err != nil {
		return uuid.Nil, domain.ErrTableResolution
	}
	return table.ID, nil
}

// FetchOrders lists the caller's orders, newest first. Authenticated
// lookups go by user id; guests are served one isolated query per stored
// token so a token only ever authorises the single order it was minted
// for. Read failures degrade to an empty (or partial) list with a logged
// warning, never an error to the caller.
func (s *orderService) FetchOrders(ctx context.Context, sessionID, userID string) []domain.OrderResponse {
	if userID != "" {
		orders, err := s.orderRepository.GetOrdersByUser(ctx, userID)
		if err != nil {
			log.Printf("failed to fetch orders for user %s: %v", userID, err)
			return []domain.OrderResponse{}
		}
		return toOrderResponses(orders)
	}

	return toOrderResponses(s.guestOrders(ctx, sessionID))
}

// guestOrders runs one independent lookup per stored token. A slow or
// failing token must not poison the others; it just contributes zero rows.
// Request volume grows with the number of stored tokens, which is the
// accepted price of keeping the token a per-order capability.
func (s *orderService) guestOrders(ctx context.Context, sessionID string) []*entities.Order {
	tokens := s.tokenService.ListTokens(ctx, sessionID)
	if len(tokens) == 0 {
		return nil
	}

	var (
		mu     sync.Mutex
		orders []*entities.Order
		wg     sync.WaitGroup
	)
	for orderID, token := range tokens {
		wg.Add(1)
		go func(orderID, token string) {
			defer wg.Done()
			order, err := s.orderRepository.GetGuestOrderByToken(ctx, token)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					log.Printf("failed to fetch guest order %s: %v", orderID, err)
				}
				return
			}
			mu.Lock()
			orders = append(orders, order)
			mu.Unlock()
		}(orderID, token)
	}
	wg.Wait()

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

// TrackerFor builds a live-tracking view for the caller, scoped to what
// that caller is allowed to read: every order for staff, the diner's own
// orders for an authenticated user, and only the session's token-held
// orders for a guest. The tracker is seeded with the newest orders in
// that same scope, capped at the tracker window.
func (s *orderService) TrackerFor(ctx context.Context, sessionID, userID string, staff bool) *tracking.Tracker {
	switch {
	case staff:
		recent, err := s.orderRepository.GetRecentOrders(ctx, "", tracking.DefaultLimit)
		if err != nil {
			log.Printf("failed to fetch recent orders for staff view: %v", err)
			recent = nil
		}
		return tracking.NewTracker(tracking.StaffScope(), tracking.DefaultLimit, deref(recent))

	case userID != "":
		recent, err := s.orderRepository.GetRecentOrders(ctx, userID, tracking.DefaultLimit)
		if err != nil {
			log.Printf("failed to fetch recent orders for user %s: %v", userID, err)
			recent = nil
		}
		return tracking.NewTracker(tracking.UserScope(userID), tracking.DefaultLimit, deref(recent))

	default:
		tokens := s.tokenService.ListTokens(ctx, sessionID)
		values := make([]string, 0, len(tokens))
		for _, token := range tokens {
			values = append(values, token)
		}
		recent := s.guestOrders(ctx, sessionID)
		if len(recent) > tracking.DefaultLimit {
			recent = recent[:tracking.DefaultLimit]
		}
		return tracking.NewTracker(tracking.GuestScope(values), tracking.DefaultLimit, deref(recent))
	}
}

// TrackingSnapshot is the polling fallback for clients without a live
// WebSocket connection.
func (s *orderService) TrackingSnapshot(ctx context.Context, sessionID, userID string, staff bool) domain.TrackingSnapshotResponse {
	return s.TrackerFor(ctx, sessionID, userID, staff).Snapshot()
}

func deref(orders []*entities.Order) []entities.Order {
	result := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, *order)
	}
	return result
}

// GetOrder fetches a single order for its owner: by user id for
// authenticated callers, by the X-Order-Token credential for guests.
func (s *orderService) GetOrder(ctx context.Context, orderID, userID, orderToken string) (domain.OrderResponse, error) {
	if userID != "" {
		order, err := s.orderRepository.GetOrderByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.OrderResponse{}, domain.ErrOrderNotFound
			}
			return domain.OrderResponse{}, err
		}
		if order.UserID == nil || order.UserID.String() != userID {
			return domain.OrderResponse{}, domain.ErrOrderNotFound
		}
		return toOrderResponse(order), nil
	}

	if orderToken == "" {
		return domain.OrderResponse{}, domain.ErrOrderNotFound
	}
	order, err := s.orderRepository.GetGuestOrderByToken(ctx, orderToken)
	if err != nil || order.ID.String() != orderID {
		return domain.OrderResponse{}, domain.ErrOrderNotFound
	}
	return toOrderResponse(order), nil
}

// UpdateStatus applies a kitchen-side status change and publishes the
// update to the live feed. Terminal orders never change again.
func (s *orderService) UpdateStatus(ctx context.Context, orderID, status string) (domain.OrderResponse, error) {
	order, err := s.orderRepository.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.OrderResponse{}, domain.ErrOrderNotFound
		}
		return domain.OrderResponse{}, err
	}

	if !tracking.CanTransition(order.Status, status) {
		return domain.OrderResponse{}, domain.ErrStatusTransition
	}

	updated, err := s.orderRepository.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return domain.OrderResponse{}, err
	}

	if err := s.publisher.Publish(ctx, orderfeed.Event{Kind: orderfeed.EventUpdate, Order: *updated}); err != nil {
		log.Printf("failed to publish order update event for %s: %v", orderID, err)
	}

	return toOrderResponse(updated), nil
}

func toOrderResponse(order *entities.Order) domain.OrderResponse {
	items := make([]domain.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, domain.OrderItemResponse{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return domain.OrderResponse{
		ID:                    order.ID.String(),
		RestaurantID:          order.RestaurantID.String(),
		TableCode:             order.TableCode,
		Items:                 items,
		TotalAmount:           order.TotalAmount,
		Status:                order.Status,
		Notes:                 order.Notes,
		CreatedAt:             order.CreatedAt,
		EstimatedCompletionAt: order.EstimatedCompletionAt,
	}
}

func toOrderResponses(orders []*entities.Order) []domain.OrderResponse {
	result := make([]domain.OrderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	return result
}
