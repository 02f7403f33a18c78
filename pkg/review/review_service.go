package review

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type (
	// OrderVerifier proves the caller owns the order they are reviewing.
	// Satisfied by the order service: a guest proves ownership with the
	// order token, an authenticated diner with the user id.
	OrderVerifier interface {
		GetOrder(ctx context.Context, orderID, userID, orderToken string) (domain.OrderResponse, error)
	}

	// DedupeMarker claims the one review slot an order has. Mark returns
	// false when the slot was already taken.
	DedupeMarker interface {
		Mark(ctx context.Context, orderID string) (bool, error)
	}

	ReviewService interface {
		CreateReview(ctx context.Context, userID, orderToken string, req domain.CreateReviewRequest) (domain.ReviewResponse, error)
		GetReviews(ctx context.Context, restaurantID string) ([]domain.ReviewResponse, error)
	}

	reviewService struct {
		reviewRepository ReviewRepository
		orders           OrderVerifier
		dedupe           DedupeMarker
		writer           *kafka.Writer
	}
)

func NewReviewService(reviewRepository ReviewRepository, orders OrderVerifier, dedupe DedupeMarker, writer *kafka.Writer) ReviewService {
	return &reviewService{
		reviewRepository: reviewRepository,
		orders:           orders,
		dedupe:           dedupe,
		writer:           writer,
	}
}

// redisDedupe claims review slots with SET NX so two concurrent submissions
// for the same order race on a single atomic write.
type redisDedupe struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDedupe(client *redis.Client, ttl time.Duration) DedupeMarker {
	return &redisDedupe{client: client, ttl: ttl}
}

func (d *redisDedupe) Mark(ctx context.Context, orderID string) (bool, error) {
	return d.client.SetNX(ctx, "safedine:review:"+orderID, 1, d.ttl).Result()
}

// CreateReview stores a review for one of the caller's own orders. Each
// order carries at most one review.
func (s *reviewService) CreateReview(ctx context.Context, userID, orderToken string, req domain.CreateReviewRequest) (domain.ReviewResponse, error) {
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return domain.ReviewResponse{}, domain.ErrParseUUID
	}

	review := &entities.Review{
		ID:               uuid.New(),
		RestaurantID:     restaurantID,
		Rating:           req.Rating,
		FoodRating:       req.FoodRating,
		ServiceRating:    req.ServiceRating,
		AtmosphereRating: req.AtmosphereRating,
		Title:            req.Title,
		Comment:          req.Comment,
		WouldRecommend:   req.WouldRecommend,
	}

	if userID != "" {
		userUUID, parseErr := uuid.Parse(userID)
		if parseErr != nil {
			return domain.ReviewResponse{}, domain.ErrParseUUID
		}
		review.UserID = &userUUID
	}

	if req.OrderID != "" {
		if _, err := s.orders.GetOrder(ctx, req.OrderID, userID, orderToken); err != nil {
			return domain.ReviewResponse{}, domain.ErrReviewOrderScope
		}

		claimed, err := s.dedupe.Mark(ctx, req.OrderID)
		if err != nil {
			// Marker store is down; the database count is the fallback
			// dedupe authority.
			log.Printf("review dedupe marker failed for order %s: %v", req.OrderID, err)
			exists, dbErr := s.reviewRepository.ReviewExistsForOrder(ctx, req.OrderID)
			if dbErr != nil {
				return domain.ReviewResponse{}, dbErr
			}
			claimed = !exists
		}
		if !claimed {
			return domain.ReviewResponse{}, domain.ErrReviewDuplicate
		}

		orderUUID, parseErr := uuid.Parse(req.OrderID)
		if parseErr != nil {
			return domain.ReviewResponse{}, domain.ErrParseUUID
		}
		review.OrderID = &orderUUID
	}

	if err := s.reviewRepository.CreateReview(ctx, review); err != nil {
		return domain.ReviewResponse{}, err
	}

	s.publish(ctx, review)

	return toReviewResponse(review), nil
}

// publish emits the review to the aggregation topic. Downstream consumers
// maintain per-restaurant rating averages; a lost event only delays the
// aggregate, so failures are logged and swallowed.
func (s *reviewService) publish(ctx context.Context, review *entities.Review) {
	if s.writer == nil {
		return
	}
	payload, err := json.Marshal(review)
	if err != nil {
		log.Printf("failed to marshal review event %s: %v", review.ID, err)
		return
	}
	if err := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(review.RestaurantID.String()),
		Value: payload,
	}); err != nil {
		log.Printf("failed to publish review event %s: %v", review.ID, err)
	}
}

func (s *reviewService) GetReviews(ctx context.Context, restaurantID string) ([]domain.ReviewResponse, error) {
	reviews, err := s.reviewRepository.GetReviewsByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		result = append(result, toReviewResponse(review))
	}
	return result, nil
}

func toReviewResponse(review *entities.Review) domain.ReviewResponse {
	return domain.ReviewResponse{
		ID:             review.ID.String(),
		Rating:         review.Rating,
		Title:          review.Title,
		Comment:        review.Comment,
		WouldRecommend: review.WouldRecommend,
		CreatedAt:      review.CreatedAt,
	}
}
