package review

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepository struct {
	reviews []*entities.Review
}

func (f *fakeReviewRepository) CreateReview(ctx context.Context, review *entities.Review) error {
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeReviewRepository) GetReviewsByRestaurant(ctx context.Context, restaurantID string) ([]*entities.Review, error) {
	var result []*entities.Review
	for _, review := range f.reviews {
		if review.RestaurantID.String() == restaurantID {
			result = append(result, review)
		}
	}
	return result, nil
}

func (f *fakeReviewRepository) ReviewExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	for _, review := range f.reviews {
		if review.OrderID != nil && review.OrderID.String() == orderID {
			return true, nil
		}
	}
	return false, nil
}

// fakeVerifier owns exactly the orders in its map, keyed by order id with
// the owning user id as value.
type fakeVerifier struct {
	owned map[string]string
}

func (f *fakeVerifier) GetOrder(ctx context.Context, orderID, userID, orderToken string) (domain.OrderResponse, error) {
	if owner, ok := f.owned[orderID]; ok && owner == userID {
		return domain.OrderResponse{ID: orderID}, nil
	}
	return domain.OrderResponse{}, domain.ErrOrderNotFound
}

type memoryDedupe struct {
	marked map[string]bool
	err    error
}

func (m *memoryDedupe) Mark(ctx context.Context, orderID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.marked[orderID] {
		return false, nil
	}
	m.marked[orderID] = true
	return true, nil
}

func newService() (ReviewService, *fakeReviewRepository, *fakeVerifier, *memoryDedupe) {
	repo := &fakeReviewRepository{}
	verifier := &fakeVerifier{owned: map[string]string{}}
	dedupe := &memoryDedupe{marked: map[string]bool{}}
	return NewReviewService(repo, verifier, dedupe, nil), repo, verifier, dedupe
}

func TestCreateReview_OrderMustBelongToCaller(t *testing.T) {
	service, _, verifier, _ := newService()
	userID := uuid.NewString()
	orderID := uuid.NewString()
	verifier.owned[orderID] = userID

	req := domain.CreateReviewRequest{
		RestaurantID: uuid.NewString(),
		OrderID:      orderID,
		Rating:       5,
	}

	_, err := service.CreateReview(context.Background(), uuid.NewString(), "", req)
	assert.ErrorIs(t, err, domain.ErrReviewOrderScope)

	resp, err := service.CreateReview(context.Background(), userID, "", req)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
}

func TestCreateReview_DuplicateOrderRejected(t *testing.T) {
	service, repo, verifier, _ := newService()
	userID := uuid.NewString()
	orderID := uuid.NewString()
	verifier.owned[orderID] = userID

	req := domain.CreateReviewRequest{
		RestaurantID: uuid.NewString(),
		OrderID:      orderID,
		Rating:       4,
	}

	_, err := service.CreateReview(context.Background(), userID, "", req)
	require.NoError(t, err)

	_, err = service.CreateReview(context.Background(), userID, "", req)
	assert.ErrorIs(t, err, domain.ErrReviewDuplicate)
	assert.Len(t, repo.reviews, 1)
}

func TestCreateReview_MarkerOutageFallsBackToDatabase(t *testing.T) {
	service, repo, verifier, dedupe := newService()
	userID := uuid.NewString()
	orderID := uuid.NewString()
	verifier.owned[orderID] = userID
	dedupe.err = errors.New("connection refused")

	req := domain.CreateReviewRequest{
		RestaurantID: uuid.NewString(),
		OrderID:      orderID,
		Rating:       4,
	}

	_, err := service.CreateReview(context.Background(), userID, "", req)
	require.NoError(t, err)
	assert.Len(t, repo.reviews, 1)

	// Second attempt is caught by the database count even with the marker
	// store still down.
	_, err = service.CreateReview(context.Background(), userID, "", req)
	assert.ErrorIs(t, err, domain.ErrReviewDuplicate)
}

func TestCreateReview_WithoutOrderSkipsOwnershipCheck(t *testing.T) {
	service, repo, _, _ := newService()
	restaurantID := uuid.NewString()

	resp, err := service.CreateReview(context.Background(), "", "", domain.CreateReviewRequest{
		RestaurantID: restaurantID,
		Rating:       3,
		Comment:      "decent",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Rating)

	reviews, err := service.GetReviews(context.Background(), restaurantID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Nil(t, repo.reviews[0].UserID)
	assert.Nil(t, repo.reviews[0].OrderID)
}
