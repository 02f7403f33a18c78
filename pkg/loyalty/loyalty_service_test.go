package loyalty

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLoyaltyRepository struct {
	profiles     map[uuid.UUID]*entities.LoyaltyProfile
	rewards      map[string]*entities.LoyaltyReward
	transactions []*entities.LoyaltyTransaction
}

func newFakeLoyaltyRepository() *fakeLoyaltyRepository {
	return &fakeLoyaltyRepository{
		profiles: map[uuid.UUID]*entities.LoyaltyProfile{},
		rewards:  map[string]*entities.LoyaltyReward{},
	}
}

func (f *fakeLoyaltyRepository) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*entities.LoyaltyProfile, error) {
	if profile, ok := f.profiles[userID]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoyaltyRepository) CreateProfile(ctx context.Context, profile *entities.LoyaltyProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeLoyaltyRepository) UpdateProfile(ctx context.Context, profile *entities.LoyaltyProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeLoyaltyRepository) GetActiveRewards(ctx context.Context) ([]*entities.LoyaltyReward, error) {
	var rewards []*entities.LoyaltyReward
	for _, reward := range f.rewards {
		rewards = append(rewards, reward)
	}
	return rewards, nil
}

func (f *fakeLoyaltyRepository) GetRewardByID(ctx context.Context, id string) (*entities.LoyaltyReward, error) {
	if reward, ok := f.rewards[id]; ok {
		return reward, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoyaltyRepository) CreateTransaction(ctx context.Context, tx *entities.LoyaltyTransaction) error {
	f.transactions = append(f.transactions, tx)
	return nil
}

func (f *fakeLoyaltyRepository) addReward(cost int, minTier string) *entities.LoyaltyReward {
	reward := &entities.LoyaltyReward{
		ID: uuid.New(), Name: "Free dessert", CostPoints: cost,
		RewardType: "free_item", MinTier: minTier, IsActive: true,
	}
	f.rewards[reward.ID.String()] = reward
	return reward
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		earned   int
		tier     string
		progress int
	}{
		{0, domain.TierBronze, 0},
		{100, domain.TierBronze, 50},
		{199, domain.TierBronze, 99},
		{200, domain.TierSilver, 0},
		{350, domain.TierSilver, 50},
		{500, domain.TierGold, 0},
		{750, domain.TierGold, 50},
		{1000, domain.TierPlatinum, 100},
		{5000, domain.TierPlatinum, 100},
	}
	for _, tt := range tests {
		tier, progress := tierFor(tt.earned)
		assert.Equal(t, tt.tier, tier, "earned=%d", tt.earned)
		assert.Equal(t, tt.progress, progress, "earned=%d", tt.earned)
	}
}

func TestAwardOrderPoints_CreatesProfileAndLedgerEntry(t *testing.T) {
	repo := newFakeLoyaltyRepository()
	service := NewLoyaltyService(repo)
	userID := uuid.New()
	orderID := uuid.New()

	require.NoError(t, service.AwardOrderPoints(context.Background(), userID.String(), orderID, 42.9))

	profile := repo.profiles[userID]
	require.NotNil(t, profile)
	assert.Equal(t, 42, profile.Points)
	assert.Equal(t, 42, profile.TotalEarnedPoints)
	assert.Equal(t, domain.TierBronze, profile.Tier)

	require.Len(t, repo.transactions, 1)
	assert.Equal(t, "earned", repo.transactions[0].TransactionType)
	assert.Equal(t, &orderID, repo.transactions[0].OrderID)
}

func TestAwardOrderPoints_CrossesTierThreshold(t *testing.T) {
	repo := newFakeLoyaltyRepository()
	service := NewLoyaltyService(repo)
	userID := uuid.New()

	require.NoError(t, service.AwardOrderPoints(context.Background(), userID.String(), uuid.New(), 150))
	assert.Equal(t, domain.TierBronze, repo.profiles[userID].Tier)

	require.NoError(t, service.AwardOrderPoints(context.Background(), userID.String(), uuid.New(), 100))
	assert.Equal(t, domain.TierSilver, repo.profiles[userID].Tier)
	assert.Equal(t, 250, repo.profiles[userID].TotalEarnedPoints)
}

func TestRedeemReward_SpendsPointsButKeepsTier(t *testing.T) {
	repo := newFakeLoyaltyRepository()
	service := NewLoyaltyService(repo)
	userID := uuid.New()
	reward := repo.addReward(100, domain.TierBronze)

	require.NoError(t, service.AwardOrderPoints(context.Background(), userID.String(), uuid.New(), 250))

	profile, err := service.RedeemReward(context.Background(), userID.String(), reward.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 150, profile.Points)
	assert.Equal(t, domain.TierSilver, profile.Tier)
	assert.Equal(t, 250, profile.TotalEarnedPoints)

	last := repo.transactions[len(repo.transactions)-1]
	assert.Equal(t, "redeemed", last.TransactionType)
	assert.Equal(t, -100, last.Points)
}

func TestRedeemReward_Guards(t *testing.T) {
	repo := newFakeLoyaltyRepository()
	service := NewLoyaltyService(repo)
	userID := uuid.New()

	cheap := repo.addReward(50, domain.TierBronze)
	gated := repo.addReward(10, domain.TierGold)

	require.NoError(t, service.AwardOrderPoints(context.Background(), userID.String(), uuid.New(), 20))

	_, err := service.RedeemReward(context.Background(), userID.String(), cheap.ID.String())
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	_, err = service.RedeemReward(context.Background(), userID.String(), gated.ID.String())
	assert.ErrorIs(t, err, domain.ErrTierTooLow)

	_, err = service.RedeemReward(context.Background(), userID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRewardNotFound)
}
