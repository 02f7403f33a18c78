package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"gorm.io/gorm"
)

// Tier thresholds in lifetime earned points.
const (
	silverThreshold   = 200
	goldThreshold     = 500
	platinumThreshold = 1000
)

type (
	LoyaltyService interface {
		GetOverview(ctx context.Context, userID string) (domain.LoyaltyOverviewResponse, error)
		AwardOrderPoints(ctx context.Context, userID string, orderID uuid.UUID, amount float64) error
		RedeemReward(ctx context.Context, userID, rewardID string) (domain.LoyaltyProfileResponse, error)
	}

	loyaltyService struct {
		loyaltyRepository LoyaltyRepository
	}
)

func NewLoyaltyService(loyaltyRepository LoyaltyRepository) LoyaltyService {
	return &loyaltyService{loyaltyRepository: loyaltyRepository}
}

// tierFor maps lifetime earned points to a tier and reports progress as a
// percentage toward the next one. Platinum holders sit at 100.
func tierFor(totalEarned int) (string, int) {
	switch {
	case totalEarned >= platinumThreshold:
		return domain.TierPlatinum, 100
	case totalEarned >= goldThreshold:
		return domain.TierGold, (totalEarned - goldThreshold) * 100 / (platinumThreshold - goldThreshold)
	case totalEarned >= silverThreshold:
		return domain.TierSilver, (totalEarned - silverThreshold) * 100 / (goldThreshold - silverThreshold)
	default:
		return domain.TierBronze, totalEarned * 100 / silverThreshold
	}
}

var tierRank = map[string]int{
	domain.TierBronze:   0,
	domain.TierSilver:   1,
	domain.TierGold:     2,
	domain.TierPlatinum: 3,
}

func (s *loyaltyService) profileFor(ctx context.Context, userID uuid.UUID) (*entities.LoyaltyProfile, error) {
	profile, err := s.loyaltyRepository.GetProfileByUser(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = &entities.LoyaltyProfile{
		ID:     uuid.New(),
		UserID: userID,
		Tier:   domain.TierBronze,
	}
	if err := s.loyaltyRepository.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *loyaltyService) GetOverview(ctx context.Context, userID string) (domain.LoyaltyOverviewResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.LoyaltyOverviewResponse{}, domain.ErrParseUUID
	}

	profile, err := s.profileFor(ctx, userUUID)
	if err != nil {
		return domain.LoyaltyOverviewResponse{}, err
	}

	rewards, err := s.loyaltyRepository.GetActiveRewards(ctx)
	if err != nil {
		return domain.LoyaltyOverviewResponse{}, err
	}

	overview := domain.LoyaltyOverviewResponse{
		Profile: toProfileResponse(profile),
		Rewards: make([]domain.LoyaltyRewardResponse, 0, len(rewards)),
	}
	for _, reward := range rewards {
		overview.Rewards = append(overview.Rewards, domain.LoyaltyRewardResponse{
			ID:          reward.ID.String(),
			Name:        reward.Name,
			Description: reward.Description,
			CostPoints:  reward.CostPoints,
			RewardType:  reward.RewardType,
			MinTier:     reward.MinTier,
		})
	}
	return overview, nil
}

// AwardOrderPoints credits one point per currency unit of the order total
// and re-evaluates the tier from lifetime earnings.
func (s *loyaltyService) AwardOrderPoints(ctx context.Context, userID string, orderID uuid.UUID, amount float64) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	points := int(amount)
	if points <= 0 {
		return nil
	}

	profile, err := s.profileFor(ctx, userUUID)
	if err != nil {
		return err
	}

	profile.Points += points
	profile.TotalEarnedPoints += points
	profile.Tier, profile.TierProgress = tierFor(profile.TotalEarnedPoints)

	if err := s.loyaltyRepository.UpdateProfile(ctx, profile); err != nil {
		return err
	}

	return s.loyaltyRepository.CreateTransaction(ctx, &entities.LoyaltyTransaction{
		ID:              uuid.New(),
		UserID:          userUUID,
		TransactionType: "earned",
		Points:          points,
		Description:     fmt.Sprintf("Points earned for order %s", orderID),
		OrderID:         &orderID,
	})
}

// RedeemReward spends points on a catalogue reward. Redemption never
// touches the tier: tiers move on lifetime earnings only.
func (s *loyaltyService) RedeemReward(ctx context.Context, userID, rewardID string) (domain.LoyaltyProfileResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.LoyaltyProfileResponse{}, domain.ErrParseUUID
	}

	reward, err := s.loyaltyRepository.GetRewardByID(ctx, rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoyaltyProfileResponse{}, domain.ErrRewardNotFound
		}
		return domain.LoyaltyProfileResponse{}, err
	}

	profile, err := s.profileFor(ctx, userUUID)
	if err != nil {
		return domain.LoyaltyProfileResponse{}, err
	}

	if tierRank[profile.Tier] < tierRank[reward.MinTier] {
		return domain.LoyaltyProfileResponse{}, domain.ErrTierTooLow
	}
	if profile.Points < reward.CostPoints {
		return domain.LoyaltyProfileResponse{}, domain.ErrInsufficientPoints
	}

	profile.Points -= reward.CostPoints
	if err := s.loyaltyRepository.UpdateProfile(ctx, profile); err != nil {
		return domain.LoyaltyProfileResponse{}, err
	}

	rewardUUID := reward.ID
	if err := s.loyaltyRepository.CreateTransaction(ctx, &entities.LoyaltyTransaction{
		ID:              uuid.New(),
		UserID:          userUUID,
		TransactionType: "redeemed",
		Points:          -reward.CostPoints,
		Description:     fmt.Sprintf("Redeemed reward %s", reward.Name),
		RewardID:        &rewardUUID,
	}); err != nil {
		return domain.LoyaltyProfileResponse{}, err
	}

	return toProfileResponse(profile), nil
}

func toProfileResponse(profile *entities.LoyaltyProfile) domain.LoyaltyProfileResponse {
	return domain.LoyaltyProfileResponse{
		Points:            profile.Points,
		Tier:              profile.Tier,
		TierProgress:      profile.TierProgress,
		TotalEarnedPoints: profile.TotalEarnedPoints,
	}
}
