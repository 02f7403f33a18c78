package domain

import (
	"errors"
)

var (
	MessageSuccessGetLoyalty    = "loyalty profile retrieved successfully"
	MessageSuccessRedeemReward  = "reward redeemed successfully"

	MessageFailedGetLoyalty   = "failed to retrieve loyalty profile"
	MessageFailedRedeemReward = "failed to redeem reward"

	ErrRewardNotFound     = errors.New("reward not found")
	ErrInsufficientPoints = errors.New("insufficient points for reward")
	ErrTierTooLow         = errors.New("loyalty tier too low for reward")
)

const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

type (
	LoyaltyProfileResponse struct {
		Points            int    `json:"points"`
		Tier              string `json:"tier"`
		TierProgress      int    `json:"tier_progress"`
		TotalEarnedPoints int    `json:"total_earned_points"`
	}

	LoyaltyRewardResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		CostPoints  int    `json:"cost_points"`
		RewardType  string `json:"reward_type"`
		MinTier     string `json:"min_tier"`
	}

	LoyaltyOverviewResponse struct {
		Profile LoyaltyProfileResponse  `json:"profile"`
		Rewards []LoyaltyRewardResponse `json:"rewards"`
	}

	RedeemRewardRequest struct {
		RewardID string `json:"reward_id" validate:"required,uuid"`
	}
)
