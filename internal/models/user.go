package models

import "time"

const (
	TierBoyfriend = "boyfriend"
	TierPlayer    = "player"
	TierLifetime  = "lifetime"

	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// ProfileCeiling returns the number of girls a tier may track.
// A negative ceiling means unlimited.
func ProfileCeiling(tier string) int {
	switch tier {
	case TierPlayer:
		return 50
	case TierLifetime:
		return -1
	default:
		return 1
	}
}

func ValidTier(tier string) bool {
	switch tier {
	case TierBoyfriend, TierPlayer, TierLifetime:
		return true
	}
	return false
}

func ValidSubscriptionStatus(status string) bool {
	switch status {
	case SubscriptionActive, SubscriptionCancelled, SubscriptionExpired:
		return true
	}
	return false
}

type User struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       *string   `json:"-"`
	SubscriptionTier   string    `json:"subscription_tier"`
	SubscriptionStatus string    `json:"subscription_status"`
	StripeCustomerID   *string   `json:"stripe_customer_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
