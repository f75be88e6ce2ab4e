package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/s-411/cpn-backend/internal/models"
	"go.uber.org/zap"
)

var (
	ErrBadSignature       = errors.New("invalid webhook signature")
	ErrUnknownWebhookType = errors.New("unknown webhook event type")
)

type webhookRecorder interface {
	Record(ctx context.Context, eventType string, payload []byte) (*models.WebhookEvent, error)
}

type affiliateUserStore interface {
	UpdateSubscriptionByEmail(ctx context.Context, email, tier, status string) error
}

// AffiliateService handles Rewardful webhook events. Every payload must
// pass HMAC verification before it is recorded and dispatched.
type AffiliateService struct {
	secret      string
	webhookRepo webhookRecorder
	userRepo    affiliateUserStore
}

func NewAffiliateService(secret string, webhookRepo webhookRecorder, userRepo affiliateUserStore) *AffiliateService {
	return &AffiliateService{
		secret:      secret,
		webhookRepo: webhookRepo,
		userRepo:    userRepo,
	}
}

// VerifySignature checks the hex-encoded HMAC-SHA256 of the raw request
// body against the shared webhook secret.
func (s *AffiliateService) VerifySignature(body []byte, signature string) error {
	if s.secret == "" || signature == "" {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

type rewardfulEvent struct {
	Type string `json:"type"`
	Data struct {
		CustomerEmail string `json:"customer_email"`
		Plan          string `json:"plan"`
	} `json:"data"`
}

// Process records the verified event and dispatches by type.
func (s *AffiliateService) Process(ctx context.Context, body []byte) (string, error) {
	var event rewardfulEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return "", err
	}
	if event.Type == "" {
		return "", ErrUnknownWebhookType
	}

	if _, err := s.webhookRepo.Record(ctx, event.Type, body); err != nil {
		return "", err
	}

	switch event.Type {
	case "sale.created", "conversion.created":
		return event.Type, s.handleConversion(ctx, event)
	case "sale.refunded":
		return event.Type, s.handleRefund(ctx, event)
	case "affiliate.confirmed", "referral.created":
		// Recorded for attribution reporting; no user state changes.
		return event.Type, nil
	default:
		return "", ErrUnknownWebhookType
	}
}

func (s *AffiliateService) handleConversion(ctx context.Context, event rewardfulEvent) error {
	if event.Data.CustomerEmail == "" {
		return nil
	}

	tier := event.Data.Plan
	if !models.ValidTier(tier) {
		tier = models.TierPlayer
	}

	err := s.userRepo.UpdateSubscriptionByEmail(ctx, event.Data.CustomerEmail, tier, models.SubscriptionActive)
	if errors.Is(err, pgx.ErrNoRows) {
		// Purchases can land before the account exists; the tier is
		// picked up again when the user record is created.
		zap.L().Info("affiliate conversion for unknown user",
			zap.String("email", event.Data.CustomerEmail))
		return nil
	}
	return err
}

func (s *AffiliateService) handleRefund(ctx context.Context, event rewardfulEvent) error {
	if event.Data.CustomerEmail == "" {
		return nil
	}

	err := s.userRepo.UpdateSubscriptionByEmail(ctx, event.Data.CustomerEmail,
		models.TierBoyfriend, models.SubscriptionCancelled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

