package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/s-411/cpn-backend/internal/models"
	"github.com/s-411/cpn-backend/internal/repository"
	"github.com/stripe/stripe-go/v79"
	portalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
)

var (
	ErrBillingDisabled = errors.New("billing is not configured")
	ErrUnknownPlan     = errors.New("unknown subscription plan")
)

type billingUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePartial(ctx context.Context, id int64, input repository.UpdateUserInput) (*models.User, error)
}

// BillingService fronts Stripe for tier upgrades. Checkout redirects the
// browser to Stripe; the resulting subscription events come back through
// the webhook surface.
type BillingService struct {
	userRepo        billingUserStore
	appBaseURL      string
	playerPriceID   string
	lifetimePriceID string
	enabled         bool
}

func NewBillingService(userRepo billingUserStore, secretKey, appBaseURL, playerPriceID, lifetimePriceID string) *BillingService {
	if secretKey != "" {
		stripe.Key = secretKey
	}
	return &BillingService{
		userRepo:        userRepo,
		appBaseURL:      appBaseURL,
		playerPriceID:   playerPriceID,
		lifetimePriceID: lifetimePriceID,
		enabled:         secretKey != "",
	}
}

// ensureCustomer finds or creates the Stripe customer for a user and
// stores the id on the user row.
func (s *BillingService) ensureCustomer(ctx context.Context, userID int64) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	cust, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(user.ID, 10),
		},
	})
	if err != nil {
		return "", err
	}

	if _, err := s.userRepo.UpdatePartial(ctx, userID, repository.UpdateUserInput{
		StripeCustomerID: &cust.ID,
	}); err != nil {
		return "", err
	}
	return cust.ID, nil
}

// CreateCheckout returns a Stripe Checkout URL for the requested tier.
func (s *BillingService) CreateCheckout(ctx context.Context, userID int64, tier string) (string, error) {
	if !s.enabled {
		return "", ErrBillingDisabled
	}

	var priceID string
	var mode stripe.CheckoutSessionMode
	switch tier {
	case models.TierPlayer:
		priceID = s.playerPriceID
		mode = stripe.CheckoutSessionModeSubscription
	case models.TierLifetime:
		priceID = s.lifetimePriceID
		mode = stripe.CheckoutSessionModePayment
	default:
		return "", ErrUnknownPlan
	}
	if priceID == "" {
		return "", ErrBillingDisabled
	}

	customerID, err := s.ensureCustomer(ctx, userID)
	if err != nil {
		return "", err
	}

	sess, err := checkoutsession.New(&stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(s.appBaseURL + "/settings/billing?status=success"),
		CancelURL:  stripe.String(s.appBaseURL + "/settings/billing?status=cancelled"),
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// CreatePortal returns a Stripe billing portal URL for subscription
// management.
func (s *BillingService) CreatePortal(ctx context.Context, userID int64) (string, error) {
	if !s.enabled {
		return "", ErrBillingDisabled
	}

	customerID, err := s.ensureCustomer(ctx, userID)
	if err != nil {
		return "", err
	}

	sess, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(s.appBaseURL + "/settings/billing"),
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
