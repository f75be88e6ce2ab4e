package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/s-411/cpn-backend/internal/services"
	"go.uber.org/zap"
)

type checkoutStarter interface {
	CreateCheckout(ctx context.Context, userID int64, tier string) (string, error)
	CreatePortal(ctx context.Context, userID int64) (string, error)
}

type BillingHandler struct {
	billingService checkoutStarter
}

func NewBillingHandler(billingService checkoutStarter) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

type createCheckoutRequest struct {
	Tier string `json:"tier"`
}

func (h *BillingHandler) CreateCheckout(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req createCheckoutRequest
	if err := decodeStrict(c.Body(), &req, "tier"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	url, err := h.billingService.CreateCheckout(c.Context(), userID, req.Tier)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownPlan):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tier must be player or lifetime"})
		case errors.Is(err, services.ErrBillingDisabled):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Billing is not configured"})
		}
		zap.L().Error("create checkout", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start checkout"})
	}

	return c.JSON(fiber.Map{"checkout_url": url})
}

func (h *BillingHandler) CreatePortal(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	url, err := h.billingService.CreatePortal(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrBillingDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Billing is not configured"})
		}
		zap.L().Error("create billing portal", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open billing portal"})
	}

	return c.JSON(fiber.Map{"portal_url": url})
}
