package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/s-411/cpn-backend/internal/services"
	"go.uber.org/zap"
)

type affiliateProcessor interface {
	VerifySignature(body []byte, signature string) error
	Process(ctx context.Context, body []byte) (string, error)
}

type WebhookHandler struct {
	affiliateService affiliateProcessor
}

func NewWebhookHandler(affiliateService affiliateProcessor) *WebhookHandler {
	return &WebhookHandler{affiliateService: affiliateService}
}

// Rewardful receives affiliate webhooks. The signature is checked over
// the raw body before any parsing.
func (h *WebhookHandler) Rewardful(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Rewardful-Signature")

	if err := h.affiliateService.VerifySignature(body, signature); err != nil {
		zap.L().Warn("webhook signature rejected", zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	}

	eventType, err := h.affiliateService.Process(c.Context(), body)
	if err != nil {
		if errors.Is(err, services.ErrUnknownWebhookType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported event type"})
		}
		zap.L().Error("webhook processing", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}

	return c.JSON(fiber.Map{
		"received": true,
		"type":     eventType,
	})
}
