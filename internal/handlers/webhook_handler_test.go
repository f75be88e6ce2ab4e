package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/s-411/cpn-backend/internal/services"
)

type stubAffiliateProcessor struct {
	verifyErr   error
	processType string
	processErr  error

	lastSignature string
	processCalls  int
}

func (s *stubAffiliateProcessor) VerifySignature(_ []byte, signature string) error {
	s.lastSignature = signature
	return s.verifyErr
}

func (s *stubAffiliateProcessor) Process(_ context.Context, _ []byte) (string, error) {
	s.processCalls++
	return s.processType, s.processErr
}

func postWebhook(t *testing.T, handler *WebhookHandler, body, signature string) *http.Response {
	t.Helper()
	app := fiber.New()
	app.Post("/api/webhooks/rewardful", handler.Rewardful)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/rewardful", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Rewardful-Signature", signature)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestRewardfulRejectsBadSignature(t *testing.T) {
	processor := &stubAffiliateProcessor{verifyErr: services.ErrBadSignature}
	handler := &WebhookHandler{affiliateService: processor}

	resp := postWebhook(t, handler, `{"type": "conversion.created"}`, "deadbeef")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if processor.processCalls != 0 {
		t.Fatal("expected no processing after a rejected signature")
	}
}

func TestRewardfulRejectsUnknownEventType(t *testing.T) {
	processor := &stubAffiliateProcessor{processErr: services.ErrUnknownWebhookType}
	handler := &WebhookHandler{affiliateService: processor}

	resp := postWebhook(t, handler, `{"type": "affiliate.sneezed"}`, "ok")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRewardfulAcknowledgesProcessedEvent(t *testing.T) {
	processor := &stubAffiliateProcessor{processType: "conversion.created"}
	handler := &WebhookHandler{affiliateService: processor}

	resp := postWebhook(t, handler, `{"type": "conversion.created"}`, "ok")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if processor.lastSignature != "ok" {
		t.Fatalf("expected signature header to reach the verifier, got %q", processor.lastSignature)
	}
}
