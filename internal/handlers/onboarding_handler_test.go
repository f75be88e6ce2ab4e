package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/s-411/cpn-backend/internal/middleware"
	"github.com/s-411/cpn-backend/internal/models"
	"github.com/s-411/cpn-backend/internal/services"
)

type stubOnboardingCompleter struct {
	result *services.OnboardingResult
	err    error

	lastInput services.CompleteOnboardingInput
	calls     int
}

func (s *stubOnboardingCompleter) Complete(_ context.Context, input services.CompleteOnboardingInput) (*services.OnboardingResult, error) {
	s.calls++
	s.lastInput = input
	return s.result, s.err
}

const validOnboardingBody = `{
	"email": "New@Example.com",
	"password": "hunter2hunter2",
	"girl": {"name": "Jess", "age": 24, "rating": 7.5},
	"entry": {"date": "2026-08-20", "amountSpent": 80.25, "durationMinutes": 120, "numberOfNuts": 2}
}`

func TestCompleteOnboardingCreatesEverythingAndIssuesSession(t *testing.T) {
	completer := &stubOnboardingCompleter{
		result: &services.OnboardingResult{
			User:  &models.User{ID: 42, Email: "new@example.com"},
			Girl:  &models.Girl{ID: 5, UserID: 42, Name: "Jess"},
			Entry: &models.DataEntry{ID: 11, UserID: 42, GirlID: 5},
		},
	}
	handler := &OnboardingHandler{onboardingService: completer, jwtSecret: "test-secret"}

	app := fiber.New()
	app.Post("/api/onboarding/complete", handler.Complete)

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/complete", strings.NewReader(validOnboardingBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if completer.lastInput.Email != "new@example.com" {
		t.Fatalf("expected lowercased email, got %q", completer.lastInput.Email)
	}
	if completer.lastInput.Girl.Name != "Jess" {
		t.Fatalf("expected girl draft passed through, got %q", completer.lastInput.Girl.Name)
	}
	if completer.lastInput.Entry.AmountSpent != 80.25 {
		t.Fatalf("expected entry amount 80.25, got %v", completer.lastInput.Entry.AmountSpent)
	}

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("expected a session cookie on successful onboarding")
	}

	var body struct {
		Token string           `json:"token"`
		User  models.User      `json:"user"`
		Girl  models.Girl      `json:"girl"`
		Entry models.DataEntry `json:"entry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Token == "" || body.User.ID != 42 || body.Girl.ID != 5 || body.Entry.ID != 11 {
		t.Fatalf("unexpected response body: %+v", body)
	}
}

func TestCompleteOnboardingRejectsInvalidDraft(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad email", strings.Replace(validOnboardingBody, "New@Example.com", "not-an-email", 1)},
		{"short password", strings.Replace(validOnboardingBody, "hunter2hunter2", "short", 1)},
		{"underage girl", strings.Replace(validOnboardingBody, `"age": 24`, `"age": 17`, 1)},
		{"negative amount", strings.Replace(validOnboardingBody, `"amountSpent": 80.25`, `"amountSpent": -5`, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			completer := &stubOnboardingCompleter{}
			handler := &OnboardingHandler{onboardingService: completer, jwtSecret: "test-secret"}

			app := fiber.New()
			app.Post("/api/onboarding/complete", handler.Complete)

			req := httptest.NewRequest(http.MethodPost, "/api/onboarding/complete", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if completer.calls != 0 {
				t.Fatalf("expected no service calls, got %d", completer.calls)
			}
		})
	}
}

func TestCompleteOnboardingDuplicateEmail(t *testing.T) {
	completer := &stubOnboardingCompleter{err: services.ErrEmailTaken}
	handler := &OnboardingHandler{onboardingService: completer, jwtSecret: "test-secret"}

	app := fiber.New()
	app.Post("/api/onboarding/complete", handler.Complete)

	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/complete", strings.NewReader(validOnboardingBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
