package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/s-411/cpn-backend/internal/services"
	"github.com/s-411/cpn-backend/internal/validation"
	"github.com/s-411/cpn-backend/pkg/utils"
	"go.uber.org/zap"
)

type onboardingCompleter interface {
	Complete(ctx context.Context, input services.CompleteOnboardingInput) (*services.OnboardingResult, error)
}

type OnboardingHandler struct {
	onboardingService onboardingCompleter
	jwtSecret         string
	secureCookies     bool
}

func NewOnboardingHandler(onboardingService onboardingCompleter, jwtSecret string, secureCookies bool) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingService: onboardingService,
		jwtSecret:         jwtSecret,
		secureCookies:     secureCookies,
	}
}

type onboardingGirlPayload struct {
	Name            string  `json:"name"`
	Age             int     `json:"age"`
	Rating          float64 `json:"rating"`
	Ethnicity       *string `json:"ethnicity"`
	HairColor       *string `json:"hairColor"`
	LocationCity    *string `json:"locationCity"`
	LocationCountry *string `json:"locationCountry"`
	Nationality     *string `json:"nationality"`
}

type onboardingEntryPayload struct {
	Date            string  `json:"date"`
	AmountSpent     float64 `json:"amountSpent"`
	DurationMinutes int     `json:"durationMinutes"`
	NumberOfNuts    int     `json:"numberOfNuts"`
}

type completeOnboardingRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Girl     onboardingGirlPayload  `json:"girl"`
	Entry    onboardingEntryPayload `json:"entry"`
}

// Complete turns the client-side onboarding draft into an account, its
// first girl, and its first entry in one transaction. A failure anywhere
// leaves no partial account behind.
func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	var req completeOnboardingRequest
	if err := decodeStrict(c.Body(), &req, "email", "password", "girl", "entry"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	errs := validation.FieldErrors{}
	email, err := validation.Email(req.Email)
	if err != nil {
		errs.Add("email", err.Error())
	}
	if err := validation.Password(req.Password); err != nil {
		errs.Add("password", err.Error())
	}

	name, err := validation.Name(req.Girl.Name)
	if err != nil {
		errs.Add("name", err.Error())
	}
	if err := validation.Age(req.Girl.Age); err != nil {
		errs.Add("age", err.Error())
	}
	if err := validation.Rating(req.Girl.Rating); err != nil {
		errs.Add("rating", err.Error())
	}
	validateGirlTextFields(errs, map[string]**string{
		"ethnicity":       &req.Girl.Ethnicity,
		"hairColor":       &req.Girl.HairColor,
		"locationCity":    &req.Girl.LocationCity,
		"locationCountry": &req.Girl.LocationCountry,
		"nationality":     &req.Girl.Nationality,
	})

	date, err := validation.EntryDate(req.Entry.Date)
	if err != nil {
		errs.Add("date", err.Error())
	}
	validateEntryValues(errs, &req.Entry.AmountSpent, &req.Entry.DurationMinutes, &req.Entry.NumberOfNuts)

	if errs.Any() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errs.Message()})
	}

	result, err := h.onboardingService.Complete(c.Context(), services.CompleteOnboardingInput{
		Email:    email,
		Password: req.Password,
		Girl: services.OnboardingGirlDraft{
			Name:            name,
			Age:             req.Girl.Age,
			Rating:          req.Girl.Rating,
			Ethnicity:       req.Girl.Ethnicity,
			HairColor:       req.Girl.HairColor,
			LocationCity:    req.Girl.LocationCity,
			LocationCountry: req.Girl.LocationCountry,
			Nationality:     req.Girl.Nationality,
		},
		Entry: services.OnboardingEntryDraft{
			Date:            date,
			AmountSpent:     req.Entry.AmountSpent,
			DurationMinutes: req.Entry.DurationMinutes,
			NumberOfNuts:    req.Entry.NumberOfNuts,
		},
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "An account with this email already exists"})
		}
		zap.L().Error("complete onboarding", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete onboarding"})
	}

	token, err := utils.GenerateToken(strconv.FormatInt(result.User.ID, 10), result.User.Email, h.jwtSecret)
	if err != nil {
		zap.L().Error("issue session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete onboarding"})
	}
	setSessionCookie(c, token, h.secureCookies)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  result.User,
		"girl":  result.Girl,
		"entry": result.Entry,
	})
}
