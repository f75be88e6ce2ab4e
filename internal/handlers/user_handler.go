package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/s-411/cpn-backend/internal/models"
	"github.com/s-411/cpn-backend/internal/repository"
	"github.com/s-411/cpn-backend/internal/validation"
	"go.uber.org/zap"
)

type userStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePartial(ctx context.Context, id int64, input repository.UpdateUserInput) (*models.User, error)
}

type UserHandler struct {
	userRepo userStore
}

func NewUserHandler(userRepo userStore) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

type updateUserRequest struct {
	Email              *string `json:"email"`
	SubscriptionTier   *string `json:"subscriptionTier"`
	SubscriptionStatus *string `json:"subscriptionStatus"`
	StripeCustomerID   *string `json:"stripeCustomerId"`
}

// Get returns the session's user row. Sessions minted by an external
// identity provider carry an email but may predate any row here, so a
// missing row is created on first read.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			zap.L().Error("fetch user", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
		}
		email, _ := c.Locals("email").(string)
		if email == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		user, err = h.userRepo.GetOrCreateByEmail(c.Context(), email)
		if err != nil {
			zap.L().Error("create user from session", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
		}
	}

	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	userID, err := parseSessionUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req updateUserRequest
	if err := decodeStrict(c.Body(), &req,
		"email", "subscriptionTier", "subscriptionStatus", "stripeCustomerId"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	errs := validation.FieldErrors{}
	if req.Email != nil {
		email, err := validation.Email(*req.Email)
		if err != nil {
			errs.Add("email", err.Error())
		} else {
			*req.Email = email
		}
	}
	if req.SubscriptionTier != nil && !models.ValidTier(*req.SubscriptionTier) {
		errs.Add("subscriptionTier", "subscriptionTier must be boyfriend, player, or lifetime")
	}
	if req.SubscriptionStatus != nil && !models.ValidSubscriptionStatus(*req.SubscriptionStatus) {
		errs.Add("subscriptionStatus", "subscriptionStatus is not a recognized value")
	}
	if errs.Any() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errs.Message()})
	}

	user, err := h.userRepo.UpdatePartial(c.Context(), userID, repository.UpdateUserInput{
		Email:              req.Email,
		SubscriptionTier:   req.SubscriptionTier,
		SubscriptionStatus: req.SubscriptionStatus,
		StripeCustomerID:   req.StripeCustomerID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already in use"})
		}
		zap.L().Error("update user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"user": user})
}
