package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/s-411/cpn-backend/internal/models"
	"github.com/s-411/cpn-backend/internal/repository"
	"github.com/s-411/cpn-backend/pkg/utils"
)

// OnboardingService turns the browser-held wizard draft into durable
// rows. The wizard collects a girl, one entry, and an email before any
// account exists; completion creates all of it atomically.
type OnboardingService struct {
	db *pgxpool.Pool
}

func NewOnboardingService(db *pgxpool.Pool) *OnboardingService {
	return &OnboardingService{db: db}
}

type OnboardingGirlDraft struct {
	Name            string
	Age             int
	Rating          float64
	Ethnicity       *string
	HairColor       *string
	LocationCity    *string
	LocationCountry *string
	Nationality     *string
}

type OnboardingEntryDraft struct {
	Date            time.Time
	AmountSpent     float64
	DurationMinutes int
	NumberOfNuts    int
}

type CompleteOnboardingInput struct {
	Email    string
	Password string
	Girl     OnboardingGirlDraft
	Entry    OnboardingEntryDraft
}

type OnboardingResult struct {
	User  *models.User
	Girl  *models.Girl
	Entry *models.DataEntry
}

func (s *OnboardingService) Complete(ctx context.Context, input CompleteOnboardingInput) (*OnboardingResult, error) {
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txUserRepo := repository.NewUserRepository(tx)
	txGirlRepo := repository.NewGirlRepository(tx)
	txEntryRepo := repository.NewEntryRepository(tx)

	user := &models.User{
		Email:              input.Email,
		PasswordHash:       &hashed,
		SubscriptionTier:   models.TierBoyfriend,
		SubscriptionStatus: models.SubscriptionActive,
	}
	if err := txUserRepo.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	girl, err := txGirlRepo.Create(ctx, repository.CreateGirlInput{
		UserID:          user.ID,
		Name:            input.Girl.Name,
		Age:             input.Girl.Age,
		Rating:          input.Girl.Rating,
		Ethnicity:       input.Girl.Ethnicity,
		HairColor:       input.Girl.HairColor,
		LocationCity:    input.Girl.LocationCity,
		LocationCountry: input.Girl.LocationCountry,
		Nationality:     input.Girl.Nationality,
	})
	if err != nil {
		return nil, err
	}

	entry, err := txEntryRepo.Create(ctx, repository.CreateEntryInput{
		UserID:          user.ID,
		GirlID:          girl.ID,
		Date:            input.Entry.Date,
		AmountSpent:     input.Entry.AmountSpent,
		DurationMinutes: input.Entry.DurationMinutes,
		NumberOfNuts:    input.Entry.NumberOfNuts,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &OnboardingResult{User: user, Girl: girl, Entry: entry}, nil
}
