package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/s-411/cpn-backend/internal/models"
	"github.com/s-411/cpn-backend/internal/repository"
)

var (
	ErrProfileLimit = errors.New("profile limit reached for subscription tier")
	ErrEmailTaken   = errors.New("email already exists")
)

type girlUserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type GirlService struct {
	db       *pgxpool.Pool
	girlRepo *repository.GirlRepository
	userRepo girlUserReader
}

func NewGirlService(db *pgxpool.Pool, girlRepo *repository.GirlRepository, userRepo girlUserReader) *GirlService {
	return &GirlService{
		db:       db,
		girlRepo: girlRepo,
		userRepo: userRepo,
	}
}

// Create adds a girl after checking the caller's tier ceiling.
func (s *GirlService) Create(ctx context.Context, input repository.CreateGirlInput) (*models.Girl, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	ceiling := models.ProfileCeiling(user.SubscriptionTier)
	if ceiling >= 0 {
		count, err := s.girlRepo.CountByUserID(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		if count >= ceiling {
			return nil, ErrProfileLimit
		}
	}

	return s.girlRepo.Create(ctx, input)
}

// DeleteResult reports what a cascade delete removed.
type DeleteResult struct {
	EntriesDeleted int64
}

// Delete removes a girl and her entries in a single transaction, so a
// failure between the two deletes can never strand orphaned rows. The
// schema additionally carries ON DELETE CASCADE as a backstop.
func (s *GirlService) Delete(ctx context.Context, userID, girlID int64) (*DeleteResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txEntryRepo := repository.NewEntryRepository(tx)
	txGirlRepo := repository.NewGirlRepository(tx)

	deleted, err := txEntryRepo.DeleteByGirl(ctx, userID, girlID)
	if err != nil {
		return nil, err
	}
	if err := txGirlRepo.Delete(ctx, userID, girlID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &DeleteResult{EntriesDeleted: deleted}, nil
}
