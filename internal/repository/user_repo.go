package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/s-411/cpn-backend/internal/models"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, email, password_hash, subscription_tier, subscription_status, stripe_customer_id, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.SubscriptionTier,
		&user.SubscriptionStatus,
		&user.StripeCustomerID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, subscription_tier, subscription_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.SubscriptionTier, user.SubscriptionStatus,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// GetOrCreateByEmail returns the user row for an authenticated email,
// creating a default record on first access. Defaults: boyfriend tier,
// active status, no password (externally authenticated sessions).
func (r *UserRepository) GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	insert := `
		INSERT INTO users (email, subscription_tier, subscription_status)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, insert, email, models.TierBoyfriend, models.SubscriptionActive); err != nil {
		return nil, err
	}
	return r.GetByEmail(ctx, email)
}

// UpdateUserInput is the fixed allow-list for PUT /api/user. Fields left
// nil keep their stored value.
type UpdateUserInput struct {
	Email              *string
	SubscriptionTier   *string
	SubscriptionStatus *string
	StripeCustomerID   *string
}

func (r *UserRepository) UpdatePartial(ctx context.Context, id int64, input UpdateUserInput) (*models.User, error) {
	query := `
		UPDATE users
		SET email = COALESCE($1, email),
			subscription_tier = COALESCE($2, subscription_tier),
			subscription_status = COALESCE($3, subscription_status),
			stripe_customer_id = COALESCE($4, stripe_customer_id),
			updated_at = NOW()
		WHERE id = $5
		RETURNING ` + userColumns + `
	`
	return scanUser(r.db.QueryRow(ctx, query,
		input.Email, input.SubscriptionTier, input.SubscriptionStatus, input.StripeCustomerID, id,
	))
}

// UpdateSubscriptionByEmail applies a webhook-driven tier change.
func (r *UserRepository) UpdateSubscriptionByEmail(ctx context.Context, email, tier, status string) error {
	query := `
		UPDATE users
		SET subscription_tier = $1, subscription_status = $2, updated_at = NOW()
		WHERE email = $3
	`
	tag, err := r.db.Exec(ctx, query, tier, status, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
