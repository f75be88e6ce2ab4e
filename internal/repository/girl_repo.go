package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/s-411/cpn-backend/internal/models"
)

const girlColumns = `id, user_id, name, age, rating, ethnicity, hair_color, location_city, location_country, nationality, photo_url, is_active, created_at, updated_at`

type GirlRepository struct {
	db DBTX
}

func NewGirlRepository(db DBTX) *GirlRepository {
	return &GirlRepository{db: db}
}

type CreateGirlInput struct {
	UserID          int64
	Name            string
	Age             int
	Rating          float64
	Ethnicity       *string
	HairColor       *string
	LocationCity    *string
	LocationCountry *string
	Nationality     *string
}

type UpdateGirlInput struct {
	Name            *string
	Age             *int
	Rating          *float64
	Ethnicity       *string
	HairColor       *string
	LocationCity    *string
	LocationCountry *string
	Nationality     *string
	IsActive        *bool
}

func scanGirl(row pgx.Row) (*models.Girl, error) {
	var girl models.Girl
	err := row.Scan(
		&girl.ID,
		&girl.UserID,
		&girl.Name,
		&girl.Age,
		&girl.Rating,
		&girl.Ethnicity,
		&girl.HairColor,
		&girl.LocationCity,
		&girl.LocationCountry,
		&girl.Nationality,
		&girl.PhotoURL,
		&girl.IsActive,
		&girl.CreatedAt,
		&girl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &girl, nil
}

func (r *GirlRepository) Create(ctx context.Context, input CreateGirlInput) (*models.Girl, error) {
	query := `
		INSERT INTO girls (user_id, name, age, rating, ethnicity, hair_color, location_city, location_country, nationality)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + girlColumns + `
	`
	return scanGirl(r.db.QueryRow(ctx, query,
		input.UserID,
		input.Name,
		input.Age,
		input.Rating,
		input.Ethnicity,
		input.HairColor,
		input.LocationCity,
		input.LocationCountry,
		input.Nationality,
	))
}

// GetByID is owner-scoped: a girl belonging to another user reads as not
// found.
func (r *GirlRepository) GetByID(ctx context.Context, userID, girlID int64) (*models.Girl, error) {
	query := `SELECT ` + girlColumns + ` FROM girls WHERE id = $1 AND user_id = $2`
	return scanGirl(r.db.QueryRow(ctx, query, girlID, userID))
}

func (r *GirlRepository) List(ctx context.Context, userID int64) ([]models.Girl, error) {
	query := `
		SELECT ` + girlColumns + `
		FROM girls
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	girls := []models.Girl{}
	for rows.Next() {
		girl, err := scanGirl(rows)
		if err != nil {
			return nil, err
		}
		girls = append(girls, *girl)
	}
	return girls, rows.Err()
}

func (r *GirlRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM girls WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *GirlRepository) UpdatePartial(ctx context.Context, userID, girlID int64, input UpdateGirlInput) (*models.Girl, error) {
	query := `
		UPDATE girls
		SET name = COALESCE($1, name),
			age = COALESCE($2, age),
			rating = COALESCE($3, rating),
			ethnicity = COALESCE($4, ethnicity),
			hair_color = COALESCE($5, hair_color),
			location_city = COALESCE($6, location_city),
			location_country = COALESCE($7, location_country),
			nationality = COALESCE($8, nationality),
			is_active = COALESCE($9, is_active),
			updated_at = NOW()
		WHERE id = $10 AND user_id = $11
		RETURNING ` + girlColumns + `
	`
	return scanGirl(r.db.QueryRow(ctx, query,
		input.Name,
		input.Age,
		input.Rating,
		input.Ethnicity,
		input.HairColor,
		input.LocationCity,
		input.LocationCountry,
		input.Nationality,
		input.IsActive,
		girlID,
		userID,
	))
}

func (r *GirlRepository) SetPhotoURL(ctx context.Context, userID, girlID int64, photoURL string) (*models.Girl, error) {
	query := `
		UPDATE girls
		SET photo_url = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + girlColumns + `
	`
	return scanGirl(r.db.QueryRow(ctx, query, photoURL, girlID, userID))
}

func (r *GirlRepository) Delete(ctx context.Context, userID, girlID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM girls WHERE id = $1 AND user_id = $2`, girlID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
