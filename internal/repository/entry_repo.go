package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/s-411/cpn-backend/internal/models"
)

const entryColumns = `id, user_id, girl_id, date, amount_spent, duration_minutes, number_of_nuts, created_at, updated_at`

type EntryRepository struct {
	db DBTX
}

func NewEntryRepository(db DBTX) *EntryRepository {
	return &EntryRepository{db: db}
}

type CreateEntryInput struct {
	UserID          int64
	GirlID          int64
	Date            time.Time
	AmountSpent     float64
	DurationMinutes int
	NumberOfNuts    int
}

type UpdateEntryInput struct {
	Date            *time.Time
	AmountSpent     *float64
	DurationMinutes *int
	NumberOfNuts    *int
}

// EntryListFilter narrows GET /api/data-entries. Zero values mean no
// filter; Limit <= 0 means no cap.
type EntryListFilter struct {
	GirlID    int64
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

func scanEntry(row pgx.Row) (*models.DataEntry, error) {
	var entry models.DataEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.GirlID,
		&entry.Date,
		&entry.AmountSpent,
		&entry.DurationMinutes,
		&entry.NumberOfNuts,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) Create(ctx context.Context, input CreateEntryInput) (*models.DataEntry, error) {
	query := `
		INSERT INTO data_entries (user_id, girl_id, date, amount_spent, duration_minutes, number_of_nuts)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + entryColumns + `
	`
	return scanEntry(r.db.QueryRow(ctx, query,
		input.UserID,
		input.GirlID,
		input.Date,
		input.AmountSpent,
		input.DurationMinutes,
		input.NumberOfNuts,
	))
}

func (r *EntryRepository) GetByID(ctx context.Context, userID, entryID int64) (*models.DataEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM data_entries WHERE id = $1 AND user_id = $2`
	return scanEntry(r.db.QueryRow(ctx, query, entryID, userID))
}

func (r *EntryRepository) List(ctx context.Context, userID int64, filter EntryListFilter) ([]models.DataEntry, error) {
	args := []any{userID}
	query := `SELECT ` + entryColumns + ` FROM data_entries WHERE user_id = $1`

	if filter.GirlID > 0 {
		args = append(args, filter.GirlID)
		query += fmt.Sprintf(" AND girl_id = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY date DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.DataEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// ListByGirl returns every entry for one girl, used by the metrics
// aggregation path.
func (r *EntryRepository) ListByGirl(ctx context.Context, userID, girlID int64) ([]models.DataEntry, error) {
	return r.List(ctx, userID, EntryListFilter{GirlID: girlID})
}

func (r *EntryRepository) UpdatePartial(ctx context.Context, userID, entryID int64, input UpdateEntryInput) (*models.DataEntry, error) {
	query := `
		UPDATE data_entries
		SET date = COALESCE($1, date),
			amount_spent = COALESCE($2, amount_spent),
			duration_minutes = COALESCE($3, duration_minutes),
			number_of_nuts = COALESCE($4, number_of_nuts),
			updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + entryColumns + `
	`
	return scanEntry(r.db.QueryRow(ctx, query,
		input.Date,
		input.AmountSpent,
		input.DurationMinutes,
		input.NumberOfNuts,
		entryID,
		userID,
	))
}

func (r *EntryRepository) Delete(ctx context.Context, userID, entryID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM data_entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteByGirl removes all entries under a girl ahead of the girl row
// itself; both run inside one transaction in GirlService.
func (r *EntryRepository) DeleteByGirl(ctx context.Context, userID, girlID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM data_entries WHERE girl_id = $1 AND user_id = $2`, girlID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
