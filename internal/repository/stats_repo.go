package repository

import (
	"context"

	"github.com/s-411/cpn-backend/internal/models"
)

// StatsRepository serves the public demographic aggregation behind
// GET /api/global-stats. Nothing here is owner-scoped; no user-provided
// values reach these queries.
type StatsRepository struct {
	db DBTX
}

func NewStatsRepository(db DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Demographics(ctx context.Context) (*models.DemographicStats, error) {
	stats := &models.DemographicStats{TopNationalities: []models.NationalityCount{}}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM girls),
			(SELECT COUNT(*) FROM data_entries),
			COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM girls), 0)
	`
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.TotalGirls,
		&stats.TotalEntries,
		&stats.AverageRating,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT nationality, COUNT(*) AS n
		FROM girls
		WHERE nationality IS NOT NULL AND nationality <> ''
		GROUP BY nationality
		ORDER BY n DESC, nationality ASC
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var nc models.NationalityCount
		if err := rows.Scan(&nc.Nationality, &nc.Count); err != nil {
			return nil, err
		}
		stats.TopNationalities = append(stats.TopNationalities, nc)
	}
	return stats, rows.Err()
}
