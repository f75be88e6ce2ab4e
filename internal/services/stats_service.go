package services

import (
	"context"

	"github.com/s-411/cpn-backend/internal/models"
	"github.com/s-411/cpn-backend/internal/repository"
	"github.com/s-411/cpn-backend/internal/stats"
	statsws "github.com/s-411/cpn-backend/internal/websocket"
)

type statsGirlReader interface {
	GetByID(ctx context.Context, userID, girlID int64) (*models.Girl, error)
	List(ctx context.Context, userID int64) ([]models.Girl, error)
}

type statsEntryReader interface {
	List(ctx context.Context, userID int64, filter repository.EntryListFilter) ([]models.DataEntry, error)
	ListByGirl(ctx context.Context, userID, girlID int64) ([]models.DataEntry, error)
}

type demographicsReader interface {
	Demographics(ctx context.Context) (*models.DemographicStats, error)
}

type StatsService struct {
	girlRepo  statsGirlReader
	entryRepo statsEntryReader
	statsRepo demographicsReader
}

func NewStatsService(girlRepo statsGirlReader, entryRepo statsEntryReader, statsRepo demographicsReader) *StatsService {
	return &StatsService{
		girlRepo:  girlRepo,
		entryRepo: entryRepo,
		statsRepo: statsRepo,
	}
}

// GirlMetrics aggregates one girl's entries. The girl lookup is
// owner-scoped, so another user's girl surfaces as pgx.ErrNoRows.
func (s *StatsService) GirlMetrics(ctx context.Context, userID, girlID int64) (*models.Metrics, error) {
	if _, err := s.girlRepo.GetByID(ctx, userID, girlID); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByGirl(ctx, userID, girlID)
	if err != nil {
		return nil, err
	}

	metrics := stats.Aggregate(entries)
	return &metrics, nil
}

// GlobalMetrics aggregates across every girl the caller owns, including
// girls without entries so GirlCount reflects the full roster.
func (s *StatsService) GlobalMetrics(ctx context.Context, userID int64) (*models.GlobalMetrics, error) {
	girls, err := s.girlRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.List(ctx, userID, repository.EntryListFilter{})
	if err != nil {
		return nil, err
	}

	byGirl := make(map[int64][]models.DataEntry, len(girls))
	for _, e := range entries {
		byGirl[e.GirlID] = append(byGirl[e.GirlID], e)
	}

	perGirl := make([]models.Metrics, 0, len(girls))
	for _, girl := range girls {
		perGirl = append(perGirl, stats.Aggregate(byGirl[girl.ID]))
	}

	global := stats.AggregateGlobal(perGirl)
	return &global, nil
}

func (s *StatsService) Demographics(ctx context.Context) (*models.DemographicStats, error) {
	return s.statsRepo.Demographics(ctx)
}

// MetricsUpdate builds the frame pushed to dashboard sockets: the
// affected girl's metrics when girlID is set, plus the caller's global
// rollup.
func (s *StatsService) MetricsUpdate(ctx context.Context, userID, girlID int64) (*statsws.Update, error) {
	update := &statsws.Update{Type: "metrics", GirlID: girlID}

	if girlID > 0 {
		girl, err := s.GirlMetrics(ctx, userID, girlID)
		if err != nil {
			return nil, err
		}
		update.Girl = girl
	}

	global, err := s.GlobalMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	update.Global = global

	return update, nil
}
