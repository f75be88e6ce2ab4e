package models

import (
	"encoding/json"
	"time"
)

// Metrics summarizes the entries of a single girl. Money fields carry at
// most two decimal places; TimePerNut keeps full float precision.
type Metrics struct {
	TotalSpent   float64 `json:"total_spent"`
	TotalNuts    int     `json:"total_nuts"`
	TotalMinutes int     `json:"total_minutes"`
	CostPerNut   float64 `json:"cost_per_nut"`
	TimePerNut   float64 `json:"time_per_nut"`
	EntryCount   int     `json:"entry_count"`
}

// GlobalMetrics sums Metrics across all of a user's girls. The averages
// are computed from the aggregated totals, not as an average of averages.
type GlobalMetrics struct {
	TotalSpent        float64 `json:"total_spent"`
	TotalNuts         int     `json:"total_nuts"`
	TotalMinutes      int     `json:"total_minutes"`
	EntryCount        int     `json:"entry_count"`
	GirlCount         int     `json:"girl_count"`
	AverageCostPerNut float64 `json:"average_cost_per_nut"`
	AverageTimePerNut float64 `json:"average_time_per_nut"`
}

type NationalityCount struct {
	Nationality string `json:"nationality"`
	Count       int    `json:"count"`
}

// DemographicStats is the fixed-shape public statistics object served by
// GET /api/global-stats.
type DemographicStats struct {
	TotalUsers       int                `json:"total_users"`
	TotalGirls       int                `json:"total_girls"`
	TotalEntries     int                `json:"total_entries"`
	AverageRating    float64            `json:"average_rating"`
	TopNationalities []NationalityCount `json:"top_nationalities"`
}

type WebhookEvent struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}
