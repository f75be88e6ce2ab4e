package models

import "time"

// DataEntry is one recorded interaction against a girl: money spent,
// time spent, and outcome count on a given calendar date.
type DataEntry struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	GirlID          int64     `json:"girl_id"`
	Date            time.Time `json:"date"`
	AmountSpent     float64   `json:"amount_spent"`
	DurationMinutes int       `json:"duration_minutes"`
	NumberOfNuts    int       `json:"number_of_nuts"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
