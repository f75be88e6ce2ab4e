package models

import "time"

type Girl struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	Age             int       `json:"age"`
	Rating          float64   `json:"rating"`
	Ethnicity       *string   `json:"ethnicity"`
	HairColor       *string   `json:"hair_color"`
	LocationCity    *string   `json:"location_city"`
	LocationCountry *string   `json:"location_country"`
	Nationality     *string   `json:"nationality"`
	PhotoURL        *string   `json:"photo_url"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
