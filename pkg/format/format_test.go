package format

import (
	"testing"
	"time"
)

func TestCurrency(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{50, "$50.00"},
		{1234.5, "$1,234.50"},
		{999999.99, "$999,999.99"},
	}
	for _, tc := range cases {
		if got := Currency(tc.amount); got != tc.want {
			t.Errorf("Currency(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestDuration(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{150, "2h 30m"},
		{1440, "24h 0m"},
	}
	for _, tc := range cases {
		if got := Duration(tc.minutes); got != tc.want {
			t.Errorf("Duration(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestRating(t *testing.T) {
	if got := Rating(8); got != "8.0" {
		t.Errorf("Rating(8) = %q, want 8.0", got)
	}
	if got := Rating(7.5); got != "7.5" {
		t.Errorf("Rating(7.5) = %q, want 7.5", got)
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(33.4); got != "33%" {
		t.Errorf("Percentage(33.4) = %q, want 33%%", got)
	}
	if got := Percentage(66.5); got != "67%" {
		t.Errorf("Percentage(66.5) = %q, want 67%%", got)
	}
}

func TestInitials(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Ann", "A"},
		{"ann marie", "AM"},
		{"Ann Marie Smith", "AM"},
		{"  spaced   out  ", "SO"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Initials(tc.name); got != tc.want {
			t.Errorf("Initials(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRelativeDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		date time.Time
		want string
	}{
		{now, "Today"},
		{now.AddDate(0, 0, -1), "Yesterday"},
		{now.AddDate(0, 0, -3), "3 days ago"},
		{now.AddDate(0, 0, -7), "1 week ago"},
		{now.AddDate(0, 0, -21), "3 weeks ago"},
		{now.AddDate(0, 0, -31), "1 month ago"},
		{now.AddDate(0, 0, -95), "3 months ago"},
		{now.AddDate(0, 0, -366), "1 year ago"},
		{now.AddDate(0, 0, -800), "2 years ago"},
	}
	for _, tc := range cases {
		if got := RelativeDate(tc.date, now); got != tc.want {
			t.Errorf("RelativeDate(%v) = %q, want %q", tc.date, got, tc.want)
		}
	}
}
