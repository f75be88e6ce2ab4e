// Package validation holds the pure field validators for incoming
// records. Validators never touch the database or network; they either
// return a sanitized value or add a message to a FieldErrors set keyed by
// field name.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	MinAge = 18
	MaxAge = 100

	MinRating = 5.0
	MaxRating = 10.0

	MaxAmount          = 999999.99
	MaxDurationMinutes = 1440
	MaxNuts            = 999

	MaxNameLength = 100
	MaxTextLength = 50
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps field names to human-readable messages.
type FieldErrors map[string]string

func (e FieldErrors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e FieldErrors) Any() bool { return len(e) > 0 }

// Message flattens the set into a single message for the error envelope,
// with deterministic ordering left to the caller's field order.
func (e FieldErrors) Message() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func Age(age int) error {
	if age < MinAge || age > MaxAge {
		return fmt.Errorf("age must be between %d and %d", MinAge, MaxAge)
	}
	return nil
}

// Rating accepts 5.0 through 10.0 in 0.5 steps; 7.3 is rejected.
func Rating(rating float64) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %.1f and %.1f", MinRating, MaxRating)
	}
	doubled := rating * 2
	if math.Abs(doubled-math.Round(doubled)) > 1e-9 {
		return fmt.Errorf("rating must be a multiple of 0.5")
	}
	return nil
}

// Amount accepts non-negative money values up to MaxAmount with at most
// two decimal places.
func Amount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must be 0 or greater")
	}
	if amount > MaxAmount {
		return fmt.Errorf("amount must not exceed %.2f", MaxAmount)
	}
	cents := amount * 100
	if math.Abs(cents-math.Round(cents)) > 1e-6 {
		return fmt.Errorf("amount must have at most 2 decimal places")
	}
	return nil
}

func Duration(minutes int) error {
	if minutes < 0 || minutes > MaxDurationMinutes {
		return fmt.Errorf("duration must be between 0 and %d minutes", MaxDurationMinutes)
	}
	return nil
}

func Nuts(count int) error {
	if count < 0 || count > MaxNuts {
		return fmt.Errorf("number of nuts must be between 0 and %d", MaxNuts)
	}
	return nil
}

// Name trims, strips HTML-unsafe characters, and enforces the name
// length cap. The sanitized value is returned.
func Name(name string) (string, error) {
	sanitized := SanitizeText(name)
	if sanitized == "" {
		return "", fmt.Errorf("name is required")
	}
	if len(sanitized) > MaxNameLength {
		return "", fmt.Errorf("name must be %d characters or fewer", MaxNameLength)
	}
	return sanitized, nil
}

// OptionalText sanitizes categorical free text (ethnicity, hair color,
// location fields). Empty input stays empty and is not an error.
func OptionalText(field, value string) (string, error) {
	sanitized := SanitizeText(value)
	if len(sanitized) > MaxTextLength {
		return "", fmt.Errorf("%s must be %d characters or fewer", field, MaxTextLength)
	}
	return sanitized, nil
}

// SanitizeText trims whitespace and strips angle brackets so stored text
// can never carry markup.
func SanitizeText(value string) string {
	replacer := strings.NewReplacer("<", "", ">", "")
	return strings.TrimSpace(replacer.Replace(value))
}

func Email(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(trimmed) {
		return "", fmt.Errorf("invalid email format")
	}
	return trimmed, nil
}

// Password enforces the minimum length. Strength scoring is reported
// separately by PasswordStrength and is informational only.
func Password(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// PasswordStrength scores 0-4: one point each for minimum length and the
// presence of a lowercase letter, an uppercase letter, and a digit.
func PasswordStrength(password string) int {
	score := 0
	if len(password) >= 8 {
		score++
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		score++
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		score++
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		score++
	}
	return score
}

// EntryDate parses a YYYY-MM-DD literal and rejects dates after the end
// of today in local time.
func EntryDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	now := time.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.Local)
	if parsed.After(endOfToday) {
		return time.Time{}, fmt.Errorf("date must not be in the future")
	}
	return parsed, nil
}
