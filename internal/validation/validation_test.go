package validation

import (
	"strings"
	"testing"
	"time"
)

func TestAgeBounds(t *testing.T) {
	for _, age := range []int{18, 25, 100} {
		if err := Age(age); err != nil {
			t.Errorf("Age(%d): unexpected error %v", age, err)
		}
	}
	for _, age := range []int{17, 101, 0, -5} {
		if err := Age(age); err == nil {
			t.Errorf("Age(%d): expected error", age)
		}
	}
}

func TestRatingSteps(t *testing.T) {
	for rating := 5.0; rating <= 10.0; rating += 0.5 {
		if err := Rating(rating); err != nil {
			t.Errorf("Rating(%v): unexpected error %v", rating, err)
		}
	}
	for _, rating := range []float64{4.5, 7.3, 10.5, 5.25} {
		if err := Rating(rating); err == nil {
			t.Errorf("Rating(%v): expected error", rating)
		}
	}
}

func TestAmount(t *testing.T) {
	for _, amount := range []float64{0, 0.01, 100, 999999.99} {
		if err := Amount(amount); err != nil {
			t.Errorf("Amount(%v): unexpected error %v", amount, err)
		}
	}
	for _, amount := range []float64{-0.01, 1000000, 1.005, 3.333} {
		if err := Amount(amount); err == nil {
			t.Errorf("Amount(%v): expected error", amount)
		}
	}
}

func TestDurationAndNuts(t *testing.T) {
	if err := Duration(0); err != nil {
		t.Errorf("Duration(0): %v", err)
	}
	if err := Duration(1440); err != nil {
		t.Errorf("Duration(1440): %v", err)
	}
	if err := Duration(1441); err == nil {
		t.Error("Duration(1441): expected error")
	}
	if err := Nuts(999); err != nil {
		t.Errorf("Nuts(999): %v", err)
	}
	if err := Nuts(1000); err == nil {
		t.Error("Nuts(1000): expected error")
	}
	if err := Nuts(-1); err == nil {
		t.Error("Nuts(-1): expected error")
	}
}

func TestNameSanitizes(t *testing.T) {
	name, err := Name("  <Ann>  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Ann" {
		t.Errorf("expected angle brackets stripped, got %q", name)
	}
	if _, err := Name(strings.Repeat("a", 101)); err == nil {
		t.Error("expected error for name over 100 characters")
	}
	for _, bad := range []string{"", "   ", "<>"} {
		if _, err := Name(bad); err == nil {
			t.Errorf("Name(%q): expected error", bad)
		}
	}
}

func TestEmail(t *testing.T) {
	email, err := Email(" User@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email != "user@example.com" {
		t.Errorf("expected lowercased trimmed email, got %q", email)
	}
	for _, bad := range []string{"", "nope", "a@b", "a b@c.com"} {
		if _, err := Email(bad); err == nil {
			t.Errorf("Email(%q): expected error", bad)
		}
	}
}

func TestPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		score    int
	}{
		{"", 0},
		{"abc", 1},
		{"abcdefgh", 2},
		{"Abcdefgh", 3},
		{"Abcdefg1", 4},
		{"ABCDEF12", 3},
	}
	for _, tc := range cases {
		if got := PasswordStrength(tc.password); got != tc.score {
			t.Errorf("PasswordStrength(%q) = %d, want %d", tc.password, got, tc.score)
		}
	}
	if err := Password("short"); err == nil {
		t.Error("expected error for short password")
	}
	if err := Password("longenough"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEntryDate(t *testing.T) {
	if _, err := EntryDate("2024-01-01"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	today := time.Now().Format("2006-01-02")
	if _, err := EntryDate(today); err != nil {
		t.Errorf("today should be accepted: %v", err)
	}
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	if _, err := EntryDate(tomorrow); err == nil {
		t.Error("expected error for future date")
	}
	for _, bad := range []string{"", "01/02/2024", "2024-13-01", "not-a-date"} {
		if _, err := EntryDate(bad); err == nil {
			t.Errorf("EntryDate(%q): expected error", bad)
		}
	}
}

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	if errs.Any() {
		t.Error("empty set should report no errors")
	}
	errs.Add("age", "too young")
	errs.Add("age", "overwritten message should be ignored")
	if errs["age"] != "too young" {
		t.Errorf("first message must win, got %q", errs["age"])
	}
	if !errs.Any() {
		t.Error("expected errors present")
	}
	if errs.Message() == "" {
		t.Error("expected non-empty flattened message")
	}
}
