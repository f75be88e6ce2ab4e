// Package format maps domain values to display strings. These helpers
// are presentation-only and must never drive a comparison or storage
// decision.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency renders a money value with the currency symbol, grouped
// thousands, and exactly two decimals: 1234.5 -> "$1,234.50".
func Currency(amount float64) string {
	return printer.Sprintf("$%v", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Duration renders minutes as "2h 30m", dropping the hour segment when
// zero: 45 -> "45m".
func Duration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	rest := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", rest)
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}

// Rating renders with a fixed single decimal: 8 -> "8.0".
func Rating(rating float64) string {
	return fmt.Sprintf("%.1f", rating)
}

// Percentage rounds to the nearest integer and appends "%".
func Percentage(value float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(value)))
}

// Initials takes the first letter of the first two words, uppercased:
// "ann marie smith" -> "AM".
func Initials(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, word := range words {
		runes := []rune(word)
		b.WriteString(strings.ToUpper(string(runes[0])))
	}
	return b.String()
}

// RelativeDate renders a date against today: "Today", "Yesterday", then
// "N days/weeks/months/years ago" with correct pluralization.
func RelativeDate(date time.Time, now time.Time) string {
	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	days := int(day(now).Sub(day(date).In(now.Location())).Hours() / 24)

	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return plural(days, "day")
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
