package stats

import (
	"math"

	"github.com/s-411/cpn-backend/internal/models"
)

// Money moves through aggregation as integer cents. Amounts are validated
// to at most two decimal places before they reach this package, so the
// cent conversion is exact and repeated OptimisticUpdate calls stay
// bit-for-bit consistent with a full Aggregate over the same entries.

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

// roundMoney rounds half away from zero to two decimal places.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// Aggregate reduces a list of entries into summary metrics. Order is
// irrelevant. An empty list yields an all-zero result, never an error.
func Aggregate(entries []models.DataEntry) models.Metrics {
	var spentCents int64
	var nuts, minutes int

	for _, e := range entries {
		spentCents += toCents(e.AmountSpent)
		nuts += e.NumberOfNuts
		minutes += e.DurationMinutes
	}

	return buildMetrics(spentCents, nuts, minutes, len(entries))
}

// OptimisticUpdate folds one new entry into already-computed metrics,
// producing the same result as re-aggregating the full set with the entry
// appended. The UI uses it for immediate feedback before the
// authoritative recomputation arrives.
func OptimisticUpdate(current models.Metrics, entry models.DataEntry) models.Metrics {
	spentCents := toCents(current.TotalSpent) + toCents(entry.AmountSpent)
	nuts := current.TotalNuts + entry.NumberOfNuts
	minutes := current.TotalMinutes + entry.DurationMinutes

	return buildMetrics(spentCents, nuts, minutes, current.EntryCount+1)
}

// AggregateGlobal sums per-girl metrics into a cross-profile summary. The
// averages come from the aggregated totals so that girls with many
// entries weigh proportionally.
func AggregateGlobal(perGirl []models.Metrics) models.GlobalMetrics {
	var spentCents int64
	var nuts, minutes, entryCount int

	for _, m := range perGirl {
		spentCents += toCents(m.TotalSpent)
		nuts += m.TotalNuts
		minutes += m.TotalMinutes
		entryCount += m.EntryCount
	}

	global := models.GlobalMetrics{
		TotalSpent:   fromCents(spentCents),
		TotalNuts:    nuts,
		TotalMinutes: minutes,
		EntryCount:   entryCount,
		GirlCount:    len(perGirl),
	}
	if nuts > 0 {
		global.AverageCostPerNut = roundMoney(fromCents(spentCents) / float64(nuts))
		global.AverageTimePerNut = float64(minutes) / float64(nuts)
	}
	return global
}

func buildMetrics(spentCents int64, nuts, minutes, entryCount int) models.Metrics {
	m := models.Metrics{
		TotalSpent:   fromCents(spentCents),
		TotalNuts:    nuts,
		TotalMinutes: minutes,
		EntryCount:   entryCount,
	}
	// Divide-by-zero guard: zero nuts means zero ratios, never NaN/Inf.
	if nuts > 0 {
		m.CostPerNut = roundMoney(fromCents(spentCents) / float64(nuts))
		m.TimePerNut = float64(minutes) / float64(nuts)
	}
	return m
}
