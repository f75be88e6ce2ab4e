package stats

import (
	"testing"

	"github.com/s-411/cpn-backend/internal/models"
)

func entry(amount float64, nuts, minutes int) models.DataEntry {
	return models.DataEntry{
		AmountSpent:     amount,
		NumberOfNuts:    nuts,
		DurationMinutes: minutes,
	}
}

func TestAggregateEmpty(t *testing.T) {
	m := Aggregate(nil)
	if m != (models.Metrics{}) {
		t.Errorf("expected all-zero metrics, got %+v", m)
	}
	if m.EntryCount != 0 {
		t.Errorf("expected entry count 0, got %d", m.EntryCount)
	}
}

func TestAggregateBasic(t *testing.T) {
	m := Aggregate([]models.DataEntry{
		entry(100, 2, 60),
	})
	if m.TotalSpent != 100 {
		t.Errorf("expected total spent 100, got %v", m.TotalSpent)
	}
	if m.TotalNuts != 2 {
		t.Errorf("expected 2 nuts, got %d", m.TotalNuts)
	}
	if m.CostPerNut != 50 {
		t.Errorf("expected cost per nut 50, got %v", m.CostPerNut)
	}
	if m.TimePerNut != 30 {
		t.Errorf("expected time per nut 30, got %v", m.TimePerNut)
	}
	if m.EntryCount != 1 {
		t.Errorf("expected entry count 1, got %d", m.EntryCount)
	}
}

func TestAggregateZeroNutsNeverDivides(t *testing.T) {
	m := Aggregate([]models.DataEntry{
		entry(250.50, 0, 90),
		entry(99.99, 0, 45),
	})
	if m.CostPerNut != 0 {
		t.Errorf("expected cost per nut 0 with zero nuts, got %v", m.CostPerNut)
	}
	if m.TimePerNut != 0 {
		t.Errorf("expected time per nut 0 with zero nuts, got %v", m.TimePerNut)
	}
	if m.TotalSpent != 350.49 {
		t.Errorf("expected total spent 350.49, got %v", m.TotalSpent)
	}
}

func TestAggregateSumsCentsExactly(t *testing.T) {
	// 0.10 added many times drifts under float summation; cent-based
	// totals must stay exact.
	entries := make([]models.DataEntry, 100)
	for i := range entries {
		entries[i] = entry(0.10, 1, 1)
	}
	m := Aggregate(entries)
	if m.TotalSpent != 10 {
		t.Errorf("expected total spent 10, got %v", m.TotalSpent)
	}
	if m.CostPerNut != 0.10 {
		t.Errorf("expected cost per nut 0.10, got %v", m.CostPerNut)
	}
}

func TestOptimisticUpdateMatchesAggregate(t *testing.T) {
	base := []models.DataEntry{
		entry(33.33, 1, 20),
		entry(0.01, 0, 5),
		entry(120.55, 3, 95),
	}
	additions := []models.DataEntry{
		entry(9.99, 2, 15),
		entry(0, 0, 0),
		entry(500.25, 7, 240),
	}

	incremental := Aggregate(base)
	full := append([]models.DataEntry{}, base...)
	for _, e := range additions {
		incremental = OptimisticUpdate(incremental, e)
		full = append(full, e)
		want := Aggregate(full)
		if incremental != want {
			t.Fatalf("optimistic update diverged after %d entries: got %+v want %+v",
				len(full), incremental, want)
		}
	}
}

func TestOptimisticUpdateFromZero(t *testing.T) {
	m := OptimisticUpdate(models.Metrics{}, entry(100, 2, 60))
	want := Aggregate([]models.DataEntry{entry(100, 2, 60)})
	if m != want {
		t.Errorf("got %+v want %+v", m, want)
	}
}

func TestAggregateGlobalAveragesFromTotals(t *testing.T) {
	perGirl := []models.Metrics{
		Aggregate([]models.DataEntry{entry(100, 1, 30)}),  // 100/nut
		Aggregate([]models.DataEntry{entry(100, 10, 60)}), // 10/nut
	}
	g := AggregateGlobal(perGirl)
	if g.GirlCount != 2 {
		t.Errorf("expected girl count 2, got %d", g.GirlCount)
	}
	if g.TotalSpent != 200 {
		t.Errorf("expected total spent 200, got %v", g.TotalSpent)
	}
	// 200 / 11 nuts, not (100+10)/2.
	if g.AverageCostPerNut != 18.18 {
		t.Errorf("expected average cost per nut 18.18, got %v", g.AverageCostPerNut)
	}
	if g.AverageTimePerNut != 90.0/11.0 {
		t.Errorf("expected average time per nut %v, got %v", 90.0/11.0, g.AverageTimePerNut)
	}
}

func TestAggregateGlobalEmpty(t *testing.T) {
	g := AggregateGlobal(nil)
	if g != (models.GlobalMetrics{}) {
		t.Errorf("expected all-zero global metrics, got %+v", g)
	}
}

func TestRoundMoneyHalfAwayFromZero(t *testing.T) {
	m := Aggregate([]models.DataEntry{
		entry(10, 3, 0),
	})
	// 10 / 3 = 3.333... -> 3.33
	if m.CostPerNut != 3.33 {
		t.Errorf("expected 3.33, got %v", m.CostPerNut)
	}

	m = Aggregate([]models.DataEntry{
		entry(0.05, 2, 0),
	})
	// 0.025 rounds half away from zero -> 0.03
	if m.CostPerNut != 0.03 {
		t.Errorf("expected 0.03, got %v", m.CostPerNut)
	}
}
