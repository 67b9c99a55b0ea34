package planning

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

var testAsOf = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

// salesFor builds one record per day walking backwards from asOf.
// quantities[0] is the oldest day. Zero quantities are skipped so the day
// becomes a gap the estimator must treat as a zero-sale day.
func salesFor(t *testing.T, product, location string, asOf time.Time, quantities []float64) []domain.SalesRecord {
	t.Helper()

	records := make([]domain.SalesRecord, 0, len(quantities))
	n := len(quantities)
	for i, q := range quantities {
		if q == 0 {
			continue
		}
		records = append(records, domain.SalesRecord{
			ProductCode: product,
			LocationID:  location,
			Date:        asOf.AddDate(0, 0, -(n - 1 - i)),
			Quantity:    q,
		})
	}
	return records
}

func constantSeries(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestPercentileLinearInterpolation(t *testing.T) {
	cases := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 75, 0},
		{"single", []float64{7}, 75, 7},
		{"exact rank", []float64{10, 20, 30, 40, 50}, 75, 40},
		{"interpolated", []float64{0, 10, 20, 30}, 75, 22.5},
		{"median", []float64{1, 3}, 50, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := percentile(tc.sorted, tc.p)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("percentile(%v, %v) = %v, want %v", tc.sorted, tc.p, got, tc.want)
			}
		})
	}
}

func TestEstimateGapsCountAsZero(t *testing.T) {
	e := NewEstimator(DefaultDemandConfig())

	// Sales on only 10 of 30 days; the other 20 are gaps, not missing.
	quantities := make([]float64, 30)
	for i := 20; i < 30; i++ {
		quantities[i] = 8
	}
	profile, err := e.Estimate(salesFor(t, "P1", "S1", testAsOf, quantities), testAsOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 20 zeros and 10 eights sorted: the P75 rank (21.75 of 0..29) lands in
	// the eights.
	if profile.P75DailyUnits != 8 {
		t.Errorf("P75 = %v, want 8", profile.P75DailyUnits)
	}
	if profile.P75DailyUnits < 0 {
		t.Errorf("P75 must be non-negative, got %v", profile.P75DailyUnits)
	}
}

func TestEstimateP75DominatesSortedSeries(t *testing.T) {
	e := NewEstimator(DefaultDemandConfig())

	quantities := []float64{
		3, 5, 0, 8, 2, 7, 4, 6, 1, 9,
		3, 5, 0, 8, 2, 7, 4, 6, 1, 9,
		3, 5, 0, 8, 2, 7, 4, 6, 1, 9,
	}
	profile, err := e.Estimate(salesFor(t, "P1", "S1", testAsOf, quantities), testAsOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// By definition P75 must be >= at least 75% of the window values.
	atOrBelow := 0
	for _, q := range quantities {
		if q <= profile.P75DailyUnits {
			atOrBelow++
		}
	}
	if frac := float64(atOrBelow) / float64(len(quantities)); frac < 0.75 {
		t.Errorf("P75=%v covers only %.0f%% of values", profile.P75DailyUnits, frac*100)
	}
}

func TestEstimateInsufficientData(t *testing.T) {
	e := NewEstimator(DefaultDemandConfig())

	quantities := make([]float64, 30)
	quantities[29] = 5
	quantities[28] = 3

	_, err := e.Estimate(salesFor(t, "P1", "S1", testAsOf, quantities), testAsOf)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}

	_, err = e.Estimate(nil, testAsOf)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for empty history, got %v", err)
	}
}

func TestEstimateExcludesStockoutDays(t *testing.T) {
	e := NewEstimator(DefaultDemandConfig())

	// Flat demand of 10/day with one stockout day (zero) near the end.
	quantities := constantSeries(30, 10)
	quantities[25] = 0

	profile, err := e.Estimate(salesFor(t, "P1", "S1", testAsOf, quantities), testAsOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.ExcludedDays != 1 {
		t.Fatalf("ExcludedDays = %d, want 1", profile.ExcludedDays)
	}
	// With the stockout day excluded the series is flat again.
	if profile.P75DailyUnits != 10 {
		t.Errorf("P75 = %v, want 10 after outlier exclusion", profile.P75DailyUnits)
	}
	if profile.StdDevDaily != 0 {
		t.Errorf("StdDevDaily = %v, want 0 after outlier exclusion", profile.StdDevDaily)
	}
}

func TestEstimateKeepsOrdinaryVariation(t *testing.T) {
	e := NewEstimator(DefaultDemandConfig())

	// Alternating 10/0 is noisy but legitimate; nothing should be excluded.
	quantities := make([]float64, 30)
	for i := 0; i < 30; i += 2 {
		quantities[i] = 10
	}
	profile, err := e.Estimate(salesFor(t, "P1", "S1", testAsOf, quantities), testAsOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.ExcludedDays != 0 {
		t.Errorf("ExcludedDays = %d, want 0", profile.ExcludedDays)
	}
}

func TestAggregateSumsPerLocationP75(t *testing.T) {
	e := NewEstimator(DefaultDemandConfig())

	// Two locations with anti-correlated peak days: location A sells on
	// even days, location B on odd days.
	qa := make([]float64, 30)
	qb := make([]float64, 30)
	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			qa[i] = 10
		} else {
			qb[i] = 10
		}
	}

	pa, err := e.Estimate(salesFor(t, "P1", "A", testAsOf, qa), testAsOf)
	if err != nil {
		t.Fatalf("location A: %v", err)
	}
	pb, err := e.Estimate(salesFor(t, "P1", "B", testAsOf, qb), testAsOf)
	if err != nil {
		t.Fatalf("location B: %v", err)
	}

	agg, err := e.Aggregate("REGION", []domain.DemandProfile{pa, pb})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if agg.P75DailyUnits != pa.P75DailyUnits+pb.P75DailyUnits {
		t.Errorf("regional P75 = %v, want sum of per-location P75s %v",
			agg.P75DailyUnits, pa.P75DailyUnits+pb.P75DailyUnits)
	}

	// The P75 of the summed series is the flat 10/day and must diverge from
	// the required aggregation, which is exactly why the design sums
	// per-location percentiles.
	summed := constantSeries(30, 10)
	summedP75 := percentile(summed, 75)
	if agg.P75DailyUnits == summedP75 {
		t.Errorf("aggregation methods should diverge on anti-correlated peaks: both are %v", summedP75)
	}
	if agg.LocationID != "REGION" {
		t.Errorf("LocationID = %q, want REGION", agg.LocationID)
	}
}

func TestAggregateEmptyIsInsufficient(t *testing.T) {
	e := NewEstimator(DefaultDemandConfig())
	if _, err := e.Aggregate("REGION", nil); !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestWeeklyReliabilityLabels(t *testing.T) {
	cases := []struct {
		weeks int
		want  string
	}{
		{12, domain.ReliabilityAlta},
		{8, domain.ReliabilityAlta},
		{7, domain.ReliabilityMedia},
		{4, domain.ReliabilityMedia},
		{3, domain.ReliabilityBaja},
		{0, domain.ReliabilityBaja},
	}
	for _, tc := range cases {
		if got := reliabilityLabel(tc.weeks); got != tc.want {
			t.Errorf("reliabilityLabel(%d) = %q, want %q", tc.weeks, got, tc.want)
		}
	}
}

func TestWeeklyStatsAndVolatilityFlag(t *testing.T) {
	cfg := DefaultDemandConfig()
	e := NewEstimator(cfg)

	// 12 weeks of history: one big sale day every other week produces a
	// weekly CV above 1.0 but below the extreme threshold... unless the
	// spikes are large enough. Make them large.
	var records []domain.SalesRecord
	for w := 0; w < 12; w += 4 {
		records = append(records, domain.SalesRecord{
			ProductCode: "P1",
			LocationID:  "S1",
			Date:        testAsOf.AddDate(0, 0, -w*7),
			Quantity:    50,
		})
	}
	// Enough sale days inside the 30-day window to clear the floor.
	for d := 1; d <= 4; d++ {
		records = append(records, domain.SalesRecord{
			ProductCode: "P1",
			LocationID:  "S1",
			Date:        testAsOf.AddDate(0, 0, -d),
			Quantity:    2,
		})
	}

	profile, err := e.Estimate(records, testAsOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.WeeksWithSales < 3 || profile.WeeksWithSales > 5 {
		t.Errorf("WeeksWithSales = %d, want around 4", profile.WeeksWithSales)
	}
	if profile.Reliability == domain.ReliabilityAlta {
		t.Errorf("Reliability = ALTA for %d weeks with sales", profile.WeeksWithSales)
	}
	if profile.CV <= 0 {
		t.Errorf("CV = %v, want > 0 for spiky series", profile.CV)
	}
	if profile.IsExtremelyVolatile != (profile.CV > cfg.ExtremeVolatilityCV) {
		t.Errorf("IsExtremelyVolatile inconsistent with CV %v", profile.CV)
	}
}
