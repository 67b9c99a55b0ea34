package planning

import (
	"math"
	"sort"
	"time"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

// Estimator turns raw per-day sales into a robust demand profile. The
// headline figure is the 75th percentile of the daily series rather than
// the mean: it captures high-demand days without being dragged down by
// many low or zero-sale days.
type Estimator struct {
	cfg DemandConfig
}

func NewEstimator(cfg DemandConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate computes the demand profile for a single location. history may
// span more than the window; days with no sale count as zero, not missing.
// asOf is the planning date and anchors the trailing window.
//
// Returns domain.ErrInsufficientData when fewer than MinSaleDays days in
// the window carry any sale. Callers must fall back to a conservative
// default, not treat demand as zero.
func (e *Estimator) Estimate(history []domain.SalesRecord, asOf time.Time) (domain.DemandProfile, error) {
	asOf = truncateDay(asOf)
	totals := dailyTotals(history)

	series := e.windowSeries(totals, asOf, e.cfg.WindowDays)

	saleDays := 0
	for _, v := range series {
		if v > 0 {
			saleDays++
		}
	}
	if saleDays < e.cfg.MinSaleDays {
		return domain.DemandProfile{}, domain.ErrInsufficientData
	}

	outlier := e.flagOutliers(series)

	kept := make([]float64, 0, len(series))
	excluded := 0
	for i, v := range series {
		if outlier[i] {
			excluded++
			continue
		}
		kept = append(kept, v)
	}

	sorted := append([]float64(nil), kept...)
	sort.Float64s(sorted)

	profile := domain.DemandProfile{
		P75DailyUnits: percentile(sorted, 75),
		StdDevDaily:   stddev(kept),
		MaxDaily:      maxOf(kept),
		ExcludedDays:  excluded,
	}
	if len(history) > 0 {
		profile.ProductCode = history[0].ProductCode
		profile.LocationID = history[0].LocationID
	}

	// Shorter average window, honoring the same outlier mask.
	avgStart := len(series) - e.cfg.AvgWindowDays
	if avgStart < 0 {
		avgStart = 0
	}
	var avgSum float64
	avgDays := 0
	for i := avgStart; i < len(series); i++ {
		if outlier[i] {
			continue
		}
		avgSum += series[i]
		avgDays++
	}
	if avgDays > 0 {
		profile.AvgDaily20d = avgSum / float64(avgDays)
	}

	// Outlier days stay excluded from the weekly variability as well.
	excludedDates := make(map[time.Time]bool, excluded)
	for i, isOut := range outlier {
		if isOut {
			excludedDates[asOf.AddDate(0, 0, -(len(series) - 1 - i))] = true
		}
	}
	e.fillWeeklyStats(&profile, totals, excludedDates, asOf)

	return profile, nil
}

// Aggregate combines independently computed location profiles into a
// hierarchical one. The regional P75 is the sum of each location's own P75,
// not the P75 of the summed series: peak days are not perfectly correlated
// across locations, and the per-location figures stay auditable.
func (e *Estimator) Aggregate(locationID string, profiles []domain.DemandProfile) (domain.DemandProfile, error) {
	if len(profiles) == 0 {
		return domain.DemandProfile{}, domain.ErrInsufficientData
	}

	agg := domain.DemandProfile{
		ProductCode: profiles[0].ProductCode,
		LocationID:  locationID,
	}
	var dailyVar, weeklyVar float64
	for _, p := range profiles {
		agg.P75DailyUnits += p.P75DailyUnits
		agg.AvgDaily20d += p.AvgDaily20d
		agg.MaxDaily += p.MaxDaily
		agg.WeeklyMean += p.WeeklyMean
		agg.ExcludedDays += p.ExcludedDays
		dailyVar += p.StdDevDaily * p.StdDevDaily
		weeklyVar += p.WeeklyStdDev * p.WeeklyStdDev
		if p.WeeksWithSales > agg.WeeksWithSales {
			agg.WeeksWithSales = p.WeeksWithSales
		}
	}
	// Locations are treated as independent, so variances add.
	agg.StdDevDaily = math.Sqrt(dailyVar)
	agg.WeeklyStdDev = math.Sqrt(weeklyVar)
	if agg.WeeklyMean > 0 {
		agg.CV = agg.WeeklyStdDev / agg.WeeklyMean
	}
	agg.Reliability = reliabilityLabel(agg.WeeksWithSales)
	agg.IsExtremelyVolatile = agg.CV > e.cfg.ExtremeVolatilityCV

	return agg, nil
}

// windowSeries builds the trailing per-day total series ending at asOf,
// oldest day first. Days without a sale are zero.
func (e *Estimator) windowSeries(totals map[time.Time]float64, asOf time.Time, days int) []float64 {
	series := make([]float64, days)
	for i := 0; i < days; i++ {
		day := asOf.AddDate(0, 0, -(days - 1 - i))
		series[i] = totals[day]
	}
	return series
}

// flagOutliers marks days whose value deviates from the rolling mean of the
// preceding days by more than the configured multiple of the rolling spread.
// Such days usually mean a stockout, not true demand, and would otherwise
// corrupt the percentile downstream.
func (e *Estimator) flagOutliers(series []float64) []bool {
	out := make([]bool, len(series))
	if e.cfg.OutlierSpreadFactor <= 0 || e.cfg.OutlierRollingDays <= 0 {
		return out
	}
	for i := e.cfg.OutlierRollingDays; i < len(series); i++ {
		window := series[i-e.cfg.OutlierRollingDays : i]
		m := mean(window)
		if m <= 0 {
			continue
		}
		// The spread has a Poisson-style floor so a stockout day still
		// stands out against a flat series. The exact rule is a tunable
		// parameter, not an invariant.
		spread := math.Max(stddev(window), math.Sqrt(m))
		if math.Abs(series[i]-m) > e.cfg.OutlierSpreadFactor*spread {
			out[i] = true
		}
	}
	return out
}

// fillWeeklyStats computes variability over trailing 7-day buckets ending
// at asOf, spanning MinWeeks weeks. Gap weeks count as zero.
func (e *Estimator) fillWeeklyStats(p *domain.DemandProfile, totals map[time.Time]float64, excluded map[time.Time]bool, asOf time.Time) {
	weeks := e.cfg.MinWeeks
	if weeks <= 0 {
		weeks = 12
	}

	weekly := make([]float64, weeks)
	for day, qty := range totals {
		if excluded[day] {
			continue
		}
		age := int(asOf.Sub(day).Hours() / 24)
		if age < 0 {
			continue
		}
		w := age / 7
		if w >= weeks {
			continue
		}
		// index 0 is the oldest week
		weekly[weeks-1-w] += qty
	}

	for _, v := range weekly {
		if v > 0 {
			p.WeeksWithSales++
		}
	}
	p.WeeklyMean = mean(weekly)
	p.WeeklyStdDev = stddev(weekly)
	if p.WeeklyMean > 0 {
		p.CV = p.WeeklyStdDev / p.WeeklyMean
	}
	p.Reliability = reliabilityLabel(p.WeeksWithSales)
	p.IsExtremelyVolatile = p.CV > e.cfg.ExtremeVolatilityCV
}

func reliabilityLabel(weeksWithSales int) string {
	switch {
	case weeksWithSales >= 8:
		return domain.ReliabilityAlta
	case weeksWithSales >= 4:
		return domain.ReliabilityMedia
	default:
		return domain.ReliabilityBaja
	}
}

// dailyTotals collapses raw sales records into per-day totals. Percentiles
// run on the per-day series, never per transaction.
func dailyTotals(history []domain.SalesRecord) map[time.Time]float64 {
	totals := make(map[time.Time]float64, len(history))
	for _, r := range history {
		totals[truncateDay(r.Date)] += r.Quantity
	}
	return totals
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// percentile returns the p-th percentile of an ascending-sorted series
// using the standard linear-interpolation definition.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the population standard deviation.
func stddev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := mean(vals)
	var sq float64
	for _, v := range vals {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)))
}

func maxOf(vals []float64) float64 {
	var max float64
	for _, v := range vals {
		if v > max {
			max = v
		}
	}
	return max
}
