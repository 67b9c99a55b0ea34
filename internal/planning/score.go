package planning

import "github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"

// Class weights for the criticality score, smaller = more important. The
// spacing keeps every weight below 10 so the urgency level always dominates
// the composite score and class only breaks ties within a band.
var classWeights = map[string]int{
	domain.VelocityA:  1,
	domain.VelocityAB: 2,
	domain.VelocityB:  3,
	domain.VelocityBC: 4,
	domain.VelocityC:  5,
}

const unclassifiedWeight = 6

// UrgencyLevel bands the stock position against the policy. Bands are
// evaluated in order with inclusive upper bounds; off-by-one changes at
// SS/ROP/MAX reclassify borderline products, so the boundaries here are
// exact.
func UrgencyLevel(destinationStock float64, policy domain.InventoryPolicy) int {
	switch {
	case destinationStock <= policy.SafetyStock:
		return domain.UrgencyCritical
	case destinationStock <= policy.ReorderPoint:
		return domain.UrgencyUrgent
	case destinationStock <= policy.MaxStock:
		return domain.UrgencyOptimal
	default:
		return domain.UrgencyExcess
	}
}

// Criticality combines the urgency band with the class weight into one
// sortable number. The base-10 structure guarantees any CRITICAL item
// outranks any URGENT item regardless of class.
func Criticality(destinationStock float64, policy domain.InventoryPolicy, effectiveClass string) (level int, score int) {
	level = UrgencyLevel(destinationStock, policy)
	weight, ok := classWeights[effectiveClass]
	if !ok {
		weight = unclassifiedWeight
	}
	return level, level*10 + weight
}

// PriorityMatrix is the separate 1..10 ranking used by the inter-location
// allocation view. It keys on (ABC value class x days-of-stock bucket),
// which are different inputs than the SS/ROP/MAX bands above; the two
// scoring schemes feed different surfaces and are never merged.
type PriorityMatrix struct {
	rows map[string][4]int
}

// DefaultPriorityMatrix returns the stock ranking table. Columns are the
// days-of-stock buckets <=3, 4-7, 8-14, >14.
func DefaultPriorityMatrix() PriorityMatrix {
	return PriorityMatrix{rows: map[string][4]int{
		domain.ValueA: {1, 2, 4, 7},
		domain.ValueB: {2, 3, 5, 8},
		domain.ValueC: {3, 5, 7, 9},
		domain.ValueD: {4, 6, 8, 10},
	}}
}

// Priority looks up the 1 (most urgent) .. 10 (least) rank for a value
// class and a days-of-stock figure. Classes outside A-D (NUEVO,
// ERROR_COSTO) rank on the D row.
func (m PriorityMatrix) Priority(valueClass string, daysOfStock float64) int {
	row, ok := m.rows[valueClass]
	if !ok {
		row = m.rows[domain.ValueD]
	}

	switch {
	case daysOfStock <= 3:
		return row[0]
	case daysOfStock <= 7:
		return row[1]
	case daysOfStock <= 14:
		return row[2]
	default:
		return row[3]
	}
}

// DaysOfStock converts an on-hand position into coverage days against the
// P75 demand figure. Zero demand reports as open-ended coverage.
func DaysOfStock(onHand, p75Daily float64) float64 {
	if p75Daily <= 0 {
		return 999
	}
	return onHand / p75Daily
}
