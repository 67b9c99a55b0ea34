package planning

import (
	"testing"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

func testPolicy(ss, rop, max float64) domain.InventoryPolicy {
	return domain.InventoryPolicy{
		ProductCode:  "P1",
		NodeID:       "STORE-1",
		SafetyStock:  ss,
		ReorderPoint: rop,
		MaxStock:     max,
		Method:       domain.MethodStatistical,
	}
}

func testLane(dest, origin float64) domain.SupplyLane {
	return domain.SupplyLane{
		ProductCode:        "P1",
		OriginNodeID:       "CEDI-1",
		DestinationNodeID:  "STORE-1",
		StockAtOrigin:      origin,
		StockAtDestination: dest,
		LeadTimeDays:       2,
	}
}

func TestAllocateTriggerBoundary(t *testing.T) {
	a := NewAllocator(AllocateConfig{})
	p := testProduct("P1", 1)
	policy := testPolicy(10, 50, 200)

	// Equal to ROP counts as triggering.
	atROP := a.Allocate(p, testLane(50, 1000), policy)
	if atROP.SuggestedQuantity != 150 {
		t.Errorf("at ROP: suggested = %d, want 150", atROP.SuggestedQuantity)
	}

	// Above ROP never tops up, even below MAX.
	above := a.Allocate(p, testLane(51, 1000), policy)
	if above.IdealQuantity != 0 || above.SuggestedQuantity != 0 {
		t.Errorf("above ROP: got ideal=%d suggested=%d, want 0/0", above.IdealQuantity, above.SuggestedQuantity)
	}
}

func TestAllocateMonotonicInDestinationStock(t *testing.T) {
	a := NewAllocator(AllocateConfig{})
	p := testProduct("P1", 1)
	policy := testPolicy(10, 50, 200)

	prev := int(^uint(0) >> 1)
	for stock := 0.0; stock <= 300; stock++ {
		line := a.Allocate(p, testLane(stock, 10000), policy)
		if line.SuggestedQuantity > prev {
			t.Fatalf("suggested increased at stock %v: %d -> %d", stock, prev, line.SuggestedQuantity)
		}
		if stock > policy.ReorderPoint && line.SuggestedQuantity != 0 {
			t.Fatalf("suggested = %d above ROP at stock %v", line.SuggestedQuantity, stock)
		}
		prev = line.SuggestedQuantity
	}
}

func TestAllocateSupplyConstrained(t *testing.T) {
	a := NewAllocator(AllocateConfig{})
	p := testProduct("P1", 1)
	// Ideal of 100 packs against 60 at origin.
	policy := testPolicy(5, 40, 100)

	line := a.Allocate(p, testLane(0, 60), policy)
	if line.IdealQuantity != 100 {
		t.Errorf("ideal = %d, want 100", line.IdealQuantity)
	}
	if line.SuggestedQuantity != 60 {
		t.Errorf("suggested = %d, want 60", line.SuggestedQuantity)
	}
	if !line.SupplyConstrained {
		t.Error("partial fill must be flagged, not silently truncated")
	}

	// Full availability clears the flag.
	full := a.Allocate(p, testLane(0, 100), policy)
	if full.SupplyConstrained || full.SuggestedQuantity != 100 {
		t.Errorf("full fill: suggested=%d constrained=%v", full.SuggestedQuantity, full.SupplyConstrained)
	}
}

func TestAllocatePackRounding(t *testing.T) {
	a := NewAllocator(AllocateConfig{})
	p := testProduct("P1", 12)
	policy := testPolicy(5, 40, 100)

	// Need 100 units = 8.33 packs, ceil to 9. Origin holds 100 units =
	// 8.33 packs, floor to 8: never ship part of a pack that is not there.
	line := a.Allocate(p, testLane(0, 100), policy)
	if line.IdealQuantity != 9 {
		t.Errorf("ideal packs = %d, want 9", line.IdealQuantity)
	}
	if line.SuggestedQuantity != 8 {
		t.Errorf("suggested packs = %d, want 8", line.SuggestedQuantity)
	}
	if !line.SupplyConstrained {
		t.Error("floor below ceil is a constrained fill")
	}
	if line.SuggestedQuantity < 0 {
		t.Error("suggested must be non-negative")
	}
}

func TestAllocateExclusionBeatsStockLevel(t *testing.T) {
	a := NewAllocator(AllocateConfig{Exclusions: map[string]bool{"P1": true}})
	p := testProduct("P1", 1)
	policy := testPolicy(10, 50, 200)

	// Far below ROP, yet never allocated.
	line := a.Allocate(p, testLane(1, 1000), policy)
	if line.SuggestedQuantity != 0 || line.IdealQuantity != 0 {
		t.Errorf("excluded product got quantities: ideal=%d suggested=%d", line.IdealQuantity, line.SuggestedQuantity)
	}
	if !line.Excluded {
		t.Error("exclusion must be reported as a policy decision, not a stock outcome")
	}

	// A non-triggering product is a different outcome.
	other := NewAllocator(AllocateConfig{}).Allocate(p, testLane(100, 1000), policy)
	if other.Excluded {
		t.Error("no-reorder-needed must not report as excluded")
	}
}

func TestAllocateEmptyOrigin(t *testing.T) {
	a := NewAllocator(AllocateConfig{})
	line := a.Allocate(testProduct("P1", 1), testLane(0, 0), testPolicy(5, 40, 100))
	if line.SuggestedQuantity != 0 || !line.SupplyConstrained {
		t.Errorf("empty origin: suggested=%d constrained=%v, want 0/true", line.SuggestedQuantity, line.SupplyConstrained)
	}
}
