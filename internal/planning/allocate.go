package planning

import (
	"math"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

// Allocator turns a stock position into a suggested order, constrained by
// what the upstream node can actually supply. The (product -> origin)
// binding arrives on the lane; the allocator never infers it.
type Allocator struct {
	cfg AllocateConfig
}

func NewAllocator(cfg AllocateConfig) *Allocator {
	return &Allocator{cfg: cfg}
}

// Allocate proposes an order for one lane. An excluded product always
// yields zero with the Excluded flag set: an exclusion is a policy
// decision, not a stock-level outcome, and the two must stay reportable
// apart.
func (a *Allocator) Allocate(p domain.Product, lane domain.SupplyLane, policy domain.InventoryPolicy) domain.OrderLine {
	line := domain.OrderLine{
		ProductCode:       p.Code,
		OriginNodeID:      lane.OriginNodeID,
		DestinationNodeID: lane.DestinationNodeID,
	}

	if a.cfg.Exclusions[p.Code] {
		line.Excluded = true
		return line
	}

	// Equal counts as triggering, matching the URGENT boundary of the
	// criticality bands.
	if lane.StockAtDestination > policy.ReorderPoint {
		return line
	}

	line.IdealUnits = math.Max(0, policy.MaxStock-lane.StockAtDestination)
	if line.IdealUnits == 0 {
		return line
	}

	unitsPerPack := p.UnitsPerPack
	if unitsPerPack <= 0 {
		unitsPerPack = 1
	}

	// Ceil the need, floor the availability: never allocate more than the
	// origin physically holds.
	line.IdealQuantity = int(math.Ceil(line.IdealUnits / unitsPerPack))
	originPacks := int(math.Floor(lane.StockAtOrigin / unitsPerPack))
	if originPacks < 0 {
		originPacks = 0
	}

	if originPacks < line.IdealQuantity {
		line.SuggestedQuantity = originPacks
		line.SupplyConstrained = true
	} else {
		line.SuggestedQuantity = line.IdealQuantity
	}

	return line
}
