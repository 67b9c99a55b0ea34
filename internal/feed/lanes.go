package feed

import (
	"sort"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

// LaneOptions binds products to origins. The (product -> origin) mapping is
// configuration, keyed by category; the allocator never infers it.
type LaneOptions struct {
	CategoryOrigins     map[string]string
	DefaultOrigin       string
	DefaultLeadTimeDays float64
	LaneLeadTimeDays    map[string]float64 // "origin->destination" overrides
}

// BuildLanes joins the catalog, the stock snapshot, and the origin mapping
// into one supply lane per (product, destination). Destinations are every
// node holding or selling the product, except the product's own origin.
func BuildLanes(products []domain.Product, stocks []domain.StockSnapshot, opts LaneOptions) []domain.SupplyLane {
	stockIndex := make(map[string]map[string]domain.StockSnapshot)
	for _, s := range stocks {
		byNode, ok := stockIndex[s.ProductCode]
		if !ok {
			byNode = make(map[string]domain.StockSnapshot)
			stockIndex[s.ProductCode] = byNode
		}
		byNode[s.NodeID] = s
	}

	var lanes []domain.SupplyLane
	for _, p := range products {
		origin := opts.CategoryOrigins[p.Category]
		if origin == "" {
			origin = opts.DefaultOrigin
		}

		byNode := stockIndex[p.Code]
		destinations := make([]string, 0, len(byNode))
		for nodeID := range byNode {
			if nodeID == origin {
				continue
			}
			destinations = append(destinations, nodeID)
		}
		sort.Strings(destinations)

		for _, dest := range destinations {
			snap := byNode[dest]
			lead := opts.DefaultLeadTimeDays
			if v, ok := opts.LaneLeadTimeDays[origin+"->"+dest]; ok {
				lead = v
			}
			lanes = append(lanes, domain.SupplyLane{
				ProductCode:        p.Code,
				OriginNodeID:       origin,
				DestinationNodeID:  dest,
				StockAtOrigin:      byNode[origin].OnHandUnits,
				StockAtDestination: snap.OnHandUnits,
				StockInTransit:     snap.InTransitUnits,
				LeadTimeDays:       lead,
			})
		}
	}
	return lanes
}
