package planning

import (
	"fmt"
	"math"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

// Calculator computes the SS/ROP/MAX triple for one (product, node).
//
// Classes with a defined service-level Z-factor use the statistical method.
// Classes without a reliable statistical basis use a conservative
// worst-case method instead: their data is too thin for variance-based
// safety stock to mean anything.
type Calculator struct {
	cfg PolicyConfig
}

func NewCalculator(cfg PolicyConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Compute derives the inventory policy for a node from the effective class,
// the demand profile, and the lane lead time.
func (c *Calculator) Compute(effectiveClass string, dp domain.DemandProfile, nodeID string, leadTimeDays float64) (domain.InventoryPolicy, error) {
	cp, ok := c.cfg.Classes[effectiveClass]
	if !ok {
		return domain.InventoryPolicy{}, fmt.Errorf("no policy configured for class %q", effectiveClass)
	}
	if leadTimeDays <= 0 {
		return domain.InventoryPolicy{}, fmt.Errorf("non-positive lead time %v for %s@%s", leadTimeDays, dp.ProductCode, nodeID)
	}

	policy := domain.InventoryPolicy{
		ProductCode: dp.ProductCode,
		NodeID:      nodeID,
		Method:      cp.Method,
	}

	switch cp.Method {
	case domain.MethodStatistical:
		// A zero stddev here would silently collapse SS to zero and mask
		// risk, so it fails fast instead.
		if dp.StdDevDaily <= 0 {
			return domain.InventoryPolicy{}, fmt.Errorf("stddev unavailable for %s@%s: %w", dp.ProductCode, nodeID, domain.ErrInsufficientData)
		}
		policy.SafetyStock = cp.ZFactor * dp.StdDevDaily * math.Sqrt(leadTimeDays)
		policy.ReorderPoint = dp.P75DailyUnits*leadTimeDays + policy.SafetyStock
		policy.MaxStock = policy.ReorderPoint + dp.P75DailyUnits*cp.CoverageDays

	case domain.MethodConservative:
		// Worst-case heuristic: cover the maximum observed daily demand for
		// the whole lead time. The implicit safety stock is the spread
		// between max and P75 demand over the lead time.
		policy.ReorderPoint = dp.MaxDaily * leadTimeDays
		policy.SafetyStock = (dp.MaxDaily - dp.P75DailyUnits) * leadTimeDays
		policy.MaxStock = policy.ReorderPoint + dp.P75DailyUnits*cp.CoverageDays

	default:
		return domain.InventoryPolicy{}, fmt.Errorf("unknown policy method %q for class %q", cp.Method, effectiveClass)
	}

	if err := checkInvariant(policy); err != nil {
		return domain.InventoryPolicy{}, err
	}

	return policy, nil
}

// checkInvariant rejects any policy violating 0 <= SS <= ROP <= MAX. A
// violation means misconfigured Z or coverage constants, so it is reported
// rather than clamped.
func checkInvariant(p domain.InventoryPolicy) error {
	if p.SafetyStock < 0 || p.SafetyStock > p.ReorderPoint || p.ReorderPoint > p.MaxStock {
		return &domain.PolicyInvariantError{
			ProductCode:  p.ProductCode,
			NodeID:       p.NodeID,
			SafetyStock:  p.SafetyStock,
			ReorderPoint: p.ReorderPoint,
			MaxStock:     p.MaxStock,
		}
	}
	return nil
}
