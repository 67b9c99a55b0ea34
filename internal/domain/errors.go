package domain

import (
	"errors"
	"fmt"
)

// ErrInsufficientData signals that too little sales history exists to
// estimate demand or variability. It must propagate as a distinct outcome,
// never be coerced to zero demand.
var ErrInsufficientData = errors.New("insufficient sales history")

// ErrInvalidCost signals a missing or non-positive unit cost. It breaks
// value-based classification only, not velocity classification.
var ErrInvalidCost = errors.New("missing or non-positive unit cost")

// PolicyInvariantError reports a computed policy that violates
// 0 <= SS <= ROP <= MAX. It always indicates a configuration bug, so the
// product's policy is aborted and reported rather than clamped.
type PolicyInvariantError struct {
	ProductCode  string
	NodeID       string
	SafetyStock  float64
	ReorderPoint float64
	MaxStock     float64
}

func (e *PolicyInvariantError) Error() string {
	return fmt.Sprintf("policy invariant violated for %s@%s: ss=%.2f rop=%.2f max=%.2f",
		e.ProductCode, e.NodeID, e.SafetyStock, e.ReorderPoint, e.MaxStock)
}
