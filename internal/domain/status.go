package domain

import "strings"

// Urgency levels, ordered from most to least pressing. The numeric codes
// feed directly into the criticality score, so the ordering is load-bearing.
const (
	UrgencyCritical = 1 // stock <= safety stock
	UrgencyUrgent   = 2 // safety stock < stock <= reorder point
	UrgencyOptimal  = 3 // reorder point < stock <= max stock
	UrgencyExcess   = 4 // stock > max stock
)

var urgencyLabels = map[int]string{
	UrgencyCritical: "CRITICAL",
	UrgencyUrgent:   "URGENT",
	UrgencyOptimal:  "OPTIMAL",
	UrgencyExcess:   "EXCESS",
}

var urgencyCodes = map[string]int{
	"critical": UrgencyCritical,
	"urgent":   UrgencyUrgent,
	"optimal":  UrgencyOptimal,
	"excess":   UrgencyExcess,
}

// UrgencyLabel returns a human-readable label for an urgency level.
func UrgencyLabel(level int) string {
	if label, ok := urgencyLabels[level]; ok {
		return label
	}

	return "UNKNOWN"
}

// ParseUrgency returns the urgency level for a given label (case-insensitive).
func ParseUrgency(label string) (int, bool) {
	code, ok := urgencyCodes[strings.ToLower(label)]

	return code, ok
}
