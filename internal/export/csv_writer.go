// Package export writes planning run outputs for the downstream dashboard
// and spreadsheet consumers.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/planning"
)

// WriteOrderLines writes one CSV per run under dir, named by run id, with
// the order lines in their criticality order.
func WriteOrderLines(dir string, result *planning.PlanResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("order_lines_%s.csv", result.RunID))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{
		"run_id",
		"product_code",
		"origin_node_id",
		"destination_node_id",
		"ideal_quantity",
		"suggested_quantity",
		"urgency",
		"priority",
		"criticality_score",
		"supply_constrained",
		"excluded",
	}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	for _, line := range result.Lines {
		rec := []string{
			result.RunID,
			line.ProductCode,
			line.OriginNodeID,
			line.DestinationNodeID,
			strconv.Itoa(line.IdealQuantity),
			strconv.Itoa(line.SuggestedQuantity),
			line.Urgency,
			strconv.Itoa(line.Priority),
			strconv.Itoa(line.CriticalityScore),
			strconv.FormatBool(line.SupplyConstrained),
			strconv.FormatBool(line.Excluded),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}

	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// WriteSummary writes the run-level rollup next to the order lines.
func WriteSummary(dir string, result *planning.PlanResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("summary_%s.csv", result.RunID))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	s := result.Summary
	rows := [][]string{
		{"metric", "value"},
		{"run_id", s.RunID},
		{"planned_at", s.PlannedAt.Format("2006-01-02 15:04:05")},
		{"total_products", strconv.Itoa(s.TotalProducts)},
		{"total_lanes", strconv.Itoa(s.TotalLanes)},
		{"orders_proposed", strconv.Itoa(s.OrdersProposed)},
		{"excluded", strconv.Itoa(s.Excluded)},
		{"insufficient_data", strconv.Itoa(s.InsufficientData)},
		{"supply_constrained", strconv.Itoa(s.SupplyConstrained)},
		{"invalid_cost", strconv.Itoa(s.InvalidCost)},
		{"invariant_violations", strconv.Itoa(s.InvariantViolations)},
	}
	for _, rec := range rows {
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}

	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
