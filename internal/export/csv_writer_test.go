package export

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/planning"
)

func testResult() *planning.PlanResult {
	return &planning.PlanResult{
		RunID: "run-123",
		Lines: []domain.OrderLine{
			{
				ProductCode:       "SKU-1",
				OriginNodeID:      "CEDI-1",
				DestinationNodeID: "STORE-1",
				IdealQuantity:     10,
				SuggestedQuantity: 8,
				Urgency:           "CRITICAL",
				Priority:          1,
				CriticalityScore:  11,
				SupplyConstrained: true,
			},
			{
				ProductCode:       "SKU-2",
				OriginNodeID:      "CEDI-1",
				DestinationNodeID: "STORE-1",
				Excluded:          true,
			},
		},
		Summary: domain.RunSummary{
			RunID:          "run-123",
			PlannedAt:      time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
			TotalProducts:  2,
			TotalLanes:     2,
			OrdersProposed: 1,
			Excluded:       1,
		},
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteOrderLines(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteOrderLines(dir, testResult())
	if err != nil {
		t.Fatalf("write order lines: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 lines", len(rows))
	}
	if rows[0][0] != "run_id" {
		t.Errorf("first header column = %s, want run_id", rows[0][0])
	}
	if rows[1][1] != "SKU-1" || rows[1][5] != "8" {
		t.Errorf("first line row = %v", rows[1])
	}
	if rows[2][10] != "true" {
		t.Errorf("excluded flag not written: %v", rows[2])
	}
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteSummary(dir, testResult())
	if err != nil {
		t.Fatalf("write summary: %v", err)
	}

	rows := readRows(t, path)
	got := make(map[string]string, len(rows))
	for _, row := range rows[1:] {
		got[row[0]] = row[1]
	}
	if got["run_id"] != "run-123" {
		t.Errorf("run_id = %s", got["run_id"])
	}
	if got["orders_proposed"] != "1" || got["excluded"] != "1" {
		t.Errorf("summary counts wrong: %v", got)
	}
}
