package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadSalesTolerantHeaders(t *testing.T) {
	path := writeCSV(t, "sales.csv", ""+
		"SKU,Tienda,Fecha,Cantidad\n"+
		"P1,STORE-1,2026-03-01,\"1,250\"\n"+
		"P1,STORE-1,01/03/2026,4\n"+
		",STORE-1,2026-03-01,9\n"+
		"P2,STORE-2,garbage,5\n")

	records, err := LoadSales(path)
	if err != nil {
		t.Fatalf("LoadSales: %v", err)
	}
	// Blank code and bad date rows are skipped.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Quantity != 1250 {
		t.Errorf("thousands separator not stripped: %v", records[0].Quantity)
	}
	if records[1].Date.Day() != 1 || records[1].Date.Month() != 3 {
		t.Errorf("dd/mm date parsed wrong: %v", records[1].Date)
	}
}

func TestLoadCatalogDefaultsPackSize(t *testing.T) {
	path := writeCSV(t, "catalog.csv", ""+
		"code,description,category,units_per_pack,unit_cost,is_traffic_generator\n"+
		"P1,Cola 2L,beverages,6,1.5,si\n"+
		"P2,Bread,bakery,0,0.4,\n")

	products, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if !products[0].IsTrafficGenerator {
		t.Error("spanish truthy flag not recognized")
	}
	if products[1].UnitsPerPack != 1 {
		t.Errorf("zero pack size should default to 1, got %v", products[1].UnitsPerPack)
	}
}

func TestBuildLanes(t *testing.T) {
	products := []domain.Product{
		{Code: "P1", Category: "beverages"},
		{Code: "P2", Category: "frozen"},
	}
	stocks := []domain.StockSnapshot{
		{ProductCode: "P1", NodeID: "STORE-1", OnHandUnits: 5},
		{ProductCode: "P1", NodeID: "CEDI-BEV", OnHandUnits: 900},
		{ProductCode: "P2", NodeID: "STORE-1", OnHandUnits: 2, InTransitUnits: 10},
	}
	opts := LaneOptions{
		CategoryOrigins:     map[string]string{"beverages": "CEDI-BEV"},
		DefaultOrigin:       "CEDI-ORIGEN",
		DefaultLeadTimeDays: 2,
		LaneLeadTimeDays:    map[string]float64{"CEDI-BEV->STORE-1": 1.5},
	}

	lanes := BuildLanes(products, stocks, opts)
	if len(lanes) != 2 {
		t.Fatalf("got %d lanes, want 2", len(lanes))
	}

	byProduct := map[string]domain.SupplyLane{}
	for _, l := range lanes {
		byProduct[l.ProductCode] = l
	}

	p1 := byProduct["P1"]
	if p1.OriginNodeID != "CEDI-BEV" {
		t.Errorf("P1 origin = %q, want category mapping CEDI-BEV", p1.OriginNodeID)
	}
	if p1.StockAtOrigin != 900 || p1.StockAtDestination != 5 {
		t.Errorf("P1 stocks = %v/%v, want 900/5", p1.StockAtOrigin, p1.StockAtDestination)
	}
	if p1.LeadTimeDays != 1.5 {
		t.Errorf("P1 lead time = %v, want the lane override 1.5", p1.LeadTimeDays)
	}

	p2 := byProduct["P2"]
	if p2.OriginNodeID != "CEDI-ORIGEN" {
		t.Errorf("P2 origin = %q, want the default", p2.OriginNodeID)
	}
	if p2.LeadTimeDays != 2 {
		t.Errorf("P2 lead time = %v, want default 2", p2.LeadTimeDays)
	}
	if p2.StockInTransit != 10 {
		t.Errorf("P2 in transit = %v, want 10", p2.StockInTransit)
	}
}
