// Package feed loads the read-only snapshots the planning engine consumes:
// sales history, stock positions, and the catalog. Feeds arrive as CSV
// exports from the surrounding systems; headers are matched tolerantly and
// numbers may carry thousands separators.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// columnIndex resolves a column by any of its accepted names.
func columnIndex(header []string, names ...string) int {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[normalizeColumnName(name)] = struct{}{}
	}
	for i, h := range header {
		if _, ok := targets[normalizeColumnName(h)]; ok {
			return i
		}
	}
	return -1
}

func fieldAt(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func floatAt(record []string, idx int) float64 {
	v := fieldAt(record, idx)
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, ",", "")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

func boolAt(record []string, idx int) bool {
	switch strings.ToLower(fieldAt(record, idx)) {
	case "1", "true", "yes", "si", "sí":
		return true
	}
	return false
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "20060102"}

func dateAt(record []string, idx int) (time.Time, error) {
	v := fieldAt(record, idx)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", v)
}

func readAll(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, record)
	}
	return header, rows, nil
}

// LoadSales reads the sales history feed: product_code, location_id, date,
// quantity_units. Rows with no product code or an unparseable date are
// skipped.
func LoadSales(path string) ([]domain.SalesRecord, error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	idxProduct := columnIndex(header, "product_code", "sku", "codigo")
	idxLocation := columnIndex(header, "location_id", "store", "tienda", "node_id")
	idxDate := columnIndex(header, "date", "fecha")
	idxQty := columnIndex(header, "quantity_units", "quantity", "cantidad", "units")

	records := make([]domain.SalesRecord, 0, len(rows))
	for _, row := range rows {
		code := fieldAt(row, idxProduct)
		if code == "" {
			continue
		}
		date, err := dateAt(row, idxDate)
		if err != nil {
			continue
		}
		records = append(records, domain.SalesRecord{
			ProductCode: code,
			LocationID:  fieldAt(row, idxLocation),
			Date:        date,
			Quantity:    floatAt(row, idxQty),
		})
	}
	return records, nil
}

// LoadStock reads the stock snapshot feed: product_code, node_id,
// on_hand_units, in_transit_units.
func LoadStock(path string) ([]domain.StockSnapshot, error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	idxProduct := columnIndex(header, "product_code", "sku", "codigo")
	idxNode := columnIndex(header, "node_id", "store", "tienda", "location_id")
	idxOnHand := columnIndex(header, "on_hand_units", "stock", "existencia")
	idxTransit := columnIndex(header, "in_transit_units", "in_transit", "transito")

	snapshots := make([]domain.StockSnapshot, 0, len(rows))
	for _, row := range rows {
		code := fieldAt(row, idxProduct)
		if code == "" {
			continue
		}
		snapshots = append(snapshots, domain.StockSnapshot{
			ProductCode:    code,
			NodeID:         fieldAt(row, idxNode),
			OnHandUnits:    floatAt(row, idxOnHand),
			InTransitUnits: floatAt(row, idxTransit),
		})
	}
	return snapshots, nil
}

// LoadCatalog reads the catalog feed: code, description, category,
// units_per_pack, unit_weight, unit_cost, is_traffic_generator.
func LoadCatalog(path string) ([]domain.Product, error) {
	header, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}

	idxCode := columnIndex(header, "code", "product_code", "sku", "codigo")
	idxDesc := columnIndex(header, "description", "descripcion", "nama", "product name")
	idxCategory := columnIndex(header, "category", "categoria")
	idxPack := columnIndex(header, "units_per_pack", "pack_size", "bulto")
	idxWeight := columnIndex(header, "unit_weight", "peso")
	idxCost := columnIndex(header, "unit_cost", "cost", "costo", "hpp")
	idxTraffic := columnIndex(header, "is_traffic_generator", "traffic_generator", "generador_trafico")

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		code := fieldAt(row, idxCode)
		if code == "" {
			continue
		}
		p := domain.Product{
			Code:               code,
			Description:        fieldAt(row, idxDesc),
			Category:           fieldAt(row, idxCategory),
			UnitsPerPack:       floatAt(row, idxPack),
			UnitWeight:         floatAt(row, idxWeight),
			UnitCost:           floatAt(row, idxCost),
			IsTrafficGenerator: boolAt(row, idxTraffic),
		}
		if p.UnitsPerPack <= 0 {
			p.UnitsPerPack = 1
		}
		products = append(products, p)
	}
	return products, nil
}
