package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/planning"
)

// Feed file names expected under the data directory.
const (
	catalogFile = "catalog.csv"
	salesFile   = "sales.csv"
	stockFile   = "stock.csv"
	nodesFile   = "nodes.csv"
)

// LoadNodes reads the node hierarchy. The children column holds the child
// node ids separated by ';' or '|'. The file is optional; without it every
// node is a leaf.
func LoadNodes(path string) ([]domain.Node, error) {
	header, records, err := readAll(path)
	if err != nil {
		return nil, err
	}

	idIdx := columnIndex(header, "id", "node_id", "codigo")
	nameIdx := columnIndex(header, "name", "nombre")
	childrenIdx := columnIndex(header, "children", "hijos")
	if idIdx < 0 {
		return nil, fmt.Errorf("nodes feed %s: missing id column", path)
	}

	nodes := make([]domain.Node, 0, len(records))
	for _, rec := range records {
		id := fieldAt(rec, idIdx)
		if id == "" {
			continue
		}
		node := domain.Node{
			ID:   id,
			Name: fieldAt(rec, nameIdx),
		}
		if raw := fieldAt(rec, childrenIdx); raw != "" {
			raw = strings.ReplaceAll(raw, "|", ";")
			for _, child := range strings.Split(raw, ";") {
				child = strings.TrimSpace(child)
				if child != "" {
					node.Children = append(node.Children, child)
				}
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// LoadSnapshot assembles one run's input set from the CSV feeds in dataDir.
func LoadSnapshot(dataDir string, opts LaneOptions, asOf time.Time) (planning.Snapshot, error) {
	products, err := LoadCatalog(filepath.Join(dataDir, catalogFile))
	if err != nil {
		return planning.Snapshot{}, fmt.Errorf("load catalog: %w", err)
	}

	sales, err := LoadSales(filepath.Join(dataDir, salesFile))
	if err != nil {
		return planning.Snapshot{}, fmt.Errorf("load sales: %w", err)
	}

	stocks, err := LoadStock(filepath.Join(dataDir, stockFile))
	if err != nil {
		return planning.Snapshot{}, fmt.Errorf("load stock: %w", err)
	}

	var nodes []domain.Node
	nodesPath := filepath.Join(dataDir, nodesFile)
	if _, statErr := os.Stat(nodesPath); statErr == nil {
		nodes, err = LoadNodes(nodesPath)
		if err != nil {
			return planning.Snapshot{}, fmt.Errorf("load nodes: %w", err)
		}
	}

	return planning.Snapshot{
		AsOf:     asOf,
		Products: products,
		Sales:    sales,
		Lanes:    BuildLanes(products, stocks, opts),
		Nodes:    nodes,
	}, nil
}
