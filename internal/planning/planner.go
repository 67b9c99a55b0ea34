package planning

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
)

// Snapshot is the read-only input set for one planning run. All data is
// pre-fetched; the engine itself performs no I/O.
type Snapshot struct {
	AsOf     time.Time
	Products []domain.Product
	Sales    []domain.SalesRecord
	Lanes    []domain.SupplyLane
	Nodes    []domain.Node
}

// PlanResult is the complete, internally consistent output of one run.
// Callers may discard and recompute it at will.
type PlanResult struct {
	RunID           string                           `json:"run_id"`
	AsOf            time.Time                        `json:"as_of"`
	Profiles        []domain.DemandProfile           `json:"profiles"`
	Classifications map[string]domain.Classification `json:"classifications"`
	Policies        []domain.InventoryPolicy         `json:"policies"`
	Lines           []domain.OrderLine               `json:"lines"`
	Issues          []domain.ProductIssue            `json:"issues"`
	Summary         domain.RunSummary                `json:"summary"`
}

// Planner wires the five stages into one batch computation. Products are
// independent of each other, so the run fans out over them and fans the
// results back in; a failure on one product never aborts the rest.
type Planner struct {
	cfg        Config
	estimator  *Estimator
	classifier *Classifier
	calculator *Calculator
	allocator  *Allocator
}

func NewPlanner(cfg Config) *Planner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Planner{
		cfg:        cfg,
		estimator:  NewEstimator(cfg.Demand),
		classifier: NewClassifier(cfg.Classify),
		calculator: NewCalculator(cfg.Policy),
		allocator:  NewAllocator(cfg.Allocate),
	}
}

// productResult is the fan-in unit for one product's computation.
type productResult struct {
	profiles          []domain.DemandProfile
	classification    *domain.Classification
	policies          []domain.InventoryPolicy
	lines             []domain.OrderLine
	issues            []domain.ProductIssue
	insufficientData  bool
	invariantViolated int
}

// Run executes one planning run over the snapshot. Cancellation discards
// the partial output; the run has no side effects on shared state.
func (p *Planner) Run(ctx context.Context, snap Snapshot) (*PlanResult, error) {
	start := time.Now()

	salesIndex := indexSales(snap.Sales)
	lanesByProduct := indexLanes(snap.Lanes)
	children := indexChildren(snap.Nodes)
	valueClasses := p.rankConsumptionValue(snap, salesIndex)

	sem := semaphore.NewWeighted(p.cfg.Workers)
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]*productResult, 0, len(snap.Products))
	)

	for _, product := range snap.Products {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(product domain.Product) {
			defer wg.Done()
			defer sem.Release(1)

			res := p.processProduct(snap, product, salesIndex[product.Code], lanesByProduct[product.Code], children, valueClasses[product.Code])

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(product)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &PlanResult{
		RunID:           uuid.NewString(),
		AsOf:            snap.AsOf,
		Classifications: make(map[string]domain.Classification, len(snap.Products)),
	}
	summary := domain.RunSummary{
		RunID:         result.RunID,
		PlannedAt:     time.Now().UTC(),
		TotalProducts: len(snap.Products),
		TotalLanes:    len(snap.Lanes),
	}

	for _, res := range results {
		result.Profiles = append(result.Profiles, res.profiles...)
		result.Policies = append(result.Policies, res.policies...)
		result.Lines = append(result.Lines, res.lines...)
		result.Issues = append(result.Issues, res.issues...)
		if res.classification != nil {
			result.Classifications[res.classification.ProductCode] = *res.classification
			if res.classification.ABCValue == domain.ValueErrorCosto {
				summary.InvalidCost++
			}
		}
		if res.insufficientData {
			summary.InsufficientData++
		}
		summary.InvariantViolations += res.invariantViolated
		for _, line := range res.lines {
			if line.Excluded {
				summary.Excluded++
				continue
			}
			if line.SupplyConstrained {
				summary.SupplyConstrained++
			}
			if line.SuggestedQuantity > 0 {
				summary.OrdersProposed++
			}
		}
	}

	// Most urgent first; the composite score already encodes band then class.
	sort.SliceStable(result.Lines, func(i, j int) bool {
		return result.Lines[i].CriticalityScore < result.Lines[j].CriticalityScore
	})
	result.Summary = summary

	log.Info().
		Str("run_id", result.RunID).
		Int("products", summary.TotalProducts).
		Int("orders", summary.OrdersProposed).
		Int("excluded", summary.Excluded).
		Int("insufficient_data", summary.InsufficientData).
		Int("supply_constrained", summary.SupplyConstrained).
		Dur("elapsed", time.Since(start)).
		Msg("planning run completed")

	return result, nil
}

// processProduct runs the full stage chain for one product across all its
// lanes. Errors are folded into issues instead of propagating so the batch
// keeps going.
func (p *Planner) processProduct(
	snap Snapshot,
	product domain.Product,
	salesByLocation map[string][]domain.SalesRecord,
	lanes []domain.SupplyLane,
	children map[string][]string,
	valueClass string,
) *productResult {
	res := &productResult{}

	if valueClass == "" {
		valueClass = domain.ValueNuevo
	}

	profileCache := make(map[string]domain.DemandProfile)
	locProfile := func(locationID string) (domain.DemandProfile, error) {
		if prof, ok := profileCache[locationID]; ok {
			return prof, nil
		}
		prof, err := p.nodeProfile(product, locationID, salesByLocation, children, snap.AsOf)
		if err != nil {
			return domain.DemandProfile{}, err
		}
		profileCache[locationID] = prof
		return prof, nil
	}

	// Product-level classification uses the network-wide aggregate so the
	// same product carries one class across every lane.
	networkProfile, err := p.networkProfile(product, salesByLocation, snap.AsOf)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			res.insufficientData = true
			res.issues = append(res.issues, domain.ProductIssue{
				ProductCode: product.Code,
				Reason:      "insufficient_data",
			})
			// Exclusions still surface even without demand data: they are a
			// policy decision, not a data outcome.
			if p.cfg.Allocate.Exclusions[product.Code] {
				for _, lane := range lanes {
					res.lines = append(res.lines, domain.OrderLine{
						ProductCode:       product.Code,
						OriginNodeID:      lane.OriginNodeID,
						DestinationNodeID: lane.DestinationNodeID,
						Excluded:          true,
					})
				}
			}
			return res
		}
		res.issues = append(res.issues, domain.ProductIssue{ProductCode: product.Code, Reason: err.Error()})
		return res
	}

	cls := p.classifier.Classify(product, networkProfile, valueClass)
	res.classification = &cls
	res.profiles = append(res.profiles, networkProfile)

	if cls.ABCValue == domain.ValueErrorCosto {
		// Value classification is broken for this product but velocity and
		// policy still proceed.
		log.Warn().Str("product", product.Code).Err(domain.ErrInvalidCost).
			Msg("value classification unavailable")
	}

	for _, lane := range lanes {
		profile, err := locProfile(lane.DestinationNodeID)
		if err != nil {
			res.issues = append(res.issues, domain.ProductIssue{
				ProductCode: product.Code,
				NodeID:      lane.DestinationNodeID,
				Reason:      err.Error(),
			})
			if errors.Is(err, domain.ErrInsufficientData) {
				res.insufficientData = true
			}
			continue
		}
		res.profiles = append(res.profiles, profile)

		policy, err := p.calculator.Compute(cls.EffectiveClass, profile, lane.DestinationNodeID, lane.LeadTimeDays)
		if err != nil {
			var inv *domain.PolicyInvariantError
			if errors.As(err, &inv) {
				res.invariantViolated++
				log.Error().Str("product", product.Code).Str("node", lane.DestinationNodeID).Err(err).
					Msg("policy invariant violated, skipping product on this lane")
			}
			res.issues = append(res.issues, domain.ProductIssue{
				ProductCode: product.Code,
				NodeID:      lane.DestinationNodeID,
				Reason:      err.Error(),
			})
			continue
		}
		res.policies = append(res.policies, policy)

		line := p.allocator.Allocate(product, lane, policy)
		level, score := Criticality(lane.StockAtDestination, policy, cls.EffectiveClass)
		line.UrgencyLevel = level
		line.Urgency = domain.UrgencyLabel(level)
		line.CriticalityScore = score
		line.Priority = p.cfg.Priority.Priority(cls.ABCValue, DaysOfStock(lane.StockAtDestination, profile.P75DailyUnits))
		res.lines = append(res.lines, line)
	}

	return res
}

// nodeProfile estimates demand at a node. A node with children is a
// distribution center: its P75 is the sum of each child's independently
// computed P75, never the P75 of the summed series.
func (p *Planner) nodeProfile(
	product domain.Product,
	nodeID string,
	salesByLocation map[string][]domain.SalesRecord,
	children map[string][]string,
	asOf time.Time,
) (domain.DemandProfile, error) {
	kids := children[nodeID]
	if len(kids) == 0 {
		prof, err := p.estimator.Estimate(salesByLocation[nodeID], asOf)
		if err != nil {
			return domain.DemandProfile{}, err
		}
		prof.ProductCode = product.Code
		prof.LocationID = nodeID
		return prof, nil
	}

	var parts []domain.DemandProfile
	for _, kid := range kids {
		prof, err := p.nodeProfile(product, kid, salesByLocation, children, asOf)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientData) {
				continue
			}
			return domain.DemandProfile{}, err
		}
		parts = append(parts, prof)
	}
	return p.estimator.Aggregate(nodeID, parts)
}

// networkProfile aggregates every selling location of a product for the
// run-level classification.
func (p *Planner) networkProfile(product domain.Product, salesByLocation map[string][]domain.SalesRecord, asOf time.Time) (domain.DemandProfile, error) {
	locations := make([]string, 0, len(salesByLocation))
	for loc := range salesByLocation {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	var parts []domain.DemandProfile
	for _, loc := range locations {
		prof, err := p.estimator.Estimate(salesByLocation[loc], asOf)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientData) {
				continue
			}
			return domain.DemandProfile{}, err
		}
		prof.ProductCode = product.Code
		prof.LocationID = loc
		parts = append(parts, prof)
	}
	return p.estimator.Aggregate("NETWORK", parts)
}

// rankConsumptionValue feeds the Pareto value ranking with each product's
// trailing consumption across all locations.
func (p *Planner) rankConsumptionValue(snap Snapshot, salesIndex map[string]map[string][]domain.SalesRecord) map[string]string {
	windowStart := truncateDay(snap.AsOf).AddDate(0, 0, -(p.cfg.Demand.WindowDays - 1))

	items := make([]Consumption, 0, len(snap.Products))
	for _, product := range snap.Products {
		var units float64
		for _, records := range salesIndex[product.Code] {
			for _, r := range records {
				if truncateDay(r.Date).Before(windowStart) {
					continue
				}
				units += r.Quantity
			}
		}
		items = append(items, Consumption{
			ProductCode: product.Code,
			UnitCost:    product.UnitCost,
			Units:       units,
		})
	}
	return p.classifier.RankByValue(items)
}

func indexSales(sales []domain.SalesRecord) map[string]map[string][]domain.SalesRecord {
	index := make(map[string]map[string][]domain.SalesRecord)
	for _, r := range sales {
		byLoc, ok := index[r.ProductCode]
		if !ok {
			byLoc = make(map[string][]domain.SalesRecord)
			index[r.ProductCode] = byLoc
		}
		byLoc[r.LocationID] = append(byLoc[r.LocationID], r)
	}
	return index
}

func indexLanes(lanes []domain.SupplyLane) map[string][]domain.SupplyLane {
	index := make(map[string][]domain.SupplyLane)
	for _, lane := range lanes {
		index[lane.ProductCode] = append(index[lane.ProductCode], lane)
	}
	return index
}

func indexChildren(nodes []domain.Node) map[string][]string {
	index := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if len(n.Children) > 0 {
			index[n.ID] = n.Children
		}
	}
	return index
}
