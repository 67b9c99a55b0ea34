package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/cache"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/planning"
)

var ErrRunNotFound = errors.New("planning run not found")

var ErrProductNotFound = errors.New("product not found in run")

// LineFilter narrows the order-line listing. Zero values mean no filter.
type LineFilter struct {
	Urgency     string
	Destination string
	OnlyOrders  bool
	Limit       int
	Offset      int
}

// ProductDetail is the per-product drill-down for one run.
type ProductDetail struct {
	ProductCode    string                   `json:"product_code"`
	Classification domain.Classification    `json:"classification"`
	Profiles       []domain.DemandProfile   `json:"profiles"`
	Policies       []domain.InventoryPolicy `json:"policies"`
	Lines          []domain.OrderLine       `json:"lines"`
}

// PlanningService owns run execution and keeps completed runs addressable by
// id. Runs live in memory for the life of the process; only the summary goes
// through the cache.
type PlanningService struct {
	planner *planning.Planner
	cache   cache.PlanSummaryCache

	mu   sync.RWMutex
	runs map[string]*planning.PlanResult
}

func NewPlanningService(planner *planning.Planner, cacheImpl cache.PlanSummaryCache) *PlanningService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPlanSummaryCache()
	}
	return &PlanningService{
		planner: planner,
		cache:   cacheImpl,
		runs:    make(map[string]*planning.PlanResult),
	}
}

// Run executes one planning run and registers the result.
func (s *PlanningService) Run(ctx context.Context, snap planning.Snapshot) (*planning.PlanResult, error) {
	result, err := s.planner.Run(ctx, snap)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.runs[result.RunID] = result
	s.mu.Unlock()

	if err := s.cache.SetSummary(ctx, result.Summary); err != nil {
		log.Warn().Err(err).Str("run_id", result.RunID).Msg("planning: cache set summary failed")
	}

	return result, nil
}

func (s *PlanningService) GetSummary(ctx context.Context, runID string) (*domain.RunSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, runID); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("planning: cache get summary failed")
	}

	run, err := s.getRun(runID)
	if err != nil {
		return nil, err
	}

	summary := run.Summary
	if err := s.cache.SetSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Str("run_id", runID).Msg("planning: cache set summary failed")
	}
	return &summary, nil
}

// GetLines returns the filtered order lines in criticality order plus the
// total count before pagination.
func (s *PlanningService) GetLines(ctx context.Context, runID string, filter LineFilter) ([]domain.OrderLine, int, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return nil, 0, err
	}

	lines := make([]domain.OrderLine, 0, len(run.Lines))
	for _, line := range run.Lines {
		if filter.Urgency != "" && !strings.EqualFold(line.Urgency, filter.Urgency) {
			continue
		}
		if filter.Destination != "" && line.DestinationNodeID != filter.Destination {
			continue
		}
		if filter.OnlyOrders && line.SuggestedQuantity <= 0 {
			continue
		}
		lines = append(lines, line)
	}
	total := len(lines)

	if filter.Offset > 0 {
		if filter.Offset >= len(lines) {
			lines = nil
		} else {
			lines = lines[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(lines) {
		lines = lines[:filter.Limit]
	}

	return lines, total, nil
}

func (s *PlanningService) GetProduct(ctx context.Context, runID, productCode string) (*ProductDetail, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return nil, err
	}

	cls, ok := run.Classifications[productCode]
	if !ok {
		found := false
		for _, issue := range run.Issues {
			if issue.ProductCode == productCode {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrProductNotFound
		}
		cls = domain.Classification{ProductCode: productCode}
	}

	detail := &ProductDetail{
		ProductCode:    productCode,
		Classification: cls,
	}
	for _, p := range run.Profiles {
		if p.ProductCode == productCode {
			detail.Profiles = append(detail.Profiles, p)
		}
	}
	for _, p := range run.Policies {
		if p.ProductCode == productCode {
			detail.Policies = append(detail.Policies, p)
		}
	}
	for _, l := range run.Lines {
		if l.ProductCode == productCode {
			detail.Lines = append(detail.Lines, l)
		}
	}
	return detail, nil
}

// ListRuns returns the summaries of all runs held in memory, newest first.
func (s *PlanningService) ListRuns(ctx context.Context) []domain.RunSummary {
	s.mu.RLock()
	summaries := make([]domain.RunSummary, 0, len(s.runs))
	for _, run := range s.runs {
		summaries = append(summaries, run.Summary)
	}
	s.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].PlannedAt.After(summaries[j].PlannedAt)
	})
	return summaries
}

func (s *PlanningService) getRun(runID string) (*planning.PlanResult, error) {
	s.mu.RLock()
	run, ok := s.runs[runID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}
