package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/domain"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/planning"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/service"
)

// SnapshotLoader builds the input set for a run. The server wires it to the
// CSV feed directory; tests can substitute a fixed snapshot.
type SnapshotLoader func(asOf time.Time) (planning.Snapshot, error)

type PlanningHandler struct {
	service *service.PlanningService
	loader  SnapshotLoader
}

func NewPlanningHandler(svc *service.PlanningService, loader SnapshotLoader) *PlanningHandler {
	return &PlanningHandler{service: svc, loader: loader}
}

type createRunRequest struct {
	AsOf string `json:"as_of"`
}

// CreateRun loads a fresh snapshot and executes one planning run.
func (h *PlanningHandler) CreateRun(c *gin.Context) {
	// Empty body means "run now"; a body must parse.
	var req createRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	asOf := time.Now().UTC()
	if req.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	snap, err := h.loader(asOf)
	if err != nil {
		errorResponse(c, http.StatusUnprocessableEntity, "load snapshot: "+err.Error())
		return
	}

	result, err := h.service.Run(c.Request.Context(), snap)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "planning run failed: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"run_id":  result.RunID,
		"summary": result.Summary,
	})
}

func (h *PlanningHandler) ListRuns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"runs": h.service.ListRuns(c.Request.Context())})
}

func (h *PlanningHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			errorResponse(c, http.StatusNotFound, "run not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *PlanningHandler) GetLines(c *gin.Context) {
	filter, err := h.parseLineFilter(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	lines, total, err := h.service.GetLines(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			errorResponse(c, http.StatusNotFound, "run not found")
			return
		}
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if lines == nil {
		lines = make([]domain.OrderLine, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"lines": lines,
		"total": total,
	})
}

func (h *PlanningHandler) GetProduct(c *gin.Context) {
	detail, err := h.service.GetProduct(c.Request.Context(), c.Param("id"), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRunNotFound):
			errorResponse(c, http.StatusNotFound, "run not found")
		case errors.Is(err, service.ErrProductNotFound):
			errorResponse(c, http.StatusNotFound, "product not found in run")
		default:
			errorResponse(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *PlanningHandler) parseLineFilter(c *gin.Context) (service.LineFilter, error) {
	filter := service.LineFilter{
		Limit: 100,
	}

	if urgency := strings.TrimSpace(c.Query("urgency")); urgency != "" {
		level, ok := domain.ParseUrgency(urgency)
		if !ok {
			return filter, fmt.Errorf("unknown urgency %q", urgency)
		}
		filter.Urgency = domain.UrgencyLabel(level)
	}
	if dest := strings.TrimSpace(c.Query("destination")); dest != "" {
		filter.Destination = dest
	}
	if only := strings.TrimSpace(c.Query("only_orders")); only != "" {
		filter.OnlyOrders = only == "true" || only == "1"
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	return filter, nil
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
