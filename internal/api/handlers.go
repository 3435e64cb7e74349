package api

import (
	"census/internal/directive"
	"census/internal/engine"
	"census/internal/models"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type loaded struct {
	store   *engine.Store
	summary *models.Summary
}

type Handler struct {
	data   atomic.Pointer[loaded]
	logger *zap.Logger
}

// NewHandler may be given a nil store; every data route answers 503
// until SetStore is called.
func NewHandler(store *engine.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{logger: logger}
	if store != nil {
		h.SetStore(store)
	}
	return h
}

// SetStore publishes a loaded store and its summary.
func (h *Handler) SetStore(store *engine.Store) {
	h.data.Store(&loaded{store: store, summary: store.Summarize()})
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/states", h.GetStates)
	api.GET("/counties", h.GetCounties)
	api.GET("/counties/:state/:county", h.GetCounty)
	api.POST("/run", h.RunDirectives)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) current() (*loaded, error) {
	d := h.data.Load()
	if d == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "county data is still loading")
	}
	return d, nil
}

// per-state totals, largest population first
func (h *Handler) GetStates(c echo.Context) error {
	d, err := h.current()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.summary)
}

func (h *Handler) GetCounties(c echo.Context) error {
	d, err := h.current()
	if err != nil {
		return err
	}
	counties := d.store.Records()
	if state := c.QueryParam("state"); state != "" {
		counties = engine.FilterByState(counties, state)
	}
	total := len(counties)
	limit, offset := getPaginationParams(c, total)

	if offset >= total {
		counties = []models.CountyRecord{}
	} else {
		end := offset + limit
		if end > total {
			end = total
		}
		counties = counties[offset:end]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   counties,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetCounty returns one county by state and county name.
func (h *Handler) GetCounty(c echo.Context) error {
	d, err := h.current()
	if err != nil {
		return err
	}
	state, county := c.Param("state"), c.Param("county")
	rec, ok := d.store.Lookup(county, state)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no county %q in %s", county, state))
	}
	return c.JSON(http.StatusOK, rec)
}

// RunDirectives executes the request body as an operations file against
// a fresh subset of the store.
func (h *Handler) RunDirectives(c echo.Context) error {
	d, err := h.current()
	if err != nil {
		return err
	}
	directives, rejected, err := directive.Parse(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	runID := uuid.NewString()
	logger := h.logger.With(zap.String("run_id", runID))
	report := engine.NewExecutor(d.store, logger).Run(directives)

	resp := models.RunResponse{
		RunID:        runID,
		SyntaxErrors: make([]string, 0, len(rejected)),
		Results:      make([]models.DirectiveItem, 0, len(report.Results)),
		Remaining:    len(report.Final),
	}
	for _, se := range rejected {
		resp.SyntaxErrors = append(resp.SyntaxErrors, se.Error())
	}
	for _, res := range report.Results {
		item := models.DirectiveItem{
			Line:    res.Directive.Line,
			Text:    res.Directive.Text,
			Message: res.Message,
			Entries: len(res.Subset),
		}
		if res.Failed() {
			item.Error = res.Err.Error()
		}
		resp.Results = append(resp.Results, item)
	}
	logger.Info("directives run",
		zap.Int("directives", len(directives)),
		zap.Int("rejected", len(rejected)),
		zap.Int("failed", report.Failures()))
	return c.JSON(http.StatusOK, resp)
}
