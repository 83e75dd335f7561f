package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/voltiq/evsim/sim"
)

// Handler serves the simulation endpoints.
type Handler struct {
	presets *sim.PresetFile
	metrics *Metrics
	runs    *semaphore.Weighted
}

// NewHandler creates a handler. presets may be nil when no presets file is
// available; maxRuns bounds the number of simulations executing at once.
func NewHandler(presets *sim.PresetFile, metrics *Metrics, maxRuns int64) *Handler {
	return &Handler{
		presets: presets,
		metrics: metrics,
		runs:    semaphore.NewWeighted(maxRuns),
	}
}

// PresetInfo is one entry of GET /api/v1/presets.
type PresetInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Config      sim.Config `json:"config"`
}

// TablesResponse is the body of GET /api/v1/tables.
type TablesResponse struct {
	ArrivalProbabilities [sim.HoursPerDay]float64 `json:"arrivalProbabilities"`
	ChargingDemands      []DemandEntry            `json:"chargingDemands"`
}

// DemandEntry is one outcome of the charging demand distribution.
type DemandEntry struct {
	DistanceKm  float64 `json:"distanceKm"`
	Probability float64 `json:"probability"`
}

// ValidateResponse is the body of POST /api/v1/validate.
type ValidateResponse struct {
	Valid  bool                  `json:"valid"`
	Errors []sim.ValidationError `json:"errors"`
}

// Defaults handles GET /api/v1/defaults
func (h *Handler) Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, sim.DefaultConfig())
}

// Tables handles GET /api/v1/tables
func (h *Handler) Tables(c *gin.Context) {
	demands := make([]DemandEntry, len(sim.ChargingDemands))
	for i, d := range sim.ChargingDemands {
		demands[i] = DemandEntry{DistanceKm: d.Value, Probability: d.Probability}
	}
	c.JSON(http.StatusOK, TablesResponse{
		ArrivalProbabilities: sim.ArrivalProbabilities,
		ChargingDemands:      demands,
	})
}

// Presets handles GET /api/v1/presets
func (h *Handler) Presets(c *gin.Context) {
	infos := []PresetInfo{}
	if h.presets != nil {
		for _, name := range h.presets.Names() {
			p := h.presets.Presets[name]
			infos = append(infos, PresetInfo{Name: name, Description: p.Description, Config: p.Config})
		}
	}
	c.JSON(http.StatusOK, infos)
}

// Validate handles POST /api/v1/validate. An invalid configuration is a
// successful validation with errors, not a failed request.
func (h *Handler) Validate(c *gin.Context) {
	cfg, ok := h.bindConfig(c)
	if !ok {
		return
	}
	errs := sim.Validate(cfg)
	c.JSON(http.StatusOK, ValidateResponse{Valid: len(errs) == 0, Errors: errs})
}

// Simulate handles POST /api/v1/simulate[?preset=name][&detail=summary].
// With detail=summary the per-tick series and session list are left out.
func (h *Handler) Simulate(c *gin.Context) {
	cfg, ok := h.bindConfig(c)
	if !ok {
		return
	}

	engine, err := sim.NewEngine(cfg)
	if err != nil {
		if ce, ok := sim.AsConfigError(err); ok {
			h.metrics.ObserveRejected()
			abortWithError(c, http.StatusUnprocessableEntity, CodeInvalidConfig, "invalid configuration",
				map[string]interface{}{"errors": ce.Errors})
			return
		}
		abortWithError(c, http.StatusInternalServerError, CodeInternal, err.Error(), nil)
		return
	}

	result, err := h.run(c.Request.Context(), engine)
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, CodeUnavailable, err.Error(), nil)
		return
	}
	h.metrics.ObserveRun(result)

	if c.Query("detail") == "summary" {
		summary := *result
		summary.PowerDemandPerTick = nil
		summary.ChargingSessions = nil
		result = &summary
	}
	c.JSON(http.StatusOK, result)
}

// run executes engine once a run slot is free or fails when ctx ends first.
func (h *Handler) run(ctx context.Context, engine *sim.Engine) (*sim.Result, error) {
	if err := h.runs.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer h.runs.Release(1)
	logrus.Debugf("simulate: chargers=%d seed=%q", engine.Config().NumChargers, engine.Seed())
	return engine.Run(), nil
}

// bindConfig decodes the request body over the defaults, or over the preset
// named by ?preset=. Omitted fields keep those values and unknown keys are
// rejected. An empty body is allowed.
func (h *Handler) bindConfig(c *gin.Context) (sim.Config, bool) {
	cfg := sim.DefaultConfig()
	if name := c.Query("preset"); name != "" {
		if h.presets == nil {
			abortWithError(c, http.StatusNotFound, CodeUnknownPreset, "no presets loaded", nil)
			return cfg, false
		}
		var err error
		if cfg, err = h.presets.Lookup(name); err != nil {
			abortWithError(c, http.StatusNotFound, CodeUnknownPreset, err.Error(), nil)
			return cfg, false
		}
	}
	if c.Request.ContentLength == 0 {
		return cfg, true
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return cfg, false
	}
	return cfg, true
}
