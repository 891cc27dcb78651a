package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	log "github.com/golang/glog"
	"github.com/gin-gonic/gin"

	"github.com/piwi3910/RodCut/internal/engine"
	"github.com/piwi3910/RodCut/internal/model"
)

type pieceRequest struct {
	Label  string  `json:"label"`
	Length float64 `json:"length"`
	Demand int     `json:"demand"`
}

// settingsRequest overrides individual solve settings; nil fields keep the
// server defaults.
type settingsRequest struct {
	Backend           *string  `json:"backend"`
	TimeLimitSeconds  *float64 `json:"time_limit_seconds"`
	MaxAssignmentVars *int     `json:"max_assignment_vars"`
	Ordering          *bool    `json:"ordering"`
	SymmetryBreaking  *bool    `json:"symmetry_breaking"`
	SlotBound         *string  `json:"slot_bound"`
	RepeatPieces      *bool    `json:"repeat_pieces"`
}

type planRequest struct {
	Name      string           `json:"name"`
	Unit      string           `json:"unit"`
	RodLength float64          `json:"rod_length" binding:"required"`
	Pieces    []pieceRequest   `json:"pieces"`
	Settings  *settingsRequest `json:"settings"`
}

// problem converts the request to integer millimetres.
func (r planRequest) problem() (model.Problem, error) {
	unit, err := model.ParseUnit(r.Unit)
	if err != nil {
		return model.Problem{}, err
	}
	rod, err := unit.ToMillimeters(r.RodLength)
	if err != nil {
		return model.Problem{}, fmt.Errorf("rod_length: %w", err)
	}
	pieces := make([]model.Piece, len(r.Pieces))
	for i, p := range r.Pieces {
		length, err := unit.ToMillimeters(p.Length)
		if err != nil {
			return model.Problem{}, fmt.Errorf("pieces[%d].length: %w", i, err)
		}
		label := p.Label
		if label == "" {
			label = fmt.Sprintf("Piece %d", i+1)
		}
		pieces[i] = model.NewPiece(label, length, p.Demand)
	}
	return model.NewProblem(r.Name, rod, pieces...), nil
}

func (s *settingsRequest) apply(base model.SolveSettings) (model.SolveSettings, error) {
	if s == nil {
		return base, nil
	}
	if s.Backend != nil {
		b, err := model.ParseBackend(*s.Backend)
		if err != nil {
			return base, err
		}
		base.Backend = b
	}
	if s.SlotBound != nil {
		sb, err := model.ParseSlotBound(*s.SlotBound)
		if err != nil {
			return base, err
		}
		base.SlotBound = sb
	}
	if s.TimeLimitSeconds != nil {
		if *s.TimeLimitSeconds < 0 {
			return base, errors.New("time_limit_seconds must not be negative")
		}
		base.TimeLimitSeconds = clamp(*s.TimeLimitSeconds, base.TimeLimitSeconds)
	}
	if s.MaxAssignmentVars != nil {
		if *s.MaxAssignmentVars < 0 {
			return base, errors.New("max_assignment_vars must not be negative")
		}
		base.MaxAssignmentVars = clamp(*s.MaxAssignmentVars, base.MaxAssignmentVars)
	}
	if s.Ordering != nil {
		base.Ordering = *s.Ordering
	}
	if s.SymmetryBreaking != nil {
		base.SymmetryBreaking = *s.SymmetryBreaking
	}
	if s.RepeatPieces != nil {
		base.RepeatPieces = *s.RepeatPieces
	}
	return base, nil
}

// clamp keeps a request override within the server's limit. Zero means no
// limit, so a request may only use it when the server has none either.
func clamp[T int | float64](v, limit T) T {
	if limit > 0 && (v == 0 || v > limit) {
		return limit
	}
	return v
}

// bindPlan decodes a plan request and writes a 400 on failure.
func (h *APIHandler) bindPlan(c *gin.Context) (model.Problem, model.SolveSettings, bool) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return model.Problem{}, model.SolveSettings{}, false
	}
	p, err := req.problem()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.Problem{}, model.SolveSettings{}, false
	}
	settings, err := req.Settings.apply(h.defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.Problem{}, model.SolveSettings{}, false
	}
	return p, settings, true
}

// StatusForError maps pipeline errors to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidSpecification):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInfeasibleSpecification):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrModelTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, engine.ErrNoPlanWithinBudget):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// POST /api/v1/plans
// Solves a cutting problem and returns the plan with its usable remnants.
func (h *APIHandler) handleCreatePlan(c *gin.Context) {
	p, settings, ok := h.bindPlan(c)
	if !ok {
		return
	}

	s, err := h.newSolver(settings.Backend)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := engine.New(settings, s).Optimize(c.Request.Context(), p)
	if err != nil {
		log.Warningf("plan %q failed: %v", p.Name, err)
		c.JSON(StatusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":        plan,
		"remnants":    model.DetectRemnants(plan, h.minOffcut),
		"lower_bound": engine.LowerBound(p, settings.RepeatPieces),
	})
}

// POST /api/v1/compare
// Solves the problem under the default what-if scenarios.
func (h *APIHandler) handleCompare(c *gin.Context) {
	p, settings, ok := h.bindPlan(c)
	if !ok {
		return
	}
	if err := engine.Validate(p); err != nil {
		c.JSON(StatusForError(err), gin.H{"error": err.Error()})
		return
	}

	results, err := engine.CompareScenarios(c.Request.Context(), engine.BuildDefaultScenarios(settings), p, h.newSolver)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, len(results))
	for i, r := range results {
		row := gin.H{
			"scenario": r.Scenario.Name,
			"settings": r.Scenario.Settings,
		}
		if r.Err != nil {
			row["error"] = r.Err.Error()
		} else {
			row["rods_used"] = r.RodsUsed
			row["total_waste"] = r.TotalWaste
			row["waste_percent"] = r.WastePercent
			row["status"] = r.Status
			row["solve_time_ms"] = r.SolveTime.Milliseconds()
		}
		out[i] = row
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

// POST /api/v1/model
// Returns the constraint model in OPB text form without solving it.
func (h *APIHandler) handleModel(c *gin.Context) {
	p, settings, ok := h.bindPlan(c)
	if !ok {
		return
	}

	f, err := engine.New(settings, nil).Formulate(p)
	if err != nil {
		c.JSON(StatusForError(err), gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := f.Model.WriteOPB(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

type estimateRequest struct {
	Unit         string         `json:"unit"`
	RodLength    float64        `json:"rod_length" binding:"required"`
	Pieces       []pieceRequest `json:"pieces"`
	WastePercent float64        `json:"waste_percent"`
	PricePerRod  *float64       `json:"price_per_rod"`
}

// POST /api/v1/estimate
// Estimates how many rods to buy without solving.
func (h *APIHandler) handleEstimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.WastePercent < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "waste_percent must not be negative"})
		return
	}

	p, err := planRequest{Unit: req.Unit, RodLength: req.RodLength, Pieces: req.Pieces}.problem()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := engine.Validate(p); err != nil {
		c.JSON(StatusForError(err), gin.H{"error": err.Error()})
		return
	}

	price := h.pricePerRod
	if req.PricePerRod != nil {
		price = *req.PricePerRod
	}
	c.JSON(http.StatusOK, model.CalculatePurchaseEstimate(p.Pieces, p.RodLength, req.WastePercent, price))
}
