// Package api exposes the optimizer over HTTP.
package api

import (
	"net/http"
	"time"

	log "github.com/golang/glog"
	"github.com/gin-gonic/gin"

	"github.com/piwi3910/RodCut/internal/engine"
	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/solver"
)

type APIHandler struct {
	defaults    model.SolveSettings
	newSolver   engine.SolverFactory
	pricePerRod float64
	minOffcut   int
}

// Options configures the router. Zero values fall back to the built-in
// defaults and the solver registry.
type Options struct {
	Defaults        model.SolveSettings
	NewSolver       engine.SolverFactory
	PricePerRod     float64
	MinOffcutLength int
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	if opts.Defaults == (model.SolveSettings{}) {
		opts.Defaults = model.DefaultSettings()
	}
	if opts.NewSolver == nil {
		opts.NewSolver = solver.New
	}
	handler := &APIHandler{
		defaults:    opts.Defaults,
		newSolver:   opts.NewSolver,
		pricePerRod: opts.PricePerRod,
		minOffcut:   opts.MinOffcutLength,
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", handler.handleHealth)
		api.POST("/plans", handler.handleCreatePlan)
		api.POST("/compare", handler.handleCompare)
		api.POST("/estimate", handler.handleEstimate)
		api.POST("/model", handler.handleModel)
	}

	return r
}

// requestLogger logs each request through glog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.V(1).Infof("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// handleHealth reports liveness and the available solver backends.
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"backends": solver.Backends(),
		"defaults": h.defaults,
	})
}
