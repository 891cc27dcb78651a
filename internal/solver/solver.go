// Package solver maps backend names to cpmodel.Solver implementations.
package solver

import (
	"fmt"
	"sort"

	"github.com/piwi3910/RodCut/internal/cpmodel"
	"github.com/piwi3910/RodCut/internal/model"
	"github.com/piwi3910/RodCut/internal/solver/pbsolver"
	"github.com/piwi3910/RodCut/internal/solver/satsolver"
)

var registry = map[model.Backend]func() cpmodel.Solver{
	model.BackendPB:  func() cpmodel.Solver { return pbsolver.New() },
	model.BackendSAT: func() cpmodel.Solver { return satsolver.New() },
}

// New returns a fresh solver for backend.
func New(backend model.Backend) (cpmodel.Solver, error) {
	ctor, ok := registry[backend]
	if !ok {
		return nil, fmt.Errorf("no solver backend %q", backend)
	}
	return ctor(), nil
}

// Backends lists the registered backends in name order.
func Backends() []model.Backend {
	out := make([]model.Backend, 0, len(registry))
	for b := range registry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
