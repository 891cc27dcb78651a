package engine

import (
	"fmt"

	log "github.com/golang/glog"

	"github.com/piwi3910/RodCut/internal/cpmodel"
	"github.com/piwi3910/RodCut/internal/model"
)

// BuildOptions tunes the formulation.
type BuildOptions struct {
	Slots             int  // Candidate rods; 0 uses the total demand
	MaxAssignmentVars int  // Ceiling on assignment variables; 0 disables it
	SymmetryBreaking  bool // Require used[i+1] => used[i]
	RepeatPieces      bool // Allow several units of one length per rod
}

// Formulation is a built model together with the variable layout needed to
// read a solver assignment back.
type Formulation struct {
	Problem model.Problem // Catalogue in modeling order
	Model   *cpmodel.Model
	Slots   int
	// Assign[i][j][c] is copy c of piece j on slot i.
	Assign [][][]cpmodel.VarIndex
	Used   []cpmodel.VarIndex
}

// AssignmentVars returns the number of slot x piece variables.
func (f *Formulation) AssignmentVars() int {
	n := 0
	for _, row := range f.Assign {
		for _, copies := range row {
			n += len(copies)
		}
	}
	return n
}

// Build translates a problem into a 0/1 model minimizing the number of used
// rods. The problem is validated first, so an oversized piece fails before
// any variable exists. Build is deterministic: the same input always yields
// the same model.
func Build(p model.Problem, opts BuildOptions) (*Formulation, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	slots := opts.Slots
	if slots <= 0 {
		slots = p.TotalDemand()
	}
	copies := make([]int, len(p.Pieces))
	perSlot := 0
	for j, pc := range p.Pieces {
		copies[j] = copiesPerRod(pc, p.RodLength, opts.RepeatPieces)
		perSlot += copies[j]
	}
	if vars := slots * perSlot; opts.MaxAssignmentVars > 0 && vars > opts.MaxAssignmentVars {
		return nil, fmt.Errorf("%w: %d slots x %d pieces = %d assignment variables, ceiling is %d",
			ErrModelTooLarge, slots, perSlot, vars, opts.MaxAssignmentVars)
	}

	cp := cpmodel.NewCpModelBuilder()
	f := &Formulation{
		Problem: p.Clone(),
		Slots:   slots,
		Assign:  make([][][]cpmodel.VarIndex, slots),
		Used:    make([]cpmodel.VarIndex, slots),
	}

	assign := make([][][]cpmodel.BoolVar, slots)
	used := make([]cpmodel.BoolVar, slots)
	for i := 0; i < slots; i++ {
		assign[i] = make([][]cpmodel.BoolVar, len(p.Pieces))
		f.Assign[i] = make([][]cpmodel.VarIndex, len(p.Pieces))
		for j := range p.Pieces {
			assign[i][j] = make([]cpmodel.BoolVar, copies[j])
			f.Assign[i][j] = make([]cpmodel.VarIndex, copies[j])
			for c := 0; c < copies[j]; c++ {
				name := fmt.Sprintf("assign[%d][%d]", i, j)
				if opts.RepeatPieces {
					name = fmt.Sprintf("assign[%d][%d][%d]", i, j, c)
				}
				v := cp.NewBoolVar().WithName(name)
				assign[i][j][c] = v
				f.Assign[i][j][c] = v.Index()
			}
		}
		used[i] = cp.NewBoolVar().WithName(fmt.Sprintf("used[%d]", i))
		f.Used[i] = used[i].Index()
	}

	// Capacity per slot
	for i := 0; i < slots; i++ {
		load := cpmodel.NewLinearExpr()
		for j, pc := range p.Pieces {
			for _, v := range assign[i][j] {
				load.AddTerm(v, int64(pc.Length))
			}
		}
		cp.AddLessOrEqual(load, int64(p.RodLength)).WithName(fmt.Sprintf("capacity[%d]", i))
	}

	// Demand per piece length
	for j, pc := range p.Pieces {
		count := cpmodel.NewLinearExpr()
		for i := 0; i < slots; i++ {
			for _, v := range assign[i][j] {
				count.Add(v)
			}
		}
		cp.AddEquality(count, int64(pc.Demand)).WithName(fmt.Sprintf("demand[%d]", j))
	}

	// Identical copies fill from the first one
	for i := 0; i < slots; i++ {
		for j := range p.Pieces {
			for c := 0; c+1 < len(assign[i][j]); c++ {
				cp.AddImplication(assign[i][j][c+1], assign[i][j][c])
			}
		}
	}

	objective := cpmodel.NewLinearExpr()
	for i := 0; i < slots; i++ {
		var row []cpmodel.BoolVar
		for j := range p.Pieces {
			row = append(row, assign[i][j]...)
		}
		cp.AddMaxEquality(used[i], row...)
		if opts.SymmetryBreaking && i+1 < slots {
			cp.AddImplication(used[i+1], used[i])
		}
		objective.Add(used[i])
	}
	cp.Minimize(objective)

	m, err := cp.Model()
	if err != nil {
		return nil, fmt.Errorf("building model: %w", err)
	}
	f.Model = m
	log.V(1).Infof("built model: %d slots, %d assignment vars, %d vars, %d linear constraints",
		slots, slots*perSlot, m.NumVars(), len(m.Linear))
	return f, nil
}
