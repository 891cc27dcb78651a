package cpmodel

import "fmt"

// Activity returns the value of a linear sum under values.
func Activity(terms []Term, values []bool) int64 {
	var sum int64
	for _, t := range terms {
		if values[t.Var] {
			sum += t.Coeff
		}
	}
	return sum
}

// Evaluate returns the objective value of values.
func (m *Model) Evaluate(values []bool) int64 {
	return Activity(m.Objective, values)
}

// Check verifies that values satisfies every constraint of the model.
// The first violated constraint is reported.
func (m *Model) Check(values []bool) error {
	if len(values) != m.NumVars() {
		return fmt.Errorf("assignment has %d values, model has %d variables", len(values), m.NumVars())
	}
	for i, c := range m.Linear {
		act := Activity(c.Terms, values)
		if act < c.Lower || act > c.Upper {
			return fmt.Errorf("linear constraint %d %q: activity %d outside [%d, %s]",
				i, c.Name, act, c.Lower, upperString(c.Upper))
		}
	}
	for i, me := range m.MaxEqualities {
		hit := false
		for _, v := range me.Vars {
			hit = hit || values[v]
		}
		if values[me.Target] != hit {
			return fmt.Errorf("max equality %d: %s is %t, max is %t",
				i, m.name(me.Target), values[me.Target], hit)
		}
	}
	for i, imp := range m.Implications {
		if values[imp.If] && !values[imp.Then] {
			return fmt.Errorf("implication %d: %s holds but %s does not",
				i, m.name(imp.If), m.name(imp.Then))
		}
	}
	return nil
}

// ObjectiveHasUnitWeights reports whether every objective coefficient is 1.
func (m *Model) ObjectiveHasUnitWeights() bool {
	for _, t := range m.Objective {
		if t.Coeff != 1 {
			return false
		}
	}
	return true
}

func (m *Model) name(v VarIndex) string {
	if n := m.Names[v]; n != "" {
		return n
	}
	return fmt.Sprintf("x%d", v)
}

func upperString(ub int64) string {
	if ub == Unbounded {
		return "inf"
	}
	return fmt.Sprint(ub)
}

// Unreachable returns the index of the first linear constraint whose bounds
// no assignment can meet, or -1. Such a model is infeasible before any search.
func (m *Model) Unreachable() int {
	for i, c := range m.Linear {
		var total int64
		for _, t := range c.Terms {
			total += t.Coeff
		}
		if c.Lower > total || c.Upper < 0 || c.Lower > c.Upper {
			return i
		}
	}
	return -1
}
