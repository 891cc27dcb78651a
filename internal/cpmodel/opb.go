package cpmodel

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteOPB writes the model in the OPB pseudo-boolean format so it can be fed
// to external solvers. Variable i is written as x{i+1}; names are listed as
// comments. Max equalities and implications are rewritten as linear rows.
func (m *Model) WriteOPB(w io.Writer) error {
	var rows []string

	for _, c := range m.Linear {
		var total int64
		for _, t := range c.Terms {
			total += t.Coeff
		}
		switch {
		case c.Lower == c.Upper:
			rows = append(rows, opbRow(c.Terms, 1, "=", c.Lower))
			continue
		case c.Lower > 0:
			rows = append(rows, opbRow(c.Terms, 1, ">=", c.Lower))
		}
		if c.Upper < total {
			rows = append(rows, opbRow(c.Terms, -1, ">=", -c.Upper))
		}
	}

	for _, me := range m.MaxEqualities {
		// target >= v for every v
		for _, v := range me.Vars {
			rows = append(rows, opbRow([]Term{{Var: me.Target, Coeff: 1}, {Var: v, Coeff: -1}}, 1, ">=", 0))
		}
		// sum(vars) >= target
		ts := []Term{{Var: me.Target, Coeff: -1}}
		for _, v := range me.Vars {
			ts = append(ts, Term{Var: v, Coeff: 1})
		}
		rows = append(rows, opbRow(ts, 1, ">=", 0))
	}

	for _, imp := range m.Implications {
		rows = append(rows, opbRow([]Term{{Var: imp.Then, Coeff: 1}, {Var: imp.If, Coeff: -1}}, 1, ">=", 0))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "* #variable= %d #constraint= %d\n", m.NumVars(), len(rows))
	for i, n := range m.Names {
		if n != "" {
			fmt.Fprintf(bw, "* x%d %s\n", i+1, n)
		}
	}
	if len(m.Objective) > 0 {
		fmt.Fprintf(bw, "min: %s;\n", opbTerms(m.Objective, 1))
	}
	for _, r := range rows {
		fmt.Fprintln(bw, r)
	}
	return bw.Flush()
}

func opbRow(terms []Term, sign int64, op string, rhs int64) string {
	return fmt.Sprintf("%s %s %d ;", opbTerms(terms, sign), op, rhs)
}

func opbTerms(terms []Term, sign int64) string {
	var sb strings.Builder
	for _, t := range terms {
		fmt.Fprintf(&sb, "%+d x%d ", sign*t.Coeff, t.Var+1)
	}
	return strings.TrimSpace(sb.String())
}
