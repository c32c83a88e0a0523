package coreir

import (
	"strings"
)

// String renders e in the on-disk S-expression format a backend or a
// lowering pass would read back, with no further parsing of source syntax.
func (e *Quote) String() string { return "(quote " + e.Datum.String() + ")" }

func (e *Lambda) String() string {
	if !e.HasParam {
		return "(lambda " + e.Body.String() + ")"
	}
	return "(lambda " + e.Param.String() + " " + e.Body.String() + ")"
}

func (e *If) String() string {
	return "(if " + e.Cond.String() + " " + e.Then.String() + " " + e.Else.String() + ")"
}

func (e *Set) String() string {
	return "(set! " + e.Id.String() + " " + e.Rhs.String() + ")"
}

func (e *Begin) String() string {
	parts := make([]string, len(e.Exprs))
	for i, sub := range e.Exprs {
		parts[i] = sub.String()
	}
	return "(begin " + strings.Join(parts, " ") + ")"
}

func (e *LetValues) String() string    { return letString("let-values", e.Clauses, e.Body) }
func (e *LetRecValues) String() string { return letString("letrec-values", e.Clauses, e.Body) }

func letString(kw string, clauses []Clause, body Expr) string {
	parts := make([]string, len(clauses))
	for i, c := range clauses {
		ids := make([]string, len(c.Ids))
		for j, id := range c.Ids {
			ids[j] = id.String()
		}
		parts[i] = "((" + strings.Join(ids, " ") + ") " + c.Rhs.String() + ")"
	}
	return "(" + kw + " (" + strings.Join(parts, " ") + ") " + body.String() + ")"
}

func (e *App) String() string {
	parts := make([]string, len(e.Rands))
	for i, r := range e.Rands {
		parts[i] = r.String()
	}
	if len(parts) == 0 {
		return "(" + e.Rator.String() + ")"
	}
	return "(" + e.Rator.String() + " " + strings.Join(parts, " ") + ")"
}

func (e *Ref) String() string {
	if e.Local {
		return e.Sym.String()
	}
	return e.Name
}

func (e *Link) String() string {
	parts := make([]string, 0, len(e.Srcs)+2)
	parts = append(parts, "link", string(e.Dest))
	for _, s := range e.Srcs {
		parts = append(parts, string(s))
	}
	return "(" + strings.Join(parts, " ") + ")"
}
