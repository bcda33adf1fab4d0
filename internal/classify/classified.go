package classify

import (
	"github.com/mvp-joe/adapta-compat/internal/symbols"
)

// Classified is the input of the compat header generator. Every slice is sorted.
type Classified struct {
	Types          []string
	CastingMacros  []string
	ConstantMacros []string
	Functions      []string

	// Evidence records why each macro landed in its category.
	Evidence map[string]Evidence
}

// Classify partitions the macros of u. Every macro lands in exactly one of
// CastingMacros and ConstantMacros.
func Classify(naming symbols.Naming, u *symbols.Universe) *Classified {
	c := New(naming, u)

	casting := symbols.NewSet()
	constant := symbols.NewSet()
	evidence := make(map[string]Evidence, len(u.Macros))

	for macro := range u.Macros {
		e := c.Explain(macro)
		evidence[macro] = e
		if e.Casting() {
			casting.Add(macro)
		} else {
			constant.Add(macro)
		}
	}

	return &Classified{
		Types:          u.Types.Sorted(),
		CastingMacros:  casting.Sorted(),
		ConstantMacros: constant.Sorted(),
		Functions:      u.Functions.Sorted(),
		Evidence:       evidence,
	}
}

// Total returns the number of mapped symbols.
func (c *Classified) Total() int {
	return len(c.Types) + len(c.CastingMacros) + len(c.ConstantMacros) + len(c.Functions)
}
