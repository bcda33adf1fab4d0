package symbols

import "sort"

// Set is a deduplicated collection of identifiers. Identity is the exact string.
type Set map[string]struct{}

// NewSet creates a set holding the given names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inserts name into the set.
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union adds every member of other to s.
func (s Set) Union(other Set) {
	for name := range other {
		s[name] = struct{}{}
	}
}

// Sorted returns the members in byte-wise alphabetical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// TypeDeclaration is one G_DECLARE_*_TYPE invocation.
type TypeDeclaration struct {
	TypeName       string // AdapWindow
	FunctionPrefix string // adap_window
	ShortPrefix    string // ADAP
	TypeSuffix     string // WINDOW
}

// CastingMacro is the macro the declaration defines implicitly (ADAP_WINDOW).
func (d TypeDeclaration) CastingMacro() string {
	return d.ShortPrefix + "_" + d.TypeSuffix
}

// Universe is everything extracted from one or more headers.
//
// Macros holds every macro name, including the ones only implied by a type
// declaration; Declared is the subset that came from a declaration and is used by
// the classifier as provenance.
type Universe struct {
	Types     Set
	Macros    Set
	Functions Set
	Declared  Set
}

// NewUniverse creates an empty universe.
func NewUniverse() *Universe {
	return &Universe{
		Types:     NewSet(),
		Macros:    NewSet(),
		Functions: NewSet(),
		Declared:  NewSet(),
	}
}

// AddDeclaration records a type declaration: its type and its implied casting macro.
func (u *Universe) AddDeclaration(d TypeDeclaration) {
	u.Types.Add(d.TypeName)
	macro := d.CastingMacro()
	u.Macros.Add(macro)
	u.Declared.Add(macro)
}

// Merge unions other into u. Merging is order independent and idempotent.
func (u *Universe) Merge(other *Universe) {
	if other == nil {
		return
	}
	u.Types.Union(other.Types)
	u.Macros.Union(other.Macros)
	u.Functions.Union(other.Functions)
	u.Declared.Union(other.Declared)
}

// Empty reports whether nothing was extracted.
func (u *Universe) Empty() bool {
	return len(u.Types) == 0 && len(u.Macros) == 0 && len(u.Functions) == 0
}
