// Package classify splits extracted macros into casting macros, which take one
// argument, and constant macros, which take none.
package classify

import (
	"strings"
	"unicode"

	"github.com/mvp-joe/adapta-compat/internal/symbols"
)

// Evidence is the reason a macro was classified the way it was.
type Evidence int

const (
	// Unclassified matched no rule; the macro is a constant macro.
	Unclassified Evidence = iota
	// DeclarationDerived came from a G_DECLARE_*_TYPE invocation.
	DeclarationDerived
	// NamingTemplate matched a type-registration or type-check name template.
	NamingTemplate
	// DerivedCandidate equals the macro name derived from a known type.
	DerivedCandidate
)

func (e Evidence) String() string {
	switch e {
	case DeclarationDerived:
		return "declaration"
	case NamingTemplate:
		return "naming-template"
	case DerivedCandidate:
		return "derived-candidate"
	default:
		return "unclassified"
	}
}

// Casting reports whether the evidence makes the macro a casting macro.
func (e Evidence) Casting() bool {
	return e != Unclassified
}

type rule struct {
	evidence Evidence
	matches  func(macro string) bool
}

// Classifier decides the kind of each macro with an ordered list of rules; the
// first rule that matches wins.
type Classifier struct {
	rules []rule
}

// New builds a classifier over the given universe.
func New(naming symbols.Naming, u *symbols.Universe) *Classifier {
	typeTemplate := naming.NewMacroPrefix() + "_TYPE_"
	checkTemplate := naming.NewMacroPrefix() + "_IS_"

	candidates := symbols.NewSet()
	for typeName := range u.Types {
		candidates.Add(CandidateMacro(naming, typeName))
	}

	return &Classifier{
		rules: []rule{
			{DeclarationDerived, u.Declared.Has},
			{NamingTemplate, func(macro string) bool {
				return strings.HasPrefix(macro, typeTemplate) || strings.HasPrefix(macro, checkTemplate)
			}},
			{DerivedCandidate, candidates.Has},
		},
	}
}

// Explain returns the evidence for macro. It is total: a macro no rule matches is
// Unclassified.
func (c *Classifier) Explain(macro string) Evidence {
	for _, r := range c.rules {
		if r.matches(macro) {
			return r.evidence
		}
	}
	return Unclassified
}

// CandidateMacro derives the casting macro name a type would have under the
// G_DECLARE_*_TYPE convention: AdapToolbarView -> ADAP_TOOLBAR_VIEW.
func CandidateMacro(naming symbols.Naming, typeName string) string {
	short := strings.TrimPrefix(typeName, naming.NewTypePrefix())
	return naming.NewMacroPrefix() + "_" + strings.ToUpper(strings.Join(SplitWords(short), "_"))
}

// SplitWords splits an identifier at case boundaries. A new word starts at every
// upper-case letter that follows a non-empty word, so acronyms split per letter:
// "GLArea" -> ["G", "L", "Area"].
func SplitWords(name string) []string {
	var words []string
	var current []rune

	for _, r := range name {
		if unicode.IsUpper(r) && len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}

	return words
}
