// Package rebrand renames a library source tree: file and directory names first,
// then file contents, preserving the case of every replaced token.
package rebrand

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mvp-joe/adapta-compat/internal/symbols"
)

// Pair is one token substitution.
type Pair struct {
	Old string
	New string
}

// NamePairs returns the substitutions applied to file and directory names.
// The library name goes first so "Adwaita" is not split into "Adap" + "aita".
func NamePairs(n symbols.Naming) []Pair {
	return []Pair{
		{Old: n.OldLibrary, New: n.NewLibrary},
		{Old: n.OldPrefix, New: n.NewPrefix},
	}
}

// ContentPairs returns the substitutions applied to file contents. Replacing the
// old prefix inside unrelated words can corrupt them (READWRITE becomes
// READAPRITE for Adw → Adap); a fixup pair restores such a word when it exists.
func ContentPairs(n symbols.Naming) []Pair {
	pairs := NamePairs(n)
	if fixup, ok := collateralFixup(n); ok {
		pairs = append(pairs, fixup)
	}
	return pairs
}

func collateralFixup(n symbols.Naming) (Pair, bool) {
	const word = "READWRITE"
	old := strings.ToUpper(n.OldPrefix)
	if old == "" || !strings.Contains(word, old) {
		return Pair{}, false
	}
	damaged := strings.ReplaceAll(word, old, strings.ToUpper(n.NewPrefix))
	if damaged == word {
		return Pair{}, false
	}
	return Pair{Old: damaged, New: word}, true
}

type compiledPair struct {
	pattern *regexp.Regexp
	new     string
}

// Replacer applies an ordered list of case-insensitive, case-preserving
// substitutions.
type Replacer struct {
	pairs []compiledPair
}

// NewReplacer compiles the pairs. Pairs apply in order, each to the output of the
// previous one.
func NewReplacer(pairs []Pair) *Replacer {
	r := &Replacer{}
	for _, p := range pairs {
		if p.Old == "" {
			continue
		}
		r.pairs = append(r.pairs, compiledPair{
			pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(p.Old)),
			new:     p.New,
		})
	}
	return r
}

// Replace returns text with every pair applied.
func (r *Replacer) Replace(text string) string {
	for _, p := range r.pairs {
		text = p.pattern.ReplaceAllStringFunc(text, func(match string) string {
			return MatchCase(match, p.new)
		})
	}
	return text
}

// MatchCase returns replacement cased like match: all upper, all lower, or
// capitalized when match starts with an upper case letter. Anything else gets
// replacement unchanged.
func MatchCase(match, replacement string) string {
	switch {
	case isUpper(match):
		return strings.ToUpper(replacement)
	case isLower(match):
		return strings.ToLower(replacement)
	case startsUpper(match):
		return capitalize(replacement)
	default:
		return replacement
	}
}

// isUpper reports whether s has at least one cased letter and no lower case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func isLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := []rune(strings.ToLower(s))
	lower[0] = unicode.ToUpper(lower[0])
	return string(lower)
}
