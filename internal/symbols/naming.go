package symbols

import "strings"

// Naming describes the prefix pair of a rebrand. Every extraction pattern and every
// old-name derivation is computed from it.
type Naming struct {
	OldPrefix  string // e.g. "Adw"
	NewPrefix  string // e.g. "Adap"
	OldLibrary string // e.g. "Adwaita"
	NewLibrary string // e.g. "Adapta"
}

// DefaultNaming returns the Adw → Adap rebrand.
func DefaultNaming() Naming {
	return Naming{
		OldPrefix:  "Adw",
		NewPrefix:  "Adap",
		OldLibrary: "Adwaita",
		NewLibrary: "Adapta",
	}
}

// NewTypePrefix is the capitalized prefix of renamed type names ("Adap").
func (n Naming) NewTypePrefix() string { return n.NewPrefix }

// NewMacroPrefix is the upper-case short prefix of renamed macros ("ADAP").
func (n Naming) NewMacroPrefix() string { return strings.ToUpper(n.NewPrefix) }

// NewFunctionPrefix is the lower-case prefix of renamed functions ("adap").
func (n Naming) NewFunctionPrefix() string { return strings.ToLower(n.NewPrefix) }

// OldMacroPrefix is the upper-case short prefix of the old macros ("ADW").
func (n Naming) OldMacroPrefix() string { return strings.ToUpper(n.OldPrefix) }

// OldFunctionPrefix is the lower-case prefix of the old functions ("adw").
func (n Naming) OldFunctionPrefix() string { return strings.ToLower(n.OldPrefix) }

// OldTypeName maps a renamed type name back to its old spelling.
func (n Naming) OldTypeName(name string) string {
	return strings.ReplaceAll(name, n.NewPrefix, n.OldPrefix)
}

// OldMacroName maps a renamed macro name back to its old spelling.
func (n Naming) OldMacroName(name string) string {
	return strings.ReplaceAll(name, n.NewMacroPrefix()+"_", n.OldMacroPrefix()+"_")
}

// OldFunctionName maps a renamed function name back to its old spelling.
func (n Naming) OldFunctionName(name string) string {
	return strings.ReplaceAll(name, n.NewFunctionPrefix()+"_", n.OldFunctionPrefix()+"_")
}
