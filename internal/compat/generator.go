// Package compat renders classified symbols into a compatibility header that maps
// every old symbol name to its renamed counterpart.
package compat

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/adapta-compat/internal/classify"
	"github.com/mvp-joe/adapta-compat/internal/symbols"
)

// ErrWriteOutput indicates the compat header could not be written.
var ErrWriteOutput = errors.New("failed to write compat header")

// Summary counts the mapped symbols per category.
type Summary struct {
	Types          int
	CastingMacros  int
	ConstantMacros int
	Functions      int
}

// SummaryOf counts the symbols of c.
func SummaryOf(c *classify.Classified) Summary {
	return Summary{
		Types:          len(c.Types),
		CastingMacros:  len(c.CastingMacros),
		ConstantMacros: len(c.ConstantMacros),
		Functions:      len(c.Functions),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("Mapped %d types, %d casting macros, %d constant macros, %d functions.",
		s.Types, s.CastingMacros, s.ConstantMacros, s.Functions)
}

// Generator renders compat headers for one naming.
type Generator struct {
	naming symbols.Naming
}

// NewGenerator creates a generator.
func NewGenerator(naming symbols.Naming) *Generator {
	return &Generator{naming: naming}
}

// Guard returns the include guard macro (_ADW_COMPAT_H).
func (g *Generator) Guard() string {
	return "_" + g.naming.OldMacroPrefix() + "_COMPAT_H"
}

// FileName returns the conventional base name of the header (adw-compat.h).
func (g *Generator) FileName() string {
	return g.naming.OldFunctionPrefix() + "-compat.h"
}

// Render produces the header. The output depends only on c, so rendering the same
// symbols twice yields identical bytes.
func (g *Generator) Render(c *classify.Classified) []byte {
	n := g.naming
	oldLib, newLib := n.OldLibrary, n.NewLibrary
	oldPrefix, newPrefix := n.OldPrefix, n.NewPrefix

	var buf bytes.Buffer

	g.writePreamble(&buf)

	fmt.Fprintf(&buf, "/* Map lib%s (%s) types to lib%s (%s) types */\n", oldLib, oldPrefix, newLib, newPrefix)
	for _, name := range c.Types {
		fmt.Fprintf(&buf, "#define %s %s\n", n.OldTypeName(name), name)
	}

	fmt.Fprintf(&buf, "\n/* Map lib%s (%s) type casting macros to lib%s (%s) type casting macros */\n", oldLib, oldPrefix, newLib, newPrefix)
	for _, macro := range c.CastingMacros {
		fmt.Fprintf(&buf, "#define %s(obj) %s(obj)\n", n.OldMacroName(macro), macro)
	}

	fmt.Fprintf(&buf, "\n/* Map lib%s (%s) constant macros to lib%s (%s) constant macros */\n", oldLib, oldPrefix, newLib, newPrefix)
	for _, macro := range c.ConstantMacros {
		fmt.Fprintf(&buf, "#define %s %s\n", n.OldMacroName(macro), macro)
	}

	fmt.Fprintf(&buf, "\n/* Map lib%s (%s) functions to lib%s (%s) functions */\n", oldLib, oldPrefix, newLib, newPrefix)
	for _, fn := range c.Functions {
		fmt.Fprintf(&buf, "#define %s %s\n", n.OldFunctionName(fn), fn)
	}

	fmt.Fprintf(&buf, "\n#endif /* %s */\n", g.Guard())

	return buf.Bytes()
}

func (g *Generator) writePreamble(buf *bytes.Buffer) {
	n := g.naming
	guard := g.Guard()
	section := strings.TrimSuffix(g.FileName(), ".h")
	oldLower := strings.ToLower(n.OldLibrary)
	newLower := strings.ToLower(n.NewLibrary)
	fence := "```"

	lines := []string{
		"",
		"#ifndef " + guard,
		"#define " + guard,
		"",
		"/**",
		" * SECTION:" + section,
		" * @title: " + n.OldLibrary + " Compatibility",
		" * @short_description: Compatibility layer for lib" + oldLower + " code",
		" *",
		" * This header provides compatibility definitions to allow code written for",
		" * lib" + oldLower + " to work with lib" + newLower + " with minimal changes. Simply include",
		" * this header before including " + newLower + ".h in your code.",
		" *",
		" * Example:",
		" * " + fence + "c",
		" * #include <lib" + newLower + "-1/" + g.FileName() + ">",
		" * #include <lib" + newLower + "-1/" + newLower + ".h>",
		" *",
		" * // Now use " + n.OldLibrary + " class names and function names",
		fmt.Sprintf(" * %sApplicationWindow *window = %s_APPLICATION_WINDOW(%s_application_window_new(app));",
			n.OldPrefix, n.OldMacroPrefix(), n.OldFunctionPrefix()),
		" * " + fence,
		" */",
		"",
		"/* General namespace mapping */",
		"#define " + n.OldPrefix + " " + n.NewPrefix,
		"",
	}

	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

// Write renders c and overwrites path, creating its directory if needed.
func (g *Generator) Write(path string, c *classify.Classified) (Summary, error) {
	content := g.Render(c)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Summary{}, fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return Summary{}, fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}

	return SummaryOf(c), nil
}
