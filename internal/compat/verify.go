package compat

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/mvp-joe/adapta-compat/internal/classify"
)

// ErrMalformedHeader indicates a compat header that does not match its symbols or
// does not parse as C.
var ErrMalformedHeader = errors.New("malformed compat header")

// maxReportedProblems caps how many problems a verification error lists.
const maxReportedProblems = 10

// define is one #define directive as seen by the C grammar.
type define struct {
	params int // -1 for object-like macros
	value  string
	line   int
}

// Verify parses content with the C grammar and checks it maps exactly the symbols
// of syms: every casting macro takes one parameter, every other mapping takes none,
// and every right-hand side is the renamed symbol.
func (g *Generator) Verify(content []byte, syms *classify.Classified) error {
	defines, err := parseDefines(content)
	if err != nil {
		return err
	}

	var problems []string
	expect := func(old string, params int, value string) {
		d, ok := defines[old]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s is not defined", old))
		case d.params != params:
			problems = append(problems, fmt.Sprintf("line %d: %s takes %d parameter(s), want %d", d.line, old, max(d.params, 0), max(params, 0)))
		case d.value != value:
			problems = append(problems, fmt.Sprintf("line %d: %s expands to %q, want %q", d.line, old, d.value, value))
		}
	}

	n := g.naming
	expect(g.Guard(), -1, "")
	expect(n.OldPrefix, -1, n.NewPrefix)
	for _, name := range syms.Types {
		expect(n.OldTypeName(name), -1, name)
	}
	for _, macro := range syms.CastingMacros {
		expect(n.OldMacroName(macro), 1, macro+"(obj)")
	}
	for _, macro := range syms.ConstantMacros {
		expect(n.OldMacroName(macro), -1, macro)
	}
	for _, fn := range syms.Functions {
		expect(n.OldFunctionName(fn), -1, fn)
	}

	if want := syms.Total() + 2; len(defines) != want {
		problems = append(problems, fmt.Sprintf("header has %d distinct defines, want %d", len(defines), want))
	}

	if len(problems) == 0 {
		return nil
	}
	if len(problems) > maxReportedProblems {
		problems = append(problems[:maxReportedProblems], fmt.Sprintf("and %d more", len(problems)-maxReportedProblems))
	}
	return fmt.Errorf("%w: %s", ErrMalformedHeader, strings.Join(problems, "; "))
}

// parseDefines collects every #define of a header keyed by macro name.
func parseDefines(content []byte) (map[string]define, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(sitter.NewLanguage(c.Language())); err != nil {
		return nil, fmt.Errorf("failed to load C grammar: %w", err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: header could not be parsed", ErrMalformedHeader)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: header contains syntax errors", ErrMalformedHeader)
	}

	defines := make(map[string]define)
	var duplicates []string

	walkTree(root, func(node *sitter.Node) bool {
		var d define
		switch node.Kind() {
		case "preproc_def":
			d.params = -1
		case "preproc_function_def":
			if params := node.ChildByFieldName("parameters"); params != nil {
				d.params = int(params.NamedChildCount())
			}
		default:
			return true
		}

		name := nodeText(node.ChildByFieldName("name"), content)
		d.value = strings.TrimSpace(nodeText(node.ChildByFieldName("value"), content))
		d.line = int(node.StartPosition().Row) + 1

		if _, seen := defines[name]; seen {
			duplicates = append(duplicates, name)
		}
		defines[name] = d
		return false
	})

	if len(duplicates) > 0 {
		return nil, fmt.Errorf("%w: duplicate defines: %s", ErrMalformedHeader, strings.Join(duplicates, ", "))
	}

	return defines, nil
}

// walkTree visits node and its descendants depth-first until visitor returns false
// for a subtree.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}
