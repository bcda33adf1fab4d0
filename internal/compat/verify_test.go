package compat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvp-joe/adapta-compat/internal/classify"
	"github.com/mvp-joe/adapta-compat/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Verify and Diff:
// - a freshly rendered header verifies against its symbols
// - an empty symbol set renders a header that still verifies
// - a casting macro rendered without its parameter is rejected
// - a constant macro given a parameter is rejected
// - a missing mapping and an extra mapping are rejected
// - syntax errors are rejected
// - Diff is empty when the file matches and a unified diff otherwise
// - Diff treats a missing file as empty

func TestVerify_AcceptsRenderedHeader(t *testing.T) {
	t.Parallel()

	g := NewGenerator(symbols.DefaultNaming())
	syms := exampleSymbols()

	assert.NoError(t, g.Verify(g.Render(syms), syms))
}

func TestVerify_AcceptsEmptyHeader(t *testing.T) {
	t.Parallel()

	g := NewGenerator(symbols.DefaultNaming())
	syms := classify.Classify(symbols.DefaultNaming(), symbols.NewUniverse())

	assert.NoError(t, g.Verify(g.Render(syms), syms))
}

func TestVerify_RejectsWrongArgumentShape(t *testing.T) {
	t.Parallel()

	g := NewGenerator(symbols.DefaultNaming())
	syms := exampleSymbols()
	rendered := string(g.Render(syms))

	tests := []struct {
		name    string
		old     string
		new     string
		problem string
	}{
		{
			name:    "casting without parameter",
			old:     "#define ADW_WINDOW(obj) ADAP_WINDOW(obj)",
			new:     "#define ADW_WINDOW ADAP_WINDOW",
			problem: "ADW_WINDOW takes 0 parameter(s), want 1",
		},
		{
			name:    "constant with parameter",
			old:     "#define ADW_VERSION ADAP_VERSION",
			new:     "#define ADW_VERSION(obj) ADAP_VERSION(obj)",
			problem: "ADW_VERSION takes 1 parameter(s), want 0",
		},
		{
			name:    "wrong expansion",
			old:     "#define adw_window_new adap_window_new",
			new:     "#define adw_window_new adap_window_free",
			problem: `adw_window_new expands to "adap_window_free"`,
		},
		{
			name:    "missing mapping",
			old:     "#define AdwWindow AdapWindow\n",
			new:     "",
			problem: "AdwWindow is not defined",
		},
		{
			name:    "extra mapping",
			old:     "#define ADW_VERSION ADAP_VERSION\n",
			new:     "#define ADW_VERSION ADAP_VERSION\n#define ADW_STRAY ADAP_STRAY\n",
			problem: "header has 9 distinct defines, want 8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := strings.Replace(rendered, tt.old, tt.new, 1)
			require.NotEqual(t, rendered, tampered)

			err := g.Verify([]byte(tampered), syms)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedHeader)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestVerify_RejectsSyntaxErrors(t *testing.T) {
	t.Parallel()

	g := NewGenerator(symbols.DefaultNaming())
	syms := exampleSymbols()
	broken := strings.Replace(string(g.Render(syms)), "#endif /* _ADW_COMPAT_H */", "int x = ;", 1)

	err := g.Verify([]byte(broken), syms)
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	g := NewGenerator(symbols.DefaultNaming())
	rendered := g.Render(exampleSymbols())
	path := filepath.Join(t.TempDir(), "adw-compat.h")

	diff, err := Diff(path, rendered)
	require.NoError(t, err)
	assert.Contains(t, diff, "+#define AdwWindow AdapWindow")

	require.NoError(t, os.WriteFile(path, rendered, 0644))
	diff, err = Diff(path, rendered)
	require.NoError(t, err)
	assert.Empty(t, diff)

	stale := strings.Replace(string(rendered), "#define ADW_VERSION ADAP_VERSION\n", "", 1)
	require.NoError(t, os.WriteFile(path, []byte(stale), 0644))
	diff, err = Diff(path, rendered)
	require.NoError(t, err)
	assert.Contains(t, diff, "+#define ADW_VERSION ADAP_VERSION")
	assert.Contains(t, diff, "--- "+path)
}
