package rebrand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/adapta-compat/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Rebrand:
// - MatchCase follows the case of the match
// - Replace handles the library name before the prefix
// - ContentPairs restores READWRITE, NamePairs does not touch it
// - RenameTree renames files and directories bottom-up and skips .git
// - RenameTree in dry-run mode reports without renaming
// - ReplaceTree rewrites text files and leaves binary, non-UTF-8, .git and excluded files
// - ReplaceTree keeps file permissions

func TestMatchCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		match string
		want  string
	}{
		{"ADW", "ADAP"},
		{"adw", "adap"},
		{"Adw", "Adap"},
		{"AdW", "Adap"},
		{"aDw", "Adap"},
		{"ADW_1", "ADAP"},
		{"123", "Adap"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchCase(tt.match, "Adap"), tt.match)
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	r := NewReplacer(NamePairs(symbols.DefaultNaming()))

	tests := []struct {
		in   string
		want string
	}{
		{"AdwWindow", "AdapWindow"},
		{"ADW_TYPE_WINDOW", "ADAP_TYPE_WINDOW"},
		{"adw_window_new", "adap_window_new"},
		{"libadwaita-1", "libadapta-1"},
		{"Adwaita", "Adapta"},
		{"ADWAITA_VERSION", "ADAPTA_VERSION"},
		{"gtk_widget_show", "gtk_widget_show"},
		{"READWRITE", "READAPRITE"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Replace(tt.in), tt.in)
	}
}

func TestContentPairs_RestoresCollateralDamage(t *testing.T) {
	t.Parallel()

	pairs := ContentPairs(symbols.DefaultNaming())
	require.Len(t, pairs, 3)
	assert.Equal(t, Pair{Old: "READAPRITE", New: "READWRITE"}, pairs[2])

	r := NewReplacer(pairs)
	assert.Equal(t, "G_PARAM_READWRITE | ADAP_PARAM", r.Replace("G_PARAM_READWRITE | ADW_PARAM"))
	assert.Equal(t, "readwrite", r.Replace("readwrite"))

	// A prefix that cannot occur inside READWRITE needs no fixup.
	assert.Len(t, ContentPairs(symbols.Naming{OldPrefix: "Hdy", NewPrefix: "Hap", OldLibrary: "Handy", NewLibrary: "Happy"}), 2)
}

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRenameTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "src/adw-window.h", "")
	write(t, root, "src/stylesheet/adwaita/_colors.scss", "")
	write(t, root, "ADW_NOTES.md", "")
	write(t, root, ".git/adw-ref", "")
	write(t, root, "README.md", "")

	var renamed [][2]string
	n, err := RenameTree(root, NewReplacer(NamePairs(symbols.DefaultNaming())), Options{}, func(oldPath, newPath string) {
		renamed = append(renamed, [2]string{oldPath, newPath})
	})
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Len(t, renamed, 3)
	assert.FileExists(t, filepath.Join(root, "src", "adap-window.h"))
	assert.FileExists(t, filepath.Join(root, "src", "stylesheet", "adapta", "_colors.scss"))
	assert.FileExists(t, filepath.Join(root, "ADAP_NOTES.md"))
	assert.FileExists(t, filepath.Join(root, ".git", "adw-ref"))
	assert.FileExists(t, filepath.Join(root, "README.md"))
	assert.NoDirExists(t, filepath.Join(root, "src", "stylesheet", "adwaita"))
}

func TestRenameTree_DryRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := write(t, root, "adw-bin.h", "")

	n, err := RenameTree(root, NewReplacer(NamePairs(symbols.DefaultNaming())), Options{DryRun: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.FileExists(t, path)
	assert.NoFileExists(t, filepath.Join(root, "adap-bin.h"))
}

func TestReplaceTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	header := write(t, root, "src/adap-window.h",
		"#include <adwaita.h>\nAdwWindow *adw_window_new (void);\n#define G_PARAM_RW G_PARAM_READWRITE\n")
	untouched := write(t, root, "src/gtk.h", "GtkWidget *gtk_label_new (void);\n")
	binary := write(t, root, "data/icon.bin", "Adw\x00Adw")
	latin1 := write(t, root, "doc/latin1.txt", "Adw \xe9t\xe9\n")
	gitFile := write(t, root, ".git/config", "adw\n")
	excluded := write(t, root, "rebrand.sh", "adw\n")
	nestedExcluded := write(t, root, "tools/rebrand.sh", "adw\n")
	require.NoError(t, os.Chmod(excluded, 0755))

	var modified []string
	n, err := ReplaceTree(root, NewReplacer(ContentPairs(symbols.DefaultNaming())),
		Options{Exclude: []string{"rebrand.sh"}}, func(path string) {
			modified = append(modified, path)
		})
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{header, nestedExcluded}, modified)

	content, err := os.ReadFile(header)
	require.NoError(t, err)
	assert.Equal(t,
		"#include <adapta.h>\nAdapWindow *adap_window_new (void);\n#define G_PARAM_RW G_PARAM_READWRITE\n",
		string(content))

	assertContent(t, untouched, "GtkWidget *gtk_label_new (void);\n")
	assertContent(t, binary, "Adw\x00Adw")
	assertContent(t, latin1, "Adw \xe9t\xe9\n")
	assertContent(t, gitFile, "adw\n")
	assertContent(t, excluded, "adw\n")
	assertContent(t, nestedExcluded, "adap\n")
}

func TestReplaceTree_KeepsPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	script := write(t, root, "scripts/adw-build.sh", "echo adw\n")
	require.NoError(t, os.Chmod(script, 0755))

	_, err := ReplaceTree(root, NewReplacer(ContentPairs(symbols.DefaultNaming())), Options{}, nil)
	require.NoError(t, err)

	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assertContent(t, script, "echo adap\n")
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(content))
}
