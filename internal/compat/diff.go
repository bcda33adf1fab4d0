package compat

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// ErrStale indicates the compat header on disk differs from a fresh render.
var ErrStale = errors.New("compat header is out of date")

// Diff returns a unified diff from the header at path to rendered. It returns an
// empty string when they are identical. A missing file diffs as empty.
func Diff(path string, rendered []byte) (string, error) {
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	if bytes.Equal(current, rendered) {
		return "", nil
	}

	before, after := string(current), string(rendered)
	edits := myers.ComputeEdits(span.URIFromPath(path), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(path, path+" (regenerated)", before, edits)), nil
}
