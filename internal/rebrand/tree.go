package rebrand

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// binarySniffLen is how much of a file is inspected for NUL bytes.
const binarySniffLen = 1024

// Options configures a tree pass.
type Options struct {
	// Exclude lists base names skipped when they sit directly in the root.
	Exclude []string
	// DryRun reports changes without touching the tree.
	DryRun bool
}

// Renamed is called for every renamed file or directory.
type Renamed func(oldPath, newPath string)

// Modified is called for every file whose content changed.
type Modified func(path string)

// RenameTree renames every file and directory under root whose name contains an old
// token. Children are renamed before their parents so collected paths stay valid.
// The root itself and .git are never renamed.
func RenameTree(root string, r *Replacer, opts Options, onRename Renamed) (int, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	renamed := 0
	for i := len(paths) - 1; i >= 0; i-- {
		oldPath := paths[i]
		name := filepath.Base(oldPath)
		newName := r.Replace(name)
		if newName == name {
			continue
		}

		newPath := filepath.Join(filepath.Dir(oldPath), newName)
		if !opts.DryRun {
			if _, err := os.Lstat(newPath); err == nil {
				return renamed, fmt.Errorf("cannot rename %s: %s already exists", oldPath, newPath)
			}
			if err := os.Rename(oldPath, newPath); err != nil {
				return renamed, fmt.Errorf("failed to rename %s: %w", oldPath, err)
			}
		}

		renamed++
		log.Debug().Str("from", oldPath).Str("to", newPath).Msg("Renamed")
		if onRename != nil {
			onRename(oldPath, newPath)
		}
	}

	return renamed, nil
}

// ReplaceTree rewrites the content of every text file under root. Binary files,
// files that are not valid UTF-8, .git and excluded root entries are left alone.
func ReplaceTree(root string, r *Replacer, opts Options, onModify Modified) (int, error) {
	excluded := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[name] = true
	}

	modified := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if filepath.Dir(path) == filepath.Clean(root) && excluded[d.Name()] {
			return nil
		}

		changed, err := replaceFile(path, r, opts.DryRun)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Could not rewrite file, skipping")
			return nil
		}
		if changed {
			modified++
			log.Debug().Str("file", path).Msg("Modified")
			if onModify != nil {
				onModify(path)
			}
		}
		return nil
	})
	if err != nil {
		return modified, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return modified, nil
}

func replaceFile(path string, r *Replacer, dryRun bool) (bool, error) {
	binary, err := isBinary(path)
	if err != nil {
		return false, err
	}
	if binary {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if !utf8.Valid(data) {
		return false, nil
	}

	content := r.Replace(string(data))
	if content == string(data) {
		return false, nil
	}
	if dryRun {
		return true, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// isBinary reports whether the first bytes of the file contain a NUL.
func isBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, binarySniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
