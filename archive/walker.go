// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// ErrUnsafePath is returned for archive entries which could escape the
// extraction directory.
var ErrUnsafePath = errors.New("unsafe path (absolute or contains path traversal)")

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk, file is the entry which satisfies prefix condition. If an error is
// returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk calls walkFn for every file in the archive whose name starts with
// prefix. Files are visited in natural order of their names ("img2" before
// "img10"). Archive with unsafe entry names is rejected before any file is
// visited.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: %w", name, ErrUnsafePath)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			files = append(files, f)
		}
	}

	slices.SortStableFunc(files, func(a, b *zip.File) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		default:
			return 0
		}
	})

	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	return !slices.Contains(strings.Split(name, "/"), "..")
}
