package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"svgcss/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates initialized empty reporter.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	r := &Report{entries: make(map[string]entry)}

	if f, err := os.Create(conf.Destination); err == nil {
		r.file = f
	} else if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err == nil {
		r.file = f
	} else {
		return nil, fmt.Errorf("unable to create report: %w", err)
	}
	return r, nil
}

type entry struct {
	original string
	actual   string
	stamp    time.Time
	data     []byte
}

// Report accumulates information necessary to prepare full debug report.
// Files are stored concurrently when several documents are processed.
type Report struct {
	mu      sync.Mutex
	entries map[string]entry
	file    *os.File
}

// Close finalizes debug report.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		// no report has been requested
		return nil
	}
	defer r.file.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finalize()
}

// Name returns name of underlying file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// uniqueName returns name not used by any entry yet. Must be called with lock held.
func (r *Report) uniqueName(name string) string {
	if _, exists := r.entries[name]; !exists {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", name, i)
		if _, exists := r.entries[candidate]; !exists {
			return candidate
		}
	}
}

// Store saves path to file to be put in the final archive later. Storing
// the same path under the same name again is a no-op.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, exists := r.entries[name]; exists && old.original == path {
		return
	}

	e := entry{original: path, actual: path}
	if p, err := filepath.Abs(path); err == nil {
		e.actual = p
	}
	r.entries[r.uniqueName(name)] = e
}

// StoreData saves binary data to be put in the final archive later as a file under requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.uniqueName(name)] = entry{data: data, stamp: time.Now()}
}

// finalize creates the final archive (report) with all previously stored items.
func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)
	defer arc.Close()

	names, manifest := prepareManifest(r.entries)
	if err := saveFile(arc, "MANIFEST", time.Now(), manifest); err != nil {
		return err
	}

	// in the same order as in manifest
	for _, name := range names {
		e := r.entries[name]
		if len(e.data) > 0 {
			if err := saveFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}

		// ignoring absent files
		info, err := os.Stat(e.actual)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		f, err := os.Open(e.actual)
		if err != nil {
			return err
		}
		err = saveFile(arc, name, info.ModTime(), f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func prepareManifest(entries map[string]entry) ([]string, *bytes.Buffer) {
	now := time.Now()

	buf := new(bytes.Buffer)
	if len(entries) == 0 {
		return nil, buf
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		e := entries[k]
		if e.stamp.IsZero() {
			e.stamp = now
		}
		fmt.Fprintf(buf, "%s\t%s\t%s : %s\n", e.stamp.UTC().Format(time.UnixDate), k, e.original, e.actual)
	}
	return keys, buf
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return nil
}
