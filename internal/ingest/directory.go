// Package ingest locates payslip text dumps for batch runs. A run may point
// at a single dump or at a directory holding one dump per competence month;
// every dump in a batch is reconciled against the same reference roster.
package ingest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Dump is one payslip text file discovered under the input root.
type Dump struct {
	Path string
	// Name is the dump filename without extension, used to key per-dump
	// output directories in batch mode.
	Name string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
}

// ScanDirectory walks root non-recursively collecting text dumps. Hidden
// files and anything without a .txt extension are skipped.
func ScanDirectory(root string) ([]Dump, DirStats, error) {
	var (
		dumps []Dump
		stats DirStats
	)
	entries, err := filepath.Glob(filepath.Join(root, "*"))
	if err != nil {
		return nil, stats, fmt.Errorf("scan %s: %w", root, err)
	}
	for _, path := range entries {
		stats.Scanned++
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") || !strings.EqualFold(filepath.Ext(base), ".txt") {
			stats.Skipped++
			continue
		}
		stats.Matched++
		dumps = append(dumps, Dump{
			Path: path,
			Name: strings.TrimSuffix(base, filepath.Ext(base)),
		})
	}
	if len(dumps) == 0 {
		return nil, stats, fmt.Errorf("scan %s: %w", root, fs.ErrNotExist)
	}
	return dumps, stats, nil
}
