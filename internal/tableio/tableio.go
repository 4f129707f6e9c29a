// Package tableio reads spreadsheets and flat files into raw tables and
// writes tables back out. Readers return positional indexes on both axes;
// header rows stay in the grid for reshape.BuildIndex to consume.
package tableio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipnye/ds-utils/internal/table"
)

// Reader defines a file format implementation.
type Reader interface {
	CanRead(path string) bool
	Read(path string, opt ReadOptions) (*table.Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(delimitedReader{})
	Register(xlsxReader{})
}

// ErrUnsupported indicates no registered reader handles the file.
var ErrUnsupported = errors.New("unsupported file format")

// ReadOptions controls how a file becomes a table.
type ReadOptions struct {
	// Delimiter overrides sniffing for flat files.
	Delimiter rune
	// Encodings are tried in order for flat files until one decodes.
	Encodings []string

	// Sheet selects a worksheet by name. SheetRegex selects by pattern
	// anchored at the start of the name; with LooseSheet a workbook holding
	// a single sheet is read even when the pattern misses. SheetIndex is
	// 1-based and used when neither is set.
	Sheet      string
	SheetRegex string
	LooseSheet bool
	SheetIndex int

	// DropEmpty removes rows whose cells are all missing.
	DropEmpty bool
	// MaxRows caps the rows read; 0 reads everything.
	MaxRows int
}

// DefaultReadOptions returns sensible defaults.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Encodings:  []string{"utf-8", "windows-1252"},
		SheetIndex: 1,
	}
}

// ReadFile picks a reader by filename and returns the raw table.
func ReadFile(path string, opt ReadOptions) (*table.Table, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			t, err := r.Read(path, opt)
			if err != nil {
				return nil, err
			}
			return finish(t, opt), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func finish(t *table.Table, opt ReadOptions) *table.Table {
	grid := t.Grid()
	if opt.DropEmpty {
		kept := grid[:0]
		for _, row := range grid {
			if !allMissing(row) {
				kept = append(kept, row)
			}
		}
		grid = kept
	}
	if opt.MaxRows > 0 && len(grid) > opt.MaxRows {
		grid = grid[:opt.MaxRows]
	}
	return table.New(grid)
}

func allMissing(row []table.Value) bool {
	for _, v := range row {
		if !v.IsMissing() {
			return false
		}
	}
	return true
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func parseRow(fields []string) []table.Value {
	row := make([]table.Value, len(fields))
	for i, f := range fields {
		row[i] = table.Parse(f)
	}
	return row
}
