package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/philipnye/ds-utils/internal/table"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// ExtractFilename returns the last path segment of a URL or path, without
// everything from the first dot when withExtension is false.
func ExtractFilename(url string, withExtension bool) string {
	name := url[strings.LastIndex(url, "/")+1:]
	if !withExtension {
		name, _, _ = strings.Cut(name, ".")
	}
	return name
}

// ExtractFiletype returns what follows the last dot of filename.
func ExtractFiletype(filename string, withDot, lowercase bool) string {
	ext := filename[strings.LastIndex(filename, ".")+1:]
	if withDot {
		ext = "." + ext
	}
	if lowercase {
		ext = strings.ToLower(ext)
	}
	return ext
}

var datestamp = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Choice selects which datestamped files to return.
type Choice int

const (
	Latest Choice = iota
	All
)

// ParseChoice accepts "latest" or "all".
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "latest", "":
		return Latest, nil
	case "all":
		return All, nil
	}
	return 0, table.Errorf("datestamped", "file choice %q not recognised (use latest or all)", s)
}

// FindDatestamped lists files in dir whose names contain the stem of
// filename and a YYYY-MM-DD datestamp. Latest returns only the greatest
// name; All returns every match in name order.
func FindDatestamped(dir, filename string, choice Choice) ([]string, error) {
	stem, _, _ := strings.Cut(filename, ".")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var named []string
	for _, e := range entries {
		if !e.IsDir() && strings.Contains(e.Name(), stem) {
			named = append(named, e.Name())
		}
	}
	if len(named) == 0 {
		return nil, &table.NotFoundError{Op: "datestamped", What: "files with filename " + stem}
	}
	var stamped []string
	for _, n := range named {
		if datestamp.MatchString(n) {
			stamped = append(stamped, n)
		}
	}
	if len(stamped) == 0 {
		return nil, &table.NotFoundError{Op: "datestamped", What: "files with a YYYY-MM-DD datestamp"}
	}
	sort.Strings(stamped)
	if choice == Latest {
		stamped = stamped[len(stamped)-1:]
	}
	out := make([]string, len(stamped))
	for i, n := range stamped {
		out[i] = filepath.Join(dir, n)
	}
	return out, nil
}
