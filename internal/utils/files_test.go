package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipnye/ds-utils/internal/table"
	"github.com/philipnye/ds-utils/internal/utils"
)

func TestExtractFilename(t *testing.T) {
	cases := []struct {
		in      string
		withExt bool
		want    string
	}{
		{"https://example.org/files/data.csv", true, "data.csv"},
		{"https://example.org/files/data.csv", false, "data"},
		{"archive.tar.gz", false, "archive"},
		{"plain", true, "plain"},
	}
	for _, c := range cases {
		if got := utils.ExtractFilename(c.in, c.withExt); got != c.want {
			t.Errorf("ExtractFilename(%q, %v) = %q, want %q", c.in, c.withExt, got, c.want)
		}
	}
}

func TestExtractFiletype(t *testing.T) {
	if got := utils.ExtractFiletype("Report.XLSX", false, true); got != "xlsx" {
		t.Errorf("got %q", got)
	}
	if got := utils.ExtractFiletype("Report.XLSX", true, false); got != ".XLSX" {
		t.Errorf("got %q", got)
	}
}

func TestSafeWriteFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.csv")
	if err := utils.SafeWriteFile(p, []byte("a,b\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "a,b\n" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestFindDatestamped(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"schools_2023-01-31.csv", "schools_2024-06-30.csv", "schools.csv", "other_2024-07-01.csv"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}

	got, err := utils.FindDatestamped(dir, "schools.csv", utils.Latest)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "schools_2024-06-30.csv" {
		t.Fatalf("latest = %v", got)
	}

	got, err = utils.FindDatestamped(dir, "schools.csv", utils.All)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(got) != 2 || filepath.Base(got[0]) != "schools_2023-01-31.csv" {
		t.Fatalf("all = %v", got)
	}

	if _, err := utils.FindDatestamped(dir, "pupils.csv", utils.Latest); !table.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pupils.csv"), []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := utils.FindDatestamped(dir, "pupils.csv", utils.Latest); !table.IsNotFound(err) {
		t.Fatalf("expected not found without datestamp, got %v", err)
	}
}

func TestParseChoice(t *testing.T) {
	if c, err := utils.ParseChoice("ALL"); err != nil || c != utils.All {
		t.Fatalf("got %v, %v", c, err)
	}
	if _, err := utils.ParseChoice("newest"); !table.IsValueError(err) {
		t.Fatalf("expected value error, got %v", err)
	}
}
