package tableio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/philipnye/ds-utils/internal/table"
)

type delimitedReader struct{}

func (delimitedReader) CanRead(path string) bool {
	return hasExt(path, ".csv", ".tsv", ".txt")
}

func (delimitedReader) Read(path string, opt ReadOptions) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	text, err := decode(data, opt.Encodings)
	if err != nil {
		return nil, err
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, text)
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.Comma = delim
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	grid := make([][]table.Value, len(records))
	for i, rec := range records {
		grid[i] = parseRow(rec)
	}
	return table.New(grid), nil
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// decode tries each encoding in turn. UTF-8 must validate; the single-byte
// code pages always succeed, so they belong at the end of the list.
func decode(data []byte, encodings []string) (string, error) {
	if len(encodings) == 0 {
		encodings = []string{"utf-8"}
	}
	for _, name := range encodings {
		enc, err := lookupEncoding(name)
		if err != nil {
			return "", err
		}
		if enc == nil {
			if b := bytes.TrimPrefix(data, utf8BOM); utf8.Valid(b) {
				return string(b), nil
			}
			continue
		}
		b, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return string(b), nil
	}
	return "", table.Errorf("read", "content does not decode as any of %s", strings.Join(encodings, ", "))
}

// lookupEncoding returns nil for UTF-8, which is validated rather than
// decoded.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8", "utf-8-sig":
		return nil, nil
	case "utf-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, table.Errorf("read", "unknown encoding %q", name)
	}
	return enc, nil
}

// sniffDelimiter uses the extension for .tsv and otherwise picks the most
// frequent candidate on the first non-blank line.
func sniffDelimiter(path, text string) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	line := ""
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}
	best, bestN := ',', 0
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(line, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
