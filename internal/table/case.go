package table

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Case is a text case mode for ChangeCase.
type Case int

const (
	Lower Case = iota
	Sentence
	Title
	Upper
)

// ParseCase accepts lower, sentence, title or upper.
func ParseCase(s string) (Case, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower":
		return Lower, nil
	case "sentence":
		return Sentence, nil
	case "title":
		return Title, nil
	case "upper":
		return Upper, nil
	}
	return 0, Errorf("change case", "case must be one of lower/upper/title/sentence, got %q", s)
}

// Apply converts s to the case mode.
func (c Case) Apply(s string) string {
	switch c {
	case Lower:
		return cases.Lower(language.Und).String(s)
	case Upper:
		return cases.Upper(language.Und).String(s)
	case Title:
		return cases.Title(language.Und).String(s)
	case Sentence:
		r, n := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return s
		}
		return string(unicode.ToUpper(r)) + cases.Lower(language.Und).String(s[n:])
	}
	return s
}

// exceptionPatterns maps whole-word occurrences of each excepted string, as
// the case mode would have rendered it, back to its original spelling.
func (c Case) exceptionPatterns(excepted []string) []exception {
	var out []exception
	add := func(rendered, orig string) {
		out = append(out, exception{re: regexp.MustCompile(`\b` + regexp.QuoteMeta(rendered) + `\b`), repl: orig})
	}
	for _, x := range excepted {
		add(c.Apply(x), x)
		if c == Sentence {
			add(Lower.Apply(x), x)
		}
	}
	return out
}

type exception struct {
	re   *regexp.Regexp
	repl string
}

// ChangeCase returns a copy of t where the rows (axis Rows) or columns (axis
// Columns) at the given ordinals are converted to mode. Whole-word
// occurrences of excepted strings keep their supplied spelling.
func ChangeCase(t *Table, positions []int, mode Case, axis Axis, excepted []string) (*Table, error) {
	out := t.Clone()
	if err := ChangeCaseInPlace(out, positions, mode, axis, excepted); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangeCaseInPlace is ChangeCase mutating t.
func ChangeCaseInPlace(t *Table, positions []int, mode Case, axis Axis, excepted []string) error {
	if err := axis.Validate(); err != nil {
		return err
	}
	if mode < Lower || mode > Upper {
		return Errorf("change case", "unknown case mode %d", mode)
	}
	limit := t.NumRows()
	if axis == Columns {
		limit = t.NumCols()
	}
	for _, p := range positions {
		if p < 0 || p >= limit {
			return Errorf("change case", "%s position %d out of range [0, %d)", axis, p, limit)
		}
	}
	ex := mode.exceptionPatterns(excepted)
	convert := func(v Value) Value {
		if v.IsMissing() {
			return v
		}
		s := mode.Apply(v.s)
		for _, e := range ex {
			s = e.re.ReplaceAllLiteralString(s, e.repl)
		}
		return String(s)
	}
	for _, p := range positions {
		if axis == Rows {
			for c := range t.cells[p] {
				t.cells[p][c] = convert(t.cells[p][c])
			}
			continue
		}
		for r := range t.cells {
			t.cells[r][p] = convert(t.cells[r][p])
		}
	}
	return nil
}
