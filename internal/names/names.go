// Package names cleans personal names before matching.
package names

import (
	"strings"

	"github.com/philipnye/ds-utils/internal/table"
)

var (
	honorifics = set("Miss", "Mr", "Mrs", "Ms", "Dame", "Sir", "Dr", "Hon", "Prof", "The")
	peerage    = set("Baroness", "Earl", "Lord", "Viscount")
	clerical   = set("Lord Archbishop", "Lord Bishop")
)

func set(ss ...string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

// TitledName is a name of the form "<title> [<last name>] of <place>".
type TitledName struct {
	Title    string
	LastName string
	Place    string
}

// SplitTitle splits a name around the word "of". "Earl of Minto" has a title
// and a place, "Lord Young of Cookham" also a last name, and the bishops
// keep a two-word title.
func SplitTitle(name string) (TitledName, error) {
	words := strings.Split(name, " ")
	of := -1
	for i, w := range words {
		if w == "of" {
			of = i
			break
		}
	}
	if of < 0 {
		return TitledName{}, table.Errorf("split title", "'of' not in name %q", name)
	}
	var out TitledName
	switch {
	case of == 1:
		out.Title = words[0]
		out.Place = strings.Join(words[2:], " ")
	case of > 1 && clerical[strings.Join(words[:2], " ")]:
		out.Title = strings.Join(words[:2], " ")
		out.Place = strings.Join(words[3:], " ")
	case of > 1:
		out.Title = words[0]
		out.LastName = strings.Join(words[1:of], " ")
		out.Place = strings.Join(words[of+1:], " ")
	}
	return out, nil
}

// StripTitle removes a leading honorific and, unless keepPeerage is set, a
// following peerage title, then collapses whitespace.
func StripTitle(name string, keepPeerage bool) string {
	if first, rest, _ := strings.Cut(name, " "); honorifics[first] {
		name = rest
	}
	if !keepPeerage {
		if first, rest, _ := strings.Cut(name, " "); peerage[first] {
			name = rest
		}
	}
	return strings.Join(strings.Fields(name), " ")
}
