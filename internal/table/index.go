package table

import (
	"strconv"
)

// Index labels the positions along one axis. Names holds one entry per
// hierarchy level; every Label has len(Names) values.
type Index struct {
	Names  []string
	Labels []Label
}

// Positional returns a one-level unnamed index holding ordinals 0..n-1.
func Positional(n int) Index {
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = Scalar(strconv.Itoa(i))
	}
	return Index{Names: []string{""}, Labels: labels}
}

// NewIndex builds an index from level-major arrays: levels[l][p] is the value
// of level l at position p.
func NewIndex(names []string, levels [][]Value) (Index, error) {
	if len(names) != len(levels) {
		return Index{}, Errorf("index", "got %d level names for %d levels", len(names), len(levels))
	}
	n := 0
	if len(levels) > 0 {
		n = len(levels[0])
	}
	labels := make([]Label, n)
	for p := 0; p < n; p++ {
		labels[p] = make(Label, len(levels))
	}
	for l, vals := range levels {
		if len(vals) != n {
			return Index{}, Errorf("index", "level %d has %d values, want %d", l, len(vals), n)
		}
		for p, v := range vals {
			labels[p][l] = v
		}
	}
	return Index{Names: append([]string(nil), names...), Labels: labels}, nil
}

// Len returns the number of positions.
func (ix Index) Len() int { return len(ix.Labels) }

// Levels returns the number of hierarchy levels.
func (ix Index) Levels() int { return len(ix.Names) }

// IsPositional reports whether ix is an unnamed ordinal index.
func (ix Index) IsPositional() bool {
	if len(ix.Names) != 1 || ix.Names[0] != "" {
		return false
	}
	for i, l := range ix.Labels {
		if len(l) != 1 || l[0].String() != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

// Level returns the position of the named level.
func (ix Index) Level(name string) (int, error) {
	for i, n := range ix.Names {
		if n == name && n != "" {
			return i, nil
		}
	}
	return -1, &KeyError{Key: name, Available: nonEmpty(ix.Names)}
}

// LevelValues returns a copy of the values of level l across all positions.
func (ix Index) LevelValues(l int) []Value {
	out := make([]Value, len(ix.Labels))
	for p, lab := range ix.Labels {
		out[p] = lab[l]
	}
	return out
}

// Find resolves a label path to a position. A full-length path must match
// every level; a single name matches the innermost level and must be unique.
func (ix Index) Find(path ...string) (int, error) {
	key := joinPath(path)
	if len(path) == 0 {
		return -1, &KeyError{Key: key}
	}
	found := -1
	for p, lab := range ix.Labels {
		if !labelMatches(lab, path) {
			continue
		}
		if found >= 0 {
			return -1, Errorf("lookup", "label %s is ambiguous", key)
		}
		found = p
	}
	if found < 0 {
		return -1, &KeyError{Key: key, Available: ix.labelStrings()}
	}
	return found, nil
}

func labelMatches(lab Label, path []string) bool {
	if len(path) == len(lab) {
		for i, s := range path {
			if lab[i].IsMissing() || lab[i].String() != s {
				return false
			}
		}
		return true
	}
	if len(path) == 1 {
		in := lab.Inner()
		return !in.IsMissing() && in.String() == path[0]
	}
	return false
}

func (ix Index) labelStrings() []string {
	out := make([]string, len(ix.Labels))
	for i, l := range ix.Labels {
		out[i] = l.String()
	}
	return out
}

// Clone deep-copies ix.
func (ix Index) Clone() Index {
	out := Index{Names: append([]string(nil), ix.Names...), Labels: make([]Label, len(ix.Labels))}
	for i, l := range ix.Labels {
		out.Labels[i] = l.Clone()
	}
	return out
}

// Equal compares names and labels.
func (ix Index) Equal(o Index) bool {
	if len(ix.Names) != len(o.Names) || len(ix.Labels) != len(o.Labels) {
		return false
	}
	for i := range ix.Names {
		if ix.Names[i] != o.Names[i] {
			return false
		}
	}
	for i := range ix.Labels {
		if !ix.Labels[i].Equal(o.Labels[i]) {
			return false
		}
	}
	return true
}

// slice returns positions [from, to) sharing no storage with ix.
func (ix Index) slice(from, to int) Index {
	out := Index{Names: append([]string(nil), ix.Names...), Labels: make([]Label, 0, to-from)}
	for _, l := range ix.Labels[from:to] {
		out.Labels = append(out.Labels, l.Clone())
	}
	return out
}

func nonEmpty(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinPath(path []string) string {
	if len(path) == 1 {
		return path[0]
	}
	return Label(Strings(path...)).String()
}
