package table

// Keep selects which side of a RowDifferences comparison survives.
type Keep int

const (
	KeepSecond Keep = iota
	KeepFirst
	KeepBoth
)

// ParseKeep accepts both, first or second.
func ParseKeep(s string) (Keep, error) {
	switch s {
	case "both":
		return KeepBoth, nil
	case "first":
		return KeepFirst, nil
	case "second", "":
		return KeepSecond, nil
	}
	return 0, Errorf("row differences", "keep must be one of both/first/second, got %q", s)
}

// IndicatorColumn is the name of the column recording which side a row came from.
const IndicatorColumn = "_merge"

// DiffOptions controls RowDifferences.
type DiffOptions struct {
	Keep Keep
	// On names the comparison columns. Empty means every column the two
	// tables share.
	On []string
	// IndicatorValues replaces left_only and right_only, in that order.
	IndicatorValues []string
	// KeepIndicator retains the _merge column in the output.
	KeepIndicator bool
}

// RowDifferences performs an outer comparison of a and b on the key
// columns and returns the rows that appear on only one side. Non-key columns
// shared by both tables are suffixed _x and _y.
func RowDifferences(a, b *Table, opt DiffOptions) (*Table, error) {
	if opt.Keep < KeepSecond || opt.Keep > KeepBoth {
		return nil, Errorf("row differences", "keep must be one of both/first/second")
	}
	if n := len(opt.IndicatorValues); n != 0 && n != 2 {
		return nil, Errorf("row differences", "indicator values need exactly 2 entries, got %d", n)
	}
	aNames, bNames := a.ColumnNames(), b.ColumnNames()
	on := opt.On
	if len(on) == 0 {
		on = shared(aNames, bNames)
		if len(on) == 0 {
			return nil, Errorf("row differences", "no common columns to compare on")
		}
	}
	aKey, err := positions(a, on)
	if err != nil {
		return nil, err
	}
	bKey, err := positions(b, on)
	if err != nil {
		return nil, err
	}

	keyOf := func(t *Table, pos []int, r int) string {
		l := make(Label, len(pos))
		for i, p := range pos {
			l[i] = t.cells[r][p]
		}
		return l.Key()
	}
	inA := map[string]bool{}
	for r := 0; r < a.NumRows(); r++ {
		inA[keyOf(a, aKey, r)] = true
	}
	inB := map[string]bool{}
	for r := 0; r < b.NumRows(); r++ {
		inB[keyOf(b, bKey, r)] = true
	}

	// output layout: key columns, a's remaining columns, b's remaining columns
	isKey := map[string]bool{}
	for _, k := range on {
		isKey[k] = true
	}
	var aRest, bRest []int
	for c, n := range aNames {
		if !isKey[n] {
			aRest = append(aRest, c)
		}
	}
	for c, n := range bNames {
		if !isKey[n] {
			bRest = append(bRest, c)
		}
	}
	clash := map[string]bool{}
	for _, n := range shared(namesAt(aNames, aRest), namesAt(bNames, bRest)) {
		clash[n] = true
	}
	header := append([]string(nil), on...)
	for _, c := range aRest {
		header = append(header, suffixed(aNames[c], "_x", clash))
	}
	for _, c := range bRest {
		header = append(header, suffixed(bNames[c], "_y", clash))
	}
	leftTag, rightTag := "left_only", "right_only"
	if len(opt.IndicatorValues) == 2 {
		leftTag, rightTag = opt.IndicatorValues[0], opt.IndicatorValues[1]
	}
	if opt.KeepIndicator {
		header = append(header, IndicatorColumn)
	}

	var records [][]Value
	emit := func(t *Table, keyPos, own []int, r int, ownFirst bool, tag string) {
		row := make([]Value, 0, len(header))
		for _, p := range keyPos {
			row = append(row, t.cells[r][p])
		}
		blankA := make([]Value, len(aRest))
		blankB := make([]Value, len(bRest))
		vals := make([]Value, len(own))
		for i, p := range own {
			vals[i] = t.cells[r][p]
		}
		if ownFirst {
			row = append(append(row, vals...), blankB...)
		} else {
			row = append(append(row, blankA...), vals...)
		}
		if opt.KeepIndicator {
			row = append(row, String(tag))
		}
		records = append(records, row)
	}
	if opt.Keep != KeepSecond {
		for r := 0; r < a.NumRows(); r++ {
			if !inB[keyOf(a, aKey, r)] {
				emit(a, aKey, aRest, r, true, leftTag)
			}
		}
	}
	if opt.Keep != KeepFirst {
		for r := 0; r < b.NumRows(); r++ {
			if !inA[keyOf(b, bKey, r)] {
				emit(b, bKey, bRest, r, false, rightTag)
			}
		}
	}
	return FromRecords(header, records), nil
}

func positions(t *Table, names []string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		p, err := t.ColumnPos(n)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func shared(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, n := range b {
		inB[n] = true
	}
	var out []string
	for _, n := range a {
		if inB[n] {
			out = append(out, n)
		}
	}
	return out
}

func namesAt(names []string, pos []int) []string {
	out := make([]string, len(pos))
	for i, p := range pos {
		out[i] = names[p]
	}
	return out
}

func suffixed(name, suffix string, clash map[string]bool) string {
	if clash[name] {
		return name + suffix
	}
	return name
}
