// Package analysis profiles the columns of a table: inferred kind, missing
// counts, numeric statistics, top categories, group summaries and
// correlations.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/philipnye/ds-utils/internal/table"
)

// Options controls profiling.
type Options struct {
	// SampleRows determines how many leading rows to include in the report.
	SampleRows int
	// GroupBy computes per-group numeric summaries keyed on these columns.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// Outliers counts values whose robust z-score (MAD) exceeds OutlierThreshold.
	Outliers         bool
	OutlierThreshold float64
	// UnitNormalize converts values of a column whose name carries a unit
	// listed in UnitTargets, e.g. {"g/L": "mg/L"}.
	UnitNormalize bool
	UnitTargets   map[string]string
	// TopValues caps the categories listed per column.
	TopValues int
}

// DefaultOptions returns reasonable defaults for profiling.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Outliers:         true,
		OutlierThreshold: 3.5,
		UnitNormalize:    true,
		UnitTargets: map[string]string{
			"g/L":  "mg/L",
			"ug/L": "mg/L",
			"°F":   "°C",
		},
		TopValues: 8,
	}
}

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	KindEmpty       Kind = "empty"
)

// maxCategoryLen is the longest value still counted as a category.
const maxCategoryLen = 64

// Report is a markdown-friendly profile of a table.
type Report struct {
	Name      string
	Rows      int
	RowLevels []string
	ColLevels []string
	Cols      []ColumnSummary
	Samples   [][]string
	Groups    []GroupResult
	Corr      *CorrMatrix
	Warnings  []string
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    Kind
	Unit    string
	NonNull int
	Missing int
	Unique  int

	Min, Max, Mean, Std float64

	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64

	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult holds numeric summaries for one group key.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64
}

// Describe profiles every column of t. GroupBy names must resolve with
// Table.ColumnPos.
func Describe(t *table.Table, name string, opt Options) (*Report, error) {
	keys, err := groupKeys(t, opt.GroupBy)
	if err != nil {
		return nil, err
	}
	rep := &Report{Name: name, Rows: t.NumRows()}
	if !t.Rows.IsPositional() {
		rep.RowLevels = append(rep.RowLevels, t.Rows.Names...)
	}
	if t.Columns.Levels() > 1 {
		rep.ColLevels = append(rep.ColLevels, t.Columns.Names...)
	}

	names := t.ColumnNames()
	numeric := make(map[int][]float64)
	var numCols []int
	for c := 0; c < t.NumCols(); c++ {
		s, xs := summarize(names[c], t.Column(c), opt)
		if s.Kind == KindNumeric {
			numeric[c] = xs
			numCols = append(numCols, c)
			if bad := s.NonNull - countPresent(xs); bad > 0 {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %d non-numeric values ignored", s.Name, bad))
			}
		}
		rep.Cols = append(rep.Cols, s)
	}

	for r := 0; r < min(opt.SampleRows, t.NumRows()); r++ {
		row := make([]string, t.NumCols())
		for c, v := range t.Row(r) {
			row[c] = v.String()
		}
		rep.Samples = append(rep.Samples, row)
	}

	if keys != nil {
		rep.Groups = groups(rep.Cols, keys, numCols, numeric)
	}
	if opt.Correlations && len(numCols) >= 2 {
		rep.Corr = correlations(rep.Cols, numCols, numeric)
	}
	if t.NumRows() == 0 {
		rep.Warnings = append(rep.Warnings, "table has no rows")
	}
	return rep, nil
}

// summarize infers the kind of one column. The returned series is aligned
// to rows and holds NaN wherever no number parsed.
func summarize(name string, vals []table.Value, opt Options) (ColumnSummary, []float64) {
	clean, unit := splitUnits(name)
	s := ColumnSummary{Name: clean, Unit: unit}
	xs := make([]float64, len(vals))
	cats := map[string]int{}
	var nums []float64
	var dtCnt, txtCnt int
	for i, v := range vals {
		xs[i] = math.NaN()
		text := strings.TrimSpace(v.String())
		if v.IsMissing() || text == "" {
			s.Missing++
			continue
		}
		s.NonNull++
		if strings.Contains(text, "%") && s.Unit == "" {
			s.Unit = "%"
		}
		if x, ok := parseNumeric(text, opt); ok {
			xs[i] = x
			nums = append(nums, x)
			continue
		}
		if _, ok := parseTimeMaybe(text); ok {
			dtCnt++
			continue
		}
		txtCnt++
		if len(text) <= maxCategoryLen {
			cats[text]++
		}
		if len(s.ExampleTexts) < 3 {
			s.ExampleTexts = append(s.ExampleTexts, text)
		}
	}

	switch {
	case len(nums) > 0 && len(nums) >= dtCnt && len(nums) >= txtCnt:
		s.Kind = KindNumeric
		s.ExampleTexts = nil
		if opt.UnitNormalize && unit != "" {
			if _, target, ok := normalizeUnit(0, unit, opt); ok {
				for i, x := range xs {
					xs[i], _, _ = normalizeUnit(x, unit, opt)
				}
				for i, x := range nums {
					nums[i], _, _ = normalizeUnit(x, unit, opt)
				}
				s.Unit = target
			}
		}
		numericStats(&s, nums, opt)
	case dtCnt > 0 && dtCnt >= txtCnt:
		s.Kind = KindDatetime
		s.ExampleTexts = nil
	case len(cats) > 0:
		s.Kind = KindCategorical
		s.ExampleTexts = nil
		s.Unique = len(cats)
		s.TopValues = topValues(cats, opt.TopValues)
	case txtCnt > 0:
		s.Kind = KindText
	default:
		s.Kind = KindEmpty
	}
	return s, xs
}

func numericStats(s *ColumnSummary, nums []float64, opt Options) {
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	var sum float64
	for _, x := range nums {
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
		sum += x
	}
	s.Mean = sum / float64(len(nums))
	if len(nums) > 1 {
		var ss float64
		for _, x := range nums {
			ss += (x - s.Mean) * (x - s.Mean)
		}
		s.Std = math.Sqrt(ss / float64(len(nums)-1))
	}
	if !opt.Outliers || len(nums) < 8 {
		return
	}
	thr := opt.OutlierThreshold
	if thr <= 0 {
		thr = 3.5
	}
	s.OutlierThreshold = thr
	median, mad := medianMAD(nums)
	if mad == 0 {
		return
	}
	for _, x := range nums {
		z := math.Abs(0.6745 * (x - median) / mad)
		if z > thr {
			s.OutliersCount++
		}
		s.OutliersMaxAbsZ = math.Max(s.OutliersMaxAbsZ, z)
	}
}

func topValues(cats map[string]int, limit int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if limit > 0 && len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}

func countPresent(xs []float64) int {
	n := 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			n++
		}
	}
	return n
}

// groupKeys renders "col=value | col=value" per row, or nil without groupBy.
func groupKeys(t *table.Table, groupBy []string) ([]string, error) {
	if len(groupBy) == 0 {
		return nil, nil
	}
	pos := make([]int, len(groupBy))
	for i, g := range groupBy {
		p, err := t.ColumnPos(g)
		if err != nil {
			return nil, fmt.Errorf("group by: %w", err)
		}
		pos[i] = p
	}
	keys := make([]string, t.NumRows())
	for r := range keys {
		parts := make([]string, len(pos))
		for i, p := range pos {
			v := t.Cell(r, p)
			val := "NA"
			if !v.IsMissing() {
				val = safeVal(strings.TrimSpace(v.String()))
			}
			parts[i] = groupBy[i] + "=" + val
		}
		keys[r] = strings.Join(parts, " | ")
	}
	return keys, nil
}

const maxGroups = 20

func groups(cols []ColumnSummary, keys []string, numCols []int, numeric map[int][]float64) []GroupResult {
	byKey := map[string]*GroupResult{}
	var order []*GroupResult
	for r, k := range keys {
		g := byKey[k]
		if g == nil {
			g = &GroupResult{Key: k, Metrics: map[string]NumSummary{}}
			byKey[k] = g
			order = append(order, g)
		}
		g.Size++
		for _, c := range numCols {
			x := numeric[c][r]
			if math.IsNaN(x) {
				continue
			}
			name := cols[c].Name
			m, seen := g.Metrics[name]
			if !seen {
				m = NumSummary{Min: x, Max: x}
			}
			m.Count++
			m.Min = math.Min(m.Min, x)
			m.Max = math.Max(m.Max, x)
			m.Mean += (x - m.Mean) / float64(m.Count)
			g.Metrics[name] = m
		}
	}
	out := make([]GroupResult, len(order))
	for i, g := range order {
		out[i] = *g
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > maxGroups {
		out = out[:maxGroups]
	}
	return out
}

func correlations(cols []ColumnSummary, numCols []int, numeric map[int][]float64) *CorrMatrix {
	n := len(numCols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for a, ca := range numCols {
		m.Columns[a] = cols[ca].Name
		m.Values[a] = make([]float64, n)
		for b, cb := range numCols {
			if a == b {
				m.Values[a][b] = 1
				continue
			}
			r, _ := pearson(numeric[ca], numeric[cb])
			m.Values[a][b] = r
		}
	}
	return m
}
