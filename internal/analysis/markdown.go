package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	maxGroupMetrics = 6
	maxCorrPairs    = 10
	maxSampleWidth  = 80
)

// Markdown renders the report as plain sections for terminals and docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[TABLE SUMMARY]\n")
	if r.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", r.Name)
	}
	fmt.Fprintf(&b, "Rows: %d\n", r.Rows)
	fmt.Fprintf(&b, "Columns: %d\n", len(r.Cols))
	if len(r.RowLevels) > 0 {
		fmt.Fprintf(&b, "Row levels: %s\n", strings.Join(r.RowLevels, ", "))
	}
	if len(r.ColLevels) > 0 {
		fmt.Fprintf(&b, "Column levels: %s\n", strings.Join(r.ColLevels, ", "))
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(c.line())
		b.WriteString("\n")
	}

	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			fmt.Fprintf(&b, "- %s (n=%d)\n", g.Key, g.Size)
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys[:min(maxGroupMetrics, len(keys))] {
				m := g.Metrics[k]
				fmt.Fprintf(&b, "  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max)
			}
		}
	}

	if pairs := r.Corr.pairs(); len(pairs) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range pairs[:min(maxCorrPairs, len(pairs))] {
			fmt.Fprintf(&b, "- %s ~ %s: r=%.3f\n", p.a, p.b, p.r)
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		names := make([]string, len(r.Cols))
		rule := make([]string, len(r.Cols))
		for i, c := range r.Cols {
			names[i] = safeName(c.Name)
			rule[i] = "---"
		}
		writeRow(&b, names)
		writeRow(&b, rule)
		for _, row := range r.Samples {
			cells := make([]string, len(r.Cols))
			for i := range cells {
				if i < len(row) {
					cells[i] = clip(safeVal(row[i]))
				}
			}
			writeRow(&b, cells)
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

func (c ColumnSummary) line() string {
	var b strings.Builder
	name := safeName(c.Name)
	if c.Unit != "" {
		name = fmt.Sprintf("%s [%s]", name, c.Unit)
	}
	missPct := 0.0
	if total := c.NonNull + c.Missing; total > 0 {
		missPct = float64(c.Missing) * 100 / float64(total)
	}
	fmt.Fprintf(&b, "- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.NonNull, missPct)
	switch c.Kind {
	case KindNumeric:
		fmt.Fprintf(&b, "; min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std)
		if c.OutlierThreshold > 0 {
			fmt.Fprintf(&b, "; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold)
		}
	case KindCategorical:
		parts := make([]string, len(c.TopValues))
		for i, kv := range c.TopValues {
			parts[i] = fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count)
		}
		fmt.Fprintf(&b, "; top: %s", strings.Join(parts, ", "))
		if c.Unique > len(c.TopValues) {
			fmt.Fprintf(&b, "; unique=%d", c.Unique)
		}
	case KindText:
		parts := make([]string, len(c.ExampleTexts))
		for i, ex := range c.ExampleTexts {
			parts[i] = clip(safeVal(ex))
		}
		fmt.Fprintf(&b, "; e.g. %s", strings.Join(parts, " | "))
	}
	return b.String()
}

type corrPair struct {
	a, b string
	r    float64
}

// pairs lists the upper triangle ordered by |r|.
func (m *CorrMatrix) pairs() []corrPair {
	if m == nil {
		return nil
	}
	var out []corrPair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			out = append(out, corrPair{a: m.Columns[i], b: m.Columns[j], r: m.Values[i][j]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].r) > math.Abs(out[j].r)
	})
	return out
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func clip(s string) string {
	if len(s) > maxSampleWidth {
		return s[:maxSampleWidth-3] + "..."
	}
	return s
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
