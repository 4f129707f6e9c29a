package fuzzy

import (
	"sort"
	"strconv"
	"strings"

	"github.com/philipnye/ds-utils/internal/table"
)

// Options controls Match and Merge. Start from DefaultOptions.
type Options struct {
	// ScoreCutoff is the minimum score, inclusive, for a candidate to count.
	ScoreCutoff float64
	// Limit is the most matches kept per left row.
	Limit int
	// CleanStrings runs Processor over both sides before scoring.
	CleanStrings bool
	// DropNA omits left rows without matches instead of emitting a
	// placeholder record.
	DropNA bool
	// Scorer defaults to WRatio.
	Scorer Scorer
	// Processor defaults to DefaultProcess.
	Processor func(string) string
}

// DefaultOptions returns a cutoff of 90, one match per row, cleaned strings,
// dropped non-matches and WRatio.
func DefaultOptions() Options {
	return Options{ScoreCutoff: 90, Limit: 1, CleanStrings: true, DropNA: true, Scorer: WRatio}
}

func (o Options) validate() error {
	if o.Limit <= 0 {
		return table.Errorf("fuzzy match", "limit must be > 0, got %d", o.Limit)
	}
	if o.ScoreCutoff < 0 || o.ScoreCutoff > 100 {
		return table.Errorf("fuzzy match", "score cutoff must be within [0, 100], got %g", o.ScoreCutoff)
	}
	return nil
}

// MatchRecord is one left row paired with one right row. A placeholder for a
// left row without matches has Matched false, a nil RightKey and RightPos -1.
type MatchRecord struct {
	LeftKey  table.Label
	RightKey table.Label
	// LeftLevels and RightLevels name the levels of the source row indexes.
	LeftLevels  []string
	RightLevels []string
	LeftPos     int
	RightPos    int
	// String is the right-hand value as it appears in the source table.
	String  table.Value
	Score   float64
	Matched bool
}

// Match finds, for every row of left in order, up to opt.Limit rows of right
// whose colRight value scores at least opt.ScoreCutoff against the row's
// colLeft value. Matches are ordered by score and then by right position.
// Missing values, and values that clean down to nothing, match nothing.
func Match(left, right *table.Table, colLeft, colRight string, opt Options) ([]MatchRecord, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	lp, err := left.ColumnPos(colLeft)
	if err != nil {
		return nil, err
	}
	rp, err := right.ColumnPos(colRight)
	if err != nil {
		return nil, err
	}
	scorer := opt.Scorer
	if scorer == nil {
		scorer = WRatio
	}
	prep := func(v table.Value) (string, bool) {
		if v.IsMissing() {
			return "", false
		}
		s := v.String()
		if opt.CleanStrings {
			if opt.Processor != nil {
				s = opt.Processor(s)
			} else {
				s = DefaultProcess(s)
			}
		}
		return s, strings.TrimSpace(s) != ""
	}

	type candidate struct {
		pos  int
		text string
	}
	var candidates []candidate
	for r := 0; r < right.NumRows(); r++ {
		if s, ok := prep(right.Cell(r, rp)); ok {
			candidates = append(candidates, candidate{pos: r, text: s})
		}
	}

	leftLevels := append([]string(nil), left.Rows.Names...)
	rightLevels := append([]string(nil), right.Rows.Names...)
	var out []MatchRecord
	for r := 0; r < left.NumRows(); r++ {
		key := left.Rows.Labels[r].Clone()
		var found []MatchRecord
		if query, ok := prep(left.Cell(r, lp)); ok {
			for _, c := range candidates {
				score := scorer(query, c.text)
				if score < opt.ScoreCutoff {
					continue
				}
				found = append(found, MatchRecord{
					LeftKey:     key,
					RightKey:    right.Rows.Labels[c.pos].Clone(),
					LeftLevels:  leftLevels,
					RightLevels: rightLevels,
					LeftPos:     r,
					RightPos:    c.pos,
					String:      right.Cell(c.pos, rp),
					Score:       score,
					Matched:     true,
				})
			}
		}
		sort.SliceStable(found, func(i, j int) bool { return found[i].Score > found[j].Score })
		if len(found) > opt.Limit {
			found = found[:opt.Limit]
		}
		if len(found) == 0 && !opt.DropNA {
			found = append(found, MatchRecord{
				LeftKey: key, LeftLevels: leftLevels, RightLevels: rightLevels,
				LeftPos: r, RightPos: -1,
			})
		}
		out = append(out, found...)
	}
	return out, nil
}

// Column names of the table produced by RecordsTable.
const (
	LeftIDColumn      = "df_left_id"
	RightIDColumn     = "df_right_id"
	MatchStringColumn = "match_string"
	MatchScoreColumn  = "match_score"
)

// RecordsTable lays records out in long form: one row per record, indexed by
// the left and right row ids, with match_string and match_score columns.
// A hierarchical id keeps one index level per source level, named
// df_left_id/<level> or df_right_id/<level>.
func RecordsTable(records []MatchRecord) *table.Table {
	var leftLevels, rightLevels []string
	if len(records) > 0 {
		leftLevels, rightLevels = records[0].LeftLevels, records[0].RightLevels
	}
	names := append(idNames(LeftIDColumn, leftLevels), idNames(RightIDColumn, rightLevels)...)
	rows := table.Index{Names: names}
	cells := make([][]table.Value, len(records))
	for i, rec := range records {
		lab := idValues(rec.LeftKey, len(leftLevels))
		lab = append(lab, idValues(rec.RightKey, len(rightLevels))...)
		rows.Labels = append(rows.Labels, table.Label(lab))
		cells[i] = []table.Value{rec.String, scoreValue(rec)}
	}
	cols := table.Index{Names: []string{""}, Labels: []table.Label{
		table.Scalar(MatchStringColumn), table.Scalar(MatchScoreColumn),
	}}
	out, _ := table.NewIndexed(rows, cols, cells)
	return out
}

// idNames names the id columns for an index with the given levels.
func idNames(base string, levels []string) []string {
	if len(levels) <= 1 {
		return []string{base}
	}
	out := make([]string, len(levels))
	for i, n := range levels {
		if n == "" {
			n = strconv.Itoa(i)
		}
		out[i] = base + "/" + n
	}
	return out
}

// idValues spreads key over n id columns; a nil key is all missing.
func idValues(key table.Label, n int) []table.Value {
	if n < 1 {
		n = 1
	}
	if key == nil {
		return make([]table.Value, n)
	}
	return append([]table.Value(nil), key...)
}

func scoreValue(rec MatchRecord) table.Value {
	if !rec.Matched {
		return table.Missing()
	}
	return table.String(FormatScore(rec.Score))
}

// FormatScore renders a score with at most two decimals.
func FormatScore(s float64) string {
	out := strconv.FormatFloat(s, 'f', 2, 64)
	out = strings.TrimRight(out, "0")
	return strings.TrimSuffix(out, ".")
}
