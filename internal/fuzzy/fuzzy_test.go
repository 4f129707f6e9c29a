package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipnye/ds-utils/internal/table"
)

func numbersTables() (*table.Table, *table.Table) {
	left := table.FromRecords([]string{"col_a", "col_b"}, [][]table.Value{
		table.Strings("one", "1"),
		table.Strings("two", "2"),
		table.Strings("three", "3"),
		table.Strings("four", "4"),
		table.Strings("five", "5"),
	})
	right := table.FromRecords([]string{"col_a", "col_b"}, [][]table.Value{
		table.Strings("one", "a"),
		table.Strings("too", "b"),
		table.Strings("three", "c"),
		table.Strings("fours", "d"),
		table.Strings("five", "e"),
		table.Strings("five", "f"),
	})
	return left, right
}

func TestScorers(t *testing.T) {
	assert.InDelta(t, 66.67, Ratio("two", "too"), 0.01)
	assert.InDelta(t, 88.89, Ratio("four", "fours"), 0.01)
	assert.Equal(t, 100.0, Ratio("", ""))
	assert.Equal(t, 100.0, PartialRatio("abc", "xxabcxx"))
	assert.Equal(t, 100.0, TokenSortRatio("new york mets", "mets new york"))
	assert.InDelta(t, 60.0, TokenSetRatio("a b c", "a d e"), 0.01)
	assert.Equal(t, 100.0, TokenSetRatio("new york mets vs", "new york mets"))
	assert.InDelta(t, 90.0, WRatio("Leeds", "University of Leeds"), 0.01)
	assert.InDelta(t, 66.67, WRatio("two", "too"), 0.01)
	assert.Equal(t, 0.0, WRatio("", "abc"))
	assert.Contains(t, Scorers, "wratio")
}

func TestDefaultProcess(t *testing.T) {
	assert.Equal(t, "café olé", DefaultProcess("  Café-Olé! "))
	assert.Equal(t, "cafe ole", FoldProcess("  Café-Olé! "))
	assert.Less(t, Ratio(DefaultProcess("Café"), DefaultProcess("Cafe")), 100.0)
	assert.Equal(t, 100.0, Ratio(FoldProcess("Café"), FoldProcess("Cafe")))
	assert.Equal(t, "dept  for education", DefaultProcess("Dept. for Education"))
	assert.Equal(t, "", DefaultProcess("--"))
}

func TestMatchTopTwo(t *testing.T) {
	left, right := numbersTables()
	opt := DefaultOptions()
	opt.ScoreCutoff = 60
	opt.Limit = 2

	recs, err := Match(left, right, "col_a", "col_a", opt)
	require.NoError(t, err)
	require.Len(t, recs, 6)

	wantLeft := []int{0, 1, 2, 3, 4, 4}
	wantRight := []int{0, 1, 2, 3, 4, 5}
	wantScore := []float64{100, 66.67, 100, 88.89, 100, 100}
	wantString := []string{"one", "too", "three", "fours", "five", "five"}
	for i, rec := range recs {
		assert.Equal(t, wantLeft[i], rec.LeftPos, "record %d", i)
		assert.Equal(t, wantRight[i], rec.RightPos, "record %d", i)
		assert.InDelta(t, wantScore[i], rec.Score, 0.01, "record %d", i)
		assert.Equal(t, wantString[i], rec.String.String(), "record %d", i)
		assert.True(t, rec.Matched)
	}

	seen := map[string]bool{}
	for _, rec := range recs {
		k := rec.LeftKey.Key() + "|" + rec.RightKey.Key()
		assert.False(t, seen[k], "duplicate pair %s", k)
		seen[k] = true
	}
}

func TestMatchEmptyLeft(t *testing.T) {
	_, right := numbersTables()
	left := table.FromRecords([]string{"col_a"}, nil)
	recs, err := Match(left, right, "col_a", "col_a", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestMatchPlaceholders(t *testing.T) {
	left := table.FromRecords([]string{"name"}, [][]table.Value{
		table.Strings("zebra"),
		{table.Missing()},
		table.Strings("five"),
	})
	_, right := numbersTables()

	opt := DefaultOptions()
	opt.ScoreCutoff = 0
	recs, err := Match(left, right, "name", "col_a", opt)
	require.NoError(t, err)
	for _, rec := range recs {
		assert.NotEqual(t, 1, rec.LeftPos, "missing values never match")
	}

	opt = DefaultOptions()
	opt.DropNA = false
	recs, err = Match(left, right, "name", "col_a", opt)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.False(t, recs[0].Matched)
	assert.Nil(t, recs[0].RightKey)
	assert.True(t, recs[0].String.IsMissing())
	assert.False(t, recs[1].Matched)
	assert.True(t, recs[2].Matched)
	assert.Equal(t, 4, recs[2].RightPos, "ties resolve to the earlier right row")
}

func TestMatchRejects(t *testing.T) {
	left, right := numbersTables()
	opt := DefaultOptions()
	opt.Limit = 0
	_, err := Match(left, right, "col_a", "col_a", opt)
	assert.True(t, table.IsValueError(err))

	opt = DefaultOptions()
	opt.ScoreCutoff = 101
	_, err = Match(left, right, "col_a", "col_a", opt)
	assert.True(t, table.IsValueError(err))

	_, err = Match(left, right, "nope", "col_a", DefaultOptions())
	assert.True(t, table.IsKeyError(err))
	_, err = Match(left, right, "col_a", "nope", DefaultOptions())
	assert.True(t, table.IsKeyError(err))
}

func TestMatchCleanStrings(t *testing.T) {
	left := table.FromRecords([]string{"org"}, [][]table.Value{table.Strings("DEPT. FOR EDUCATION")})
	right := table.FromRecords([]string{"org"}, [][]table.Value{table.Strings("Dept for Education")})

	opt := DefaultOptions()
	recs, err := Match(left, right, "org", "org", opt)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Dept for Education", recs[0].String.String())

	opt.CleanStrings = false
	opt.Scorer = Ratio
	recs, err = Match(left, right, "org", "org", opt)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecordsTableCompositeKeys(t *testing.T) {
	rows, err := table.NewIndex([]string{"region", "city"}, [][]table.Value{
		table.Strings("N", "S"),
		table.Strings("Leeds", "Bath"),
	})
	require.NoError(t, err)
	cols := table.Index{Names: []string{""}, Labels: []table.Label{table.Scalar("city")}}
	left, err := table.NewIndexed(rows, cols, [][]table.Value{table.Strings("Leeds"), table.Strings("Bath")})
	require.NoError(t, err)
	right := table.FromRecords([]string{"name"}, [][]table.Value{table.Strings("Bath"), table.Strings("Leeds")})

	recs, err := Match(left, right, "city", "name", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, table.Label(table.Strings("N", "Leeds")), recs[0].LeftKey)

	out := RecordsTable(recs)
	assert.Equal(t, []string{"df_left_id/region", "df_left_id/city", RightIDColumn}, out.Rows.Names)
	assert.Equal(t, table.Label(table.Strings("N", "Leeds", "1")), out.Rows.Labels[0])
	assert.Equal(t, []string{MatchStringColumn, MatchScoreColumn}, out.ColumnNames())
	assert.Equal(t, "100", out.Cell(0, 1).String())
}

// ambiguousIndex has two labels that render identically once joined with ", ".
func ambiguousIndex(t *testing.T) table.Index {
	t.Helper()
	ix, err := table.NewIndex([]string{"a", "b"}, [][]table.Value{
		table.Strings("x", "x, y"),
		table.Strings("y, z", "z"),
	})
	require.NoError(t, err)
	return ix
}

func TestRecordsTableKeepsDistinctCompositeKeys(t *testing.T) {
	cols := table.Index{Names: []string{""}, Labels: []table.Label{table.Scalar("city")}}
	left, err := table.NewIndexed(ambiguousIndex(t), cols, [][]table.Value{table.Strings("Leeds"), table.Strings("Leeds")})
	require.NoError(t, err)
	right := table.FromRecords([]string{"name"}, [][]table.Value{table.Strings("Leeds")})

	recs, err := Match(left, right, "city", "name", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	out := RecordsTable(recs)
	assert.Equal(t, []string{"df_left_id/a", "df_left_id/b", RightIDColumn}, out.Rows.Names)
	assert.Equal(t, table.Label(table.Strings("x", "y, z", "0")), out.Rows.Labels[0])
	assert.Equal(t, table.Label(table.Strings("x, y", "z", "0")), out.Rows.Labels[1])
	assert.NotEqual(t, out.Rows.Labels[0].Key(), out.Rows.Labels[1].Key())
}

func TestRecordsTablePlaceholderCompositeRight(t *testing.T) {
	left := table.FromRecords([]string{"name"}, [][]table.Value{table.Strings("zebra")})
	cols := table.Index{Names: []string{""}, Labels: []table.Label{table.Scalar("name")}}
	right, err := table.NewIndexed(ambiguousIndex(t), cols, [][]table.Value{table.Strings("one"), table.Strings("two")})
	require.NoError(t, err)
	opt := DefaultOptions()
	opt.DropNA = false

	recs, err := Match(left, right, "name", "name", opt)
	require.NoError(t, err)
	out := RecordsTable(recs)
	assert.Equal(t, []string{LeftIDColumn, "df_right_id/a", "df_right_id/b"}, out.Rows.Names)
	assert.Equal(t, table.Label{table.String("0"), table.Missing(), table.Missing()}, out.Rows.Labels[0])
}

func TestMergeSpreadsCompositeRightKey(t *testing.T) {
	left := table.FromRecords([]string{"town"}, [][]table.Value{table.Strings("Leeds")})
	cols := table.Index{Names: []string{""}, Labels: []table.Label{table.Scalar("name")}}
	right, err := table.NewIndexed(ambiguousIndex(t), cols, [][]table.Value{table.Strings("Leeds"), table.Strings("Leeds")})
	require.NoError(t, err)
	opt := DefaultOptions()
	opt.Limit = 2

	out, err := Merge(left, right, "town", "name", opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"town", MatchStringColumn, MatchScoreColumn, "df_right_id/a", "df_right_id/b", "name"}, out.ColumnNames())
	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, table.Strings("Leeds", "Leeds", "100", "x", "y, z", "Leeds"), out.Row(0))
	assert.Equal(t, table.Strings("Leeds", "Leeds", "100", "x, y", "z", "Leeds"), out.Row(1))
}

func TestMerge(t *testing.T) {
	left, right := numbersTables()
	opt := DefaultOptions()
	opt.ScoreCutoff = 60
	opt.Limit = 2

	out, err := Merge(left, right, "col_a", "col_a", opt)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"col_a_df_left", "col_b_df_left", MatchStringColumn, MatchScoreColumn, RightIDColumn,
		"col_a_df_right", "col_b_df_right",
	}, out.ColumnNames())
	require.Equal(t, 6, out.NumRows())
	assert.Equal(t, table.Strings("two", "2", "too", "66.67", "1", "too", "b"), out.Row(1))
	assert.Equal(t, "4", out.Rows.Labels[5].String())
	assert.Equal(t, "f", out.Cell(5, 6).String())
}

func TestMergeKeepsUnmatched(t *testing.T) {
	left := table.FromRecords([]string{"name"}, [][]table.Value{table.Strings("zebra"), table.Strings("one")})
	right := table.FromRecords([]string{"label"}, [][]table.Value{table.Strings("one")})
	opt := DefaultOptions()
	opt.DropNA = false

	out, err := Merge(left, right, "name", "label", opt)
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, []table.Value{table.String("zebra"), table.Missing(), table.Missing(), table.Missing(), table.Missing()}, out.Row(0))
	assert.Equal(t, table.Strings("one", "one", "100", "0", "one"), out.Row(1))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "100", FormatScore(100))
	assert.Equal(t, "66.67", FormatScore(200.0/3))
	assert.Equal(t, "0", FormatScore(0))
	assert.Equal(t, "12.5", FormatScore(12.5))
}
