package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	_ = logger.Close()
	return out.String(), errOut.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// isolate points HOME at a temp dir so no user config is read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"DSUTILS_MATCH_LIMIT", "DSUTILS_SCORE_CUTOFF", "DSUTILS_OUTPUT_DIR", "DSUTILS_LOG_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return home
}

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestCLI_NormalizeHeaderColumns(t *testing.T) {
	home := isolate(t)
	p := write(t, home, "pupils.csv", "region,2021,2022\nNorth,1,2\nSouth,3,4\n")

	out := runCmd(t, "normalize", p, "--header-cols", "1", "--row-levels", "region")
	want := "region,2021,2022\nNorth,1,2\nSouth,3,4\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestCLI_NormalizeDetectsAndFillsHeaders(t *testing.T) {
	home := isolate(t)
	p := write(t, home, "schools.csv", "Schools,\nname,pupils\nOak,30\n")

	out := runCmd(t, "normalize", p, "--header-rows", "-1", "--fill-headers")
	want := "Schools,Schools\nname,pupils\nOak,30\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestCLI_NormalizeCaseAndRowCount(t *testing.T) {
	home := isolate(t)
	p := write(t, home, "towns.csv", "name,town\nold oak,leeds\nelm,york\n")

	out := runCmd(t, "normalize", p, "--case", "title", "--case-positions", "1", "--expect-rows", "1:5")
	if !strings.Contains(out, "old oak,Leeds\n") || !strings.Contains(out, "elm,York\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, _, err := execute(t, "normalize", p, "--expect-rows", "3:5"); err == nil || !strings.Contains(err.Error(), "row count 2") {
		t.Fatalf("expected row count error, got %v", err)
	}
	if _, _, err := execute(t, "normalize", p, "--case", "shout"); err == nil {
		t.Fatalf("expected error for unknown case")
	}
}

func TestCLI_NormalizeXLSXRoundTrip(t *testing.T) {
	home := isolate(t)
	p := write(t, home, "towns.csv", "name,pupils\nOak,30\nElm,25\n")
	xlsx := filepath.Join(home, "out", "towns.xlsx")

	msg := runCmd(t, "normalize", p, "-o", xlsx)
	if !strings.Contains(msg, "✓ Wrote 2 rows") {
		t.Fatalf("unexpected message: %q", msg)
	}
	out := runCmd(t, "normalize", xlsx)
	if out != "name,pupils\nOak,30\nElm,25\n" {
		t.Fatalf("round trip:\n%s", out)
	}
}

func TestCLI_Datestamped(t *testing.T) {
	home := isolate(t)
	write(t, home, "schools_2024-01-31.csv", "name\nOld\n")
	write(t, home, "schools_2024-06-30.csv", "name\nNew\n")

	out := runCmd(t, "normalize", filepath.Join(home, "schools.csv"), "--datestamped")
	if out != "name\nNew\n" {
		t.Fatalf("expected latest file, got:\n%s", out)
	}
}

func TestCLI_SplitRow(t *testing.T) {
	home := isolate(t)
	p := write(t, home, "pairs.csv", "a,b\nx|y,1|2\n")

	out := runCmd(t, "split-row", p, "--row", "0", "--sep", "|")
	if out != "a,b\nx,1\ny,2\n" {
		t.Fatalf("got:\n%s", out)
	}
	if _, _, err := execute(t, "split-row", p, "--row", "5", "--sep", "|"); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestCLI_SplitColumn(t *testing.T) {
	home := isolate(t)
	p := write(t, home, "areas.csv", "area,pupils\nNorth,\nLeeds,10\nYork,20\nSouth,\nBath,5\n")

	out := runCmd(t, "split-column", p, "--column", "area",
		"--bucket", "North,South", "--bucket", "*", "--names", "region,town", "--fill-named")
	want := "region,town,pupils\nNorth,,\nNorth,Leeds,10\nNorth,York,20\nSouth,,\nSouth,Bath,5\n"
	if out != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out, want)
	}
	if _, _, err := execute(t, "split-column", p, "--column", "area", "--bucket", "East"); err == nil {
		t.Fatalf("expected error for absent value")
	}
}

func TestCLI_MatchAndMerge(t *testing.T) {
	home := isolate(t)
	left := write(t, home, "left.csv", "name,age\nMr Jane Doe,30\nZed Zulu,40\n")
	right := write(t, home, "right.csv", "person,town\nJane Doe,Leeds\nJohn Smith,York\n")

	out := runCmd(t, "match", left, right, "--left-col", "name", "--right-col", "person", "--strip-titles")
	if !strings.HasPrefix(out, "df_left_id,df_right_id,match_string,match_score\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "0,0,Jane Doe,100\n") || strings.Contains(out, "Zed") {
		t.Fatalf("unexpected matches:\n%s", out)
	}

	out = runCmd(t, "merge", left, right, "--left-col", "name", "--right-col", "person", "--strip-titles", "--keep-na")
	want := "name,age,match_string,match_score,df_right_id,person,town\n" +
		"Mr Jane Doe,30,Jane Doe,100,0,Jane Doe,Leeds\n" +
		"Zed Zulu,40" + strings.Repeat(",", 5) + "\n"
	if out != want {
		t.Fatalf("merge:\n%s\nwant:\n%s", out, want)
	}

	if _, _, err := execute(t, "match", left, right, "--left-col", "name", "--right-col", "person", "--scorer", "nope"); err == nil {
		t.Fatalf("expected unknown scorer error")
	}
	if _, _, err := execute(t, "match", left, right, "--left-col", "name", "--right-col", "person", "--limit", "0"); err == nil {
		t.Fatalf("expected limit error")
	}
}

func TestCLI_MatchFoldAccents(t *testing.T) {
	home := isolate(t)
	left := write(t, home, "left.csv", "venue\nCafé Royal\n")
	right := write(t, home, "right.csv", "venue\nCafe Royal\n")
	args := []string{"match", left, right, "--left-col", "venue", "--right-col", "venue", "--cutoff", "95"}

	if out := runCmd(t, args...); out != "df_left_id,df_right_id,match_string,match_score\n" {
		t.Fatalf("accents should count without folding:\n%s", out)
	}
	out := runCmd(t, append(args, "--fold-accents")...)
	if !strings.Contains(out, "0,0,Cafe Royal,100\n") {
		t.Fatalf("expected folded match:\n%s", out)
	}
}

func TestCLI_NullsAndDiff(t *testing.T) {
	home := isolate(t)
	p := write(t, home, "gaps.csv", "a,b\n1,\n,\n3,4\n")
	out := runCmd(t, "nulls", p)
	if out != ",a,b\nnulls,1,2\n" {
		t.Fatalf("nulls:\n%s", out)
	}

	a := write(t, home, "a.csv", "id,name\n1,Oak\n2,Elm\n")
	b := write(t, home, "b.csv", "id,name\n2,Elm\n3,Ash\n")
	out = runCmd(t, "diff", a, b, "--keep", "both", "--keep-indicator")
	if out != "id,name,_merge\n1,Oak,left_only\n3,Ash,right_only\n" {
		t.Fatalf("diff:\n%s", out)
	}
	if _, _, err := execute(t, "diff", a, b, "--indicator-values", "only"); err == nil {
		t.Fatalf("expected error for one indicator value")
	}
}

func TestCLI_Profile(t *testing.T) {
	home := isolate(t)
	p := write(t, home, "scores.csv", "group,score\nA,1\nA,2\nB,3\n")
	dest := filepath.Join(home, "scores.md")

	runCmd(t, "profile", p, "--group-by", "group", "-o", dest)
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	for _, s := range []string{"[TABLE SUMMARY]", "File: scores.csv", "- score: numeric", "group=A (n=2)"} {
		if !strings.Contains(string(b), s) {
			t.Fatalf("profile missing %q:\n%s", s, b)
		}
	}
	if _, _, err := execute(t, "profile", p, "--group-by", "region"); err == nil {
		t.Fatalf("expected unknown group error")
	}
}

func TestCLI_Dates(t *testing.T) {
	isolate(t)
	out := runCmd(t, "enddate", "2021/22", "2021")
	if out != "2021/22\t2022-03-31\n2021\t2021-12-31\n" {
		t.Fatalf("enddate:\n%s", out)
	}
	if out := runCmd(t, "fy", "2023"); out != "2022/23\n" {
		t.Fatalf("fy: %q", out)
	}
	if out := runCmd(t, "fy", "2023", "--month", "May"); out != "2023/24\n" {
		t.Fatalf("fy --month: %q", out)
	}
	if out := runCmd(t, "fy", "--reverse", "2022/23"); out != "2022\n" {
		t.Fatalf("fy --reverse: %q", out)
	}
}

func TestCLI_ConfigSetShowAndLogs(t *testing.T) {
	home := isolate(t)
	runCmd(t, "config", "set", "match_limit", "3")
	runCmd(t, "config", "set", "log_format", "json")
	if _, err := os.Stat(filepath.Join(home, ".dsutils", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}

	out, errOut, err := execute(t, "config", "show", "--debug")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "match_limit: 3\n") || !strings.Contains(out, "log_format: json\n") {
		t.Fatalf("show:\n%s", out)
	}
	if !strings.Contains(errOut, `"run_id":`) {
		t.Fatalf("expected json debug log with run_id, got:\n%s", errOut)
	}

	if _, _, err := execute(t, "config", "set", "match_limit", "zero"); err == nil {
		t.Fatalf("expected invalid int error")
	}
	if _, _, err := execute(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
