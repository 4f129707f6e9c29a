// Package fuzzy scores approximate string similarity on a 0-100 scale and
// matches the rows of one table against a column of another.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Scorer returns the similarity of a and b between 0 and 100.
type Scorer func(a, b string) float64

// indel returns the insertion/deletion distance between a and b, which is
// len(a)+len(b) minus twice their longest common subsequence.
func indel(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return len(a) + len(b) - 2*prev[len(b)]
}

func ratioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 100 * (1 - float64(indel(a, b))/float64(total))
}

// Ratio is the normalised indel similarity of a and b.
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

// PartialRatio is the best Ratio between the shorter string and any
// equally long window of the longer one, including windows clipped at
// either end.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		if len(ra) == len(rb) {
			return 100
		}
		return 0
	}
	if len(ra) == len(rb) {
		return max(partialRunes(ra, rb), partialRunes(rb, ra))
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	return partialRunes(ra, rb)
}

func partialRunes(short, long []rune) float64 {
	n := len(short)
	best := 0.0
	try := func(w []rune) bool {
		if s := ratioRunes(short, w); s > best {
			best = s
		}
		return best == 100
	}
	for i := 1; i < n; i++ {
		if try(long[:i]) {
			return best
		}
	}
	for i := 0; i+n <= len(long); i++ {
		if try(long[i : i+n]) {
			return best
		}
	}
	for i := len(long) - n + 1; i < len(long); i++ {
		if i > 0 && try(long[i:]) {
			return best
		}
	}
	return best
}

func sortedTokens(s string) []string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return toks
}

// TokenSortRatio compares a and b after sorting their whitespace tokens.
func TokenSortRatio(a, b string) float64 {
	return Ratio(strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " "))
}

// tokenSets returns the shared tokens and the tokens unique to each side,
// each sorted and deduplicated.
func tokenSets(a, b string) (sect, onlyA, onlyB []string) {
	inA := map[string]bool{}
	for _, t := range strings.Fields(a) {
		inA[t] = true
	}
	inB := map[string]bool{}
	for _, t := range strings.Fields(b) {
		inB[t] = true
	}
	for t := range inA {
		if inB[t] {
			sect = append(sect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range inB {
		if !inA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(sect)
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return sect, onlyA, onlyB
}

// TokenSetRatio compares the shared tokens of a and b with the shared tokens
// plus each side's remainder, returning the best of the three pairings.
func TokenSetRatio(a, b string) float64 {
	sect, onlyA, onlyB := tokenSets(a, b)
	if len(sect) == 0 && len(onlyA) == 0 && len(onlyB) == 0 {
		return 0
	}
	if len(sect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}
	base := strings.Join(sect, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))
	best := Ratio(withA, withB)
	if base != "" {
		best = max(best, Ratio(base, withA), Ratio(base, withB))
	}
	return best
}

func partialTokenRatio(a, b string) float64 {
	sect, _, _ := tokenSets(a, b)
	if len(sect) > 0 {
		return 100
	}
	return PartialRatio(strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " "))
}

// WRatio weighs Ratio, the token ratios and, for strings of very different
// lengths, the partial ratios, returning the strongest.
func WRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	const unbase = 0.95
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))
	best := Ratio(a, b)
	if lenRatio < 1.5 {
		return max(best, max(TokenSortRatio(a, b), TokenSetRatio(a, b))*unbase)
	}
	partial := 0.9
	if lenRatio >= 8 {
		partial = 0.6
	}
	best = max(best, PartialRatio(a, b)*partial)
	return max(best, partialTokenRatio(a, b)*unbase*partial)
}

// Scorers maps names accepted on the command line to built-in scorers.
var Scorers = map[string]Scorer{
	"ratio":            Ratio,
	"partial_ratio":    PartialRatio,
	"token_sort_ratio": TokenSortRatio,
	"token_set_ratio":  TokenSetRatio,
	"wratio":           WRatio,
}

// DefaultProcess lowercases s, replaces every non-alphanumeric character with
// a space and trims the result. Accented letters are kept as they are.
func DefaultProcess(s string) string {
	lowered := cases.Lower(language.Und).String(s)
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, lowered)
	return strings.TrimSpace(mapped)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldProcess strips combining marks from s, so "Café" becomes "Cafe", and
// then applies DefaultProcess.
func FoldProcess(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return DefaultProcess(folded)
}
