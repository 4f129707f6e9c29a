// Package dates resolves the end date of period strings found in published
// statistics: calendar, financial and academic years, quarters, school terms
// and month ranges.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/philipnye/ds-utils/internal/table"
)

// Layouts understood by EndDate. They follow strftime notation, with %Q for
// a quarter and %T for a school term.
const (
	LayoutYear               = "%Y"
	LayoutYearPlusOne        = "%Y + 1"
	LayoutSplitYearSlash     = "%Y/%y"
	LayoutSplitYearDash      = "%Y-%y"
	LayoutYearQuarter        = "%Y %Q"
	LayoutSplitQuarterSlash  = "%Y/%y %Q"
	LayoutSplitQuarterDash   = "%Y-%y %Q"
	LayoutSchoolTerm         = "%Y-%y %T"
	LayoutThirtyFirstMarch   = "31-03-%Y"
	LayoutShortMonthRange    = "%b %y - %b %y"
	LayoutLongMonthRange     = "%B %Y - %B %Y"
	LayoutLongMonth          = "%B %Y"
	LayoutShortMonthYear     = "%b-%Y"
	LayoutShortMonthTwoDigit = "%b-%y"
	LayoutMonthSplitSlash    = "%B %Y/%y"
	LayoutMonthSplitDash     = "%B %Y-%y"
	LayoutDayMonthYear       = "%d/%m/%Y"
	LayoutDayShortMonthYear  = "%d-%b-%Y"
	LayoutISO                = "%Y-%m-%d"
)

var standard = map[string]string{
	LayoutDayMonthYear:      "02/01/2006",
	LayoutDayShortMonthYear: "02-Jan-2006",
	LayoutISO:               "2006-01-02",
	LayoutThirtyFirstMarch:  "02-01-2006",
}

// PredictLayout guesses the layout of s: a bare year or a slash-separated
// split year. It returns "" when neither fits.
func PredictLayout(s string) string {
	if len(s) == 4 {
		return LayoutYear
	}
	if len(s) == 7 {
		if a, b, ok := strings.Cut(s, "/"); ok && len(a) == 4 && len(b) == 2 {
			return LayoutSplitYearSlash
		}
	}
	return ""
}

// EndDate returns the last day of the period s written in layout. An empty
// layout is predicted. financialSep and academicSep say which separator
// ("/" or "-") marks a financial or an academic split year; financial years
// end on 31 March and academic years on 31 August.
func EndDate(s, layout, financialSep, academicSep string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if layout == "" {
		layout = PredictLayout(s)
	}
	switch {
	case layout == LayoutYear || layout == LayoutYearPlusOne:
		y, err := atoi(s, s)
		if err != nil {
			return time.Time{}, err
		}
		return day(y, time.December, 31), nil

	case (layout == LayoutSplitYearSlash && financialSep == "/") || (layout == LayoutSplitYearDash && financialSep == "-"):
		y, err := splitYearEnd(s)
		if err != nil {
			return time.Time{}, err
		}
		return day(y, time.March, 31), nil

	case (layout == LayoutSplitYearDash && academicSep == "-") || (layout == LayoutSplitYearSlash && academicSep == "/"):
		y, err := splitYearEnd(s)
		if err != nil {
			return time.Time{}, err
		}
		return day(y, time.August, 31), nil

	case layout == LayoutYearQuarter:
		y, err := leadingYear(s)
		if err != nil {
			return time.Time{}, err
		}
		if strings.HasSuffix(s, "All") {
			return day(y, time.December, 31), nil
		}
		q, err := quarter(s)
		if err != nil {
			return time.Time{}, err
		}
		return endOfMonth(y, time.Month(3*q)), nil

	case layout == LayoutSplitQuarterSlash || layout == LayoutSplitQuarterDash:
		y, err := leadingYear(s)
		if err != nil {
			return time.Time{}, err
		}
		if strings.HasSuffix(s, "All") {
			return day(y+1, time.March, 31), nil
		}
		q, err := quarter(s)
		if err != nil {
			return time.Time{}, err
		}
		if q == 4 {
			return day(y+1, time.March, 31), nil
		}
		return endOfMonth(y, time.Month(3*q+3)), nil

	case layout == LayoutSchoolTerm:
		return termEnd(s)

	case layout == LayoutShortMonthRange || layout == LayoutLongMonthRange:
		_, last, ok := strings.Cut(s, "-")
		if !ok {
			return time.Time{}, table.Errorf("end date", "%q is not a month range", s)
		}
		t, err := parseMonthYear(strings.TrimSpace(last))
		if err != nil {
			return time.Time{}, err
		}
		return endOfMonth(t.Year(), t.Month()), nil

	case layout == LayoutLongMonth || layout == LayoutShortMonthYear:
		t, err := parseMonthYear(strings.Replace(s, "-", " ", 1))
		if err != nil {
			return time.Time{}, err
		}
		return endOfMonth(t.Year(), t.Month()), nil

	case layout == LayoutShortMonthTwoDigit:
		if len(s) < 6 {
			return time.Time{}, table.Errorf("end date", "%q does not match %s", s, layout)
		}
		t, err := parseMonthYear(s[:3] + " 20" + s[len(s)-2:])
		if err != nil {
			return time.Time{}, err
		}
		return endOfMonth(t.Year(), t.Month()), nil

	case layout == LayoutMonthSplitSlash || layout == LayoutMonthSplitDash:
		if len(s) < 4 {
			return time.Time{}, table.Errorf("end date", "%q does not match %s", s, layout)
		}
		t, err := parseMonthYear(s[:len(s)-3])
		if err != nil {
			return time.Time{}, err
		}
		y := t.Year()
		if t.Month() <= time.March {
			y++
		}
		return endOfMonth(y, t.Month()), nil
	}

	if goLayout, ok := standard[layout]; ok {
		t, err := time.Parse(goLayout, s)
		if err != nil {
			return time.Time{}, table.Errorf("end date", "%q does not match %s: %v", s, layout, err)
		}
		return t, nil
	}
	return time.Time{}, table.Errorf("end date", "date layout %q not handled", layout)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(y int, m time.Month) time.Time {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}

func atoi(s, whole string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, table.Errorf("end date", "%q has no year in %q", whole, s)
	}
	return n, nil
}

func leadingYear(s string) (int, error) {
	if len(s) < 4 {
		return 0, table.Errorf("end date", "%q is too short for a year", s)
	}
	return atoi(s[:4], s)
}

// splitYearEnd turns "2022/23" into 2023.
func splitYearEnd(s string) (int, error) {
	if len(s) < 4 {
		return 0, table.Errorf("end date", "%q is not a split year", s)
	}
	return atoi(s[:2]+s[len(s)-2:], s)
}

func quarter(s string) (int, error) {
	q, err := strconv.Atoi(s[len(s)-1:])
	if err != nil || q < 1 || q > 4 {
		return 0, table.Errorf("end date", "%q does not end in a quarter 1-4", s)
	}
	return q, nil
}

// termEnd gives a notional end for a school term: 31 December for autumn,
// 30 April for spring and 31 August for summer.
func termEnd(s string) (time.Time, error) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "autumn"):
		y, err := leadingYear(s)
		if err != nil {
			return time.Time{}, err
		}
		return day(y, time.December, 31), nil
	case strings.Contains(lower, "spring"), strings.Contains(lower, "summer"):
		if len(s) < 7 {
			return time.Time{}, table.Errorf("end date", "%q is not a split year term", s)
		}
		y, err := atoi(s[:2]+s[5:7], s)
		if err != nil {
			return time.Time{}, err
		}
		if strings.Contains(lower, "spring") {
			return day(y, time.April, 30), nil
		}
		return day(y, time.August, 31), nil
	}
	return time.Time{}, table.Errorf("end date", "%q names no school term", s)
}

func parseMonthYear(s string) (time.Time, error) {
	for _, l := range []string{"January 2006", "Jan 2006"} {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, table.Errorf("end date", "%q is not a month and year", s)
}

var months = map[string]time.Month{}

func init() {
	for m := time.January; m <= time.December; m++ {
		months[strings.ToLower(m.String())] = m
		months[strings.ToLower(m.String()[:3])] = m
	}
}

// MonthNumber maps a full or abbreviated English month name to 1-12.
func MonthNumber(name string) (int, error) {
	m, ok := months[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, table.Errorf("month number", "unknown month %q", name)
	}
	return int(m), nil
}

// FinancialYear returns the April-to-March year containing the month, as
// "2021/22".
func FinancialYear(year, month int) (string, error) {
	if month < 1 || month > 12 {
		return "", table.Errorf("financial year", "month must be 1-12, got %d", month)
	}
	if month >= 4 {
		return fmt.Sprintf("%d/%02d", year, (year+1)%100), nil
	}
	return fmt.Sprintf("%d/%02d", year-1, year%100), nil
}

// YearToFinancialYear rewrites a calendar year as the split year ending in
// it ("2023" becomes "2022/23") or re-separates an existing split year.
func YearToFinancialYear(year, sep string) (string, error) {
	switch len(year) {
	case 4:
		y, err := strconv.Atoi(year)
		if err != nil {
			return "", table.Errorf("financial year", "%q is not a year", year)
		}
		return fmt.Sprintf("%d%s%s", y-1, sep, year[2:]), nil
	case 6, 7:
		return year[:4] + sep + year[len(year)-2:], nil
	}
	return "", table.Errorf("financial year", "%q is not a year or split year", year)
}

// FinancialYearToYear returns the first calendar year of a split year such
// as "2022/23" or "202223".
func FinancialYearToYear(year string) (string, error) {
	if n := len(year); n != 6 && n != 7 {
		return "", table.Errorf("financial year", "%q is not a split year", year)
	}
	return year[:4], nil
}
