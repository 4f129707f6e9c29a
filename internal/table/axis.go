package table

import (
	"strings"
)

// Axis selects rows or columns.
type Axis int

const (
	Rows Axis = iota
	Columns
)

func (a Axis) String() string {
	switch a {
	case Rows:
		return "rows"
	case Columns:
		return "columns"
	default:
		return "invalid"
	}
}

// Validate returns a ValueError for anything other than Rows or Columns.
func (a Axis) Validate() error {
	if a != Rows && a != Columns {
		return &ValueError{Op: "axis", Msg: "axis must be rows or columns"}
	}
	return nil
}

// ParseAxis converts user input into an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "index", "rows", "row":
		return Rows, nil
	case "1", "columns", "column", "cols":
		return Columns, nil
	default:
		return 0, &ValueError{Op: "axis", Msg: "axis must be one of 0/1/index/columns, got " + s}
	}
}
