// Package roster orders the staff assignment table.
package roster

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"prom_seating_console/models"
)

type Column string

const (
	ColumnLastName  Column = "last_name"
	ColumnFirstName Column = "first_name"
	ColumnEmail     Column = "email"
	ColumnTable     Column = "assigned_table_number"
)

var Columns = []Column{ColumnLastName, ColumnFirstName, ColumnEmail, ColumnTable}

func ParseColumn(s string) (Column, error) {
	c := Column(strings.TrimSpace(s))
	if !slices.Contains(Columns, c) {
		return "", fmt.Errorf("unknown sort column %q", s)
	}
	return c, nil
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// State is the active sort. The zero value keeps server order.
type State struct {
	Column    Column    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Toggle applies a header click: the active column flips direction, any
// other column starts ascending.
func (s State) Toggle(c Column) State {
	if s.Column == c && s.Direction == Asc {
		return State{Column: c, Direction: Desc}
	}
	return State{Column: c, Direction: Asc}
}

// Sort returns a sorted copy of rows. Strings compare by code point. Rows
// without a table always go last when sorting by table.
func (s State) Sort(rows []models.Assignment) []models.Assignment {
	out := slices.Clone(rows)
	if s.Column == "" {
		return out
	}
	sign := 1
	if s.Direction == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b models.Assignment) int {
		if s.Column == ColumnTable {
			switch {
			case a.AssignedTableNumber == nil && b.AssignedTableNumber == nil:
				return 0
			case a.AssignedTableNumber == nil:
				return 1
			case b.AssignedTableNumber == nil:
				return -1
			}
			return sign * cmp.Compare(*a.AssignedTableNumber, *b.AssignedTableNumber)
		}
		return sign * strings.Compare(field(a, s.Column), field(b, s.Column))
	})
	return out
}

func field(a models.Assignment, c Column) string {
	switch c {
	case ColumnFirstName:
		return a.FirstName
	case ColumnEmail:
		return a.Email
	default:
		return a.LastName
	}
}
