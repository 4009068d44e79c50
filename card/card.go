// Package card derives how a table card is drawn on the student dashboard.
package card

import "prom_seating_console/models"

type Variant int

const (
	Normal Variant = iota
	Full
	Viewing
	Mine
)

var variantNames = [...]string{"normal", "full", "viewing", "mine"}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

func (v Variant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

type Dim string

const (
	DimNone     Dim = ""
	DimDisabled Dim = "disabled"
	DimLoading  Dim = "loading"
)

// Input is everything a card's look depends on.
type Input struct {
	Table    models.Table
	Mine     bool
	Viewing  bool
	Loading  bool
	Disabled bool // set by the page, e.g. while a selection is in flight
}

type Appearance struct {
	Variant   Variant `json:"variant"`
	Dim       Dim     `json:"dim,omitempty"`
	Clickable bool    `json:"clickable"`
}

// Derive maps an input to exactly one variant. Precedence is
// mine > viewing > full > normal.
func Derive(in Input) Appearance {
	var a Appearance
	switch {
	case in.Mine:
		a.Variant = Mine
	case in.Viewing:
		a.Variant = Viewing
	case in.Table.IsFull:
		a.Variant = Full
	default:
		a.Variant = Normal
	}

	switch {
	case in.Disabled:
		if !in.Mine {
			a.Dim = DimDisabled
		}
	case in.Loading:
		a.Dim = DimLoading
	}
	a.Clickable = !in.Disabled && !in.Loading
	return a
}
