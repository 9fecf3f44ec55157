// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package lineage

import (
	"fmt"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/client"
)

// Direction selects which way a traversal walks the family graph.
type Direction int

const (
	// Ancestor walks from a person toward their parents, grandparents, and so on.
	Ancestor Direction = iota
	// Descendant walks from a person toward their children and grandchildren.
	Descendant
)

// String returns the lowercase direction name used in rendered output.
func (d Direction) String() string {
	if d == Descendant {
		return "descendants"
	}
	return "ancestors"
}

// Sex is the sex recorded for a person, used only to pick between
// sex-specific relationship terms.
type Sex int

const (
	SexUnknown Sex = iota
	SexFemale
	SexMale
)

// SexFromGender maps the record store's numeric gender field to a Sex.
func SexFromGender(gender int) Sex {
	switch gender {
	case client.GenderFemale:
		return SexFemale
	case client.GenderMale:
		return SexMale
	default:
		return SexUnknown
	}
}

// Label names the relationship of a relative found at the given generation
// distance from the origin. Ancestor terms are sex-specific when the sex is
// known (Father, Grandmother, "2x Great-Grandfather"); descendant terms are
// not (Child, Grandchild, "2x Great-Grandchild"). Distance zero is the origin
// itself. The function is total: every (direction, distance, sex) combination
// yields a label.
func Label(dir Direction, distance int, sex Sex) string {
	if distance <= 0 {
		return "Self"
	}

	if dir == Descendant {
		switch distance {
		case 1:
			return "Child"
		case 2:
			return "Grandchild"
		default:
			return fmt.Sprintf("%dx Great-Grandchild", distance-1)
		}
	}

	base := "Parent"
	switch sex {
	case SexMale:
		base = "Father"
	case SexFemale:
		base = "Mother"
	}

	switch distance {
	case 1:
		return base
	case 2:
		return "Grand" + lower(base)
	default:
		return fmt.Sprintf("%dx Great-Grand%s", distance-1, lower(base))
	}
}

// lower downcases the single ASCII leading letter of a base term so it can be
// glued onto a "Grand" prefix.
func lower(term string) string {
	if term == "" {
		return term
	}
	return string(term[0]|0x20) + term[1:]
}
