// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Gender values as stored by the record store.
const (
	GenderFemale  = 0
	GenderMale    = 1
	GenderUnknown = 2
)

// Surname is one surname component of a personal name. A name may carry
// several (patronymic plus family name, for example); the primary one is
// flagged.
type Surname struct {
	Surname string `json:"surname"`
	Prefix  string `json:"prefix,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

// Name is the structured personal name of a person record.
type Name struct {
	FirstName   string    `json:"first_name"`
	SurnameList []Surname `json:"surname_list,omitempty"`
}

// Person is a person record. Handle is the opaque, stable identifier assigned
// by the record store; GrampsID is the separate user-editable display
// identifier. FamilyList holds handles of families where this person is a
// parent, ParentFamilyList handles of families where this person is a child.
// Those two lists are the only edges the lineage engine follows.
type Person struct {
	Handle           string   `json:"handle"`
	GrampsID         string   `json:"gramps_id"`
	Gender           int      `json:"gender"`
	PrimaryName      Name     `json:"primary_name"`
	FamilyList       []string `json:"family_list,omitempty"`
	ParentFamilyList []string `json:"parent_family_list,omitempty"`
}

// DisplayName renders the person's primary name as "First Surname",
// tolerating records with either part missing.
func (p *Person) DisplayName() string {
	var parts []string
	if p.PrimaryName.FirstName != "" {
		parts = append(parts, p.PrimaryName.FirstName)
	}
	for _, s := range p.PrimaryName.SurnameList {
		if s.Primary || len(p.PrimaryName.SurnameList) == 1 {
			name := s.Surname
			if s.Prefix != "" {
				name = s.Prefix + " " + name
			}
			if name != "" {
				parts = append(parts, name)
			}
			break
		}
	}
	if len(parts) == 0 {
		return p.GrampsID
	}
	return strings.Join(parts, " ")
}

// ChildRef links a child into a family, qualified by the child's relationship
// to each parent (Birth, Adopted, Stepchild, Foster, Unknown).
type ChildRef struct {
	Ref       string `json:"ref"`
	FatherRel string `json:"frel,omitempty"`
	MotherRel string `json:"mrel,omitempty"`
}

// Family is a family record: a hyperedge connecting up to two parents and any
// number of children. Either parent handle may be absent. It is the only path
// by which the lineage engine moves between generations.
type Family struct {
	Handle       string     `json:"handle"`
	GrampsID     string     `json:"gramps_id"`
	FatherHandle string     `json:"father_handle,omitempty"`
	MotherHandle string     `json:"mother_handle,omitempty"`
	ChildRefList []ChildRef `json:"child_ref_list,omitempty"`
}

// DisplayQualifier normalizes a child-relationship qualifier coming back from
// the store ("birth", "ADOPTED") to its canonical display form ("Birth",
// "Adopted"). Empty qualifiers read as Unknown.
func DisplayQualifier(q string) string {
	if q == "" {
		return "Unknown"
	}
	return cases.Title(language.English).String(strings.ToLower(q))
}
