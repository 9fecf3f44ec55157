// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client_test

import (
	"testing"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/client"
	"github.com/stretchr/testify/assert"
)

func TestDisplayQualifier(t *testing.T) {
	tests := []struct {
		name      string
		qualifier string
		expected  string
	}{
		{"lowercase from the store", "birth", "Birth"},
		{"uppercase from the store", "ADOPTED", "Adopted"},
		{"already canonical", "Stepchild", "Stepchild"},
		{"mixed case", "fOsTeR", "Foster"},
		{"empty reads as unknown", "", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, client.DisplayQualifier(tt.qualifier))
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		person   client.Person
		expected string
	}{
		{
			name: "first name with primary surname",
			person: client.Person{
				PrimaryName: client.Name{
					FirstName: "Ada",
					SurnameList: []client.Surname{
						{Surname: "Byron"},
						{Surname: "Lovelace", Primary: true},
					},
				},
			},
			expected: "Ada Lovelace",
		},
		{
			name: "single surname needs no primary flag",
			person: client.Person{
				PrimaryName: client.Name{
					FirstName:   "Vincent",
					SurnameList: []client.Surname{{Surname: "Gogh", Prefix: "van"}},
				},
			},
			expected: "Vincent van Gogh",
		},
		{
			name: "first name only",
			person: client.Person{
				PrimaryName: client.Name{FirstName: "Ada"},
			},
			expected: "Ada",
		},
		{
			name: "surname only",
			person: client.Person{
				PrimaryName: client.Name{
					SurnameList: []client.Surname{{Surname: "Lovelace", Primary: true}},
				},
			},
			expected: "Lovelace",
		},
		{
			name: "empty name falls back to the display identifier",
			person: client.Person{
				GrampsID: "I0042",
			},
			expected: "I0042",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.person.DisplayName())
		})
	}
}
