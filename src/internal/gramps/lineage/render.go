// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package lineage

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderTable renders a traversal result as a formatted markdown table, one
// row per discovered relative, grouped by generation.
func (r *Result) RenderTable() string {
	if r.Total == 0 {
		return "No relatives found"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	table.Header([]string{"Gen", "Relationship", "Name", "ID", "Handle"})

	for _, gen := range r.Generations {
		for _, entry := range gen.Entries {
			table.Append([]string{
				fmt.Sprintf("%d", gen.Number),
				entry.Relationship,
				entry.Name,
				entry.GrampsID,
				entry.Handle,
			})
		}
	}

	table.Render()
	return buf.String()
}

// RenderTree renders a traversal result as an ASCII tree diagram, one branch
// per generation with the relatives listed under it.
func (r *Result) RenderTree() string {
	if r.Total == 0 {
		return "No relatives found"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s (%d found, %d generation bound)\n",
		r.Direction, r.Total, r.MaxGenerations))

	for i, gen := range r.Generations {
		lastGen := i == len(r.Generations)-1

		genConnector := "├── "
		childPrefix := "│   "
		if lastGen {
			genConnector = "└── "
			childPrefix = "    "
		}
		result.WriteString(fmt.Sprintf("%sGeneration %d\n", genConnector, gen.Number))

		for j, entry := range gen.Entries {
			connector := "├── "
			if j == len(gen.Entries)-1 {
				connector = "└── "
			}
			result.WriteString(fmt.Sprintf("%s%s%s (%s)\n",
				childPrefix, connector, entry.Name, entry.Relationship))
		}
	}

	return result.String()
}
