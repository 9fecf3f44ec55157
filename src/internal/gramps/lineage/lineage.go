// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package lineage

import (
	"context"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/client"
)

// MaxGenerations is the hard ceiling on traversal depth. Each generation can
// in principle double the frontier, so the bound keeps worst-case fan-out
// tractable regardless of what the caller asks for.
const MaxGenerations = 10

// Store fetches person and family records by handle. *client.Client satisfies
// it; tests substitute an in-memory graph.
type Store interface {
	Person(ctx context.Context, handle string) (*client.Person, error)
	Family(ctx context.Context, handle string) (*client.Family, error)
}

// Entry is one relative discovered by a traversal.
type Entry struct {
	Handle       string `json:"handle"`
	GrampsID     string `json:"gramps_id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Generation   int    `json:"generation"`
}

// Generation groups the entries discovered at one generation distance from
// the origin. Entries stay in discovery order.
type Generation struct {
	Number  int     `json:"generation"`
	Entries []Entry `json:"entries"`
}

// Result is the outcome of one traversal: entries grouped by generation
// (empty generations omitted), the total entry count, and the generation
// bound actually applied after clamping.
type Result struct {
	Direction      string       `json:"direction"`
	Generations    []Generation `json:"generations"`
	Total          int          `json:"total"`
	MaxGenerations int          `json:"max_generations"`
}

// Engine walks the family graph breadth-first through a Store. It holds no
// state between traversals; one Engine may serve any number of concurrent
// calls as long as the Store allows it.
type Engine struct {
	store Store
}

// NewEngine creates a traversal engine over the given record store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Ancestors walks from the person identified by handle toward their parents,
// up to maxGenerations levels deep.
func (e *Engine) Ancestors(ctx context.Context, handle string, maxGenerations int) (*Result, error) {
	return e.traverse(ctx, handle, maxGenerations, Ancestor)
}

// Descendants walks from the person identified by handle toward their
// children, up to maxGenerations levels deep.
func (e *Engine) Descendants(ctx context.Context, handle string, maxGenerations int) (*Result, error) {
	return e.traverse(ctx, handle, maxGenerations, Descendant)
}

// frontier is one queued traversal step. The label is computed at enqueue
// time from the direction and the generation distance.
type frontier struct {
	handle     string
	generation int
	label      string
}

// traverse runs the generation-bounded breadth-first walk. The externally
// supplied family graph is not guaranteed acyclic, so the visited-set and the
// generation bound together are what guarantee termination; neither may be
// skipped. A fetch failure for any single person or family prunes that branch
// silently and the walk continues elsewhere. Only context cancellation aborts
// the whole traversal.
func (e *Engine) traverse(ctx context.Context, handle string, maxGenerations int, dir Direction) (*Result, error) {
	if maxGenerations > MaxGenerations {
		maxGenerations = MaxGenerations
	}
	if maxGenerations < 0 {
		maxGenerations = 0
	}

	queue := []frontier{{handle: handle, generation: 0, label: "Self"}}
	visited := make(map[string]bool)
	byGeneration := make(map[int][]Entry)
	total := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cur := queue[0]
		queue = queue[1:]

		// A relative reached again through a longer path is dropped; FIFO
		// order means the first visit was at the shallowest generation.
		if visited[cur.handle] || cur.generation > maxGenerations {
			continue
		}
		visited[cur.handle] = true

		person, err := e.store.Person(ctx, cur.handle)
		if err != nil {
			// Dead branch: an unresolvable person (including the origin)
			// is simply absent from the result.
			continue
		}

		byGeneration[cur.generation] = append(byGeneration[cur.generation], Entry{
			Handle:       person.Handle,
			GrampsID:     person.GrampsID,
			Name:         person.DisplayName(),
			Relationship: cur.label,
			Generation:   cur.generation,
		})
		total++

		if cur.generation < maxGenerations {
			queue = append(queue, e.expand(ctx, person, cur.generation+1, dir, visited)...)
		}
	}

	var generations []Generation
	for g := 0; g <= maxGenerations; g++ {
		if entries, ok := byGeneration[g]; ok {
			generations = append(generations, Generation{Number: g, Entries: entries})
		}
	}

	return &Result{
		Direction:      dir.String(),
		Generations:    generations,
		Total:          total,
		MaxGenerations: maxGenerations,
	}, nil
}

// expand fetches the families linking person to the next generation and
// returns the unvisited relatives found there. Ancestor traversal follows the
// families where the person is a child; descendant traversal follows the
// families where the person is a parent. A family that cannot be fetched
// prunes only that family.
func (e *Engine) expand(ctx context.Context, person *client.Person, nextGeneration int, dir Direction, visited map[string]bool) []frontier {
	var next []frontier

	if dir == Ancestor {
		for _, familyHandle := range person.ParentFamilyList {
			family, err := e.store.Family(ctx, familyHandle)
			if err != nil {
				continue
			}
			if family.FatherHandle != "" && !visited[family.FatherHandle] {
				next = append(next, frontier{
					handle:     family.FatherHandle,
					generation: nextGeneration,
					label:      Label(Ancestor, nextGeneration, SexMale),
				})
			}
			if family.MotherHandle != "" && !visited[family.MotherHandle] {
				next = append(next, frontier{
					handle:     family.MotherHandle,
					generation: nextGeneration,
					label:      Label(Ancestor, nextGeneration, SexFemale),
				})
			}
		}
		return next
	}

	for _, familyHandle := range person.FamilyList {
		family, err := e.store.Family(ctx, familyHandle)
		if err != nil {
			continue
		}
		for _, ref := range family.ChildRefList {
			if ref.Ref == "" || visited[ref.Ref] {
				continue
			}
			next = append(next, frontier{
				handle:     ref.Ref,
				generation: nextGeneration,
				label:      Label(Descendant, nextGeneration, SexUnknown),
			})
		}
	}
	return next
}
