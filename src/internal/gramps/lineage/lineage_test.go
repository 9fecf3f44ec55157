// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package lineage

import (
	"context"
	"errors"
	"testing"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves a fixed in-memory family graph. Handles absent from the
// maps resolve to an error, which is how the engine sees dead branches.
type fakeStore struct {
	people   map[string]*client.Person
	families map[string]*client.Family
}

func (s *fakeStore) Person(_ context.Context, handle string) (*client.Person, error) {
	if p, ok := s.people[handle]; ok {
		return p, nil
	}
	return nil, errors.New("person not found: " + handle)
}

func (s *fakeStore) Family(_ context.Context, handle string) (*client.Family, error) {
	if f, ok := s.families[handle]; ok {
		return f, nil
	}
	return nil, errors.New("family not found: " + handle)
}

func person(handle, grampsID, first string, opts ...func(*client.Person)) *client.Person {
	p := &client.Person{
		Handle:      handle,
		GrampsID:    grampsID,
		PrimaryName: client.Name{FirstName: first},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func childOf(families ...string) func(*client.Person) {
	return func(p *client.Person) { p.ParentFamilyList = families }
}

func parentIn(families ...string) func(*client.Person) {
	return func(p *client.Person) { p.FamilyList = families }
}

// threeGenerations builds a store where "self" has a father and mother, and
// the father in turn has a father (the paternal grandfather).
func threeGenerations() *fakeStore {
	return &fakeStore{
		people: map[string]*client.Person{
			"self":        person("self", "I0001", "Ada", childOf("F1")),
			"father":      person("father", "I0002", "Charles", childOf("F2")),
			"mother":      person("mother", "I0003", "Annabella"),
			"grandfather": person("grandfather", "I0004", "Timothy"),
		},
		families: map[string]*client.Family{
			"F1": {Handle: "F1", FatherHandle: "father", MotherHandle: "mother"},
			"F2": {Handle: "F2", FatherHandle: "grandfather"},
		},
	}
}

// flatten collects all relationship labels keyed by handle.
func flatten(r *Result) map[string]string {
	out := make(map[string]string)
	for _, gen := range r.Generations {
		for _, e := range gen.Entries {
			out[e.Handle] = e.Relationship
		}
	}
	return out
}

func TestAncestors(t *testing.T) {
	engine := NewEngine(threeGenerations())

	result, err := engine.Ancestors(context.Background(), "self", 5)
	require.NoError(t, err)

	assert.Equal(t, "ancestors", result.Direction)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 5, result.MaxGenerations)
	require.Len(t, result.Generations, 3)

	assert.Equal(t, map[string]string{
		"self":        "Self",
		"father":      "Father",
		"mother":      "Mother",
		"grandfather": "Grandfather",
	}, flatten(result))

	// Parents are discovered father first, in family order.
	gen1 := result.Generations[1]
	assert.Equal(t, 1, gen1.Number)
	require.Len(t, gen1.Entries, 2)
	assert.Equal(t, "Charles", gen1.Entries[0].Name)
	assert.Equal(t, "Annabella", gen1.Entries[1].Name)
}

func TestAncestorsGenerationBound(t *testing.T) {
	engine := NewEngine(threeGenerations())

	t.Run("bound below the graph depth cuts the walk", func(t *testing.T) {
		result, err := engine.Ancestors(context.Background(), "self", 1)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Total)
		labels := flatten(result)
		assert.NotContains(t, labels, "grandfather")
	})

	t.Run("bound zero returns only the origin", func(t *testing.T) {
		result, err := engine.Ancestors(context.Background(), "self", 0)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, map[string]string{"self": "Self"}, flatten(result))
	})

	t.Run("negative bound is treated as zero", func(t *testing.T) {
		result, err := engine.Ancestors(context.Background(), "self", -4)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, 0, result.MaxGenerations)
	})

	t.Run("oversized bound is clamped to the ceiling", func(t *testing.T) {
		result, err := engine.Ancestors(context.Background(), "self", 99)
		require.NoError(t, err)
		assert.Equal(t, MaxGenerations, result.MaxGenerations)
	})
}

func TestAncestorsCycleTerminates(t *testing.T) {
	// A corrupt graph where a person is recorded as their own father.
	store := &fakeStore{
		people: map[string]*client.Person{
			"ouro": person("ouro", "I0666", "Ouroboros", childOf("F1")),
		},
		families: map[string]*client.Family{
			"F1": {Handle: "F1", FatherHandle: "ouro"},
		},
	}

	result, err := NewEngine(store).Ancestors(context.Background(), "ouro", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total, "the cycle participant must appear exactly once")
	assert.Equal(t, map[string]string{"ouro": "Self"}, flatten(result))
}

func TestAncestorsFirstDiscoveryWins(t *testing.T) {
	// The same person is reachable at generation 1 (as mother) and again at
	// generation 2 through a second, corrupt family edge.
	store := &fakeStore{
		people: map[string]*client.Person{
			"self":   person("self", "I0001", "Ada", childOf("F1")),
			"father": person("father", "I0002", "Charles", childOf("F2")),
			"mother": person("mother", "I0003", "Annabella"),
		},
		families: map[string]*client.Family{
			"F1": {Handle: "F1", FatherHandle: "father", MotherHandle: "mother"},
			"F2": {Handle: "F2", MotherHandle: "mother"},
		},
	}

	result, err := NewEngine(store).Ancestors(context.Background(), "self", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)

	labels := flatten(result)
	assert.Equal(t, "Mother", labels["mother"], "the shallower label must win")
}

func TestAncestorsDeadBranches(t *testing.T) {
	t.Run("unresolvable origin yields an empty result", func(t *testing.T) {
		result, err := NewEngine(&fakeStore{}).Ancestors(context.Background(), "nobody", 5)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Total)
		assert.Empty(t, result.Generations)
	})

	t.Run("unresolvable parent prunes only that branch", func(t *testing.T) {
		store := threeGenerations()
		delete(store.people, "father")

		result, err := NewEngine(store).Ancestors(context.Background(), "self", 5)
		require.NoError(t, err)

		labels := flatten(result)
		assert.NotContains(t, labels, "father")
		// Nothing beyond the dead branch either: the grandfather is only
		// reachable through the father.
		assert.NotContains(t, labels, "grandfather")
		assert.Equal(t, "Mother", labels["mother"], "the sibling branch survives")
	})

	t.Run("unresolvable family prunes only that family", func(t *testing.T) {
		store := threeGenerations()
		delete(store.families, "F2")

		result, err := NewEngine(store).Ancestors(context.Background(), "self", 5)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Total)
		assert.NotContains(t, flatten(result), "grandfather")
	})
}

func TestDescendants(t *testing.T) {
	store := &fakeStore{
		people: map[string]*client.Person{
			"self":       person("self", "I0001", "Ada", parentIn("F1")),
			"child-a":    person("child-a", "I0005", "Byron", parentIn("F2")),
			"child-b":    person("child-b", "I0006", "Anne"),
			"grandchild": person("grandchild", "I0007", "Judith"),
		},
		families: map[string]*client.Family{
			"F1": {Handle: "F1", ChildRefList: []client.ChildRef{{Ref: "child-a"}, {Ref: "child-b"}}},
			"F2": {Handle: "F2", ChildRefList: []client.ChildRef{{Ref: "grandchild"}}},
		},
	}

	result, err := NewEngine(store).Descendants(context.Background(), "self", 5)
	require.NoError(t, err)

	assert.Equal(t, "descendants", result.Direction)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, map[string]string{
		"self":       "Self",
		"child-a":    "Child",
		"child-b":    "Child",
		"grandchild": "Grandchild",
	}, flatten(result))
}

func TestTraversalCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(threeGenerations()).Ancestors(ctx, "self", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
