package trigram

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Ranked(t *testing.T) {
	table := NewTable()
	for _, tri := range []string{"b b b", "a a a", "c c c", "a a a", "c c c", "a a a"} {
		table.Add(tri)
	}

	assert.Equal(t, []Entry{
		{Trigram: "a a a", Count: 3},
		{Trigram: "c c c", Count: 2},
		{Trigram: "b b b", Count: 1},
	}, table.Ranked())
	assert.Equal(t, 6, table.Total())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 2, table.Count("c c c"))
	assert.Equal(t, 0, table.Count("missing"))
}

func TestTable_TiesBreakLexicographically(t *testing.T) {
	table := NewTable()
	table.AddAll(slices.Values([]string{"zeta x y", "Alpha x y", "alpha x y", "beta x y"}))

	assert.Equal(t, []string{"Alpha x y", "alpha x y", "beta x y", "zeta x y"}, Trigrams(table.Ranked()))
}

func TestTable_OrderIndependent(t *testing.T) {
	input := []string{"p q r", "s t u", "p q r", "v w x", "s t u", "p q r"}

	forward := NewTable()
	forward.AddAll(slices.Values(input))

	reversed := slices.Clone(input)
	slices.Reverse(reversed)

	backward := NewTable()
	backward.AddAll(slices.Values(reversed))

	assert.Equal(t, forward.Ranked(), backward.Ranked())
}

func TestTable_TotalMatchesIndexedCount(t *testing.T) {
	errs := []string{
		"Error in if (x) : missing value",
		"Error: object 'x' not found",
		"Error: boom",
		"",
		"Error in f(x) : could not find function \"g\"",
	}

	table := NewTable()
	table.AddAll(IndexAll(errs))

	expected := 0
	for _, e := range errs {
		expected += Count(e)
	}

	sum := 0
	for _, entry := range table.Ranked() {
		sum += entry.Count
	}

	require.Equal(t, expected, table.Total())
	assert.Equal(t, expected, sum)
}

func TestTable_Top(t *testing.T) {
	table := NewTable()
	table.AddAll(slices.Values([]string{"a a a", "a a a", "b b b", "c c c"}))

	tests := []struct {
		name     string
		k        int
		expected []string
	}{
		{name: "zero", k: 0, expected: []string{}},
		{name: "negative", k: -1, expected: []string{}},
		{name: "two", k: 2, expected: []string{"a a a", "b b b"}},
		{name: "more than available", k: 10, expected: []string{"a a a", "b b b", "c c c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Trigrams(table.Top(tt.k)))
		})
	}
}

func TestTable_Empty(t *testing.T) {
	table := NewTable()

	assert.Empty(t, table.Ranked())
	assert.Equal(t, 0, table.Total())
}
