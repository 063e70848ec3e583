package trigram

import (
	"cmp"
	"iter"
	"slices"
)

// Entry is a trigram and the number of times it was seen
type Entry struct {
	Trigram string `json:"trigram"`
	Count   int    `json:"count"`
}

// Table counts trigram occurrences. The zero value is not usable; use NewTable.
type Table struct {
	counts map[string]int
	total  int
}

// NewTable creates an empty frequency table
func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Add records one occurrence of trigram
func (t *Table) Add(trigram string) {
	t.counts[trigram]++
	t.total++
}

// AddAll records every trigram in seq
func (t *Table) AddAll(seq iter.Seq[string]) {
	for trigram := range seq {
		t.Add(trigram)
	}
}

// Count returns the occurrences of trigram
func (t *Table) Count(trigram string) int {
	return t.counts[trigram]
}

// Total is the number of trigrams added, the sum of all counts
func (t *Table) Total() int {
	return t.total
}

// Len is the number of distinct trigrams
func (t *Table) Len() int {
	return len(t.counts)
}

// Ranked returns all entries by count descending. Equal counts are ordered
// by trigram ascending so the result does not depend on insertion order.
func (t *Table) Ranked() []Entry {
	entries := make([]Entry, 0, len(t.counts))
	for trigram, count := range t.counts {
		entries = append(entries, Entry{Trigram: trigram, Count: count})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}

		return cmp.Compare(a.Trigram, b.Trigram)
	})

	return entries
}

// Top returns the first k ranked entries, or all of them if k exceeds Len
func (t *Table) Top(k int) []Entry {
	ranked := t.Ranked()
	if k < 0 {
		k = 0
	}

	if k < len(ranked) {
		ranked = ranked[:k]
	}

	return ranked
}

// Trigrams returns the trigram text of each entry, in order
func Trigrams(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Trigram
	}

	return out
}
