package wordfreq

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Entry is one word and its count.
type Entry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Table maps case-folded words to counts. The zero value is not usable; call
// [NewTable]. A Table is not safe for concurrent use.
type Table struct {
	counts map[string]int
	total  int
	fold   cases.Caser
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{counts: make(map[string]int), fold: cases.Fold()}
}

// FromMap builds a table from a word to count map, applying the same merge
// rule as [Table.Add]. Keys are visited in sorted order so the result is
// deterministic.
func FromMap(m map[string]int) *Table {
	t := NewTable()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		t.AddN(k, m[k])
	}
	return t
}

// Add counts one occurrence of word.
func (t *Table) Add(word string) { t.AddN(word, 1) }

// AddN counts n occurrences of word.
//
// If word ends in "s" and its stem is already a key, the stem is incremented.
// Otherwise, if the plural word+"s" is a key, the plural's count moves to word
// and the plural key is removed. Otherwise word is incremented.
func (t *Table) AddN(word string, n int) {
	word = t.fold.String(word)
	if word == "" || n <= 0 {
		return
	}
	t.total += n

	if stem, ok := strings.CutSuffix(word, "s"); ok && stem != "" {
		if _, exists := t.counts[stem]; exists {
			t.counts[stem] += n
			return
		}
	}
	plural := word + "s"
	if c, exists := t.counts[plural]; exists {
		delete(t.counts, plural)
		t.counts[word] += c + n
		return
	}
	t.counts[word] += n
}

// Merge adds every entry of o to t, in [Table.Entries] order.
func (t *Table) Merge(o *Table) {
	for _, e := range o.Entries() {
		t.AddN(e.Word, e.Count)
	}
}

// Count returns the count of word, or 0.
func (t *Table) Count(word string) int { return t.counts[t.fold.String(word)] }

// Len returns the number of distinct words.
func (t *Table) Len() int { return len(t.counts) }

// Total returns the number of tokens counted.
func (t *Table) Total() int { return t.total }

// Map returns a copy of the counts.
func (t *Table) Map() map[string]int {
	m := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		m[k] = v
	}
	return m
}

// Entries returns all entries sorted by descending count, then by word.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.counts))
	for w, c := range t.counts {
		out = append(out, Entry{Word: w, Count: c})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	return out
}

// Top returns the n most frequent entries. n <= 0 returns all of them.
func (t *Table) Top(n int) []Entry {
	e := t.Entries()
	if n > 0 && n < len(e) {
		e = e[:n]
	}
	return e
}
