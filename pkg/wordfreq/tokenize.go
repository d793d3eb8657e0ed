package wordfreq

import (
	"iter"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// DefaultMinLength is the shortest token kept by default.
const DefaultMinLength = 2

// TokenizerOptions configures a [Tokenizer].
type TokenizerOptions struct {
	// Include lists words that are always kept, even when they are stop words.
	Include []string
	// Exclude lists words that are always dropped.
	Exclude []string
	// AllowStopwords keeps common English stop words.
	AllowStopwords bool
	// MinLength drops tokens with fewer runes. Zero means DefaultMinLength.
	MinLength int
	// KeepNumbers keeps tokens made only of digits.
	KeepNumbers bool
}

// Tokenizer produces normalized word tokens. It is safe for concurrent use.
type Tokenizer struct {
	opts    TokenizerOptions
	include map[string]bool
	exclude map[string]bool
}

// NewTokenizer creates a Tokenizer.
func NewTokenizer(opts TokenizerOptions) *Tokenizer {
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	fold := cases.Fold()
	return &Tokenizer{
		opts:    opts,
		include: toSet(fold, opts.Include),
		exclude: toSet(fold, opts.Exclude),
	}
}

func toSet(fold cases.Caser, words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			m[fold.String(w)] = true
		}
	}
	return m
}

// Tokens returns the filtered tokens of text, case-folded, in order.
func (t *Tokenizer) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		fold := cases.Fold()
		for _, raw := range strings.FieldsFunc(text, isSeparator) {
			raw = strings.ReplaceAll(raw, "’", "'")
			w := fold.String(strings.Trim(raw, "'"))
			if !t.keep(w) {
				continue
			}
			if !yield(w) {
				return
			}
		}
	}
}

func (t *Tokenizer) keep(w string) bool {
	if w == "" || t.exclude[w] {
		return false
	}
	if t.include[w] {
		return true
	}
	if len([]rune(w)) < t.opts.MinLength {
		return false
	}
	if !t.opts.KeepNumbers && isNumber(w) {
		return false
	}
	return t.opts.AllowStopwords || !IsStopword(w)
}

// Count tokenizes text into a new table.
func (t *Tokenizer) Count(text string) *Table {
	tbl := NewTable()
	for w := range t.Tokens(text) {
		tbl.Add(w)
	}
	return tbl
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
}

func isNumber(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
