// Package cloud defines the word model shared by the sizing, placement and
// rendering stages.
package cloud

import (
	"cmp"
	"slices"

	"github.com/matzehuels/wordcloud/pkg/geom"
	"github.com/matzehuels/wordcloud/pkg/wordfreq"
)

// Word is one entry of the cloud.
//
// Text, Frequency and Focus come from counting. Size is set by the sizing
// stage. The remaining fields are only set once the placement search accepts
// the word, and the Word owns its Footprint and Bubble paths from then on.
type Word struct {
	Text      string  `json:"text" bson:"text"`
	Frequency float64 `json:"frequency" bson:"frequency"`
	Focus     bool    `json:"focus,omitempty" bson:"focus,omitempty"`
	Size      float64 `json:"size" bson:"size"`

	Placed   bool       `json:"placed" bson:"placed"`
	Position geom.Point `json:"position" bson:"position"` // center of Box
	Angle    float64    `json:"angle" bson:"angle"`
	Box      geom.Rect  `json:"box" bson:"box"`
	Color    string     `json:"color,omitempty" bson:"color,omitempty"`

	// BubbleColor is set only when Bubble is.
	BubbleColor string `json:"bubble_color,omitempty" bson:"bubble_color,omitempty"`

	Footprint *geom.Path `json:"-" bson:"-"`
	Bubble    *geom.Path `json:"-" bson:"-"`
}

// FromEntries builds words from counted entries. At most limit words are
// kept (limit <= 0 keeps all); entries are expected in descending count
// order, as [wordfreq.Table.Entries] returns them. The focus word, if any,
// is always kept and flagged.
func FromEntries(entries []wordfreq.Entry, focus string, limit int) []*Word {
	words := make([]*Word, 0, len(entries))
	var focused *Word
	for _, e := range entries {
		w := &Word{Text: e.Word, Frequency: float64(e.Count)}
		if focus != "" && e.Word == focus {
			w.Focus = true
			focused = w
		}
		words = append(words, w)
	}
	if limit > 0 && len(words) > limit {
		words = words[:limit]
		if focused != nil && !slices.Contains(words, focused) {
			words[limit-1] = focused
		}
	}
	return words
}

// FromMap builds words from a word to frequency map, sorted by descending
// frequency then text.
func FromMap(m map[string]float64) []*Word {
	words := make([]*Word, 0, len(m))
	for t, f := range m {
		words = append(words, &Word{Text: t, Frequency: f})
	}
	slices.SortFunc(words, func(a, b *Word) int {
		if c := cmp.Compare(b.Frequency, a.Frequency); c != 0 {
			return c
		}
		return cmp.Compare(a.Text, b.Text)
	})
	return words
}

// SortBySize orders words by descending size. Ties keep their order.
func SortBySize(words []*Word) {
	slices.SortStableFunc(words, func(a, b *Word) int {
		return cmp.Compare(b.Size, a.Size)
	})
}

// Padding returns the whitespace margin kept around a word of the given size.
// It grows with the size and always covers the stroke.
func Padding(size, scale, strokeWidth float64) float64 {
	return scale*size*0.1 + strokeWidth
}

// Placed returns the accepted words, in order.
func Placed(words []*Word) []*Word {
	out := make([]*Word, 0, len(words))
	for _, w := range words {
		if w.Placed {
			out = append(out, w)
		}
	}
	return out
}
