package palette

import (
	"slices"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/random"
)

// Selector hands out palette colors in a seeded order, wrapping around when
// the palette is exhausted. It is not safe for concurrent use.
type Selector struct {
	colors []Color
	cursor int
}

// NewSelector shuffles a copy of colors once with rng and keeps at most
// limit of them (limit <= 0 keeps all). Transparent colors are dropped.
func NewSelector(colors []Color, rng random.Source, limit int) (*Selector, error) {
	cs := slices.DeleteFunc(slices.Clone(colors), Color.IsTransparent)
	if len(cs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidColor, "palette has no visible colors")
	}
	random.Shuffle(rng, cs)
	if limit > 0 && limit < len(cs) {
		cs = cs[:limit]
	}
	return &Selector{colors: cs}, nil
}

// Colors returns the palette in selection order.
func (s *Selector) Colors() []Color { return slices.Clone(s.colors) }

// Len returns the number of colors in the palette.
func (s *Selector) Len() int { return len(s.colors) }

// Next returns the color under the cursor and advances it.
func (s *Selector) Next() Color {
	c := s.colors[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.colors)
	return c
}

// MaxAttempts is how many colors NextDistinctFrom inspects before giving up:
// two full turns of the palette.
func (s *Selector) MaxAttempts() int { return 2 * len(s.colors) }

// NextDistinctFrom advances until it finds a color [Distinct] from ref.
// A palette where every color is too close to ref fails with
// [errors.ErrCodeNoDistinctColor] after [Selector.MaxAttempts] colors.
func (s *Selector) NextDistinctFrom(ref Color) (Color, error) {
	for range s.MaxAttempts() {
		if c := s.Next(); Distinct(c, ref) {
			return c, nil
		}
	}
	return Color{}, errors.New(errors.ErrCodeNoDistinctColor,
		"no palette color stands out against %s", ref.Hex())
}

// Monochrome collapses the palette to its first color that is distinct from
// ref, so every word gets the same color.
func (s *Selector) Monochrome(ref Color) error {
	c, err := s.NextDistinctFrom(ref)
	if err != nil {
		return err
	}
	s.colors, s.cursor = []Color{c}, 0
	return nil
}
