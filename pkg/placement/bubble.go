package placement

import (
	"math"
	"strings"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/geom"
)

// Bubble is the optional shape drawn behind each word.
type Bubble int

const (
	BubbleNone Bubble = iota
	BubbleRectangle
	BubbleSquare
	BubbleCircle
	BubbleOval
)

var bubbleNames = []string{"none", "rectangle", "square", "circle", "oval"}

func (b Bubble) String() string {
	if int(b) < len(bubbleNames) && b >= 0 {
		return bubbleNames[b]
	}
	return "unknown"
}

// BubbleNames lists the accepted bubble names.
func BubbleNames() []string { return append([]string(nil), bubbleNames...) }

// ParseBubble parses a bubble name. The empty string means none.
func ParseBubble(s string) (Bubble, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BubbleNone, nil
	}
	for i, name := range bubbleNames {
		if name == s {
			return Bubble(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidBubble, "unknown bubble %q (available: %s)",
		s, strings.Join(bubbleNames, ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (b Bubble) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bubble) UnmarshalText(text []byte) error {
	v, err := ParseBubble(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Build writes the bubble enclosing box, with pad of clearance, into dst.
// It reports false for BubbleNone.
func (b Bubble) Build(dst *geom.Path, box geom.Rect, pad float64) bool {
	dst.Reset()
	c := box.Center()
	w, h := box.Width()/2+pad, box.Height()/2+pad
	switch b {
	case BubbleRectangle:
		dst.Rectangle(box.Inflate(pad, pad))
	case BubbleSquare:
		s := max(w, h)
		dst.Rectangle(geom.Rect{MinX: c.X - s, MinY: c.Y - s, MaxX: c.X + s, MaxY: c.Y + s})
	case BubbleCircle:
		r := math.Hypot(box.Width()/2, box.Height()/2) + pad
		dst.Ellipse(c, r, r)
	case BubbleOval:
		// The smallest axis-aligned ellipse of the box's proportions that
		// contains its corners is the box scaled by sqrt(2).
		dst.Ellipse(c, box.Width()/2*math.Sqrt2+pad, box.Height()/2*math.Sqrt2+pad)
	default:
		return false
	}
	return true
}
