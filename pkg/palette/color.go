// Package palette parses colors and hands them out to words.
//
// A [Selector] walks a palette that was shuffled once with the run's random
// source, so the same seed always assigns the same colors. Colors that are
// too close to a reference color, usually the background, are skipped.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Color is an RGB color with straight alpha in [0, 1].
type Color struct {
	colorful.Color
	Alpha float64
}

// Transparent is the fully transparent color.
var Transparent = Color{}

// Opaque wraps c with full alpha.
func Opaque(c colorful.Color) Color { return Color{Color: c, Alpha: 1} }

// IsTransparent reports whether c is fully transparent.
func (c Color) IsTransparent() bool { return c.Alpha <= 0 }

// Hex returns "#rrggbb", "#rrggbbaa" when partially transparent, or "none".
func (c Color) Hex() string {
	switch {
	case c.IsTransparent():
		return "none"
	case c.Alpha >= 1:
		return c.Color.Clamped().Hex()
	}
	return fmt.Sprintf("%s%02x", c.Color.Clamped().Hex(), uint8(math.Round(c.Alpha*255)))
}

func (c Color) String() string { return c.Hex() }

// RGBA implements color.Color with premultiplied alpha.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts c to a non-premultiplied 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	if c.IsTransparent() {
		return color.NRGBA{}
	}
	r, g, b := c.Color.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(min(c.Alpha, 1) * 255))}
}

// MarshalText encodes c as its Hex form.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText parses any form accepted by [Parse].
func (c *Color) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Parse reads "#rgb", "#rrggbb", "#rrggbbaa", a CSS color name, or
// "transparent" / "none".
func Parse(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return Color{}, errors.New(errors.ErrCodeInvalidColor, "empty color")
	case "transparent", "none":
		return Transparent, nil
	}
	if rgba, ok := colornames.Map[s]; ok {
		c, _ := colorful.MakeColor(rgba)
		return Opaque(c), nil
	}
	if !strings.HasPrefix(s, "#") {
		return Color{}, errors.New(errors.ErrCodeInvalidColor, "unknown color %q", s)
	}

	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid alpha in %q", s)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	return Color{Color: c, Alpha: alpha}, nil
}

// ParseList parses a comma or whitespace separated list of colors.
func ParseList(s string) ([]Color, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	out := make([]Color, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidColor, "empty color list")
	}
	return out, nil
}

// MustParse is Parse for constants; it panics on error.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Distinctness thresholds, in HSV space with hue measured in turns.
const (
	MinHueDelta        = 0.1
	MinValueDelta      = 0.25
	MinSaturationDelta = 0.35

	// Hue is ignored for colors this close to grey or black.
	hueFloor = 0.2
)

// Distinct reports whether a stands out against b. Transparent colors are
// never distinct.
func Distinct(a, b Color) bool {
	if a.IsTransparent() {
		return false
	}
	if b.IsTransparent() {
		return true
	}
	h1, s1, v1 := a.Color.Clamped().Hsv()
	h2, s2, v2 := b.Color.Clamped().Hsv()

	if math.Abs(v1-v2) >= MinValueDelta || math.Abs(s1-s2) >= MinSaturationDelta {
		return true
	}
	if min(s1, s2, v1, v2) < hueFloor {
		return false
	}
	dh := math.Abs(h1-h2) / 360
	return min(dh, 1-dh) >= MinHueDelta
}
