package placement

import (
	"slices"
	"strings"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/random"
)

// Rotation is the policy that decides which angles a word may be tried at.
type Rotation int

const (
	RotateNone            Rotation = iota // upright only
	RotateVertical                        // upright or turned 90° clockwise
	RotateFlippedVertical                 // upright or turned 90° counter-clockwise
	RotateEither                          // upright or either vertical
	RotateDiagonals                       // upright, vertical and 45° steps that stay readable
	RotateRandom                          // upright plus a few random angles per word
)

// randomAngles is how many extra angles RotateRandom draws per word.
const randomAngles = 4

var rotationNames = map[Rotation]string{
	RotateNone:            "none",
	RotateVertical:        "vertical",
	RotateFlippedVertical: "flipped-vertical",
	RotateEither:          "either",
	RotateDiagonals:       "diagonals",
	RotateRandom:          "random",
}

func (r Rotation) String() string {
	if s, ok := rotationNames[r]; ok {
		return s
	}
	return "unknown"
}

// RotationNames lists the accepted policy names.
func RotationNames() []string {
	names := make([]string, 0, len(rotationNames))
	for r := RotateNone; r <= RotateRandom; r++ {
		names = append(names, rotationNames[r])
	}
	return names
}

// ParseRotation parses a policy name. The empty string means none.
func ParseRotation(s string) (Rotation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RotateNone, nil
	}
	for r, name := range rotationNames {
		if name == s {
			return r, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidRotation, "unknown rotation %q (available: %s)",
		s, strings.Join(RotationNames(), ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rotation) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rotation) UnmarshalText(b []byte) error {
	v, err := ParseRotation(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Angles returns the candidate angles, in degrees, for one word in a
// shuffled order.
func (r Rotation) Angles(rng random.Source) []float64 {
	var angles []float64
	switch r {
	case RotateVertical:
		angles = []float64{0, 90}
	case RotateFlippedVertical:
		angles = []float64{0, 270}
	case RotateEither:
		angles = []float64{0, 90, 270}
	case RotateDiagonals:
		angles = []float64{0, 45, 90, 270, 315}
	case RotateRandom:
		angles = []float64{0}
		for range randomAngles {
			a := float64(rng.IntRange(1, 360))
			if !slices.Contains(angles, a) {
				angles = append(angles, a)
			}
		}
	default:
		return []float64{0}
	}
	return random.Shuffle(rng, angles)
}
