package palette

import (
	"slices"
	"strings"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// DefaultName is the palette used when none is configured.
const DefaultName = "default"

var palettes = map[string][]string{
	"default": {
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	},
	"pastel": {
		"#fbb4ae", "#b3cde3", "#ccebc5", "#decbe4", "#fed9a6",
		"#ffffcc", "#e5d8bd", "#fddaec", "#f2f2f2",
	},
	"ocean": {
		"#03045e", "#023e8a", "#0077b6", "#0096c7", "#00b4d8",
		"#48cae4", "#90e0ef", "#ade8f4",
	},
	"sunset": {
		"#f94144", "#f3722c", "#f8961e", "#f9844a", "#f9c74f",
		"#90be6d", "#43aa8b", "#577590",
	},
	"mono": {
		"#111111", "#333333", "#555555", "#777777", "#999999", "#bbbbbb",
	},
}

// Names lists the named palettes, sorted.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Named returns a copy of the named palette.
func Named(name string) ([]Color, error) {
	if name == "" {
		name = DefaultName
	}
	hexes, ok := palettes[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidColor, "unknown palette %q (available: %s)",
			name, strings.Join(Names(), ", "))
	}
	out := make([]Color, len(hexes))
	for i, h := range hexes {
		out[i] = MustParse(h)
	}
	return out, nil
}

// Resolve returns the named palette if spec names one, otherwise parses spec
// as a color list.
func Resolve(spec string) ([]Color, error) {
	if _, ok := palettes[strings.ToLower(strings.TrimSpace(spec))]; ok || spec == "" {
		return Named(strings.TrimSpace(spec))
	}
	return ParseList(spec)
}
