package cloud

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Serialized Cloud
// =============================================================================

// Layout is the serialization format of a finished cloud. It carries enough
// to draw the cloud again without re-running the placement search: glyph
// outlines and bubbles are rebuilt from the text, size, angle and position of
// each word.
//
// Words are in placement order; unplaced words are kept with Placed false.
type Layout struct {
	Width      float64 `json:"width" bson:"width"`
	Height     float64 `json:"height" bson:"height"`
	Background string  `json:"background" bson:"background"`
	Font       string  `json:"font" bson:"font"`

	StrokeWidth  float64 `json:"stroke_width,omitempty" bson:"stroke_width,omitempty"`
	StrokeColor  string  `json:"stroke_color,omitempty" bson:"stroke_color,omitempty"`
	Bubble       string  `json:"bubble,omitempty" bson:"bubble,omitempty"`
	PaddingScale float64 `json:"padding_scale,omitempty" bson:"padding_scale,omitempty"`

	Seed     uint64  `json:"seed" bson:"seed"`
	Scale    float64 `json:"scale" bson:"scale"`
	Placed   int     `json:"placed" bson:"placed"`
	Unplaced int     `json:"unplaced" bson:"unplaced"`

	Words []*Word `json:"words" bson:"words"`
}

// PlacedWords returns the accepted words in placement order.
func (l *Layout) PlacedWords() []*Word { return Placed(l.Words) }

// HasOutlines reports whether every placed word carries its footprint.
// Layouts read back from JSON do not.
func (l *Layout) HasOutlines() bool {
	for _, w := range l.Words {
		if w.Placed && w.Footprint == nil {
			return false
		}
	}
	return true
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, fmt.Errorf("layout must have a positive size, got %gx%g", l.Width, l.Height)
	}
	for i, w := range l.Words {
		if w == nil || w.Text == "" {
			return Layout{}, fmt.Errorf("layout word %d has no text", i)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
