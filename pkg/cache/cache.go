// Package cache stores intermediate and final pipeline results.
//
// Three stages of a render are cached independently, each under a key built
// by a [Keyer]:
//
//   - frequencies: the counted word table for a text and tokenizer settings
//   - layouts: the placed cloud for a word table and layout settings
//   - artifacts: the encoded output for a layout and format
//
// The CLI uses a [FileCache] under the user cache directory, the API server a
// [RedisCache] shared between replicas (or a [MemoryCache] when no redis is
// configured), and [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per stage.
const (
	TTLFrequencies = 7 * 24 * time.Hour
	TTLLayout      = 24 * time.Hour
	TTLArtifact    = 24 * time.Hour
)

// Cache is a byte store with expiring entries. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	FrequencyKey(textHash string, opts FrequencyKeyOpts) string
	LayoutKey(tableHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// FrequencyKeyOpts are the tokenizer settings that change a word table.
type FrequencyKeyOpts struct {
	Include        []string `json:"include,omitempty"`
	Exclude        []string `json:"exclude,omitempty"`
	AllowStopwords bool     `json:"allow_stopwords,omitempty"`
	MinLength      int      `json:"min_length,omitempty"`
	KeepNumbers    bool     `json:"keep_numbers,omitempty"`
}

// LayoutKeyOpts are the settings that change a layout.
type LayoutKeyOpts struct {
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Font          string   `json:"font"`
	Background    string   `json:"background"`
	Palette       string   `json:"palette"`
	MaxColors     int      `json:"max_colors,omitempty"`
	Monochrome    bool     `json:"monochrome,omitempty"`
	StrokeWidth   float64  `json:"stroke_width,omitempty"`
	StrokeColor   string   `json:"stroke_color,omitempty"`
	MaxWords      int      `json:"max_words"`
	FocusWord     string   `json:"focus_word,omitempty"`
	FocusAngle    *float64 `json:"focus_angle,omitempty"`
	Seed          uint64   `json:"seed"`
	Rotation      string   `json:"rotation"`
	Bubble        string   `json:"bubble"`
	Scale         float64  `json:"scale"`
	PaddingScale  float64  `json:"padding_scale"`
	DistanceStep  float64  `json:"distance_step"`
	RadialStep    float64  `json:"radial_step"`
	AllowOverflow bool     `json:"allow_overflow,omitempty"`
}

// ArtifactKeyOpts are the settings that change an encoded output.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Title    string  `json:"title,omitempty"`
	Hover    bool    `json:"hover,omitempty"`
	PNGScale float64 `json:"png_scale,omitempty"`
}

// DefaultKeyer hashes the stage inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrequencyKey returns "freq:<sha256>".
func (DefaultKeyer) FrequencyKey(textHash string, opts FrequencyKeyOpts) string {
	return hashKey("freq", textHash, opts)
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(tableHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", tableHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}
