// Package fonts is the typeface catalog for word clouds.
//
// Every face is one of the Go font family, embedded in the binary through
// golang.org/x/image/font/gofont, so rendering needs no fonts installed on
// the host. Faces are parsed lazily and cached.
package fonts

import (
	"encoding/base64"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/sfnt"
)

// Default is the face used when none is configured.
const Default = "bold"

// FallbackFontFamily is appended to the CSS font-family of every face.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// Face is a parsed typeface.
type Face struct {
	Name   string // catalog name, e.g. "bold"
	Family string // CSS font-family name
	Weight string // CSS font-weight
	Style  string // CSS font-style
	Font   *sfnt.Font
	ttf    []byte

	b64Once sync.Once
	b64     string
}

// TTF returns the raw font data.
func (f *Face) TTF() []byte { return f.ttf }

// TTFBase64 returns the font data as a base64 string, for embedding in SVG.
// The result is cached after first computation.
func (f *Face) TTFBase64() string {
	f.b64Once.Do(func() {
		f.b64 = base64.StdEncoding.EncodeToString(f.ttf)
	})
	return f.b64
}

// CSSFamily returns the font-family value including fallbacks.
func (f *Face) CSSFamily() string {
	return fmt.Sprintf("'%s', %s", f.Family, FallbackFontFamily)
}

type entry struct {
	family, weight, style string
	data                  []byte
}

var catalog = map[string]entry{
	"regular":   {"Go", "normal", "normal", goregular.TTF},
	"bold":      {"Go", "bold", "normal", gobold.TTF},
	"medium":    {"Go Medium", "500", "normal", gomedium.TTF},
	"italic":    {"Go", "normal", "italic", goitalic.TTF},
	"mono":      {"Go Mono", "normal", "normal", gomono.TTF},
	"smallcaps": {"Go Smallcaps", "normal", "normal", gosmallcaps.TTF},
}

var (
	mu     sync.Mutex
	parsed = map[string]*Face{}
)

// Names returns the catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Has reports whether name is in the catalog.
func Has(name string) bool {
	_, ok := catalog[name]
	return ok
}

// Lookup returns the parsed face for name. An empty name selects [Default].
func Lookup(name string) (*Face, error) {
	if name == "" {
		name = Default
	}
	e, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown font %q", name)
	}

	mu.Lock()
	defer mu.Unlock()
	if f, ok := parsed[name]; ok {
		return f, nil
	}
	fnt, err := sfnt.Parse(e.data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", name, err)
	}
	f := &Face{Name: name, Family: e.family, Weight: e.weight, Style: e.style, Font: fnt, ttf: e.data}
	parsed[name] = f
	return f, nil
}
