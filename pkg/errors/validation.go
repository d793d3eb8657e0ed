package errors

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// MaxDimension bounds either side of the canvas, in pixels.
const MaxDimension = 16384

// ValidateSize checks canvas dimensions.
func ValidateSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidSize, "size must be positive, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidSize, "size %dx%d exceeds the %d pixel limit", width, height, MaxDimension)
	}
	return nil
}

// ParseSize parses "WIDTHxHEIGHT", e.g. "800x600", and validates it.
func ParseSize(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, New(ErrCodeInvalidSize, "size %q must look like 800x600", s)
	}
	width, werr := strconv.Atoi(strings.TrimSpace(ws))
	height, herr := strconv.Atoi(strings.TrimSpace(hs))
	if werr != nil || herr != nil {
		return 0, 0, New(ErrCodeInvalidSize, "size %q must look like 800x600", s)
	}
	if err := ValidateSize(width, height); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// fontNameRegex matches catalog font names.
var fontNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

// ValidateFontName checks the shape of a font name. Whether the font exists
// is the catalog's concern.
func ValidateFontName(name string) error {
	if !fontNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFont, "invalid font name %q", name)
	}
	return nil
}

// ValidateRange checks that v lies in [min, max].
func ValidateRange(code Code, field string, v, min, max float64) error {
	if v < min || v > max {
		return New(code, "%s must be between %g and %g, got %g", field, min, max, v)
	}
	return nil
}

// ValidateWords checks user-supplied word lists (include/exclude/focus).
func ValidateWords(words []string) error {
	for _, w := range words {
		if len(w) > 128 {
			return New(ErrCodeInvalidInput, "word too long (max 128 bytes): %.16q...", w)
		}
		for _, r := range w {
			if unicode.IsControl(r) {
				return New(ErrCodeInvalidInput, "word %q contains control characters", w)
			}
		}
	}
	return nil
}

// ValidatePath validates an output or input path given on the command line
// or in a profile.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
