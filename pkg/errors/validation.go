package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxCanvasSide bounds each canvas dimension. Larger canvases are rejected
// instead of allocating an occupancy grid that would not fit in memory.
const MaxCanvasSide = 16384

// ValidateCanvas checks canvas dimensions in pixels.
func ValidateCanvas(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidCanvas, "canvas dimensions must be positive, got %dx%d", width, height)
	}
	if width > MaxCanvasSide || height > MaxCanvasSide {
		return New(ErrCodeInvalidCanvas, "canvas dimensions must not exceed %d, got %dx%d", MaxCanvasSide, width, height)
	}
	return nil
}

// ValidateFontRange checks a font size range in pixels.
func ValidateFontRange(minSize, maxSize float64) error {
	if math.IsNaN(minSize) || math.IsNaN(maxSize) {
		return New(ErrCodeInvalidFontRange, "font sizes must be numbers")
	}
	if minSize <= 0 {
		return New(ErrCodeInvalidFontRange, "minimum font size must be positive, got %g", minSize)
	}
	if minSize > maxSize {
		return New(ErrCodeInvalidFontRange, "minimum font size %g exceeds maximum %g", minSize, maxSize)
	}
	return nil
}

// ValidateMaxWords checks the word cap. Zero is allowed and means no words
// are laid out.
func ValidateMaxWords(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidMaxWords, "max words must not be negative, got %d", n)
	}
	return nil
}

// ValidateFraction checks that v lies in [0, 1].
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidOption, "%s must be within [0, 1], got %g", name, v)
	}
	return nil
}

// ValidateFilename validates an uploaded file name for safety.
// It ensures the name is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}

	if len(filename) > 255 {
		return New(ErrCodeInvalidFilename, "filename too long (max 255 characters)")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename contains invalid control characters")
		}
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}

	if filename == "." || filename == ".." {
		return New(ErrCodeInvalidFilename, "filename cannot be %q", filename)
	}

	return nil
}
