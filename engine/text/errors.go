package text

import "errors"

var (
	// ErrGlyphNotRenderable means the font has no glyph for the code point.
	ErrGlyphNotRenderable = errors.New("text: glyph not renderable")
	// ErrAtlasOverflow means the glyph could not be packed even after
	// growing the atlas to its maximum size and evicting unused entries.
	ErrAtlasOverflow = errors.New("text: atlas overflow")
	// ErrUnknownFont means the key references a font that was never added.
	ErrUnknownFont = errors.New("text: unknown font")
	// ErrInvalidBoxGeometry means a negative or NaN box width or font size.
	ErrInvalidBoxGeometry = errors.New("text: invalid box geometry")
	// ErrUnhandledControl marks control characters that are dropped from layout.
	ErrUnhandledControl = errors.New("text: unhandled control character")
)

// Diagnostic records a failure that was absorbed instead of propagated.
type Diagnostic struct {
	Err    error
	Key    GlyphKey
	Offset int // byte offset into the laid out text, -1 for atlas diagnostics
}

func (d Diagnostic) Error() string { return d.Err.Error() }

func (d Diagnostic) Unwrap() error { return d.Err }
