// Package pdf is the ingestion adapter (spec §4.1): it converts whatever a
// third-party PDF library and PNG encoder hand it into the TextRun and
// ImageRecord primitives the core pipeline consumes. The PDF decoder and
// the raw-pixel-to-PNG encoder are explicitly out of scope for the core
// (spec §1); this package models them as the two external collaborator
// contracts spec §6 names, each with a default adapter built on a real
// library from the pack rather than a hand-rolled stand-in.
package pdf

import "image"

// RawTextItem is one glyph-run record as the PDF library contract (spec
// §6c) describes it: a 6-element transform, reported width/height, the
// decoded string, and a font name. Ingestion turns these into TextRuns.
type RawTextItem struct {
	Transform [6]float64 // a, b, c, d, e, f
	Width     float64
	Height    float64
	Str       string
	FontName  string
}

// TextSource is the subset of the PDF library contract (spec §6b) needed
// for text extraction: a per-page iterator over positioned glyph runs.
type TextSource interface {
	PageCount() (int, error)
	PageText(pageIndex int) ([]RawTextItem, error)
}

// RawImage is a decoded image payload pulled off a page's paint-image
// operator, before the magic-number check.
type RawImage struct {
	Bytes  []byte
	Width  int // declared XObject width in pixels, 0 if unknown
	Height int // declared XObject height in pixels, 0 if unknown
}

// ContentProvider is the subset of the PDF library contract (spec §6c)
// needed for image extraction: decoded per-page content-stream bytes (so
// the CTM walk in ctm.go can run over real operator lists) and resolution
// of an XObject name to its raw stream bytes.
type ContentProvider interface {
	PageContentStream(pageIndex int) ([]byte, error)
	ResolveXObject(pageIndex int, name string) (RawImage, error)
	// ResolveInlineImage decodes a BI...ID...EI inline image already
	// extracted from the content stream by the operator walker.
	ResolveInlineImage(raw []byte) (RawImage, error)
}

// PNGEncoder is the raw-pixel-to-PNG encoder contract (spec §1b, §6):
// explicitly out of scope for the core, consumed only when an XObject's
// only recoverable form is a raw RGB/RGBA pixel buffer.
type PNGEncoder interface {
	Encode(pix []byte, w, h int, hasAlpha bool) ([]byte, error)
}

// Normalizer is the Unicode NFKC normalization primitive (spec §1d):
// assumed available from the runtime, modeled here as a collaborator so
// the default adapter can be backed by a real library
// (golang.org/x/text/unicode/norm) instead of a hand-rolled fold table.
type Normalizer interface {
	NFKC(s string) string
}

// imageConfig bundles the decode dimensions pdfcpu reports for an XObject.
// No code path in this package constructs or reads it; raw-pixel
// reinterpretation takes its dimensions from RawImage.Width/Height.
type imageConfig struct {
	cfg image.Config
	ok  bool
}
