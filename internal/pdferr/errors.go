// Package pdferr defines the error taxonomy for the pdf2md pipeline
// (spec §7). It follows the teacher's PDFError pattern: a typed sentinel
// carrying a Code, a human message, an optional Cause, and — for per-page
// defects — the offending page index, with the disposition (fatal vs.
// absorbed) baked into the code rather than decided ad hoc by callers.
package pdferr

// Code enumerates the error taxonomy from spec §7.
type Code string

const (
	// CodeMalformedPDF means the PDF library failed to load the document.
	// Fatal; surfaced to the caller.
	CodeMalformedPDF Code = "MALFORMED_PDF"
	// CodeImageTimeout means an async image-object resolve exceeded the
	// 10s budget or returned empty. The image is dropped; not fatal.
	CodeImageTimeout Code = "IMAGE_TIMEOUT"
	// CodeInvalidImageBytes means the decoded bytes failed the PNG/JPEG
	// magic-number check. The image is dropped; not fatal.
	CodeInvalidImageBytes Code = "INVALID_IMAGE_BYTES"
	// CodeRawPixelMismatch means a raw pixel buffer fit neither the RGB
	// nor RGBA length interpretation. The image is dropped; not fatal.
	CodeRawPixelMismatch Code = "RAW_PIXEL_MISMATCH"
	// CodeSaveIOFailure means imageMode=save could not create the
	// directory or write the file. That image is dropped; not fatal.
	CodeSaveIOFailure Code = "SAVE_IO_FAILURE"
	// CodeFontResolution means the font descriptor could not be fetched;
	// name-only heuristics are used and style confidence degrades. Not
	// fatal.
	CodeFontResolution Code = "FONT_RESOLUTION"
	// CodeEmptyPage means a page had no items; an empty Markdown string
	// is emitted for it. Not fatal, informational only.
	CodeEmptyPage Code = "EMPTY_PAGE"
	// CodeInvalidConfig means caller configuration failed validation
	// (e.g. imageMode=save without imageSavePath). Fatal; surfaced as a
	// pre-flight error before any page is touched.
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// Fatal reports whether an error of this code should abort Convert rather
// than being absorbed and logged.
func (c Code) Fatal() bool {
	return c == CodeMalformedPDF || c == CodeInvalidConfig
}

// Error is the pdf2md error type. It implements error and supports
// errors.Unwrap via Cause.
type Error struct {
	Code    Code
	Message string
	Details string
	Page    int // 0 when not page-scoped
	Cause   error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code, message, and optional cause.
func New(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NewWithPage creates a page-scoped Error.
func NewWithPage(code Code, message string, page int, cause error) *Error {
	return &Error{Code: code, Message: message, Page: page, Cause: cause}
}

// NewWithDetails creates an Error with additional Details text.
func NewWithDetails(code Code, message, details string, cause error) *Error {
	return &Error{Code: code, Message: message, Details: details, Cause: cause}
}
