package pdf

import (
	"bytes"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/h2non/filetype"

	"github.com/rapidai/pdf2md/internal/pdferr"
)

// isAcceptedFormat restricts accepted encoded formats to PNG and JPEG
// (spec §3's invariant: "Image records carry decoded bytes whose first
// bytes match the declared format (PNG ... JPEG ...)"; anything else is
// dropped).
func isAcceptedFormat(ext string) bool {
	switch ext {
	case "png", "jpg", "jpeg":
		return true
	default:
		return false
	}
}

// classifyImage identifies an extracted image's real encoding by magic
// number (spec §4.1 step 4): PDFs frequently lie about an XObject's
// declared Filter, so detection runs on the bytes themselves rather than
// trusting the dictionary. Only PNG and JPEG pass through unchanged;
// every other container (GIF, BMP, TIFF, WEBP, ...) is rejected rather
// than assumed to be a raw pixel buffer, since a recognized-but-
// unsupported container is not the "undecoded raw stream" case
// reinterpretRawPixels exists for.
func classifyImage(raw []byte, declaredWidth, declaredHeight int, hasAlpha bool) ([]byte, string, error) {
	if len(raw) == 0 {
		return nil, "", pdferr.New(pdferr.CodeInvalidImageBytes, "empty image payload", nil)
	}

	kind, err := filetype.Match(raw)
	if err == nil && kind != filetype.Unknown && kind.MIME.Type == "image" {
		if !isAcceptedFormat(kind.Extension) {
			return nil, "", pdferr.New(pdferr.CodeInvalidImageBytes, "unsupported image format: "+kind.Extension, nil)
		}
		return raw, kind.Extension, nil
	}

	// Not a recognized container: try the stdlib PNG/JPEG decoders in
	// case filetype's sniff table missed a truncated header, before
	// assuming a raw pixel buffer.
	if _, format, decodeErr := image.DecodeConfig(bytes.NewReader(raw)); decodeErr == nil && isAcceptedFormat(format) {
		if format == "jpeg" {
			format = "jpg"
		}
		return raw, format, nil
	}

	png, pngErr := reinterpretRawPixels(raw, declaredWidth, declaredHeight, hasAlpha)
	if pngErr != nil {
		return nil, "", pdferr.New(pdferr.CodeRawPixelMismatch, "raw pixel buffer size does not match declared dimensions", pngErr)
	}
	return png, "png", nil
}

// reinterpretRawPixels treats raw as an undecoded RGB or RGBA pixel
// buffer matching the XObject's declared Width/Height (spec §4.1 step
// 4's fallback) and encodes it to PNG via the stdlib PNG encoder, the
// concrete default of the PNGEncoder contract (spec §1b, §6).
func reinterpretRawPixels(raw []byte, w, h int, hasAlpha bool) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, pdferr.New(pdferr.CodeRawPixelMismatch, "missing declared dimensions for raw pixel reinterpretation", nil)
	}

	channels := 3
	if hasAlpha {
		channels = 4
	}
	if len(raw) != w*h*channels {
		return nil, pdferr.New(pdferr.CodeRawPixelMismatch, "raw byte count does not match width*height*channels", nil)
	}

	var img image.Image
	if hasAlpha {
		im := image.NewNRGBA(image.Rect(0, 0, w, h))
		copy(im.Pix, raw)
		img = im
	} else {
		im := image.NewRGBA(image.Rect(0, 0, w, h))
		for i := 0; i < w*h; i++ {
			im.Pix[i*4+0] = raw[i*3+0]
			im.Pix[i*4+1] = raw[i*3+1]
			im.Pix[i*4+2] = raw[i*3+2]
			im.Pix[i*4+3] = 0xff
		}
		img = im
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stdPNGEncoder is the default PNGEncoder adapter (spec §1b, §6): a raw
// RGB/RGBA buffer has nowhere else to go but the stdlib encoder, which
// is the contract's own reference implementation rather than a core
// algorithm choice (documented in DESIGN.md).
type stdPNGEncoder struct{}

func (stdPNGEncoder) Encode(pix []byte, w, h int, hasAlpha bool) ([]byte, error) {
	return reinterpretRawPixels(pix, w, h, hasAlpha)
}
