package pdf

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/rapidai/pdf2md/internal/logger"
	"github.com/rapidai/pdf2md/internal/pdferr"
	"github.com/rapidai/pdf2md/internal/types"
)

// nfkcNormalizer is the default Normalizer adapter (spec §1d), backed by
// golang.org/x/text/unicode/norm rather than a hand-rolled fold table.
type nfkcNormalizer struct{}

func (nfkcNormalizer) NFKC(s string) string {
	return norm.NFKC.String(s)
}

// defaultPageHeight is used when a page's height cannot be determined
// from the library in use; ledongthuc/pdf does not expose MediaBox
// directly, so image Y-flip and page-number band detection fall back to
// this nominal US Letter height in points.
const defaultPageHeight = 792.0

// Ingest runs the full adapter stage (spec §4.1): text extraction via
// TextSource, image extraction via ContentProvider's CTM walk, NFKC
// normalization, and page-number stripping, producing the initial
// ParseResult the rest of the pipeline consumes.
func Ingest(pdfBytes []byte, cfg types.Config) (*types.ParseResult, error) {
	textSrc, err := newLedongthucTextSource(pdfBytes)
	if err != nil {
		return nil, err
	}

	pageCount, err := textSrc.PageCount()
	if err != nil {
		return nil, pdferr.New(pdferr.CodeMalformedPDF, "failed to read page count", err)
	}
	if pageCount == 0 {
		return &types.ParseResult{Config: cfg}, nil
	}

	contentProvider, err := newPDFCPUContentProvider(pdfBytes)
	if err != nil {
		// Image extraction is best-effort: a document pdfcpu cannot model
		// still yields its text layer via ledongthuc/pdf.
		logger.Warn("pdfcpu failed to build object model, continuing text-only", logger.Err(err))
		contentProvider = nil
	}

	normalizer := nfkcNormalizer{}

	runsByPage := make([][]types.TextRun, pageCount)
	for i := 0; i < pageCount; i++ {
		items, err := textSrc.PageText(i)
		if err != nil {
			return nil, pdferr.NewWithPage(pdferr.CodeMalformedPDF, "failed to extract page text", i+1, err)
		}
		runsByPage[i] = toTextRuns(items, normalizer)
	}

	runsByPage = stripPageNumbers(runsByPage, defaultPageHeight, cfg.DisablePageNumberStripping)

	imageCounter := 0

	pages := make([]types.PageContext, pageCount)
	for i := 0; i < pageCount; i++ {
		var items []types.PageItem
		for _, r := range runsByPage[i] {
			items = append(items, types.NewTextRunItem(r))
		}

		if contentProvider != nil {
			images, err := extractPageImages(contentProvider, i, defaultPageHeight, &imageCounter)
			if err != nil {
				logger.Warn("image extraction failed for page", logger.Int("page", i+1), logger.Err(err))
			}
			for _, img := range images {
				items = append(items, types.NewImageItem(img))
			}
		}

		sort.SliceStable(items, func(a, b int) bool {
			ya, yb := items[a].Y(), items[b].Y()
			if ya != yb {
				return ya > yb // PDF Y grows upward; read order is top-to-bottom.
			}
			return items[a].X() < items[b].X()
		})

		if cfg.Callbacks.OnPage != nil {
			cfg.Callbacks.OnPage(i)
		}

		pages[i] = types.PageContext{Index: i, Items: items}
	}

	return &types.ParseResult{
		Pages:  pages,
		Config: cfg,
	}, nil
}

func toTextRuns(items []RawTextItem, n Normalizer) []types.TextRun {
	runs := make([]types.TextRun, 0, len(items))
	for _, it := range items {
		height := heightCorrection(it)
		runs = append(runs, types.TextRun{
			X:      math.Round(it.Transform[4]),
			Y:      math.Round(it.Transform[5]),
			Width:  it.Width,
			Height: height,
			Text:   n.NFKC(it.Str),
			FontID: it.FontName,
		})
	}
	return runs
}

// heightCorrection applies the quotient spec §4.1 describes: a library
// that reports the glyph's declared font size rather than its rendered
// extent is corrected by dividing out the transform's vertical scale
// when that scale exceeds 1, leaving the reported height unchanged
// otherwise (and unchanged entirely for adapters like ledongthuc/pdf
// whose identity-rotation transform makes this a no-op).
func heightCorrection(it RawTextItem) float64 {
	scale := math.Hypot(it.Transform[1], it.Transform[3])
	if scale > 1 {
		return it.Height / scale
	}
	return it.Height
}

// extractPageImages resolves every placed image on a page and assigns
// each successfully decoded one the document-wide monotonic "image{N}"
// name spec §4.1 specifies, independent of the XObject's own resource
// dictionary name (used only internally, to resolve the image's bytes).
func extractPageImages(cp ContentProvider, pageIndex int, viewportHeight float64, counter *int) ([]types.ImageRecord, error) {
	content, err := cp.PageContentStream(pageIndex)
	if err != nil || len(content) == 0 {
		return nil, err
	}

	placed := walkContentStream(content, viewportHeight)
	var records []types.ImageRecord

	for _, p := range placed {
		var raw RawImage
		var err error
		if p.inline != nil {
			raw, err = cp.ResolveInlineImage(p.inline)
		} else {
			raw, err = cp.ResolveXObject(pageIndex, p.name)
		}
		if err != nil {
			logger.Warn("dropping unresolvable image", logger.Int("page", pageIndex+1), logger.Err(err))
			continue
		}

		decoded, format, err := classifyImage(raw.Bytes, raw.Width, raw.Height, false)
		if err != nil {
			logger.Warn("dropping invalid image", logger.Int("page", pageIndex+1), logger.Err(err))
			continue
		}

		*counter++
		records = append(records, types.ImageRecord{
			X:      p.x + p.w/2,
			Y:      p.y + p.h/2,
			Width:  p.w,
			Height: p.h,
			Data:   decoded,
			Format: format,
			Name:   fmt.Sprintf("image%d", *counter),
		})
	}

	return records, nil
}
