package pdf

import (
	"bytes"
	"fmt"

	ledongthucpdf "github.com/ledongthuc/pdf"

	"github.com/rapidai/pdf2md/internal/pdferr"
)

// ledongthucTextSource implements TextSource on top of
// github.com/ledongthuc/pdf, the teacher's primary text-extraction
// dependency (internal/pdf/parser.go in the teacher repo).
type ledongthucTextSource struct {
	reader *ledongthucpdf.Reader
}

// newLedongthucTextSource opens an in-memory PDF for text extraction.
func newLedongthucTextSource(data []byte) (*ledongthucTextSource, error) {
	r, err := ledongthucpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, pdferr.New(pdferr.CodeMalformedPDF, "failed to open PDF for text extraction", err)
	}
	return &ledongthucTextSource{reader: r}, nil
}

func (s *ledongthucTextSource) PageCount() (int, error) {
	return s.reader.NumPage(), nil
}

// PageText returns every glyph run on the page, grouped by the library's
// own row detection and flattened back into individual runs. ledongthuc/pdf
// does not expose the full 6-element text-rendering matrix, only the
// resolved baseline position, so Transform is populated as an identity
// rotation (a=1,b=0,c=0,d=1) translated to (X,Y): the height-correction
// quotient in ingest.go degrades to a no-op for this adapter, which is
// documented in DESIGN.md as an accepted limitation of this library.
func (s *ledongthucTextSource) PageText(pageIndex int) ([]RawTextItem, error) {
	page := s.reader.Page(pageIndex + 1) // ledongthuc/pdf pages are 1-indexed
	if page.V.IsNull() {
		return nil, nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("failed to read text rows on page %d: %w", pageIndex+1, err)
	}

	var items []RawTextItem
	for _, row := range rows {
		for _, t := range row.Content {
			if t.S == "" {
				continue
			}
			items = append(items, RawTextItem{
				Transform: [6]float64{1, 0, 0, 1, t.X, t.Y},
				Width:     t.W,
				Height:    t.FontSize,
				Str:       t.S,
				FontName:  t.Font,
			})
		}
	}
	return items, nil
}
