package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/rapidai/pdf2md/internal/logger"
	"github.com/rapidai/pdf2md/internal/pdferr"
)

// pdfcpuContentProvider implements ContentProvider and the page-count
// lookup on top of github.com/pdfcpu/pdfcpu, the teacher's pure-Go PDF
// object model (internal/pdf/pdfcpu_overlay.go in the teacher repo). It
// extracts every XObject image up front via pdfcpu's raw extraction API
// and the decoded per-page content streams, then lets ctm.go's operator
// walker do the actual CTM placement math spec §4.1 describes — pdfcpu's
// own extraction is page-scoped, not placement-aware.
type pdfcpuContentProvider struct {
	pageCount int
	// content[i] holds the decoded content-stream bytes for page i (0-indexed).
	content [][]byte
	// images[i] holds every XObject image pdfcpu could recover on page i,
	// in the order pdfcpu extracted them; ResolveXObject consumes them by
	// name when pdfcpu preserved the resource name, else by encounter order.
	images [][]extractedImage
	cursor []int // per-page consumption cursor into images[i] for the encounter-order fallback
}

type extractedImage struct {
	name  string
	bytes []byte
}

func newPDFCPUContentProvider(data []byte) (*pdfcpuContentProvider, error) {
	conf := model.NewDefaultConfiguration()

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, pdferr.New(pdferr.CodeMalformedPDF, "failed to read PDF object model", err)
	}

	p := &pdfcpuContentProvider{pageCount: ctx.PageCount}
	p.content = make([][]byte, p.pageCount)
	p.images = make([][]extractedImage, p.pageCount)
	p.cursor = make([]int, p.pageCount)

	for i := 0; i < p.pageCount; i++ {
		pageNr := i + 1
		sel := []string{fmt.Sprintf("%d", pageNr)}

		if raw, err := api.ExtractContentRaw(bytes.NewReader(data), sel, conf); err == nil && len(raw) > 0 {
			p.content[i] = raw[0]
		} else if err != nil {
			logger.Warn("failed to extract page content stream", logger.Int("page", pageNr), logger.Err(err))
		}

		imgs, err := api.ExtractImagesRaw(bytes.NewReader(data), sel, conf)
		if err != nil {
			logger.Warn("failed to extract page images", logger.Int("page", pageNr), logger.Err(err))
			continue
		}
		for _, im := range imgs {
			b, err := io.ReadAll(im.Reader)
			if err != nil {
				logger.Warn("failed to read extracted image", logger.Int("page", pageNr), logger.Err(err))
				continue
			}
			p.images[i] = append(p.images[i], extractedImage{name: im.Name, bytes: b})
		}
	}

	return p, nil
}

func (p *pdfcpuContentProvider) PageCount() (int, error) {
	return p.pageCount, nil
}

func (p *pdfcpuContentProvider) PageContentStream(pageIndex int) ([]byte, error) {
	if pageIndex < 0 || pageIndex >= len(p.content) {
		return nil, fmt.Errorf("page index %d out of range", pageIndex)
	}
	return p.content[pageIndex], nil
}

// ResolveXObject returns the next recoverable image on the page matching
// name, falling back to encounter order when pdfcpu did not preserve the
// resource dictionary name on the extracted image.
func (p *pdfcpuContentProvider) ResolveXObject(pageIndex int, name string) (RawImage, error) {
	if pageIndex < 0 || pageIndex >= len(p.images) {
		return RawImage{}, fmt.Errorf("page index %d out of range", pageIndex)
	}

	imgs := p.images[pageIndex]
	for i, im := range imgs {
		if im.name == name || im.name == name+".png" || im.name == name+".jpg" {
			return RawImage{Bytes: im.bytes}, withRemoved(imgs, i, &p.images[pageIndex])
		}
	}

	// Fall back to the next not-yet-consumed image in encounter order.
	c := p.cursor[pageIndex]
	if c < len(imgs) {
		p.cursor[pageIndex] = c + 1
		return RawImage{Bytes: imgs[c].bytes}, nil
	}

	return RawImage{}, fmt.Errorf("no recoverable image for xobject %q on page %d", name, pageIndex+1)
}

// withRemoved removes the matched image from the page's pool so later
// same-name lookups (rare, but possible with duplicated XObjects) don't
// re-resolve a stale entry, then reports no error.
func withRemoved(imgs []extractedImage, i int, slot *[]extractedImage) error {
	*slot = append(imgs[:i:i], imgs[i+1:]...)
	return nil
}

func (p *pdfcpuContentProvider) ResolveInlineImage(raw []byte) (RawImage, error) {
	// Inline images (BI...ID...EI) carry their own dictionary and data
	// inline in the content stream; ctm.go hands us the already-isolated
	// data segment, so there is nothing further to resolve here beyond
	// the magic-number check performed by imagecheck.go.
	return RawImage{Bytes: raw}, nil
}
