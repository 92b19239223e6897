package pdf

import (
	"os"
	"path/filepath"
	"unicode"

	ledongthucpdf "github.com/ledongthuc/pdf"

	"github.com/rapidai/pdf2md/internal/pdferr"
)

// Info is the pre-flight inspection result: page count, file size, and
// whether the PDF carries extractable text, so callers can warn before
// running the full pipeline on a scanned-image PDF with no text layer
// (SPEC_FULL.md §3, grounded on the teacher's PDFInfo/GetPDFInfo).
type Info struct {
	FilePath  string
	FileName  string
	PageCount int
	FileSize  int64
	IsTextPDF bool
}

// Inspect loads basic metadata about pdfPath without running the full
// conversion pipeline: page count, file size, and a heuristic check for
// an extractable text layer.
func Inspect(pdfPath string) (*Info, error) {
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pdferr.New(pdferr.CodeMalformedPDF, "file does not exist", err)
		}
		return nil, pdferr.New(pdferr.CodeMalformedPDF, "failed to stat file", err)
	}
	if fileInfo.IsDir() {
		return nil, pdferr.New(pdferr.CodeMalformedPDF, "path is a directory, not a file", nil)
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, pdferr.New(pdferr.CodeMalformedPDF, "failed to read file", err)
	}

	pageCount, isText, err := inspectBytes(data)
	if err != nil {
		return nil, err
	}

	return &Info{
		FilePath:  pdfPath,
		FileName:  filepath.Base(pdfPath),
		PageCount: pageCount,
		FileSize:  fileInfo.Size(),
		IsTextPDF: isText,
	}, nil
}

// InspectBytes is the in-memory counterpart of Inspect, for callers that
// already hold the PDF's bytes (library embedders).
func InspectBytes(data []byte) (*Info, error) {
	pageCount, isText, err := inspectBytes(data)
	if err != nil {
		return nil, err
	}
	return &Info{PageCount: pageCount, FileSize: int64(len(data)), IsTextPDF: isText}, nil
}

func inspectBytes(data []byte) (pageCount int, isTextPDF bool, err error) {
	src, openErr := newLedongthucTextSource(data)
	if openErr != nil {
		return 0, false, openErr
	}

	pageCount, err = src.PageCount()
	if err != nil {
		return 0, false, pdferr.New(pdferr.CodeMalformedPDF, "failed to read page count", err)
	}

	isTextPDF = hasExtractableText(src.reader, pageCount)
	return pageCount, isTextPDF, nil
}

// hasExtractableText tries the first few pages and treats any nontrivial
// run of non-whitespace text as a text PDF, mirroring the teacher's
// IsTextPDF threshold of 50 characters across up to 3 pages.
func hasExtractableText(reader *ledongthucpdf.Reader, pageCount int) bool {
	maxPages := 3
	if pageCount < maxPages {
		maxPages = pageCount
	}

	total := 0
	for i := 1; i <= maxPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, r := range content {
			if !unicode.IsSpace(r) {
				total++
			}
		}
		if total > 50 {
			return true
		}
	}
	return false
}
