package pdf

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rapidai/pdf2md/internal/types"
)

func pageWithFooter(body string, footerNum int, pageHeight float64) []types.TextRun {
	return []types.TextRun{
		{X: 50, Y: pageHeight / 2, Text: body},
		{X: 300, Y: 5, Text: strconv.Itoa(footerNum)},
	}
}

func TestStripPageNumbers_RemovesMonotonicFooter(t *testing.T) {
	pageHeight := 792.0
	pages := [][]types.TextRun{
		pageWithFooter("intro", 1, pageHeight),
		pageWithFooter("body", 2, pageHeight),
		pageWithFooter("more", 3, pageHeight),
	}

	result := stripPageNumbers(pages, pageHeight, false)

	for i, p := range result {
		assert.Len(t, p, 1, "page %d should have its footer stripped", i)
		assert.NotEqual(t, "1", p[0].Text)
	}
}

func TestStripPageNumbers_DisabledIsNoop(t *testing.T) {
	pageHeight := 792.0
	pages := [][]types.TextRun{
		pageWithFooter("intro", 1, pageHeight),
		pageWithFooter("body", 2, pageHeight),
	}

	result := stripPageNumbers(pages, pageHeight, true)

	assert.Len(t, result[0], 2)
}

func TestStripPageNumbers_NoFooterLeavesPagesUntouched(t *testing.T) {
	pageHeight := 792.0
	pages := [][]types.TextRun{
		{{X: 50, Y: pageHeight / 2, Text: "just body text"}},
	}

	result := stripPageNumbers(pages, pageHeight, false)

	assert.Len(t, result[0], 1)
}

func TestFindPageNumberCandidate_NearBottomEdge(t *testing.T) {
	pageHeight := 792.0
	runs := []types.TextRun{
		{X: 50, Y: pageHeight / 2, Text: "body"},
		{X: 300, Y: 2, Text: "42"},
	}

	idx, val, ok := findPageNumberCandidate(runs, pageHeight)

	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 42, val)
}
