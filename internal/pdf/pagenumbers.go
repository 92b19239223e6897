package pdf

import (
	"strconv"
	"strings"

	"github.com/rapidai/pdf2md/internal/types"
)

// stripPageNumbers removes TextRuns that look like a running page-number
// footer/header (spec §4.1): a bare integer sitting near the top or
// bottom edge of the page, present across a monotonically increasing
// run of the document's first pages. Checking only the first 10 pages
// keeps the heuristic cheap and avoids false positives on documents
// whose body text happens to contain stray integers deep in.
func stripPageNumbers(pages [][]types.TextRun, pageHeight float64, disabled bool) [][]types.TextRun {
	if disabled || len(pages) == 0 {
		return pages
	}

	checkPages := len(pages)
	if checkPages > 10 {
		checkPages = 10
	}

	candidates := make([]int, 0, checkPages) // page index -> candidate run index, -1 if none
	values := make([]int, 0, checkPages)

	for i := 0; i < checkPages; i++ {
		idx, val, ok := findPageNumberCandidate(pages[i], pageHeight)
		if !ok {
			candidates = append(candidates, -1)
			values = append(values, 0)
			continue
		}
		candidates = append(candidates, idx)
		values = append(values, val)
	}

	if !isMonotonic(values, candidates) {
		return pages
	}

	for i, idx := range candidates {
		if idx < 0 {
			continue
		}
		pages[i] = append(pages[i][:idx:idx], pages[i][idx+1:]...)
	}
	return pages
}

// findPageNumberCandidate looks for a single bare-integer run within the
// top or bottom 10% of the page band.
func findPageNumberCandidate(runs []types.TextRun, pageHeight float64) (int, int, bool) {
	margin := pageHeight * 0.10
	for i, r := range runs {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			continue
		}
		nearTop := r.Y <= margin
		nearBottom := r.Y >= pageHeight-margin
		if nearTop || nearBottom {
			return i, n, true
		}
	}
	return -1, 0, false
}

// isMonotonic requires at least two consecutive found candidates whose
// values increase by exactly one, which is enough signal to distinguish
// a real running footer from a coincidental stray integer.
func isMonotonic(values []int, candidates []int) bool {
	run := 0
	for i := 1; i < len(values); i++ {
		if candidates[i-1] < 0 || candidates[i] < 0 {
			run = 0
			continue
		}
		if values[i] == values[i-1]+1 {
			run++
			if run >= 1 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}
