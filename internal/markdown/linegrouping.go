package markdown

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rapidai/pdf2md/internal/types"
)

// groupLines is stage 3 (spec §4.3): groups TextRuns by baseline into
// Lines using body-distance to define same-line tolerance, then performs
// inline analysis (word merging, link/footnote detection, format
// assignment) within each line.
func groupLines(result *types.ParseResult) error {
	tolerance := result.Globals.BodyDistance * result.Config.Tunables.SameLineToleranceFactor
	if tolerance <= 0 {
		tolerance = 1
	}

	for pi := range result.Pages {
		page := &result.Pages[pi]

		var runs []types.TextRun
		var rest []types.PageItem
		for _, item := range page.Items {
			if item.Kind == types.ItemTextRun {
				runs = append(runs, *item.TextRun)
			} else {
				rest = append(rest, item)
			}
		}

		groups := groupByBaseline(runs, tolerance)

		var items []types.PageItem
		for _, group := range groups {
			items = append(items, types.NewLineItem(buildLine(group, result.Globals)))
		}
		items = append(items, rest...)

		sort.SliceStable(items, func(a, b int) bool {
			ya, yb := items[a].Y(), items[b].Y()
			if ya != yb {
				return ya > yb
			}
			return items[a].X() < items[b].X()
		})

		page.Items = items
	}

	return nil
}

// groupByBaseline sorts runs by Y descending (then X ascending) and
// splits them into baseline-aligned groups whenever the Y gap to the
// current group's anchor exceeds tolerance.
func groupByBaseline(runs []types.TextRun, tolerance float64) [][]types.TextRun {
	if len(runs) == 0 {
		return nil
	}

	sorted := append([]types.TextRun(nil), runs...)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Y != sorted[b].Y {
			return sorted[a].Y > sorted[b].Y
		}
		return sorted[a].X < sorted[b].X
	})

	var groups [][]types.TextRun
	var current []types.TextRun
	anchorY := sorted[0].Y

	for _, r := range sorted {
		if len(current) > 0 && abs(anchorY-r.Y) > tolerance {
			groups = append(groups, current)
			current = nil
		}
		if len(current) == 0 {
			anchorY = r.Y
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	for _, g := range groups {
		sort.SliceStable(g, func(a, b int) bool { return g[a].X < g[b].X })
	}

	return groups
}

func buildLine(runs []types.TextRun, globals types.Globals) types.Line {
	if len(runs) == 0 {
		return types.Line{Removed: true, RemovedNote: "empty line group"}
	}

	firstSeenY := runs[0].Y
	lineType := types.BlockNone

	var words []types.Word
	width := 0.0
	maxHeight := 0.0

	i := 0
	for i < len(runs) {
		format := globals.FontFormat[runs[i].FontID]
		numeric := isNumericText(runs[i].Text)

		j := i + 1
		mergedText := runs[i].Text
		mergedWidth := runs[i].Width
		for j < len(runs) {
			sameFormat := globals.FontFormat[runs[j].FontID] == format
			sameNumeric := isNumericText(runs[j].Text) == numeric
			if !sameFormat || !sameNumeric {
				break
			}
			gap := runs[j].X - (runs[j-1].X + runs[j-1].Width)
			needsSpace := gap > 5 || (!strings.HasSuffix(mergedText, " ") && !strings.HasPrefix(runs[j].Text, " "))
			if needsSpace {
				mergedText += " "
			}
			mergedText += runs[j].Text
			mergedWidth += runs[j].Width
			j++
		}

		word := buildWord(mergedText, format)

		if numeric && strings.TrimSpace(mergedText) != "" {
			if runs[i].Y > firstSeenY {
				word.Kind = types.WordFootnoteAnchor
				word.RefNum = strings.TrimSpace(mergedText)
			} else if runs[i].Y < firstSeenY {
				word.Kind = types.WordFootnoteDef
				word.RefNum = strings.TrimSpace(mergedText)
				lineType = types.BlockFootnotes
			}
		}

		if word.Text != "" {
			words = append(words, word)
		}

		width += mergedWidth
		if runs[i].Height > maxHeight {
			maxHeight = runs[i].Height
		}
		for k := i; k < j; k++ {
			if runs[k].Height > maxHeight {
				maxHeight = runs[k].Height
			}
		}

		i = j
	}

	line := types.Line{
		X:         runs[0].X,
		Y:         runs[0].Y,
		Width:     width,
		MaxHeight: maxHeight,
		Words:     words,
		Type:      lineType,
	}
	if len(words) == 0 {
		line.Removed = true
		line.RemovedNote = "no surviving words"
	}
	return line
}

func buildWord(text string, format types.WordFormat) types.Word {
	switch {
	case strings.HasPrefix(text, "http:"):
		return types.Word{Text: text, Kind: types.WordLink, URL: text, Format: format}
	case strings.HasPrefix(text, "www."):
		url := "http://" + text
		return types.Word{Text: text, Kind: types.WordLink, URL: url, Format: format}
	default:
		return types.Word{Text: text, Kind: types.WordPlain, Format: format}
	}
}

func isNumericText(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
