package markdown

import (
	"unicode"

	"github.com/rapidai/pdf2md/internal/types"
)

// recombineVertical is stage 4 (spec §4.4): a stashing pass over each
// page's Lines that merges runs of single-character lines (vertical text
// columns) back into one synthetic horizontal line once the run is long
// enough to be confident it's vertical text rather than coincidental
// single-character lines.
func recombineVertical(result *types.ParseResult) error {
	minRun := result.Config.Tunables.VerticalStashMinRun
	baselineDelta := result.Config.Tunables.VerticalBaselineDelta

	for pi := range result.Pages {
		page := &result.Pages[pi]
		page.Items = recombinePage(page.Items, minRun, baselineDelta)
	}
	return nil
}

func recombinePage(items []types.PageItem, minRun int, baselineDelta float64) []types.PageItem {
	var out []types.PageItem
	var stash []types.Line
	var stashKind charKind

	flush := func() {
		if len(stash) == 0 {
			return
		}
		if len(stash) > minRun {
			out = append(out, types.NewLineItem(mergeStash(stash)))
		} else {
			for _, l := range stash {
				out = append(out, types.NewLineItem(l))
			}
		}
		stash = nil
	}

	for _, item := range items {
		line, isLine := singleCharLine(item)
		if !isLine {
			flush()
			out = append(out, item)
			continue
		}

		kind := classifyChar(line.Words[0].Text)
		if len(stash) == 0 {
			stash = append(stash, line)
			stashKind = kind
			continue
		}

		prev := stash[len(stash)-1]
		if kind == stashKind && prev.Y-line.Y > baselineDelta {
			stash = append(stash, line)
			continue
		}

		flush()
		stash = append(stash, line)
		stashKind = kind
	}
	flush()

	return out
}

func singleCharLine(item types.PageItem) (types.Line, bool) {
	if item.Kind != types.ItemLine {
		return types.Line{}, false
	}
	l := *item.Line
	if l.Removed || len(l.Words) != 1 {
		return types.Line{}, false
	}
	if len([]rune(l.Words[0].Text)) != 1 {
		return types.Line{}, false
	}
	return l, true
}

type charKind int

const (
	charOther charKind = iota
	charDigit
	charLetter
	charCJK
	charPunct
)

func classifyChar(s string) charKind {
	r := []rune(s)[0]
	switch {
	case unicode.IsDigit(r):
		return charDigit
	case unicode.Is(unicode.Han, r):
		return charCJK
	case unicode.IsLetter(r):
		return charLetter
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return charPunct
	default:
		return charOther
	}
}

func mergeStash(stash []types.Line) types.Line {
	minX := stash[0].X
	maxY := stash[0].Y
	width := 0.0
	maxHeight := 0.0
	var words []types.Word

	for _, l := range stash {
		if l.X < minX {
			minX = l.X
		}
		if l.Y > maxY {
			maxY = l.Y
		}
		width += l.Width
		if l.MaxHeight > maxHeight {
			maxHeight = l.MaxHeight
		}
		words = append(words, l.Words...)
	}

	merged := types.Word{Kind: types.WordPlain}
	for _, w := range words {
		merged.Text += w.Text
	}

	return types.Line{
		X:         minX,
		Y:         maxY,
		Width:     width,
		MaxHeight: maxHeight,
		Words:     []types.Word{merged},
	}
}
