package markdown

import "github.com/rapidai/pdf2md/internal/types"

// detectCodeBlocks is stage 8 (spec §4.8): marks indented-only untyped
// blocks as CODE, using the page's minimum block X as the left margin.
func detectCodeBlocks(result *types.ParseResult) error {
	g := result.Globals

	for pi := range result.Pages {
		page := &result.Pages[pi]

		minX, found := 0.0, false
		for _, item := range page.Items {
			if item.Kind != types.ItemBlock || len(item.Block.Lines) == 0 {
				continue
			}
			x := item.Block.Lines[0].X
			if !found || x < minX {
				minX, found = x, true
			}
		}
		if !found {
			continue
		}

		for idx := range page.Items {
			item := &page.Items[idx]
			if item.Kind != types.ItemBlock || item.Block.Type != types.BlockNone {
				continue
			}
			if isCodeBlock(*item.Block, minX, g.BodyHeight) {
				item.Block.Type = types.BlockCode
			}
		}
	}
	return nil
}

func isCodeBlock(b types.Block, minX, bodyHeight float64) bool {
	if len(b.Lines) == 1 {
		l := b.Lines[0]
		return l.X > minX && l.MaxHeight <= bodyHeight+1
	}
	if len(b.Lines) >= 2 {
		for _, l := range b.Lines {
			if l.X == minX {
				return false
			}
		}
		return true
	}
	return false
}
