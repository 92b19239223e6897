package markdown

import (
	"sort"

	"github.com/rapidai/pdf2md/internal/types"
)

// gatherBlocks is stage 7 (spec §4.7): merges consecutive Lines into
// typed Blocks respecting type-compatibility and spacing rules, then
// re-interleaves image records among the resulting blocks by Y-range
// overlap.
func gatherBlocks(result *types.ParseResult) error {
	t := result.Config.Tunables
	g := result.Globals

	for pi := range result.Pages {
		page := &result.Pages[pi]

		var lines []types.Line
		var images []types.ImageRecord
		for _, item := range page.Items {
			switch item.Kind {
			case types.ItemLine:
				if !item.Line.Removed {
					lines = append(lines, *item.Line)
				}
			case types.ItemImage:
				images = append(images, *item.Image)
			}
		}

		blocks := gatherLineBlocks(lines, g, t)

		var blockItems []types.PageItem
		for _, b := range blocks {
			blockItems = append(blockItems, types.NewBlockItem(b))
		}
		var imageItems []types.PageItem
		for _, img := range images {
			imageItems = append(imageItems, types.NewImageItem(img))
		}

		page.Items = reinterleave(blockItems, imageItems)
	}

	return nil
}

func gatherLineBlocks(lines []types.Line, g types.Globals, t types.Tunables) []types.Block {
	if len(lines) == 0 {
		return nil
	}

	var blocks []types.Block
	var stash types.Block

	startNew := func(l types.Line) {
		if len(stash.Lines) > 0 {
			blocks = append(blocks, stash)
		}
		stash = types.Block{Type: l.Type, Lines: []types.Line{l}}
	}

	startNew(lines[0])

	for i := 1; i < len(lines); i++ {
		l := lines[i]
		prev := stash.Lines[len(stash.Lines)-1]

		if shouldStartNewBlock(stash, l, prev, g, t) {
			startNew(l)
			continue
		}

		stash.Lines = append(stash.Lines, l)
		if stash.Type == types.BlockNone {
			stash.Type = l.Type
		}
	}
	if len(stash.Lines) > 0 {
		blocks = append(blocks, stash)
	}

	return blocks
}

func shouldStartNewBlock(stash types.Block, l, prev types.Line, g types.Globals, t types.Tunables) bool {
	stashFlags := stash.Type.Flags()
	lineFlags := l.Type.Flags()
	big := isBigDistance(prev, l, g, t)

	if stash.Type != l.Type {
		if stash.Type != types.BlockNone && l.Type == types.BlockNone {
			if stashFlags.MergeFollowingUntyped {
				return false
			}
			if stashFlags.MergeFollowingUntypedSmallDistance {
				return big
			}
		}
		return true
	}

	if stash.Type != types.BlockNone && !stashFlags.MergeToBlock {
		return true
	}

	if stash.Type == types.BlockNone && lineFlags.HeadlineLevel == 0 && l.Type == types.BlockNone {
		return big
	}

	if stash.Type == types.BlockList {
		return false
	}

	return big
}

// isBigDistance implements spec §4.7's "big distance" rule.
func isBigDistance(last, next types.Line, g types.Globals, t types.Tunables) bool {
	d := last.Y - next.Y
	threshold := g.BodyDistance + t.MergeGapThreshold
	if last.X > g.MinX && next.X > g.MinX {
		threshold = g.BodyDistance*t.IndentedDistanceFactor + t.BigDistanceSlack
	}
	return d < -g.BodyDistance/2 || d > threshold
}

type rangedItem struct {
	item types.PageItem
	topY, bottomY float64
}

func reinterleave(blockItems, imageItems []types.PageItem) []types.PageItem {
	var ranged []rangedItem
	for _, it := range blockItems {
		top, bottom := blockYRange(*it.Block)
		ranged = append(ranged, rangedItem{item: it, topY: top, bottomY: bottom})
	}
	for _, it := range imageItems {
		img := *it.Image
		ranged = append(ranged, rangedItem{item: it, topY: img.Y + img.Height/2, bottomY: img.Y - img.Height/2})
	}

	sort.SliceStable(ranged, func(a, b int) bool {
		ca := (ranged[a].topY + ranged[a].bottomY) / 2
		cb := (ranged[b].topY + ranged[b].bottomY) / 2
		return ca > cb
	})

	for i := 0; i < len(ranged)-1; i++ {
		a, b := ranged[i], ranged[i+1]
		if rangesOverlap(a, b) {
			if a.item.X() > b.item.X() {
				ranged[i], ranged[i+1] = ranged[i+1], ranged[i]
			}
		}
	}

	out := make([]types.PageItem, len(ranged))
	for i, r := range ranged {
		out[i] = r.item
	}
	return out
}

func blockYRange(b types.Block) (top, bottom float64) {
	if len(b.Lines) == 0 {
		return 0, 0
	}
	top = b.Lines[0].Y
	last := b.Lines[len(b.Lines)-1]
	bottom = last.Y - last.MaxHeight
	return top, bottom
}

func rangesOverlap(a, b rangedItem) bool {
	overlapTop := min2(a.topY, b.topY)
	overlapBottom := max2(a.bottomY, b.bottomY)
	overlap := overlapTop - overlapBottom
	if overlap <= 0 {
		return false
	}
	heightA := a.topY - a.bottomY
	heightB := b.topY - b.bottomY
	avgHeight := (heightA + heightB) / 2
	if avgHeight <= 0 {
		return false
	}
	return overlap/avgHeight > 0.2
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
