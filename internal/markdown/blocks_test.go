package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidai/pdf2md/internal/types"
)

func plainLine(x, y float64, blockType types.BlockType, text string) types.Line {
	return types.Line{X: x, Y: y, MaxHeight: 12, Type: blockType, Words: []types.Word{{Text: text}}}
}

func TestGatherBlocks_MergesConsecutiveSameTypeLines(t *testing.T) {
	g := types.Globals{BodyDistance: 12, MinX: 10}
	lines := []types.Line{
		plainLine(10, 700, types.BlockList, "- one"),
		plainLine(10, 688, types.BlockList, "- two"),
		plainLine(10, 676, types.BlockList, "- three"),
	}

	blocks := gatherLineBlocks(lines, g, types.DefaultTunables())
	require.Len(t, blocks, 1)
	assert.Equal(t, types.BlockList, blocks[0].Type)
	assert.Len(t, blocks[0].Lines, 3)
}

func TestGatherBlocks_BigGapSplitsUntypedLinesIntoSeparateBlocks(t *testing.T) {
	g := types.Globals{BodyDistance: 12, MinX: 10}
	lines := []types.Line{
		plainLine(10, 700, types.BlockNone, "paragraph one"),
		plainLine(10, 600, types.BlockNone, "paragraph two, far below"),
	}

	blocks := gatherLineBlocks(lines, g, types.DefaultTunables())
	require.Len(t, blocks, 2)
}

func TestGatherBlocks_SmallGapMergesUntypedLinesIntoOneBlock(t *testing.T) {
	g := types.Globals{BodyDistance: 12, MinX: 10}
	lines := []types.Line{
		plainLine(10, 700, types.BlockNone, "paragraph line one"),
		plainLine(10, 688, types.BlockNone, "paragraph line two"),
	}

	blocks := gatherLineBlocks(lines, g, types.DefaultTunables())
	require.Len(t, blocks, 1)
	assert.Len(t, blocks[0].Lines, 2)
}

func TestGatherBlocks_ListDoesNotAbsorbFollowingUntyped(t *testing.T) {
	g := types.Globals{BodyDistance: 12, MinX: 10}
	lines := []types.Line{
		plainLine(10, 700, types.BlockList, "- one"),
		plainLine(10, 688, types.BlockNone, "trailing paragraph"),
	}

	blocks := gatherLineBlocks(lines, g, types.DefaultTunables())
	require.Len(t, blocks, 2)
	assert.Equal(t, types.BlockList, blocks[0].Type)
	assert.Equal(t, types.BlockNone, blocks[1].Type)
}

func TestGatherBlocks_HeadersNeverMergeToBlock(t *testing.T) {
	g := types.Globals{BodyDistance: 12, MinX: 10}
	lines := []types.Line{
		plainLine(10, 700, types.BlockH1, "Title one"),
		plainLine(10, 688, types.BlockH1, "Title two"),
	}

	blocks := gatherLineBlocks(lines, g, types.DefaultTunables())
	require.Len(t, blocks, 2)
}

func TestReinterleave_OrdersImageByYThenOverlapByX(t *testing.T) {
	block := types.NewBlockItem(types.Block{
		Type:  types.BlockParagraph,
		Lines: []types.Line{{X: 100, Y: 500, MaxHeight: 12}},
	})
	image := types.NewImageItem(types.ImageRecord{X: 50, Y: 495, Width: 40, Height: 40})

	out := reinterleave([]types.PageItem{block}, []types.PageItem{image})
	require.Len(t, out, 2)
	// The image's X (50) is left of the text block's X (100); overlapping
	// ranges are ordered by X ascending per spec §4.7.
	assert.Equal(t, types.ItemImage, out[0].Kind)
	assert.Equal(t, types.ItemBlock, out[1].Kind)
}

func TestReinterleave_NonOverlappingKeepsYOrder(t *testing.T) {
	topBlock := types.NewBlockItem(types.Block{
		Lines: []types.Line{{X: 10, Y: 700, MaxHeight: 12}},
	})
	bottomImage := types.NewImageItem(types.ImageRecord{X: 10, Y: 400, Width: 20, Height: 20})

	out := reinterleave([]types.PageItem{topBlock}, []types.PageItem{bottomImage})
	require.Len(t, out, 2)
	assert.Equal(t, types.ItemBlock, out[0].Kind)
	assert.Equal(t, types.ItemImage, out[1].Kind)
}

func TestIsBigDistance_ReverseFlowIsBig(t *testing.T) {
	g := types.Globals{BodyDistance: 12, MinX: 10}
	last := types.Line{X: 10, Y: 600}
	next := types.Line{X: 10, Y: 700} // next is above last: reverse flow
	assert.True(t, isBigDistance(last, next, g, types.DefaultTunables()))
}

func TestIsBigDistance_IndentedLinesGetLargerThreshold(t *testing.T) {
	g := types.Globals{BodyDistance: 12, MinX: 0}
	last := types.Line{X: 20, Y: 700}
	next := types.Line{X: 20, Y: 700 - 12*1.4} // within the indented 1.5x+slack threshold
	assert.False(t, isBigDistance(last, next, g, types.DefaultTunables()))
}
