package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidai/pdf2md/internal/types"
)

func singleCharLineItem(x, y float64, ch string) types.PageItem {
	return types.NewLineItem(types.Line{
		X: x, Y: y, Width: 6, MaxHeight: 12,
		Words: []types.Word{{Text: ch, Kind: types.WordPlain}},
	})
}

func TestRecombineVertical_LongRunMergesIntoOneLine(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				singleCharLineItem(100, 700, "标"),
				singleCharLineItem(100, 688, "题"),
				singleCharLineItem(100, 676, "文"),
				singleCharLineItem(100, 664, "字"),
				singleCharLineItem(100, 652, "竖"),
				singleCharLineItem(100, 640, "排"),
			}},
		},
	}

	require.NoError(t, recombineVertical(result))

	items := result.Pages[0].Items
	require.Len(t, items, 1)
	assert.Equal(t, "标题文字竖排", items[0].Line.Words[0].Text)
}

func TestRecombineVertical_ShortRunFlushesUnchanged(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				singleCharLineItem(100, 700, "标"),
				singleCharLineItem(100, 688, "题"),
			}},
		},
	}

	require.NoError(t, recombineVertical(result))
	assert.Len(t, result.Pages[0].Items, 2)
}

func TestRecombineVertical_MixedKindsBreakTheStash(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				singleCharLineItem(100, 700, "1"),
				singleCharLineItem(100, 688, "2"),
				singleCharLineItem(100, 676, "标"),
				singleCharLineItem(100, 664, "题"),
			}},
		},
	}

	require.NoError(t, recombineVertical(result))
	// Two short stashes (digits, then CJK), neither exceeding minRun=5,
	// so all four lines flush unchanged.
	assert.Len(t, result.Pages[0].Items, 4)
}

func TestRecombineVertical_MultiWordLinesAreNotCandidates(t *testing.T) {
	multiWord := types.NewLineItem(types.Line{
		X: 10, Y: 700, Width: 40, MaxHeight: 12,
		Words: []types.Word{{Text: "hello"}, {Text: "world"}},
	})
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages:  []types.PageContext{{Items: []types.PageItem{multiWord}}},
	}

	require.NoError(t, recombineVertical(result))
	require.Len(t, result.Pages[0].Items, 1)
	assert.Equal(t, "hello world", result.Pages[0].Items[0].Line.Text())
}
