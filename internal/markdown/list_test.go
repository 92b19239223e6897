package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidai/pdf2md/internal/types"
)

func lineItem(words ...string) types.PageItem {
	ws := make([]types.Word, len(words))
	for i, w := range words {
		ws[i] = types.Word{Text: w, Kind: types.WordPlain}
	}
	return types.NewLineItem(types.Line{Words: ws})
}

func TestDetectLists_HyphenFirstWordTagsListInPlace(t *testing.T) {
	result := &types.ParseResult{
		Pages: []types.PageContext{{Items: []types.PageItem{lineItem("-", "item", "1")}}},
	}

	require.NoError(t, detectLists(result))
	require.Len(t, result.Pages[0].Items, 1)
	assert.Equal(t, types.BlockList, result.Pages[0].Items[0].Line.Type)
}

func TestDetectLists_BulletGlyphExpandsIntoRemovedPlusSynthetic(t *testing.T) {
	result := &types.ParseResult{
		Pages: []types.PageContext{{Items: []types.PageItem{lineItem("•", "item", "1")}}},
	}

	require.NoError(t, detectLists(result))
	items := result.Pages[0].Items
	require.Len(t, items, 2)

	assert.True(t, items[0].Line.Removed)
	assert.Equal(t, "•", items[0].Line.Words[0].Text)

	assert.False(t, items[1].Line.Removed)
	assert.Equal(t, types.BlockList, items[1].Line.Type)
	assert.Equal(t, "-", items[1].Line.Words[0].Text)
	assert.Equal(t, "item", items[1].Line.Words[1].Text)
}

func TestDetectLists_NumberedPatternTagsInPlace(t *testing.T) {
	result := &types.ParseResult{
		Pages: []types.PageContext{{Items: []types.PageItem{lineItem("1.", "first", "point")}}},
	}

	require.NoError(t, detectLists(result))
	require.Len(t, result.Pages[0].Items, 1)
	assert.Equal(t, types.BlockList, result.Pages[0].Items[0].Line.Type)
}

func TestDetectLists_CJKNumeralPatternTagsInPlace(t *testing.T) {
	result := &types.ParseResult{
		Pages: []types.PageContext{{Items: []types.PageItem{lineItem("三、", "第三点")}}},
	}

	require.NoError(t, detectLists(result))
	require.Len(t, result.Pages[0].Items, 1)
	assert.Equal(t, types.BlockList, result.Pages[0].Items[0].Line.Type)
}

func TestDetectLists_OrdinaryTextIsUntouched(t *testing.T) {
	result := &types.ParseResult{
		Pages: []types.PageContext{{Items: []types.PageItem{lineItem("regular", "paragraph", "text")}}},
	}

	require.NoError(t, detectLists(result))
	require.Len(t, result.Pages[0].Items, 1)
	assert.Equal(t, types.BlockNone, result.Pages[0].Items[0].Line.Type)
}

func TestDetectLists_AlreadyTypedLinesAreSkipped(t *testing.T) {
	typed := types.NewLineItem(types.Line{
		Type:  types.BlockH1,
		Words: []types.Word{{Text: "•"}, {Text: "Title"}},
	})
	result := &types.ParseResult{Pages: []types.PageContext{{Items: []types.PageItem{typed}}}}

	require.NoError(t, detectLists(result))
	require.Len(t, result.Pages[0].Items, 1)
	assert.Equal(t, types.BlockH1, result.Pages[0].Items[0].Line.Type)
}
