package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidai/pdf2md/internal/types"
)

func singleLineBlockItem(text string) types.PageItem {
	return types.NewBlockItem(types.Block{
		Type:  types.BlockNone,
		Lines: []types.Line{{Words: []types.Word{{Text: text}}}},
	})
}

// TestDetectTables_KeywordAndGlyphSingleLineIsTable mirrors spec §8
// scenario S6: a single-line block carrying table-header keywords and a
// status glyph, with enough short tokens, is detected as a table.
func TestDetectTables_KeywordAndGlyphSingleLineIsTable(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				singleLineBlockItem("名称 类型 是否支持 备注 标题 结构 ✅ 多级标题 公式 ✅ 支持"),
			}},
		},
	}

	require.NoError(t, detectTables(result))
	assert.Equal(t, types.BlockTable, result.Pages[0].Items[0].Block.Type)
}

func TestDetectTables_OrdinarySentenceIsExcluded(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				singleLineBlockItem("这是一段很长的说明文字，用于描述接下来发生的事情，但是没有任何表格结构。"),
			}},
		},
	}

	require.NoError(t, detectTables(result))
	assert.Equal(t, types.BlockNone, result.Pages[0].Items[0].Block.Type)
}

func TestDetectTables_PipeDelimitedMultiLineIsTable(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				types.NewBlockItem(types.Block{Type: types.BlockNone, Lines: []types.Line{
					{Words: []types.Word{{Text: "a | b | c"}}},
					{Words: []types.Word{{Text: "1 | 2 | 3"}}},
				}}),
			}},
		},
	}

	require.NoError(t, detectTables(result))
	assert.Equal(t, types.BlockTable, result.Pages[0].Items[0].Block.Type)
}

func TestDetectTables_SeparatorRowWithConsistentColumnsIsTable(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				types.NewBlockItem(types.Block{Type: types.BlockNone, Lines: []types.Line{
					{Words: []types.Word{{Text: "Name      Type"}}},
					{Words: []types.Word{{Text: "----------------"}}},
					{Words: []types.Word{{Text: "Alice     Admin"}}},
				}}),
			}},
		},
	}

	require.NoError(t, detectTables(result))
	assert.Equal(t, types.BlockTable, result.Pages[0].Items[0].Block.Type)
}

func TestDetectTables_ShortOrdinaryTextIsNotTable(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				singleLineBlockItem("Hello world"),
			}},
		},
	}

	require.NoError(t, detectTables(result))
	assert.Equal(t, types.BlockNone, result.Pages[0].Items[0].Block.Type)
}
