package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidai/pdf2md/internal/types"
)

// TestRunAndEmit_TitleThenBodyScenario drives the full stage pipeline
// (globals through table detection) plus emission from raw TextRuns,
// mirroring spec §8 scenario S3 end-to-end.
func TestRunAndEmit_TitleThenBodyScenario(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: textRunItems(
				types.TextRun{X: 10, Y: 760, Width: 40, Height: 24, Text: "Title", FontID: "F2"},
				types.TextRun{X: 10, Y: 700, Width: 20, Height: 12, Text: "body.", FontID: "F1"},
			)},
		},
	}

	require.NoError(t, Run(result))
	pages, _ := Emit(result)
	require.Len(t, pages, 1)
	assert.Equal(t, "# Title\n\nbody.", pages[0])
}

// TestRunAndEmit_BulletedListScenario mirrors spec §8 scenario S4: three
// bullet lines normalize to three "-"-prefixed list entries. The bullet
// glyph is given its own (bold) symbol font, as a real PDF's bullet runs
// come from a distinct font/operator from the body text that follows —
// which is also what keeps line grouping's run-merge from swallowing the
// bullet into the same word as "item".
func TestRunAndEmit_BulletedListScenario(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Globals: types.Globals{
			Fonts: map[string]types.Font{"FSYM": {ID: "FSYM", Name: "Symbol", Weight: 700}},
		},
		Pages: []types.PageContext{
			{Items: textRunItems(
				bulletRun(10, 700), itemWord(22, 700, "item"), numberWord(40, 700, "1"),
				bulletRun(10, 688), itemWord(22, 688, "item"), numberWord(40, 688, "2"),
				bulletRun(10, 676), itemWord(22, 676, "item"), numberWord(40, 676, "3"),
			)},
		},
	}

	require.NoError(t, Run(result))
	pages, _ := Emit(result)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0], "- item 1")
	assert.Contains(t, pages[0], "- item 2")
	assert.Contains(t, pages[0], "- item 3")
}

func bulletRun(x, y float64) types.TextRun {
	return types.TextRun{X: x, Y: y, Width: 8, Height: 12, Text: "•", FontID: "FSYM"}
}

func itemWord(x, y float64, text string) types.TextRun {
	return types.TextRun{X: x, Y: y, Width: 24, Height: 12, Text: text, FontID: "F1"}
}

func numberWord(x, y float64, text string) types.TextRun {
	return types.TextRun{X: x, Y: y, Width: 8, Height: 12, Text: text, FontID: "F1"}
}

// TestRunAndEmit_EmptyPageProducesEmptyMarkdown covers spec §7's "Empty
// page" disposition: no items, no error, empty Markdown string.
func TestRunAndEmit_EmptyPageProducesEmptyMarkdown(t *testing.T) {
	result := &types.ParseResult{
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages:  []types.PageContext{{Items: nil}},
	}

	require.NoError(t, Run(result))
	pages, _ := Emit(result)
	require.Len(t, pages, 1)
	assert.Equal(t, "", pages[0])
}

// TestRunAndEmit_IdenticalAcrossImageModesWhenNoImages checks that a
// page of plain text (no images at all) yields identical Markdown under
// the none, base64 and relative ImageModes, since there is nothing for
// the image sink to vary on.
func TestRunAndEmit_IdenticalAcrossImageModesWhenNoImages(t *testing.T) {
	build := func(mode types.ImageMode) string {
		result := &types.ParseResult{
			Config: types.Config{ImageMode: mode, Tunables: types.DefaultTunables()},
			Pages: []types.PageContext{
				{Items: textRunItems(
					types.TextRun{X: 10, Y: 700, Width: 20, Height: 12, Text: "hello", FontID: "F1"},
				)},
			},
		}
		require.NoError(t, Run(result))
		pages, _ := Emit(result)
		return pages[0]
	}

	base := build(types.ImageModeNone)
	for _, m := range []types.ImageMode{types.ImageModeBase64, types.ImageModeRelative} {
		assert.Equal(t, base, build(m))
	}
}
