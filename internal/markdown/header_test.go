package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidai/pdf2md/internal/types"
)

func untypedLineItem(x, y, height float64, text string) types.PageItem {
	return types.NewLineItem(types.Line{
		X: x, Y: y, MaxHeight: height,
		Words: []types.Word{{Text: text, Kind: types.WordPlain}},
	})
}

// TestDetectHeaders_LargeIsolatedLineBecomesH1 mirrors spec §8 scenario S3:
// a standalone line at 2x body height above ordinary body text is scored
// and classified as a level-1 header.
func TestDetectHeaders_LargeIsolatedLineBecomesH1(t *testing.T) {
	result := &types.ParseResult{
		Globals: types.Globals{BodyHeight: 12, BodyDistance: 14, MaxHeight: 24, MaxHeightFontID: "F2"},
		Config:  types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				untypedLineItem(10, 760, 24, "Title"),
				untypedLineItem(10, 700, 12, "body."),
			}},
		},
	}

	require.NoError(t, detectHeaders(result))

	items := result.Pages[0].Items
	assert.Equal(t, types.BlockH1, items[0].Line.Type)
	assert.Equal(t, types.BlockNone, items[1].Line.Type)
}

func TestClusterHeaderLevels_CapsAtHeaderMaxLevels(t *testing.T) {
	tun := types.DefaultTunables()
	candidates := []headerCandidate{
		{line: types.Line{MaxHeight: 30}},
		{line: types.Line{MaxHeight: 26}},
		{line: types.Line{MaxHeight: 22}},
		{line: types.Line{MaxHeight: 18}},
		{line: types.Line{MaxHeight: 14}},
	}

	levels := clusterHeaderLevels(candidates, tun)
	assert.Len(t, levels, 4)
	assert.Equal(t, 1, levels[30.0])
	assert.Equal(t, 4, levels[18.0])
	_, hasFifth := levels[14.0]
	assert.False(t, hasFifth)
}

func TestClusterHeaderLevels_ToleranceGroupsCloseSizes(t *testing.T) {
	tun := types.DefaultTunables()
	candidates := []headerCandidate{
		{line: types.Line{MaxHeight: 20.0}},
		{line: types.Line{MaxHeight: 20.3}},
	}

	levels := clusterHeaderLevels(candidates, tun)
	assert.Equal(t, levels[20.0], levels[20.3])
}

// TestDetectHeaders_TOCRangeOverridesClusterLevel verifies that a
// Globals.TOCRanges entry (spec §4.6's table-of-contents precedence)
// overrides the level the fontSize-clustering pass would
// otherwise have assigned to an already-retained candidate.
func TestDetectHeaders_TOCRangeOverridesClusterLevel(t *testing.T) {
	result := &types.ParseResult{
		Globals: types.Globals{
			BodyHeight: 12, BodyDistance: 14,
			TOCRanges: map[float64]int{20: 3},
		},
		Config: types.Config{Tunables: types.DefaultTunables()},
		Pages: []types.PageContext{
			{Items: []types.PageItem{
				untypedLineItem(10, 760, 20, "Section Heading"),
				untypedLineItem(10, 700, 12, "body text here."),
			}},
		},
	}

	require.NoError(t, detectHeaders(result))
	// Without the override this line's own fontSize cluster would make it
	// the top (H1) cluster; the seeded map forces H3 instead.
	assert.Equal(t, types.BlockH3, result.Pages[0].Items[0].Line.Type)
}
