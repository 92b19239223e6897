package markdown

import (
	"sort"

	"github.com/rapidai/pdf2md/internal/types"
)

// headerCandidate bundles a candidate Line with the page-local geometry
// the feature computations need.
type headerCandidate struct {
	pageIndex int
	itemIndex int
	line      types.Line
	spaceBefore float64
	spaceAfter  float64
}

// detectHeaders is stage 6 (spec §4.6): multi-feature weighted scoring
// over untyped, non-list candidate lines, followed by fontSize
// clustering to assign H1..H4.
func detectHeaders(result *types.ParseResult) error {
	t := result.Config.Tunables
	g := result.Globals

	var candidates []headerCandidate
	pageMinY, pageMaxY := map[int]float64{}, map[int]float64{}
	fontSizeCounts := map[float64]int{}

	for pi := range result.Pages {
		page := &result.Pages[pi]
		lineIdx := lineIndices(page.Items)

		minY, maxY := 0.0, 0.0
		first := true
		for _, idx := range lineIdx {
			y := page.Items[idx].Line.Y
			if first || y < minY {
				minY = y
			}
			if first || y > maxY {
				maxY = y
			}
			first = false
		}
		pageMinY[pi], pageMaxY[pi] = minY, maxY

		for k, idx := range lineIdx {
			line := *page.Items[idx].Line
			if line.Removed || line.Type != types.BlockNone {
				continue
			}

			spaceBefore, spaceAfter := 0.0, 0.0
			if k > 0 {
				prev := page.Items[lineIdx[k-1]].Line
				spaceBefore = prev.Y - line.Y
			}
			if k < len(lineIdx)-1 {
				next := page.Items[lineIdx[k+1]].Line
				spaceAfter = line.Y - next.Y
			}

			candidates = append(candidates, headerCandidate{
				pageIndex: pi, itemIndex: idx, line: line,
				spaceBefore: spaceBefore, spaceAfter: spaceAfter,
			})
			fontSizeCounts[line.MaxHeight]++
		}
	}

	maxCount := 0
	for _, c := range fontSizeCounts {
		if c > maxCount {
			maxCount = c
		}
	}

	var retained []headerCandidate
	for _, c := range candidates {
		if g.BodyHeight > 0 && c.line.MaxHeight/g.BodyHeight < t.HeaderFontSizeGate {
			// fontSizeRatio's ">= 1.15" gate (spec §4.6) is a candidacy
			// floor, not just a per-feature cutoff: a body-height line
			// scoring well on isStandalone/repetition alone (e.g. a lone
			// paragraph on an otherwise sparse page) must not outrank an
			// actual oversized heading into the same header levels.
			continue
		}
		score := scoreHeaderCandidate(c, g, t, candidates, pageMinY[c.pageIndex], pageMaxY[c.pageIndex], fontSizeCounts, maxCount)
		if score.Score >= t.HeaderScoreThreshold {
			retained = append(retained, c)
		}
	}

	levelBySize := clusterHeaderLevels(retained, t)
	if g.HeaderLevelBySize != nil {
		for size, level := range g.HeaderLevelBySize {
			levelBySize[size] = level
		}
	}
	for size, level := range g.TOCRanges {
		levelBySize[size] = level
	}

	applyHeaderLevels(result, retained, levelBySize, g, t)

	result.Globals.HeaderLevelBySize = levelBySize
	return nil
}

func lineIndices(items []types.PageItem) []int {
	var idx []int
	for i, it := range items {
		if it.Kind == types.ItemLine {
			idx = append(idx, i)
		}
	}
	return idx
}

func scoreHeaderCandidate(
	c headerCandidate, g types.Globals, t types.Tunables,
	all []headerCandidate, pageMinY, pageMaxY float64,
	fontSizeCounts map[float64]int, maxCount int,
) types.HeaderScore {
	features := map[string]float64{}
	weights := map[string]float64{}

	if g.BodyHeight > 0 {
		ratio := c.line.MaxHeight / g.BodyHeight
		if ratio >= t.HeaderFontSizeGate {
			features["fontSizeRatio"] = clamp01((ratio - t.HeaderFontSizeGate) / 1.0)
			weights["fontSizeRatio"] = t.HeaderWeightFontSizeRatio
		}
	}

	if g.BodyDistance > 0 {
		spacing := c.spaceBefore
		if c.spaceAfter > spacing {
			spacing = c.spaceAfter
		}
		features["verticalSpacing"] = clamp01(spacing / (g.BodyDistance * 1.5))
		weights["verticalSpacing"] = t.HeaderWeightVerticalSpacing
	}

	standalone := true
	for _, other := range all {
		if other.pageIndex != c.pageIndex || other.itemIndex == c.itemIndex {
			continue
		}
		if abs(other.line.Y-c.line.Y) < c.line.MaxHeight*0.5 {
			standalone = false
			break
		}
	}
	features["isStandalone"] = boolFeature(standalone)
	weights["isStandalone"] = t.HeaderWeightIsStandalone

	if pageMaxY != pageMinY {
		features["positionOnPage"] = clamp01((pageMaxY - c.line.Y) / (pageMaxY - pageMinY))
		weights["positionOnPage"] = t.HeaderWeightPositionOnPage
	}

	if maxCount > 0 {
		features["repetitionPattern"] = float64(fontSizeCounts[c.line.MaxHeight]) / float64(maxCount)
		weights["repetitionPattern"] = t.HeaderWeightRepetition
	}

	features["isUppercase"] = boolFeature(isUpperText(c.line.Text()))
	weights["isUppercase"] = t.HeaderWeightIsUppercase

	// fontFamilyDiff: Line carries a resolved WordFormat, not a font ID,
	// so this approximates "font differs from body" by whether any word
	// in the line carries non-default formatting — body text is plain by
	// construction (globals.go assigns the body font FormatNone).
	fontDiffers := false
	for _, w := range c.line.Words {
		if w.Format != types.FormatNone {
			fontDiffers = true
			break
		}
	}
	features["fontFamilyDiff"] = boolFeature(fontDiffers)
	weights["fontFamilyDiff"] = t.HeaderWeightFontFamilyDiff

	totalWeight := 0.0
	sum := 0.0
	for k, v := range features {
		sum += v * weights[k]
		totalWeight += weights[k]
	}
	score := 0.0
	if totalWeight > 0 {
		score = sum / totalWeight
	}

	return types.HeaderScore{Score: score, Features: features}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// clusterHeaderLevels clusters retained candidates by fontSize (tolerance
// HeaderClusterTolerance), sorts clusters by ratio descending, and
// assigns H1..H(HeaderMaxLevels) in order.
func clusterHeaderLevels(retained []headerCandidate, t types.Tunables) map[float64]int {
	var sizes []float64
	seen := map[float64]bool{}
	for _, c := range retained {
		if !seen[c.line.MaxHeight] {
			seen[c.line.MaxHeight] = true
			sizes = append(sizes, c.line.MaxHeight)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	var clusters []float64
	for _, s := range sizes {
		placed := false
		for _, c := range clusters {
			if abs(c-s) <= t.HeaderClusterTolerance {
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, s)
		}
	}

	levelBySize := map[float64]int{}
	maxLevels := t.HeaderMaxLevels
	if maxLevels <= 0 {
		maxLevels = 4
	}
	for i, c := range clusters {
		if i >= maxLevels {
			break
		}
		for _, s := range sizes {
			if abs(c-s) <= t.HeaderClusterTolerance {
				levelBySize[s] = i + 1
			}
		}
	}
	return levelBySize
}

func applyHeaderLevels(result *types.ParseResult, retained []headerCandidate, levelBySize map[float64]int, g types.Globals, t types.Tunables) {
	retainedSet := map[[2]int]bool{}
	for _, c := range retained {
		retainedSet[[2]int{c.pageIndex, c.itemIndex}] = true
	}

	extraThreshold := g.BodyHeight + (g.MaxHeight-g.BodyHeight)/3

	for pi := range result.Pages {
		page := &result.Pages[pi]
		for idx := range page.Items {
			item := &page.Items[idx]
			if item.Kind != types.ItemLine || item.Line.Removed || item.Line.Type != types.BlockNone {
				continue
			}

			// These size-based overrides exist for a genuinely oversized
			// title font; on a uniform-font document MaxHeight==BodyHeight
			// and every untyped line would otherwise qualify as H1.
			if g.MaxHeight > g.BodyHeight && item.Line.MaxHeight == g.MaxHeight {
				item.Line.Type = types.BlockH1
				continue
			}
			if g.MaxHeight > g.BodyHeight && item.Line.MaxHeight > extraThreshold {
				item.Line.Type = types.BlockH2
				continue
			}

			if !retainedSet[[2]int{pi, idx}] {
				continue
			}
			if level, ok := levelBySize[item.Line.MaxHeight]; ok {
				item.Line.Type = headerLevelBlockType(level)
			}
		}
	}
}

func headerLevelBlockType(level int) types.BlockType {
	switch level {
	case 1:
		return types.BlockH1
	case 2:
		return types.BlockH2
	case 3:
		return types.BlockH3
	case 4:
		return types.BlockH4
	case 5:
		return types.BlockH5
	case 6:
		return types.BlockH6
	default:
		return types.BlockParagraph
	}
}
