package markdown

import (
	"strings"
	"unicode"

	"github.com/rapidai/pdf2md/internal/logger"
	"github.com/rapidai/pdf2md/internal/types"
)

// computeGlobals is stage 2 (spec §4.2): one pass over every TextRun,
// ignoring images, to derive body font/height, body line spacing,
// per-font average character width, and per-font style confidence.
func computeGlobals(result *types.ParseResult) error {
	heightCounts := map[float64]int{}
	fontCounts := map[string]int{}
	maxHeight := 0.0
	maxHeightFontID := ""

	var allRuns []types.TextRun
	for _, page := range result.Pages {
		for _, item := range page.Items {
			if item.Kind != types.ItemTextRun {
				continue
			}
			r := *item.TextRun
			allRuns = append(allRuns, r)
			heightCounts[r.Height]++
			fontCounts[r.FontID]++
			if r.Height > maxHeight {
				maxHeight = r.Height
				maxHeightFontID = r.FontID
			}
		}
	}

	bodyHeight := modeFloat(heightCounts)
	bodyFontID := modeString(fontCounts)
	bodyDistance := computeBodyDistance(allRuns, bodyHeight)

	avgCharWidth := computeAvgCharWidth(allRuns, bodyHeight)
	bodyAvgWidth := avgCharWidth[bodyFontID]

	fonts := map[string]types.Font{}
	for _, r := range allRuns {
		if _, ok := fonts[r.FontID]; !ok {
			fonts[r.FontID] = types.Font{ID: r.FontID, Name: r.FontID}
		}
	}
	for id, f := range result.Globals.Fonts {
		fonts[id] = f // caller-supplied font descriptors take precedence
	}

	styleConfidence := map[string]types.StyleConfidence{}
	fontFormat := map[string]types.WordFormat{}
	for id, f := range fonts {
		if id == bodyFontID {
			styleConfidence[id] = types.StyleConfidence{}
			fontFormat[id] = types.FormatNone
			continue
		}
		sc := computeStyleConfidence(f, avgCharWidth[id], bodyAvgWidth, id == maxHeightFontID)
		styleConfidence[id] = sc
		fontFormat[id] = sc.Format()
	}

	result.Globals.BodyHeight = bodyHeight
	result.Globals.BodyFontID = bodyFontID
	result.Globals.BodyDistance = bodyDistance
	result.Globals.MaxHeight = maxHeight
	result.Globals.MaxHeightFontID = maxHeightFontID
	result.Globals.AvgCharWidth = avgCharWidth
	result.Globals.StyleConfidence = styleConfidence
	result.Globals.FontFormat = fontFormat
	result.Globals.Fonts = fonts
	result.Globals.MinX = computeMinX(allRuns)

	return nil
}

func modeFloat(counts map[float64]int) float64 {
	best, bestCount := 0.0, -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

// modeString returns the most frequent key, breaking ties
// lexicographically so the result doesn't depend on Go's randomized map
// iteration order.
func modeString(counts map[string]int) string {
	best, bestCount := "", -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

func computeMinX(runs []types.TextRun) float64 {
	min := 0.0
	first := true
	for _, r := range runs {
		if first || r.X < min {
			min = r.X
			first = false
		}
	}
	return min
}

// computeBodyDistance finds the modal positive Y-delta between
// consecutive body-height runs with non-empty trimmed text; a non-body
// run resets the running anchor (spec §4.2).
func computeBodyDistance(runs []types.TextRun, bodyHeight float64) float64 {
	deltaCounts := map[float64]int{}
	hasAnchor := false
	var anchorY float64

	for _, r := range runs {
		isBody := r.Height == bodyHeight && strings.TrimSpace(r.Text) != ""
		if !isBody {
			hasAnchor = false
			continue
		}
		if hasAnchor {
			d := anchorY - r.Y
			if d > 0 {
				deltaCounts[d]++
			}
		}
		anchorY = r.Y
		hasAnchor = true
	}

	if len(deltaCounts) == 0 {
		return bodyHeight * 1.2
	}
	return modeFloat(deltaCounts)
}

// computeAvgCharWidth computes per-font mean of width/trimmed-text-length
// across runs within 0.5 of body-height (spec §4.2).
func computeAvgCharWidth(runs []types.TextRun, bodyHeight float64) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}

	for _, r := range runs {
		if abs(r.Height-bodyHeight) > 0.5 {
			continue
		}
		n := len([]rune(strings.TrimSpace(r.Text)))
		if n == 0 {
			continue
		}
		sums[r.FontID] += r.Width / float64(n)
		counts[r.FontID]++
	}

	out := map[string]float64{}
	for id, sum := range sums {
		out[id] = sum / float64(counts[id])
	}
	return out
}

// computeStyleConfidence implements the weighted-feature formula from
// spec §4.2. Descriptor weight/italic-angle come from the caller-supplied
// Font; the name-substring check and the max-height fallback use string
// and identity comparisons respectively.
func computeStyleConfidence(f types.Font, avgWidth, bodyAvgWidth float64, isMaxHeightFont bool) types.StyleConfidence {
	bold, italic := 0.0, 0.0

	descriptorBold := f.Weight >= 600
	descriptorItalic := f.ItalicAngle != 0
	if descriptorBold {
		bold += 0.40
	}
	if descriptorItalic {
		italic += 0.40
	}

	if bodyAvgWidth > 0 && avgWidth/bodyAvgWidth >= 1.1 {
		ratio := clamp01((avgWidth/bodyAvgWidth - 1.1) / 0.2)
		bold += ratio * 0.35
	}

	if bodyAvgWidth > 0 {
		relative := clamp01((avgWidth / bodyAvgWidth) - 1)
		bold += relative * 0.20
	}

	lower := strings.ToLower(f.Name)
	if strings.Contains(lower, "bold") {
		bold += 0.05
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		italic += 0.05
	}

	if isMaxHeightFont {
		bold += 0.1
	}

	logger.Debug("style confidence computed",
		logger.String("font", f.ID),
		logger.Float64("rawBold", bold),
		logger.Float64("rawItalic", italic),
		logger.Float64("clampedBold", clamp01(bold)),
		logger.Float64("clampedItalic", clamp01(italic)),
	)

	return types.StyleConfidence{Bold: clamp01(bold), Italic: clamp01(italic)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func isUpperText(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.ToUpper(r) != r {
				return false
			}
		}
	}
	return hasLetter
}
