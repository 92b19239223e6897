package markdown

import (
	"regexp"
	"strings"

	"github.com/rapidai/pdf2md/internal/types"
)

var columnSplitPattern = regexp.MustCompile(`\s{2,}|\t+`)
var headerPairPattern = regexp.MustCompile(`名称.*类型.*支持.*备注`)

// detectTables is stage 9 (spec §4.9): heuristic detection of tabular
// blocks among untyped blocks, using a mix of geometry (pipe/separator/
// column-count consistency) and CJK keyword heuristics.
func detectTables(result *types.ParseResult) error {
	t := result.Config.Tunables

	for pi := range result.Pages {
		page := &result.Pages[pi]
		for idx := range page.Items {
			item := &page.Items[idx]
			if item.Kind != types.ItemBlock || item.Block.Type != types.BlockNone {
				continue
			}
			if isTable(*item.Block, t) {
				item.Block.Type = types.BlockTable
			}
		}
	}
	return nil
}

func isTable(b types.Block, t types.Tunables) bool {
	if len(b.Lines) == 0 {
		return false
	}

	lineTexts := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		lineTexts[i] = l.Text()
	}
	aggregated := strings.Join(lineTexts, " ")

	if isExcludedFromTable(aggregated, t) {
		return false
	}

	if len(b.Lines) == 1 {
		return isSingleLineTable(lineTexts[0], t)
	}
	return isMultiLineTable(lineTexts, aggregated, t)
}

func isExcludedFromTable(aggregated string, t types.Tunables) bool {
	length := len([]rune(aggregated))

	if length > 30 && containsAny(aggregated, t.SentenceTerminators) {
		return true
	}

	if length > 20 && containsAny(aggregated, t.TableParagraphCues) && !containsAny(aggregated, t.TableStatusGlyphs) {
		return true
	}

	return false
}

func isSingleLineTable(line string, t types.Tunables) bool {
	tokens := strings.Fields(line)
	if len(tokens) < 4 {
		return false
	}

	shortTokens := func(maxLen int) int {
		n := 0
		for _, tok := range tokens {
			if len([]rune(tok)) <= maxLen {
				n++
			}
		}
		return n
	}

	hasHeaderKeyword := containsAny(line, t.TableHeaderKeywords)
	hasStatusGlyph := containsAny(line, t.TableStatusGlyphs)
	hasSentencePunct := containsAny(line, t.SentenceTerminators)

	if hasHeaderKeyword && hasStatusGlyph && shortTokens(15) >= 4 {
		return true
	}
	if len(tokens) >= 6 && shortTokens(12) >= 5 && !hasSentencePunct {
		return true
	}
	if headerPairPattern.MatchString(line) && hasStatusGlyph && len(tokens) >= 8 {
		return true
	}
	return false
}

func isMultiLineTable(lines []string, aggregated string, t types.Tunables) bool {
	anyPipe := false
	for _, l := range lines {
		if strings.Contains(l, "|") {
			anyPipe = true
			break
		}
	}
	if anyPipe && len(lines) >= 2 {
		return true
	}

	separatorIdx := -1
	for i, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed != "" && isSeparatorLine(trimmed) {
			separatorIdx = i
			break
		}
	}
	if separatorIdx >= 0 {
		counts := columnCounts(lines)
		if consistentColumnCounts(counts, 2) && len(lines) >= 2 {
			return true
		}
	}

	if !anyPipe {
		counts := columnCounts(lines)
		if len(lines) >= 2 && consistentColumnCounts(counts, 0) && !containsAny(aggregated, t.SentenceTerminators) {
			return true
		}
	}

	return false
}

func isSeparatorLine(s string) bool {
	for _, r := range s {
		if r != '-' && r != '=' {
			return false
		}
	}
	return true
}

func columnCounts(lines []string) []int {
	counts := make([]int, 0, len(lines))
	for _, l := range lines {
		cols := columnSplitPattern.Split(strings.TrimSpace(l), -1)
		valid := true
		for _, c := range cols {
			if len([]rune(c)) > 30 {
				valid = false
				break
			}
		}
		if !valid {
			counts = append(counts, -1)
			continue
		}
		counts = append(counts, len(cols))
	}
	return counts
}

func consistentColumnCounts(counts []int, tolerance int) bool {
	matching := 0
	base := -1
	for _, c := range counts {
		if c <= 1 {
			continue
		}
		if base == -1 {
			base = c
			matching = 1
			continue
		}
		if abs(float64(c-base)) <= float64(tolerance) {
			matching++
		}
	}
	return matching >= 2
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
