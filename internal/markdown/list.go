package markdown

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rapidai/pdf2md/internal/types"
)

var bulletChars = map[rune]bool{
	'•': true, '·': true, '●': true, '◦': true, '○': true,
	'▪': true, '■': true, '□': true, '*': true, '+': true,
}

// numberedListPattern matches "1.", "2)", and CJK numeral markers like "三、".
var numberedListPattern = regexp.MustCompile(`^([0-9]+[.)]|[一二三四五六七八九十]+、)`)

// detectLists is stage 5 (spec §4.5): tags untyped lines as LIST entries,
// normalizing non-"-" bullet glyphs to "-" via a synthetic replacement
// line (spec invariant: "removed" original plus "-"-prefixed synthetic).
func detectLists(result *types.ParseResult) error {
	for pi := range result.Pages {
		page := &result.Pages[pi]

		var out []types.PageItem
		for _, item := range page.Items {
			if item.Kind != types.ItemLine || item.Line.Type != types.BlockNone || item.Line.Removed {
				out = append(out, item)
				continue
			}

			line := *item.Line
			if len(line.Words) == 0 {
				out = append(out, item)
				continue
			}

			first := line.Words[0].Text
			trimmed := strings.TrimSpace(first)

			switch {
			case trimmed == "-":
				line.Type = types.BlockList
				out = append(out, types.NewLineItem(line))

			case isBulletGlyph(trimmed):
				removed := line
				removed.Removed = true
				removed.RemovedNote = "replaced by normalized list marker"
				out = append(out, types.NewLineItem(removed))

				synthetic := line
				synthetic.Words = append([]types.Word(nil), line.Words...)
				synthetic.Words[0] = types.Word{Text: "-", Kind: types.WordPlain}
				synthetic.Type = types.BlockList
				out = append(out, types.NewLineItem(synthetic))

			case numberedListPattern.MatchString(line.Text()):
				line.Type = types.BlockList
				out = append(out, types.NewLineItem(line))

			default:
				out = append(out, item)
			}
		}

		page.Items = out
	}
	return nil
}

func isBulletGlyph(s string) bool {
	runes := []rune(s)
	if len(runes) != 1 {
		return false
	}
	r := runes[0]
	if r == '-' {
		return false
	}
	if bulletChars[r] {
		return true
	}
	return unicode.IsSymbol(r) && unicode.Is(unicode.So, r)
}
