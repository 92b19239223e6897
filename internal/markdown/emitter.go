package markdown

import (
	"strings"

	"github.com/rapidai/pdf2md/internal/logger"
	"github.com/rapidai/pdf2md/internal/types"
)

// Emit is stage 10 (spec §4.10): serializes a ParseResult's pages to
// Markdown, in order, handling image references per the configured
// ImageMode. Returns the per-page Markdown and, for imageMode=relative,
// the accompanying name→bytes map.
func Emit(result *types.ParseResult) ([]string, map[string][]byte) {
	prefix := resolveTitlePrefix(result.Config.TitlePrefix, result.MetadataTitle)
	imageMap := map[string][]byte{}

	pages := make([]string, len(result.Pages))
	for pi, page := range result.Pages {
		var parts []string
		for _, item := range page.Items {
			switch item.Kind {
			case types.ItemBlock:
				parts = append(parts, emitBlock(*item.Block))
			case types.ItemImage:
				ref, err := imageReference(result.Config, *item.Image, pi, prefix, imageMap)
				if err != nil {
					logger.Warn("dropping image, reference resolution failed",
						logger.Int("page", pi), logger.String("name", item.Image.Name), logger.Err(err))
					continue
				}
				if ref == "" {
					continue
				}
				parts = append(parts, ref)
			}
		}
		md := strings.Join(parts, "\n\n")
		pages[pi] = md
		result.Pages[pi].Markdown = md
	}

	if result.Config.ImageMode != types.ImageModeRelative {
		return pages, nil
	}
	return pages, imageMap
}

func emitBlock(b types.Block) string {
	switch b.Type {
	case types.BlockH1, types.BlockH2, types.BlockH3, types.BlockH4, types.BlockH5, types.BlockH6:
		return emitHeader(b)
	case types.BlockList:
		return emitJoinedLines(b, true)
	case types.BlockCode:
		return emitCode(b)
	case types.BlockTable:
		return emitTable(b)
	case types.BlockTOC:
		return emitTOC(b)
	default: // FOOTNOTES, PARAGRAPH, and untyped leftovers
		return emitJoinedLines(b, true)
	}
}

func emitHeader(b types.Block) string {
	level := b.Type.Flags().HeadlineLevel
	if level <= 0 {
		level = 1
	}
	prefix := strings.Repeat("#", level) + " "

	var lines []string
	for _, l := range b.Lines {
		lines = append(lines, emitInline(l.Words))
	}
	return prefix + strings.Join(lines, " ")
}

func emitJoinedLines(b types.Block, inlineFormat bool) string {
	var lines []string
	for _, l := range b.Lines {
		if inlineFormat {
			lines = append(lines, emitInline(l.Words))
		} else {
			lines = append(lines, l.Text())
		}
	}
	return strings.Join(lines, "\n")
}

// emitTable renders a TABLE block verbatim if its lines already carry
// pipes, otherwise splits each line on the same column heuristic the
// table detector uses and emits a standard pipe table with a
// "| --- |" separator row under the first line.
func emitTable(b types.Block) string {
	if len(b.Lines) == 0 {
		return ""
	}

	anyPipe := false
	for _, l := range b.Lines {
		if strings.Contains(l.Text(), "|") {
			anyPipe = true
			break
		}
	}
	if anyPipe {
		var lines []string
		for _, l := range b.Lines {
			lines = append(lines, l.Text())
		}
		return strings.Join(lines, "\n")
	}

	var rows [][]string
	for _, l := range b.Lines {
		cols := columnSplitPattern.Split(strings.TrimSpace(l.Text()), -1)
		rows = append(rows, cols)
	}

	var out []string
	out = append(out, "| "+strings.Join(rows[0], " | ")+" |")
	sep := make([]string, len(rows[0]))
	for i := range sep {
		sep[i] = "---"
	}
	out = append(out, "| "+strings.Join(sep, " | ")+" |")
	for _, row := range rows[1:] {
		out = append(out, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(out, "\n")
}

func emitCode(b types.Block) string {
	var lines []string
	for _, l := range b.Lines {
		text := l.Text()
		text = strings.ReplaceAll(text, "`", "")
		lines = append(lines, text)
	}
	return "```\n" + strings.Join(lines, "\n") + "\n```"
}

func emitTOC(b types.Block) string {
	var lines []string
	for _, l := range b.Lines {
		lines = append(lines, l.Text())
	}
	return strings.Join(lines, "\n")
}

// emitInline renders a line's Words with bold/italic markers opened and
// closed as format changes (spec §4.10): link words emit Markdown link
// syntax, footnote anchors/definitions use the [^N] convention, and a
// space separates adjacent words unless the next word is sentence
// punctuation.
func emitInline(words []types.Word) string {
	var b strings.Builder
	open := types.FormatNone

	closeOpen := func() {
		switch open {
		case types.FormatBold:
			b.WriteString("**")
		case types.FormatItalic:
			b.WriteString("*")
		case types.FormatBoldItalic:
			b.WriteString("***")
		}
		open = types.FormatNone
	}

	openFormat := func(f types.WordFormat) {
		switch f {
		case types.FormatBold:
			b.WriteString("**")
		case types.FormatItalic:
			b.WriteString("*")
		case types.FormatBoldItalic:
			b.WriteString("***")
		}
		open = f
	}

	for i, w := range words {
		// footnote-defs already emit their own trailing separator ("[^N]: "),
		// so the generic inter-word space would otherwise double up.
		precededByFootnoteDef := i > 0 && words[i-1].Kind == types.WordFootnoteDef
		if i > 0 && !isPunctWord(w.Text) && !precededByFootnoteDef {
			b.WriteString(" ")
		}

		if w.Format != open {
			closeOpen()
			openFormat(w.Format)
		}

		switch w.Kind {
		case types.WordLink:
			b.WriteString("[" + w.Text + "](" + w.URL + ")")
		case types.WordFootnoteAnchor:
			b.WriteString("[^" + w.RefNum + "]")
		case types.WordFootnoteDef:
			b.WriteString("[^" + w.RefNum + "]: ")
		default:
			b.WriteString(w.Text)
		}
	}
	closeOpen()

	return b.String()
}

func isPunctWord(s string) bool {
	if len(s) != 1 {
		return false
	}
	switch s[0] {
	case '.', '!', '?':
		return true
	default:
		return false
	}
}
