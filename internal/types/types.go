// Package types defines the core data model shared by every stage of the
// pdf2md structural reconstruction pipeline.
package types

// WordFormat is the discrete inline style of a Word, derived once from a
// font's StyleConfidence and then consulted directly by downstream stages.
type WordFormat int

const (
	FormatNone WordFormat = iota
	FormatBold
	FormatItalic
	FormatBoldItalic
)

// WordKind distinguishes plain text from the inline elements the line
// grouping stage recognizes.
type WordKind int

const (
	WordPlain WordKind = iota
	WordLink
	WordFootnoteAnchor
	WordFootnoteDef
)

// BlockType is the closed set of block classifications a Line or Block can
// carry after the list, header, code, and table detectors have run.
type BlockType string

const (
	BlockNone      BlockType = ""
	BlockH1        BlockType = "H1"
	BlockH2        BlockType = "H2"
	BlockH3        BlockType = "H3"
	BlockH4        BlockType = "H4"
	BlockH5        BlockType = "H5"
	BlockH6        BlockType = "H6"
	BlockList      BlockType = "LIST"
	BlockCode      BlockType = "CODE"
	BlockTable     BlockType = "TABLE"
	BlockTOC       BlockType = "TOC"
	BlockFootnotes BlockType = "FOOTNOTES"
	BlockParagraph BlockType = "PARAGRAPH"
)

// BlockTypeFlags describes the merge behavior of a BlockType, consulted by
// the block gatherer (spec §4.7) and the code/table detectors.
type BlockTypeFlags struct {
	MergeToBlock                       bool
	MergeFollowingUntyped              bool
	MergeFollowingUntypedSmallDistance bool
	HeadlineLevel                      int // 0 when not a header
}

// Flags returns the merge/headline behavior for a BlockType.
func (t BlockType) Flags() BlockTypeFlags {
	switch t {
	case BlockH1:
		return BlockTypeFlags{MergeToBlock: false, HeadlineLevel: 1}
	case BlockH2:
		return BlockTypeFlags{MergeToBlock: false, HeadlineLevel: 2}
	case BlockH3:
		return BlockTypeFlags{MergeToBlock: false, HeadlineLevel: 3}
	case BlockH4:
		return BlockTypeFlags{MergeToBlock: false, HeadlineLevel: 4}
	case BlockH5:
		return BlockTypeFlags{MergeToBlock: false, HeadlineLevel: 5}
	case BlockH6:
		return BlockTypeFlags{MergeToBlock: false, HeadlineLevel: 6}
	case BlockList:
		return BlockTypeFlags{MergeToBlock: true}
	case BlockCode:
		return BlockTypeFlags{MergeToBlock: true, MergeFollowingUntypedSmallDistance: true}
	case BlockTable:
		return BlockTypeFlags{MergeToBlock: true}
	case BlockTOC:
		return BlockTypeFlags{MergeToBlock: true, MergeFollowingUntyped: true}
	case BlockFootnotes:
		return BlockTypeFlags{MergeToBlock: true, MergeFollowingUntyped: true}
	case BlockParagraph:
		return BlockTypeFlags{MergeToBlock: true, MergeFollowingUntypedSmallDistance: true}
	default:
		return BlockTypeFlags{}
	}
}

// IsHeader reports whether the BlockType is one of H1..H6.
func (t BlockType) IsHeader() bool {
	return t.Flags().HeadlineLevel > 0
}

// TextRun is a single positioned glyph run as emitted by the ingestion
// adapter. X, Y follow PDF convention: Y grows upward. Immutable after
// creation; stages that need a modified copy allocate a new value.
type TextRun struct {
	X, Y          float64
	Width, Height float64
	Text          string
	FontID        string
}

// ImageRecord is a positioned, decoded raster image. X, Y are the image's
// center, matching the block gatherer's Y-range re-interleaving math
// (spec §4.7).
type ImageRecord struct {
	X, Y          float64
	Width, Height float64
	Data          []byte
	Format        string // "png" or "jpg"
	Name          string
}

// Word is an inline unit of text produced by line grouping and inline
// analysis (spec §4.3). Immutable after creation.
type Word struct {
	Text   string
	Kind   WordKind
	Format WordFormat
	// URL holds the link target for WordLink words.
	URL string
	// RefNum holds the footnote number for WordFootnoteAnchor/WordFootnoteDef words.
	RefNum string
}

// Line is the result of merging same-baseline TextRuns plus inline
// analysis. It replaces TextRuns on a page starting at the line grouping
// stage.
type Line struct {
	X, Y         float64
	Width        float64
	MaxHeight    float64
	Words        []Word
	Type         BlockType
	Removed      bool
	RemovedNote  string
}

// Text concatenates a Line's word text with single spaces, ignoring kind
// and format — used by the table detector and the emitter, which operate
// on raw text.
func (l Line) Text() string {
	s := ""
	for i, w := range l.Words {
		if i > 0 {
			s += " "
		}
		s += w.Text
	}
	return s
}

// Block is a group of consecutive Lines sharing a BlockType, produced by
// the block gatherer (spec §4.7).
type Block struct {
	Lines      []Line
	Type       BlockType
	Annotation string
}

// Font is the descriptor supplied alongside the PDF.
type Font struct {
	ID          string
	Name        string
	Weight      int     // 0 when unknown
	ItalicAngle float64 // 0 when unknown/upright
}

// StyleConfidence holds per-font bold/italic probabilities in [0,1],
// computed once in the global statistics stage (spec §4.2).
type StyleConfidence struct {
	Bold   float64
	Italic float64
}

// Format derives the discrete WordFormat from a StyleConfidence using the
// 0.3 thresholds from spec §4.2.
func (c StyleConfidence) Format() WordFormat {
	bold := c.Bold >= 0.3
	italic := c.Italic >= 0.3
	switch {
	case bold && italic:
		return FormatBoldItalic
	case bold:
		return FormatBold
	case italic:
		return FormatItalic
	default:
		return FormatNone
	}
}

// HeaderScore is the per-candidate-line weighted feature score computed by
// the header detector (spec §4.6).
type HeaderScore struct {
	Score    float64
	Features map[string]float64
}

// ItemKind tags the polymorphic variant held by a PageItem. Stages assert
// the expected kind on entry and exhaustively switch on it rather than
// emulating inheritance (spec §9).
type ItemKind int

const (
	ItemTextRun ItemKind = iota
	ItemLine
	ItemBlock
	ItemImage
)

// PageItem is the tagged variant stored in PageContext.Items. Exactly one
// of TextRun/Line/Block/Image is populated, matching Kind.
type PageItem struct {
	Kind    ItemKind
	TextRun *TextRun
	Line    *Line
	Block   *Block
	Image   *ImageRecord
}

func NewTextRunItem(r TextRun) PageItem   { return PageItem{Kind: ItemTextRun, TextRun: &r} }
func NewLineItem(l Line) PageItem         { return PageItem{Kind: ItemLine, Line: &l} }
func NewBlockItem(b Block) PageItem       { return PageItem{Kind: ItemBlock, Block: &b} }
func NewImageItem(img ImageRecord) PageItem { return PageItem{Kind: ItemImage, Image: &img} }

// Y returns the item's reference Y coordinate, used by the sorts that run
// throughout the pipeline (ingestion, block gathering, re-interleaving).
func (it PageItem) Y() float64 {
	switch it.Kind {
	case ItemTextRun:
		return it.TextRun.Y
	case ItemLine:
		return it.Line.Y
	case ItemBlock:
		if len(it.Block.Lines) == 0 {
			return 0
		}
		return it.Block.Lines[0].Y
	case ItemImage:
		return it.Image.Y
	default:
		return 0
	}
}

// X returns the item's reference X coordinate.
func (it PageItem) X() float64 {
	switch it.Kind {
	case ItemTextRun:
		return it.TextRun.X
	case ItemLine:
		return it.Line.X
	case ItemBlock:
		if len(it.Block.Lines) == 0 {
			return 0
		}
		return it.Block.Lines[0].X
	case ItemImage:
		return it.Image.X
	default:
		return 0
	}
}

// PageContext holds one PDF page's items as they move through the
// pipeline, plus the page's emitted Markdown once the emitter stage has
// run.
type PageContext struct {
	Index    int
	Items    []PageItem
	Markdown string
}

// Globals is the document-wide statistics record produced once by the
// global statistics stage (spec §4.2) and read-only thereafter. Stages
// that derive additional maps (e.g. HeaderLevelBySize) extend Globals
// without mutating existing fields.
type Globals struct {
	BodyHeight      float64
	BodyFontID      string
	BodyDistance    float64
	MaxHeight       float64
	MaxHeightFontID string
	MinX            float64

	AvgCharWidth    map[string]float64
	StyleConfidence map[string]StyleConfidence
	FontFormat      map[string]WordFormat
	Fonts           map[string]Font

	// HeaderLevelBySize maps a clustered font size to its assigned H1..H4
	// level, populated by the header detector.
	HeaderLevelBySize map[float64]int
	// TOCRanges, when non-nil, maps an exact line height to a header level
	// that takes precedence over the clustering heuristic (spec §4.6).
	TOCRanges map[float64]int
}

// ImageMode selects how the emitter and image sink handle ImageRecords.
type ImageMode string

const (
	ImageModeNone     ImageMode = "none"
	ImageModeBase64   ImageMode = "base64"
	ImageModeRelative ImageMode = "relative"
	ImageModeSave     ImageMode = "save"
)

// Callbacks are fired for observability only; they never affect output
// (spec §6).
type Callbacks struct {
	OnMetadata       func(title string)
	OnPage           func(index int)
	OnFont           func(id, name string)
	OnDocumentParsed func()
}

// Tunables collects every threshold and weight spec §4 and §9 call out as
// a "config knob" instead of a hard-coded constant.
type Tunables struct {
	// Header detector feature weights (spec §4.6), must sum close to 1.0.
	HeaderWeightFontSizeRatio   float64
	HeaderWeightVerticalSpacing float64
	HeaderWeightIsStandalone    float64
	HeaderWeightPositionOnPage  float64
	HeaderWeightRepetition      float64
	HeaderWeightIsUppercase     float64
	HeaderWeightFontFamilyDiff  float64
	HeaderScoreThreshold        float64
	HeaderFontSizeGate          float64
	HeaderClusterTolerance      float64
	HeaderMaxLevels             int

	// Line grouping / body-distance derived thresholds (spec §4.3, §4.7).
	SameLineToleranceFactor float64
	MergeGapThreshold       float64
	BigDistanceSlack        float64
	IndentedDistanceFactor  float64

	// Vertical text recombiner (spec §4.4).
	VerticalStashMinRun   int
	VerticalBaselineDelta float64

	// Table detector keyword lists (spec §4.9, §9 open question: make
	// configurable without touching the geometric rules).
	TableHeaderKeywords   []string
	TableParagraphCues    []string
	TableStatusGlyphs     []string
	SentenceTerminators   []string
}

// DefaultTunables returns the thresholds and weights spec.md specifies.
func DefaultTunables() Tunables {
	return Tunables{
		HeaderWeightFontSizeRatio:   0.35,
		HeaderWeightVerticalSpacing: 0.20,
		HeaderWeightIsStandalone:    0.15,
		HeaderWeightPositionOnPage:  0.10,
		HeaderWeightRepetition:      0.10,
		HeaderWeightIsUppercase:     0.05,
		HeaderWeightFontFamilyDiff:  0.05,
		HeaderScoreThreshold:        0.4,
		HeaderFontSizeGate:          1.15,
		HeaderClusterTolerance:      0.5,
		HeaderMaxLevels:             4,

		SameLineToleranceFactor: 0.5,
		MergeGapThreshold:       1.0,
		BigDistanceSlack:        0.5,
		IndentedDistanceFactor:  1.5,

		VerticalStashMinRun:   5,
		VerticalBaselineDelta: 5.0,

		TableHeaderKeywords: []string{"名称", "类型", "支持", "备注", "标题"},
		TableParagraphCues:  []string{"这是", "用于", "说明", "但是", "所以"},
		TableStatusGlyphs:   []string{"✅", "⚠️", "❌"},
		SentenceTerminators: []string{"。", "！", "？"},
	}
}

// Config is the caller-supplied configuration for Convert (spec §6).
type Config struct {
	ImageMode     ImageMode
	ImageSavePath string
	TitlePrefix   string
	Callbacks     Callbacks `json:"-"`
	Tunables      Tunables

	// DisablePageNumberStripping turns off the §4.1 page-number heuristic,
	// per the §9 open question noting documents whose pagination begins
	// after page 10 can lose real integer-only lines.
	DisablePageNumberStripping bool
}

// ParseResult is the shared record threaded through every pipeline stage.
type ParseResult struct {
	Pages   []PageContext
	Globals Globals
	Config  Config
	// MetadataTitle is the PDF's own Title metadata field, used to derive
	// the image name prefix when Config.TitlePrefix is empty.
	MetadataTitle string
}

// ConvertOutput is the return shape of Convert (spec §6).
type ConvertOutput struct {
	Pages  []string
	Images map[string][]byte
}
