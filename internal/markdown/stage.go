// Package markdown implements the structural reconstruction pipeline: the
// sequence of pure transformations that turns a page's positioned text
// runs and images into Markdown (spec §2). Each stage reads
// ParseResult.Pages[*].Items and writes a replacement list, the tagged-
// variant design spec §9 calls out instead of emulating inheritance.
package markdown

import (
	"github.com/rapidai/pdf2md/internal/logger"
	"github.com/rapidai/pdf2md/internal/types"
)

// Stage is one pure transformation in the pipeline (spec §9, "stage
// composition"). Each stage runs over every page; once the statistics
// stage has computed Globals, later stages leave its existing fields
// unchanged (the header detector only adds HeaderLevelBySize).
type Stage interface {
	Name() string
	Run(result *types.ParseResult) error
}

// stageFunc adapts a plain function to Stage, mirroring the teacher's
// preference for small named steps over heavier per-stage structs where a
// stage has no internal state of its own.
type stageFunc struct {
	name string
	fn   func(*types.ParseResult) error
}

func (s stageFunc) Name() string { return s.name }
func (s stageFunc) Run(result *types.ParseResult) error { return s.fn(result) }

// pipeline returns the full ordered stage list (spec §2's eleven
// components, minus ingestion, the Markdown emitter and the image sink,
// which run outside the pipeline proper in Convert).
func pipeline() []Stage {
	return []Stage{
		stageFunc{"global-statistics", computeGlobals},
		stageFunc{"line-grouping", groupLines},
		stageFunc{"vertical-recombine", recombineVertical},
		stageFunc{"list-detect", detectLists},
		stageFunc{"header-detect", detectHeaders},
		stageFunc{"block-gather", gatherBlocks},
		stageFunc{"code-detect", detectCodeBlocks},
		stageFunc{"table-detect", detectTables},
	}
}

// Run executes every stage in order over result, short-circuiting on the
// first error (spec §7: only document-load and config errors are fatal;
// every stage here is expected to absorb its own per-item defects and
// never return an error for content-level noise).
func Run(result *types.ParseResult) error {
	for _, stage := range pipeline() {
		logger.Debug("stage start", logger.String("stage", stage.Name()))
		err := stage.Run(result)
		logger.Debug("stage done", logger.String("stage", stage.Name()))
		if err != nil {
			return err
		}
	}
	return nil
}
