package markdown

import (
	"github.com/rapidai/pdf2md/internal/config"
	"github.com/rapidai/pdf2md/internal/pdf"
	"github.com/rapidai/pdf2md/internal/types"
)

// Convert runs the full pipeline (spec §6): ingestion, the eight
// structural reconstruction stages, and Markdown emission. The returned
// ConvertOutput.Images map is populated only when cfg.ImageMode is
// "relative"; in "save" mode images are written to cfg.ImageSavePath as
// a side effect and the map is left nil.
func Convert(pdfBytes []byte, cfg types.Config) (*types.ConvertOutput, error) {
	if cfg.Tunables.HeaderMaxLevels == 0 {
		cfg.Tunables = types.DefaultTunables()
	}

	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}

	result, err := pdf.Ingest(pdfBytes, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Callbacks.OnMetadata != nil {
		cfg.Callbacks.OnMetadata(result.MetadataTitle)
	}

	if err := Run(result); err != nil {
		return nil, err
	}

	pages, images := Emit(result)

	if cfg.Callbacks.OnDocumentParsed != nil {
		cfg.Callbacks.OnDocumentParsed()
	}

	return &types.ConvertOutput{
		Pages:  pages,
		Images: images,
	}, nil
}
