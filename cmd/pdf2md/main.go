// Command pdf2md converts a single PDF file to Markdown.
//
//	pdf2md -in file.pdf -mode relative -out-dir ./out
//
// It wires ingestion, the structural reconstruction pipeline, and the
// image sink together, mirroring the teacher's flag-based single-file
// command style (cmd/translate_single_pdf) adapted to this pipeline's
// inputs: an image mode and an output directory instead of a
// translation target and an API key.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rapidai/pdf2md/internal/config"
	"github.com/rapidai/pdf2md/internal/logger"
	"github.com/rapidai/pdf2md/internal/markdown"
	"github.com/rapidai/pdf2md/internal/types"
)

func main() {
	var (
		inPath      = flag.String("in", "", "path to the input PDF file (required)")
		mode        = flag.String("mode", "", "image mode: none, base64, relative, or save (default: config file, else none)")
		outDir      = flag.String("out-dir", "", "directory to write <name>_pN.md page files (and, in relative or save mode, image files) into")
		titlePrefix = flag.String("title-prefix", "", "override the image-name prefix derived from the PDF's Title metadata")
		configPath  = flag.String("config", "", "path to a pdf2md config.json (default: ~/.config/pdf2md/config.json)")
	)
	flag.Parse()

	if *inPath == "" {
		fmt.Println("Usage: pdf2md -in file.pdf [-mode relative] [-out-dir ./out]")
		os.Exit(1)
	}
	if _, err := os.Stat(*inPath); err != nil {
		fmt.Printf("Error: PDF not found: %s\n", *inPath)
		os.Exit(1)
	}

	if err := logger.Init(logger.DefaultConfig()); err != nil {
		fmt.Printf("Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	mgr, err := config.NewManager(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	cfg := *mgr.Config()

	if *mode != "" {
		cfg.ImageMode = types.ImageMode(*mode)
	}
	if *titlePrefix != "" {
		cfg.TitlePrefix = *titlePrefix
	}
	if *outDir == "" {
		*outDir = filepath.Join(filepath.Dir(*inPath), "out")
	}
	if cfg.ImageMode == types.ImageModeSave {
		cfg.ImageSavePath = *outDir
	}

	if err := config.Validate(&cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Printf("Error: failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	pdfBytes, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Printf("Error: failed to read PDF: %v\n", err)
		os.Exit(1)
	}

	cfg.Callbacks.OnMetadata = func(title string) {
		if title != "" {
			fmt.Printf("Title:  %s\n", title)
		}
	}
	cfg.Callbacks.OnDocumentParsed = func() {
		fmt.Println("Parsed document, writing output...")
	}

	fmt.Printf("Input:  %s\n", *inPath)
	fmt.Printf("Mode:   %s\n", cfg.ImageMode)
	fmt.Printf("Output: %s\n", *outDir)
	fmt.Println()

	out, err := markdown.Convert(pdfBytes, cfg)
	if err != nil {
		logger.Error("conversion failed", err, logger.String("input", *inPath))
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	base := baseNameWithoutExt(*inPath)
	for i, page := range out.Pages {
		pagePath := filepath.Join(*outDir, fmt.Sprintf("%s_p%d.md", base, i+1))
		if err := os.WriteFile(pagePath, []byte(page), 0o644); err != nil {
			fmt.Printf("Error: failed to write %s: %v\n", pagePath, err)
			os.Exit(1)
		}
	}

	for name, data := range out.Images {
		imgPath := filepath.Join(*outDir, name)
		if err := os.WriteFile(imgPath, data, 0o644); err != nil {
			fmt.Printf("Error: failed to write %s: %v\n", imgPath, err)
			os.Exit(1)
		}
	}

	fmt.Printf("\n=== Conversion Complete ===\n")
	fmt.Printf("Pages:  %d\n", len(out.Pages))
	fmt.Printf("Images: %d\n", len(out.Images))
}

func baseNameWithoutExt(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
