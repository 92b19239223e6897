package markdown

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/rapidai/pdf2md/internal/pdferr"
	"github.com/rapidai/pdf2md/internal/types"
)

// imageCounterPattern extracts the N out of ingestion's "image{N}" name.
var imageCounterPattern = regexp.MustCompile(`(\d+)$`)

// resolveTitlePrefix is spec §4.10's title-prefix derivation: the
// caller-supplied prefix, else the metadata title sanitized to
// [A-Za-z0-9 CJK] and truncated to 50 runes, else "pdf".
func resolveTitlePrefix(configPrefix, metadataTitle string) string {
	if configPrefix != "" {
		return configPrefix
	}
	sanitized := sanitizeTitle(metadataTitle)
	if sanitized != "" {
		return sanitized
	}
	return "pdf"
}

func sanitizeTitle(title string) string {
	var b strings.Builder
	n := 0
	for _, r := range title {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
			n++
		case unicode.Is(unicode.Han, r):
			b.WriteRune(r)
			n++
		}
		if n >= 50 {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

// imageFileName builds the final emitted image name spec §4.10
// specifies: "{prefix}_image{N}_p{pageIndex+1}.{fmt}".
func imageFileName(prefix string, img types.ImageRecord, pageIndex int) string {
	n := imageCounterPattern.FindString(img.Name)
	if n == "" {
		n = "0"
	}
	return fmt.Sprintf("%s_image%s_p%d.%s", prefix, n, pageIndex+1, img.Format)
}

// imageReference resolves one ImageRecord into its Markdown reference and
// any side effect (file write, image-map entry) its mode requires.
func imageReference(cfg types.Config, img types.ImageRecord, pageIndex int, prefix string, imageMap map[string][]byte) (string, error) {
	name := imageFileName(prefix, img, pageIndex)

	switch cfg.ImageMode {
	case types.ImageModeNone, "":
		return "", nil
	case types.ImageModeBase64:
		encoded := base64.StdEncoding.EncodeToString(img.Data)
		return fmt.Sprintf("![%s](data:image/%s;base64,%s)", name, img.Format, encoded), nil
	case types.ImageModeRelative:
		imageMap[name] = img.Data
		return fmt.Sprintf("![%s](./%s)", name, name), nil
	case types.ImageModeSave:
		if err := os.MkdirAll(cfg.ImageSavePath, 0o755); err != nil {
			return "", pdferr.New(pdferr.CodeSaveIOFailure, "failed to create image save directory", err)
		}
		path := filepath.Join(cfg.ImageSavePath, name)
		// Write under a uuid-suffixed temp name and rename into place so two
		// pages that happen to resolve the same name (a stale counter from a
		// re-run, or a caller invoking Convert concurrently against the same
		// ImageSavePath) never observe each other's partially written bytes.
		tmpPath := path + "." + uuid.NewString() + ".tmp"
		if err := os.WriteFile(tmpPath, img.Data, 0o644); err != nil {
			return "", pdferr.New(pdferr.CodeSaveIOFailure, "failed to write image file", err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			os.Remove(tmpPath)
			return "", pdferr.New(pdferr.CodeSaveIOFailure, "failed to finalize image file", err)
		}
		return fmt.Sprintf("![%s](%s)", name, name), nil
	default:
		return "", nil
	}
}
