package pdftools

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ImagesToPDF places each JPEG or PNG on its own page sized to the image.
func ImagesToPDF(ctx context.Context, files []tools.File) ([]byte, error) {
	if len(files) == 0 {
		return nil, tools.Invalid("Choose at least one JPG or PNG image.")
	}
	readers := make([]io.Reader, 0, len(files))
	for _, f := range files {
		_, format, err := image.DecodeConfig(bytes.NewReader(f.Data))
		if err != nil || (format != "jpeg" && format != "png") {
			return nil, tools.Invalid("%s is not a JPG or PNG image.", f.Name)
		}
		readers = append(readers, bytes.NewReader(f.Data))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, err := newConfig()
	if err != nil {
		return nil, err
	}
	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, cfg); err != nil {
		return nil, fmt.Errorf("failed to build document from images: %w", err)
	}
	return out.Bytes(), nil
}
