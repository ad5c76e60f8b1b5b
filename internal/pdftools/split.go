package pdftools

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Split keeps only the pages selected by expr. A nil buffer with a nil
// error means nothing was selected.
func Split(ctx context.Context, data []byte, expr string) ([]byte, []int, error) {
	total, err := PageCount(data)
	if err != nil {
		return nil, nil, err
	}
	pages := ParseRange(expr, total)
	if len(pages) == 0 {
		return nil, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	cfg, err := newConfig()
	if err != nil {
		return nil, nil, err
	}
	var out bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &out, pageSelectors(pages), cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to extract pages: %w", err)
	}
	return out.Bytes(), pages, nil
}

// Rotate adds degrees to the rotation of the selected pages. degrees must
// be 90, 180 or 270.
func Rotate(ctx context.Context, data []byte, selection string, degrees int) ([]byte, []int, error) {
	switch degrees {
	case 90, 180, 270:
	default:
		return nil, nil, tools.Invalid("Rotation must be 90, 180 or 270 degrees.")
	}
	total, err := PageCount(data)
	if err != nil {
		return nil, nil, err
	}
	pages := Selection(selection, total)
	if len(pages) == 0 {
		return nil, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	cfg, err := newConfig()
	if err != nil {
		return nil, nil, err
	}
	var out bytes.Buffer
	if err := api.Rotate(bytes.NewReader(data), &out, degrees, pageSelectors(pages), cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to rotate pages: %w", err)
	}
	return out.Bytes(), pages, nil
}
