package pdftools

import (
	"context"
	"fmt"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

func singleFile(in tools.Input) (tools.File, error) {
	if len(in.Files) == 0 {
		return tools.File{}, tools.Invalid("Choose a PDF file.")
	}
	return in.Files[0], nil
}

// MergeTool merges every input file; with mode=summary it only reports
// what would be merged.
var MergeTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	if in.String("mode", "") == "summary" {
		rows, err := Inspect(ctx, in.Files)
		if err != nil {
			return tools.Result{}, err
		}
		return tools.TextResult(MergeSummary(rows)).WithStats(map[string]any{"files": rows}), nil
	}
	out, err := Merge(ctx, in.Files)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.FileResult(out, "merged.pdf", mimePDF).WithStats(map[string]any{"files": len(in.Files)}), nil
})

var SplitTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := singleFile(in)
	if err != nil {
		return tools.Result{}, err
	}
	out, pages, err := Split(ctx, f.Data, in.String("range", "1-2"))
	if err != nil {
		return tools.Result{}, err
	}
	if out == nil {
		return tools.TextResult("No pages selected."), nil
	}
	return tools.FileResult(out, "split-pages.pdf", mimePDF).WithStats(map[string]any{"pages": pages}), nil
})

var RotateTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := singleFile(in)
	if err != nil {
		return tools.Result{}, err
	}
	degrees, err := in.Int("degrees", 90)
	if err != nil {
		return tools.Result{}, err
	}
	out, pages, err := Rotate(ctx, f.Data, in.String("range", "all"), degrees)
	if err != nil {
		return tools.Result{}, err
	}
	if out == nil {
		return tools.TextResult("No pages selected."), nil
	}
	return tools.FileResult(out, "rotated.pdf", mimePDF).WithStats(map[string]any{"pages": pages, "degrees": degrees}), nil
})

var CompressTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := singleFile(in)
	if err != nil {
		return tools.Result{}, err
	}
	quality, err := in.Int("quality", 75)
	if err != nil {
		return tools.Result{}, err
	}
	quality = max(0, min(100, quality))
	out, err := Compress(ctx, f.Data, quality)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.FileResult(out, "optimized.pdf", mimePDF).WithStats(map[string]any{
		"before":     len(f.Data),
		"after":      len(out),
		"scale":      ScaleTier(quality),
		"disclaimer": CompressDisclaimer,
	}), nil
})

var PageCounterTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	if len(in.Files) == 0 {
		return tools.Result{}, tools.Invalid("Choose one or more PDF files.")
	}
	rows, err := Inspect(ctx, in.Files)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(CountSummary(rows)).WithStats(map[string]any{
		"files":      rows,
		"totalPages": TotalPages(rows),
	}), nil
})

var ImagesToPDFTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	out, err := ImagesToPDF(ctx, in.Files)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.FileResult(out, "images-to-pdf.pdf", mimePDF).WithStats(map[string]any{
		"pages": len(in.Files),
		"note":  fmt.Sprintf("%d images converted", len(in.Files)),
	}), nil
})
