package pdftools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// Merge concatenates documents in input order. Every input must parse.
func Merge(ctx context.Context, files []tools.File) ([]byte, error) {
	if len(files) == 0 {
		return nil, tools.Invalid("Choose at least one PDF file.")
	}
	// Validate up front so a bad file is named in the message.
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := PageCount(f.Data); err != nil {
			return nil, tools.InvalidWrap(err, "Could not read %s as a PDF.", f.Name)
		}
	}
	cfg, err := newConfig()
	if err != nil {
		return nil, err
	}
	readers := make([]io.ReadSeeker, len(files))
	for i, f := range files {
		readers[i] = bytes.NewReader(f.Data)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, cfg); err != nil {
		return nil, fmt.Errorf("failed to merge documents: %w", err)
	}
	return out.Bytes(), nil
}

// FileSummary describes one inspected PDF. Pages is -1 when the file could
// not be parsed.
type FileSummary struct {
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Pages int    `json:"pages"`
}

// PagesLabel renders the page count, or marker for unreadable files.
func (s FileSummary) PagesLabel(marker string) string {
	if s.Pages < 0 {
		return marker
	}
	return fmt.Sprintf("%d", s.Pages)
}

// Inspect counts pages of every file concurrently. Unparseable files are
// reported, never fatal. Results keep input order.
func Inspect(ctx context.Context, files []tools.File) ([]FileSummary, error) {
	out := make([]FileSummary, len(files))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(10)
	for i, f := range files {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := PageCount(f.Data)
			if err != nil {
				n = -1
			}
			out[i] = FileSummary{Name: f.Name, Size: len(f.Data), Pages: n}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalPages sums the readable files.
func TotalPages(rows []FileSummary) int {
	total := 0
	for _, r := range rows {
		if r.Pages > 0 {
			total += r.Pages
		}
	}
	return total
}

func kb(n int) string {
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}

// MergeSummary lists what a merge would combine; unreadable files show "?".
func MergeSummary(rows []FileSummary) string {
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s · %s pages · %s\n", r.Name, r.PagesLabel("?"), kb(r.Size))
	}
	return strings.TrimRight(b.String(), "\n")
}

// CountSummary is the page counter report.
func CountSummary(rows []FileSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Files: %d · Total pages: %d\n", len(rows), TotalPages(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "%s: %s pages (%s)\n", r.Name, r.PagesLabel("Error"), kb(r.Size))
	}
	return strings.TrimRight(b.String(), "\n")
}
