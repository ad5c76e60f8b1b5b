package pdftools

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// CompressDisclaimer accompanies every compressed document.
const CompressDisclaimer = "Best-effort optimization: page content may be downscaled and structure re-encoded. Output is not guaranteed to be smaller."

// ScaleTier maps a 0-100 quality to the factor page content is drawn at.
func ScaleTier(quality int) float64 {
	switch {
	case quality >= 90:
		return 1.0
	case quality >= 70:
		return 0.85
	case quality >= 50:
		return 0.7
	default:
		return 0.55
	}
}

// Compress redraws every page's content scaled by the quality tier and
// centered on a page of unchanged size, then optimizes the document.
func Compress(ctx context.Context, data []byte, quality int) ([]byte, error) {
	pctx, err := readContext(data)
	if err != nil {
		return nil, tools.InvalidWrap(err, "Could not read PDF.")
	}
	if scale := ScaleTier(quality); scale < 1 {
		for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := scalePage(pctx, pageNr, scale); err != nil {
				return nil, fmt.Errorf("failed to scale page %d: %w", pageNr, err)
			}
		}
	}
	if err := api.OptimizeContext(pctx); err != nil {
		return nil, fmt.Errorf("failed to optimize document: %w", err)
	}
	var out bytes.Buffer
	if err := api.WriteContext(pctx, &out); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return out.Bytes(), nil
}

// scalePage wraps the page content streams in a save/transform/restore
// pair so the existing drawing is scaled about the media box center.
func scalePage(pctx *model.Context, pageNr int, scale float64) error {
	d, _, inh, err := pctx.PageDict(pageNr, false)
	if err != nil {
		return err
	}
	if d == nil || inh == nil || inh.MediaBox == nil {
		return fmt.Errorf("page %d has no media box", pageNr)
	}
	box := inh.MediaBox
	cx := (box.LL.X + box.UR.X) / 2
	cy := (box.LL.Y + box.UR.Y) / 2

	prefix, err := contentStream(pctx, fmt.Sprintf("q %.4f 0 0 %.4f %.4f %.4f cm\n", scale, scale, cx*(1-scale), cy*(1-scale)))
	if err != nil {
		return err
	}
	suffix, err := contentStream(pctx, "\nQ\n")
	if err != nil {
		return err
	}

	contents := types.Array{*prefix}
	if obj, found := d.Find("Contents"); found && obj != nil {
		resolved, err := pctx.Dereference(obj)
		if err != nil {
			return err
		}
		if arr, ok := resolved.(types.Array); ok {
			contents = append(contents, arr...)
		} else {
			contents = append(contents, obj)
		}
	}
	contents = append(contents, *suffix)
	d.Update("Contents", contents)
	return nil
}

func contentStream(pctx *model.Context, content string) (*types.IndirectRef, error) {
	sd, err := pctx.XRefTable.NewStreamDictForBuf([]byte(content))
	if err != nil {
		return nil, err
	}
	if err := sd.Encode(); err != nil {
		return nil, err
	}
	return pctx.XRefTable.IndRefForNewObject(*sd)
}
