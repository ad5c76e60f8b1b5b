package pdftools

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pdfWithPages builds a document with one page per size.
func pdfWithPages(t *testing.T, sizes ...[2]int) []byte {
	t.Helper()
	files := make([]tools.File, len(sizes))
	for i, s := range sizes {
		files[i] = tools.File{Name: "page.png", Data: pngImage(t, s[0], s[1], color.RGBA{uint8(40 * i), 80, 160, 255})}
	}
	out, err := ImagesToPDF(context.Background(), files)
	require.NoError(t, err)
	return out
}

func pageDims(t *testing.T, data []byte) []types.Dim {
	t.Helper()
	cfg, err := newConfig()
	require.NoError(t, err)
	dims, err := api.PageDims(bytes.NewReader(data), cfg)
	require.NoError(t, err)
	return dims
}

func pageContent(t *testing.T, data []byte, pageNr int) string {
	t.Helper()
	pctx, err := readContext(data)
	require.NoError(t, err)
	d, _, _, err := pctx.PageDict(pageNr, false)
	require.NoError(t, err)
	content, err := pctx.PageContent(d, pageNr)
	require.NoError(t, err)
	return string(content)
}

func pageRotation(t *testing.T, data []byte, pageNr int) int {
	t.Helper()
	pctx, err := readContext(data)
	require.NoError(t, err)
	_, _, inh, err := pctx.PageDict(pageNr, false)
	require.NoError(t, err)
	return inh.Rotate
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		expr  string
		total int
		want  []int
	}{
		{"1-3,5,8-10", 6, []int{1, 2, 3, 5}},
		{"", 4, []int{}},
		{"3-1", 5, []int{1, 2, 3}},
		{"2,2,1-2", 5, []int{1, 2}},
		{" 4 , 0, 7", 5, []int{4}},
		{"0-2", 5, []int{1, 2}},
		{"a-b,x,3", 5, []int{3}},
		{"4-9", 6, []int{4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRange(tt.expr, tt.total))
		})
	}
}

func TestSelectionAll(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Selection("ALL", 3))
	assert.Equal(t, []int{2}, Selection("2", 3))
}

func TestScaleTier(t *testing.T) {
	assert.Equal(t, 1.0, ScaleTier(95))
	assert.Equal(t, 1.0, ScaleTier(90))
	assert.Equal(t, 0.85, ScaleTier(70))
	assert.Equal(t, 0.7, ScaleTier(50))
	assert.Equal(t, 0.55, ScaleTier(49))
	assert.Equal(t, 0.55, ScaleTier(0))
}

func TestMergeKeepsDocumentOrder(t *testing.T) {
	ctx := context.Background()
	a := pdfWithPages(t, [2]int{200, 100}, [2]int{120, 240})
	b := pdfWithPages(t, [2]int{300, 150})

	merged, err := Merge(ctx, []tools.File{{Name: "a.pdf", Data: a}, {Name: "b.pdf", Data: b}})
	require.NoError(t, err)

	n, err := PageCount(merged)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	want := append(pageDims(t, a), pageDims(t, b)...)
	assert.Equal(t, want, pageDims(t, merged))

	page3, pages, err := Split(ctx, merged, "3")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, pages)
	assert.Equal(t, pageDims(t, b), pageDims(t, page3))
}

func TestMergeRejectsUnreadableFile(t *testing.T) {
	a := pdfWithPages(t, [2]int{50, 50})
	_, err := Merge(context.Background(), []tools.File{
		{Name: "a.pdf", Data: a},
		{Name: "broken.pdf", Data: []byte("not a pdf")},
	})
	require.ErrorIs(t, err, tools.ErrInvalidInput)
	assert.Contains(t, tools.Message(err), "broken.pdf")

	_, err = Merge(context.Background(), nil)
	require.ErrorIs(t, err, tools.ErrInvalidInput)
}

func TestSplitFullRangeIsIdentity(t *testing.T) {
	src := pdfWithPages(t, [2]int{100, 60}, [2]int{60, 100}, [2]int{80, 80})
	out, pages, err := Split(context.Background(), src, "1-3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, pages)
	assert.Equal(t, pageDims(t, src), pageDims(t, out))
}

func TestSplitEmptySelectionIsNoop(t *testing.T) {
	src := pdfWithPages(t, [2]int{100, 60})
	out, pages, err := Split(context.Background(), src, "5-9")
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, pages)

	res, err := SplitTool.Run(context.Background(), tools.Input{
		Files:  []tools.File{{Name: "a.pdf", Data: src}},
		Params: map[string]string{"range": "7"},
	})
	require.NoError(t, err)
	assert.Equal(t, tools.KindText, res.Kind)
}

func TestRotateSelectedPages(t *testing.T) {
	ctx := context.Background()
	src := pdfWithPages(t, [2]int{100, 60}, [2]int{100, 60})

	out, pages, err := Rotate(ctx, src, "1", 90)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, pages)
	assert.Equal(t, 90, pageRotation(t, out, 1))
	assert.Equal(t, 0, pageRotation(t, out, 2))

	again, _, err := Rotate(ctx, out, "all", 270)
	require.NoError(t, err)
	assert.Equal(t, 0, pageRotation(t, again, 1))
	assert.Equal(t, 270, pageRotation(t, again, 2))
}

func TestRotateRejectsOddAngles(t *testing.T) {
	src := pdfWithPages(t, [2]int{100, 60})
	_, _, err := Rotate(context.Background(), src, "all", 45)
	assert.ErrorIs(t, err, tools.ErrInvalidInput)
}

func TestCompressKeepsPageGeometry(t *testing.T) {
	src := pdfWithPages(t, [2]int{300, 200}, [2]int{200, 300})
	for _, quality := range []int{95, 75, 55, 10} {
		out, err := Compress(context.Background(), src, quality)
		require.NoError(t, err)
		n, err := PageCount(out)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, pageDims(t, src), pageDims(t, out))
	}

	_, err := Compress(context.Background(), []byte("%PDF-garbage"), 50)
	assert.ErrorIs(t, err, tools.ErrInvalidInput)
}

func TestCompressScalesAboutPageCenter(t *testing.T) {
	src := pdfWithPages(t, [2]int{300, 200}, [2]int{200, 300})

	out, err := Compress(context.Background(), src, 10)
	require.NoError(t, err)
	first := pageContent(t, out, 1)
	assert.True(t, strings.HasPrefix(first, "q 0.5500 0 0 0.5500 67.5000 45.0000 cm"), first)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(first), "Q"), first)
	assert.True(t, strings.HasPrefix(pageContent(t, out, 2), "q 0.5500 0 0 0.5500 45.0000 67.5000 cm"))

	out, err = Compress(context.Background(), src, 75)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pageContent(t, out, 1), "q 0.8500 0 0 0.8500 22.5000 15.0000 cm"))

	out, err = Compress(context.Background(), src, 95)
	require.NoError(t, err)
	assert.Equal(t, pageContent(t, src, 1), pageContent(t, out, 1))
}

func TestInspectMarksUnreadableFiles(t *testing.T) {
	a := pdfWithPages(t, [2]int{50, 50}, [2]int{50, 50})
	rows, err := Inspect(context.Background(), []tools.File{
		{Name: "a.pdf", Data: a},
		{Name: "bad.pdf", Data: []byte("nope")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a.pdf", rows[0].Name)
	assert.Equal(t, 2, rows[0].Pages)
	assert.Equal(t, -1, rows[1].Pages)
	assert.Equal(t, 2, TotalPages(rows))

	summary := CountSummary(rows)
	assert.Contains(t, summary, "Files: 2 · Total pages: 2")
	assert.Contains(t, summary, "bad.pdf: Error pages")
	assert.Contains(t, MergeSummary(rows), "bad.pdf · ? pages")
}

func TestImagesToPDFPagePerImage(t *testing.T) {
	out, err := ImagesToPDF(context.Background(), []tools.File{
		{Name: "wide.png", Data: pngImage(t, 400, 100, color.White)},
		{Name: "tall.png", Data: pngImage(t, 100, 400, color.Black)},
	})
	require.NoError(t, err)
	dims := pageDims(t, out)
	require.Len(t, dims, 2)
	assert.InDelta(t, 4.0, dims[0].Width/dims[0].Height, 0.01)
	assert.InDelta(t, 0.25, dims[1].Width/dims[1].Height, 0.01)
}

func TestImagesToPDFRejectsOtherFormats(t *testing.T) {
	_, err := ImagesToPDF(context.Background(), []tools.File{{Name: "notes.txt", Data: []byte("hello")}})
	assert.ErrorIs(t, err, tools.ErrInvalidInput)
}
