// Package imagetools implements raster operations: re-encoding, resizing,
// cropping, format conversion and color sampling.
package imagetools

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/Lllllllleong/toolsuite/internal/tools"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Format is an output encoding.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	WEBP Format = "webp"
)

// ParseFormat accepts short names, extensions and MIME types.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "jpeg", "jpg", "image/jpeg", "image/jpg":
		return JPEG, nil
	case "png", "image/png":
		return PNG, nil
	case "webp", "image/webp":
		return WEBP, nil
	}
	return "", tools.Invalid("Unsupported output format %q.", s)
}

func (f Format) MIMEType() string {
	return "image/" + string(f)
}

// Ext is the file extension used for suggested names.
func (f Format) Ext() string {
	return string(f)
}

// Decode reads any supported raster format.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", tools.InvalidWrap(err, "Could not decode image.")
	}
	return img, format, nil
}

// Encode writes img in the given format. quality applies to JPEG only;
// WEBP output is lossless.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case JPEG:
		return jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: max(1, min(100, quality))})
	case PNG:
		return png.Encode(w, img)
	case WEBP:
		return nativewebp.Encode(w, img, &nativewebp.Options{})
	}
	return fmt.Errorf("unknown format %q", f)
}

func encodeBytes(img image.Image, f Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, quality); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// flatten composites img over white since JPEG carries no alpha.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
