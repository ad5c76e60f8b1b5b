package imagetools

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"golang.org/x/image/draw"
)

// CompressStats compares the input and output sizes in bytes.
type CompressStats struct {
	Before       int     `json:"before"`
	After        int     `json:"after"`
	SavedPercent float64 `json:"savedPercent"`
}

func savedPercent(before, after int) float64 {
	if before <= 0 {
		return 0
	}
	return max(0, min(100, float64(before-after)/float64(before)*100))
}

// Compress re-encodes as JPEG at quality (1-100), keeping dimensions.
func Compress(data []byte, quality int) ([]byte, CompressStats, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, CompressStats{}, err
	}
	out, err := encodeBytes(img, JPEG, quality)
	if err != nil {
		return nil, CompressStats{}, err
	}
	return out, CompressStats{Before: len(data), After: len(out), SavedPercent: savedPercent(len(data), len(out))}, nil
}

// Resize stretches the image onto exactly width x height pixels.
func Resize(data []byte, width, height int) ([]byte, error) {
	if width < 1 || height < 1 {
		return nil, tools.Invalid("Width and height must be at least 1 pixel.")
	}
	if width > maxDimension || height > maxDimension {
		return nil, tools.Invalid("Width and height must not exceed %d pixels.", maxDimension)
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return encodeBytes(dst, JPEG, 90)
}

const maxDimension = 16384

// Crop extracts r after clamping it into the image bounds. The clamped
// rectangle actually used is returned.
func Crop(data []byte, r Rect) ([]byte, Rect, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, Rect{}, err
	}
	b := img.Bounds()
	r = ClampRect(r, b.Dx(), b.Dy())
	dst := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(b.Min.X+r.X, b.Min.Y+r.Y), draw.Src)
	out, err := encodeBytes(dst, PNG, 0)
	if err != nil {
		return nil, Rect{}, err
	}
	return out, r, nil
}

// Convert re-encodes the pixels in the target container.
func Convert(data []byte, f Format) ([]byte, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return encodeBytes(img, f, 92)
}

// Sample is a picked color.
type Sample struct {
	X   int    `json:"x"`
	Y   int    `json:"y"`
	Hex string `json:"hex"`
	RGB string `json:"rgb"`
}

// SourcePoint maps a coordinate on a scaled display of the image back to
// source pixel space. A zero display size means the image is shown 1:1.
func SourcePoint(displayX, displayY, displayW, displayH, naturalW, naturalH float64) (int, int) {
	sx, sy := 1.0, 1.0
	if displayW > 0 {
		sx = naturalW / displayW
	}
	if displayH > 0 {
		sy = naturalH / displayH
	}
	x := clampInt(int(displayX*sx), 0, int(naturalW)-1)
	y := clampInt(int(displayY*sy), 0, int(naturalH)-1)
	return x, y
}

// PickColor reads the pixel under a display coordinate.
func PickColor(data []byte, displayX, displayY, displayW, displayH float64) (Sample, error) {
	img, _, err := Decode(data)
	if err != nil {
		return Sample{}, err
	}
	if displayX < 0 || displayY < 0 {
		return Sample{}, tools.Invalid("Coordinates must not be negative.")
	}
	b := img.Bounds()
	x, y := SourcePoint(displayX, displayY, displayW, displayH, float64(b.Dx()), float64(b.Dy()))
	c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	return Sample{
		X:   x,
		Y:   y,
		Hex: fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGB: fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B),
	}, nil
}

// Encoded is a file in base64 form.
type Encoded struct {
	Base64  string `json:"base64"`
	DataURL string `json:"dataUrl"`
	Length  int    `json:"length"`
}

// ToBase64 encodes any file; the MIME type in the data URL is sniffed.
func ToBase64(data []byte) Encoded {
	payload := base64.StdEncoding.EncodeToString(data)
	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return Encoded{
		Base64:  payload,
		DataURL: "data:" + mime + ";base64," + payload,
		Length:  len(payload),
	}
}
