package imagetools

import (
	"context"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

func singleImage(in tools.Input) (tools.File, error) {
	if len(in.Files) == 0 {
		return tools.File{}, tools.Invalid("Choose an image file.")
	}
	return in.Files[0], nil
}

var CompressTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := singleImage(in)
	if err != nil {
		return tools.Result{}, err
	}
	quality, err := in.Int("quality", 70)
	if err != nil {
		return tools.Result{}, err
	}
	out, stats, err := Compress(f.Data, max(1, min(100, quality)))
	if err != nil {
		return tools.Result{}, err
	}
	return tools.FileResult(out, "compressed.jpg", JPEG.MIMEType()).WithStats(map[string]any{
		"before":       stats.Before,
		"after":        stats.After,
		"savedPercent": stats.SavedPercent,
	}), nil
})

var ResizeTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := singleImage(in)
	if err != nil {
		return tools.Result{}, err
	}
	width, err := in.Int("width", 1200)
	if err != nil {
		return tools.Result{}, err
	}
	height, err := in.Int("height", 800)
	if err != nil {
		return tools.Result{}, err
	}
	out, err := Resize(f.Data, width, height)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.FileResult(out, "resized.jpg", JPEG.MIMEType()).WithStats(map[string]any{"width": width, "height": height}), nil
})

var CropTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := singleImage(in)
	if err != nil {
		return tools.Result{}, err
	}
	var r Rect
	if in.String("width", "") == "" || in.String("height", "") == "" {
		img, _, err := Decode(f.Data)
		if err != nil {
			return tools.Result{}, err
		}
		r = DefaultCrop(img.Bounds().Dx(), img.Bounds().Dy())
	} else {
		for key, dst := range map[string]*int{"x": &r.X, "y": &r.Y, "width": &r.Width, "height": &r.Height} {
			if *dst, err = in.Int(key, 0); err != nil {
				return tools.Result{}, err
			}
		}
	}
	out, used, err := Crop(f.Data, r)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.FileResult(out, "cropped.png", PNG.MIMEType()).WithStats(map[string]any{"rect": used}), nil
})

var ConvertTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := singleImage(in)
	if err != nil {
		return tools.Result{}, err
	}
	format, err := ParseFormat(in.String("format", "png"))
	if err != nil {
		return tools.Result{}, err
	}
	out, err := Convert(f.Data, format)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.FileResult(out, "converted."+format.Ext(), format.MIMEType()), nil
})

var ColorPickTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := singleImage(in)
	if err != nil {
		return tools.Result{}, err
	}
	vals := make(map[string]float64, 4)
	for _, key := range []string{"x", "y", "displayWidth", "displayHeight"} {
		if vals[key], err = in.Float(key, 0); err != nil {
			return tools.Result{}, err
		}
	}
	s, err := PickColor(f.Data, vals["x"], vals["y"], vals["displayWidth"], vals["displayHeight"])
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(s.Hex).WithStats(map[string]any{"hex": s.Hex, "rgb": s.RGB, "x": s.X, "y": s.Y}), nil
})

var Base64Tool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	f, err := singleImage(in)
	if err != nil {
		return tools.Result{}, err
	}
	enc := ToBase64(f.Data)
	return tools.TextResult(enc.Base64).WithStats(map[string]any{"dataUrl": enc.DataURL, "length": enc.Length}), nil
})
