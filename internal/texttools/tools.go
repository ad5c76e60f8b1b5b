package texttools

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

// textOf prefers pasted text and falls back to the first uploaded file.
func textOf(in tools.Input) string {
	if in.Text != "" || len(in.Files) == 0 {
		return in.Text
	}
	return string(in.Files[0].Data)
}

// sides returns the old and new texts of a comparison, from two files or
// from the old/new params.
func sides(in tools.Input) (string, string) {
	if len(in.Files) >= 2 {
		return string(in.Files[0].Data), string(in.Files[1].Data)
	}
	oldText, ok := in.Params["old"]
	if !ok {
		oldText = in.Text
	}
	return oldText, in.Params["new"]
}

func mode(in tools.Input, def string, allowed ...string) (string, error) {
	m := strings.ToLower(in.String("mode", def))
	for _, a := range allowed {
		if m == a {
			return m, nil
		}
	}
	return "", tools.Invalid("Unknown mode %q.", m)
}

func jsonStats(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

var JSONFormatTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	m, err := mode(in, "format", "format", "minify")
	if err != nil {
		return tools.Result{}, err
	}
	out, err := FormatJSON(textOf(in), m == "format")
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(out), nil
})

var Base64Tool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	m, err := mode(in, "encode", "encode", "decode")
	if err != nil {
		return tools.Result{}, err
	}
	if m == "encode" {
		return tools.TextResult(EncodeBase64(textOf(in))), nil
	}
	out, err := DecodeBase64(textOf(in))
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(out), nil
})

var CSVToJSONTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	out, err := CSVToJSON(textOf(in))
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(out), nil
})

var JSONToCSVTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	out, err := JSONToCSV(textOf(in))
	if err != nil {
		return tools.Result{}, err
	}
	if in.Bool("download", false) {
		return tools.FileResult([]byte(out), "output.csv", "text/csv; charset=utf-8"), nil
	}
	return tools.TextResult(out), nil
})

var URLTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	m, err := mode(in, "encode", "encode", "decode")
	if err != nil {
		return tools.Result{}, err
	}
	if m == "encode" {
		return tools.TextResult(EncodeURIComponent(textOf(in))), nil
	}
	out, err := DecodeURIComponent(textOf(in))
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(out), nil
})

var MarkdownTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	html, err := RenderMarkdown(textOf(in))
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(html), nil
})

var HashTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	algorithm := in.String("algorithm", "SHA-256")
	sum, err := Hash(textOf(in), algorithm)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(sum).WithStats(map[string]any{"algorithm": algorithm}), nil
})

var UUIDTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	count, err := in.Int("count", 5)
	if err != nil {
		return tools.Result{}, err
	}
	ids, err := UUIDs(count)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(strings.Join(ids, "\n")).WithStats(map[string]any{"count": len(ids)}), nil
})

var DiffTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	oldText, newText := sides(in)
	report := Diff(oldText, newText)
	return tools.TextResult(report.String()).WithStats(map[string]any{
		"added":   report.Added,
		"removed": report.Removed,
		"lines":   report.Lines,
	}), nil
})

var WordCountTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	stats := CountWords(textOf(in))
	summary := []string{
		"Words: " + strconv.Itoa(stats.Words),
		"Characters: " + strconv.Itoa(stats.CharsWithSpaces),
		"No spaces: " + strconv.Itoa(stats.CharsNoSpaces),
		"Paragraphs: " + strconv.Itoa(stats.Paragraphs),
		"Read time: " + stats.ReadingLabel(),
	}
	return tools.TextResult(strings.Join(summary, " · ")).WithStats(jsonStats(stats)), nil
})

var PasswordTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	length, err := in.Int("length", DefaultPasswordLength)
	if err != nil {
		return tools.Result{}, err
	}
	pw, err := GeneratePassword(PasswordOptions{
		Length:  length,
		Upper:   in.Bool("upper", true),
		Lower:   in.Bool("lower", true),
		Digits:  in.Bool("numbers", true),
		Symbols: in.Bool("symbols", true),
	})
	if err != nil {
		return tools.Result{}, err
	}
	return tools.TextResult(pw), nil
})

var QRTool = tools.Func(func(ctx context.Context, in tools.Input) (tools.Result, error) {
	size, err := in.Int("size", QRSize)
	if err != nil {
		return tools.Result{}, err
	}
	png, err := QRCode(textOf(in), size)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.FileResult(png, "qrcode.png", "image/png"), nil
})
