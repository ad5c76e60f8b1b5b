package texttools

import (
	"bytes"
	"fmt"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in the source is dropped since goldmark runs without the unsafe
// renderer option.
var markdown = tools.NewLoader(func() (goldmark.Markdown, error) {
	return goldmark.New(goldmark.WithExtensions(extension.GFM)), nil
})

// RenderMarkdown converts markdown to HTML.
func RenderMarkdown(src string) (string, error) {
	md, err := markdown.Get()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := md.Convert([]byte(src), &out); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out.String(), nil
}
