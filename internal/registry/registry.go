// Package registry maps stable tool identifiers to their catalog metadata
// and to the transformation that implements them.
package registry

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lllllllleong/toolsuite/internal/calc"
	"github.com/Lllllllleong/toolsuite/internal/imagetools"
	"github.com/Lllllllleong/toolsuite/internal/pdftools"
	"github.com/Lllllllleong/toolsuite/internal/texttools"
	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// implementations is the closed set of runnable tools. A catalogued id
// missing here is reported as coming soon.
var implementations = map[string]tools.Tool{
	"pdf-merge":        pdftools.MergeTool,
	"pdf-split":        pdftools.SplitTool,
	"pdf-rotate":       pdftools.RotateTool,
	"pdf-compress":     pdftools.CompressTool,
	"pdf-page-counter": pdftools.PageCounterTool,
	"jpg-to-pdf":       pdftools.ImagesToPDFTool,

	"image-compressor":       imagetools.CompressTool,
	"image-resizer":          imagetools.ResizeTool,
	"image-cropper":          imagetools.CropTool,
	"image-format-converter": imagetools.ConvertTool,
	"image-to-base64":        imagetools.Base64Tool,
	"image-color-picker":     imagetools.ColorPickTool,

	"json-formatter":       texttools.JSONFormatTool,
	"base64-encode-decode": texttools.Base64Tool,
	"csv-to-json":          texttools.CSVToJSONTool,
	"json-to-csv":          texttools.JSONToCSVTool,
	"url-encoder-decoder":  texttools.URLTool,
	"markdown-preview":     texttools.MarkdownTool,
	"hash-generator":       texttools.HashTool,
	"uuid-generator":       texttools.UUIDTool,
	"text-diff-checker":    texttools.DiffTool,
	"word-counter":         texttools.WordCountTool,
	"password-generator":   texttools.PasswordTool,
	"qr-generator":         texttools.QRTool,

	"loan-calculator":            calc.LoanTool,
	"percentage-calculator":      calc.PercentageTool,
	"date-difference-calculator": calc.DateDiffTool,
	"bmi-calculator":             calc.BMITool,
	"unit-converter":             calc.UnitTool,
	"tip-calculator":             calc.TipTool,
}

type FAQ struct {
	Q string `yaml:"q" json:"q"`
	A string `yaml:"a" json:"a"`
}

// Descriptor is the static metadata of one tool.
type Descriptor struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Category     string   `yaml:"category" json:"category"`
	Description  string   `yaml:"description" json:"description"`
	Instructions []string `yaml:"instructions" json:"instructions"`
	FAQs         []FAQ    `yaml:"faqs" json:"faqs"`
	Available    bool     `yaml:"-" json:"available"`
}

// Suite groups related tools that share one workspace.
type Suite struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	ToolIDs     []string `yaml:"tools" json:"tools"`
}

type catalog struct {
	Suites []Suite      `yaml:"suites"`
	Tools  []Descriptor `yaml:"tools"`
}

type Registry struct {
	tools  []Descriptor
	byID   map[string]int
	impls  map[string]tools.Tool
	suites []Suite
}

// Parse builds a registry from a YAML catalog and an implementation map.
// Every implementation and every suite member must be catalogued.
func Parse(data []byte, impls map[string]tools.Tool) (*Registry, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse tool catalog: %w", err)
	}
	r := &Registry{byID: make(map[string]int, len(c.Tools)), impls: impls}
	for _, d := range c.Tools {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", d.Name)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate tool id %q", d.ID)
		}
		_, d.Available = impls[d.ID]
		r.byID[d.ID] = len(r.tools)
		r.tools = append(r.tools, d)
	}
	for id := range impls {
		if _, ok := r.byID[id]; !ok {
			return nil, fmt.Errorf("tool %q has an implementation but no catalog entry", id)
		}
	}
	for _, s := range c.Suites {
		for _, id := range s.ToolIDs {
			if _, ok := r.byID[id]; !ok {
				return nil, fmt.Errorf("suite %q lists unknown tool %q", s.ID, id)
			}
		}
		r.suites = append(r.suites, s)
	}
	return r, nil
}

var defaultRegistry = tools.NewLoader(func() (*Registry, error) {
	return Parse(catalogYAML, implementations)
})

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry.MustGet()
}

// Describe returns the metadata of id whether or not it is runnable.
func (r *Registry) Describe(id string) (Descriptor, error) {
	i, ok := r.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", tools.ErrToolNotFound, id)
	}
	return r.tools[i], nil
}

// Lookup resolves id to its descriptor and implementation.
func (r *Registry) Lookup(id string) (Descriptor, tools.Tool, error) {
	d, err := r.Describe(id)
	if err != nil {
		return Descriptor{}, nil, err
	}
	impl, ok := r.impls[id]
	if !ok {
		return d, nil, fmt.Errorf("%w: %s", tools.ErrComingSoon, id)
	}
	return d, impl, nil
}

// List returns every catalogued tool in catalog order.
func (r *Registry) List() []Descriptor {
	return append([]Descriptor(nil), r.tools...)
}

func (r *Registry) ByCategory(category string) []Descriptor {
	var out []Descriptor
	for _, d := range r.tools {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

func (r *Registry) Suites() []Suite {
	return append([]Suite(nil), r.suites...)
}

// Suite returns a suite and its members in suite order.
func (r *Registry) Suite(id string) (Suite, []Descriptor, error) {
	for _, s := range r.suites {
		if s.ID != id {
			continue
		}
		members := make([]Descriptor, 0, len(s.ToolIDs))
		for _, toolID := range s.ToolIDs {
			members = append(members, r.tools[r.byID[toolID]])
		}
		return s, members, nil
	}
	return Suite{}, nil, fmt.Errorf("%w: suite %s", tools.ErrToolNotFound, id)
}

// Run executes tool id on in. It never fails: lookup and transformation
// errors come back as error results.
func (r *Registry) Run(ctx context.Context, id string, in tools.Input) tools.Result {
	logCtx := slog.With("toolId", id, "files", len(in.Files))
	_, impl, err := r.Lookup(id)
	if err != nil {
		logCtx.Warn("Tool lookup failed.", "error", err)
		return tools.ErrorResult(tools.Message(err))
	}
	start := time.Now()
	res := tools.Execute(ctx, impl, in)
	if res.Kind == tools.KindError {
		logCtx.Info("Tool returned an error result.", "message", res.Message, "duration", time.Since(start))
	} else {
		logCtx.Info("Tool completed.", "kind", res.Kind, "bytes", len(res.Data), "duration", time.Since(start))
	}
	return res
}

// NewSession starts an interaction with a runnable tool.
func (r *Registry) NewSession(id string) (*tools.Session, error) {
	_, impl, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return tools.NewSession(uuid.NewString(), id, impl), nil
}
