// Package pdftools implements the structural PDF operations of the suite on
// in-memory buffers using pdfcpu.
package pdftools

import (
	"bytes"
	"fmt"

	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const mimePDF = "application/pdf"

var baseConfig = tools.NewLoader(func() (*model.Configuration, error) {
	// Keep pdfcpu from creating a config dir under the user's home.
	api.DisableConfigDir()
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg, nil
})

// newConfig hands each operation its own copy: pdfcpu records the running
// command on the configuration.
func newConfig() (*model.Configuration, error) {
	base, err := baseConfig.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load pdf engine configuration: %w", err)
	}
	cfg := *base
	return &cfg, nil
}

// readContext parses and validates one PDF buffer.
func readContext(data []byte) (*model.Context, error) {
	cfg, err := newConfig()
	if err != nil {
		return nil, err
	}
	ctx, err := api.ReadContext(bytes.NewReader(data), cfg)
	if err != nil {
		return nil, err
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// PageCount returns the number of pages in a PDF buffer.
func PageCount(data []byte) (int, error) {
	cfg, err := newConfig()
	if err != nil {
		return 0, err
	}
	n, err := api.PageCount(bytes.NewReader(data), cfg)
	if err != nil {
		return 0, tools.InvalidWrap(err, "Could not read PDF.")
	}
	return n, nil
}
