package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/registry"
	"github.com/Lllllllleong/toolsuite/internal/tools"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	text      string
	textFile  string
	params    []string
	output    string
	showStats bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run <tool> [files...]",
		Short: "Run a tool on local files or text",
		Example: `  toolbox run pdf-merge a.pdf b.pdf -o merged.pdf
  toolbox run image-resizer photo.png --param width=800 --param height=600
  toolbox run hash-generator --text "hello" --param algorithm=SHA-512`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			if _, _, err := reg.Lookup(args[0]); err != nil {
				return err
			}
			in, err := buildInput(args[1:], opts)
			if err != nil {
				return err
			}

			res := reg.Run(cmd.Context(), args[0], in)
			if opts.showStats && len(res.Stats) > 0 {
				stats, _ := json.MarshalIndent(res.Stats, "", "  ")
				muted.Fprintln(cmd.ErrOrStderr(), string(stats))
			}
			switch res.Kind {
			case tools.KindError:
				printFailure(cmd.ErrOrStderr(), "%s", res.Message)
				return errors.New(res.Message)
			case tools.KindFile:
				dest, err := outputPath(opts.output, res.SuggestedName)
				if err != nil {
					return err
				}
				if err := os.WriteFile(dest, res.Data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", dest, err)
				}
				printSuccess(cmd.ErrOrStderr(), "Wrote %s (%d bytes)", dest, len(res.Data))
			default:
				if opts.output != "" {
					if err := os.WriteFile(opts.output, []byte(res.Value), 0o644); err != nil {
						return fmt.Errorf("failed to write %s: %w", opts.output, err)
					}
					printSuccess(cmd.ErrOrStderr(), "Wrote %s", opts.output)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.text, "text", "", "text input")
	cmd.Flags().StringVar(&opts.textFile, "text-file", "", "read the text input from a file (- for stdin)")
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "tool parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory")
	cmd.Flags().BoolVar(&opts.showStats, "stats", false, "print result statistics to stderr")
	return cmd
}

func buildInput(paths []string, opts runOptions) (tools.Input, error) {
	params, err := parseParams(opts.params)
	if err != nil {
		return tools.Input{}, err
	}
	in := tools.Input{Text: opts.text, Params: params}
	if opts.textFile != "" {
		var data []byte
		if opts.textFile == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(opts.textFile)
		}
		if err != nil {
			return tools.Input{}, fmt.Errorf("failed to read text input: %w", err)
		}
		in.Text = string(data)
	}
	in.Files, err = readFiles(paths)
	if err != nil {
		return tools.Input{}, err
	}
	return in, nil
}

// readFiles loads paths concurrently, keeping their order.
func readFiles(paths []string) ([]tools.File, error) {
	files := make([]tools.File, len(paths))
	var eg errgroup.Group
	eg.SetLimit(10)
	for i, p := range paths {
		eg.Go(func() error {
			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", p, err)
			}
			files[i] = tools.File{Name: filepath.Base(p), Data: data}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func parseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("parameter %q must be key=value", kv)
		}
		params[strings.TrimSpace(k)] = v
	}
	return params, nil
}

// outputPath resolves where a file result goes: the suggested name in the
// working directory, inside an existing directory, or an explicit path.
func outputPath(output, suggested string) (string, error) {
	name := filepath.Base(suggested)
	if output == "" {
		return name, nil
	}
	info, err := os.Stat(output)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(output, name), nil
	case err == nil || errors.Is(err, os.ErrNotExist):
		return output, nil
	default:
		return "", err
	}
}
