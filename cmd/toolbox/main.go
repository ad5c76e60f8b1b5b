// Command toolbox runs the tool suite from the command line or serves it
// over HTTP.
package main

import (
	"log/slog"
	"os"

	"github.com/Lllllllleong/toolsuite/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg *config.Config
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "toolbox",
		Short: "File, text and number tools that run entirely on your machine",
		Long: `toolbox bundles PDF, image, text and calculator tools behind one CLI.

Use "toolbox tools" to list them, "toolbox run <tool>" to run one on local
files, and "toolbox serve" to expose them over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			if noColor {
				color.NoColor = true
			}
			c, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
			if cfg.ConfigFile != "" {
				slog.Debug("Using config file.", "path", cfg.ConfigFile)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./toolbox.yaml or ~/.config/toolbox/toolbox.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(newToolsCmd(), newDescribeCmd(), newRunCmd(), newServeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
