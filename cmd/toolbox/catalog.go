package main

import (
	"fmt"

	"github.com/Lllllllleong/toolsuite/internal/registry"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			list := reg.List()
			if filter != "" {
				list = reg.ByCategory(filter)
			}
			out := cmd.OutOrStdout()
			current := ""
			for _, d := range list {
				if d.Category != current {
					if current != "" {
						fmt.Fprintln(out)
					}
					current = d.Category
					categoryColor(current).Fprintln(out, current)
				}
				fmt.Fprintf(out, "  %-28s %s", d.ID, d.Name)
				if !d.Available {
					pending.Fprint(out, " (coming soon)")
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "category", "", "only list tools in this category")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <tool>",
		Short: "Show a tool's description, instructions and FAQ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := registry.Default().Describe(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			heading.Fprintln(out, d.Name)
			muted.Fprintf(out, "%s · %s\n\n", d.ID, d.Category)
			fmt.Fprintln(out, d.Description)
			if !d.Available {
				pending.Fprintln(out, "\nThis tool is coming soon.")
			}
			if len(d.Instructions) > 0 {
				heading.Fprintln(out, "\nHow to use")
				for i, step := range d.Instructions {
					fmt.Fprintf(out, "  %d. %s\n", i+1, step)
				}
			}
			if len(d.FAQs) > 0 {
				heading.Fprintln(out, "\nFAQ")
				for _, faq := range d.FAQs {
					fmt.Fprintf(out, "  Q: %s\n  A: %s\n", faq.Q, faq.A)
				}
			}
			return nil
		},
	}
}
