package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/slidegen/internal/adapters/secondary/templates"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// templatesCmd lists the configured export templates
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List configured templates and whether their files exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, ports.ConfigOverrides{})
		if err != nil {
			return err
		}

		registry, err := templates.NewRegistry(cfg.Templates)
		if err != nil {
			return err
		}
		return printTemplates(cmd.OutOrStdout(), registry)
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func printTemplates(w io.Writer, registry *templates.Registry) error {
	defaultID, _ := registry.Default()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tFILE\tSTATUS")
	for _, t := range registry.List() {
		status := "ok"
		if !registry.Exists(t.ID) {
			status = "missing"
		}
		id := t.ID
		if id == defaultID {
			id += " (default)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, t.Name, t.Path, status)
	}
	return tw.Flush()
}
