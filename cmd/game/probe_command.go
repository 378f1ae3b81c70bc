package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Garsondee/Drift-Gallery/internal/catalog"
	"github.com/Garsondee/Drift-Gallery/internal/logging"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Count the catalog's images and show the startup pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cfg)
			if err != nil {
				return err
			}
			src, err := newSource(cfg)
			if err != nil {
				return err
			}
			count, pairs := probeCatalog(cmd.Context(), cfg, src, logging.NewComponentLogger(logger, "probe"))
			renderProbe(cmd.OutOrStdout(), src, cfg.Seed, count, pairs)
			return nil
		},
	}
}

func renderProbe(w io.Writer, src catalog.Source, seed uint32, count int, pairs []catalog.Pair) {
	fmt.Fprintf(w, "source: %s\nimages: %d\nseed:   %d\n\n", src.Describe(""), count, seed)
	if len(pairs) == 0 {
		fmt.Fprintln(w, "no pairs")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "A", "B"})
	for i, p := range pairs {
		tw.AppendRow(table.Row{i, catalog.ImagePath(p.A), catalog.ImagePath(p.B)})
	}
	tw.Render()
}
