package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"agroprod/adapters/charts"
)

func newChartsCmd(c *cli) *cobra.Command {
	var dir string
	var imageFormat string

	cmd := &cobra.Command{
		Use:   "charts <arquivo>",
		Short: "Grava os gráficos de barras do painel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if imageFormat != charts.FormatSVG && imageFormat != charts.FormatPNG {
				return fmt.Errorf("unsupported image format %q (svg or png)", imageFormat)
			}
			ds, err := c.analyzeFile(cmd.Context(), args[0], 0)
			if err != nil {
				return err
			}

			rendered, err := charts.RenderAll(cmd.Context(), ds.Summaries, imageFormat)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for _, r := range rendered {
				path := filepath.Join(dir, string(r.Series.Kind)+"."+imageFormat)
				if err := os.WriteFile(path, r.Image, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path)
				if len(r.Series.Excluded) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "  sem valor definido: %v\n", r.Series.Excluded)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "graficos", "Output directory")
	cmd.Flags().StringVar(&imageFormat, "format", charts.FormatPNG, "Image format: svg or png")
	return cmd
}
