package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"agroprod/adapters/export"
)

func newExportCmd(c *cli) *cobra.Command {
	var out string
	var report string

	cmd := &cobra.Command{
		Use:   "export <arquivo>",
		Short: "Exporta as agregações para uma planilha e, opcionalmente, um relatório",
		Long: `Exporta as agregações para uma planilha XLSX. Com --report, grava também o
relatório em markdown (.md) ou HTML (.html) com os gráficos embutidos.

Exemplo: agroprod-cli export pam_2022.csv --out resumo.xlsx --report relatorio.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := c.analyzeFile(cmd.Context(), args[0], 0)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := export.WriteWorkbook(f, ds.Summaries, ds.Records); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planilha gravada em %s\n", out)

			if report == "" {
				return nil
			}
			in := export.ReportInput{
				Filename:  ds.Filename,
				LoadedAt:  ds.LoadedAt,
				Summaries: ds.Summaries,
				Load:      ds.Report,
			}
			if err := export.RenderCharts(cmd.Context(), &in); err != nil {
				return err
			}
			content := export.Markdown(in)
			if ext := strings.ToLower(filepath.Ext(report)); ext == ".html" || ext == ".htm" {
				content = export.HTML(in)
			}
			if err := os.WriteFile(report, content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", report, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Relatório gravado em %s\n", report)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "summary.xlsx", "Output workbook path")
	cmd.Flags().StringVar(&report, "report", "", "Also write the report (.md or .html)")
	return cmd
}
