package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agroprod/app"
	"agroprod/domain/production"
	"agroprod/internal/format"
)

func newAnalyzeCmd(c *cli) *cobra.Command {
	var asJSON bool
	var topN int
	var order string

	cmd := &cobra.Command{
		Use:   "analyze <arquivo>",
		Short: "Calcula as agregações por município e por produto",
		Long: `Calcula as agregações por município e por produto de um arquivo.

Exemplo: agroprod-cli analyze pam_2022.xlsx --top 10 --ordem valor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := c.analyzeFile(cmd.Context(), args[0], topN)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ds)
			}
			return printAnalysis(cmd.OutOrStdout(), ds, production.ParseMunicipalitySort(order))
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the analysis as JSON")
	cmd.Flags().IntVar(&topN, "top", 0, "Size of the top products by value ranking (default from TOP_N)")
	cmd.Flags().StringVar(&order, "ordem", string(production.ByTotalQuantity), "Municipality table order: quantidade, area, rendimento or valor")
	return cmd
}

func printAnalysis(out io.Writer, ds *app.Dataset, order production.MunicipalitySort) error {
	s := ds.Summaries
	fmt.Fprintf(out, "Arquivo: %s (%s), %s registros\n", ds.Filename, ds.Format, format.Integer(s.RecordCount))
	if missing := ds.Report.MissingCells(); missing > 0 {
		fmt.Fprintf(out, "Células vazias ou não numéricas ignoradas: %s\n", format.Integer(missing))
	}
	fmt.Fprintf(out, "Município com maior produção: %s (%s t)\n",
		s.TopByQuantity.Municipality, format.Number(s.TopByQuantity.TotalQuantity, 2))
	fmt.Fprintf(out, "Município com maior valor de produção: %s (R$ %s mil)\n\n",
		s.TopByValue.Municipality, format.Number(s.TopByValue.TotalValue, 2))

	rows := make([][]string, 0, len(s.Municipalities))
	for _, m := range production.SortMunicipalities(s.Municipalities, order) {
		rows = append(rows, []string{m.Municipality, format.Number(m.TotalQuantity, 2),
			format.Metric(m.MeanArea, 2), format.Metric(m.MeanYield, 2), format.Number(m.TotalValue, 2)})
	}
	if err := printTable(out, "Municípios",
		[]string{"Município", "Produção Total (t)", "Área Média (ha)", "Rendimento Médio (kg/ha)", "Valor Total (R$ mil)"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, p := range production.SortProducts(s.Products, production.ByProductValue) {
		rows = append(rows, []string{p.Product, format.Number(p.TotalQuantity, 2), format.Number(p.TotalValue, 2),
			format.Number(p.TotalArea, 2), format.Metric(p.Productivity, 4), format.Metric(p.Efficiency, 4)})
	}
	if err := printTable(out, "Produtos",
		[]string{"Produto", "Produção Total (t)", "Valor Total (R$ mil)", "Área Total (ha)", "Produtividade (t/ha)", "Eficiência (R$ mil/ha)"}, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for i, p := range s.TopProductsByValue {
		rows = append(rows, []string{fmt.Sprint(i + 1), p.Product, format.Number(p.TotalValue, 2)})
	}
	return printTable(out, fmt.Sprintf("Top %d produtos por valor", len(s.TopProductsByValue)),
		[]string{"#", "Produto", "Valor Total (R$ mil)"}, rows)
}

func printTable(out io.Writer, title string, headers []string, rows [][]string) error {
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("=", len([]rune(title))))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(headers, "\t")+"\t")
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}
