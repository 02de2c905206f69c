package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"agroprod/adapters/charts"
	"agroprod/domain/dataset"
	"agroprod/domain/production"
	"agroprod/internal/format"
)

// ReportInput is everything a report is built from.
type ReportInput struct {
	Filename  string
	LoadedAt  time.Time
	Summaries *production.Summaries
	Load      dataset.LoadReport
	// Charts are embedded as images when present; see RenderCharts.
	Charts []charts.Rendered
}

// RenderCharts fills in.Charts with PNG renderings of every chart.
func RenderCharts(ctx context.Context, in *ReportInput) error {
	rendered, err := charts.RenderAll(ctx, in.Summaries, charts.FormatPNG)
	if err != nil {
		return err
	}
	in.Charts = rendered
	return nil
}

// Markdown renders the analysis report.
func Markdown(in ReportInput) []byte {
	s := in.Summaries
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Análise de Produção Agrícola\n\n")
	fmt.Fprintf(&b, "Arquivo: `%s`", escapeCode(in.Filename))
	if !in.LoadedAt.IsZero() {
		fmt.Fprintf(&b, " · carregado em %s", in.LoadedAt.Format("02/01/2006 15:04"))
	}
	fmt.Fprintf(&b, " · %s registros\n\n", format.Integer(s.RecordCount))
	if missing := in.Load.MissingCells(); missing > 0 {
		fmt.Fprintf(&b, "> %s células numéricas vazias ou não numéricas foram ignoradas.\n\n", format.Integer(missing))
	}

	b.WriteString("## Estatísticas Principais\n\n")
	fmt.Fprintf(&b, "- **Município com Maior Produção:** %s (%s t)\n",
		escape(s.TopByQuantity.Municipality), format.Number(s.TopByQuantity.TotalQuantity, 2))
	fmt.Fprintf(&b, "- **Município com Maior Valor de Produção:** %s (R$ %s mil)\n\n",
		escape(s.TopByValue.Municipality), format.Number(s.TopByValue.TotalValue, 2))

	b.WriteString("## Análise Completa por Município\n\n")
	rows := make([][]string, 0, len(s.Municipalities))
	for _, m := range production.SortMunicipalities(s.Municipalities, production.ByTotalQuantity) {
		rows = append(rows, []string{escape(m.Municipality), format.Number(m.TotalQuantity, 2),
			format.Metric(m.MeanArea, 2), format.Metric(m.MeanYield, 2), format.Number(m.TotalValue, 2)})
	}
	table(&b, []string{"Município", "Produção Total (t)", "Área Média Colhida (ha)", "Rendimento Médio (kg/ha)", "Valor Total (R$ 1.000)"}, rows)

	b.WriteString("## Análise por Produto Agrícola\n\n")
	rows = rows[:0]
	for _, p := range production.SortProducts(s.Products, production.ByProductValue) {
		rows = append(rows, []string{escape(p.Product), format.Number(p.TotalQuantity, 2), format.Number(p.TotalValue, 2)})
	}
	table(&b, []string{"Produto", "Produção Total (t)", "Valor Total (R$ 1.000)"}, rows)

	fmt.Fprintf(&b, "## Top %d Produtos por Valor de Produção\n\n", len(s.TopProductsByValue))
	rows = rows[:0]
	for i, p := range s.TopProductsByValue {
		rows = append(rows, []string{fmt.Sprint(i + 1), escape(p.Product), format.Number(p.TotalValue, 2)})
	}
	table(&b, []string{"#", "Produto", "Valor Total (R$ 1.000)"}, rows)

	b.WriteString("## Produtividade Média por Produto\n\n")
	rows = rows[:0]
	for _, p := range production.SortProducts(s.Products, production.ByProductivity) {
		rows = append(rows, []string{escape(p.Product), format.Metric(p.Productivity, 2)})
	}
	table(&b, []string{"Produto", "Produtividade Média (t/ha)"}, rows)

	b.WriteString("## Eficiência Econômica por Produto\n\n")
	rows = rows[:0]
	for _, p := range production.SortProducts(s.Products, production.ByEfficiency) {
		rows = append(rows, []string{escape(p.Product), format.Metric(p.Efficiency, 2)})
	}
	table(&b, []string{"Produto", "Valor por Hectare (R$ 1.000/ha)"}, rows)

	if len(in.Charts) > 0 {
		b.WriteString("## Gráficos\n\n")
		for _, c := range in.Charts {
			fmt.Fprintf(&b, "### %s\n\n", c.Series.Title)
			fmt.Fprintf(&b, "![%s](data:image/png;base64,%s)\n\n", c.Series.Title, base64.StdEncoding.EncodeToString(c.Image))
			if len(c.Series.Excluded) > 0 {
				fmt.Fprintf(&b, "Sem valor definido (não exibidos): %s\n\n", escape(strings.Join(c.Series.Excluded, ", ")))
			}
		}
	}

	return b.Bytes()
}

// HTML renders the report as a standalone HTML page.
func HTML(in ReportInput) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: "Análise de Produção Agrícola",
	})
	return markdown.ToHTML(Markdown(in), p, renderer)
}

func table(b *bytes.Buffer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		b.WriteString("_Sem dados._\n\n")
		return
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", "&lt;", ">", "&gt;", "`", "\\`", "#", `\#`,
)

// escape neutralizes markdown and HTML in values taken from the upload.
func escape(s string) string {
	return mdEscaper.Replace(s)
}

func escapeCode(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
