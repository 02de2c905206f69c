package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agroprod/internal/format"
)

func newProfileCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <arquivo>",
		Short: "Descreve as colunas numéricas do arquivo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := c.analyzeFile(cmd.Context(), args[0], 0)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(ds.Profiles))
			for _, p := range ds.Profiles {
				row := []string{p.Name, format.Integer(p.Count), format.Integer(p.Missing)}
				if s := p.Summary; s != nil {
					row = append(row, format.Number(s.Min, 2), format.Number(s.Max, 2), format.Number(s.Mean, 2),
						format.Number(s.Median, 2), format.Number(s.Q1, 2), format.Number(s.Q3, 2), format.Number(s.StdDev, 2), fmt.Sprint(s.Outliers))
				} else {
					row = append(row, "-", "-", "-", "-", "-", "-", "-", "-")
				}
				rows = append(rows, row)
			}
			err = printTable(cmd.OutOrStdout(), "Perfil das colunas numéricas",
				[]string{"Coluna", "Valores", "Ausentes", "Mínimo", "Máximo", "Média", "Mediana", "Q1", "Q3", "Desvio padrão", "Outliers"}, rows)
			if err != nil || len(ds.Correlations) == 0 {
				return err
			}

			rows = rows[:0]
			for _, c := range ds.Correlations {
				rows = append(rows, []string{c.X, c.Y, format.Number(c.Rho, 3), format.Number(c.PValue, 4), format.Integer(c.N)})
			}
			return printTable(cmd.OutOrStdout(), "Correlação de Spearman",
				[]string{"Coluna", "Coluna", "rho", "p-valor", "Pares"}, rows)
		},
	}
}
