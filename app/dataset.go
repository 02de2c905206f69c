package app

import (
	"time"

	"agroprod/domain/core"
	"agroprod/domain/dataset"
	"agroprod/domain/production"
	"agroprod/internal/profiling"
)

// Dataset is one fully analyzed upload. It is immutable once built; a new
// upload produces a new Dataset.
type Dataset struct {
	ID           core.DatasetID            `json:"id"`
	Filename     string                    `json:"arquivo"`
	Format       dataset.Format            `json:"formato"`
	Fingerprint  core.Hash                 `json:"fingerprint"`
	Table        *dataset.Table            `json:"-"`
	Records      []production.Record       `json:"-"`
	Summaries    *production.Summaries     `json:"resumo"`
	Profiles     []profiling.ColumnProfile `json:"perfil_colunas"`
	Correlations []profiling.Correlation   `json:"correlacoes"`
	Report       dataset.LoadReport        `json:"relatorio_carga"`
	LoadedAt     time.Time                 `json:"carregado_em"`
	Elapsed      time.Duration             `json:"-"`
}

// Municipalities lists the distinct municipalities in first-seen order.
func (d *Dataset) Municipalities() []string {
	return production.Municipalities(d.Records)
}

// RecordsFor returns the records of one municipality.
func (d *Dataset) RecordsFor(municipality string) []production.Record {
	return production.FilterByMunicipality(d.Records, municipality)
}
