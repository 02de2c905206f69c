package main

import (
	"context"
	"os"
	"path/filepath"

	"agroprod/app"
	"agroprod/internal/errors"
)

// analyzeFile runs the full pipeline on a local file. topN below 1 falls back
// to the configured value.
func (c *cli) analyzeFile(ctx context.Context, path string, topN int) (*app.Dataset, error) {
	if topN < 1 {
		topN = c.cfg.Analysis.TopN
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	svc := c.container.Stateless
	if topN != c.cfg.Analysis.TopN {
		svc = app.NewAnalysisService(c.container.Reader, nil, topN, c.logger)
	}
	return svc.Analyze(ctx, filepath.Base(path), f)
}
