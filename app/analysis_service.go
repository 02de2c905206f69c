package app

import (
	"bytes"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"agroprod/adapters/coercer"
	"agroprod/adapters/tabular"
	"agroprod/domain/core"
	"agroprod/domain/production"
	"agroprod/internal/errors"
	"agroprod/internal/profiling"
	"agroprod/ports"
)

// AnalysisService turns uploads into analyzed datasets and keeps the
// current dataset of each session
type AnalysisService struct {
	reader   ports.DatasetReader
	sessions ports.SessionRepository[*Dataset]
	coercer  *coercer.TypeCoercer
	profiler *profiling.DataProfiler
	topN     int
	logger   *zap.Logger
}

// NewAnalysisService creates an analysis service. sessions may be nil for
// stateless use (API, CLI).
func NewAnalysisService(reader ports.DatasetReader, sessions ports.SessionRepository[*Dataset], topN int, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if topN < 1 {
		topN = production.DefaultTopN
	}
	c := coercer.Default()
	return &AnalysisService{
		reader:   reader,
		sessions: sessions,
		coercer:  c,
		profiler: profiling.NewDataProfiler(c),
		topN:     topN,
		logger:   logger.Named("analysis"),
	}
}

// Analyze reads, validates and aggregates one upload without touching any
// session. Every failure is a typed error from domain/core.
func (s *AnalysisService) Analyze(ctx context.Context, filename string, src io.Reader) (*Dataset, error) {
	start := time.Now()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(core.NewParseError("upload", err), "failed to read upload")
	}

	table, format, err := s.reader.Read(filename, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, report, err := tabular.ToRecords(table, s.coercer)
	if err != nil {
		return nil, err
	}

	summaries, err := production.ComputeSummaries(records, production.WithTopN(s.topN))
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		ID:           core.NewDatasetID(),
		Filename:     filename,
		Format:       format,
		Fingerprint:  core.NewHash(data),
		Table:        table,
		Records:      records,
		Summaries:    summaries,
		Profiles:     s.profiler.ProfileDataset(table),
		Correlations: s.profiler.Correlations(table),
		Report:       report,
		LoadedAt:     time.Now(),
		Elapsed:      time.Since(start),
	}

	s.logger.Info("dataset analyzed",
		zap.String("dataset_id", ds.ID.String()),
		zap.String("file", filename),
		zap.String("fingerprint", ds.Fingerprint.Short()),
		zap.Int("records", len(records)),
		zap.Int("municipalities", len(summaries.Municipalities)),
		zap.Int("products", len(summaries.Products)),
		zap.Int("missing_cells", report.MissingCells()),
		zap.Duration("elapsed", ds.Elapsed))
	return ds, nil
}

// Load analyzes an upload for a session. On success the session dataset is
// replaced; on any failure it is cleared, so the session never shows results
// of an earlier file next to the error of a later one.
func (s *AnalysisService) Load(ctx context.Context, sessionID core.SessionID, filename string, src io.Reader) (*Dataset, error) {
	ds, err := s.Analyze(ctx, filename, src)
	if err != nil {
		if s.sessions != nil {
			s.sessions.Clear(sessionID)
		}
		s.logger.Warn("upload rejected",
			zap.String("session_id", sessionID.String()),
			zap.String("file", filename),
			zap.String("code", errors.GetCode(err)),
			zap.Error(err))
		return nil, err
	}
	if s.sessions != nil {
		s.sessions.Replace(sessionID, ds)
	}
	return ds, nil
}

// Current returns the dataset loaded in a session.
func (s *AnalysisService) Current(sessionID core.SessionID) (*Dataset, bool) {
	if s.sessions == nil {
		return nil, false
	}
	s.sessions.Touch(sessionID)
	return s.sessions.Get(sessionID)
}

// Reset returns a session to the awaiting-upload state.
func (s *AnalysisService) Reset(sessionID core.SessionID) {
	if s.sessions != nil {
		s.sessions.Clear(sessionID)
	}
}
