package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agroprod/adapters/charts"
	"agroprod/adapters/export"
	"agroprod/app"
	"agroprod/domain/core"
	"agroprod/internal/errors"
	"agroprod/ui/middleware"
	"agroprod/ui/templates/fragments"
)

const uploadField = "dataset"

// handleIndex renders the dashboard: the upload form alone until a dataset
// is loaded, the full analysis afterwards.
func (s *Server) handleIndex(c *gin.Context) {
	ds, _ := s.analysis.Current(middleware.SessionID(c))
	view := s.newDashboardView(ds, c.Query("ordem"), c.Query("nome"))
	s.renderTemplate(c, http.StatusOK, fragments.Index, view)
}

// handleUpload replaces the session dataset with the uploaded file. Any
// failure clears the session and renders the error on the dashboard.
func (s *Server) handleUpload(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		s.analysis.Reset(sessionID)
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) || c.Request.ContentLength > s.maxUploadBytes {
			s.renderDashboardError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("O arquivo excede o limite de %d MB.", s.maxUploadBytes>>20))
			return
		}
		s.renderDashboardError(c, http.StatusBadRequest, "Selecione um arquivo para carregar.")
		return
	}
	defer file.Close()

	if _, err := s.analysis.Load(c.Request.Context(), sessionID, header.Filename, file); err != nil {
		_ = c.Error(err)
		s.renderDashboardError(c, errors.HTTPStatus(err), errors.UserMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) renderDashboardError(c *gin.Context, status int, message string) {
	view := s.newDashboardView(nil, "", "")
	view.Error = message
	s.renderTemplate(c, status, fragments.Index, view)
}

// handleReset returns the session to the awaiting-upload state
func (s *Server) handleReset(c *gin.Context) {
	s.analysis.Reset(middleware.SessionID(c))
	c.Redirect(http.StatusSeeOther, "/")
}

// handleMunicipality renders the records of one municipality
func (s *Server) handleMunicipality(c *gin.Context) {
	ds, ok := s.analysis.Current(middleware.SessionID(c))
	if !ok {
		s.renderTemplate(c, http.StatusNotFound, fragments.Municipality, municipalityView{})
		return
	}
	name := c.Query("nome")
	s.renderTemplate(c, http.StatusOK, fragments.Municipality, municipalityView{
		Loaded:  true,
		Name:    name,
		Records: ds.RecordsFor(name),
	})
}

// handleChart renders one bar chart as SVG
func (s *Server) handleChart(c *gin.Context) {
	kind, err := charts.ParseKind(c.Param("kind"))
	if err != nil {
		c.String(http.StatusNotFound, "Gráfico desconhecido.")
		return
	}
	ds, ok := s.requireDataset(c)
	if !ok {
		return
	}

	series, err := charts.BuildSeries(ds.Summaries, kind)
	if err != nil {
		s.internalError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := charts.Render(&buf, series, charts.FormatSVG); err != nil {
		s.internalError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, charts.ContentType(charts.FormatSVG), buf.Bytes())
}

// handleExport downloads the summary workbook
func (s *Server) handleExport(c *gin.Context) {
	ds, ok := s.requireDataset(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, ds.Summaries, ds.Records); err != nil {
		s.internalError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="resumo_producao.xlsx"`)
	c.Data(http.StatusOK, export.XLSXContentType, buf.Bytes())
}

// handleReport renders the analysis report as a standalone HTML page
func (s *Server) handleReport(c *gin.Context) {
	in, ok := s.reportInput(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", export.HTML(in))
}

// handleReportMarkdown downloads the analysis report as markdown
func (s *Server) handleReportMarkdown(c *gin.Context) {
	in, ok := s.reportInput(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="relatorio_producao.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", export.Markdown(in))
}

func (s *Server) reportInput(c *gin.Context) (export.ReportInput, bool) {
	ds, ok := s.requireDataset(c)
	if !ok {
		return export.ReportInput{}, false
	}
	in := export.ReportInput{
		Filename:  ds.Filename,
		LoadedAt:  ds.LoadedAt,
		Summaries: ds.Summaries,
		Load:      ds.Report,
	}
	if err := export.RenderCharts(c.Request.Context(), &in); err != nil {
		s.internalError(c, err)
		return export.ReportInput{}, false
	}
	return in, true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) requireDataset(c *gin.Context) (*app.Dataset, bool) {
	ds, ok := s.analysis.Current(middleware.SessionID(c))
	if !ok {
		c.String(errors.HTTPStatus(core.ErrNoDataset), errors.UserMessage(core.ErrNoDataset))
		return nil, false
	}
	return ds, true
}

func (s *Server) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	s.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.String(http.StatusInternalServerError, errors.UserMessage(err))
}
