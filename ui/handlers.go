package ui

import (
	"bytes"
	"net/http"
	"strings"

	"exportlens/adapters/excel"
	"exportlens/adapters/render"
	"exportlens/app"
	"exportlens/domain/chart"
	"exportlens/domain/insight"
	"exportlens/internal/analysis"
	"exportlens/internal/errors"

	"github.com/gin-gonic/gin"
)

// chartKindView is one entry of the chart kind list
type chartKindView struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Arity string `json:"arity"`
}

func chartKindViews() []chartKindView {
	kinds := chart.AllKinds()
	views := make([]chartKindView, len(kinds))
	for i, k := range kinds {
		views[i] = chartKindView{Name: k.String(), Label: k.Label(), Arity: k.Arity().String()}
	}
	return views
}

var insightModes = []insight.Mode{
	insight.ModeDatasetSummary,
	insight.ModeFreeTextSearch,
	insight.ModeAnalysisOfData,
	insight.ModeGlobalSearch,
}

// uploadResult is the per-file outcome of an upload
type uploadResult struct {
	ID       string                   `json:"id"`
	Filename string                   `json:"filename"`
	Format   excel.Format             `json:"format,omitempty"`
	Columns  []string                 `json:"columns,omitempty"`
	Rows     [][]string               `json:"rows,omitempty"`
	RowCount int                      `json:"row_count"`
	Profile  []analysis.ColumnProfile `json:"profile,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// insightResult is the body returned by the insight endpoint
type insightResult struct {
	RequestID string       `json:"request_id"`
	Mode      insight.Mode `json:"mode"`
	Text      string       `json:"text,omitempty"`
	HTML      string       `json:"html,omitempty"`
	Error     string       `json:"error,omitempty"`
	Truncated bool         `json:"truncated,omitempty"`
}

func (s *Server) handleIndex(c *gin.Context) {
	modes := make([]string, len(insightModes))
	for i, m := range insightModes {
		modes[i] = m.String()
	}
	s.renderTemplate(c, "index.html", gin.H{
		"Title": "Dasbor Data Ekspor",
		"Kinds": chartKindViews(),
		"Modes": modes,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChartKinds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"kinds": chartKindViews()})
}

// handleUpload parses every file under "files" independently. The response
// is 200 whenever the request itself was well formed, even if some files
// failed; each entry carries either its table preview or its error.
func (s *Server) handleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		s.respondError(c, errors.InvalidInput("malformed upload: "+err.Error()))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		s.respondError(c, errors.InvalidInput("no files uploaded"))
		return
	}

	uploads := make([]excel.Upload, len(files))
	for i, fh := range files {
		uploads[i] = s.toUpload(fh)
	}
	loaded := s.reader.LoadAll(c.Request.Context(), uploads, s.options.Parallelism)

	results := make([]uploadResult, len(loaded))
	failed := 0
	for i, res := range loaded {
		results[i] = uploadResult{ID: res.ID, Filename: res.Filename, Format: res.Format}
		if res.Err != nil {
			failed++
			results[i].Error = res.Err.Error()
			continue
		}
		results[i].Columns = res.Table.ColumnNames()
		results[i].Rows = res.Table.Head(s.options.PreviewRows)
		results[i].RowCount = res.Table.RowCount()
		results[i].Profile = analysis.Profile(res.Table)
	}

	s.logger.Info("upload: %d files, %d failed", len(results), failed)
	c.JSON(http.StatusOK, gin.H{"files": results})
}

// handleChart builds one chart over the uploaded file and returns it as a
// JSON description or, with format=png, as an image
func (s *Server) handleChart(c *gin.Context) {
	t, err := s.loadFormFile(c, "file", false)
	if err != nil {
		s.respondError(c, err)
		return
	}

	kind, err := chart.ParseKind(c.PostForm("kind"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := app.BuildChart(t, chart.Request{
		Kind: kind,
		X:    strings.TrimSpace(c.PostForm("x")),
		Y:    strings.TrimSpace(c.PostForm("y")),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	switch strings.ToLower(c.DefaultPostForm("format", "json")) {
	case "png":
		var buf bytes.Buffer
		if err := render.PNG(&buf, res, render.DefaultOptions()); err != nil {
			s.respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	case "json":
		c.JSON(http.StatusOK, res)
	default:
		s.respondError(c, errors.InvalidInput("format must be json or png"))
	}
}

// handleInsight runs one insight request. The file is optional: search modes
// ignore it, and table modes answer with the no-data message without it.
func (s *Server) handleInsight(c *gin.Context) {
	mode, err := insight.ParseMode(c.PostForm("mode"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	t, err := s.loadFormFile(c, "file", true)
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := s.insights.RequestInsight(c.Request.Context(), insight.Request{
		ID:    c.GetString("request_id"),
		Mode:  mode,
		Table: t,
		Query: c.PostForm("query"),
	})

	body := insightResult{
		RequestID: resp.RequestID,
		Mode:      resp.Mode,
		Text:      resp.Text,
		Error:     resp.ErrorMessage,
		Truncated: resp.Truncated,
	}
	if resp.ErrorMessage != "" {
		c.JSON(statusFor(resp.Err), body)
		return
	}
	body.HTML = markdownToHTML(resp.Text)
	c.JSON(http.StatusOK, body)
}
