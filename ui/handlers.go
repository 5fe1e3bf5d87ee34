package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"gonum.org/v1/plot"

	"scrub/app"
	"scrub/domain/core"
	"scrub/domain/table"
	"scrub/internal/cleaning"
	"scrub/internal/errors"
	"scrub/internal/render"
	"scrub/internal/testkit"
	"scrub/internal/viz"
	"scrub/ports"
)

const demoRows = 150

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "index.html", map[string]interface{}{
		"Sessions":    a.sessions.List(),
		"MaxUploadMB": a.cfg.Storage.MaxUploadMB,
	})
}

func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := a.cfg.Storage.MaxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("dataset")
	if err != nil {
		a.writeError(w, errors.InvalidInput("no file uploaded, expected multipart field 'dataset'"))
		return
	}
	defer file.Close()

	if header.Size > maxBytes {
		a.writeError(w, errors.InvalidInput(fmt.Sprintf(
			"file size %.1f MB exceeds the %d MB limit",
			float64(header.Size)/(1024*1024), a.cfg.Storage.MaxUploadMB)))
		return
	}

	format, err := fileFormat(header.Filename)
	if err != nil {
		a.writeError(w, err)
		return
	}

	if err := a.parseSem.Acquire(r.Context(), 1); err != nil {
		a.writeError(w, errors.UploadFailed(err))
		return
	}
	tbl, err := a.reader.Read(file, format)
	a.parseSem.Release(1)
	if err != nil {
		a.writeError(w, errors.UploadFailed(err))
		return
	}

	sess, err := a.sessions.Create(header.Filename, tbl)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.log.Info("uploaded %s as session %s (%d rows)", header.Filename, sess.ID, tbl.RowCount())
	http.Redirect(w, r, "/sessions/"+sess.ID.String(), http.StatusSeeOther)
}

func (a *App) handleDemo(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessions.Create("demo dataset", testkit.DemoTable(demoRows, 42))
	if err != nil {
		a.writeError(w, err)
		return
	}
	http.Redirect(w, r, "/sessions/"+sess.ID.String(), http.StatusSeeOther)
}

func (a *App) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := a.session(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.renderTemplate(w, "session.html", a.sessionView(sess))
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, err := a.session(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.renderTemplate(w, "report.html", map[string]interface{}{
		"Session":     sess,
		"Report":      render.ToHTML(render.ReportMarkdown(sess.Report)),
		"Numeric":     sess.Table.NumericColumns(),
		"Categorical": sess.Table.CategoricalColumns(),
		"HasHeatmap":  sess.Report.CorrelationMatrix.OK(),
	})
}

func (a *App) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	sess, err := a.session(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.renderTemplate(w, "suggestions.html", map[string]interface{}{
		"Session":     sess,
		"Suggestions": render.ToHTML(render.SuggestionsMarkdown(sess.Suggestions)),
	})
}

func (a *App) handleClean(w http.ResponseWriter, r *http.Request) {
	sess, err := a.session(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		a.writeError(w, errors.InvalidInput("malformed form data"))
		return
	}

	req := ports.CleaningRequest{
		Op:        ports.CleaningOp(r.FormValue("op")),
		Column:    r.FormValue("column"),
		Strategy:  r.FormValue("strategy"),
		Method:    r.FormValue("method"),
		FillValue: r.FormValue("fill_value"),
		KeepLast:  r.FormValue("keep") == "last",
	}
	if cols := strings.TrimSpace(r.FormValue("columns")); cols != "" {
		for _, c := range strings.Split(cols, ",") {
			req.Columns = append(req.Columns, strings.TrimSpace(c))
		}
	}

	updated, err := a.sessions.Apply(sess.ID, req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.log.Info("session %s: applied %s (%d rows remain)", updated.ID, req.Op, updated.Table.RowCount())
	http.Redirect(w, r, "/sessions/"+updated.ID.String(), http.StatusSeeOther)
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := a.session(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	format := ports.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = ports.FormatCSV
	}
	if format != ports.FormatCSV && format != ports.FormatExcel {
		a.writeError(w, errors.InvalidInput("export format must be 'csv' or 'xlsx'"))
		return
	}
	name := exportName(sess.Name, format)

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if format == ports.FormatExcel {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	} else {
		w.Header().Set("Content-Type", "text/csv")
	}

	if err := a.writer.Write(w, sess.Table, format); err != nil {
		a.log.Error("export session %s: %v", sess.ID, err)
	}
}

// handleHeatmapPlot serves the correlation heatmap as PNG.
func (a *App) handleHeatmapPlot(w http.ResponseWriter, r *http.Request) {
	sess, err := a.session(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	cm, err := sess.Report.CorrelationMatrix.Value()
	if err != nil {
		a.writeError(w, err)
		return
	}
	p, err := viz.CorrelationHeatmap(cm)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.servePlot(w, p, sess.ID)
}

// handleColumnPlot serves a per-column diagnostic as PNG. kind is one
// of hist, box, counts.
func (a *App) handleColumnPlot(w http.ResponseWriter, r *http.Request) {
	sess, err := a.session(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	name := chi.URLParam(r, "column")
	c, ok := sess.Table.Column(name)
	if !ok {
		a.writeError(w, core.NewColumnNotFoundError(name))
		return
	}

	var p *plot.Plot
	switch chi.URLParam(r, "kind") {
	case "hist":
		p, err = viz.Histogram(c, viz.DefaultBins)
	case "box":
		p, err = viz.BoxPlot(c)
	case "counts":
		p, err = viz.CountPlot(c, viz.DefaultMaxCategories)
	default:
		err = errors.NotFound("plot kind")
	}
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.servePlot(w, p, sess.ID)
}

func (a *App) servePlot(w http.ResponseWriter, p *plot.Plot, id core.SessionID) {
	w.Header().Set("Content-Type", "image/png")
	if err := viz.WritePNG(p, w); err != nil {
		a.log.Error("plot for session %s: %v", id, err)
	}
}

// handleSave writes the cleaned dataset into the configured output
// directory on the server.
func (a *App) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, err := a.session(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	if err := os.MkdirAll(a.cfg.Storage.OutputDir, 0o755); err != nil {
		a.writeError(w, errors.ExportFailed(err))
		return
	}
	path := filepath.Join(a.cfg.Storage.OutputDir, exportName(filepath.Base(sess.Name), ports.FormatCSV))
	if err := a.writer.SaveFile(path, sess.Table); err != nil {
		a.writeError(w, errors.ExportFailed(err))
		return
	}

	plotsDir := strings.TrimSuffix(path, ".csv") + "_plots"
	if err := os.MkdirAll(plotsDir, 0o755); err != nil {
		a.writeError(w, errors.ExportFailed(err))
		return
	}
	plots, err := viz.SaveAll(sess.Table, sess.Report, plotsDir)
	if err != nil {
		a.writeError(w, errors.ExportFailed(err))
		return
	}

	a.log.Info("session %s saved to %s (%d plots)", sess.ID, path, len(plots))
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "saved %s and %d plots under %s\n", path, len(plots), plotsDir)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

func (a *App) session(r *http.Request) (*app.Session, error) {
	id := core.SessionID(chi.URLParam(r, "id"))
	return a.sessions.Get(id)
}

// sessionView assembles the template payload for the session page.
func (a *App) sessionView(sess *app.Session) map[string]interface{} {
	grouped := render.GroupBySeverity(sess.Suggestions)
	return map[string]interface{}{
		"Session":     sess,
		"Columns":     sess.Table.ColumnNames(),
		"Rows":        sess.Table.RowCount(),
		"Preview":     previewRows(sess.Table, 10),
		"Report":      render.ToHTML(render.ReportMarkdown(sess.Report)),
		"Suggestions": render.ToHTML(render.SuggestionsMarkdown(sess.Suggestions)),
		"HighCount":   len(grouped[render.SeverityHigh]),
		"Operations":  operationChoices(),
	}
}

// previewRows renders the first n rows as display strings, missing
// cells as empty.
func previewRows(t *table.Table, n int) [][]string {
	if t.RowCount() < n {
		n = t.RowCount()
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, t.ColumnCount())
		for j := 0; j < t.ColumnCount(); j++ {
			row[j] = t.ColumnAt(j).CellString(i)
		}
		rows = append(rows, row)
	}
	return rows
}

type operationChoice struct {
	Op      ports.CleaningOp
	Label   string
	Choices []string
}

func operationChoices() []operationChoice {
	return []operationChoice{
		{ports.OpHandleMissing, "Handle missing values", []string{
			cleaning.StrategyMean, cleaning.StrategyMedian, cleaning.StrategyMode,
			cleaning.StrategyConstant, cleaning.StrategyDrop}},
		{ports.OpRemoveDuplicates, "Remove duplicate rows", nil},
		{ports.OpRemoveOutliers, "Remove outliers", []string{
			cleaning.MethodIQR, cleaning.MethodZScore}},
		{ports.OpEncodeCategorical, "Encode categorical column", []string{
			cleaning.MethodLabel, cleaning.MethodOneHot}},
		{ports.OpScaleFeatures, "Scale numeric features", []string{
			cleaning.MethodStandard, cleaning.MethodMinMax, cleaning.MethodRobust}},
		{ports.OpDropConstantColumns, "Drop constant columns", nil},
	}
}

func fileFormat(filename string) (ports.Format, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return ports.FormatCSV, nil
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return ports.FormatExcel, nil
	default:
		return "", errors.InvalidInput("only CSV (.csv) and Excel (.xlsx, .xls) files are supported")
	}
}

func exportName(sessionName string, format ports.Format) string {
	base := strings.TrimSuffix(sessionName, filepath.Ext(sessionName))
	if base == "" {
		base = "dataset"
	}
	ext := ".csv"
	if format == ports.FormatExcel {
		ext = ".xlsx"
	}
	return base + "_cleaned" + ext
}

// writeError maps application errors onto HTTP status codes.
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsSessionNotFoundError(err):
		status = http.StatusNotFound
	case core.IsColumnNotFoundError(err), core.IsWrongColumnTypeError(err),
		core.IsEmptyTableError(err):
		status = http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeUploadFailed:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if stderrors.Is(err, core.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	a.log.Warn("request failed (%d): %v", status, err)
	http.Error(w, err.Error(), status)
}
