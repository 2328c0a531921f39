package services

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"practicelog/internal/catalog"
	"practicelog/internal/models/response_models"
	"practicelog/internal/repositories"
	"practicelog/internal/store"
	"practicelog/internal/workspace"
	"practicelog/pkg/utils"
)

// ReportRowLimit caps the printable report; the CSV carries everything.
const ReportRowLimit = 50

var csvHeader = []string{"Date", "Duration", "Focus Areas", "Note", "Reflection"}

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}

type ExportServiceInterface interface {
	CSV(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*ExportFile, error)
	Report(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*ExportFile, error)
}

type ExportService struct {
	logbook   LogbookServiceInterface
	practices repositories.PracticeRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewExportService(logbook LogbookServiceInterface, practices repositories.PracticeRepository, logger *zap.Logger) ExportServiceInterface {
	return &ExportService{logbook: logbook, practices: practices, logger: logger, now: time.Now}
}

func (e *ExportService) CSV(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*ExportFile, error) {
	name, history, err := e.history(ctx, ws, prefs)
	if err != nil {
		return nil, err
	}
	body, err := RenderCSV(history)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:        fileName(name, e.now(), "csv"),
		ContentType: "text/csv; charset=utf-8",
		Body:        body,
	}, nil
}

func (e *ExportService) Report(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*ExportFile, error) {
	name, history, err := e.history(ctx, ws, prefs)
	if err != nil {
		return nil, err
	}
	body, err := RenderReport(name, history, e.now())
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:        fileName(name, e.now(), "html"),
		ContentType: "text/html; charset=utf-8",
		Body:        body,
	}, nil
}

// history reads the current athlete's full practice history, newest first.
func (e *ExportService) history(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (string, []response_models.Practice, error) {
	if !ws.Entitlement().CanExport() {
		return "", nil, utils.ErrProRequired
	}
	state, err := e.logbook.State(ctx, ws, prefs)
	if err != nil {
		return "", nil, err
	}
	athlete := state.CurrentAthlete()
	if athlete == nil {
		return "", nil, utils.ErrNoAthlete
	}
	rows, err := e.practices.ListRecent(ws.Context(ctx), athlete.ID, 0)
	if err != nil {
		return "", nil, err
	}
	out := make([]response_models.Practice, 0, len(rows))
	for _, r := range rows {
		out = append(out, response_models.PracticeFromRow(r))
	}
	e.logger.Info("export prepared", zap.String("athlete_id", athlete.ID), zap.Int("rows", len(out)))
	return athlete.Name, out, nil
}

func RenderCSV(practices []response_models.Practice) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, p := range practices {
		record := []string{
			p.Date,
			strconv.Itoa(p.Duration),
			strings.Join(p.FocusAreas, "; "),
			p.Note,
			p.Reflection,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

type reportRow struct {
	Date       string
	Duration   int
	Focus      string
	Note       string
	Reflection string
}

type reportData struct {
	Athlete        string
	Generated      string
	TotalPractices int
	TotalMinutes   int
	AverageMinutes int
	Week           response_models.WeekStats
	Rows           []reportRow
	Truncated      bool
}

// RenderReport produces a standalone page meant for the browser's print to
// PDF. Only the newest ReportRowLimit practices are listed.
func RenderReport(athlete string, practices []response_models.Practice, now time.Time) ([]byte, error) {
	data := reportData{
		Athlete:        athlete,
		Generated:      utils.FormatDisplayDate(now),
		TotalPractices: len(practices),
		Week:           WeekStats(practices, now),
		Truncated:      len(practices) > ReportRowLimit,
	}
	for i, p := range practices {
		data.TotalMinutes += p.Duration
		if i >= ReportRowLimit {
			continue
		}
		labels := make([]string, 0, len(p.FocusAreas))
		for _, a := range p.FocusAreas {
			labels = append(labels, catalog.FocusArea(a).Label())
		}
		data.Rows = append(data.Rows, reportRow{
			Date:       p.Date,
			Duration:   p.Duration,
			Focus:      strings.Join(labels, ", "),
			Note:       p.Note,
			Reflection: p.Reflection,
		})
	}
	if len(practices) > 0 {
		data.AverageMinutes = data.TotalMinutes / len(practices)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func fileName(athlete string, now time.Time, ext string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, strings.TrimSpace(athlete))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "athlete"
	}
	return fmt.Sprintf("%s-practices-%s.%s", slug, now.UTC().Format("2006-01-02"), ext)
}
