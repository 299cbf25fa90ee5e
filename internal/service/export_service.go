package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
)

// ErrExportGenerateFail the workbook could not be written.
var ErrExportGenerateFail = errors.New("failed to generate excel file")

// ExportService renders reports as Excel workbooks. The buffer is written
// to the response by the handler.
type ExportService interface {
	TimeTracking(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error)
	Overtime(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error)
	Scores(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	reports ReportService
	logger  *zap.Logger
}

// NewExportService creates an ExportService on top of the report builders.
func NewExportService(reports ReportService, logger *zap.Logger) ExportService {
	return &exportService{reports: reports, logger: logger}
}

// sheet is one table: a title row, a header row, then data.
type sheet struct {
	name    string
	title   string
	headers []string
	widths  []float64
	rows    [][]interface{}
}

const timeLayout = "2006-01-02 15:04"

// ═══════════════════════════════════════════════════════════
// TimeTracking
// ═══════════════════════════════════════════════════════════

func (s *exportService) TimeTracking(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error) {
	rows, err := s.reports.TimeTracking(ctx, req)
	if err != nil {
		return nil, "", err
	}

	sh := sheet{
		name:  "Time Tracking",
		title: fmt.Sprintf("Time tracking %s to %s", req.From, req.To),
		headers: []string{"Worker", "Date", "Day start", "Day end", "Work (min)", "Idle (min)",
			"Travel (min)", "Regular (min)", "Morning OT (min)", "Evening OT (min)", "Locations"},
		widths: []float64{22, 12, 18, 18, 12, 12, 12, 14, 16, 16, 12},
	}
	for _, r := range rows {
		end := "-"
		if r.DayEnd != nil {
			end = r.DayEnd.Format(timeLayout)
		}
		sh.rows = append(sh.rows, []interface{}{
			r.Worker.FullName, r.Date, r.DayStart.Format(timeLayout), end,
			r.WorkMinutes, r.IdleMinutes, r.TravelMinutes,
			r.RegularMinutes, r.MorningOTMinutes, r.EveningOTMinutes, len(r.Path),
		})
	}
	return s.write(sh, fmt.Sprintf("time_tracking_%s_%s.xlsx", req.From, req.To))
}

// ═══════════════════════════════════════════════════════════
// Overtime
// ═══════════════════════════════════════════════════════════

func (s *exportService) Overtime(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error) {
	report, err := s.reports.Overtime(ctx, req)
	if err != nil {
		return nil, "", err
	}

	sh := sheet{
		name:    "Overtime",
		title:   fmt.Sprintf("Overtime %s to %s", report.From, report.To),
		headers: []string{"Worker", "Date", "Morning OT (min)", "Evening OT (min)", "Total OT (min)"},
		widths:  []float64{22, 12, 16, 16, 14},
	}
	for _, r := range report.Rows {
		sh.rows = append(sh.rows, []interface{}{
			r.Worker.FullName, r.Date, r.MorningOTMinutes, r.EveningOTMinutes, r.TotalOTMinutes,
		})
	}
	// totals follow the detail rows after a blank line
	if len(report.Totals) > 0 {
		sh.rows = append(sh.rows, nil)
		for _, t := range report.Totals {
			sh.rows = append(sh.rows, []interface{}{
				t.Worker.FullName, fmt.Sprintf("%d days", t.Days), t.MorningOTMinutes, t.EveningOTMinutes, t.TotalOTMinutes,
			})
		}
	}
	return s.write(sh, fmt.Sprintf("overtime_%s_%s.xlsx", report.From, report.To))
}

// ═══════════════════════════════════════════════════════════
// Scores
// ═══════════════════════════════════════════════════════════

func (s *exportService) Scores(ctx context.Context, req *dto.ReportRequest) (*bytes.Buffer, string, error) {
	report, err := s.reports.Scores(ctx, req)
	if err != nil {
		return nil, "", err
	}

	sh := sheet{
		name:    "Scores",
		title:   fmt.Sprintf("Scores %s to %s", report.From, report.To),
		headers: []string{"Worker", "Username", "Jobs scored", "Total", "Average"},
		widths:  []float64{22, 16, 12, 10, 10},
	}
	for _, w := range report.Workers {
		sh.rows = append(sh.rows, []interface{}{w.Worker.FullName, w.Worker.Username, w.Count, w.Total, w.Average})
	}
	return s.write(sh, fmt.Sprintf("scores_%s_%s.xlsx", report.From, report.To))
}

// ── workbook ──

func (s *exportService) write(sh sheet, filename string) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sh.name)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, w := range sh.widths {
		col := colName(i)
		f.SetColWidth(sh.name, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	last := colName(len(sh.headers) - 1)
	f.SetCellValue(sh.name, "A1", sh.title)
	f.MergeCell(sh.name, "A1", cell(last, 1))
	f.SetCellStyle(sh.name, "A1", "A1", headerStyle)

	for i, h := range sh.headers {
		f.SetCellValue(sh.name, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sh.name, "A2", cell(last, 2), headerStyle)

	row := 3
	for _, values := range sh.rows {
		for i, v := range values {
			f.SetCellValue(sh.name, cell(colName(i), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write excel failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, filename, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
