package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
	"github.com/jobtrackio/jobtrack-api/internal/domain/repository"
)

const exportSheet = "Job Applications"

var exportColumns = []struct {
	Header string
	Width  float64
}{
	{"No", 6},
	{"Position", 25},
	{"Company", 25},
	{"Location", 20},
	{"Salary Range", 20},
	{"Status", 15},
	{"Date Saved", 15},
	{"Date Applied", 15},
	{"Deadline", 15},
	{"Follow Up", 15},
	{"Excitement", 12},
	{"Keywords", 25},
	{"Link", 40},
	{"Notes", 35},
}

// statusColors maps a status to its cell fill and font color in the export.
var statusColors = map[string]struct{ bg, fg string }{
	entity.StatusBookmarked:   {"6B7280", "FFFFFF"},
	entity.StatusApplying:     {"F59E0B", "000000"},
	entity.StatusApplied:      {"3B82F6", "FFFFFF"},
	entity.StatusInterviewing: {"8B5CF6", "FFFFFF"},
	entity.StatusNegotiating:  {"06B6D4", "FFFFFF"},
	entity.StatusAccepted:     {"10B981", "FFFFFF"},
	entity.StatusWithdrew:     {"F97316", "FFFFFF"},
	entity.StatusNotSelected:  {"EF4444", "FFFFFF"},
	entity.StatusNoResponse:   {"9CA3AF", "000000"},
	entity.StatusArchived:     {"374151", "FFFFFF"},
}

// ExportFilename names the download for today's date, e.g.
// job-applications-2026-08-29.xlsx.
func ExportFilename(now time.Time) string {
	return "job-applications-" + now.Format("2006-01-02") + ".xlsx"
}

// ExportJobs renders every job matching the filter into a styled xlsx
// workbook and returns its bytes.
func (s *JobService) ExportJobs(ctx context.Context, f repository.JobFilter) ([]byte, error) {
	jobs, err := s.Repo.ListAll(ctx, f)
	if err != nil {
		return nil, err
	}

	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()
	if err := wb.SetSheetName(wb.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}
	wb.SetDefaultFont("Calibri")

	for i, col := range exportColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := wb.SetColWidth(exportSheet, name, name, col.Width); err != nil {
			return nil, err
		}
		cell := fmt.Sprintf("%s1", name)
		if err := wb.SetCellValue(exportSheet, cell, col.Header); err != nil {
			return nil, err
		}
	}

	border := []excelize.Border{
		{Type: "top", Style: 1, Color: "D1D5DB"},
		{Type: "left", Style: 1, Color: "D1D5DB"},
		{Type: "bottom", Style: 1, Color: "D1D5DB"},
		{Type: "right", Style: 1, Color: "D1D5DB"},
	}

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F46E5"}},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	plainStyle, err := wb.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return nil, err
	}
	stripeStyle, err := wb.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F3F4F6"}},
		Border: border,
	})
	if err != nil {
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportColumns))
	if err := wb.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}
	if err := wb.SetRowHeight(exportSheet, 1, 25); err != nil {
		return nil, err
	}

	statusStyles := make(map[string]int, len(statusColors))
	for status, c := range statusColors {
		id, sErr := wb.NewStyle(&excelize.Style{
			Font:   &excelize.Font{Color: c.fg},
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.bg}},
			Border: border,
		})
		if sErr != nil {
			return nil, sErr
		}
		statusStyles[status] = id
	}

	for i, j := range jobs {
		rowNum := i + 2
		values := []any{
			i + 1,
			j.Position,
			j.Company,
			orDash(j.Location),
			salaryRange(j.MinSalary, j.MaxSalary),
			j.Status,
			formatExportDate(&j.DateSaved),
			formatExportDate(j.DateApplied),
			formatExportDate(j.Deadline),
			formatExportDate(j.FollowUp),
			stars(j.Excitement),
			orDash(strings.Join(j.Keywords, ", ")),
			orDash(j.Link),
			orDash(j.Notes),
		}
		if err := wb.SetSheetRow(exportSheet, fmt.Sprintf("A%d", rowNum), &values); err != nil {
			return nil, err
		}

		rowStyle := plainStyle
		if i%2 == 0 {
			rowStyle = stripeStyle
		}
		if err := wb.SetCellStyle(exportSheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), rowStyle); err != nil {
			return nil, err
		}
		if id, ok := statusStyles[j.Status]; ok {
			statusCell := fmt.Sprintf("F%d", rowNum)
			if err := wb.SetCellStyle(exportSheet, statusCell, statusCell, id); err != nil {
				return nil, err
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func salaryRange(min, max *int64) string {
	if min == nil && max == nil {
		return "-"
	}
	lo, hi := "?", "?"
	if min != nil {
		lo = formatUSD(*min)
	}
	if max != nil {
		hi = formatUSD(*max)
	}
	return lo + " - " + hi
}

// formatUSD renders a whole-dollar amount with thousands separators, e.g.
// $120,000.
func formatUSD(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func stars(excitement int) string {
	if excitement < 0 {
		excitement = 0
	}
	if excitement > 5 {
		excitement = 5
	}
	return strings.Repeat("★", excitement) + strings.Repeat("☆", 5-excitement)
}

func formatExportDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("01/02/2006")
}
