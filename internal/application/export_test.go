package application

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
	"github.com/jobtrackio/jobtrack-api/internal/domain/repository"
)

func TestExportJobsWorkbook(t *testing.T) {
	ctx := context.Background()
	svc := newJobSvc(newFakeJobRepo())

	saved := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	minSal := int64(120000)
	maxSal := int64(150000)
	_, err := svc.CreateJob(ctx, 1, CreateJobInput{
		Position:   "Staff Engineer",
		Company:    "Acme",
		Location:   "Remote",
		MinSalary:  &minSal,
		MaxSalary:  &maxSal,
		Status:     entity.StatusInterviewing,
		DateSaved:  &saved,
		Excitement: intPtr(4),
		Keywords:   []string{"Go", "Postgres"},
		Link:       "https://example.com/job",
		Notes:      "second round scheduled",
	})
	require.NoError(t, err)

	b, err := svc.ExportJobs(ctx, repository.JobFilter{UserID: 1})
	require.NoError(t, err)
	require.NotEmpty(t, b)

	wb, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one data row")

	header := rows[0]
	assert.Equal(t, "No", header[0])
	assert.Equal(t, "Position", header[1])
	assert.Equal(t, "Status", header[5])
	assert.Equal(t, "Notes", header[13])

	row := rows[1]
	assert.Equal(t, "1", row[0])
	assert.Equal(t, "Staff Engineer", row[1])
	assert.Equal(t, "Acme", row[2])
	assert.Equal(t, "Remote", row[3])
	assert.Equal(t, "$120,000 - $150,000", row[4])
	assert.Equal(t, entity.StatusInterviewing, row[5])
	assert.Equal(t, "03/15/2026", row[6])
	assert.Equal(t, "-", row[7], "unset dates render as a dash")
	assert.Equal(t, "★★★★☆", row[10])
	assert.Equal(t, "Go, Postgres", row[11])
	assert.Equal(t, "second round scheduled", row[13])
}

func TestExportJobsEmpty(t *testing.T) {
	svc := newJobSvc(newFakeJobRepo())

	b, err := svc.ExportJobs(context.Background(), repository.JobFilter{UserID: 1})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "job-applications-2026-08-29.xlsx", ExportFilename(at))
}

func TestSalaryRange(t *testing.T) {
	min := int64(50000)
	max := int64(1234567)
	assert.Equal(t, "-", salaryRange(nil, nil))
	assert.Equal(t, "$50,000 - ?", salaryRange(&min, nil))
	assert.Equal(t, "? - $1,234,567", salaryRange(nil, &max))
	assert.Equal(t, "$50,000 - $1,234,567", salaryRange(&min, &max))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0", formatUSD(0))
	assert.Equal(t, "$999", formatUSD(999))
	assert.Equal(t, "$1,000", formatUSD(1000))
	assert.Equal(t, "$25,000,000", formatUSD(25000000))
	assert.Equal(t, "-$1,500", formatUSD(-1500))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "☆☆☆☆☆", stars(0))
	assert.Equal(t, "★★★★★", stars(5))
	assert.Equal(t, "★★★★★", stars(9))
}
