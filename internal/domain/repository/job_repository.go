package repository

import (
	"context"
	"time"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
)

// JobFilter narrows job listings and exports. All fields are optional.
type JobFilter struct {
	UserID          int64
	Search          string // ILIKE match on company/position
	Status          string
	IncludeArchived bool
	FromDate        *time.Time // date_saved >=
	ToDate          *time.Time // date_saved <=
}

// JobPage requests one page of results. Sort is a column key, optionally
// prefixed with '-' for descending, e.g. "-dateSaved".
type JobPage struct {
	Page int
	Size int
	Sort string
}

// StatusCount is one row of a count-by-status aggregation.
type StatusCount struct {
	Status string
	Count  int64
}

// MonthCount is a count of jobs saved in one month (1..12).
type MonthCount struct {
	Month int
	Count int64
}

// FollowUpDue is a follow-up falling due, joined with the owner's email so a
// reminder can be sent without a second lookup.
type FollowUpDue struct {
	JobID    int64
	Position string
	Company  string
	FollowUp time.Time
	Email    string
}

// JobRepository defines job persistence, always scoped to an owning user.
type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	GetByID(ctx context.Context, userID, id int64) (*entity.Job, error)
	Update(ctx context.Context, j *entity.Job) error
	Delete(ctx context.Context, userID, id int64) error
	List(ctx context.Context, f JobFilter, p JobPage) ([]*entity.Job, int64, error)
	// ListAll returns every job matching the filter ordered by date_saved desc
	// (used by the Excel export).
	ListAll(ctx context.Context, f JobFilter) ([]*entity.Job, error)
	CountByStatus(ctx context.Context, userID int64) ([]StatusCount, error)
	CountArchived(ctx context.Context, userID int64) (int64, error)
	CountByMonth(ctx context.Context, userID int64, year int) ([]MonthCount, error)
	// DueFollowUps returns non-archived jobs whose follow_up falls inside
	// [from, to).
	DueFollowUps(ctx context.Context, from, to time.Time) ([]FollowUpDue, error)
}
