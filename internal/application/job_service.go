package application

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
	"github.com/jobtrackio/jobtrack-api/internal/domain/repository"
	"github.com/jobtrackio/jobtrack-api/pkg/helpers"
)

const (
	// DefaultPageSize applies when a list request names no page size.
	DefaultPageSize = 20
	maxPageSize     = 100
	defaultSort     = "-dateSaved"
)

// sortColumns whitelists client sort keys against real columns.
var sortColumns = map[string]string{
	"dateSaved":   "date_saved",
	"company":     "company",
	"position":    "position",
	"status":      "status",
	"excitement":  "excitement",
	"deadline":    "deadline",
	"dateApplied": "date_applied",
	"createdAt":   "created_at",
}

// JobService owns job CRUD, listing, stats, search and attachments.
type JobService struct {
	Repo        repository.JobRepository
	Redis       *redis.Client
	Logger      *logrus.Logger
	ES          *elasticsearch.Client
	ESJobsIndex string
	GCS         *storage.Client
	GCSBucket   string
}

func NewJobService(repo repository.JobRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, gcs *storage.Client, gcsBucket string) *JobService {
	return &JobService{Repo: repo, Redis: rdb, Logger: logger, ES: es, ESJobsIndex: esIndex, GCS: gcs, GCSBucket: gcsBucket}
}

// CreateJobInput carries the fields accepted when saving a new job.
type CreateJobInput struct {
	Position       string
	Company        string
	Location       string
	MinSalary      *int64
	MaxSalary      *int64
	Status         string
	DateSaved      *time.Time
	Deadline       *time.Time
	DateApplied    *time.Time
	FollowUp       *time.Time
	Excitement     *int
	JobDescription string
	Keywords       []string
	Link           string
	Notes          string
}

// UpdateJobInput updates only the fields that are non-nil.
type UpdateJobInput struct {
	Position       *string
	Company        *string
	Location       *string
	MinSalary      *int64
	MaxSalary      *int64
	Status         *string
	DateSaved      *time.Time
	Deadline       *time.Time
	DateApplied    *time.Time
	FollowUp       *time.Time
	Excitement     *int
	JobDescription *string
	Keywords       *[]string
	Link           *string
	Notes          *string
	Archived       *bool
}

func (s *JobService) CreateJob(ctx context.Context, userID int64, in CreateJobInput) (*entity.Job, error) {
	if strings.TrimSpace(in.Position) == "" || strings.TrimSpace(in.Company) == "" {
		return nil, validationErr("position/company", "are required")
	}
	status := in.Status
	if status == "" {
		status = entity.StatusBookmarked
	}
	if !entity.ValidStatus(status) {
		return nil, validationErr("status", "must be one of: "+strings.Join(entity.AllStatuses, ", "))
	}
	excitement := 3
	if in.Excitement != nil {
		excitement = *in.Excitement
	}
	if excitement < 1 || excitement > 5 {
		return nil, validationErr("excitement", "must be between 1 and 5")
	}
	if in.Link != "" && !validURL(in.Link) {
		return nil, validationErr("link", "must be a valid URL")
	}
	dateSaved := time.Now()
	if in.DateSaved != nil {
		dateSaved = *in.DateSaved
	}
	keywords := in.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	j := &entity.Job{
		UserID:         userID,
		Position:       strings.TrimSpace(in.Position),
		Company:        strings.TrimSpace(in.Company),
		Location:       in.Location,
		MinSalary:      in.MinSalary,
		MaxSalary:      in.MaxSalary,
		Status:         status,
		DateSaved:      dateSaved,
		Deadline:       in.Deadline,
		DateApplied:    in.DateApplied,
		FollowUp:       in.FollowUp,
		Excitement:     excitement,
		JobDescription: in.JobDescription,
		Keywords:       keywords,
		Link:           in.Link,
		Notes:          in.Notes,
	}
	if err := s.Repo.Create(ctx, j); err != nil {
		return nil, err
	}
	s.indexJob(ctx, j)
	s.invalidateStats(ctx, userID)
	return j, nil
}

func (s *JobService) GetJob(ctx context.Context, userID, id int64) (*entity.Job, error) {
	j, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return j, nil
}

func (s *JobService) UpdateJob(ctx context.Context, userID, id int64, in UpdateJobInput) (*entity.Job, error) {
	if in.Status != nil && !entity.ValidStatus(*in.Status) {
		return nil, validationErr("status", "must be one of: "+strings.Join(entity.AllStatuses, ", "))
	}
	if in.Excitement != nil && (*in.Excitement < 1 || *in.Excitement > 5) {
		return nil, validationErr("excitement", "must be between 1 and 5")
	}
	if in.Link != nil && *in.Link != "" && !validURL(*in.Link) {
		return nil, validationErr("link", "must be a valid URL")
	}

	j, err := s.GetJob(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Position != nil && *in.Position != "" {
		j.Position = *in.Position
	}
	if in.Company != nil && *in.Company != "" {
		j.Company = *in.Company
	}
	if in.Location != nil {
		j.Location = *in.Location
	}
	if in.MinSalary != nil {
		j.MinSalary = in.MinSalary
	}
	if in.MaxSalary != nil {
		j.MaxSalary = in.MaxSalary
	}
	if in.Status != nil {
		j.Status = *in.Status
	}
	if in.DateSaved != nil {
		j.DateSaved = *in.DateSaved
	}
	if in.Deadline != nil {
		j.Deadline = in.Deadline
	}
	if in.DateApplied != nil {
		j.DateApplied = in.DateApplied
	}
	if in.FollowUp != nil {
		j.FollowUp = in.FollowUp
	}
	if in.Excitement != nil {
		j.Excitement = *in.Excitement
	}
	if in.JobDescription != nil {
		j.JobDescription = *in.JobDescription
	}
	if in.Keywords != nil {
		j.Keywords = *in.Keywords
	}
	if in.Link != nil {
		j.Link = *in.Link
	}
	if in.Notes != nil {
		j.Notes = *in.Notes
	}
	if in.Archived != nil {
		j.Archived = *in.Archived
	}

	if err := s.Repo.Update(ctx, j); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	s.indexJob(ctx, j)
	s.invalidateStats(ctx, userID)
	return j, nil
}

func (s *JobService) DeleteJob(ctx context.Context, userID, id int64) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrJobNotFound
		}
		return err
	}
	s.removeJobIndex(ctx, id)
	s.invalidateStats(ctx, userID)
	return nil
}

// ListJobs returns one page of jobs plus the total match count.
func (s *JobService) ListJobs(ctx context.Context, f repository.JobFilter, p repository.JobPage) ([]*entity.Job, int64, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	col, desc, ok := parseSort(p.Sort)
	if !ok {
		col, desc, _ = parseSort(defaultSort)
	}
	p.Sort = col
	if desc {
		p.Sort = "-" + col
	}
	return s.Repo.List(ctx, f, p)
}

// parseSort splits a "-dateSaved"-style sort key into a column and direction.
func parseSort(sort string) (column string, desc bool, ok bool) {
	key := sort
	if strings.HasPrefix(key, "-") {
		desc = true
		key = key[1:]
	}
	col, found := sortColumns[key]
	return col, desc, found
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// UploadAttachment stores a resume/cover-letter file for a job in GCS and
// saves its public URL on the job record.
func (s *JobService) UploadAttachment(ctx context.Context, userID, id int64, r io.Reader, filename, contentType string) (*entity.Job, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, errors.New("storage not configured")
	}
	j, err := s.GetJob(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("attachments", strconv.FormatInt(userID, 10), uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	j.AttachmentURL = url
	if err := s.Repo.Update(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}
