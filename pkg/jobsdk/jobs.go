package jobsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Job mirrors the server's job payload.
type Job struct {
	ID             int64      `json:"id"`
	Position       string     `json:"position"`
	Company        string     `json:"company"`
	Location       string     `json:"location,omitempty"`
	MinSalary      *int64     `json:"minSalary,omitempty"`
	MaxSalary      *int64     `json:"maxSalary,omitempty"`
	Status         string     `json:"status"`
	DateSaved      time.Time  `json:"dateSaved"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	DateApplied    *time.Time `json:"dateApplied,omitempty"`
	FollowUp       *time.Time `json:"followUp,omitempty"`
	Excitement     int        `json:"excitement"`
	JobDescription string     `json:"jobDescription,omitempty"`
	Keywords       []string   `json:"keywords"`
	Link           string     `json:"link,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	AttachmentURL  string     `json:"attachmentUrl,omitempty"`
	Archived       bool       `json:"archived"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ListOptions narrows and pages a job listing. Zero values are omitted.
type ListOptions struct {
	Page            int
	Size            int
	Search          string
	Status          string
	IncludeArchived bool
	Sort            string // e.g. "-dateSaved", "company"
}

// Meta is the pagination block returned with listings.
type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Stats is the pipeline summary from /api/stats.
type Stats struct {
	TotalActive   int64            `json:"totalActive"`
	TotalArchived int64            `json:"totalArchived"`
	Pipeline      map[string]int64 `json:"pipeline"`
	ByStatus      map[string]int64 `json:"byStatus"`
	ByMonth       []MonthStat      `json:"byMonth"`
}

// MonthStat is one month's saved-job count.
type MonthStat struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

func (o ListOptions) query() string {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Size > 0 {
		v.Set("size", strconv.Itoa(o.Size))
	}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.Status != "" {
		v.Set("status", o.Status)
	}
	if o.IncludeArchived {
		v.Set("archived", "true")
	}
	if o.Sort != "" {
		v.Set("sort", o.Sort)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ListJobs returns one page of jobs plus pagination meta.
func (s *Session) ListJobs(ctx context.Context, opts ListOptions) ([]Job, Meta, error) {
	var out struct {
		Data []Job `json:"data"`
		Meta Meta  `json:"meta"`
	}
	err := s.do(ctx, http.MethodGet, "/api/jobs"+opts.query(), nil, http.StatusOK, &out)
	if err != nil {
		return nil, Meta{}, err
	}
	return out.Data, out.Meta, nil
}

// GetJob fetches a single job by id.
func (s *Session) GetJob(ctx context.Context, id int64) (*Job, error) {
	var out struct {
		Data Job `json:"data"`
	}
	err := s.do(ctx, http.MethodGet, fmt.Sprintf("/api/jobs/%d", id), nil, http.StatusOK, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreateJob saves a new job. Fields left zero take server defaults
// (status Bookmarked, excitement 3, dateSaved now).
func (s *Session) CreateJob(ctx context.Context, job Job) (*Job, error) {
	var out struct {
		Data Job `json:"data"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/jobs", job, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateJob applies a partial update; only the fields present in the map are
// touched, so callers can flip a single field without clobbering the rest.
func (s *Session) UpdateJob(ctx context.Context, id int64, fields map[string]any) (*Job, error) {
	var out struct {
		Data Job `json:"data"`
	}
	err := s.do(ctx, http.MethodPut, fmt.Sprintf("/api/jobs/%d", id), fields, http.StatusOK, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteJob removes a job permanently.
func (s *Session) DeleteJob(ctx context.Context, id int64) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", id), nil, http.StatusOK, nil)
}

// GetStats fetches the pipeline summary.
func (s *Session) GetStats(ctx context.Context) (*Stats, error) {
	var out struct {
		Data Stats `json:"data"`
	}
	if err := s.do(ctx, http.MethodGet, "/api/stats", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// SearchJobs runs a full-text search over the user's jobs.
func (s *Session) SearchJobs(ctx context.Context, q string, size int) ([]map[string]any, error) {
	v := url.Values{"q": {q}}
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
	var out struct {
		Data []map[string]any `json:"data"`
	}
	if err := s.do(ctx, http.MethodGet, "/api/jobs/search?"+v.Encode(), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Export downloads the xlsx export into w and returns the number of bytes
// written. The same single-retry refresh applies.
func (s *Session) Export(ctx context.Context, opts ListOptions, w io.Writer) (int64, error) {
	path := "/api/jobs/export" + opts.query()

	s.mu.Lock()
	access := s.tokens.AccessToken
	s.mu.Unlock()

	resp, err := s.send(ctx, http.MethodGet, path, nil, access)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		access, err = s.refresh(ctx, access)
		if err != nil {
			return 0, err
		}
		resp, err = s.send(ctx, http.MethodGet, path, nil, access)
		if err != nil {
			return 0, err
		}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, parseAPIError(resp.StatusCode, body)
	}
	return io.Copy(w, resp.Body)
}
