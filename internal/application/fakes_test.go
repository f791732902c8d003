package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
	"github.com/jobtrackio/jobtrack-api/internal/domain/repository"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]*entity.User{}}
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u.ID = r.seq
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = copyUser(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Email = u.Email
	stored.Name = u.Name
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, id int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	return nil
}

// fakeJobRepo is an in-memory JobRepository with enough filter/sort support
// for the listing tests.
type fakeJobRepo struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*entity.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byID: map[int64]*entity.Job{}}
}

func copyJob(j *entity.Job) *entity.Job {
	c := *j
	c.Keywords = append([]string(nil), j.Keywords...)
	return &c
}

func (r *fakeJobRepo) Create(_ context.Context, j *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	j.ID = r.seq
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	r.byID[j.ID] = copyJob(j)
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, userID, id int64) (*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.byID[id]
	if !ok || j.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return copyJob(j), nil
}

func (r *fakeJobRepo) Update(_ context.Context, j *entity.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[j.ID]
	if !ok || stored.UserID != j.UserID {
		return repository.ErrNotFound
	}
	c := copyJob(j)
	c.UpdatedAt = time.Now()
	r.byID[j.ID] = c
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.byID[id]
	if !ok || j.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeJobRepo) matching(f repository.JobFilter) []*entity.Job {
	var out []*entity.Job
	for _, j := range r.byID {
		if j.UserID != f.UserID {
			continue
		}
		if !f.IncludeArchived && j.Archived {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(j.Company), q) &&
				!strings.Contains(strings.ToLower(j.Position), q) {
				continue
			}
		}
		if f.FromDate != nil && j.DateSaved.Before(*f.FromDate) {
			continue
		}
		if f.ToDate != nil && j.DateSaved.After(*f.ToDate) {
			continue
		}
		out = append(out, copyJob(j))
	}
	return out
}

func sortJobs(jobs []*entity.Job, key string) {
	col := key
	desc := strings.HasPrefix(col, "-")
	col = strings.TrimPrefix(col, "-")
	less := func(a, b *entity.Job) bool {
		switch col {
		case "company":
			return a.Company < b.Company
		case "position":
			return a.Position < b.Position
		case "status":
			return a.Status < b.Status
		case "excitement":
			return a.Excitement < b.Excitement
		default: // date_saved and anything unhandled
			return a.DateSaved.Before(b.DateSaved)
		}
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		if desc {
			return less(jobs[k], jobs[i])
		}
		return less(jobs[i], jobs[k])
	})
}

func (r *fakeJobRepo) List(_ context.Context, f repository.JobFilter, p repository.JobPage) ([]*entity.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := r.matching(f)
	sortJobs(jobs, p.Sort)
	total := int64(len(jobs))
	start := (p.Page - 1) * p.Size
	if start >= len(jobs) {
		return []*entity.Job{}, total, nil
	}
	end := start + p.Size
	if end > len(jobs) {
		end = len(jobs)
	}
	return jobs[start:end], total, nil
}

func (r *fakeJobRepo) ListAll(_ context.Context, f repository.JobFilter) ([]*entity.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := r.matching(f)
	sortJobs(jobs, "-date_saved")
	return jobs, nil
}

func (r *fakeJobRepo) CountByStatus(_ context.Context, userID int64) ([]repository.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, j := range r.byID {
		if j.UserID == userID && !j.Archived {
			counts[j.Status]++
		}
	}
	out := make([]repository.StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, repository.StatusCount{Status: s, Count: n})
	}
	return out, nil
}

func (r *fakeJobRepo) CountArchived(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, j := range r.byID {
		if j.UserID == userID && j.Archived {
			n++
		}
	}
	return n, nil
}

func (r *fakeJobRepo) CountByMonth(_ context.Context, userID int64, year int) ([]repository.MonthCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[int]int64{}
	for _, j := range r.byID {
		if j.UserID == userID && j.DateSaved.Year() == year {
			counts[int(j.DateSaved.Month())]++
		}
	}
	out := make([]repository.MonthCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, repository.MonthCount{Month: m, Count: n})
	}
	return out, nil
}

func (r *fakeJobRepo) DueFollowUps(_ context.Context, from, to time.Time) ([]repository.FollowUpDue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.FollowUpDue
	for _, j := range r.byID {
		if j.Archived || j.FollowUp == nil {
			continue
		}
		if j.FollowUp.Before(from) || !j.FollowUp.Before(to) {
			continue
		}
		out = append(out, repository.FollowUpDue{
			JobID: j.ID, Position: j.Position, Company: j.Company, FollowUp: *j.FollowUp,
		})
	}
	return out, nil
}
