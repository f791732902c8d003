package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
	"github.com/jobtrackio/jobtrack-api/internal/domain/repository"
)

const jobColumns = `id, user_id, position, company, location, min_salary, max_salary,
	status, date_saved, deadline, date_applied, follow_up, excitement,
	job_description, keywords, link, notes, attachment_url, archived,
	created_at, updated_at`

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, j *entity.Job) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (user_id, position, company, location, min_salary, max_salary,
			status, date_saved, deadline, date_applied, follow_up, excitement,
			job_description, keywords, link, notes, archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`, j.UserID, j.Position, j.Company, j.Location, j.MinSalary, j.MaxSalary,
		j.Status, j.DateSaved, j.Deadline, j.DateApplied, j.FollowUp, j.Excitement,
		j.JobDescription, j.Keywords, j.Link, j.Notes, j.Archived)

	return row.Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
}

func (r *JobRepository) GetByID(ctx context.Context, userID, id int64) (*entity.Job, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE user_id = $1 AND id = $2
	`, userID, id)

	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return j, nil
}

func (r *JobRepository) Update(ctx context.Context, j *entity.Job) error {
	j.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE jobs
		SET position = $1, company = $2, location = $3, min_salary = $4, max_salary = $5,
			status = $6, date_saved = $7, deadline = $8, date_applied = $9, follow_up = $10,
			excitement = $11, job_description = $12, keywords = $13, link = $14, notes = $15,
			attachment_url = $16, archived = $17, updated_at = $18
		WHERE user_id = $19 AND id = $20
	`, j.Position, j.Company, j.Location, j.MinSalary, j.MaxSalary,
		j.Status, j.DateSaved, j.Deadline, j.DateApplied, j.FollowUp,
		j.Excitement, j.JobDescription, j.Keywords, j.Link, j.Notes,
		j.AttachmentURL, j.Archived, j.UpdatedAt, j.UserID, j.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// filterClause builds the WHERE clause and args shared by List, ListAll and
// the export path.
func filterClause(f repository.JobFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{f.UserID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(company ILIKE $%d OR position ILIKE $%d)", n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if !f.IncludeArchived {
		conds = append(conds, "archived = FALSE")
	}
	if f.FromDate != nil {
		args = append(args, *f.FromDate)
		conds = append(conds, fmt.Sprintf("date_saved >= $%d", len(args)))
	}
	if f.ToDate != nil {
		args = append(args, *f.ToDate)
		conds = append(conds, fmt.Sprintf("date_saved <= $%d", len(args)))
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// orderClause turns a "-column" sort key into SQL. The column name is assumed
// to be pre-whitelisted by the service layer.
func orderClause(sort string) string {
	col := sort
	dir := "ASC"
	if strings.HasPrefix(col, "-") {
		col = col[1:]
		dir = "DESC"
	}
	if col == "" {
		col, dir = "date_saved", "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", col, dir, dir)
}

func (r *JobRepository) List(ctx context.Context, f repository.JobFilter, p repository.JobPage) ([]*entity.Job, int64, error) {
	where, args := filterClause(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (p.Page - 1) * p.Size
	args = append(args, p.Size, offset)
	q := fmt.Sprintf(`SELECT %s FROM jobs %s %s LIMIT $%d OFFSET $%d`,
		jobColumns, where, orderClause(p.Sort), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepository) ListAll(ctx context.Context, f repository.JobFilter) ([]*entity.Job, error) {
	where, args := filterClause(f)
	rows, err := r.pool.Query(ctx, `
		SELECT `+jobColumns+`
		FROM jobs `+where+`
		ORDER BY date_saved DESC, id DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJobs(rows)
}

func (r *JobRepository) CountByStatus(ctx context.Context, userID int64) ([]repository.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM jobs
		WHERE user_id = $1 AND archived = FALSE
		GROUP BY status
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.StatusCount
	for rows.Next() {
		var c repository.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *JobRepository) CountArchived(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM jobs WHERE user_id = $1 AND archived = TRUE
	`, userID).Scan(&n)
	return n, err
}

func (r *JobRepository) CountByMonth(ctx context.Context, userID int64, year int) ([]repository.MonthCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(MONTH FROM date_saved)::int AS month, COUNT(*)
		FROM jobs
		WHERE user_id = $1 AND EXTRACT(YEAR FROM date_saved) = $2
		GROUP BY month
		ORDER BY month
	`, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.MonthCount
	for rows.Next() {
		var m repository.MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *JobRepository) DueFollowUps(ctx context.Context, from, to time.Time) ([]repository.FollowUpDue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT j.id, j.position, j.company, j.follow_up, u.email
		FROM jobs j
		JOIN users u ON u.id = j.user_id
		WHERE j.archived = FALSE AND j.follow_up >= $1 AND j.follow_up < $2
		ORDER BY j.follow_up
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.FollowUpDue
	for rows.Next() {
		var d repository.FollowUpDue
		if err := rows.Scan(&d.JobID, &d.Position, &d.Company, &d.FollowUp, &d.Email); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanJob(row pgx.Row) (*entity.Job, error) {
	j := &entity.Job{}
	err := row.Scan(&j.ID, &j.UserID, &j.Position, &j.Company, &j.Location,
		&j.MinSalary, &j.MaxSalary, &j.Status, &j.DateSaved, &j.Deadline,
		&j.DateApplied, &j.FollowUp, &j.Excitement, &j.JobDescription,
		&j.Keywords, &j.Link, &j.Notes, &j.AttachmentURL, &j.Archived,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if j.Keywords == nil {
		j.Keywords = []string{}
	}
	return j, nil
}

func scanJobs(rows pgx.Rows) ([]*entity.Job, error) {
	jobs := make([]*entity.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

var _ repository.JobRepository = (*JobRepository)(nil)
