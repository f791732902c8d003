package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jobtrackio/jobtrack-api/internal/application"
	"github.com/jobtrackio/jobtrack-api/internal/domain/repository"
	"github.com/jobtrackio/jobtrack-api/internal/interface/middleware"
	"github.com/jobtrackio/jobtrack-api/pkg/response"
	"github.com/jobtrackio/jobtrack-api/pkg/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type JobHandler struct {
	Svc    *application.JobService
	Logger *logrus.Logger
}

func NewJobHandler(svc *application.JobService, logger *logrus.Logger) *JobHandler {
	return &JobHandler{Svc: svc, Logger: logger}
}

type createJobRequest struct {
	Position       string     `json:"position" binding:"required"`
	Company        string     `json:"company" binding:"required"`
	Location       string     `json:"location"`
	MinSalary      *int64     `json:"minSalary"`
	MaxSalary      *int64     `json:"maxSalary"`
	Status         string     `json:"status" binding:"omitempty,jobstatus"`
	DateSaved      *time.Time `json:"dateSaved"`
	Deadline       *time.Time `json:"deadline"`
	DateApplied    *time.Time `json:"dateApplied"`
	FollowUp       *time.Time `json:"followUp"`
	Excitement     *int       `json:"excitement" binding:"omitempty,gte=1,lte=5"`
	JobDescription string     `json:"jobDescription"`
	Keywords       []string   `json:"keywords"`
	Link           string     `json:"link" binding:"omitempty,url"`
	Notes          string     `json:"notes"`
}

// Create POST /api/jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrDetails(c, http.StatusBadRequest, "Validation failed", "Invalid request body", validation.ToDetails(err))
		return
	}
	userID, _ := middleware.UserID(c)
	j, err := h.Svc.CreateJob(c.Request.Context(), userID, application.CreateJobInput{
		Position:       req.Position,
		Company:        req.Company,
		Location:       req.Location,
		MinSalary:      req.MinSalary,
		MaxSalary:      req.MaxSalary,
		Status:         req.Status,
		DateSaved:      req.DateSaved,
		Deadline:       req.Deadline,
		DateApplied:    req.DateApplied,
		FollowUp:       req.FollowUp,
		Excitement:     req.Excitement,
		JobDescription: req.JobDescription,
		Keywords:       req.Keywords,
		Link:           req.Link,
		Notes:          req.Notes,
	})
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusCreated, j)
}

// Get GET /api/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := jobID(c)
	if !ok {
		return
	}
	j, err := h.Svc.GetJob(c.Request.Context(), userID, id)
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusOK, j)
}

type updateJobRequest struct {
	Position       *string    `json:"position"`
	Company        *string    `json:"company"`
	Location       *string    `json:"location"`
	MinSalary      *int64     `json:"minSalary"`
	MaxSalary      *int64     `json:"maxSalary"`
	Status         *string    `json:"status" binding:"omitempty,jobstatus"`
	DateSaved      *time.Time `json:"dateSaved"`
	Deadline       *time.Time `json:"deadline"`
	DateApplied    *time.Time `json:"dateApplied"`
	FollowUp       *time.Time `json:"followUp"`
	Excitement     *int       `json:"excitement" binding:"omitempty,gte=1,lte=5"`
	JobDescription *string    `json:"jobDescription"`
	Keywords       *[]string  `json:"keywords"`
	Link           *string    `json:"link" binding:"omitempty,url"`
	Notes          *string    `json:"notes"`
	Archived       *bool      `json:"archived"`
}

// Update PUT /api/jobs/:id — partial update, absent fields untouched.
func (h *JobHandler) Update(c *gin.Context) {
	var req updateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrDetails(c, http.StatusBadRequest, "Validation failed", "Invalid request body", validation.ToDetails(err))
		return
	}
	userID, _ := middleware.UserID(c)
	id, ok := jobID(c)
	if !ok {
		return
	}
	j, err := h.Svc.UpdateJob(c.Request.Context(), userID, id, application.UpdateJobInput{
		Position:       req.Position,
		Company:        req.Company,
		Location:       req.Location,
		MinSalary:      req.MinSalary,
		MaxSalary:      req.MaxSalary,
		Status:         req.Status,
		DateSaved:      req.DateSaved,
		Deadline:       req.Deadline,
		DateApplied:    req.DateApplied,
		FollowUp:       req.FollowUp,
		Excitement:     req.Excitement,
		JobDescription: req.JobDescription,
		Keywords:       req.Keywords,
		Link:           req.Link,
		Notes:          req.Notes,
		Archived:       req.Archived,
	})
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusOK, j)
}

// Delete DELETE /api/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := jobID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteJob(c.Request.Context(), userID, id); err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusOK, gin.H{"message": "Job deleted"})
}

// List GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	f := filterFromQuery(c, userID)
	p := repository.JobPage{
		Page: intQuery(c, "page", 1),
		Size: intQuery(c, "size", 0),
		Sort: c.Query("sort"),
	}
	jobs, total, err := h.Svc.ListJobs(c.Request.Context(), f, p)
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	size := p.Size
	if size < 1 {
		size = application.DefaultPageSize
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	response.DataMeta(c, http.StatusOK, jobs, response.Meta{
		Page:       p.Page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Export GET /api/jobs/export — streams a styled xlsx of every matching job.
func (h *JobHandler) Export(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	f := filterFromQuery(c, userID)
	b, err := h.Svc.ExportJobs(c.Request.Context(), f)
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	filename := application.ExportFilename(time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, b)
}

// UploadAttachment POST /api/jobs/:id/attachment
func (h *JobHandler) UploadAttachment(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := jobID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Err(c, http.StatusBadRequest, "Validation failed", "A file is required")
		return
	}
	src, err := fh.Open()
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	defer func() { _ = src.Close() }()

	j, err := h.Svc.UploadAttachment(c.Request.Context(), userID, id, src, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusOK, gin.H{"attachmentUrl": j.AttachmentURL})
}

// Search GET /api/jobs/search
func (h *JobHandler) Search(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	q := c.Query("q")
	if q == "" {
		response.Err(c, http.StatusBadRequest, "Validation failed", "Query parameter q is required")
		return
	}
	hits, err := h.Svc.SearchJobs(c.Request.Context(), userID, q, intQuery(c, "size", 10))
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusOK, hits)
}

// Stats GET /api/stats
func (h *JobHandler) Stats(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	st, err := h.Svc.GetStats(c.Request.Context(), userID)
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.Data(c, http.StatusOK, st)
}

func jobID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Err(c, http.StatusNotFound, "Not found", "Job not found")
		return 0, false
	}
	return id, true
}

func filterFromQuery(c *gin.Context, userID int64) repository.JobFilter {
	f := repository.JobFilter{
		UserID:          userID,
		Search:          c.Query("search"),
		Status:          c.Query("status"),
		IncludeArchived: c.Query("archived") == "true",
	}
	if t, ok := dateQuery(c, "fromDate"); ok {
		f.FromDate = &t
	}
	if t, ok := dateQuery(c, "toDate"); ok {
		f.ToDate = &t
	}
	return f
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// dateQuery accepts either a bare date (2026-08-29) or full RFC 3339.
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	return time.Time{}, false
}
