package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
)

const esTimeout = 3 * time.Second

// indexJob mirrors a job into Elasticsearch. Postgres stays the source of
// truth; index failures are logged and otherwise ignored.
func (s *JobService) indexJob(ctx context.Context, j *entity.Job) {
	if s.ES == nil || s.ESJobsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         j.ID,
		"user_id":    j.UserID,
		"position":   j.Position,
		"company":    j.Company,
		"location":   j.Location,
		"status":     j.Status,
		"keywords":   j.Keywords,
		"notes":      j.Notes,
		"archived":   j.Archived,
		"date_saved": j.DateSaved.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESJobsIndex, DocumentID: strconv.FormatInt(j.ID, 10), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, esTimeout)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("job_id", j.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("job_id", j.ID).Warn("es index response error")
	}
}

func (s *JobService) removeJobIndex(ctx context.Context, id int64) {
	if s.ES == nil || s.ESJobsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESJobsIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, esTimeout)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("job_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchJobs runs a full-text multi_match over the user's indexed jobs.
// Returns an empty slice when search is not configured.
func (s *JobService) SearchJobs(ctx context.Context, userID int64, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESJobsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"term": map[string]any{"user_id": userID}},
				},
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"position^2", "company^2", "keywords", "notes"},
					},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, esTimeout)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESJobsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
