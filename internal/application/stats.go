package application

import (
	"context"
	"fmt"
	"time"

	"github.com/jobtrackio/jobtrack-api/internal/domain/entity"
	"github.com/jobtrackio/jobtrack-api/pkg/helpers"
)

const statsCacheTTL = time.Minute

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthStat is one month's saved-job count for the current year.
type MonthStat struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Stats summarizes a user's pipeline.
type Stats struct {
	TotalActive   int64            `json:"totalActive"`
	TotalArchived int64            `json:"totalArchived"`
	Pipeline      map[string]int64 `json:"pipeline"`
	ByStatus      map[string]int64 `json:"byStatus"`
	ByMonth       []MonthStat      `json:"byMonth"`
}

func statsCacheKey(userID int64) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

// GetStats aggregates status/month counts, with a short per-user Redis cache.
func (s *JobService) GetStats(ctx context.Context, userID int64) (*Stats, error) {
	if s.Redis != nil {
		var cached Stats
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, statsCacheKey(userID), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	counts, err := s.Repo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(entity.AllStatuses))
	for _, st := range entity.AllStatuses {
		byStatus[st] = 0
	}
	var totalActive int64
	for _, c := range counts {
		byStatus[c.Status] = c.Count
		totalActive += c.Count
	}

	pipeline := make(map[string]int64, len(entity.PipelineStatuses))
	for _, st := range entity.PipelineStatuses {
		pipeline[st] = byStatus[st]
	}

	totalArchived, err := s.Repo.CountArchived(ctx, userID)
	if err != nil {
		return nil, err
	}

	months, err := s.Repo.CountByMonth(ctx, userID, time.Now().Year())
	if err != nil {
		return nil, err
	}
	byMonth := make([]MonthStat, 12)
	for i, name := range monthNames {
		byMonth[i] = MonthStat{Month: name}
	}
	for _, m := range months {
		if m.Month >= 1 && m.Month <= 12 {
			byMonth[m.Month-1].Count = m.Count
		}
	}

	st := &Stats{
		TotalActive:   totalActive,
		TotalArchived: totalArchived,
		Pipeline:      pipeline,
		ByStatus:      byStatus,
		ByMonth:       byMonth,
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsCacheKey(userID), st, statsCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("stats cache write failed")
		}
	}
	return st, nil
}

func (s *JobService) invalidateStats(ctx context.Context, userID int64) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, statsCacheKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("stats cache invalidation failed")
	}
}
