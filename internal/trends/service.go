package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/cache"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/database"
	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/errors"
)

// Period names a trailing aggregation window
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	AllTime Period = "all_time"
)

// Periods lists the supported windows in the order they are warmed
var Periods = []Period{Daily, Weekly, Monthly, AllTime}

// ParsePeriod accepts a period name; empty means all_time
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return AllTime, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", errors.NewValidationError(fmt.Sprintf("unknown period %q", s), "expected one of daily, weekly, monthly, all_time")
}

// Start returns the beginning of the window ending at now. all_time starts at the zero time.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case Daily:
		return now.Add(-24 * time.Hour)
	case Weekly:
		return now.AddDate(0, 0, -7)
	case Monthly:
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// StatsSource aggregates stored assessments
type StatsSource interface {
	StatsSince(ctx context.Context, since time.Time) (*database.AssessmentStats, error)
}

// Response is the aggregate for one period
type Response struct {
	Period      Period     `json:"period"`
	PeriodStart *time.Time `json:"periodStart,omitempty"`
	PeriodEnd   time.Time  `json:"periodEnd"`
	*database.AssessmentStats
}

// Service serves cached per-period assessment aggregates
type Service struct {
	source StatsSource
	cache  *cache.Cache
	now    func() time.Time
}

// NewService caches aggregates for ttl
func NewService(source StatsSource, ttl time.Duration) *Service {
	return &Service{
		source: source,
		cache:  cache.NewCache(ttl, nil),
		now:    time.Now,
	}
}

func cacheKey(p Period) string {
	return "trends:" + string(p)
}

// GetStats returns the aggregate for period, computing it on a cache miss
func (s *Service) GetStats(ctx context.Context, period Period) (*Response, error) {
	key := cacheKey(period)
	if data, ok := s.cache.Get(key); ok {
		var resp Response
		err := json.Unmarshal(data, &resp)
		if err == nil {
			return &resp, nil
		}
		slog.Error("Failed to unmarshal cached trends", "error", err, "key", key)
	}

	resp, err := s.compute(ctx, period)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err != nil {
		slog.Error("Failed to marshal trends for cache", "error", err, "period", period)
	} else {
		s.cache.Set(key, data)
	}
	return resp, nil
}

func (s *Service) compute(ctx context.Context, period Period) (*Response, error) {
	now := s.now().UTC()
	start := period.Start(now)

	stats, err := s.source.StatsSince(ctx, start)
	if err != nil {
		return nil, errors.WrapError(err, "aggregate %s", period)
	}

	resp := &Response{Period: period, PeriodEnd: now, AssessmentStats: stats}
	if !start.IsZero() {
		resp.PeriodStart = &start
	}
	return resp, nil
}

// Invalidate drops every cached aggregate
func (s *Service) Invalidate() {
	s.cache.Clear()
}

// WarmCache recomputes every period
func (s *Service) WarmCache(ctx context.Context) {
	s.Invalidate()
	for _, p := range Periods {
		if _, err := s.GetStats(ctx, p); err != nil {
			slog.Error("Failed to warm trends cache", "error", err, "period", p)
		}
	}
	slog.Debug("Trends cache warmed")
}

// StartAutoRefresh rewarms the cache every interval until ctx is done
func (s *Service) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.WarmCache(ctx)
		}
	}
}

// Stats reports cache occupancy
func (s *Service) Stats() map[string]interface{} {
	return s.cache.Stats()
}

// Close stops the cache janitor
func (s *Service) Close() {
	s.cache.Close()
}
