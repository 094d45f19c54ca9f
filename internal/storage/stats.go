package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	statsCacheKey = "inquiry_stats"
	statsCacheTTL = time.Hour
)

type InquiryStatistics struct {
	TotalInquiries int            `db:"total_inquiries" json:"total_inquiries"`
	TotalQuoted    int64          `db:"total_quoted" json:"total_quoted"`
	TodayInquiries int            `db:"today_inquiries" json:"today_inquiries"`
	TodayQuoted    int64          `db:"today_quoted" json:"today_quoted"`
	WeekInquiries  int            `db:"week_inquiries" json:"week_inquiries"`
	WeekQuoted     int64          `db:"week_quoted" json:"week_quoted"`
	MonthInquiries int            `db:"month_inquiries" json:"month_inquiries"`
	MonthQuoted    int64          `db:"month_quoted" json:"month_quoted"`
	StatusCounts   map[string]int `db:"-" json:"status_counts"`
}

func (s *PostgresStorage) GetInquiryStatistics(ctx context.Context) (*InquiryStatistics, error) {
	if cached, err := s.cache.Get(ctx, statsCacheKey); err == nil {
		var stats InquiryStatistics
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	stats := &InquiryStatistics{
		StatusCounts: make(map[string]int),
	}

	err := s.db.GetContext(ctx, stats, `
        SELECT
            COUNT(*) AS total_inquiries,
            COALESCE(SUM(total), 0) AS total_quoted,
            COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE) AS today_inquiries,
            COALESCE(SUM(total) FILTER (WHERE created_at >= CURRENT_DATE), 0) AS today_quoted,
            COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '7 days') AS week_inquiries,
            COALESCE(SUM(total) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '7 days'), 0) AS week_quoted,
            COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '30 days') AS month_inquiries,
            COALESCE(SUM(total) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '30 days'), 0) AS month_quoted
        FROM inquiries
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiry totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) AS count FROM inquiries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, statsCacheKey, data, statsCacheTTL); err != nil {
			s.logger.Debug("Failed to cache inquiry statistics", zap.Error(err))
		}
	}

	return stats, nil
}

// CheckRateLimit counts a hit for key and reports whether the limit within
// the window is exceeded.
func (s *PostgresStorage) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	key = "ratelimit:" + key

	count, err := s.cache.CountHit(ctx, key, window)
	if err != nil {
		return false, fmt.Errorf("failed to count rate limit hit: %w", err)
	}
	return count > limit, nil
}

func (s *PostgresStorage) invalidateStats(ctx context.Context) {
	if err := s.cache.Del(ctx, statsCacheKey); err != nil {
		s.logger.Debug("Failed to invalidate inquiry statistics", zap.Error(err))
	}
}
