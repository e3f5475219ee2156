package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/model"
)

const (
	recentUsersLimit = 20
	anonymousEmail   = "anonymous@example.com"
)

// StatsService reports user counts from the profiles store.
type StatsService struct {
	db  DB
	now func() time.Time
}

// NewStatsService creates a StatsService. db may be nil.
func NewStatsService(db DB) *StatsService {
	return &StatsService{db: db, now: time.Now}
}

// UserStats prefers the get_user_stats() function and falls back to
// counting profiles. Failures read as zero.
func (s *StatsService) UserStats(ctx context.Context) model.UserStats {
	var stats model.UserStats
	if s.db == nil {
		return stats
	}

	err := s.db.QueryRow(ctx,
		`SELECT total_users, today_signups, active_users FROM get_user_stats()`,
	).Scan(&stats.TotalUsers, &stats.TodaySignups, &stats.ActiveUsers)
	if err == nil {
		return stats
	}
	zerolog.Ctx(ctx).Debug().Err(err).Msg("get_user_stats unavailable, counting profiles")

	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats = model.UserStats{}
	stats.TotalUsers = s.count(ctx, `SELECT count(*) FROM profiles`)
	stats.TodaySignups = s.count(ctx, `SELECT count(*) FROM profiles WHERE created_at >= $1`, midnight)
	stats.ActiveUsers = s.count(ctx, `SELECT count(*) FROM profiles WHERE updated_at >= $1`, now.Add(-24*time.Hour))
	return stats
}

func (s *StatsService) count(ctx context.Context, sql string, args ...any) int {
	var n int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("profile count failed")
		return 0
	}
	return n
}

// RecentUsers returns the newest profiles. Failures read as empty.
func (s *StatsService) RecentUsers(ctx context.Context) []model.RecentUser {
	users := []model.RecentUser{}
	if s.db == nil {
		return users
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, email, created_at FROM profiles ORDER BY created_at DESC LIMIT $1`, recentUsersLimit)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("listing recent users failed")
		return users
	}
	defer rows.Close()

	for rows.Next() {
		var (
			u     model.RecentUser
			email *string
		)
		if err := rows.Scan(&u.ID, &email, &u.CreatedAt); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("scan recent user failed")
			return []model.RecentUser{}
		}
		u.Email = anonymousEmail
		if email != nil && *email != "" {
			u.Email = *email
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("listing recent users failed")
		return []model.RecentUser{}
	}
	return users
}
