package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/opsdash/internal/model"
)

func TestStatsService_UserStatsFromFunction(t *testing.T) {
	db := &mockDB{}
	db.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "get_user_stats()")
	}), mock.Anything).Return(&mockRow{scanFunc: func(dest ...any) error {
		*dest[0].(*int) = 120
		*dest[1].(*int) = 4
		*dest[2].(*int) = 37
		return nil
	}})

	got := NewStatsService(db).UserStats(context.Background())
	assert.Equal(t, model.UserStats{TotalUsers: 120, TodaySignups: 4, ActiveUsers: 37}, got)
	db.AssertNumberOfCalls(t, "QueryRow", 1)
}

func TestStatsService_UserStatsFallsBackToCounts(t *testing.T) {
	now := time.Date(2026, 5, 1, 15, 30, 0, 0, time.UTC)
	midnight := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	countRow := func(n int) *mockRow {
		return &mockRow{scanFunc: func(dest ...any) error {
			*dest[0].(*int) = n
			return nil
		}}
	}

	db := &mockDB{}
	db.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "get_user_stats()")
	}), mock.Anything).Return(errRow(errors.New("function get_user_stats() does not exist")))
	db.On("QueryRow", mock.Anything, "SELECT count(*) FROM profiles", []any(nil)).Return(countRow(50))
	db.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "created_at >=")
	}), []any{midnight}).Return(countRow(3))
	db.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "updated_at >=")
	}), []any{now.Add(-24 * time.Hour)}).Return(errRow(errors.New("column updated_at does not exist")))

	svc := NewStatsService(db)
	svc.now = func() time.Time { return now }

	assert.Equal(t, model.UserStats{TotalUsers: 50, TodaySignups: 3, ActiveUsers: 0}, svc.UserStats(context.Background()))
}

func TestStatsService_RecentUsers(t *testing.T) {
	created := time.Date(2026, 4, 30, 9, 0, 0, 0, time.UTC)
	db := &mockDB{}
	db.On("Query", mock.Anything, mock.Anything, []any{20}).Return(newMockRows(
		func(dest ...any) error {
			*dest[0].(*string) = "u1"
			*dest[1].(**string) = strPtr("ada@example.com")
			*dest[2].(*time.Time) = created
			return nil
		},
		func(dest ...any) error {
			*dest[0].(*string) = "u2"
			*dest[2].(*time.Time) = created
			return nil
		},
	), nil)

	got := NewStatsService(db).RecentUsers(context.Background())
	assert.Equal(t, []model.RecentUser{
		{ID: "u1", Email: "ada@example.com", CreatedAt: created},
		{ID: "u2", Email: "anonymous@example.com", CreatedAt: created},
	}, got)
}

func TestStatsService_WithoutStore(t *testing.T) {
	svc := NewStatsService(nil)
	assert.Equal(t, model.UserStats{}, svc.UserStats(context.Background()))
	assert.Equal(t, []model.RecentUser{}, svc.RecentUsers(context.Background()))

	db := &mockDB{}
	db.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	assert.Equal(t, []model.RecentUser{}, NewStatsService(db).RecentUsers(context.Background()))
}
