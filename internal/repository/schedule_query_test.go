package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/showtime-assistant/internal/model"
	"github.com/iliyamo/showtime-assistant/internal/temporal"
)

var builderToday = day(2025, time.January, 9)

func TestBuildScheduleQuery_WholeWeek(t *testing.T) {
	q, err := BuildScheduleQuery(ScheduleFilter{CinemaID: 7}, builderToday)
	require.NoError(t, err)

	assert.Equal(t, ShapeWeek, q.Shape)
	assert.False(t, q.DayFallback)
	assert.Contains(t, q.SQL, "s.thursday, s.friday, s.saturday, s.sunday, s.monday, s.tuesday, s.wednesday")
	assert.Contains(t, q.SQL, "s.status <> ?")
	assert.Contains(t, q.SQL, "s.week_end >= ?")
	assert.NotContains(t, q.SQL, "UNION")
	assert.Equal(t, []any{int64(7), "inativo", "2025-01-09"}, q.Args)
	assert.Equal(t, strings.Count(q.SQL, "?"), len(q.Args))
}

func TestBuildScheduleQuery_Status(t *testing.T) {
	cases := []struct {
		status   model.Status
		fragment string
		args     []any
	}{
		{"", "s.status <> ?", []any{int64(1), "inativo", "2025-01-09"}},
		{model.StatusNowShowing, "s.status IN (?, ?)", []any{int64(1), "em cartaz", "pre venda", "2025-01-09"}},
		{model.StatusComingSoon, "s.status = ?", []any{int64(1), "em breve", "2025-01-09"}},
		{model.StatusPresale, "s.status = ?", []any{int64(1), "pre venda", "2025-01-09"}},
	}
	for _, tc := range cases {
		q, err := BuildScheduleQuery(ScheduleFilter{CinemaID: 1, Status: tc.status}, builderToday)
		require.NoError(t, err)
		assert.Contains(t, q.SQL, tc.fragment, string(tc.status))
		assert.Equal(t, tc.args, q.Args, string(tc.status))
	}
}

func TestBuildScheduleQuery_MovieIDs(t *testing.T) {
	q, err := BuildScheduleQuery(ScheduleFilter{CinemaID: 1, MovieIDs: []int64{4, 9}}, builderToday)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "s.movie_id IN (?, ?)")
	assert.Equal(t, []any{int64(1), int64(4), int64(9), "inativo", "2025-01-09"}, q.Args)
}

func TestBuildScheduleQuery_SingleDay(t *testing.T) {
	sat := day(2025, time.January, 11)
	q, err := BuildScheduleQuery(ScheduleFilter{
		CinemaID: 3,
		Days:     []temporal.Resolution{{Weekday: temporal.Sabado, Date: sat}},
	}, builderToday)
	require.NoError(t, err)

	assert.Equal(t, ShapeDays, q.Shape)
	assert.NotContains(t, q.SQL, "UNION")
	assert.Contains(t, q.SQL, "s.saturday AS day_text")
	assert.NotContains(t, q.SQL, "<> ''")
	assert.NotContains(t, q.SQL, "s.friday")
	assert.Equal(t, []any{int64(3), "inativo", "2025-01-09", "2025-01-11", "2025-01-11"}, q.Args)
}

func TestBuildScheduleQuery_SlotFollowsDateNotLabel(t *testing.T) {
	// 2025-01-10 is a Friday even though the label says Saturday.
	q, err := BuildScheduleQuery(ScheduleFilter{
		CinemaID: 3,
		Days:     []temporal.Resolution{{Weekday: temporal.Sabado, Date: day(2025, time.January, 10)}},
	}, builderToday)
	require.NoError(t, err)
	assert.Contains(t, q.SQL, "s.friday AS day_text")
}

func TestBuildScheduleQuery_MultiDayEveryBranchIsScoped(t *testing.T) {
	q, err := BuildScheduleQuery(ScheduleFilter{
		CinemaID: 5,
		Days: []temporal.Resolution{
			{Weekday: temporal.Sabado, Date: day(2025, time.January, 11)},
			{Weekday: temporal.Domingo, Date: day(2025, time.January, 12)},
		},
	}, builderToday)
	require.NoError(t, err)

	assert.Equal(t, ShapeDays, q.Shape)
	assert.Equal(t, 1, strings.Count(q.SQL, "UNION ALL"))
	// Two per branch: the stale-row guard and the day window.
	assert.Equal(t, 4, strings.Count(q.SQL, "s.week_end >= ?"))
	assert.Contains(t, q.SQL, "0 AS branch")
	assert.Contains(t, q.SQL, "1 AS branch")
	assert.True(t, strings.HasSuffix(q.SQL, "ORDER BY branch, week_start, movie_name"))

	require.Len(t, q.Args, 10)
	// Each branch starts with the cinema id and carries today.
	assert.Equal(t, int64(5), q.Args[0])
	assert.Equal(t, "2025-01-09", q.Args[2])
	assert.Equal(t, int64(5), q.Args[5])
	assert.Equal(t, "2025-01-09", q.Args[7])
	assert.Equal(t, "2025-01-12", q.Args[9])
	assert.Equal(t, strings.Count(q.SQL, "?"), len(q.Args))
}

func TestBuildScheduleQuery_DuplicateDaysCollapse(t *testing.T) {
	sat := day(2025, time.January, 11)
	q, err := BuildScheduleQuery(ScheduleFilter{
		CinemaID: 1,
		Days:     []temporal.Resolution{{Date: sat}, {Weekday: temporal.Sabado, Date: sat}},
	}, builderToday)
	require.NoError(t, err)
	assert.NotContains(t, q.SQL, "UNION")
}

func TestBuildScheduleQuery_LabelWithoutDateFallsBackToWeek(t *testing.T) {
	q, err := BuildScheduleQuery(ScheduleFilter{
		CinemaID: 1,
		Days:     []temporal.Resolution{{Weekday: temporal.Sexta}},
	}, builderToday)
	require.NoError(t, err)
	assert.Equal(t, ShapeWeek, q.Shape)
	assert.True(t, q.DayFallback)
}

func TestBuildScheduleQuery_RequiresCinema(t *testing.T) {
	_, err := BuildScheduleQuery(ScheduleFilter{}, builderToday)
	assert.ErrorIs(t, err, ErrMissingCinemaID)
}

func TestConditions_RejectMismatchedPlaceholders(t *testing.T) {
	c := &conditions{}
	c.add("a = ?", 1)
	assert.NoError(t, c.err)

	c.add("b = ? AND c = ?", 2)
	assert.ErrorIs(t, c.err, ErrPlaceholderMismatch)

	c.add("d = ?", 3)
	assert.Equal(t, []string{"a = ?"}, c.parts)
	assert.Equal(t, []any{1}, c.args)

	c = &conditions{}
	c.add("e IS NULL", "stray")
	assert.ErrorIs(t, c.err, ErrPlaceholderMismatch)
}
