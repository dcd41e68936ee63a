package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/showtime-assistant/internal/model"
	"github.com/iliyamo/showtime-assistant/internal/temporal"
)

// dateLayout is how DATE values are bound and scanned.
const dateLayout = "2006-01-02"

// ScheduleFilter is the resolved set of parameters for a schedule lookup.
// Zero values mean "no filter" except CinemaID, which is required.
type ScheduleFilter struct {
	CinemaID int64
	MovieIDs []int64
	// Days are the requested days. Entries without a date cannot be
	// windowed and are ignored; when none is usable the whole week is
	// returned.
	Days []temporal.Resolution
	// Status "" hides inactive rows; StatusNowShowing also admits presale.
	Status model.Status
}

// Shape tells the scanner which columns a Query selects.
type Shape int

const (
	// ShapeWeek selects all seven day columns.
	ShapeWeek Shape = iota
	// ShapeDays selects one day column per row plus its branch and slot.
	ShapeDays
)

// Query is a built statement with its positional arguments.
type Query struct {
	SQL   string
	Args  []any
	Shape Shape
	// DayFallback is set when days were requested but none had a date.
	DayFallback bool
}

// conditions accumulates WHERE fragments together with their arguments so
// placeholders and values can never drift apart.
type conditions struct {
	parts []string
	args  []any
	err   error
}

func (c *conditions) add(fragment string, args ...any) {
	if c.err != nil {
		return
	}
	if n := strings.Count(fragment, "?"); n != len(args) {
		c.err = fmt.Errorf("%w: %q has %d placeholders, %d args", ErrPlaceholderMismatch, fragment, n, len(args))
		return
	}
	c.parts = append(c.parts, fragment)
	c.args = append(c.args, args...)
}

func (c *conditions) sql() string {
	return strings.Join(c.parts, " AND ")
}

const scheduleFrom = `
		FROM schedule_weeks s
		JOIN movies m ON m.id = s.movie_id
		WHERE `

const scheduleBaseColumns = `SELECT
			s.id,
			s.movie_id,
			m.name AS movie_name,
			COALESCE(m.release_date, '') AS release_date,
			s.cinema_id,
			s.status,
			s.week_start AS week_start,
			s.week_end`

type dayTarget struct {
	slot int
	date string
}

// BuildScheduleQuery builds the statement for f. today is the civil date in
// the cinema zone; every branch excludes rows whose week ended before it.
func BuildScheduleQuery(f ScheduleFilter, today time.Time) (Query, error) {
	if f.CinemaID <= 0 {
		return Query{}, ErrMissingCinemaID
	}

	targets := dayTargets(f.Days)
	if len(targets) == 0 {
		q, err := weekQuery(f, today)
		q.DayFallback = len(f.Days) > 0
		return q, err
	}

	branches := make([]string, 0, len(targets))
	var args []any
	for i, t := range targets {
		c := baseConditions(f, today)
		col := "s." + model.DayColumns[t.slot]
		// Empty slots still match: coming-soon rows rarely carry times,
		// and the formatter hides empty slots when listing sessions.
		c.add("s.week_start <= ? AND s.week_end >= ?", t.date, t.date)
		if c.err != nil {
			return Query{}, c.err
		}
		branches = append(branches, scheduleBaseColumns+`,
			`+strconv.Itoa(i)+` AS branch,
			`+strconv.Itoa(t.slot)+` AS slot,
			`+col+` AS day_text`+scheduleFrom+c.sql())
		args = append(args, c.args...)
	}

	sql := strings.Join(branches, "\n\t\tUNION ALL\n\t\t") + `
		ORDER BY branch, week_start, movie_name`
	return Query{SQL: sql, Args: args, Shape: ShapeDays}, nil
}

func weekQuery(f ScheduleFilter, today time.Time) (Query, error) {
	c := baseConditions(f, today)
	if c.err != nil {
		return Query{}, c.err
	}
	cols := make([]string, 0, model.DaySlots)
	for _, name := range model.DayColumns {
		cols = append(cols, "s."+name)
	}
	sql := scheduleBaseColumns + `,
			` + strings.Join(cols, ", ") + scheduleFrom + c.sql() + `
		ORDER BY week_start, movie_name`
	return Query{SQL: sql, Args: c.args, Shape: ShapeWeek}, nil
}

// baseConditions holds the filters every branch shares. The cinema id is
// always the first argument.
func baseConditions(f ScheduleFilter, today time.Time) *conditions {
	c := &conditions{}
	c.add("s.cinema_id = ?", f.CinemaID)
	if len(f.MovieIDs) > 0 {
		ids := make([]any, 0, len(f.MovieIDs))
		for _, id := range f.MovieIDs {
			ids = append(ids, id)
		}
		c.add("s.movie_id IN ("+placeholders(len(ids))+")", ids...)
	}
	switch f.Status {
	case "":
		c.add("s.status <> ?", string(model.StatusInactive))
	case model.StatusNowShowing:
		c.add("s.status IN (?, ?)", string(model.StatusNowShowing), string(model.StatusPresale))
	default:
		c.add("s.status = ?", string(f.Status))
	}
	c.add("s.week_end >= ?", today.Format(dateLayout))
	return c
}

// dayTargets keeps the days that carry a date, in request order and
// without duplicates. The slot comes from the date; a label that disagrees
// with its date loses.
func dayTargets(days []temporal.Resolution) []dayTarget {
	seen := make(map[string]bool, len(days))
	out := make([]dayTarget, 0, len(days))
	for _, d := range days {
		if !d.HasDate() {
			continue
		}
		key := d.Date.Format(dateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, dayTarget{slot: model.SlotOf(d.Date.Weekday()), date: key})
	}
	return out
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
