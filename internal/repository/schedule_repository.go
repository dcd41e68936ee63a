package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/showtime-assistant/internal/model"
)

// ScheduleRepo reads programming weeks. It never writes: schedule rows are
// owned by the ingestion jobs.
type ScheduleRepo struct {
	db    *sql.DB
	today func() time.Time
}

// NewScheduleRepo constructs a ScheduleRepo. today must return midnight of
// the current civil day in the cinema zone; its location is also used to
// read DATE columns.
func NewScheduleRepo(db *sql.DB, today func() time.Time) *ScheduleRepo {
	return &ScheduleRepo{db: db, today: today}
}

// Find builds and runs the schedule query for f. Whole-week results carry
// every day column; per-day results carry only the requested slot, in
// request order.
func (r *ScheduleRepo) Find(ctx context.Context, f ScheduleFilter) ([]model.ScheduleWeek, error) {
	today := r.today()
	q, err := BuildScheduleQuery(f, today)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loc := today.Location()
	var out []model.ScheduleWeek
	for rows.Next() {
		var (
			w            model.ScheduleWeek
			status       string
			start, end   string
			branch, slot int
			dayText      sql.NullString
			week         [model.DaySlots]sql.NullString
		)
		dest := []any{&w.ID, &w.MovieID, &w.MovieName, &w.ReleaseDate, &w.CinemaID, &status, &start, &end}
		if q.Shape == ShapeDays {
			dest = append(dest, &branch, &slot, &dayText)
		} else {
			for i := range week {
				dest = append(dest, &week[i])
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		w.Status = model.Status(status)
		if w.WeekStart, err = parseDate(start, loc); err != nil {
			return nil, err
		}
		if w.WeekEnd, err = parseDate(end, loc); err != nil {
			return nil, err
		}
		if q.Shape == ShapeDays {
			if slot < 0 || slot >= model.DaySlots {
				return nil, fmt.Errorf("schedule row %d: slot %d out of range", w.ID, slot)
			}
			w.Days[slot] = dayText.String
		} else {
			for i, d := range week {
				w.Days[i] = d.String
			}
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseDate reads a DATE column. Drivers hand it back either as
// "YYYY-MM-DD" or as a full timestamp; only the civil part is kept.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if len(s) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.ParseInLocation(dateLayout, s[:len(dateLayout)], loc)
}
