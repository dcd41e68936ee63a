package model

import "time"

// Status is the programming state of a ScheduleWeek row.
type Status string

const (
    StatusNowShowing Status = "em cartaz"
    StatusComingSoon Status = "em breve"
    StatusPresale    Status = "pre venda"
    StatusInactive   Status = "inativo"
)

// Valid reports whether s is one of the four stored values.
func (s Status) Valid() bool {
    switch s {
    case StatusNowShowing, StatusComingSoon, StatusPresale, StatusInactive:
        return true
    }
    return false
}

// DaySlots is the number of day columns in a programming week.
const DaySlots = 7

// DayColumns lists the day columns of `schedule_weeks` in cine-week order
// (Thursday first).  Index i of ScheduleWeek.Days holds column DayColumns[i].
var DayColumns = [DaySlots]string{
    "thursday", "friday", "saturday", "sunday", "monday", "tuesday", "wednesday",
}

// SlotOf returns the Days index holding a weekday.
func SlotOf(d time.Weekday) int {
    return (int(d) - int(time.Thursday) + DaySlots) % DaySlots
}

// WeekdayOf is the inverse of SlotOf.
func WeekdayOf(slot int) time.Weekday {
    return time.Weekday((slot + int(time.Thursday)) % DaySlots)
}

// ScheduleWeek is one movie's programming at one cinema for one cine week
// (conventionally Thursday to the following Wednesday).  A pair
// (MovieID, CinemaID) may have several rows across weeks; readers must
// drop rows whose WeekEnd is before today.
//
// Fields:
//  ID          – primary key identifier.
//  MovieID     – programmed movie.
//  MovieName   – movies.name, joined for presentation.
//  ReleaseDate – movies.release_date, joined for coming-soon answers.
//  CinemaID    – venue.
//  Status      – em cartaz, em breve, pre venda or inativo.
//  WeekStart   – first day of the window (inclusive).
//  WeekEnd     – last day of the window (inclusive, >= WeekStart).
//  Days        – free-text showtime tokens per day, "" when nothing is
//                programmed or when the column was not selected.
type ScheduleWeek struct {
    ID          int64
    MovieID     int64
    MovieName   string
    ReleaseDate string
    CinemaID    int64
    Status      Status
    WeekStart   time.Time
    WeekEnd     time.Time
    Days        [DaySlots]string
}

// Covers reports whether day lies inside the programming window.
func (w ScheduleWeek) Covers(day time.Time) bool {
    d := civilKey(day)
    return d >= civilKey(w.WeekStart) && d <= civilKey(w.WeekEnd)
}

func civilKey(t time.Time) int {
    return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
