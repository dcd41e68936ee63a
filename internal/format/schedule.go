package format

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/iliyamo/showtime-assistant/internal/model"
)

var slotNames = [model.DaySlots]string{"Quinta", "Sexta", "Sábado", "Domingo", "Segunda", "Terça", "Quarta"}

var statusNames = map[model.Status]string{
	model.StatusNowShowing: "Em cartaz",
	model.StatusComingSoon: "Em breve",
	model.StatusPresale:    "Pré-venda",
	model.StatusInactive:   "Inativo",
}

// embeddedDate finds "dd/mm" or "dd/mm/yyyy" inside a slot text.
var embeddedDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)

// Schedule renders rows oldest window first (stable on ties). With
// PresentSchedule a day slot is only shown when it is non-empty and its
// date is today or later; rows left without any slot are dropped.
func (f *Formatter) Schedule(rows []model.ScheduleWeek, p Presentation) []Block {
	sorted := make([]model.ScheduleWeek, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].WeekStart.Before(sorted[j].WeekStart) })

	today := f.today()
	out := make([]Block, 0, len(sorted))
	for _, w := range sorted {
		if p == PresentComingSoon {
			out = append(out, comingSoon(w))
			continue
		}

		var days Block
		for slot, text := range w.Days {
			if text == "" {
				continue
			}
			d, ok := SlotDate(w, slot, text)
			if !ok || d.Before(today) {
				continue
			}
			days = days.add(slotNames[slot]+" ("+d.Format("02/01")+")", text)
		}
		if len(days) == 0 {
			continue
		}

		b := Block{}.
			add("Filme", w.MovieName).
			add("Status", statusName(w.Status))
		out = append(out, append(b, days...))
	}
	return out
}

func comingSoon(w model.ScheduleWeek) Block {
	return Block{}.
		add("Filme", w.MovieName).
		add("Status", statusName(w.Status)).
		add("Estreia", displayDate(w.ReleaseDate))
}

func statusName(s model.Status) string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return string(s)
}

// SlotDate returns the calendar day a slot refers to. A date written in the
// slot text wins; a missing year is taken from the row window. Otherwise the
// slot's weekday is located inside the window. ok is false when the slot
// cannot be placed inside the window.
func SlotDate(w model.ScheduleWeek, slot int, text string) (time.Time, bool) {
	loc := w.WeekStart.Location()
	if m := embeddedDate.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if d, ok := embeddedInWindow(w, day, month, m[3], loc); ok {
			return d, true
		}
	}

	if w.WeekStart.IsZero() || slot < 0 || slot >= model.DaySlots {
		return time.Time{}, false
	}
	start := time.Date(w.WeekStart.Year(), w.WeekStart.Month(), w.WeekStart.Day(), 0, 0, 0, 0, loc)
	offset := (int(model.WeekdayOf(slot)) - int(start.Weekday()) + 7) % 7
	d := start.AddDate(0, 0, offset)
	if !w.WeekEnd.IsZero() && !w.Covers(d) {
		return time.Time{}, false
	}
	return d, true
}

func embeddedInWindow(w model.ScheduleWeek, day, month int, year string, loc *time.Location) (time.Time, bool) {
	valid := func(y int) (time.Time, bool) {
		t := time.Date(y, time.Month(month), day, 0, 0, 0, 0, loc)
		return t, month >= 1 && month <= 12 && t.Day() == day && int(t.Month()) == month
	}
	if year != "" {
		y, _ := strconv.Atoi(year)
		if y < 100 {
			y += 2000
		}
		return valid(y)
	}

	years := []int{w.WeekStart.Year()}
	if w.WeekEnd.Year() != w.WeekStart.Year() {
		years = append(years, w.WeekEnd.Year())
	}
	var first time.Time
	for _, y := range years {
		t, ok := valid(y)
		if !ok {
			continue
		}
		if w.Covers(t) {
			return t, true
		}
		if first.IsZero() {
			first = t
		}
	}
	return first, !first.IsZero()
}
