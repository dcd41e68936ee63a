package temporal

import "time"

const (
	// nearMatchDays is how far a bare day-of-month may land before the
	// current-month reading is preferred.
	nearMatchDays = 14
	// dayOfMonthWindowMonths bounds how far ahead a bare day-of-month may
	// resolve.
	dayOfMonthWindowMonths = 2
)

// Resolution is the outcome of resolving an Expression. The zero value means
// "no specific day": callers query the whole programming week.
type Resolution struct {
	Weekday Label
	// Date is midnight of the resolved civil day in the resolver's zone.
	Date time.Time
}

// IsZero reports whether nothing was resolved.
func (r Resolution) IsZero() bool {
	return r.Weekday == "" && r.Date.IsZero()
}

// HasDate reports whether a calendar date was resolved.
func (r Resolution) HasDate() bool {
	return !r.Date.IsZero()
}

// Resolver resolves expressions against "today" in a fixed civil zone.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver returns a Resolver working in loc (UTC when nil).
func NewResolver(loc *time.Location, opts ...Option) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	r := &Resolver{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Location returns the resolver's zone.
func (r *Resolver) Location() *time.Location { return r.loc }

// Today returns midnight of the current civil day in the resolver's zone.
func (r *Resolver) Today() time.Time {
	n := r.now().In(r.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, r.loc)
}

// ResolveText parses and resolves raw in one step.
func (r *Resolver) ResolveText(raw string) Resolution {
	return r.Resolve(Parse(raw))
}

// Resolve maps e to a single day. Week, weekend, unrecognised and
// out-of-window expressions yield the zero Resolution.
func (r *Resolver) Resolve(e Expression) Resolution {
	today := r.Today()
	switch e.Kind {
	case KindToday:
		return r.at(today)
	case KindTomorrow:
		return r.at(today.AddDate(0, 0, 1))
	case KindWeekday:
		wd, ok := e.Weekday.Weekday()
		if !ok {
			return Resolution{}
		}
		return r.at(today.AddDate(0, 0, daysUntilNext(today.Weekday(), wd)))
	case KindFullDate:
		d, ok := r.civil(e.Year, e.Month, e.Day)
		if !ok {
			return Resolution{}
		}
		return r.at(d)
	case KindPartialDate:
		return r.resolvePartial(today, e.Month, e.Day)
	case KindDayOfMonth:
		return r.resolveDayOfMonth(today, e.Day)
	default:
		return Resolution{}
	}
}

// ResolveDays is Resolve for callers that accept several days: the weekend
// expands to its Saturday and Sunday, every other expression to at most one
// day.
func (r *Resolver) ResolveDays(e Expression) []Resolution {
	if e.Kind == KindWeekend {
		today := r.Today()
		switch today.Weekday() {
		case time.Saturday:
			return []Resolution{r.at(today), r.at(today.AddDate(0, 0, 1))}
		case time.Sunday:
			return []Resolution{r.at(today)}
		default:
			sat := today.AddDate(0, 0, daysUntilNext(today.Weekday(), time.Saturday))
			return []Resolution{r.at(sat), r.at(sat.AddDate(0, 0, 1))}
		}
	}
	res := r.Resolve(e)
	if res.IsZero() {
		return nil
	}
	return []Resolution{res}
}

// resolvePartial returns the nearest dd/mm on or after today. Feb 29 may
// skip several years.
func (r *Resolver) resolvePartial(today time.Time, month, day int) Resolution {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Resolution{}
	}
	for y := today.Year(); y <= today.Year()+4; y++ {
		if d, ok := r.civil(y, month, day); ok && !d.Before(today) {
			return r.at(d)
		}
	}
	return Resolution{}
}

func (r *Resolver) resolveDayOfMonth(today time.Time, day int) Resolution {
	cur, curOK := r.civil(today.Year(), int(today.Month()), day)

	chosen := cur
	if !curOK || cur.Before(today) {
		first := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, r.loc)
		next, ok := r.civil(first.Year(), int(first.Month()), day)
		if !ok {
			return Resolution{}
		}
		chosen = next
	}

	if daysBetween(today, chosen) > nearMatchDays && curOK && cur.After(today) {
		chosen = cur
	}
	if chosen.After(today.AddDate(0, dayOfMonthWindowMonths, 0)) {
		return Resolution{}
	}
	return r.at(chosen)
}

// civil builds a date, rejecting values time.Date would normalise
// (31/04 -> 01/05).
func (r *Resolver) civil(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, r.loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func (r *Resolver) at(d time.Time) Resolution {
	return Resolution{Weekday: LabelOf(d.Weekday()), Date: d}
}

// daysUntilNext counts days to the next target strictly after from.
func daysUntilNext(from, target time.Weekday) int {
	delta := (int(target) - int(from) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return delta
}

// daysBetween counts civil days from a to b, independent of DST.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
