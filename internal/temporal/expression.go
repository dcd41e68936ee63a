// Package temporal turns the loose time expressions produced by the intent
// classifier ("hoje", "quinta-feira", "16/01", "20") into concrete civil dates
// in the cinema chain's time zone.
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/showtime-assistant/internal/textnorm"
)

// Label is the accent-free Portuguese weekday name used across the system.
type Label string

const (
	Domingo Label = "domingo"
	Segunda Label = "segunda"
	Terca   Label = "terca"
	Quarta  Label = "quarta"
	Quinta  Label = "quinta"
	Sexta   Label = "sexta"
	Sabado  Label = "sabado"
)

// labels is indexed by time.Weekday.
var labels = [7]Label{Domingo, Segunda, Terca, Quarta, Quinta, Sexta, Sabado}

// LabelOf returns the label for a weekday.
func LabelOf(d time.Weekday) Label {
	return labels[d]
}

// Weekday maps the label back to a time.Weekday.
func (l Label) Weekday() (time.Weekday, bool) {
	for i, v := range labels {
		if v == l {
			return time.Weekday(i), true
		}
	}
	return time.Sunday, false
}

// ParseLabel accepts "quinta", "Quinta-feira", "sábado" and similar.
func ParseLabel(s string) (Label, bool) {
	s = textnorm.Fold(s)
	s = strings.TrimSuffix(s, "-feira")
	s = strings.TrimSuffix(s, " feira")
	for _, l := range labels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Kind tags an Expression.
type Kind int

const (
	KindNone Kind = iota
	KindToday
	KindTomorrow
	KindWeek
	KindWeekend
	KindWeekday
	KindFullDate
	KindPartialDate
	KindDayOfMonth
	KindUnrecognized
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindToday:
		return "today"
	case KindTomorrow:
		return "tomorrow"
	case KindWeek:
		return "week"
	case KindWeekend:
		return "weekend"
	case KindWeekday:
		return "weekday"
	case KindFullDate:
		return "full_date"
	case KindPartialDate:
		return "partial_date"
	case KindDayOfMonth:
		return "day_of_month"
	default:
		return "unrecognized"
	}
}

// Expression is a parsed time expression. Only the fields relevant to Kind
// are set.
type Expression struct {
	Kind    Kind
	Weekday Label
	Day     int
	Month   int
	Year    int
	Raw     string
}

var (
	fullDateRe    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	partialDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	dayOfMonthRe  = regexp.MustCompile(`^(\d{1,2})$`)
)

var keywords = map[string]Kind{
	"hoje":            KindToday,
	"amanha":          KindTomorrow,
	"semana":          KindWeek,
	"esta_semana":     KindWeek,
	"essa_semana":     KindWeek,
	"fim_de_semana":   KindWeekend,
	"final_de_semana": KindWeekend,
}

// Parse classifies raw. An empty input is KindNone; anything that matches
// no rule is KindUnrecognized.
func Parse(raw string) Expression {
	s := textnorm.Fold(raw)
	if s == "" || s == "null" {
		return Expression{Kind: KindNone, Raw: raw}
	}
	s = strings.TrimPrefix(s, "dia ")
	key := strings.NewReplacer(" ", "_", "-", "_").Replace(textnorm.CollapseSpaces(s))
	if k, ok := keywords[key]; ok {
		return Expression{Kind: k, Raw: raw}
	}
	if l, ok := ParseLabel(s); ok {
		return Expression{Kind: KindWeekday, Weekday: l, Raw: raw}
	}
	if m := fullDateRe.FindStringSubmatch(s); m != nil {
		return Expression{Kind: KindFullDate, Day: atoi(m[1]), Month: atoi(m[2]), Year: atoi(m[3]), Raw: raw}
	}
	if m := partialDateRe.FindStringSubmatch(s); m != nil {
		return Expression{Kind: KindPartialDate, Day: atoi(m[1]), Month: atoi(m[2]), Raw: raw}
	}
	if m := dayOfMonthRe.FindStringSubmatch(s); m != nil {
		return Expression{Kind: KindDayOfMonth, Day: atoi(m[1]), Raw: raw}
	}
	return Expression{Kind: KindUnrecognized, Raw: raw}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
