// Package intent turns the untrusted classifier output into closed,
// total types. Every field the classifier may send, including garbage,
// maps to a known variant; nothing downstream switches on raw strings.
package intent

import (
	"strings"

	"github.com/iliyamo/showtime-assistant/internal/model"
	"github.com/iliyamo/showtime-assistant/internal/temporal"
	"github.com/iliyamo/showtime-assistant/internal/textnorm"
)

// Kind is the classified purpose of a question.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindShowtimes
	KindDetails
	KindNowShowing
	KindComingSoon
	KindTicketPrices
	KindCinemaInfo
)

var kindNames = map[Kind]string{
	KindUnrecognized: "unrecognized",
	KindShowtimes:    "movie_showtimes",
	KindDetails:      "movie_details",
	KindNowShowing:   "now_showing",
	KindComingSoon:   "coming_soon",
	KindTicketPrices: "ticket_prices",
	KindCinemaInfo:   "cinema_info",
}

// kindAliases also accepts the Portuguese labels the model sometimes
// answers with.
var kindAliases = map[string]Kind{
	"movie_showtimes":  KindShowtimes,
	"showtimes":        KindShowtimes,
	"horarios":         KindShowtimes,
	"sessoes":          KindShowtimes,
	"programacao":      KindShowtimes,
	"movie_details":    KindDetails,
	"details":          KindDetails,
	"detalhes":         KindDetails,
	"sinopse":          KindDetails,
	"now_showing":      KindNowShowing,
	"em_cartaz":        KindNowShowing,
	"filmes_em_cartaz": KindNowShowing,
	"coming_soon":      KindComingSoon,
	"em_breve":         KindComingSoon,
	"lancamentos":      KindComingSoon,
	"ticket_prices":    KindTicketPrices,
	"prices":           KindTicketPrices,
	"precos":           KindTicketPrices,
	"ingressos":        KindTicketPrices,
	"cinema_info":      KindCinemaInfo,
	"endereco":         KindCinemaInfo,
	"info_cinema":      KindCinemaInfo,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnrecognized]
}

// ParseKind maps a classifier label to a Kind; unknown labels are
// KindUnrecognized.
func ParseKind(s string) Kind {
	key := strings.NewReplacer(" ", "_", "-", "_").Replace(textnorm.Fold(s))
	if k, ok := kindAliases[key]; ok {
		return k
	}
	return KindUnrecognized
}

// StatusState tags a StatusFilter.
type StatusState int

const (
	StatusNone StatusState = iota
	StatusKnown
	StatusUnrecognized
)

// StatusFilter is the classifier's status field.
type StatusFilter struct {
	State StatusState
	Value model.Status
	Raw   string
}

var statusAliases = map[string]model.Status{
	"em cartaz": model.StatusNowShowing,
	"cartaz":    model.StatusNowShowing,
	"em breve":  model.StatusComingSoon,
	"breve":     model.StatusComingSoon,
	"pre venda": model.StatusPresale,
	"prevenda":  model.StatusPresale,
	"inativo":   model.StatusInactive,
}

// ParseStatus reads a status field. "", "null" and "none" mean no filter.
func ParseStatus(raw string) StatusFilter {
	key := textnorm.Fold(raw)
	switch key {
	case "", "null", "none":
		return StatusFilter{State: StatusNone, Raw: raw}
	}
	key = textnorm.CollapseSpaces(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	if s, ok := statusAliases[key]; ok {
		return StatusFilter{State: StatusKnown, Value: s, Raw: raw}
	}
	return StatusFilter{State: StatusUnrecognized, Raw: raw}
}

// Effective is the status to filter by; "" means the default (everything
// except inactive), which is also what an unrecognised status gets.
func (f StatusFilter) Effective() model.Status {
	if f.State == StatusKnown {
		return f.Value
	}
	return ""
}

// Classification is one classified question.
type Classification struct {
	Kind   Kind
	Time   temporal.Expression
	Movies []string
	Status StatusFilter
}

// FromFields builds a Classification from the four raw classifier fields.
func FromFields(kind, when, movie, status string) Classification {
	return Classification{
		Kind:   ParseKind(kind),
		Time:   temporal.Parse(when),
		Movies: SplitMovies(movie),
		Status: ParseStatus(status),
	}
}

// SplitMovies splits a movie field naming several titles on ",", ";" or
// "|". Blank entries, "null" and case/accent duplicates are dropped.
func SplitMovies(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	seen := make(map[string]bool, len(parts))
	var out []string
	for _, p := range parts {
		p = textnorm.CollapseSpaces(p)
		key := textnorm.Fold(p)
		if key == "" || key == "null" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
