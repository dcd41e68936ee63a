// Package matcher resolves approximate movie (or cinema) names against a
// snapshot of canonical names. It never guesses: an ambiguous query yields
// no match.
package matcher

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/iliyamo/showtime-assistant/internal/textnorm"
)

const (
	// ConfidentThreshold accepts the best candidate outright.
	ConfidentThreshold = 0.75
	// PlausibleThreshold is the floor for the margin rule.
	PlausibleThreshold = 0.5
	// MinMargin is how far the top plausible candidate must lead the second.
	MinMargin = 0.1
	// MinPrefixLen is the shortest query the prefix rule considers.
	MinPrefixLen = 3

	// epsilon absorbs float noise so that 0.6-0.5 and 0.65-0.55 both count
	// as "within 0.1".
	epsilon = 1e-9
)

// Candidate is one entry of the name snapshot.
type Candidate struct {
	ID   int64
	Name string
}

// Match is an accepted candidate and its rating.
type Match struct {
	ID         int64
	Name       string
	Confidence float64
}

// Rater scores two normalised strings in [0, 1].
type Rater func(a, b string) float64

// DiceRating is the Sørensen–Dice coefficient over character bigrams of the
// whitespace-free strings.
func DiceRating(a, b string) float64 {
	a = strings.ReplaceAll(a, " ", "")
	b = strings.ReplaceAll(b, " ", "")
	if a == b {
		return 1
	}
	if utf8.RuneCountInString(a) < 2 || utf8.RuneCountInString(b) < 2 {
		return 0
	}
	return strutil.Similarity(a, b, metrics.NewSorensenDice())
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// Normalize trims, lower-cases, strips accents, turns "&" into "e", drops
// punctuation and collapses whitespace.
func Normalize(s string) string {
	s = textnorm.Fold(s)
	s = strings.ReplaceAll(s, "&", " e ")
	s = nonWord.ReplaceAllString(s, " ")
	return textnorm.CollapseSpaces(s)
}

// Matcher applies the decision rules. The zero value is not usable; call New.
type Matcher struct {
	rate Rater
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithRater swaps the similarity function.
func WithRater(r Rater) Option {
	return func(m *Matcher) { m.rate = r }
}

// New returns a Matcher using DiceRating unless overridden.
func New(opts ...Option) *Matcher {
	m := &Matcher{rate: DiceRating}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type scored struct {
	Match
	norm string
}

// Match returns at most one match for raw. Rules, first satisfied wins:
//  1. best rating >= ConfidentThreshold;
//  2. query of MinPrefixLen+ runes that prefixes exactly one name;
//  3. exactly one candidate >= PlausibleThreshold, or the top one leads the
//     second by more than MinMargin.
func (m *Matcher) Match(raw string, candidates []Candidate) []Match {
	q := Normalize(raw)
	if q == "" || len(candidates) == 0 {
		return nil
	}

	seen := make(map[int64]bool, len(candidates))
	all := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		n := Normalize(c.Name)
		if n == "" {
			continue
		}
		seen[c.ID] = true
		all = append(all, scored{
			Match: Match{ID: c.ID, Name: c.Name, Confidence: m.rate(q, n)},
			norm:  n,
		})
	}
	if len(all) == 0 {
		return nil
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Confidence > all[j].Confidence })

	if all[0].Confidence >= ConfidentThreshold-epsilon {
		return []Match{all[0].Match}
	}

	if utf8.RuneCountInString(q) >= MinPrefixLen {
		var hit *scored
		hits := 0
		for i := range all {
			if strings.HasPrefix(all[i].norm, q) {
				hits++
				hit = &all[i]
			}
		}
		if hits == 1 {
			return []Match{hit.Match}
		}
	}

	var plausible []scored
	for _, s := range all {
		if s.Confidence >= PlausibleThreshold-epsilon {
			plausible = append(plausible, s)
		}
	}
	switch {
	case len(plausible) == 1:
		return []Match{plausible[0].Match}
	case len(plausible) > 1 && plausible[0].Confidence-plausible[1].Confidence > MinMargin+epsilon:
		return []Match{plausible[0].Match}
	}
	return nil
}
