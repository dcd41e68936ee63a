// Package format renders query results as display blocks: ordered lists of
// "Label: value" lines. It never prints partial or unlabeled lines; a field
// that cannot be rendered is left out.
package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Line is one labeled value of a block.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Block is one answer unit, e.g. a movie's week or a price table row.
type Block []Line

// String renders the block one "Label: value" line at a time.
func (b Block) String() string {
	var sb strings.Builder
	for i, l := range b {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Label)
		sb.WriteString(": ")
		sb.WriteString(l.Value)
	}
	return sb.String()
}

// add appends a line unless value is blank.
func (b Block) add(label, value string) Block {
	if strings.TrimSpace(value) == "" {
		return b
	}
	return append(b, Line{Label: label, Value: strings.TrimSpace(value)})
}

// Join renders blocks separated by one blank line, skipping empty blocks.
func Join(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if len(b) == 0 {
			continue
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}

// Presentation selects how schedule rows are rendered.
type Presentation int

const (
	// PresentSchedule lists every visible day slot.
	PresentSchedule Presentation = iota
	// PresentComingSoon reduces each row to name, status and release date.
	PresentComingSoon
)

// Formatter holds what rendering depends on: the current civil day and the
// pt-BR number printer.
type Formatter struct {
	today   func() time.Time
	printer *message.Printer
}

// NewFormatter returns a Formatter. today must return midnight of the
// current day in the cinema zone.
func NewFormatter(today func() time.Time) *Formatter {
	return &Formatter{
		today:   today,
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

// displayDate renders a stored "YYYY-MM-DD" (or timestamp) as dd/mm/yyyy,
// returning "" when it does not parse.
func displayDate(s string) string {
	if len(s) < 10 {
		return ""
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return ""
	}
	return t.Format("02/01/2006")
}
