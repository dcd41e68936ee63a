package format

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iliyamo/showtime-assistant/internal/model"
)

var thousandsOnly = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseMoney reads the price text produced by ingestion: "R$ 1.234,50",
// "25,00", "25.00" or "25". ok is false for anything else, including
// negative amounts.
func ParseMoney(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}

	comma, dot := strings.LastIndexByte(s, ','), strings.LastIndexByte(s, '.')
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && thousandsOnly.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Money renders v as Brazilian currency, "R$ 25,00".
func (f *Formatter) Money(v float64) string {
	return f.printer.Sprintf("R$ %.2f", v)
}

// TicketPrices renders one block per price line. Fields that do not parse
// are omitted; a line with no usable price is dropped.
func (f *Formatter) TicketPrices(rows []model.TicketPrice) []Block {
	out := make([]Block, 0, len(rows))
	for _, p := range rows {
		var prices Block
		for _, field := range []struct{ label, raw string }{
			{"Inteira (seg a qui)", p.FullWeekday},
			{"Meia (seg a qui)", p.HalfWeekday},
			{"Inteira (sex a dom e feriados)", p.FullWeekend},
			{"Meia (sex a dom e feriados)", p.HalfWeekend},
		} {
			if v, ok := ParseMoney(field.raw); ok {
				prices = prices.add(field.label, f.Money(v))
			}
		}
		if len(prices) == 0 {
			continue
		}
		out = append(out, append(Block{}.add("Sala", p.Label), prices...))
	}
	return out
}
