package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/showtime-assistant/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatterAt(d time.Time) *Formatter {
	return NewFormatter(func() time.Time { return d })
}

func week(id int64, name string, start time.Time) model.ScheduleWeek {
	return model.ScheduleWeek{
		ID:        id,
		MovieName: name,
		Status:    model.StatusNowShowing,
		WeekStart: start,
		WeekEnd:   start.AddDate(0, 0, 6),
	}
}

func TestSchedule_EarlierWeekFirst(t *testing.T) {
	later := week(2, "Duna", day(2025, time.January, 9))
	later.Days[0] = "18h"
	earlier := week(1, "Duna", day(2025, time.January, 2))
	earlier.Days[0] = "14h"

	blocks := formatterAt(day(2025, time.January, 2)).Schedule([]model.ScheduleWeek{later, earlier}, PresentSchedule)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Filme: Duna\nStatus: Em cartaz\nQuinta (02/01): 14h", blocks[0].String())
	assert.Equal(t, "Filme: Duna\nStatus: Em cartaz\nQuinta (09/01): 18h", blocks[1].String())
}

func TestSchedule_StaleSlotsAreNeverShown(t *testing.T) {
	w := week(1, "Moana 2", day(2025, time.January, 9))
	w.Days[0] = "09/01 14h" // embedded date before today
	w.Days[1] = "10/01 15h" // embedded date is today
	w.Days[3] = "20h"       // positional: Sunday 12/01
	w.Days[6] = "08/01 DUB" // embedded date wins over position

	blocks := formatterAt(day(2025, time.January, 10)).Schedule([]model.ScheduleWeek{w}, PresentSchedule)
	require.Len(t, blocks, 1)
	assert.Equal(t, Block{
		{Label: "Filme", Value: "Moana 2"},
		{Label: "Status", Value: "Em cartaz"},
		{Label: "Sexta (10/01)", Value: "10/01 15h"},
		{Label: "Domingo (12/01)", Value: "20h"},
	}, blocks[0])
}

func TestSchedule_RowWithOnlyPastSlotsIsDropped(t *testing.T) {
	w := week(1, "Antigo", day(2025, time.January, 2))
	w.Days[0] = "14h"
	w.Days[1] = "15h"

	blocks := formatterAt(day(2025, time.January, 6)).Schedule([]model.ScheduleWeek{w}, PresentSchedule)
	assert.Empty(t, blocks)
}

func TestSchedule_ComingSoonHidesDays(t *testing.T) {
	w := week(1, "Branca de Neve", day(2025, time.January, 16))
	w.Status = model.StatusComingSoon
	w.ReleaseDate = "2025-03-20"
	w.Days[0] = "18h"

	blocks := formatterAt(day(2025, time.January, 9)).Schedule([]model.ScheduleWeek{w}, PresentComingSoon)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Filme: Branca de Neve\nStatus: Em breve\nEstreia: 20/03/2025", blocks[0].String())

	w.ReleaseDate = ""
	blocks = formatterAt(day(2025, time.January, 9)).Schedule([]model.ScheduleWeek{w}, PresentComingSoon)
	assert.Equal(t, "Filme: Branca de Neve\nStatus: Em breve", blocks[0].String())
}

func TestSlotDate(t *testing.T) {
	w := model.ScheduleWeek{
		WeekStart: day(2024, time.December, 26),
		WeekEnd:   day(2025, time.January, 1),
	}

	d, ok := SlotDate(w, model.SlotOf(time.Wednesday), "01/01 18h")
	require.True(t, ok)
	assert.Equal(t, day(2025, time.January, 1), d)

	d, ok = SlotDate(w, model.SlotOf(time.Saturday), "17h")
	require.True(t, ok)
	assert.Equal(t, day(2024, time.December, 28), d)

	d, ok = SlotDate(w, model.SlotOf(time.Friday), "27/12/2024 LEG")
	require.True(t, ok)
	assert.Equal(t, day(2024, time.December, 27), d)

	// An impossible embedded date falls back to the position.
	d, ok = SlotDate(w, model.SlotOf(time.Thursday), "31/02 18h")
	require.True(t, ok)
	assert.Equal(t, day(2024, time.December, 26), d)
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"R$ 25,00", 25, true},
		{"25,5", 25.5, true},
		{"25.00", 25, true},
		{"30", 30, true},
		{"R$ 1.234,50", 1234.5, true},
		{"1,234.50", 1234.5, true},
		{"1.234", 1234, true},
		{"", 0, false},
		{"gratuito", 0, false},
		{"-5,00", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseMoney(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, tc.in)
		}
	}
}

func TestTicketPrices(t *testing.T) {
	rows := []model.TicketPrice{
		{Label: "2D", FullWeekday: "R$ 30,00", HalfWeekday: "15,00", FullWeekend: "36.00", HalfWeekend: ""},
		{Label: "VIP", FullWeekday: "consulte", HalfWeekday: "-"},
		{Label: "3D", HalfWeekend: "23,5"},
	}
	blocks := formatterAt(day(2025, time.January, 9)).TicketPrices(rows)
	require.Len(t, blocks, 2)
	assert.Equal(t, Block{
		{Label: "Sala", Value: "2D"},
		{Label: "Inteira (seg a qui)", Value: "R$ 30,00"},
		{Label: "Meia (seg a qui)", Value: "R$ 15,00"},
		{Label: "Inteira (sex a dom e feriados)", Value: "R$ 36,00"},
	}, blocks[0])
	assert.Equal(t, "Sala: 3D\nMeia (sex a dom e feriados): R$ 23,50", blocks[1].String())
}

func TestCinemaAndMovieDetails(t *testing.T) {
	f := formatterAt(day(2025, time.January, 9))

	c := f.Cinema(model.Cinema{Name: "Cine Centro", Address: "Rua A, 100", ScheduleURL: "https://cine.example/centro"})
	assert.Equal(t, "Cinema: Cine Centro\nEndereço: Rua A, 100\nProgramação: https://cine.example/centro", c.String())

	m := f.MovieDetails(model.Movie{Name: "Duna", RuntimeMin: 155, Rating: "14", ReleaseDate: "2024-02-29"})
	assert.Equal(t, "Filme: Duna\nDuração: 155 min\nClassificação: 14\nEstreia: 29/02/2024", m.String())
}

func TestJoin(t *testing.T) {
	blocks := []Block{
		{{Label: "A", Value: "1"}},
		nil,
		{{Label: "B", Value: "2"}, {Label: "C", Value: "3"}},
	}
	assert.Equal(t, "A: 1\n\nB: 2\nC: 3", Join(blocks))
	assert.Empty(t, Join(nil))
}

func TestTemplatesAreLabeled(t *testing.T) {
	for _, b := range []Block{
		MovieNotFound("Duna", "https://x"),
		NoSessions("https://x"),
		NoPrices("https://x"),
		CinemaNotFound("https://x"),
		NotUnderstood("https://x"),
		MissingMovie("https://x"),
		Failure("https://x"),
	} {
		require.Len(t, b, 2)
		for _, l := range b {
			assert.NotEmpty(t, l.Label)
			assert.NotEmpty(t, l.Value)
		}
	}
}
