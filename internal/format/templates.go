package format

import (
	"strconv"

	"github.com/iliyamo/showtime-assistant/internal/model"
)

// Cinema renders the venue card.
func (f *Formatter) Cinema(c model.Cinema) Block {
	return Block{}.
		add("Cinema", c.Name).
		add("Endereço", c.Address).
		add("Programação", c.ScheduleURL).
		add("Informações", c.InfoURL)
}

// MovieDetails renders the catalog entry of one movie.
func (f *Formatter) MovieDetails(m model.Movie) Block {
	b := Block{}.
		add("Filme", m.Name).
		add("Sinopse", m.Synopsis)
	if m.RuntimeMin > 0 {
		b = b.add("Duração", strconv.Itoa(m.RuntimeMin)+" min")
	}
	return b.
		add("Classificação", m.Rating).
		add("Gênero", m.Genre).
		add("Direção", m.Director).
		add("Elenco", m.Cast).
		add("Estreia", displayDate(m.ReleaseDate)).
		add("Trailer", m.TrailerURL)
}

// The scripted replies below are the only texts users see when something
// could not be answered.

// MovieNotFound is shown when a movie name matched nothing.
func MovieNotFound(name, scheduleURL string) Block {
	return Block{}.
		add("Aviso", "Não encontrei o filme \""+name+"\" na programação deste cinema.").
		add("Programação", scheduleURL)
}

// NoSessions is shown when the query ran but nothing is programmed.
func NoSessions(scheduleURL string) Block {
	return Block{}.
		add("Aviso", "Não há sessões programadas para o período pedido.").
		add("Programação", scheduleURL)
}

// NoPrices is shown when a cinema has no usable price table.
func NoPrices(scheduleURL string) Block {
	return Block{}.
		add("Aviso", "Ainda não temos os preços deste cinema.").
		add("Programação", scheduleURL)
}

// CinemaNotFound is shown when the cinema could not be identified.
func CinemaNotFound(fallbackURL string) Block {
	return Block{}.
		add("Aviso", "Não consegui identificar o cinema.").
		add("Programação", fallbackURL)
}

// NotUnderstood is shown when the question could not be classified.
func NotUnderstood(scheduleURL string) Block {
	return Block{}.
		add("Aviso", "Não entendi a pergunta. Tente informar o filme e o dia.").
		add("Programação", scheduleURL)
}

// MissingMovie is shown when a details question names no movie.
func MissingMovie(scheduleURL string) Block {
	return Block{}.
		add("Aviso", "Qual filme você quer conhecer?").
		add("Programação", scheduleURL)
}

// Failure is the generic reply for internal errors.
func Failure(scheduleURL string) Block {
	return Block{}.
		add("Aviso", "Não foi possível consultar a programação agora. Tente novamente em instantes.").
		add("Programação", scheduleURL)
}
