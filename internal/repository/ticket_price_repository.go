package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/showtime-assistant/internal/model"
)

// TicketPriceRepo reads the price table of each cinema.
type TicketPriceRepo struct {
	db *sql.DB
}

// NewTicketPriceRepo constructs a TicketPriceRepo with the given DB handle.
func NewTicketPriceRepo(db *sql.DB) *TicketPriceRepo {
	return &TicketPriceRepo{db: db}
}

// ListByCinema returns the price lines of a cinema ordered by id. Money
// columns are returned as stored; an empty slice means no prices are known.
func (r *TicketPriceRepo) ListByCinema(ctx context.Context, cinemaID int64) ([]model.TicketPrice, error) {
	const q = `SELECT
			id,
			cinema_id,
			label,
			COALESCE(full_weekday, ''),
			COALESCE(half_weekday, ''),
			COALESCE(full_weekend, ''),
			COALESCE(half_weekend, '')
		FROM ticket_prices
		WHERE cinema_id = ?
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, cinemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TicketPrice
	for rows.Next() {
		var p model.TicketPrice
		if err := rows.Scan(&p.ID, &p.CinemaID, &p.Label, &p.FullWeekday, &p.HalfWeekday, &p.FullWeekend, &p.HalfWeekend); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
