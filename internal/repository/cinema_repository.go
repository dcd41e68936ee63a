// Package repository contains data access logic separated from HTTP handlers.
// This file holds the read-only cinema lookups used to scope every question.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"

	"github.com/iliyamo/showtime-assistant/internal/model"
)

// CinemaRepo encapsulates all database queries related to cinemas. It
// depends on a sql.DB connection which should be configured elsewhere.
type CinemaRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCinemaRepo constructs a CinemaRepo with the provided DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

const cinemaColumns = `id, name, COALESCE(address, ''), COALESCE(schedule_url, ''), COALESCE(info_url, '')`

// GetByID fetches a cinema by its ID. It returns ErrCinemaNotFound if no
// row is found.
func (r *CinemaRepo) GetByID(ctx context.Context, id int64) (*model.Cinema, error) {
	q := "SELECT " + cinemaColumns + " FROM cinemas WHERE id = ?"
	var c model.Cinema
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Address, &c.ScheduleURL, &c.InfoURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCinemaNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListAll returns all cinemas ordered by id. The assistant matches cinema
// names against this list when a request names its cinema instead of
// passing an id.
func (r *CinemaRepo) ListAll(ctx context.Context) ([]*model.Cinema, error) {
	q := "SELECT " + cinemaColumns + " FROM cinemas ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Cinema
	for rows.Next() {
		c := &model.Cinema{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.ScheduleURL, &c.InfoURL); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
