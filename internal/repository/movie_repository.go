package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/showtime-assistant/internal/model"
)

// MovieRepo reads the movie catalog.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// GetByID returns the full catalog entry of a movie, or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	const q = `SELECT
			id,
			name,
			COALESCE(synopsis, ''),
			COALESCE(runtime_min, 0),
			COALESCE(rating, ''),
			COALESCE(genre, ''),
			COALESCE(director, ''),
			COALESCE(cast_list, ''),
			COALESCE(release_date, ''),
			COALESCE(poster_url, ''),
			COALESCE(trailer_url, '')
		FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Name, &m.Synopsis, &m.RuntimeMin, &m.Rating, &m.Genre,
		&m.Director, &m.Cast, &m.ReleaseDate, &m.PosterURL, &m.TrailerURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListNames returns the (id, name) snapshot of the whole catalog.
func (r *MovieRepo) ListNames(ctx context.Context) ([]model.MovieRef, error) {
	const q = `SELECT id, name FROM movies ORDER BY id`
	return r.listRefs(ctx, q)
}

// ListProgrammedNames returns the movies that have a non-inactive
// programming week at cinemaID ending on or after since.
func (r *MovieRepo) ListProgrammedNames(ctx context.Context, cinemaID int64, since time.Time) ([]model.MovieRef, error) {
	const q = `SELECT DISTINCT m.id, m.name
		FROM movies m
		JOIN schedule_weeks s ON s.movie_id = m.id
		WHERE s.cinema_id = ? AND s.status <> ? AND s.week_end >= ?
		ORDER BY m.id`
	return r.listRefs(ctx, q, cinemaID, string(model.StatusInactive), since.Format(dateLayout))
}

func (r *MovieRepo) listRefs(ctx context.Context, q string, args ...any) ([]model.MovieRef, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MovieRef
	for rows.Next() {
		var ref model.MovieRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
