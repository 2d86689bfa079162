package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *MovieRepo) DB() *sql.DB { return r.db }

const movieCols = `movie_id, name, genre, rating, description, poster_url, runtime_min, release_date`

func scanMovie(row interface{ Scan(...any) error }) (*model.Movie, error) {
	var m model.Movie
	var release sql.NullTime
	if err := row.Scan(&m.ID, &m.Name, &m.Genre, &m.Rating, &m.Description,
		&m.PosterURL, &m.RuntimeMin, &release); err != nil {
		return nil, err
	}
	if release.Valid {
		t := release.Time
		m.ReleaseDate = &t
	}
	return &m, nil
}

// Create inserts a new movie and assigns the generated ID back to the
// struct.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (name, genre, rating, description, poster_url, runtime_min, release_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Genre, m.Rating, m.Description,
		m.PosterURL, m.RuntimeMin, m.ReleaseDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID retrieves a movie by ID, returning ErrMovieNotFound when absent.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT ` + movieCols + ` FROM movies WHERE movie_id = ?`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns all movies ordered by ID.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT ` + movieCols + ` FROM movies ORDER BY movie_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// ListByTheaterAndDate returns the movies screened at a theater on the
// given date, ordered by movie ID.
func (r *MovieRepo) ListByTheaterAndDate(ctx context.Context, theaterID uint64, date string) ([]model.Movie, error) {
	const q = `SELECT DISTINCT m.movie_id, m.name, m.genre, m.rating, m.description,
	                  m.poster_url, m.runtime_min, m.release_date
	           FROM movies m
	           JOIN showtimes st ON st.movie_id = m.movie_id
	           WHERE st.theater_id = ? AND st.show_date = ?
	           ORDER BY m.movie_id`
	rows, err := r.db.QueryContext(ctx, q, theaterID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Update rewrites a movie's attributes.  Returns ErrMovieNotFound when no
// row matches.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies
	           SET name = ?, genre = ?, rating = ?, description = ?, poster_url = ?, runtime_min = ?, release_date = ?
	           WHERE movie_id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Genre, m.Rating, m.Description,
		m.PosterURL, m.RuntimeMin, m.ReleaseDate, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "no row" from "no change".
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE movie_id = ?`, m.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMovieNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a movie.  Deletion is rejected with
// booking.ErrReferencedByShowtime while any showtime references the
// movie; the check and the delete run in one transaction.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var refs int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM showtimes WHERE movie_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return booking.ErrReferencedByShowtime
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE movie_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
