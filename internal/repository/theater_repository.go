package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// TheaterRepo manages persistence for theaters.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

// Create inserts a new theater and assigns the generated ID.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	const q = `INSERT INTO theaters (name, location) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID retrieves a theater by ID, returning ErrTheaterNotFound when
// absent.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	const q = `SELECT theater_id, name, location FROM theaters WHERE theater_id = ?`
	var t model.Theater
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Location); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all theaters ordered by ID.
func (r *TheaterRepo) List(ctx context.Context) ([]model.Theater, error) {
	const q = `SELECT theater_id, name, location FROM theaters ORDER BY theater_id`
	return r.queryTheaters(ctx, q)
}

// ListShowingMovie returns the distinct theaters with at least one
// showtime for the given movie.
func (r *TheaterRepo) ListShowingMovie(ctx context.Context, movieID uint64) ([]model.Theater, error) {
	const q = `SELECT DISTINCT t.theater_id, t.name, t.location
	           FROM theaters t
	           JOIN showtimes st ON st.theater_id = t.theater_id
	           WHERE st.movie_id = ?
	           ORDER BY t.theater_id`
	return r.queryTheaters(ctx, q, movieID)
}

func (r *TheaterRepo) queryTheaters(ctx context.Context, q string, args ...any) ([]model.Theater, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Location); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites a theater's name and location.
func (r *TheaterRepo) Update(ctx context.Context, t *model.Theater) error {
	const q = `UPDATE theaters SET name = ?, location = ? WHERE theater_id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Location, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE theater_id = ?`, t.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTheaterNotFound
			}
			return err
		}
	}
	return nil
}

// DeleteCascade removes a theater together with its screens and
// showtimes in one transaction.  This is the explicit admin procedure:
// plain deletion of a theater that showtimes still reference is rejected
// elsewhere with booking.ErrReferencedByShowtime, while this variant
// cleans up the dependents.  It still refuses to run when committed
// bookings reference any of the theater's showtimes, since bookings are
// immutable.
func (r *TheaterRepo) DeleteCascade(ctx context.Context, id uint64) error {
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
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE theater_id = ?`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTheaterNotFound
		}
		return err
	}
	var bookings int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE theater_id = ?`, id).Scan(&bookings); err != nil {
		return err
	}
	if bookings > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM showtimes WHERE theater_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM screens WHERE theater_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM theaters WHERE theater_id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a theater without cascading.  It is rejected with
// booking.ErrReferencedByShowtime while showtimes reference the theater.
func (r *TheaterRepo) Delete(ctx context.Context, id uint64) error {
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
		`SELECT COUNT(*) FROM showtimes WHERE theater_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return booking.ErrReferencedByShowtime
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM screens WHERE theater_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM theaters WHERE theater_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTheaterNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
