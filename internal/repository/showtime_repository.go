package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// ShowtimeRepo manages the showtime catalog.  Scheduling enforces the
// minimum-gap constraint inside a transaction: the existing start times
// on the target (theater, screen, date) are read with FOR UPDATE so two
// concurrent schedules cannot both slip inside the gap.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// DB exposes the underlying sql.DB for cross-repo transactions.
func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

const showtimeCols = `theater_id, movie_id, screen_id, DATE_FORMAT(show_date, '%Y-%m-%d'), TIME_FORMAT(show_time, '%H:%i')`

// listTimesOnDateTx reads the start times already scheduled on one
// screen for one date, locking the rows for the duration of the caller's
// transaction.  The gap check is scoped to this single date.
func (r *ShowtimeRepo) listTimesOnDateTx(ctx context.Context, tx *sql.Tx, theaterID, screenID uint64, date, excludeTime string) ([]string, error) {
	q := `SELECT TIME_FORMAT(show_time, '%H:%i') FROM showtimes
	      WHERE theater_id = ? AND screen_id = ? AND show_date = ?`
	args := []any{theaterID, screenID, date}
	if excludeTime != "" {
		q += ` AND show_time <> ?`
		args = append(args, excludeTime)
	}
	q += ` FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// Schedule validates and inserts a new showtime.  It returns
// booking.ErrScheduleConflict when another showtime on the same screen
// and date starts within booking.MinShowGap, and ErrDuplicateShowtime
// when the exact slot exists.  The referenced movie and screen must
// already have been resolved by the caller.
func (r *ShowtimeRepo) Schedule(ctx context.Context, s *model.Showtime) error {
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
	existing, err := r.listTimesOnDateTx(ctx, tx, s.TheaterID, s.ScreenID, s.ShowDate, "")
	if err != nil {
		return err
	}
	for _, t := range existing {
		if t == s.ShowTime {
			return ErrDuplicateShowtime
		}
	}
	if err := booking.CheckMinGap(existing, s.ShowTime); err != nil {
		return err
	}
	const q = `INSERT INTO showtimes (theater_id, movie_id, screen_id, show_date, show_time)
	           VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, s.TheaterID, s.MovieID, s.ScreenID, s.ShowDate, s.ShowTime); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Lookup resolves a showtime by its full key, returning
// booking.ErrShowtimeNotFound when absent.
func (r *ShowtimeRepo) Lookup(ctx context.Context, key model.ShowtimeKey) (*model.Showtime, error) {
	const q = `SELECT ` + showtimeCols + ` FROM showtimes
	           WHERE theater_id = ? AND movie_id = ? AND screen_id = ? AND show_date = ? AND show_time = ?`
	var s model.Showtime
	err := r.db.QueryRowContext(ctx, q,
		key.TheaterID, key.MovieID, key.ScreenID, key.ShowDate, key.ShowTime).Scan(
		&s.TheaterID, &s.MovieID, &s.ScreenID, &s.ShowDate, &s.ShowTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrShowtimeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update replaces an existing showtime with new values, re-validating
// the gap constraint while excluding the record being updated.  The
// update is refused with ErrConflict when bookings reference the old
// slot, since booking rows denormalize the showtime key.
func (r *ShowtimeRepo) Update(ctx context.Context, oldKey model.ShowtimeKey, s *model.Showtime) error {
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
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM showtimes
		 WHERE theater_id = ? AND movie_id = ? AND screen_id = ? AND show_date = ? AND show_time = ? FOR UPDATE`,
		oldKey.TheaterID, oldKey.MovieID, oldKey.ScreenID, oldKey.ShowDate, oldKey.ShowTime).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrShowtimeNotFound
		}
		return err
	}
	var refs int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE theater_id = ? AND screen_id = ? AND show_date = ? AND show_time = ?`,
		oldKey.TheaterID, oldKey.ScreenID, oldKey.ShowDate, oldKey.ShowTime).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	// Exclude the record itself only when it stays in the same screen/date
	// slot list; otherwise all existing times on the target date count.
	exclude := ""
	if oldKey.TheaterID == s.TheaterID && oldKey.ScreenID == s.ScreenID && oldKey.ShowDate == s.ShowDate {
		exclude = oldKey.ShowTime
	}
	existing, err := r.listTimesOnDateTx(ctx, tx, s.TheaterID, s.ScreenID, s.ShowDate, exclude)
	if err != nil {
		return err
	}
	for _, t := range existing {
		if t == s.ShowTime {
			return ErrDuplicateShowtime
		}
	}
	if err := booking.CheckMinGap(existing, s.ShowTime); err != nil {
		return err
	}
	const q = `UPDATE showtimes
	           SET theater_id = ?, movie_id = ?, screen_id = ?, show_date = ?, show_time = ?
	           WHERE theater_id = ? AND movie_id = ? AND screen_id = ? AND show_date = ? AND show_time = ?`
	if _, err := tx.ExecContext(ctx, q,
		s.TheaterID, s.MovieID, s.ScreenID, s.ShowDate, s.ShowTime,
		oldKey.TheaterID, oldKey.MovieID, oldKey.ScreenID, oldKey.ShowDate, oldKey.ShowTime); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a showtime.  Rejected with ErrConflict while committed
// bookings reference it.
func (r *ShowtimeRepo) Delete(ctx context.Context, key model.ShowtimeKey) error {
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
		`SELECT COUNT(*) FROM bookings
		 WHERE theater_id = ? AND screen_id = ? AND show_date = ? AND show_time = ?`,
		key.TheaterID, key.ScreenID, key.ShowDate, key.ShowTime).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM showtimes
		 WHERE theater_id = ? AND movie_id = ? AND screen_id = ? AND show_date = ? AND show_time = ?`,
		key.TheaterID, key.MovieID, key.ScreenID, key.ShowDate, key.ShowTime)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrShowtimeNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByTheaterMovieDate returns the showtimes for a movie at a theater
// on a date, ordered by start time.  Used by the browse flow to present
// slot choices.
func (r *ShowtimeRepo) ListByTheaterMovieDate(ctx context.Context, theaterID, movieID uint64, date string) ([]model.Showtime, error) {
	const q = `SELECT ` + showtimeCols + ` FROM showtimes
	           WHERE theater_id = ? AND movie_id = ? AND show_date = ?
	           ORDER BY show_time`
	return r.queryShowtimes(ctx, q, theaterID, movieID, date)
}

// ListByTheaterDate returns every showtime at a theater on a date.
func (r *ShowtimeRepo) ListByTheaterDate(ctx context.Context, theaterID uint64, date string) ([]model.Showtime, error) {
	const q = `SELECT ` + showtimeCols + ` FROM showtimes
	           WHERE theater_id = ? AND show_date = ?
	           ORDER BY screen_id, show_time`
	return r.queryShowtimes(ctx, q, theaterID, date)
}

func (r *ShowtimeRepo) queryShowtimes(ctx context.Context, q string, args ...any) ([]model.Showtime, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Showtime, 0)
	for rows.Next() {
		var s model.Showtime
		if err := rows.Scan(&s.TheaterID, &s.MovieID, &s.ScreenID, &s.ShowDate, &s.ShowTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
