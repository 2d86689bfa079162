package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// ScreenRepo manages persistence for screens.  Screens are keyed by the
// composite (theater_id, screen_id); the screen number is assigned by
// the admin, not auto-generated.
type ScreenRepo struct {
	db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the given DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo { return &ScreenRepo{db: db} }

// Create inserts a new screen under its theater.
func (r *ScreenRepo) Create(ctx context.Context, s *model.Screen) error {
	const q = `INSERT INTO screens (theater_id, screen_id, name, elite_seats, premium_seats)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, s.TheaterID, s.ScreenID, s.Name, s.EliteSeats, s.PremiumSeats)
	return err
}

// Get retrieves one screen by its composite key, returning
// ErrScreenNotFound when absent.
func (r *ScreenRepo) Get(ctx context.Context, theaterID, screenID uint64) (*model.Screen, error) {
	const q = `SELECT theater_id, screen_id, name, elite_seats, premium_seats
	           FROM screens WHERE theater_id = ? AND screen_id = ?`
	var s model.Screen
	err := r.db.QueryRowContext(ctx, q, theaterID, screenID).Scan(
		&s.TheaterID, &s.ScreenID, &s.Name, &s.EliteSeats, &s.PremiumSeats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreenNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByTheater returns all screens of a theater ordered by screen number.
func (r *ScreenRepo) ListByTheater(ctx context.Context, theaterID uint64) ([]model.Screen, error) {
	const q = `SELECT theater_id, screen_id, name, elite_seats, premium_seats
	           FROM screens WHERE theater_id = ? ORDER BY screen_id`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Screen, 0)
	for rows.Next() {
		var s model.Screen
		if err := rows.Scan(&s.TheaterID, &s.ScreenID, &s.Name, &s.EliteSeats, &s.PremiumSeats); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update rewrites a screen's name and tier capacities.
func (r *ScreenRepo) Update(ctx context.Context, s *model.Screen) error {
	const q = `UPDATE screens SET name = ?, elite_seats = ?, premium_seats = ?
	           WHERE theater_id = ? AND screen_id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.EliteSeats, s.PremiumSeats, s.TheaterID, s.ScreenID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM screens WHERE theater_id = ? AND screen_id = ?`,
			s.TheaterID, s.ScreenID).Scan(&one)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrScreenNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a screen.  Rejected with booking.ErrReferencedByShowtime
// while showtimes are scheduled on it.
func (r *ScreenRepo) Delete(ctx context.Context, theaterID, screenID uint64) error {
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
		`SELECT COUNT(*) FROM showtimes WHERE theater_id = ? AND screen_id = ?`,
		theaterID, screenID).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return booking.ErrReferencedByShowtime
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM screens WHERE theater_id = ? AND screen_id = ?`, theaterID, screenID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScreenNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
