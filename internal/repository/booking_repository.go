package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// BookingRepo persists bookings and their seat rows.  It is the single
// writer for committed seat inventory: occupied seats are always derived
// from booking_seats joined through bookings, never stored separately.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// OccupiedSeats returns the set of seat labels already sold for a
// showtime.  Satisfies booking.Inventory.
func (r *BookingRepo) OccupiedSeats(ctx context.Context, key model.ShowtimeKey) (map[string]struct{}, error) {
	return r.occupiedSeats(ctx, r.db, key, false)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *BookingRepo) occupiedSeats(ctx context.Context, q querier, key model.ShowtimeKey, forUpdate bool) (map[string]struct{}, error) {
	query := `SELECT bs.seat_label
	          FROM booking_seats bs
	          JOIN bookings b ON b.booking_id = bs.booking_id
	          WHERE b.theater_id = ? AND b.screen_id = ? AND b.show_date = ? AND b.show_time = ?`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.QueryContext(ctx, query, key.TheaterID, key.ScreenID, key.ShowDate, key.ShowTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	occupied := make(map[string]struct{})
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		occupied[label] = struct{}{}
	}
	return occupied, rows.Err()
}

// CommitBooking writes the booking and its seat rows atomically.
// Satisfies booking.Store.
//
// The showtime row is locked with FOR UPDATE first, which serializes
// commits per showtime; the occupied set is then re-derived inside the
// transaction so a seat sold since the caller's review fails the whole
// commit with booking.ErrSeatUnavailable.  Store-level failures are
// rolled back and wrapped in booking.PersistenceError.  On success the
// booking's ID, Reference and CreatedAt are populated.
func (r *BookingRepo) CommitBooking(ctx context.Context, b *model.Booking, seatLabels []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &booking.PersistenceError{Op: "begin commit", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	key := b.ShowtimeKey()
	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM showtimes
		 WHERE theater_id = ? AND movie_id = ? AND screen_id = ? AND show_date = ? AND show_time = ? FOR UPDATE`,
		key.TheaterID, key.MovieID, key.ScreenID, key.ShowDate, key.ShowTime).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrShowtimeNotFound
		}
		return &booking.PersistenceError{Op: "lock showtime", Err: err}
	}

	occupied, err := r.occupiedSeats(ctx, tx, key, true)
	if err != nil {
		return &booking.PersistenceError{Op: "read occupied seats", Err: err}
	}
	for _, label := range seatLabels {
		if _, taken := occupied[label]; taken {
			return &booking.SeatError{Label: label, Err: booking.ErrSeatUnavailable}
		}
	}

	ref := uuid.NewString()
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (reference, user_id, movie_id, theater_id, screen_id, show_date, show_time,
		                       elite_seats, premium_seats, total_cents, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref, b.UserID, b.MovieID, b.TheaterID, b.ScreenID, b.ShowDate, b.ShowTime,
		b.EliteSeats, b.PremiumSeats, b.TotalCents, now)
	if err != nil {
		return &booking.PersistenceError{Op: "insert booking", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return &booking.PersistenceError{Op: "insert booking", Err: err}
	}

	if err := insertSeatsBulkTx(ctx, tx, uint64(id), seatLabels); err != nil {
		return &booking.PersistenceError{Op: "insert booking seats", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &booking.PersistenceError{Op: "commit booking", Err: err}
	}
	committed = true

	b.ID = uint64(id)
	b.Reference = ref
	b.CreatedAt = now
	return nil
}

// insertSeatsBulkTx inserts all seat rows for a booking in one statement.
func insertSeatsBulkTx(ctx context.Context, tx *sql.Tx, bookingID uint64, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	q := `INSERT INTO booking_seats (booking_id, seat_label) VALUES `
	args := make([]any, 0, len(labels)*2)
	for i, label := range labels {
		if i > 0 {
			q += ", "
		}
		q += "(?, ?)"
		args = append(args, bookingID, label)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// BookingDetail is a booking joined with its movie and theater names and
// its seat labels, as presented on the user's booking history.
type BookingDetail struct {
	model.Booking
	MovieName   string   `json:"movie_name"`
	TheaterName string   `json:"theater_name"`
	Seats       []string `json:"seats"`
}

const bookingCols = `b.booking_id, b.reference, b.user_id, b.movie_id, b.theater_id, b.screen_id,
	DATE_FORMAT(b.show_date, '%Y-%m-%d'), TIME_FORMAT(b.show_time, '%H:%i'),
	b.elite_seats, b.premium_seats, b.total_cents, b.created_at`

func scanBookingDetail(rows *sql.Rows) (*BookingDetail, error) {
	var d BookingDetail
	if err := rows.Scan(&d.ID, &d.Reference, &d.UserID, &d.MovieID, &d.TheaterID, &d.ScreenID,
		&d.ShowDate, &d.ShowTime, &d.EliteSeats, &d.PremiumSeats, &d.TotalCents, &d.CreatedAt,
		&d.MovieName, &d.TheaterName); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns the user's bookings, newest first, with movie and
// theater names and seat labels attached.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT ` + bookingCols + `, m.name, t.name
	           FROM bookings b
	           JOIN movies m ON m.movie_id = b.movie_id
	           JOIN theaters t ON t.theater_id = b.theater_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC, b.booking_id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		seats, err := r.seatsForBooking(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Seats = seats
	}
	return out, nil
}

// GetByIDForUser retrieves one booking with its seats, enforcing
// ownership: a booking belonging to another user yields ErrForbidden.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	const q = `SELECT ` + bookingCols + `, m.name, t.name
	           FROM bookings b
	           JOIN movies m ON m.movie_id = b.movie_id
	           JOIN theaters t ON t.theater_id = b.theater_id
	           WHERE b.booking_id = ?`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrBookingNotFound
	}
	d, err := scanBookingDetail(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()
	if d.UserID != userID {
		return nil, ErrForbidden
	}
	seats, err := r.seatsForBooking(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Seats = seats
	return d, nil
}

func (r *BookingRepo) seatsForBooking(ctx context.Context, bookingID uint64) ([]string, error) {
	const q = `SELECT seat_label FROM booking_seats WHERE booking_id = ? ORDER BY seat_label`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]string, 0)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		seats = append(seats, label)
	}
	return seats, rows.Err()
}
