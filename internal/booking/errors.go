// Package booking implements the seat-booking core: the pricing engine,
// seat label validation, the showtime minimum-gap rule and the checkout
// state machine.  Persistence is reached through the narrow interfaces in
// checkout.go so the core can be exercised without a database.
package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors recovered at the handler boundary and translated into
// user-facing responses.  They are never retried automatically.
var (
	// ErrShowtimeNotFound signals that the requested screening does not exist.
	ErrShowtimeNotFound = errors.New("showtime not found")

	// ErrScheduleConflict signals that a showtime would start within the
	// minimum gap of another showtime on the same screen and date.
	ErrScheduleConflict = errors.New("showtimes on a screen must be at least 1 hour apart")

	// ErrInvalidSeat signals a malformed seat label or one outside the
	// screen's configured tier capacity.
	ErrInvalidSeat = errors.New("invalid seat")

	// ErrSeatUnavailable signals that a requested seat is already part of
	// a committed booking for the same showtime.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrReferencedByShowtime rejects deletion of a movie or theater that
	// active showtimes still reference.
	ErrReferencedByShowtime = errors.New("referenced by showtime")

	// ErrEmptySelection rejects a seat selection with no seats.
	ErrEmptySelection = errors.New("seat selection is empty")
)

// SeatError carries the offending seat label alongside one of the seat
// sentinels, so callers can report exactly which seat failed while still
// matching with errors.Is.
type SeatError struct {
	Label string
	Err   error
}

func (e *SeatError) Error() string { return fmt.Sprintf("%v: %s", e.Err, e.Label) }
func (e *SeatError) Unwrap() error { return e.Err }

func invalidSeat(label string) error     { return &SeatError{Label: label, Err: ErrInvalidSeat} }
func unavailableSeat(label string) error { return &SeatError{Label: label, Err: ErrSeatUnavailable} }

// PersistenceError wraps a store-level failure during commit.  The
// transaction is rolled back before this is returned; the caller may
// retry the whole checkout.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
