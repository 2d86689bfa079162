// Package repository contains the data access layer: raw SQL against
// MySQL with per-entity repos.  Methods suffixed Tx participate in a
// caller-managed transaction; the caller commits or rolls back.  This
// file defines the sentinel errors shared across repositories so the
// handler layer can map failures to HTTP responses without inspecting
// SQL details.
package repository

import "errors"

// ErrMovieNotFound indicates a movie lookup yielded no rows.
var ErrMovieNotFound = errors.New("movie not found")

// ErrTheaterNotFound indicates a theater lookup yielded no rows.
var ErrTheaterNotFound = errors.New("theater not found")

// ErrScreenNotFound indicates a screen lookup yielded no rows.
var ErrScreenNotFound = errors.New("screen not found")

// ErrBookingNotFound indicates a booking lookup yielded no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateShowtime is returned when the exact showtime key already
// exists (same screen, date and time).
var ErrDuplicateShowtime = errors.New("showtime already exists")

// ErrConflict is returned when a delete or update cannot proceed because
// of dependent state, such as removing a showtime that committed bookings
// still reference.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")
