package model

import "time"

// Booking is the durable record of a completed seat purchase for one
// showtime.  A booking and its seat rows are created together in a single
// transaction and are immutable afterwards; cancellation is not part of
// the booking core.
//
// Fields:
//  ID           - primary key, generated on commit.
//  Reference    - UUID handed to the client as the confirmation code.
//  UserID       - user who paid for the booking.
//  MovieID/TheaterID/ScreenID/ShowDate/ShowTime - denormalized showtime key.
//  EliteSeats   - count of elite-tier seats in the booking.
//  PremiumSeats - count of premium-tier seats in the booking.
//  TotalCents   - total charged, in cents.
//  CreatedAt    - commit timestamp.
type Booking struct {
	ID           uint64    `json:"booking_id"`    // bookings.booking_id
	Reference    string    `json:"reference"`     // bookings.reference
	UserID       uint64    `json:"user_id"`       // bookings.user_id
	MovieID      uint64    `json:"movie_id"`      // bookings.movie_id
	TheaterID    uint64    `json:"theater_id"`    // bookings.theater_id
	ScreenID     uint64    `json:"screen_id"`     // bookings.screen_id
	ShowDate     string    `json:"show_date"`     // bookings.show_date
	ShowTime     string    `json:"show_time"`     // bookings.show_time
	EliteSeats   uint32    `json:"elite_seats"`   // bookings.elite_seats
	PremiumSeats uint32    `json:"premium_seats"` // bookings.premium_seats
	TotalCents   int64     `json:"total_cents"`   // bookings.total_cents
	CreatedAt    time.Time `json:"created_at"`    // bookings.created_at
}

// ShowtimeKey returns the key of the screening this booking belongs to.
func (b Booking) ShowtimeKey() ShowtimeKey {
	return ShowtimeKey{
		TheaterID: b.TheaterID,
		MovieID:   b.MovieID,
		ScreenID:  b.ScreenID,
		ShowDate:  b.ShowDate,
		ShowTime:  b.ShowTime,
	}
}

// BookingSeat links a booking to one physical seat.  For a given showtime
// key the seat labels across all bookings are pairwise disjoint.
type BookingSeat struct {
	BookingID uint64 `json:"booking_id"` // booking_seats.booking_id
	SeatLabel string `json:"seat_label"` // booking_seats.seat_label ("E12", "P3")
}
