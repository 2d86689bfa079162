package model

import (
	"errors"
	"fmt"
	"time"
)

// Showtime is a scheduled screening of a movie on a specific screen, date
// and time.  The identity of a showtime is the full ShowtimeKey; there is
// no surrogate ID.  Showtimes on the same (theater, screen, date) must
// start at least one hour apart.
//
// Dates use "2006-01-02" and times "15:04", both UTC.  Parsing at the API
// boundary goes through ParseShowDate/ParseShowTime so that no ad-hoc
// date strings ("23rd May") ever reach the repositories.
type Showtime struct {
	TheaterID uint64 `json:"theater_id"` // showtimes.theater_id
	MovieID   uint64 `json:"movie_id"`   // showtimes.movie_id
	ScreenID  uint64 `json:"screen_id"`  // showtimes.screen_id
	ShowDate  string `json:"show_date"`  // showtimes.show_date ("2006-01-02")
	ShowTime  string `json:"show_time"`  // showtimes.show_time ("15:04")
}

// Key returns the showtime's identity.
func (s Showtime) Key() ShowtimeKey {
	return ShowtimeKey{
		TheaterID: s.TheaterID,
		MovieID:   s.MovieID,
		ScreenID:  s.ScreenID,
		ShowDate:  s.ShowDate,
		ShowTime:  s.ShowTime,
	}
}

// ShowtimeKey identifies one screening.  Bookings denormalize this key
// instead of referencing a surrogate showtime ID.
type ShowtimeKey struct {
	TheaterID uint64 `json:"theater_id"`
	MovieID   uint64 `json:"movie_id"`
	ScreenID  uint64 `json:"screen_id"`
	ShowDate  string `json:"show_date"`
	ShowTime  string `json:"show_time"`
}

// String renders the key for log lines and error messages.
func (k ShowtimeKey) String() string {
	return fmt.Sprintf("theater=%d movie=%d screen=%d %s %s",
		k.TheaterID, k.MovieID, k.ScreenID, k.ShowDate, k.ShowTime)
}

// Validate checks that all key components are present and well formed.
func (k ShowtimeKey) Validate() error {
	if k.TheaterID == 0 || k.MovieID == 0 || k.ScreenID == 0 {
		return errors.New("theater_id, movie_id and screen_id are required")
	}
	if _, err := ParseShowDate(k.ShowDate); err != nil {
		return err
	}
	if _, err := ParseShowTime(k.ShowTime); err != nil {
		return err
	}
	return nil
}

const (
	showDateLayout = "2006-01-02"
	showTimeLayout = "15:04"
)

// ParseShowDate parses a "2006-01-02" calendar date in UTC.
func ParseShowDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(showDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid show date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// ParseShowTime parses a wall-clock show time.  Both "18:00" and the
// MySQL TIME form "18:00:00" are accepted; the canonical form is "15:04".
func ParseShowTime(s string) (time.Time, error) {
	if t, err := time.Parse(showTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid show time %q (want HH:MM)", s)
	}
	return t, nil
}

// CanonicalShowTime normalizes a show time string to "15:04".
func CanonicalShowTime(s string) (string, error) {
	t, err := ParseShowTime(s)
	if err != nil {
		return "", err
	}
	return t.Format(showTimeLayout), nil
}
