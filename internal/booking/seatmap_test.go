package booking

import (
	"errors"
	"testing"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

func TestParseSeat(t *testing.T) {
	cases := []struct {
		in      string
		want    Seat
		wantErr bool
	}{
		{"E1", Seat{TierElite, 1}, false},
		{"P12", Seat{TierPremium, 12}, false},
		{"e3", Seat{TierElite, 3}, false},
		{" p7 ", Seat{TierPremium, 7}, false},
		{"", Seat{}, true},
		{"E", Seat{}, true},
		{"X5", Seat{}, true},
		{"E0", Seat{}, true},
		{"P-2", Seat{}, true},
		{"Eab", Seat{}, true},
	}
	for _, tc := range cases {
		got, err := ParseSeat(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidSeat) {
				t.Errorf("ParseSeat(%q) err = %v, want ErrInvalidSeat", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSeat(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSeat(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestSeatLabelRoundTrip(t *testing.T) {
	for _, label := range []string{"E1", "E42", "P1", "P9"} {
		s, err := ParseSeat(label)
		if err != nil {
			t.Fatalf("ParseSeat(%q): %v", label, err)
		}
		if s.Label() != label {
			t.Errorf("label round trip %q -> %q", label, s.Label())
		}
	}
}

func testScreen() *model.Screen {
	return &model.Screen{TheaterID: 1, ScreenID: 1, EliteSeats: 10, PremiumSeats: 5}
}

func TestValidateSelection(t *testing.T) {
	occupied := map[string]struct{}{"E2": {}, "P1": {}}

	t.Run("valid mixed case", func(t *testing.T) {
		seats, err := ValidateSelection(testScreen(), occupied, []string{"e1", "P2", "E10"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := Labels(seats); len(got) != 3 || got[0] != "E1" || got[1] != "P2" || got[2] != "E10" {
			t.Errorf("labels = %v", got)
		}
		elite, premium := CountByTier(seats)
		if elite != 2 || premium != 1 {
			t.Errorf("counts = %d elite, %d premium", elite, premium)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ValidateSelection(testScreen(), occupied, nil); !errors.Is(err, ErrEmptySelection) {
			t.Errorf("err = %v, want ErrEmptySelection", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ValidateSelection(testScreen(), occupied, []string{"E1", "Q9"})
		if !errors.Is(err, ErrInvalidSeat) {
			t.Fatalf("err = %v, want ErrInvalidSeat", err)
		}
		var se *SeatError
		if !errors.As(err, &se) || se.Label != "Q9" {
			t.Errorf("offending label = %v, want Q9", err)
		}
	})

	t.Run("out of capacity", func(t *testing.T) {
		if _, err := ValidateSelection(testScreen(), occupied, []string{"E11"}); !errors.Is(err, ErrInvalidSeat) {
			t.Errorf("E11 err = %v, want ErrInvalidSeat", err)
		}
		if _, err := ValidateSelection(testScreen(), occupied, []string{"P6"}); !errors.Is(err, ErrInvalidSeat) {
			t.Errorf("P6 err = %v, want ErrInvalidSeat", err)
		}
	})

	t.Run("occupied", func(t *testing.T) {
		_, err := ValidateSelection(testScreen(), occupied, []string{"E1", "E2"})
		if !errors.Is(err, ErrSeatUnavailable) {
			t.Fatalf("err = %v, want ErrSeatUnavailable", err)
		}
		var se *SeatError
		if !errors.As(err, &se) || se.Label != "E2" {
			t.Errorf("offending label = %v, want E2", err)
		}
	})

	t.Run("duplicate in request", func(t *testing.T) {
		_, err := ValidateSelection(testScreen(), occupied, []string{"E1", "e1"})
		if !errors.Is(err, ErrSeatUnavailable) {
			t.Errorf("err = %v, want ErrSeatUnavailable", err)
		}
	})

	t.Run("boundary seats accepted", func(t *testing.T) {
		if _, err := ValidateSelection(testScreen(), nil, []string{"E10", "P5"}); err != nil {
			t.Errorf("boundary selection rejected: %v", err)
		}
	})
}
