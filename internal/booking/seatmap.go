package booking

import (
	"strconv"
	"strings"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// Tier is a seating class with its own capacity and price.
type Tier int

const (
	TierElite Tier = iota
	TierPremium
)

// String returns the business label of the tier.
func (t Tier) String() string {
	if t == TierPremium {
		return "premium"
	}
	return "elite"
}

// Seat is one physical seat inside a screen, identified by tier and a
// 1-based number within that tier.  Its canonical label is "E<n>" or
// "P<n>".
type Seat struct {
	Tier   Tier
	Number int
}

// Label renders the canonical seat label.
func (s Seat) Label() string {
	prefix := "E"
	if s.Tier == TierPremium {
		prefix = "P"
	}
	return prefix + strconv.Itoa(s.Number)
}

// ParseSeat parses a seat label.  Input is case-insensitive; anything
// other than an elite/premium prefix followed by a positive number is
// rejected with ErrInvalidSeat.
func ParseSeat(label string) (Seat, error) {
	raw := strings.ToUpper(strings.TrimSpace(label))
	if len(raw) < 2 {
		return Seat{}, invalidSeat(label)
	}
	var tier Tier
	switch raw[0] {
	case 'E':
		tier = TierElite
	case 'P':
		tier = TierPremium
	default:
		return Seat{}, invalidSeat(label)
	}
	n, err := strconv.Atoi(raw[1:])
	if err != nil || n <= 0 {
		return Seat{}, invalidSeat(label)
	}
	return Seat{Tier: tier, Number: n}, nil
}

// InCapacity reports whether the seat falls within the screen's
// configured capacity for its tier.
func (s Seat) InCapacity(screen *model.Screen) bool {
	switch s.Tier {
	case TierPremium:
		return s.Number <= int(screen.PremiumSeats)
	default:
		return s.Number <= int(screen.EliteSeats)
	}
}

// ValidateSelection checks an ordered seat selection against the screen's
// capacities and the set of already occupied labels.  It returns the
// parsed seats on success.  The first offending seat is reported:
// ErrInvalidSeat for malformed or out-of-capacity labels,
// ErrSeatUnavailable for occupied seats and for duplicates within the
// request itself.
func ValidateSelection(screen *model.Screen, occupied map[string]struct{}, labels []string) ([]Seat, error) {
	if len(labels) == 0 {
		return nil, ErrEmptySelection
	}
	seats := make([]Seat, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		seat, err := ParseSeat(label)
		if err != nil {
			return nil, err
		}
		if !seat.InCapacity(screen) {
			return nil, invalidSeat(seat.Label())
		}
		canonical := seat.Label()
		if _, dup := seen[canonical]; dup {
			return nil, unavailableSeat(canonical)
		}
		if _, taken := occupied[canonical]; taken {
			return nil, unavailableSeat(canonical)
		}
		seen[canonical] = struct{}{}
		seats = append(seats, seat)
	}
	return seats, nil
}

// CountByTier tallies a seat list into elite and premium counts.
func CountByTier(seats []Seat) (elite, premium int) {
	for _, s := range seats {
		if s.Tier == TierPremium {
			premium++
		} else {
			elite++
		}
	}
	return elite, premium
}

// Labels returns the canonical labels of the seats, preserving order.
func Labels(seats []Seat) []string {
	out := make([]string, len(seats))
	for i, s := range seats {
		out[i] = s.Label()
	}
	return out
}
