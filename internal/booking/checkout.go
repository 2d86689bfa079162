package booking

import (
	"context"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// Catalog resolves showtimes and screens.  Implemented by the repository
// layer; lookups return ErrShowtimeNotFound (or the repository's screen
// sentinel mapped to it) when the record is absent.
type Catalog interface {
	LookupShowtime(ctx context.Context, key model.ShowtimeKey) (*model.Showtime, error)
	GetScreen(ctx context.Context, theaterID, screenID uint64) (*model.Screen, error)
}

// Inventory derives the occupied seat set for a showtime from committed
// bookings.  The snapshot it returns is advisory; Store.CommitBooking
// re-checks inside its own transaction.
type Inventory interface {
	OccupiedSeats(ctx context.Context, key model.ShowtimeKey) (map[string]struct{}, error)
}

// Store persists a booking and its seat rows as one atomic unit.  The
// implementation must re-validate seat availability against live data
// inside the same transaction and fail the whole commit with
// ErrSeatUnavailable when any seat was taken in the meantime; any
// store-level failure is wrapped in PersistenceError after rollback.
// On success the booking's ID, Reference and CreatedAt are populated.
type Store interface {
	CommitBooking(ctx context.Context, b *model.Booking, seatLabels []string) error
}

// State enumerates the phases of a checkout session.
type State int

const (
	StateSelectingShowtime State = iota
	StateSelectingSeats
	StateReviewing
	StateCommitted
)

// String names the state for logs and error messages.
func (s State) String() string {
	switch s {
	case StateSelectingShowtime:
		return "SELECTING_SHOWTIME"
	case StateSelectingSeats:
		return "SELECTING_SEATS"
	case StateReviewing:
		return "REVIEWING"
	case StateCommitted:
		return "COMMITTED"
	}
	return "UNKNOWN"
}

// StateError reports an operation invoked in the wrong checkout phase.
type StateError struct {
	State State
	Op    string
}

func (e *StateError) Error() string {
	return "checkout: cannot " + e.Op + " in state " + e.State.String()
}

// Checkout drives one user's booking flow:
//
//	SELECTING_SHOWTIME -> SELECTING_SEATS -> REVIEWING -> COMMITTED
//
// A Checkout instance lives for a single request; the durable state
// between requests (chosen showtime, chosen seats) is carried by the
// session store and replayed through Resume.  Nothing is persisted until
// Commit succeeds, so an abandoned checkout simply expires.
type Checkout struct {
	userID    uint64
	catalog   Catalog
	inventory Inventory
	store     Store
	rates     Rates

	state    State
	showtime *model.Showtime
	seats    []Seat
	quote    Quote
}

// NewCheckout starts a fresh checkout session for the user.
func NewCheckout(userID uint64, catalog Catalog, inventory Inventory, store Store, rates Rates) *Checkout {
	return &Checkout{
		userID:    userID,
		catalog:   catalog,
		inventory: inventory,
		store:     store,
		rates:     rates,
		state:     StateSelectingShowtime,
	}
}

// Resume rebuilds a checkout from a stored selection: it re-runs showtime
// resolution and, when seats are present, seat validation and pricing.
// Stale selections surface the same typed errors as the original calls.
func Resume(ctx context.Context, userID uint64, catalog Catalog, inventory Inventory, store Store, rates Rates, key *model.ShowtimeKey, seatLabels []string) (*Checkout, error) {
	co := NewCheckout(userID, catalog, inventory, store, rates)
	if key == nil {
		return co, nil
	}
	if err := co.SelectShowtime(ctx, *key); err != nil {
		return nil, err
	}
	if len(seatLabels) == 0 {
		return co, nil
	}
	if _, err := co.SelectSeats(ctx, seatLabels); err != nil {
		return nil, err
	}
	return co, nil
}

// State returns the current phase.
func (co *Checkout) State() State { return co.state }

// Showtime returns the resolved showtime, or nil before selection.
func (co *Checkout) Showtime() *model.Showtime { return co.showtime }

// Seats returns the canonical labels of the validated selection.
func (co *Checkout) Seats() []string { return Labels(co.seats) }

// Quote returns the priced selection; valid from REVIEWING onward.
func (co *Checkout) Quote() Quote { return co.quote }

// SelectShowtime resolves the showtime via the catalog and advances to
// SELECTING_SEATS.  Re-selecting a showtime before commit restarts the
// seat phase.
func (co *Checkout) SelectShowtime(ctx context.Context, key model.ShowtimeKey) error {
	if co.state == StateCommitted {
		return &StateError{State: co.state, Op: "select showtime"}
	}
	if err := key.Validate(); err != nil {
		return err
	}
	st, err := co.catalog.LookupShowtime(ctx, key)
	if err != nil {
		return err
	}
	co.showtime = st
	co.seats = nil
	co.quote = Quote{}
	co.state = StateSelectingSeats
	return nil
}

// SelectSeats validates a non-empty seat selection against the screen
// capacity and the current occupied set, prices it, and advances to
// REVIEWING.  The quote is a session snapshot only; nothing is durable
// until Commit.
func (co *Checkout) SelectSeats(ctx context.Context, labels []string) (Quote, error) {
	if co.state != StateSelectingSeats && co.state != StateReviewing {
		return Quote{}, &StateError{State: co.state, Op: "select seats"}
	}
	screen, err := co.catalog.GetScreen(ctx, co.showtime.TheaterID, co.showtime.ScreenID)
	if err != nil {
		return Quote{}, err
	}
	occupied, err := co.inventory.OccupiedSeats(ctx, co.showtime.Key())
	if err != nil {
		return Quote{}, err
	}
	seats, err := ValidateSelection(screen, occupied, labels)
	if err != nil {
		return Quote{}, err
	}
	elite, premium := CountByTier(seats)
	co.seats = seats
	co.quote = co.rates.Price(elite, premium)
	co.state = StateReviewing
	return co.quote, nil
}

// Commit finalizes the checkout.  The store re-validates seat
// availability against live data inside its transaction, so a seat taken
// since REVIEWING fails the whole commit with ErrSeatUnavailable and no
// partial rows are left behind.  On success the checkout reaches its
// terminal COMMITTED state and the persisted booking is returned.
func (co *Checkout) Commit(ctx context.Context) (*model.Booking, error) {
	if co.state != StateReviewing {
		return nil, &StateError{State: co.state, Op: "commit"}
	}
	elite, premium := CountByTier(co.seats)
	b := &model.Booking{
		UserID:       co.userID,
		MovieID:      co.showtime.MovieID,
		TheaterID:    co.showtime.TheaterID,
		ScreenID:     co.showtime.ScreenID,
		ShowDate:     co.showtime.ShowDate,
		ShowTime:     co.showtime.ShowTime,
		EliteSeats:   uint32(elite),
		PremiumSeats: uint32(premium),
		TotalCents:   co.quote.TotalCents,
	}
	if err := co.store.CommitBooking(ctx, b, Labels(co.seats)); err != nil {
		return nil, err
	}
	co.state = StateCommitted
	return b, nil
}
