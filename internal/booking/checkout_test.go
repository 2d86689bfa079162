package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// ----- in-memory fakes -----

type fakeCatalog struct {
	showtimes map[model.ShowtimeKey]model.Showtime
	screens   map[uint64]model.Screen // keyed by screen id; single theater in tests
}

func (f *fakeCatalog) LookupShowtime(_ context.Context, key model.ShowtimeKey) (*model.Showtime, error) {
	st, ok := f.showtimes[key]
	if !ok {
		return nil, ErrShowtimeNotFound
	}
	return &st, nil
}

func (f *fakeCatalog) GetScreen(_ context.Context, _, screenID uint64) (*model.Screen, error) {
	sc, ok := f.screens[screenID]
	if !ok {
		return nil, ErrShowtimeNotFound
	}
	return &sc, nil
}

// fakeStore is both the Inventory and the Store: committed seats feed the
// occupied set, and CommitBooking re-checks under a lock the way the real
// store re-checks inside its transaction.
type fakeStore struct {
	mu     sync.Mutex
	nextID uint64
	taken  map[model.ShowtimeKey]map[string]struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{taken: make(map[model.ShowtimeKey]map[string]struct{})}
}

func (f *fakeStore) OccupiedSeats(_ context.Context, key model.ShowtimeKey) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{}, len(f.taken[key]))
	for label := range f.taken[key] {
		out[label] = struct{}{}
	}
	return out, nil
}

func (f *fakeStore) CommitBooking(_ context.Context, b *model.Booking, seatLabels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := b.ShowtimeKey()
	occupied := f.taken[key]
	for _, label := range seatLabels {
		if _, ok := occupied[label]; ok {
			return &SeatError{Label: label, Err: ErrSeatUnavailable}
		}
	}
	if occupied == nil {
		occupied = make(map[string]struct{})
		f.taken[key] = occupied
	}
	for _, label := range seatLabels {
		occupied[label] = struct{}{}
	}
	f.nextID++
	b.ID = f.nextID
	b.Reference = fmt.Sprintf("ref-%d", f.nextID)
	b.CreatedAt = time.Now().UTC()
	return nil
}

// seed builds a catalog with one showtime on a 10 elite / 5 premium screen.
func seed() (*fakeCatalog, *fakeStore, model.ShowtimeKey) {
	key := model.ShowtimeKey{TheaterID: 1, MovieID: 7, ScreenID: 2, ShowDate: "2026-09-01", ShowTime: "18:00"}
	cat := &fakeCatalog{
		showtimes: map[model.ShowtimeKey]model.Showtime{
			key: {TheaterID: 1, MovieID: 7, ScreenID: 2, ShowDate: "2026-09-01", ShowTime: "18:00"},
		},
		screens: map[uint64]model.Screen{
			2: {TheaterID: 1, ScreenID: 2, EliteSeats: 10, PremiumSeats: 5},
		},
	}
	return cat, newFakeStore(), key
}

func TestCheckoutHappyPath(t *testing.T) {
	cat, store, key := seed()
	ctx := context.Background()

	co := NewCheckout(42, cat, store, store, DefaultRates())
	if co.State() != StateSelectingShowtime {
		t.Fatalf("initial state = %s", co.State())
	}

	if err := co.SelectShowtime(ctx, key); err != nil {
		t.Fatalf("SelectShowtime: %v", err)
	}
	if co.State() != StateSelectingSeats {
		t.Fatalf("state after showtime = %s", co.State())
	}

	q, err := co.SelectSeats(ctx, []string{"E1", "P1", "P2"})
	if err != nil {
		t.Fatalf("SelectSeats: %v", err)
	}
	if co.State() != StateReviewing {
		t.Fatalf("state after seats = %s", co.State())
	}
	// 1 elite + 2 premium: 150 + 380 = 530, tax 95.40, fee 25.
	if q.TotalCents != 65040 {
		t.Errorf("total = %d, want 65040", q.TotalCents)
	}

	b, err := co.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if co.State() != StateCommitted {
		t.Fatalf("state after commit = %s", co.State())
	}
	if b.ID == 0 || b.Reference == "" || b.CreatedAt.IsZero() {
		t.Errorf("booking not populated: %+v", b)
	}
	if b.UserID != 42 || b.EliteSeats != 1 || b.PremiumSeats != 2 || b.TotalCents != 65040 {
		t.Errorf("booking fields: %+v", b)
	}

	occupied, _ := store.OccupiedSeats(ctx, key)
	for _, label := range []string{"E1", "P1", "P2"} {
		if _, ok := occupied[label]; !ok {
			t.Errorf("seat %s not recorded as occupied", label)
		}
	}
}

func TestCheckoutStateOrder(t *testing.T) {
	cat, store, key := seed()
	ctx := context.Background()
	co := NewCheckout(1, cat, store, store, DefaultRates())

	var stateErr *StateError
	if _, err := co.SelectSeats(ctx, []string{"E1"}); !errors.As(err, &stateErr) {
		t.Errorf("SelectSeats before showtime: err = %v, want StateError", err)
	}
	if _, err := co.Commit(ctx); !errors.As(err, &stateErr) {
		t.Errorf("Commit before review: err = %v, want StateError", err)
	}

	if err := co.SelectShowtime(ctx, key); err != nil {
		t.Fatalf("SelectShowtime: %v", err)
	}
	if _, err := co.Commit(ctx); !errors.As(err, &stateErr) {
		t.Errorf("Commit before seats: err = %v, want StateError", err)
	}

	if _, err := co.SelectSeats(ctx, []string{"E1"}); err != nil {
		t.Fatalf("SelectSeats: %v", err)
	}
	if _, err := co.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Terminal state: nothing more is allowed.
	if err := co.SelectShowtime(ctx, key); !errors.As(err, &stateErr) {
		t.Errorf("SelectShowtime after commit: err = %v, want StateError", err)
	}
	if _, err := co.SelectSeats(ctx, []string{"E2"}); !errors.As(err, &stateErr) {
		t.Errorf("SelectSeats after commit: err = %v, want StateError", err)
	}
	if _, err := co.Commit(ctx); !errors.As(err, &stateErr) {
		t.Errorf("second Commit: err = %v, want StateError", err)
	}
}

func TestCheckoutReselectShowtimeResetsSeats(t *testing.T) {
	cat, store, key := seed()
	ctx := context.Background()
	co := NewCheckout(1, cat, store, store, DefaultRates())

	if err := co.SelectShowtime(ctx, key); err != nil {
		t.Fatalf("SelectShowtime: %v", err)
	}
	if _, err := co.SelectSeats(ctx, []string{"E1", "E2"}); err != nil {
		t.Fatalf("SelectSeats: %v", err)
	}
	if err := co.SelectShowtime(ctx, key); err != nil {
		t.Fatalf("re-SelectShowtime: %v", err)
	}
	if co.State() != StateSelectingSeats {
		t.Errorf("state = %s, want SELECTING_SEATS", co.State())
	}
	if seats := co.Seats(); len(seats) != 0 {
		t.Errorf("seats survived re-selection: %v", seats)
	}
}

func TestCheckoutUnknownShowtime(t *testing.T) {
	cat, store, key := seed()
	co := NewCheckout(1, cat, store, store, DefaultRates())
	missing := key
	missing.MovieID = 999
	if err := co.SelectShowtime(context.Background(), missing); !errors.Is(err, ErrShowtimeNotFound) {
		t.Errorf("err = %v, want ErrShowtimeNotFound", err)
	}
}

func TestCheckoutSeatTakenBetweenReviewAndCommit(t *testing.T) {
	cat, store, key := seed()
	ctx := context.Background()

	first := NewCheckout(1, cat, store, store, DefaultRates())
	if err := first.SelectShowtime(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := first.SelectSeats(ctx, []string{"E1"}); err != nil {
		t.Fatal(err)
	}

	// A second user books E1 while the first is still reviewing.
	second := NewCheckout(2, cat, store, store, DefaultRates())
	if err := second.SelectShowtime(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := second.SelectSeats(ctx, []string{"E1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := second.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	_, err := first.Commit(ctx)
	if !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("err = %v, want ErrSeatUnavailable", err)
	}
	if first.State() != StateReviewing {
		t.Errorf("failed commit left state %s, want REVIEWING", first.State())
	}
}

func TestCheckoutConcurrentCommitSingleWinner(t *testing.T) {
	cat, store, key := seed()
	ctx := context.Background()
	const contenders = 8

	// Everyone reviews the same seat before anyone commits.
	checkouts := make([]*Checkout, contenders)
	for i := range checkouts {
		co := NewCheckout(uint64(i+1), cat, store, store, DefaultRates())
		if err := co.SelectShowtime(ctx, key); err != nil {
			t.Fatal(err)
		}
		if _, err := co.SelectSeats(ctx, []string{"P3"}); err != nil {
			t.Fatal(err)
		}
		checkouts[i] = co
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i, co := range checkouts {
		wg.Add(1)
		go func(i int, co *Checkout) {
			defer wg.Done()
			_, errs[i] = co.Commit(ctx)
		}(i, co)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrSeatUnavailable):
		default:
			t.Errorf("contender %d: unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
}

func TestResume(t *testing.T) {
	cat, store, key := seed()
	ctx := context.Background()

	t.Run("empty selection", func(t *testing.T) {
		co, err := Resume(ctx, 1, cat, store, store, DefaultRates(), nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if co.State() != StateSelectingShowtime {
			t.Errorf("state = %s", co.State())
		}
	})

	t.Run("showtime only", func(t *testing.T) {
		co, err := Resume(ctx, 1, cat, store, store, DefaultRates(), &key, nil)
		if err != nil {
			t.Fatal(err)
		}
		if co.State() != StateSelectingSeats {
			t.Errorf("state = %s", co.State())
		}
	})

	t.Run("full selection reprices", func(t *testing.T) {
		co, err := Resume(ctx, 1, cat, store, store, DefaultRates(), &key, []string{"E3", "P4"})
		if err != nil {
			t.Fatal(err)
		}
		if co.State() != StateReviewing {
			t.Fatalf("state = %s", co.State())
		}
		if got := co.Quote().TotalCents; got != DefaultRates().Price(1, 1).TotalCents {
			t.Errorf("total = %d", got)
		}
	})

	t.Run("stale seats surface conflict", func(t *testing.T) {
		winner := NewCheckout(9, cat, store, store, DefaultRates())
		if err := winner.SelectShowtime(ctx, key); err != nil {
			t.Fatal(err)
		}
		if _, err := winner.SelectSeats(ctx, []string{"E9"}); err != nil {
			t.Fatal(err)
		}
		if _, err := winner.Commit(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := Resume(ctx, 1, cat, store, store, DefaultRates(), &key, []string{"E9"}); !errors.Is(err, ErrSeatUnavailable) {
			t.Errorf("err = %v, want ErrSeatUnavailable", err)
		}
	})

	t.Run("stale showtime surfaces not found", func(t *testing.T) {
		gone := key
		gone.ShowTime = "23:00"
		if _, err := Resume(ctx, 1, cat, store, store, DefaultRates(), &gone, nil); !errors.Is(err, ErrShowtimeNotFound) {
			t.Errorf("err = %v, want ErrShowtimeNotFound", err)
		}
	})
}
