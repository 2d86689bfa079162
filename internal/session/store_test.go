package session

import (
	"context"
	"sync"
	"testing"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// Absent users yield a zero selection, not an error.
	sel, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sel.ShowtimeKey != nil || len(sel.Seats) != 0 {
		t.Errorf("zero selection expected, got %+v", sel)
	}

	key := model.ShowtimeKey{TheaterID: 1, MovieID: 2, ScreenID: 3, ShowDate: "2026-09-01", ShowTime: "18:00"}
	if err := s.Set(ctx, 1, Selection{ShowtimeKey: &key, Seats: []string{"E1", "P2"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	sel, err = s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sel.ShowtimeKey == nil || *sel.ShowtimeKey != key || len(sel.Seats) != 2 {
		t.Errorf("stored selection = %+v", sel)
	}

	// Selections are per user.
	if other, _ := s.Get(ctx, 2); other.ShowtimeKey != nil {
		t.Errorf("user 2 sees user 1's selection: %+v", other)
	}

	if err := s.Clear(ctx, 1); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if sel, _ = s.Get(ctx, 1); sel.ShowtimeKey != nil {
		t.Errorf("selection survived Clear: %+v", sel)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	key := model.ShowtimeKey{TheaterID: 1, MovieID: 1, ScreenID: 1, ShowDate: "2026-09-01", ShowTime: "18:00"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			_ = s.Set(ctx, uid, Selection{ShowtimeKey: &key})
			_, _ = s.Get(ctx, uid)
			_ = s.Clear(ctx, uid)
		}(uint64(i))
	}
	wg.Wait()
}

func TestNewFallsBackToMemory(t *testing.T) {
	if _, ok := New(nil, "checkout", 0).(*MemoryStore); !ok {
		t.Error("nil redis client should yield a MemoryStore")
	}
}
