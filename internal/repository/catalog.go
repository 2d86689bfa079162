package repository

import (
	"context"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// Catalog adapts the showtime and screen repos to the lookup surface the
// checkout flow consumes (booking.Catalog).
type Catalog struct {
	showtimes *ShowtimeRepo
	screens   *ScreenRepo
}

// NewCatalog constructs a Catalog over the two repos.
func NewCatalog(showtimes *ShowtimeRepo, screens *ScreenRepo) *Catalog {
	return &Catalog{showtimes: showtimes, screens: screens}
}

// LookupShowtime resolves a showtime by key.
func (c *Catalog) LookupShowtime(ctx context.Context, key model.ShowtimeKey) (*model.Showtime, error) {
	return c.showtimes.Lookup(ctx, key)
}

// GetScreen resolves a screen by composite key.
func (c *Catalog) GetScreen(ctx context.Context, theaterID, screenID uint64) (*model.Screen, error) {
	return c.screens.Get(ctx, theaterID, screenID)
}
