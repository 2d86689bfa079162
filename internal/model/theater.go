package model

// Theater represents a cinema venue.  Its location must be one of the
// named locations known to the geo package; coordinates are resolved from
// that fixed table rather than stored per row.
//
// Fields:
//  ID       - primary key identifier.
//  Name     - display name of the theater.
//  Location - named locality (e.g. "ADYAR", "VELACHERY").
type Theater struct {
	ID       uint64 `json:"theater_id"` // theaters.theater_id
	Name     string `json:"name"`       // theaters.name
	Location string `json:"location"`   // theaters.location
}

// Screen is an auditorium inside a theater, identified by the composite
// key (TheaterID, ScreenID).  Each screen has a fixed capacity per seat
// tier; seat labels are validated against these capacities.
//
// Fields:
//  TheaterID    - owning theater.
//  ScreenID     - screen number within the theater.
//  Name         - display name (e.g. "Screen 2").
//  EliteSeats   - number of elite-tier seats.
//  PremiumSeats - number of premium-tier seats.
type Screen struct {
	TheaterID    uint64 `json:"theater_id"`    // screens.theater_id
	ScreenID     uint64 `json:"screen_id"`     // screens.screen_id
	Name         string `json:"name"`          // screens.name
	EliteSeats   uint32 `json:"elite_seats"`   // screens.elite_seats
	PremiumSeats uint32 `json:"premium_seats"` // screens.premium_seats
}
