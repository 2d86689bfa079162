// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published when a booking is committed and the
// ticket issued.  It carries enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.
type TicketIssuedEvent struct {
    BookingID    uint64   `json:"booking_id"`
    Reference    string   `json:"reference"`
    UserID       uint64   `json:"user_id"`
    MovieID      uint64   `json:"movie_id"`
    MovieName    string   `json:"movie_name"`
    TheaterID    uint64   `json:"theater_id"`
    TheaterName  string   `json:"theater_name"`
    ScreenID     uint64   `json:"screen_id"`
    ShowDate     string   `json:"show_date"`
    ShowTime     string   `json:"show_time"`
    SeatLabels   []string `json:"seats"`
    TotalCents   int64    `json:"total_cents"`
    TotalDisplay string   `json:"total"`
    IssuedAt     string   `json:"issued_at"`
}
