package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/queue"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/repository"
	queuepub "github.com/mkrishnan-dev/movie-ticket-booking/internal/service"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/session"
)

// BookingHandler drives the checkout flow.  The durable state between
// requests (chosen showtime, chosen seats) lives in the session store;
// each request rebuilds a booking.Checkout from it, applies one step,
// and writes the selection back.  Nothing holds seats until payment.
type BookingHandler struct {
	Catalog  *repository.Catalog
	Bookings *repository.BookingRepo
	Movies   *repository.MovieRepo
	Theaters *repository.TheaterRepo
	Sessions session.Store
	Rates    booking.Rates
}

func NewBookingHandler(cat *repository.Catalog, b *repository.BookingRepo, m *repository.MovieRepo, t *repository.TheaterRepo, s session.Store, rates booking.Rates) *BookingHandler {
	return &BookingHandler{Catalog: cat, Bookings: b, Movies: m, Theaters: t, Sessions: s, Rates: rates}
}

// ----- DTOs -----

type showtimeReq struct {
	TheaterID uint64 `json:"theater_id"`
	MovieID   uint64 `json:"movie_id"`
	ScreenID  uint64 `json:"screen_id"`
	ShowDate  string `json:"show_date"`
	ShowTime  string `json:"show_time"`
}

func (r showtimeReq) key() model.ShowtimeKey {
	return model.ShowtimeKey{
		TheaterID: r.TheaterID,
		MovieID:   r.MovieID,
		ScreenID:  r.ScreenID,
		ShowDate:  r.ShowDate,
		ShowTime:  r.ShowTime,
	}
}

type seatsReq struct {
	Seats []string `json:"seats"`
}

type checkoutResp struct {
	State    string           `json:"state"`
	Showtime *model.Showtime  `json:"showtime,omitempty"`
	Seats    []string         `json:"seats,omitempty"`
	Quote    *booking.Display `json:"quote,omitempty"`
}

func checkoutView(co *booking.Checkout) checkoutResp {
	resp := checkoutResp{State: co.State().String(), Showtime: co.Showtime()}
	if seats := co.Seats(); len(seats) > 0 {
		resp.Seats = seats
	}
	if co.State() == booking.StateReviewing {
		d := co.Quote().Display()
		resp.Quote = &d
	}
	return resp
}

// bookingErr maps checkout/booking failures to HTTP responses.
func bookingErr(c echo.Context, err error) error {
	var stateErr *booking.StateError
	switch {
	case errors.Is(err, booking.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	case errors.Is(err, repository.ErrScreenNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
	case errors.Is(err, booking.ErrEmptySelection):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "select at least one seat"})
	case errors.Is(err, booking.ErrInvalidSeat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.As(err, &stateErr):
		return c.JSON(http.StatusConflict, echo.Map{"error": stateErr.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
}

// resume rebuilds the user's checkout from the stored selection.  A
// selection gone stale (showtime deleted, seats sold) is cleared so the
// user restarts cleanly instead of looping on the same error.
func (h *BookingHandler) resume(ctx context.Context, userID uint64) (*booking.Checkout, error) {
	sel, err := h.Sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	co, err := booking.Resume(ctx, userID, h.Catalog, h.Bookings, h.Bookings, h.Rates, sel.ShowtimeKey, sel.Seats)
	if err != nil {
		_ = h.Sessions.Clear(ctx, userID)
		return nil, err
	}
	return co, nil
}

// Checkout reports the current phase of the user's booking flow.
func (h *BookingHandler) Checkout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	co, err := h.resume(ctx, uid)
	if err != nil {
		return bookingErr(c, err)
	}
	return c.JSON(http.StatusOK, checkoutView(co))
}

// SelectShowtime picks the screening to book.  Re-selecting before
// payment restarts the seat phase.
func (h *BookingHandler) SelectShowtime(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	key := req.key()
	if err := key.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co := booking.NewCheckout(uid, h.Catalog, h.Bookings, h.Bookings, h.Rates)
	if err := co.SelectShowtime(ctx, key); err != nil {
		return bookingErr(c, err)
	}
	if err := h.Sessions.Set(ctx, uid, session.Selection{ShowtimeKey: &key}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save selection failed"})
	}
	return c.JSON(http.StatusOK, checkoutView(co))
}

// Availability returns the seat grid of the selected showtime: the
// screen's capacity per tier and the labels already sold.
func (h *BookingHandler) Availability(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	co, err := h.resume(ctx, uid)
	if err != nil {
		return bookingErr(c, err)
	}
	st := co.Showtime()
	if st == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "select a showtime first"})
	}
	screen, err := h.Catalog.GetScreen(ctx, st.TheaterID, st.ScreenID)
	if err != nil {
		return bookingErr(c, err)
	}
	occupied, err := h.Bookings.OccupiedSeats(ctx, st.Key())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load availability failed"})
	}
	taken := make([]string, 0, len(occupied))
	for label := range occupied {
		taken = append(taken, label)
	}
	sort.Strings(taken)
	return c.JSON(http.StatusOK, echo.Map{
		"showtime":      st,
		"elite_seats":   screen.EliteSeats,
		"premium_seats": screen.PremiumSeats,
		"occupied":      taken,
	})
}

// SelectSeats validates and prices a seat selection, returning the
// itemized quote.  The quote is advisory; seats are only secured by Pay.
func (h *BookingHandler) SelectSeats(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req seatsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sel, err := h.Sessions.Get(ctx, uid)
	if err != nil || sel.ShowtimeKey == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "select a showtime first"})
	}
	co, err := booking.Resume(ctx, uid, h.Catalog, h.Bookings, h.Bookings, h.Rates, sel.ShowtimeKey, nil)
	if err != nil {
		_ = h.Sessions.Clear(ctx, uid)
		return bookingErr(c, err)
	}
	if _, err := co.SelectSeats(ctx, req.Seats); err != nil {
		return bookingErr(c, err)
	}
	sel.Seats = co.Seats()
	if err := h.Sessions.Set(ctx, uid, sel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save selection failed"})
	}
	return c.JSON(http.StatusOK, checkoutView(co))
}

// Review re-validates the stored selection and returns the quote.
func (h *BookingHandler) Review(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	co, err := h.resume(ctx, uid)
	if err != nil {
		return bookingErr(c, err)
	}
	if co.State() != booking.StateReviewing {
		return c.JSON(http.StatusConflict, echo.Map{"error": "nothing to review, select showtime and seats first"})
	}
	return c.JSON(http.StatusOK, checkoutView(co))
}

// Pay commits the booking.  The store re-validates seat availability
// inside one transaction, so a seat sold since review fails the whole
// payment and nothing is charged.  On success the confirmation with the
// booking reference is returned and a ticket event is published.
func (h *BookingHandler) Pay(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	co, err := h.resume(ctx, uid)
	if err != nil {
		return bookingErr(c, err)
	}
	if co.State() != booking.StateReviewing {
		return c.JSON(http.StatusConflict, echo.Map{"error": "nothing to pay, select showtime and seats first"})
	}
	seats := co.Seats()
	b, err := co.Commit(ctx)
	if err != nil {
		if errors.Is(err, booking.ErrSeatUnavailable) {
			// Keep the showtime but drop the stale seats so the user
			// re-picks from the fresh availability.
			if sel, serr := h.Sessions.Get(ctx, uid); serr == nil && sel.ShowtimeKey != nil {
				sel.Seats = nil
				_ = h.Sessions.Set(ctx, uid, sel)
			}
		}
		return bookingErr(c, err)
	}
	_ = h.Sessions.Clear(ctx, uid)

	h.publishTicket(b, seats)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking": b,
		"seats":   seats,
		"total":   booking.FormatAmount(b.TotalCents),
	})
}

// publishTicket emits the ticket.issued event.  Publishing is best
// effort; the booking is already durable.
func (h *BookingHandler) publishTicket(b *model.Booking, seats []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	movieName, theaterName := "", ""
	if m, err := h.Movies.GetByID(ctx, b.MovieID); err == nil {
		movieName = m.Name
	}
	if t, err := h.Theaters.GetByID(ctx, b.TheaterID); err == nil {
		theaterName = t.Name
	}
	_ = queuepub.PublishTicketIssued(ctx, queue.TicketIssuedEvent{
		BookingID:    b.ID,
		Reference:    b.Reference,
		UserID:       b.UserID,
		MovieID:      b.MovieID,
		MovieName:    movieName,
		TheaterID:    b.TheaterID,
		TheaterName:  theaterName,
		ScreenID:     b.ScreenID,
		ShowDate:     b.ShowDate,
		ShowTime:     b.ShowTime,
		SeatLabels:   seats,
		TotalCents:   b.TotalCents,
		TotalDisplay: booking.FormatAmount(b.TotalCents),
		IssuedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// MyBookings lists the user's booking history, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// GetBooking returns one booking with its seats; only the owner may see it.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	d, err := h.Bookings.GetByIDForUser(ctx, bookingID, uid)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, d)
}
