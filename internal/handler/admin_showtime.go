package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/repository"
)

// AdminShowtimeHandler schedules and maintains showtimes.
type AdminShowtimeHandler struct {
	Showtimes *repository.ShowtimeRepo
	Movies    *repository.MovieRepo
	Screens   *repository.ScreenRepo
}

func NewAdminShowtimeHandler(st *repository.ShowtimeRepo, m *repository.MovieRepo, sc *repository.ScreenRepo) *AdminShowtimeHandler {
	return &AdminShowtimeHandler{Showtimes: st, Movies: m, Screens: sc}
}

// normalize validates a showtime request and canonicalizes the time.
func (h *AdminShowtimeHandler) normalize(ctx context.Context, req showtimeReq) (*model.Showtime, int, error) {
	key := req.key()
	if err := key.Validate(); err != nil {
		return nil, http.StatusBadRequest, err
	}
	canon, err := model.CanonicalShowTime(key.ShowTime)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	if _, err := h.Movies.GetByID(ctx, key.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return nil, http.StatusNotFound, errors.New("movie not found")
		}
		return nil, http.StatusInternalServerError, errors.New("load movie failed")
	}
	if _, err := h.Screens.Get(ctx, key.TheaterID, key.ScreenID); err != nil {
		if errors.Is(err, repository.ErrScreenNotFound) {
			return nil, http.StatusNotFound, errors.New("screen not found")
		}
		return nil, http.StatusInternalServerError, errors.New("load screen failed")
	}
	return &model.Showtime{
		TheaterID: key.TheaterID,
		MovieID:   key.MovieID,
		ScreenID:  key.ScreenID,
		ShowDate:  key.ShowDate,
		ShowTime:  canon,
	}, 0, nil
}

// Schedule creates a showtime, enforcing the one-hour minimum gap
// between screenings on the same screen and date.
func (h *AdminShowtimeHandler) Schedule(c echo.Context) error {
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, code, err := h.normalize(ctx, req)
	if err != nil {
		return c.JSON(code, echo.Map{"error": err.Error()})
	}
	if err := h.Showtimes.Schedule(ctx, s); err != nil {
		switch {
		case errors.Is(err, booking.ErrScheduleConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrDuplicateShowtime):
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "schedule showtime failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

type showtimeUpdateReq struct {
	Old showtimeReq `json:"old"`
	New showtimeReq `json:"new"`
}

// Update moves a showtime to a new slot, re-validating the gap.  A
// showtime with committed bookings cannot be moved.
func (h *AdminShowtimeHandler) Update(c echo.Context) error {
	var req showtimeUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	oldKey := req.Old.key()
	if err := oldKey.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, code, err := h.normalize(ctx, req.New)
	if err != nil {
		return c.JSON(code, echo.Map{"error": err.Error()})
	}
	if canon, err := model.CanonicalShowTime(oldKey.ShowTime); err == nil {
		oldKey.ShowTime = canon
	}
	if err := h.Showtimes.Update(ctx, oldKey, s); err != nil {
		switch {
		case errors.Is(err, booking.ErrShowtimeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		case errors.Is(err, booking.ErrScheduleConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrDuplicateShowtime):
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime already exists"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime has committed bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update showtime failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// Delete removes a showtime that has no committed bookings.
func (h *AdminShowtimeHandler) Delete(c echo.Context) error {
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	key := req.key()
	if err := key.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if canon, err := model.CanonicalShowTime(key.ShowTime); err == nil {
		key.ShowTime = canon
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Showtimes.Delete(ctx, key); err != nil {
		switch {
		case errors.Is(err, booking.ErrShowtimeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime has committed bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete showtime failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByTheater returns all showtimes at a theater on a date, grouped by
// the caller on screen and time.
func (h *AdminShowtimeHandler) ListByTheater(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	date, err := queryDate(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	shows, err := h.Showtimes.ListByTheaterDate(ctx, theaterID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list showtimes failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": shows})
}
