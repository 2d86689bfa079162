package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/geo"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/repository"
)

// AdminTheaterHandler covers the admin theater and screen CRUD.
type AdminTheaterHandler struct {
	Theaters *repository.TheaterRepo
	Screens  *repository.ScreenRepo
}

func NewAdminTheaterHandler(t *repository.TheaterRepo, s *repository.ScreenRepo) *AdminTheaterHandler {
	return &AdminTheaterHandler{Theaters: t, Screens: s}
}

type theaterReq struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// CreateTheater adds a theater.  The location must be one of the known
// localities so distance sorting always has coordinates to work with.
func (h *AdminTheaterHandler) CreateTheater(c echo.Context) error {
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	loc, ok := geo.Lookup(req.Location)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown location", "known_locations": geo.Names()})
	}
	t := &model.Theater{Name: req.Name, Location: loc.Name}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Theaters.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theater failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// UpdateTheater rewrites a theater's name and location.
func (h *AdminTheaterHandler) UpdateTheater(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	var req theaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	loc, ok := geo.Lookup(req.Location)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown location", "known_locations": geo.Names()})
	}
	t := &model.Theater{ID: id, Name: req.Name, Location: loc.Name}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Theaters.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update theater failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteTheater removes a theater.  With ?cascade=true its screens and
// showtimes go too; either way committed bookings block the deletion.
func (h *AdminTheaterHandler) DeleteTheater(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if strings.EqualFold(c.QueryParam("cascade"), "true") {
		err = h.Theaters.DeleteCascade(ctx, id)
	} else {
		err = h.Theaters.Delete(ctx, id)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTheaterNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		case errors.Is(err, booking.ErrReferencedByShowtime):
			return c.JSON(http.StatusConflict, echo.Map{"error": "theater has scheduled showtimes"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "theater has committed bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete theater failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- screens -----

type screenReq struct {
	ScreenID     uint64 `json:"screen_id"`
	Name         string `json:"name"`
	EliteSeats   uint32 `json:"elite_seats"`
	PremiumSeats uint32 `json:"premium_seats"`
}

// CreateScreen adds a screen under a theater.  The screen number is
// chosen by the admin; capacities fix the seat grid for both tiers.
func (h *AdminTheaterHandler) CreateScreen(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	var req screenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ScreenID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen_id required"})
	}
	if req.EliteSeats == 0 && req.PremiumSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen needs at least one seat"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Theaters.GetByID(ctx, theaterID); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load theater failed"})
	}
	s := &model.Screen{
		TheaterID:    theaterID,
		ScreenID:     req.ScreenID,
		Name:         strings.TrimSpace(req.Name),
		EliteSeats:   req.EliteSeats,
		PremiumSeats: req.PremiumSeats,
	}
	if err := h.Screens.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create screen failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// ListScreens returns the screens of a theater.
func (h *AdminTheaterHandler) ListScreens(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	screens, err := h.Screens.ListByTheater(ctx, theaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list screens failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"screens": screens})
}

// UpdateScreen rewrites a screen's name and capacities.  Shrinking a
// screen that already sold seats beyond the new capacity is not guarded
// here; the seat validator rejects new selections outside the grid.
func (h *AdminTheaterHandler) UpdateScreen(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	screenID, err := pathID(c, "screen_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	var req screenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EliteSeats == 0 && req.PremiumSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen needs at least one seat"})
	}
	s := &model.Screen{
		TheaterID:    theaterID,
		ScreenID:     screenID,
		Name:         strings.TrimSpace(req.Name),
		EliteSeats:   req.EliteSeats,
		PremiumSeats: req.PremiumSeats,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Screens.Update(ctx, s); err != nil {
		if errors.Is(err, repository.ErrScreenNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update screen failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteScreen removes a screen that no showtime references.
func (h *AdminTheaterHandler) DeleteScreen(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	screenID, err := pathID(c, "screen_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Screens.Delete(ctx, theaterID, screenID); err != nil {
		switch {
		case errors.Is(err, repository.ErrScreenNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
		case errors.Is(err, booking.ErrReferencedByShowtime):
			return c.JSON(http.StatusConflict, echo.Map{"error": "screen has scheduled showtimes"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete screen failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
