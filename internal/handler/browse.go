package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/geo"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/repository"
)

// BrowseHandler serves the discovery surface: movies, theaters showing
// them, and the showtime slots to pick from.  Listing endpoints are
// public; when a bearer token is present the theater listing is sorted
// by distance from the user's home city.
type BrowseHandler struct {
	Movies    *repository.MovieRepo
	Theaters  *repository.TheaterRepo
	Screens   *repository.ScreenRepo
	Showtimes *repository.ShowtimeRepo
	Users     *repository.UserRepo
}

func NewBrowseHandler(m *repository.MovieRepo, t *repository.TheaterRepo, sc *repository.ScreenRepo, st *repository.ShowtimeRepo, u *repository.UserRepo) *BrowseHandler {
	return &BrowseHandler{Movies: m, Theaters: t, Screens: sc, Showtimes: st, Users: u}
}

// Locations lists the supported localities a user or theater can be in.
func (h *BrowseHandler) Locations(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"locations": geo.All()})
}

// ListMovies returns the full movie catalog.
func (h *BrowseHandler) ListMovies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// GetMovie returns one movie by ID.
func (h *BrowseHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// ListTheaters returns every theater.
func (h *BrowseHandler) ListTheaters(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	theaters, err := h.Theaters.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list theaters failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"theaters": theaters})
}

// theaterEntry is a theater optionally annotated with the distance from
// the caller's city.
type theaterEntry struct {
	model.Theater
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// TheatersShowingMovie lists the theaters with at least one showtime for
// the movie.  The origin city is taken from the ?city= query parameter,
// or from the authenticated user's profile when absent; with a known
// origin the list is sorted nearest first.
func (h *BrowseHandler) TheatersShowingMovie(c echo.Context) error {
	movieID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}
	theaters, err := h.Theaters.ListShowingMovie(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list theaters failed"})
	}

	origin, haveOrigin := h.resolveOrigin(ctx, c)
	if !haveOrigin {
		out := make([]theaterEntry, len(theaters))
		for i, t := range theaters {
			out[i] = theaterEntry{Theater: t}
		}
		return c.JSON(http.StatusOK, echo.Map{"theaters": out})
	}

	ranked := geo.SortByDistance(origin, theaters, func(t model.Theater) string { return t.Location })
	out := make([]theaterEntry, len(ranked))
	for i, r := range ranked {
		e := theaterEntry{Theater: r.Item}
		if !math.IsInf(r.DistanceKm, 1) {
			d := r.DistanceKm
			e.DistanceKm = &d
		}
		out[i] = e
	}
	return c.JSON(http.StatusOK, echo.Map{"theaters": out, "origin": origin.Name})
}

// resolveOrigin finds the origin location for distance sorting: explicit
// ?city= wins, then the authenticated user's home city.
func (h *BrowseHandler) resolveOrigin(ctx context.Context, c echo.Context) (geo.Location, bool) {
	if city := strings.TrimSpace(c.QueryParam("city")); city != "" {
		if loc, ok := geo.Lookup(city); ok {
			return loc, true
		}
		return geo.Location{}, false
	}
	uid, err := getUserID(c)
	if err != nil {
		return geo.Location{}, false
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return geo.Location{}, false
	}
	return geo.Lookup(u.City)
}

// MoviesAtTheater lists the movies screened at a theater on a date
// (defaults to today).
func (h *BrowseHandler) MoviesAtTheater(c echo.Context) error {
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

	if _, err := h.Theaters.GetByID(ctx, theaterID); err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load theater failed"})
	}
	movies, err := h.Movies.ListByTheaterAndDate(ctx, theaterID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"theater_id": theaterID, "date": date, "movies": movies})
}

// ShowtimesFor lists the slots for a movie at a theater on a date.
func (h *BrowseHandler) ShowtimesFor(c echo.Context) error {
	theaterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	movieID, err := pathID(c, "movie_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	date, err := queryDate(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shows, err := h.Showtimes.ListByTheaterMovieDate(ctx, theaterID, movieID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list showtimes failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": shows})
}

// queryDate reads ?date= and validates it, defaulting to today (UTC).
func queryDate(c echo.Context) (string, error) {
	raw := strings.TrimSpace(c.QueryParam("date"))
	if raw == "" {
		return time.Now().UTC().Format("2006-01-02"), nil
	}
	if _, err := model.ParseShowDate(raw); err != nil {
		return "", err
	}
	return raw, nil
}
