package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/repository"
)

// AdminMovieHandler covers the admin movie catalog CRUD.
type AdminMovieHandler struct {
	Movies *repository.MovieRepo
}

func NewAdminMovieHandler(m *repository.MovieRepo) *AdminMovieHandler {
	return &AdminMovieHandler{Movies: m}
}

type movieReq struct {
	Name        string  `json:"name"`
	Genre       string  `json:"genre"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
	PosterURL   string  `json:"poster_url"`
	RuntimeMin  uint32  `json:"runtime_min"`
	ReleaseDate string  `json:"release_date"` // YYYY-MM-DD, optional
}

func (r movieReq) toModel() (*model.Movie, error) {
	m := &model.Movie{
		Name:        strings.TrimSpace(r.Name),
		Genre:       strings.TrimSpace(r.Genre),
		Rating:      r.Rating,
		Description: strings.TrimSpace(r.Description),
		PosterURL:   strings.TrimSpace(r.PosterURL),
		RuntimeMin:  r.RuntimeMin,
	}
	if m.Name == "" {
		return nil, errors.New("name required")
	}
	if m.Rating < 0 || m.Rating > 10 {
		return nil, errors.New("rating must be between 0 and 10")
	}
	if d := strings.TrimSpace(r.ReleaseDate); d != "" {
		t, err := model.ParseShowDate(d)
		if err != nil {
			return nil, errors.New("invalid release_date, want YYYY-MM-DD")
		}
		m.ReleaseDate = &t
	}
	return m, nil
}

// Create adds a movie to the catalog.
func (h *AdminMovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update rewrites a movie's attributes.
func (h *AdminMovieHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	m.ID = id
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Movies.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete removes a movie that no showtime references.
func (h *AdminMovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Movies.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case errors.Is(err, booking.ErrReferencedByShowtime):
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie has scheduled showtimes"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
