package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/repository"
)

// AdminReportHandler serves the revenue and platform-count reports.
type AdminReportHandler struct {
	Reports *repository.ReportRepo
}

func NewAdminReportHandler(r *repository.ReportRepo) *AdminReportHandler {
	return &AdminReportHandler{Reports: r}
}

// MovieRevenue reports the total revenue of one movie.
func (h *AdminReportHandler) MovieRevenue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cents, err := h.Reports.MovieRevenue(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie_id":      id,
		"revenue_cents": cents,
		"revenue":       booking.FormatAmount(cents),
	})
}

// TheaterRevenue reports the total revenue of one theater.
func (h *AdminReportHandler) TheaterRevenue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cents, err := h.Reports.TheaterRevenue(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"theater_id":    id,
		"revenue_cents": cents,
		"revenue":       booking.FormatAmount(cents),
	})
}

// Overview returns the dashboard: platform counts, total revenue and the
// top movies by revenue (?top=N, default 5).
func (h *AdminReportHandler) Overview(c echo.Context) error {
	top := 5
	if raw := c.QueryParam("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "top must be between 1 and 100"})
		}
		top = n
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	counts, err := h.Reports.PlatformCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report failed"})
	}
	total, err := h.Reports.TotalRevenue(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report failed"})
	}
	topMovies, err := h.Reports.TopMoviesByRevenue(ctx, top)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"counts":              counts,
		"total_revenue_cents": total,
		"total_revenue":       booking.FormatAmount(total),
		"top_movies":          topMovies,
	})
}
