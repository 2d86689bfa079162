// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/handler"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth, while protected
// endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a bearer token (revoke all sessions) or a
	// refresh_token body (revoke one session), so it needs no middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterBrowse registers the public discovery endpoints.  No JWT is
// required; when a bearer token is present the theater listing handler
// reads it for distance sorting, which JWTAuthOptional below arranges.
// The response cache applies only here: its keys carry no user
// dimension, so it must never wrap personalized or authenticated routes.
func RegisterBrowse(e *echo.Echo, b *handler.BrowseHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/v1/locations", b.Locations, cache)
	e.GET("/v1/movies", b.ListMovies, cache)
	e.GET("/v1/movies/:id", b.GetMovie, cache)
	e.GET("/v1/theaters", b.ListTheaters, cache)
	// Theaters showing a movie, nearest first when an origin is known.
	// Uncached: the ordering depends on who is asking.
	e.GET("/v1/movies/:id/theaters", b.TheatersShowingMovie, middleware.JWTAuthOptional(jwtSecret))
	e.GET("/v1/theaters/:id/movies", b.MoviesAtTheater, cache)
	e.GET("/v1/theaters/:id/movies/:movie_id/showtimes", b.ShowtimesFor, cache)
}

// RegisterBooking registers the checkout flow and booking history under
// /v1/booking.  All routes require a valid JWT with the USER role.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/booking",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER"),
	)
	g.GET("/checkout", h.Checkout)
	g.POST("/checkout/showtime", h.SelectShowtime)
	g.GET("/checkout/availability", h.Availability)
	g.POST("/checkout/seats", h.SelectSeats)
	g.GET("/checkout/review", h.Review)
	g.POST("/checkout/pay", h.Pay)

	g.GET("/bookings", h.MyBookings)
	g.GET("/bookings/:id", h.GetBooking)
}

// RegisterAdmin registers catalog management, scheduling and reports
// under /v1/admin.  All routes require a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, m *handler.AdminMovieHandler, t *handler.AdminTheaterHandler, st *handler.AdminShowtimeHandler, r *handler.AdminReportHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/movies", m.Create)
	g.PUT("/movies/:id", m.Update)
	g.DELETE("/movies/:id", m.Delete)

	g.POST("/theaters", t.CreateTheater)
	g.PUT("/theaters/:id", t.UpdateTheater)
	g.DELETE("/theaters/:id", t.DeleteTheater)
	g.POST("/theaters/:id/screens", t.CreateScreen)
	g.GET("/theaters/:id/screens", t.ListScreens)
	g.PUT("/theaters/:id/screens/:screen_id", t.UpdateScreen)
	g.DELETE("/theaters/:id/screens/:screen_id", t.DeleteScreen)

	g.POST("/showtimes", st.Schedule)
	g.PUT("/showtimes", st.Update)
	g.DELETE("/showtimes", st.Delete)
	g.GET("/theaters/:id/showtimes", st.ListByTheater)

	g.GET("/reports/overview", r.Overview)
	g.GET("/reports/movies/:id/revenue", r.MovieRevenue)
	g.GET("/reports/theaters/:id/revenue", r.TheaterRevenue)
}
