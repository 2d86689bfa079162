package model

import "time"

// Movie represents a film in the catalog.  It corresponds to a row in the
// `movies` table.  Movies are created and maintained by administrators and
// referenced by showtimes; a movie cannot be deleted while a showtime
// still references it.
//
// Fields:
//  ID          - primary key identifier.
//  Name        - display title of the movie.
//  Genre       - free-form genre label.
//  Rating      - critic rating on a 0.0–10.0 scale, one decimal.
//  Description - synopsis shown on detail pages.
//  PosterURL   - media reference for the poster image.
//  RuntimeMin  - running time in minutes.
//  ReleaseDate - theatrical release date (nullable).
type Movie struct {
	ID          uint64     `json:"movie_id"`     // movies.movie_id
	Name        string     `json:"name"`         // movies.name
	Genre       string     `json:"genre"`        // movies.genre
	Rating      float64    `json:"rating"`       // movies.rating
	Description string     `json:"description"`  // movies.description
	PosterURL   string     `json:"poster_url"`   // movies.poster_url
	RuntimeMin  uint32     `json:"runtime_min"`  // movies.runtime_min
	ReleaseDate *time.Time `json:"release_date"` // movies.release_date (nullable)
}
