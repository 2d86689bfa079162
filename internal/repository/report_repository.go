package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ReportRepo serves the admin aggregates: revenue per movie or theater
// and platform-wide counts.  Revenue is summed from committed bookings,
// so the figures always agree with what was actually charged.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo constructs a ReportRepo with the given DB handle.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// MovieRevenue sums the booking totals for one movie, in cents.  The
// movie must exist; an unknown ID yields ErrMovieNotFound rather than a
// silent zero.
func (r *ReportRepo) MovieRevenue(ctx context.Context, movieID uint64) (int64, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE movie_id = ?`, movieID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrMovieNotFound
		}
		return 0, err
	}
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_cents), 0) FROM bookings WHERE movie_id = ?`, movieID).Scan(&cents)
	return cents, err
}

// TheaterRevenue sums the booking totals for one theater, in cents.
func (r *ReportRepo) TheaterRevenue(ctx context.Context, theaterID uint64) (int64, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE theater_id = ?`, theaterID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTheaterNotFound
		}
		return 0, err
	}
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_cents), 0) FROM bookings WHERE theater_id = ?`, theaterID).Scan(&cents)
	return cents, err
}

// TotalRevenue sums every booking total on the platform, in cents.
func (r *ReportRepo) TotalRevenue(ctx context.Context) (int64, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_cents), 0) FROM bookings`).Scan(&cents)
	return cents, err
}

// Counts holds the platform-wide totals shown on the admin dashboard.
type Counts struct {
	Movies      int64 `json:"movies"`
	Theaters    int64 `json:"theaters"`
	ActiveUsers int64 `json:"active_users"`
	Bookings    int64 `json:"bookings"`
}

// PlatformCounts gathers the dashboard counters in one call.
func (r *ReportRepo) PlatformCounts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM movies),
		(SELECT COUNT(*) FROM theaters),
		(SELECT COUNT(*) FROM users WHERE is_active = 1 AND role = 'USER'),
		(SELECT COUNT(*) FROM bookings)`).Scan(&c.Movies, &c.Theaters, &c.ActiveUsers, &c.Bookings)
	return c, err
}

// RevenueRow pairs an entity with its summed revenue.
type RevenueRow struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	RevenueCents int64  `json:"revenue_cents"`
}

// TopMoviesByRevenue lists movies ordered by summed booking revenue,
// limited to n rows.  Movies with no bookings are omitted.
func (r *ReportRepo) TopMoviesByRevenue(ctx context.Context, n int) ([]RevenueRow, error) {
	const q = `SELECT m.movie_id, m.name, SUM(b.total_cents) AS revenue
	           FROM bookings b
	           JOIN movies m ON m.movie_id = b.movie_id
	           GROUP BY m.movie_id, m.name
	           ORDER BY revenue DESC, m.movie_id
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RevenueRow, 0)
	for rows.Next() {
		var row RevenueRow
		if err := rows.Scan(&row.ID, &row.Name, &row.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
