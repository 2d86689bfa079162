package booking

import (
	"time"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// MinShowGap is the minimum separation between the start times of two
// showtimes on the same screen and date.  A gap of exactly MinShowGap is
// allowed; anything shorter conflicts.
const MinShowGap = time.Hour

// CheckMinGap validates a candidate start time against the start times of
// the showtimes already scheduled on the same (theater, screen, date).
// The check is scoped to a single date: the caller passes only the times
// of that date's showtimes, and midnight wrap-around is deliberately not
// considered.  Returns ErrScheduleConflict on violation.
func CheckMinGap(existing []string, candidate string) error {
	cand, err := model.ParseShowTime(candidate)
	if err != nil {
		return err
	}
	for _, raw := range existing {
		t, err := model.ParseShowTime(raw)
		if err != nil {
			// A malformed stored time cannot be compared; treat the slot
			// as conflicting rather than silently admitting overlap.
			return ErrScheduleConflict
		}
		gap := cand.Sub(t)
		if gap < 0 {
			gap = -gap
		}
		if gap < MinShowGap {
			return ErrScheduleConflict
		}
	}
	return nil
}
