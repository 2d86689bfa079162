package booking

import (
	"errors"
	"testing"
)

func TestCheckMinGap(t *testing.T) {
	cases := []struct {
		name      string
		existing  []string
		candidate string
		wantErr   bool
	}{
		{"no existing shows", nil, "10:00", false},
		{"exactly one hour after", []string{"10:00"}, "11:00", false},
		{"exactly one hour before", []string{"10:00"}, "09:00", false},
		{"59 minutes after", []string{"10:00"}, "10:59", true},
		{"59 minutes before", []string{"10:00"}, "09:01", true},
		{"same time", []string{"10:00"}, "10:00", true},
		{"fits between two shows", []string{"09:00", "12:00"}, "10:30", false},
		{"too close to second of two", []string{"09:00", "12:00"}, "11:30", true},
		{"mysql time form accepted", []string{"10:00:00"}, "11:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckMinGap(tc.existing, tc.candidate)
			if tc.wantErr {
				if !errors.Is(err, ErrScheduleConflict) {
					t.Errorf("err = %v, want ErrScheduleConflict", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckMinGapMalformedInputs(t *testing.T) {
	// A malformed stored time conflicts rather than silently passing.
	if err := CheckMinGap([]string{"not-a-time"}, "10:00"); !errors.Is(err, ErrScheduleConflict) {
		t.Errorf("malformed existing: err = %v, want ErrScheduleConflict", err)
	}
	// A malformed candidate surfaces the parse error.
	if err := CheckMinGap([]string{"10:00"}, "25:99"); err == nil {
		t.Error("malformed candidate accepted")
	}
}
