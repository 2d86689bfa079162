package model

import "testing"

func TestParseShowDate(t *testing.T) {
	if _, err := ParseShowDate("2026-09-01"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"", "01-09-2026", "2026/09/01", "23rd May", "2026-13-01"} {
		if _, err := ParseShowDate(bad); err == nil {
			t.Errorf("ParseShowDate(%q) accepted", bad)
		}
	}
}

func TestCanonicalShowTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"18:00", "18:00"},
		{"18:00:00", "18:00"},
		{"09:30:15", "09:30"},
	}
	for _, tc := range cases {
		got, err := CanonicalShowTime(tc.in)
		if err != nil {
			t.Errorf("CanonicalShowTime(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("CanonicalShowTime(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "6pm", "25:00", "18.00"} {
		if _, err := CanonicalShowTime(bad); err == nil {
			t.Errorf("CanonicalShowTime(%q) accepted", bad)
		}
	}
}

func TestShowtimeKeyValidate(t *testing.T) {
	good := ShowtimeKey{TheaterID: 1, MovieID: 2, ScreenID: 3, ShowDate: "2026-09-01", ShowTime: "18:00"}
	if err := good.Validate(); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
	cases := []ShowtimeKey{
		{MovieID: 2, ScreenID: 3, ShowDate: "2026-09-01", ShowTime: "18:00"},
		{TheaterID: 1, ScreenID: 3, ShowDate: "2026-09-01", ShowTime: "18:00"},
		{TheaterID: 1, MovieID: 2, ShowDate: "2026-09-01", ShowTime: "18:00"},
		{TheaterID: 1, MovieID: 2, ScreenID: 3, ShowDate: "bad", ShowTime: "18:00"},
		{TheaterID: 1, MovieID: 2, ScreenID: 3, ShowDate: "2026-09-01", ShowTime: "bad"},
	}
	for i, k := range cases {
		if err := k.Validate(); err == nil {
			t.Errorf("case %d: invalid key accepted: %+v", i, k)
		}
	}
}
