package geo

import (
	"math"
	"testing"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		in    string
		found bool
	}{
		{"ADYAR", true},
		{"adyar", true},
		{"  Anna Nagar ", true},
		{"T. NAGAR", true},
		{"ATLANTIS", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, ok := Lookup(tc.in); ok != tc.found {
			t.Errorf("Lookup(%q) found = %v, want %v", tc.in, ok, tc.found)
		}
	}
}

func TestAllIsACopy(t *testing.T) {
	a := All()
	a[0].Name = "MUTATED"
	if b := All(); b[0].Name == "MUTATED" {
		t.Error("mutating the returned slice leaked into the table")
	}
}

func TestDistanceKm(t *testing.T) {
	adyar, _ := Lookup("ADYAR")
	avadi, _ := Lookup("AVADI")

	if d := DistanceKm(adyar, adyar); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
	forward := DistanceKm(adyar, avadi)
	if back := DistanceKm(avadi, adyar); math.Abs(forward-back) > 1e-9 {
		t.Errorf("asymmetric distance: %f vs %f", forward, back)
	}
	// Adyar to Avadi spans most of the city; sanity-bound the magnitude.
	if forward < 10 || forward > 40 {
		t.Errorf("Adyar-Avadi distance = %f km, outside plausible range", forward)
	}
}

func TestSortByDistance(t *testing.T) {
	origin, _ := Lookup("ADYAR")

	type theater struct {
		name string
		loc  string
	}
	items := []theater{
		{"far", "AVADI"},
		{"nowhere", "UNKNOWN PLACE"},
		{"near", "THIRUVANMIYUR"},
		{"mid", "KILPAUK"},
	}
	ranked := SortByDistance(origin, items, func(t theater) string { return t.loc })
	if len(ranked) != 4 {
		t.Fatalf("len = %d", len(ranked))
	}
	order := []string{"near", "mid", "far", "nowhere"}
	for i, want := range order {
		if ranked[i].Item.name != want {
			t.Errorf("position %d = %s, want %s", i, ranked[i].Item.name, want)
		}
	}
	if !math.IsInf(ranked[3].DistanceKm, 1) {
		t.Errorf("unknown location distance = %f, want +Inf", ranked[3].DistanceKm)
	}
}
