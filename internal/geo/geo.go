// Package geo holds the fixed table of named localities a theater (or a
// user's home) can be placed in, and distance helpers used to sort
// theaters by proximity.  Coordinates live here, not in the database, so
// the theaters table only stores the location name.
package geo

import (
	"math"
	"sort"
	"strings"
)

// Location is a named locality with known coordinates.
type Location struct {
	Name      string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// locations is the full set of supported localities.  Theater and user
// locations must match one of these names.
var locations = []Location{
	{"ANNA NAGAR", 13.0878, 80.2174},
	{"T. NAGAR", 13.0394, 80.2337},
	{"ADYAR", 13.0064, 80.2575},
	{"MYLAPORE", 13.0316, 80.2670},
	{"NUNGAMBAKKAM", 13.0620, 80.2405},
	{"ALWARPET", 13.0334, 80.2546},
	{"EGMORE", 13.0827, 80.2707},
	{"KILPAUK", 13.0827, 80.2437},
	{"SAIDAPET", 13.0203, 80.2224},
	{"VELACHERY", 12.9802, 80.2228},
	{"GUINDY", 13.0067, 80.2206},
	{"THIRUVANMIYUR", 12.9869, 80.2615},
	{"PORUR", 13.0324, 80.1679},
	{"MOGAPPAIR", 13.0832, 80.1674},
	{"ANNA SALAI", 13.0572, 80.2668},
	{"MAMBALAM", 13.0355, 80.2274},
	{"KODAMBAKKAM", 13.0512, 80.2206},
	{"MOUNT ROAD", 13.0626, 80.2696},
	{"PALLIKARANAI", 12.9329, 80.2135},
	{"ASHOK NAGAR", 13.0402, 80.2123},
	{"CHROMPET", 12.9517, 80.1401},
	{"AMBATTUR", 13.1075, 80.1648},
	{"TAMBARAM", 12.9246, 80.1479},
	{"VADAPALANI", 13.0501, 80.2120},
	{"ROYAPETTAH", 13.0581, 80.2641},
	{"SHOLINGANALLUR", 12.8990, 80.2279},
	{"AVADI", 13.1167, 80.1010},
	{"ENNORE", 13.2161, 80.3231},
	{"PALLAVARAM", 12.9686, 80.1504},
	{"VANAGARAM", 13.0733, 80.2090},
}

// byName is built once from the locations slice for O(1) lookups.
var byName = func() map[string]Location {
	m := make(map[string]Location, len(locations))
	for _, l := range locations {
		m[l.Name] = l
	}
	return m
}()

// All returns every supported location.  The slice is a copy; callers may
// mutate it freely.
func All() []Location {
	out := make([]Location, len(locations))
	copy(out, locations)
	return out
}

// Names returns the supported location names in table order.
func Names() []string {
	out := make([]string, len(locations))
	for i, l := range locations {
		out[i] = l.Name
	}
	return out
}

// Lookup resolves a location by name (case-insensitive, trimmed).
func Lookup(name string) (Location, bool) {
	l, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return l, ok
}

// IsKnown reports whether the name matches a supported location.
func IsKnown(name string) bool {
	_, ok := Lookup(name)
	return ok
}

const earthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between two
// locations in kilometers.
func DistanceKm(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Ranked pairs an arbitrary item with its distance from an origin.
type Ranked[T any] struct {
	Item       T
	DistanceKm float64
}

// SortByDistance ranks items by distance from the origin location,
// nearest first.  Items whose location name is unknown are ranked last.
// The locationOf callback extracts the location name from each item.
func SortByDistance[T any](origin Location, items []T, locationOf func(T) string) []Ranked[T] {
	out := make([]Ranked[T], 0, len(items))
	for _, it := range items {
		d := math.Inf(1)
		if loc, ok := Lookup(locationOf(it)); ok {
			d = DistanceKm(origin, loc)
		}
		out = append(out, Ranked[T]{Item: it, DistanceKm: d})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
