package utils

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"same point", 43.238, 76.889, 43.238, 76.889, 0},
		{"one degree latitude", 51.0, 71.0, 52.0, 71.0, 111.19},
		{"almaty to astana", 43.238, 76.889, 51.169, 71.449, 970},
	}
	for _, tc := range cases {
		got := HaversineKm(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		tolerance := tc.want * 0.02
		if tolerance < 0.5 {
			tolerance = 0.5
		}
		if math.Abs(got-tc.want) > tolerance {
			t.Fatalf("%s: expected ~%f km, got %f", tc.name, tc.want, got)
		}
	}
}
