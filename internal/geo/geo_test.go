package geo

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceSamePointIsZero(t *testing.T) {
	points := []Coordinate{
		{0, 0},
		{24.7136, 46.6753},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Fatalf("expected 0 for %+v, got %v", p, d)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{{0, 0}, {0.0009, 0}},
		{{24.7136, 46.6753}, {21.4858, 39.1925}},
		{{51.5074, -0.1278}, {40.7128, -74.0060}},
		{{-33.8688, 151.2093}, {35.6762, 139.6503}},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if math.Abs(ab-ba) > 1e-6*math.Max(ab, 1) {
			t.Fatalf("asymmetric distance for %+v: %v vs %v", p, ab, ba)
		}
	}
}

func TestDistanceHundredMetersNearEquator(t *testing.T) {
	d := Distance(Coordinate{0, 0}, Coordinate{0.0009, 0})
	if math.Abs(d-100) > 1 {
		t.Fatalf("expected ~100m, got %v", d)
	}
}

func TestDistanceKnownCity(t *testing.T) {
	// London to Paris is roughly 343.5 km on the mean-radius sphere.
	d := Distance(Coordinate{51.5074, -0.1278}, Coordinate{48.8566, 2.3522})
	if math.Abs(d-343556) > 500 {
		t.Fatalf("unexpected London-Paris distance %v", d)
	}
}

func TestValidate(t *testing.T) {
	valid := []Coordinate{{0, 0}, {90, 180}, {-90, -180}, {24.7, 46.6}}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Fatalf("expected %+v to be valid: %v", c, err)
		}
	}
	invalid := []Coordinate{
		{91, 0},
		{-90.01, 0},
		{0, 180.5},
		{0, -181},
		{math.NaN(), 0},
		{0, math.Inf(1)},
	}
	for _, c := range invalid {
		err := c.Validate()
		if err == nil {
			t.Fatalf("expected %+v to be invalid", c)
		}
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
		}
	}
}
