package geo

import (
	"math"
	"testing"
)

func TestDistanceCoincidentIsZero(t *testing.T) {
	p := NewPoint(51.04, 36.09)
	if d := Distance(p, p); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
	if !Within(p, p, 0) {
		t.Fatal("radius 0 should include a coincident point")
	}
}

func TestDistanceKnownPairs(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Point
		want    float64
		epsilon float64
	}{
		{
			// about 131 km apart
			name: "one degree diagonal", a: NewPoint(51.04, 36.09), b: NewPoint(52.04, 37.09),
			want: 131000, epsilon: 3000,
		},
		{
			// Flinders Peak to Buninyong, a standard geodesic reference pair.
			name: "flinders peak to buninyong",
			a:    NewPoint(-37.95103341666667, 144.42486788888888),
			b:    NewPoint(-37.65282113888889, 143.92649552777777),
			want: 54972.271, epsilon: 0.01,
		},
		{
			name: "one degree of longitude at the equator",
			a:    NewPoint(0, 0), b: NewPoint(0, 1),
			want: 111319.491, epsilon: 0.01,
		},
		{
			name: "across the antimeridian",
			a:    NewPoint(0, 179.9995), b: NewPoint(0, -179.9995),
			want: 111.319, epsilon: 0.01,
		},
		{
			name: "same pole different meridians",
			a:    NewPoint(90, 0), b: NewPoint(90, 135),
			want: 0, epsilon: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.epsilon {
				t.Fatalf("Distance(%v, %v) = %.3f want %.3f ±%.3f", tt.a, tt.b, got, tt.want, tt.epsilon)
			}
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := NewPoint(40.7128, -74.0060)
	b := NewPoint(34.0522, -118.2437)
	if d1, d2 := Distance(a, b), Distance(b, a); math.Abs(d1-d2) > 1e-6 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestDistanceAntipodal(t *testing.T) {
	// Half the meridian: the shortest path between equatorial antipodes runs
	// over a pole.
	d := Distance(NewPoint(0, 0), NewPoint(0, 180))
	if math.Abs(d-20003931.4586) > 0.01 {
		t.Fatalf("unexpected antipodal distance %.4f", d)
	}

	near := Distance(NewPoint(0, 0), NewPoint(0.5, 179.7))
	if math.IsNaN(near) || near < 19_900_000 || near > 20_003_932 {
		t.Fatalf("unexpected near-antipodal distance %v", near)
	}
}

func TestDestinationRoundTrip(t *testing.T) {
	origin := NewPoint(51.04, 36.09)
	for _, meters := range []float64{0, 1, 12.5, 5_000, 250_000} {
		for _, bearing := range []float64{0, 45, 90, 200, 315} {
			got := Distance(origin, Destination(origin, bearing, meters))
			if math.Abs(got-meters) > 1e-6 {
				t.Fatalf("bearing %v: travelled %v m, measured %.9f", bearing, meters, got)
			}
		}
	}
}

func TestDestinationWrapsAntimeridian(t *testing.T) {
	p := Destination(NewPoint(0, 179.9999), 90, 1000)
	if err := p.Validate(); err != nil {
		t.Fatalf("destination out of range: %v", err)
	}
	if p.Lng > 0 {
		t.Fatalf("expected eastward travel to wrap to a negative longitude, got %v", p)
	}
}

func TestValidate(t *testing.T) {
	valid := []Point{NewPoint(0, 0), NewPoint(90, 180), NewPoint(-90, -180)}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Fatalf("expected %v to be valid: %v", p, err)
		}
	}

	invalid := []Point{
		NewPoint(90.0001, 0),
		NewPoint(0, -180.1),
		NewPoint(math.NaN(), 0),
		NewPoint(0, math.Inf(1)),
	}
	for _, p := range invalid {
		if err := p.Validate(); err == nil {
			t.Fatalf("expected %v to be invalid", p)
		}
	}
}

func TestValidateRadius(t *testing.T) {
	for _, r := range []float64{0, 5, 50, 1e7} {
		if err := ValidateRadius(r); err != nil {
			t.Fatalf("radius %v should be valid: %v", r, err)
		}
	}
	for _, r := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := ValidateRadius(r); err == nil {
			t.Fatalf("radius %v should be invalid", r)
		}
	}
}

func TestDistanceAntimeridianSameMeridian(t *testing.T) {
	a, b := NewPoint(12.5, 180), NewPoint(12.5, -180)
	if d := Distance(a, b); d != 0 {
		t.Fatalf("expected 180 and -180 to coincide, got %v", d)
	}
}
