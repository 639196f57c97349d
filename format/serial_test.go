package format

import (
	"math"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestToSerial(t *testing.T) {
	defer func(loc *time.Location) {
		Location = loc
	}(Location)
	Location = time.UTC

	tests := []struct {
		Input time.Time
		Want  float64
	}{
		{
			Input: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Want:  45292,
		},
		{
			Input: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			Want:  45292.5,
		},
		{
			Input: time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC),
			Want:  61,
		},
		{
			Input: time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC),
			Want:  1,
		},
	}
	for _, c := range tests {
		got := ToSerial(c.Input)
		if got != c.Want {
			t.Errorf("%s: results mismatched! want %f - got %f", c.Input, c.Want, got)
		}
	}
}

func TestSerialWallClock(t *testing.T) {
	defer func(loc *time.Location) {
		Location = loc
	}(Location)
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("timezone not available: %s", err)
	}
	Location = paris

	when := time.Date(2024, 7, 14, 18, 30, 0, 0, paris)
	if got, want := ToSerial(when), 45487+18.5/24; math.Abs(got-want) > 1e-9 {
		t.Errorf("summer: results mismatched! want %f - got %f", want, got)
	}
	back := FromSerial(ToSerial(when))
	if !back.Equal(when) {
		t.Errorf("summer: round trip mismatched! want %s - got %s", when, back)
	}

	when = time.Date(2024, 1, 14, 18, 30, 0, 0, paris)
	back = FromSerial(ToSerial(when))
	if !back.Equal(when) {
		t.Errorf("winter: round trip mismatched! want %s - got %s", when, back)
	}
}

func TestSerialRoundTrip(t *testing.T) {
	for _, n := range []float64{0.25, 1, 61, 45292, 45292.25, 45292.999988426, 109939.75, 2958465, 2958465.5} {
		got := ToSerial(FromSerial(n))
		if math.Abs(got-n) > 1.0/msPerDay {
			t.Errorf("%f: results mismatched! got %f", n, got)
		}
	}
}

func TestSerialFarFuture(t *testing.T) {
	defer func(loc *time.Location) {
		Location = loc
	}(Location)
	Location = time.UTC

	tests := []struct {
		Input time.Time
		Want  float64
	}{
		{
			Input: time.Date(2150, 1, 1, 0, 0, 0, 0, time.UTC),
			Want:  91313,
		},
		{
			Input: time.Date(2200, 1, 1, 18, 0, 0, 0, time.UTC),
			Want:  109575.75,
		},
		{
			Input: time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
			Want:  2958465,
		},
	}
	for _, c := range tests {
		if got := ToSerial(c.Input); got != c.Want {
			t.Errorf("%s: results mismatched! want %f - got %f", c.Input, c.Want, got)
		}
		if got := FromSerial(c.Want); !got.Equal(c.Input) {
			t.Errorf("%f: results mismatched! want %s - got %s", c.Want, c.Input, got)
		}
	}
}
