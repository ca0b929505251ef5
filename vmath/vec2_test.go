package vmath

import (
	"math"
	"testing"
)

func TestV2Basics(t *testing.T) {
	a := Vec2{3, 4}
	b := Vec2{1, -2}

	if got := V2Add(a, b); got != (Vec2{4, 2}) {
		t.Errorf("Expected {4 2}, got %v", got)
	}
	if got := V2Sub(a, b); got != (Vec2{2, 6}) {
		t.Errorf("Expected {2 6}, got %v", got)
	}
	if got := V2Mag(a); got != 5 {
		t.Errorf("Expected magnitude 5, got %v", got)
	}
	if got := V2AddScaled(a, b, 2); got != (Vec2{5, 0}) {
		t.Errorf("Expected {5 0}, got %v", got)
	}
	if got := V2DistSq(a, b); got != 40 {
		t.Errorf("Expected squared distance 40, got %v", got)
	}
	if got := V2Normalize(Vec2{}); got != (Vec2{}) {
		t.Errorf("Expected zero vector to normalize to zero, got %v", got)
	}
}

func TestV2Finite(t *testing.T) {
	if !V2Finite(Vec2{1, 2}) {
		t.Error("Expected finite vector")
	}
	if V2Finite(Vec2{math.NaN(), 0}) {
		t.Error("Expected NaN to be rejected")
	}
	if V2Finite(Vec2{0, math.Inf(-1)}) {
		t.Error("Expected -Inf to be rejected")
	}
}

func TestSphereRoundTrip(t *testing.T) {
	for _, r := range []float64{0.5, 1, 3.5, 30} {
		m := MassFromRadius(r, 2)
		got := RadiusFromMass(m, 2)
		if math.Abs(got-r) > 1e-9 {
			t.Errorf("Radius %v: expected round trip, got %v", r, got)
		}
	}
	if RadiusFromMass(1, 0) != 0 {
		t.Error("Expected zero radius for zero density")
	}
}

func TestFastRandDeterministic(t *testing.T) {
	a := NewFastRand(42)
	b := NewFastRand(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("Streams diverged at %d", i)
		}
	}

	r := NewFastRand(7)
	for i := 0; i < 1000; i++ {
		f := r.Range(2, 5)
		if f < 2 || f >= 5 {
			t.Fatalf("Expected value in [2,5), got %v", f)
		}
	}
	if got := r.Range(3, 3); got != 3 {
		t.Errorf("Expected empty range to return lo, got %v", got)
	}
}
