package physics

import (
	"math"
	"testing"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/vmath"
)

func TestIntegrateUsesUpdatedVelocity(t *testing.T) {
	bodies := []core.Body{body(0, 0, 1, 0, 1)}
	acc := []vmath.Vec2{{X: 2, Y: -4}}
	Integrate(bodies, acc, 0.5)

	// v' = (1,0) + (2,-4)*0.5 = (2,-2); p' = v'*0.5 = (1,-1)
	if bodies[0].Vel != (vmath.Vec2{X: 2, Y: -2}) {
		t.Errorf("Expected velocity {2 -2}, got %v", bodies[0].Vel)
	}
	if bodies[0].Pos != (vmath.Vec2{X: 1, Y: -1}) {
		t.Errorf("Expected position {1 -1}, got %v", bodies[0].Pos)
	}
}

func TestLoneBodyStationary(t *testing.T) {
	bodies := []core.Body{body(3, 4, 0, 0, 10)}
	acc := make([]vmath.Vec2, 1)
	for i := 0; i < 10000; i++ {
		Accumulate(bodies, testGravity, acc)
		Integrate(bodies, acc, 1.0/120)
	}
	if bodies[0].Pos != (vmath.Vec2{X: 3, Y: 4}) || bodies[0].Vel != (vmath.Vec2{}) {
		t.Errorf("Expected body to stay at rest, got pos %v vel %v", bodies[0].Pos, bodies[0].Vel)
	}
}

func TestTwoBodyMomentumConserved(t *testing.T) {
	bodies := []core.Body{body(-50, 0, 0, 1.2, 40), body(50, 0, 0, -0.4, 120)}
	acc := make([]vmath.Vec2, 2)
	start := TotalMomentum(bodies)

	for i := 0; i < 20000; i++ {
		Accumulate(bodies, testGravity, acc)
		Integrate(bodies, acc, 1.0/120)
	}

	end := TotalMomentum(bodies)
	if math.Abs(end.X-start.X) > 1e-9 || math.Abs(end.Y-start.Y) > 1e-9 {
		t.Errorf("Expected momentum %v conserved, got %v", start, end)
	}
	for i := range bodies {
		if !bodies[i].Finite() {
			t.Errorf("Body %d became non-finite: %+v", i, bodies[i])
		}
	}
}

func TestCircularOrbitEnergyStable(t *testing.T) {
	g := Gravity{G: 3.5, Softening: 0}
	sun := body(0, 0, 0, 0, 10000)
	r := 200.0
	v := math.Sqrt(g.G * sun.Mass / r)
	planet := body(r, 0, 0, v, 1e-6)
	bodies := []core.Body{sun, planet}
	acc := make([]vmath.Vec2, 2)

	e0 := KineticEnergy(bodies) + PotentialEnergy(bodies, g)
	for i := 0; i < 50000; i++ {
		Accumulate(bodies, g, acc)
		Integrate(bodies, acc, 1.0/120)
	}
	e1 := KineticEnergy(bodies) + PotentialEnergy(bodies, g)

	if math.Abs(e1-e0) > 1e-3*math.Abs(e0) {
		t.Errorf("Expected bounded energy drift, got %v -> %v", e0, e1)
	}
	dist := vmath.V2Mag(vmath.V2Sub(bodies[1].Pos, bodies[0].Pos))
	if math.Abs(dist-r) > 0.02*r {
		t.Errorf("Expected orbit radius near %v, got %v", r, dist)
	}
}

func TestCenterOfMassFixedWithZeroMomentum(t *testing.T) {
	bodies := []core.Body{
		body(-50, 0, 0, -1, 3),
		body(100, 0, 0, 2, 1.5),
		body(0, 80, 0, 0, 3),
	}
	c0 := CenterOfMass(bodies)
	acc := make([]vmath.Vec2, len(bodies))
	for i := 0; i < 1000; i++ {
		Accumulate(bodies, testGravity, acc)
		Integrate(bodies, acc, 1.0/120)
	}
	c1 := CenterOfMass(bodies)
	if vmath.V2Mag(vmath.V2Sub(c1, c0)) > 1e-6 {
		t.Errorf("Expected fixed center of mass %v, got %v", c0, c1)
	}
	if CenterOfMass(nil) != (vmath.Vec2{}) {
		t.Errorf("Expected zero center for empty set")
	}
}
