package physics

import (
	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/vmath"
)

// Integrate advances every body with semi-implicit Euler: v = v + a*dt; p = p + v*dt
// Position uses the updated velocity
func Integrate(bodies []core.Body, acc []vmath.Vec2, dt float64) {
	for i := range bodies {
		b := &bodies[i]
		b.Vel.X += acc[i].X * dt
		b.Vel.Y += acc[i].Y * dt
		b.Pos.X += b.Vel.X * dt
		b.Pos.Y += b.Vel.Y * dt
	}
}
