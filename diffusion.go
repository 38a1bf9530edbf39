// Package diffusion approximates solutions to 2D advection-diffusion
// PDEs with a particle-based Monte Carlo method.
//
// A fixed number of independent stochastic walkers diffuse through a
// bounded planar domain whose boundary is a set of straight wall
// segments. When a walker's proposed displacement crosses a wall, the
// remaining displacement is mirrored about that wall, possibly several
// times in one timestep near corners, until the motion is fully
// resolved. The full trajectory of every walker is the output of the
// simulation.
package diffusion

import "math"

// A Vec2 is a simple 2D vector.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns u + v.
func (u Vec2) Add(v Vec2) Vec2 {
	return Vec2{u.X + v.X, u.Y + v.Y}
}

// Sub returns u - v.
func (u Vec2) Sub(v Vec2) Vec2 {
	return Vec2{u.X - v.X, u.Y - v.Y}
}

// Scale returns u scaled by a factor.
func (u Vec2) Scale(factor float64) Vec2 {
	return Vec2{factor * u.X, factor * u.Y}
}

// Dot returns the dot product of u and v.
func (u Vec2) Dot(v Vec2) float64 {
	return u.X*v.X + u.Y*v.Y
}

// Norm returns the Euclidean norm of u.
func (u Vec2) Norm() float64 {
	return math.Hypot(u.X, u.Y)
}

// Dist returns the Euclidean distance between u and v.
func (u Vec2) Dist(v Vec2) float64 {
	return math.Hypot(u.X-v.X, u.Y-v.Y)
}

// A Wall is a straight reflecting boundary segment defined by its two
// endpoints. Walls are immutable for the lifetime of a run and the
// wall set is safe for unsynchronized concurrent reads.
type Wall [2]Vec2
