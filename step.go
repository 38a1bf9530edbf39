package diffusion

import (
	"fmt"
	"math"
	"math/rand"
)

// A StepModel produces one stochastic displacement per particle per
// timestep. It fills dst with a displacement for every particle in
// pos, drawing exactly two normal variates per particle (x then y)
// from rng. vals is a mutable view of the current timestep's field
// values: a model may update it in place, which the integrator treats
// as a legitimate side effect of the call.
type StepModel interface {
	Step(dst, pos []Vec2, vals []float64, dt, diff float64, rng *rand.Rand)
}

// Constant is standard planar Brownian motion: each axis displacement
// is drawn independently from a zero-mean Gaussian with variance
// 2*diff*dt. Field values are left untouched.
type Constant struct{}

// Step implements StepModel.
func (Constant) Step(dst, pos []Vec2, vals []float64, dt, diff float64, rng *rand.Rand) {
	σ := math.Sqrt(2 * diff * dt)
	for i := range dst {
		dst[i].X = σ * rng.NormFloat64()
		dst[i].Y = σ * rng.NormFloat64()
	}
}

// Mapped draws the same base Gaussian step as Constant and passes it
// through a spatially dependent transformation, for diffusion on
// mapped domains. The field value co-evolves with position when
// Reweight is set. Nil hooks act as the identity, reducing Mapped to
// Constant.
type Mapped struct {
	// Transform maps the base displacement drawn at pos.
	Transform func(pos, base Vec2) Vec2

	// Reweight updates the field value of a particle at pos.
	Reweight func(pos Vec2, val float64) float64
}

// Step implements StepModel.
func (m *Mapped) Step(dst, pos []Vec2, vals []float64, dt, diff float64, rng *rand.Rand) {
	σ := math.Sqrt(2 * diff * dt)
	for i := range dst {
		base := Vec2{σ * rng.NormFloat64(), σ * rng.NormFloat64()}
		if m.Transform != nil {
			base = m.Transform(pos[i], base)
		}
		dst[i] = base
		if m.Reweight != nil {
			vals[i] = m.Reweight(pos[i], vals[i])
		}
	}
}

var models = map[string]func() StepModel{
	"constant": func() StepModel { return Constant{} },
	"mapped":   func() StepModel { return &Mapped{} },
}

// RegisterModel registers a step model factory under a tag, replacing
// any previous registration.
func RegisterModel(tag string, factory func() StepModel) {
	models[tag] = factory
}

// NewModel returns a fresh step model for the given tag.
func NewModel(tag string) (StepModel, error) {
	factory, ok := models[tag]
	if !ok {
		return nil, fmt.Errorf("model %q: %w", tag, ErrUnknownModel)
	}
	return factory(), nil
}
