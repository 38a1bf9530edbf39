package diffusion

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownModel indicates a diffusion model tag with no
	// registered step model.
	ErrUnknownModel = errors.New("diffusion: unknown diffusion model")

	// ErrInvalidParameter indicates a non-positive or inconsistent
	// simulation parameter.
	ErrInvalidParameter = errors.New("diffusion: invalid parameter")

	// ErrNonConvergence indicates a particle whose wall reflections
	// did not resolve within the configured number of passes.
	ErrNonConvergence = errors.New("diffusion: bounce resolution did not converge")

	// ErrUnstable indicates a non-finite position or field value.
	ErrUnstable = errors.New("diffusion: non-finite value in trajectory")
)

// A ParticleError reports a failure local to one particle at one timestep.
type ParticleError struct {
	Particle int
	Step     int
	Err      error
}

func (e *ParticleError) Error() string {
	return fmt.Sprintf("particle %d, step %d: %s", e.Particle, e.Step, e.Err)
}

func (e *ParticleError) Unwrap() error {
	return e.Err
}
