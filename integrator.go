package diffusion

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
)

// blockSize is the fixed partition granularity of the ensemble. Each
// block owns its own random stream derived from the run seed and the
// block index, so trajectories are bit-identical for any worker count.
const blockSize = 4096

// defaultMaxBounces bounds the inner bounce-resolution loop when
// Params.MaxBounces is left zero.
const defaultMaxBounces = 64

// Params configure an Integrator.
type Params struct {
	FinalTime float64 // total simulated time
	Steps     int     // committed states per particle, including t=0
	Diff      float64 // diffusion coefficient
	Walls     []Wall  // reflecting boundary, read-only during the run
	Model     StepModel
	Seed      int64

	// MaxBounces caps the number of reflections a particle may take
	// in a single timestep. Zero means defaultMaxBounces.
	MaxBounces int

	// BestEffort isolates per-particle failures: instead of aborting
	// the run, a non-converging or non-finite particle is committed at
	// its last good position and flagged in Trajectory.Invalid.
	BestEffort bool

	// Workers is the number of goroutines processing particle blocks.
	// Zero means GOMAXPROCS.
	Workers int
}

// An Integrator advances a particle ensemble through time, resolving
// wall reflections within each timestep until every particle's motion
// is fully determined.
type Integrator struct {
	p  Params
	dt float64
}

// New validates the parameters and returns a ready Integrator.
func New(p Params) (*Integrator, error) {
	switch {
	case p.Steps <= 0:
		return nil, fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidParameter, p.Steps)
	case p.FinalTime <= 0:
		return nil, fmt.Errorf("%w: final time must be positive, got %g", ErrInvalidParameter, p.FinalTime)
	case p.Diff <= 0:
		return nil, fmt.Errorf("%w: diffusion coefficient must be positive, got %g", ErrInvalidParameter, p.Diff)
	case p.Model == nil:
		return nil, fmt.Errorf("%w: no step model", ErrInvalidParameter)
	case p.MaxBounces < 0:
		return nil, fmt.Errorf("%w: max bounces must not be negative, got %d", ErrInvalidParameter, p.MaxBounces)
	case p.Workers < 0:
		return nil, fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidParameter, p.Workers)
	}
	if p.MaxBounces == 0 {
		p.MaxBounces = defaultMaxBounces
	}
	if p.Workers == 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	return &Integrator{p: p, dt: p.FinalTime / float64(p.Steps)}, nil
}

// Dt returns the timestep size of the integrator.
func (ig *Integrator) Dt() float64 {
	return ig.dt
}

// A Trajectory holds every committed particle state of a run.
type Trajectory struct {
	N     int // number of particles
	Steps int // committed states per particle, including t=0

	// Pos and Val are particle-major: the state of particle i at
	// timestep k lives at index i*Steps+k.
	Pos []Vec2
	Val []float64

	// Invalid flags particles whose trajectory was force-committed in
	// best-effort mode. All false otherwise.
	Invalid []bool
}

// At returns the position of particle i at timestep k.
func (tr *Trajectory) At(i, k int) Vec2 {
	return tr.Pos[i*tr.Steps+k]
}

// ValAt returns the field value of particle i at timestep k.
func (tr *Trajectory) ValAt(i, k int) float64 {
	return tr.Val[i*tr.Steps+k]
}

// Run simulates the ensemble from the initial positions x0 and field
// values v0 and returns the full trajectory. The context is checked
// between timesteps, so a canceled run returns promptly with ctx's
// error. Run may be called multiple times; every call with the same
// inputs produces a bit-identical trajectory.
func (ig *Integrator) Run(ctx context.Context, x0 []Vec2, v0 []float64) (*Trajectory, error) {
	n := len(x0)
	if n == 0 {
		return nil, fmt.Errorf("%w: no particles", ErrInvalidParameter)
	}
	if len(v0) != n {
		return nil, fmt.Errorf("%w: %d initial values for %d particles", ErrInvalidParameter, len(v0), n)
	}

	tr := &Trajectory{
		N:       n,
		Steps:   ig.p.Steps,
		Pos:     make([]Vec2, n*ig.p.Steps),
		Val:     make([]float64, n*ig.p.Steps),
		Invalid: make([]bool, n),
	}
	for i := range x0 {
		tr.Pos[i*tr.Steps] = x0[i]
		tr.Val[i*tr.Steps] = v0[i]
	}
	if tr.Steps == 1 {
		return tr, nil
	}

	nblocks := (n + blockSize - 1) / blockSize
	workers := ig.p.Workers
	if workers > nblocks {
		workers = nblocks
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	blocks := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range blocks {
				lo := b * blockSize
				hi := lo + blockSize
				if hi > n {
					hi = n
				}
				rng := rand.New(rand.NewSource(blockSeed(ig.p.Seed, b)))
				if err := ig.runBlock(runCtx, tr, lo, hi, rng); err != nil {
					fail(err)
					return
				}
			}
		}()
	}

feed:
	for b := 0; b < nblocks; b++ {
		select {
		case blocks <- b:
		case <-runCtx.Done():
			break feed
		}
	}
	close(blocks)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tr, nil
}

// runBlock advances particles lo to hi through all timesteps. Blocks
// are disjoint, so the only shared state touched is the block's own
// region of the trajectory.
func (ig *Integrator) runBlock(ctx context.Context, tr *Trajectory, lo, hi int, rng *rand.Rand) error {
	n := hi - lo
	cur := make([]Vec2, n)
	step := make([]Vec2, n)
	vals := make([]float64, n)
	active := make([]int, 0, n)
	still := make([]int, 0, n)

	for i := 0; i < n; i++ {
		cur[i] = tr.At(lo+i, 0)
		vals[i] = tr.ValAt(lo+i, 0)
	}

	for k := 1; k < tr.Steps; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		// vals carries the previous timestep's field values and the
		// model may rewrite them in place
		ig.p.Model.Step(step, cur, vals, ig.dt, ig.p.Diff, rng)

		// inner fixed-point loop: resolve bounces until no particle
		// has a pending intersection
		active = active[:0]
		for i := 0; i < n; i++ {
			active = append(active, i)
		}
		for pass := 0; len(active) > 0; pass++ {
			if pass > ig.p.MaxBounces {
				if !ig.p.BestEffort {
					return &ParticleError{Particle: lo + active[0], Step: k, Err: ErrNonConvergence}
				}
				for _, i := range active {
					tr.Invalid[lo+i] = true
				}
				break
			}
			still = still[:0]
			for _, i := range active {
				to := cur[i].Add(step[i])
				hit, wi, ok := nearestHit(cur[i], to, ig.p.Walls)
				if !ok {
					cur[i] = to
					continue
				}
				step[i] = reflectStep(cur[i], to, hit, ig.p.Walls[wi])
				cur[i] = backOff(hit, cur[i])
				still = append(still, i)
			}
			active, still = still, active
		}

		// commit the resolved slice
		for i := 0; i < n; i++ {
			p := lo + i
			if !finite(cur[i].X) || !finite(cur[i].Y) || !finite(vals[i]) {
				if !ig.p.BestEffort {
					return &ParticleError{Particle: p, Step: k, Err: ErrUnstable}
				}
				tr.Invalid[p] = true
				cur[i] = tr.At(p, k-1)
				vals[i] = tr.ValAt(p, k-1)
			}
			tr.Pos[p*tr.Steps+k] = cur[i]
			tr.Val[p*tr.Steps+k] = vals[i]
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// blockSeed derives a block's random stream seed from the run seed
// with a splitmix-style mix, keeping distinct blocks decorrelated.
func blockSeed(seed int64, block int) int64 {
	z := uint64(seed) + uint64(block+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
