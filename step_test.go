package diffusion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	t.Parallel()

	t.Run("constant", func(t *testing.T) {
		t.Parallel()
		m, err := NewModel("constant")
		require.NoError(t, err)
		assert.IsType(t, Constant{}, m)
	})

	t.Run("mapped", func(t *testing.T) {
		t.Parallel()
		m, err := NewModel("mapped")
		require.NoError(t, err)
		assert.IsType(t, &Mapped{}, m)
	})

	t.Run("unknown tag", func(t *testing.T) {
		t.Parallel()
		_, err := NewModel("turbulent")
		assert.ErrorIs(t, err, ErrUnknownModel)
	})

	t.Run("registered strategy", func(t *testing.T) {
		RegisterModel("frozen", func() StepModel { return fixedStep{} })
		m, err := NewModel("frozen")
		require.NoError(t, err)
		assert.IsType(t, fixedStep{}, m)
	})
}

func TestConstantDraws(t *testing.T) {
	t.Parallel()

	// exactly two draws per particle, x then y, scaled to the step
	// standard deviation
	const dt, diff = 0.01, 2.0
	σ := math.Sqrt(2 * diff * dt)

	dst := make([]Vec2, 3)
	pos := make([]Vec2, 3)
	Constant{}.Step(dst, pos, nil, dt, diff, rand.New(rand.NewSource(9)))

	ref := rand.New(rand.NewSource(9))
	for i := range dst {
		assert.Equal(t, σ*ref.NormFloat64(), dst[i].X)
		assert.Equal(t, σ*ref.NormFloat64(), dst[i].Y)
	}
}

func TestConstantMoments(t *testing.T) {
	t.Parallel()

	const dt, diff = 0.01, 1.0
	n := 20000
	dst := make([]Vec2, n)
	pos := make([]Vec2, n)
	Constant{}.Step(dst, pos, nil, dt, diff, rand.New(rand.NewSource(3)))

	var mean, vari float64
	for _, d := range dst {
		mean += d.X + d.Y
	}
	mean /= float64(2 * n)
	for _, d := range dst {
		vari += (d.X-mean)*(d.X-mean) + (d.Y-mean)*(d.Y-mean)
	}
	vari /= float64(2*n - 1)

	assert.InDelta(t, 0, mean, 0.005)
	assert.InDelta(t, 2*diff*dt, vari, 0.05*2*diff*dt)
}

func TestMapped(t *testing.T) {
	t.Parallel()

	const dt, diff = 0.01, 1.0

	t.Run("nil hooks match the constant model", func(t *testing.T) {
		t.Parallel()
		a := make([]Vec2, 4)
		b := make([]Vec2, 4)
		pos := make([]Vec2, 4)
		vals := []float64{1, 1, 1, 1}
		Constant{}.Step(a, pos, vals, dt, diff, rand.New(rand.NewSource(11)))
		(&Mapped{}).Step(b, pos, vals, dt, diff, rand.New(rand.NewSource(11)))
		assert.Equal(t, a, b)
		assert.Equal(t, []float64{1, 1, 1, 1}, vals)
	})

	t.Run("transform and reweight apply", func(t *testing.T) {
		t.Parallel()
		m := &Mapped{
			Transform: func(pos, base Vec2) Vec2 { return base.Scale(2) },
			Reweight:  func(pos Vec2, val float64) float64 { return val * 0.5 },
		}
		base := make([]Vec2, 4)
		dst := make([]Vec2, 4)
		pos := make([]Vec2, 4)
		vals := []float64{1, 2, 3, 4}
		Constant{}.Step(base, pos, nil, dt, diff, rand.New(rand.NewSource(11)))
		m.Step(dst, pos, vals, dt, diff, rand.New(rand.NewSource(11)))
		for i := range dst {
			assert.Equal(t, base[i].Scale(2), dst[i])
		}
		assert.Equal(t, []float64{0.5, 1, 1.5, 2}, vals)
	})
}
