package main

import (
	diffusion "github.com/braxten626/2d-pde-simulation-framework"
	"github.com/braxten626/2d-pde-simulation-framework/hdf5"
)

// RunHDF5 saves a trajectory to an HDF5 file. The file contains a
// "positions" dataset of shape (Steps, N), a "values" dataset of shape
// (Steps, N), and a "config" dataset whose attributes reflect the whole
// configuration.
func RunHDF5(conf *Config, tr *diffusion.Trajectory) error {
	pos := make([]diffusion.Vec2, tr.N)
	val := make([]float64, tr.N)
	return hdf5.Save(&hdf5.Config{
		Output: conf.Output,
		Steps:  tr.Steps,
		Attrs:  conf,
		Datasets: []*hdf5.Dataset{
			{
				Name: "positions",
				Val:  diffusion.Vec2{},
				Dims: []int{tr.N},
				Data: func(k int) interface{} {
					for i := 0; i < tr.N; i++ {
						pos[i] = tr.At(i, k)
					}
					return &pos
				},
			},
			{
				Name: "values",
				Val:  float64(0),
				Dims: []int{tr.N},
				Data: func(k int) interface{} {
					for i := 0; i < tr.N; i++ {
						val[i] = tr.ValAt(i, k)
					}
					return &val
				},
			},
		},
	})
}
