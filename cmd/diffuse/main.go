// Command diffuse runs particle-based Monte Carlo simulations of 2D
// advection-diffusion processes in bounded domains.
//
// Usage
//
// The diffuse command takes one optional argument:
//  diffuse [config_file]
// It is the path to a TOML config file.
// If no config file is specified, a simulation with default parameters
// will run and write its results to out/diffusion.h5.
//
// Config file
//
// The config file is written in TOML. If you are not familiar with TOML,
// fear not! It's basically a modern version of INI. Very very simple.
// See https://github.com/toml-lang/toml for the full language spec.
//
// Outputs
//
// Depending on Format, results are written either to a single HDF5 file
// holding the position and field-value trajectories plus the full
// configuration as attributes, or to a CSV file with one row per
// particle per timestep alongside a JSON dump of the configuration.
//
// A running simulation can be interrupted with Ctrl-C; partial results
// are not written.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	diffusion "github.com/braxten626/2d-pde-simulation-framework"
)

const usage = `Usage: diffuse [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, a simulation with default parameters
will run and write its results to out/diffusion.h5.
`

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		conf = DefaultConf
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}
	if err := conf.Validate(); err != nil {
		Fatal(err)
	}

	model, err := diffusion.NewModel(conf.Model)
	if err != nil {
		Fatal(err)
	}

	walls, source, err := buildWalls(conf)
	if err != nil {
		Fatal(err)
	}

	ig, err := diffusion.New(diffusion.Params{
		FinalTime:  conf.FinalTime,
		Steps:      conf.Steps,
		Diff:       conf.Diffusion,
		Walls:      walls,
		Model:      model,
		Seed:       conf.Seed,
		MaxBounces: conf.MaxBounces,
		BestEffort: conf.BestEffort,
		Workers:    conf.Workers,
	})
	if err != nil {
		Fatal(err)
	}

	// all particles start as a point source with a uniform field value
	x0 := make([]diffusion.Vec2, conf.Particles)
	v0 := make([]float64, conf.Particles)
	for i := range x0 {
		x0[i] = source
		v0[i] = conf.InitialValue
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tr, err := ig.Run(ctx, x0, v0)
	if err != nil {
		Fatal(err)
	}

	switch conf.Format {
	case "hdf5":
		err = RunHDF5(conf, tr)
	case "csv":
		err = RunCSV(conf, tr)
	default:
		err = fmt.Errorf("bad output format %q", conf.Format)
	}
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}
