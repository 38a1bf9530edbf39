package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is the path of the output file. Its contents depend on
	// Format: "hdf5" or "csv".
	Output string
	Format string

	Particles int     // number of particles
	Steps     int     // number of committed timesteps, including t=0
	FinalTime float64 // total simulated time
	Diffusion float64 // diffusion coefficient

	Model string // diffusion model: "constant" or "mapped"
	Seed  int64  // seed of the random source

	MaxBounces int  // reflections allowed per particle per timestep (0 = default)
	BestEffort bool // isolate failing particles instead of aborting the run
	Workers    int  // worker goroutines (0 = all CPUs)

	// Boundary geometry parameters
	DomainType string  // possible values: infinite, box, channel
	DomainSize float64 // side length (box) or width (channel)

	InitialValue float64 // field value of every particle at t=0
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:       "out/diffusion.h5",
	Format:       "hdf5",
	Particles:    10000,
	Steps:        1000,
	FinalTime:    1.0,
	Diffusion:    1.0,
	Model:        "constant",
	Seed:         52,
	DomainType:   "box",
	DomainSize:   10,
	InitialValue: 1.0,
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := DefaultConf
	_, err := toml.DecodeFile(path, conf)
	return conf, err
}

// Validate reports the first invalid parameter, before any simulation
// work begins.
func (c *Config) Validate() error {
	switch {
	case c.Particles <= 0:
		return fmt.Errorf("bad particle count %d", c.Particles)
	case c.Steps <= 0:
		return fmt.Errorf("bad step count %d", c.Steps)
	case c.FinalTime <= 0:
		return fmt.Errorf("bad final time %g", c.FinalTime)
	case c.Diffusion <= 0:
		return fmt.Errorf("bad diffusion coefficient %g", c.Diffusion)
	case c.Output == "":
		return fmt.Errorf("no output path")
	}
	return nil
}
