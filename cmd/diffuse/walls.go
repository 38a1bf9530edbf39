package main

import (
	"fmt"

	diffusion "github.com/braxten626/2d-pde-simulation-framework"
)

// buildWalls returns the wall set for the configured domain along with
// the source point where all particles start.
func buildWalls(conf *Config) ([]diffusion.Wall, diffusion.Vec2, error) {
	L := conf.DomainSize
	switch conf.DomainType {
	case "infinite":
		return nil, diffusion.Vec2{}, nil
	case "box":
		walls := []diffusion.Wall{
			{{0, 0}, {L, 0}},
			{{L, 0}, {L, L}},
			{{L, L}, {0, L}},
			{{0, L}, {0, 0}},
		}
		return walls, diffusion.Vec2{X: L / 2, Y: L / 2}, nil
	case "channel":
		// long enough that no particle reaches an open end
		walls := []diffusion.Wall{
			{{-100 * L, 0}, {100 * L, 0}},
			{{-100 * L, L}, {100 * L, L}},
		}
		return walls, diffusion.Vec2{Y: L / 2}, nil
	default:
		return nil, diffusion.Vec2{}, fmt.Errorf("bad domain type %q", conf.DomainType)
	}
}
