package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/common"
	"github.com/milk9111/shootgame/physics/engine"
)

const (
	BackendRigid  = "rigid"
	BackendPlanar = "planar"
)

// Config tunes a PhysicsWorld. It is loaded from prefabs/physics.yaml.
type Config struct {
	Backend          string     `yaml:"backend"`
	Gravity          [3]float64 `yaml:"gravity"`
	FixedTimeStep    float64    `yaml:"fixed_time_step"`
	MaxSubSteps      int        `yaml:"max_sub_steps"`
	SolverIterations int        `yaml:"solver_iterations"`
	Friction         float64    `yaml:"friction"`
	Restitution      float64    `yaml:"restitution"`
	LinearDamping    float64    `yaml:"linear_damping"`
}

func DefaultConfig() Config {
	return Config{
		Backend:          BackendRigid,
		Gravity:          [3]float64{0, -common.StandardGravity, 0},
		FixedTimeStep:    engine.DefaultFixedTimeStep,
		MaxSubSteps:      engine.DefaultMaxSubSteps,
		SolverIterations: engine.DefaultSolverIterations,
		Friction:         0.5,
	}
}

func (c Config) engineConfig() engine.Config {
	return engine.Config{
		Gravity:          mgl64.Vec3(c.Gravity),
		FixedTimeStep:    c.FixedTimeStep,
		MaxSubSteps:      c.MaxSubSteps,
		SolverIterations: c.SolverIterations,
	}
}
