// Package physics owns the lifecycle of simulated bodies: creating them,
// stepping the simulation, copying poses to scene nodes and tearing
// everything down again.
package physics

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/common"
	"github.com/milk9111/shootgame/physics/engine"
	"github.com/milk9111/shootgame/physics/engine/planar"
	"github.com/milk9111/shootgame/physics/engine/rigid"
)

// PhysicsWorld owns the simulation backend and every body created in it.
// It is not safe for concurrent use; the host drives it from one goroutine.
type PhysicsWorld struct {
	cfg     Config
	engine  engine.Engine
	bodies  handleTable
	elapsed float64
	logger  *log.Logger
}

// NewPhysicsWorld creates an uninitialized world. Call Init before use.
// Zero fields, gravity included, take their DefaultConfig values.
func NewPhysicsWorld(cfg Config) *PhysicsWorld {
	def := DefaultConfig()
	if cfg.Backend == "" {
		cfg.Backend = def.Backend
	}
	if cfg.Gravity == ([3]float64{}) {
		cfg.Gravity = def.Gravity
	}
	if cfg.FixedTimeStep <= 0 {
		cfg.FixedTimeStep = def.FixedTimeStep
	}
	if cfg.MaxSubSteps <= 0 {
		cfg.MaxSubSteps = def.MaxSubSteps
	}
	if cfg.SolverIterations <= 0 {
		cfg.SolverIterations = def.SolverIterations
	}
	return &PhysicsWorld{cfg: cfg, logger: log.Default()}
}

// SetLogger replaces the logger; nil silences the world.
func (pw *PhysicsWorld) SetLogger(l *log.Logger) {
	if pw == nil {
		return
	}
	pw.logger = l
}

func (pw *PhysicsWorld) logf(format string, args ...any) {
	if pw.logger == nil {
		return
	}
	pw.logger.Printf(format, args...)
}

func (pw *PhysicsWorld) Config() Config {
	if pw == nil {
		return DefaultConfig()
	}
	return pw.cfg
}

// Init builds the simulation backend.
func (pw *PhysicsWorld) Init() error {
	if pw == nil {
		return ErrNotInitialized
	}
	if pw.engine != nil {
		return ErrAlreadyInitialized
	}
	eng, err := newEngine(pw.cfg)
	if err != nil {
		return err
	}
	pw.engine = eng
	pw.elapsed = 0
	pw.logf("PhysicsWorld: init backend=%s gravity=%v step=%.4f", pw.cfg.Backend, pw.cfg.Gravity, pw.cfg.FixedTimeStep)
	return nil
}

func newEngine(cfg Config) (engine.Engine, error) {
	switch cfg.Backend {
	case BackendRigid:
		return rigid.New(cfg.engineConfig()), nil
	case BackendPlanar:
		return planar.New(cfg.engineConfig()), nil
	default:
		return nil, fmt.Errorf("physics: backend %q: %w", cfg.Backend, ErrUnknownBackend)
	}
}

func (pw *PhysicsWorld) Initialized() bool {
	return pw != nil && pw.engine != nil
}

// Engine returns the live backend, or nil before Init.
func (pw *PhysicsWorld) Engine() engine.Engine {
	if pw == nil {
		return nil
	}
	return pw.engine
}

// Destroy removes every body and releases the backend. The world can be
// initialized again afterwards. Destroying twice is a no-op.
func (pw *PhysicsWorld) Destroy() {
	if pw == nil || pw.engine == nil {
		return
	}
	count := pw.bodies.len()
	for len(pw.bodies.records()) > 0 {
		rec := pw.bodies.records()[0]
		pw.bodies.remove(rec.handle)
		pw.engine.RemoveBody(rec.body)
	}
	pw.engine.Close()
	pw.engine = nil
	pw.elapsed = 0
	pw.logf("PhysicsWorld: destroyed, released %d bodies", count)
}

// Step advances the simulation by dt seconds. Non-positive or NaN deltas
// are ignored.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.engine == nil {
		return
	}
	if !(dt > 0) || !common.IsFinite(dt) {
		return
	}
	pw.engine.Step(dt)
	pw.elapsed += dt
}

// SimulatedTime is the sum of accepted Step deltas since Init.
func (pw *PhysicsWorld) SimulatedTime() float64 {
	if pw == nil {
		return 0
	}
	return pw.elapsed
}

// SyncTransforms copies every body's pose to its bound node.
func (pw *PhysicsWorld) SyncTransforms() {
	if pw == nil || pw.engine == nil {
		return
	}
	for _, rec := range pw.bodies.records() {
		if rec.node == nil {
			continue
		}
		rec.node.SetWorldPosition(rec.body.Position())
		rec.node.SetWorldRotation(rec.body.Rotation())
	}
}

// RemoveBody removes the body behind h. Unknown, stale and unset handles
// are ignored and report false.
func (pw *PhysicsWorld) RemoveBody(h Handle) bool {
	if pw == nil || pw.engine == nil || !h.Valid() {
		return false
	}
	rec, ok := pw.bodies.remove(h)
	if !ok {
		return false
	}
	pw.engine.RemoveBody(rec.body)
	return true
}

func (pw *PhysicsWorld) BodyCount() int {
	if pw == nil || pw.engine == nil {
		return 0
	}
	return pw.bodies.len()
}

func (pw *PhysicsWorld) Contains(h Handle) bool {
	if pw == nil || pw.engine == nil {
		return false
	}
	_, ok := pw.bodies.get(h)
	return ok
}

// Handles lists live bodies in creation order.
func (pw *PhysicsWorld) Handles() []Handle {
	if pw == nil || pw.engine == nil {
		return nil
	}
	out := make([]Handle, 0, pw.bodies.len())
	for _, rec := range pw.bodies.records() {
		out = append(out, rec.handle)
	}
	return out
}

func (pw *PhysicsWorld) Position(h Handle) (mgl64.Vec3, bool) {
	rec, ok := pw.lookup(h)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return rec.body.Position(), true
}

func (pw *PhysicsWorld) Rotation(h Handle) (mgl64.Quat, bool) {
	rec, ok := pw.lookup(h)
	if !ok {
		return mgl64.QuatIdent(), false
	}
	return rec.body.Rotation(), true
}

func (pw *PhysicsWorld) Velocity(h Handle) (mgl64.Vec3, bool) {
	rec, ok := pw.lookup(h)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return rec.body.Velocity(), true
}

// IsStatic reports whether h names a live body that never moves.
func (pw *PhysicsWorld) IsStatic(h Handle) bool {
	rec, ok := pw.lookup(h)
	return ok && rec.body.Static()
}

func (pw *PhysicsWorld) lookup(h Handle) (*bodyRecord, bool) {
	if pw == nil || pw.engine == nil {
		return nil, false
	}
	return pw.bodies.get(h)
}
