// Package game is table bowling on top of a PhysicsWorld: a static table,
// ten pins, balls thrown from the camera and a countdown.
package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/common"
	"github.com/milk9111/shootgame/physics"
	"github.com/milk9111/shootgame/prefabs"
	"github.com/milk9111/shootgame/scene"
	"golang.org/x/image/colornames"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateOver:
		return "game over"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrNotRunning = errors.New("game is not running")
	ErrNoSpec     = errors.New("game has no bowling spec")
)

// Session owns the table, pins and balls of one bowling game.
type Session struct {
	world  *physics.PhysicsWorld
	root   scene.Parent
	camera *scene.Camera
	spec   *prefabs.BowlingSpec

	table []*physics.PhysicsBody
	pins  []*physics.PhysicsBody
	balls []*physics.PhysicsBody

	state     State
	remaining float64
	score     int
	throws    int

	logger *log.Logger
}

func NewSession(world *physics.PhysicsWorld, root scene.Parent, camera *scene.Camera, spec *prefabs.BowlingSpec) *Session {
	s := &Session{
		world:  world,
		root:   root,
		camera: camera,
		spec:   spec,
		logger: log.Default(),
	}
	if spec != nil {
		s.remaining = spec.Duration
	}
	return s
}

func (s *Session) SetLogger(l *log.Logger) {
	s.logger = l
}

func (s *Session) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

func (s *Session) Spec() *prefabs.BowlingSpec {
	return s.spec
}

// CreateTable builds the legs and top as static bodies. It does nothing once
// the table exists.
func (s *Session) CreateTable() error {
	if s.spec == nil {
		return ErrNoSpec
	}
	if len(s.table) > 0 {
		return nil
	}

	parts := append(append([]prefabs.BoxSpec(nil), s.spec.Legs...), s.spec.Top)
	for _, part := range parts {
		r := scene.Cube(part.Size.Vec(), part.Color.ColorOr(colornames.Royalblue))
		body, err := s.world.CreateGroundNode(r, s.root, part.Size.Vec(), part.Position.Vec())
		if err != nil {
			s.removeAll(&s.table)
			return fmt.Errorf("game: create table: %w", err)
		}
		s.table = append(s.table, body)
	}
	s.logf("Session: table created with %d parts", len(s.table))
	return nil
}

// Reload swaps the spec. A standing table is rebuilt right away; pins and
// the ball pick the new values up on the next Start or Throw.
func (s *Session) Reload(spec *prefabs.BowlingSpec) error {
	if spec == nil {
		return ErrNoSpec
	}
	s.spec = spec
	if len(s.table) == 0 {
		return nil
	}
	s.removeAll(&s.table)
	return s.CreateTable()
}

// Start clears the previous game, sets up the pins and restarts the
// countdown.
func (s *Session) Start() error {
	if s.spec == nil {
		return ErrNoSpec
	}
	if err := s.CreateTable(); err != nil {
		return err
	}

	s.removeAll(&s.pins)
	s.removeAll(&s.balls)

	pin := s.spec.Pins
	for _, pos := range pin.PinPositions() {
		r := scene.Cylinder(pin.Radius, pin.Height, pin.Color.ColorOr(colornames.Red))
		body, err := s.world.CreateCylinderNode(r, s.root, pin.Radius, pin.Height, pos, pin.Mass)
		if err != nil {
			s.removeAll(&s.pins)
			return fmt.Errorf("game: place pins: %w", err)
		}
		s.pins = append(s.pins, body)
	}

	s.remaining = s.spec.Duration
	s.score = 0
	s.throws = 0
	s.state = StateRunning
	s.logf("Session: started with %d pins, %.0fs on the clock", len(s.pins), s.remaining)
	return nil
}

// Throw launches a ball from the camera along its view direction.
func (s *Session) Throw() (*physics.PhysicsBody, error) {
	if s.state != StateRunning {
		return nil, ErrNotRunning
	}
	ball := s.spec.Ball
	r := scene.Sphere(ball.Radius, ball.Color.ColorOr(colornames.Gold))
	body, err := s.world.CreateSphereNodeFromEye(r, s.root, ball.Radius, s.camera, ball.Force, ball.Mass)
	if err != nil {
		return nil, fmt.Errorf("game: throw: %w", err)
	}
	s.balls = append(s.balls, body)
	s.throws++
	return body, nil
}

// Update advances the simulation by dt, copies poses to the scene and runs
// the countdown. When time runs out the score is frozen and the pins and
// balls are cleared.
func (s *Session) Update(dt float64) {
	if s.world == nil {
		return
	}
	s.world.Step(dt)
	s.world.SyncTransforms()

	if s.state != StateRunning || dt <= 0 || !common.IsFinite(dt) {
		return
	}
	s.remaining -= dt
	if s.remaining <= 0 {
		s.finish()
	}
}

func (s *Session) finish() {
	s.remaining = 0
	s.score = s.countScore()
	s.state = StateOver
	s.removeAll(&s.pins)
	s.removeAll(&s.balls)
	s.logf("Session: game over, %d of %d pins down after %d throws", s.score, len(s.spec.Pins.PinPositions()), s.throws)
}

// Score counts pins that have left the table bounds. After the game ends
// it reports the final score.
func (s *Session) Score() int {
	if s.state == StateOver {
		return s.score
	}
	return s.countScore()
}

func (s *Session) countScore() int {
	if s.spec == nil {
		return 0
	}
	down := 0
	for _, pin := range s.pins {
		p, ok := s.world.Position(pin.Handle())
		if !ok || !s.spec.Bounds.Contains(p) {
			down++
		}
	}
	return down
}

func (s *Session) State() State {
	return s.state
}

// Remaining is the time left on the countdown in seconds.
func (s *Session) Remaining() float64 {
	return s.remaining
}

func (s *Session) Throws() int {
	return s.throws
}

func (s *Session) Pins() []*physics.PhysicsBody {
	return append([]*physics.PhysicsBody(nil), s.pins...)
}

func (s *Session) Balls() []*physics.PhysicsBody {
	return append([]*physics.PhysicsBody(nil), s.balls...)
}

func (s *Session) Table() []*physics.PhysicsBody {
	return append([]*physics.PhysicsBody(nil), s.table...)
}

func (s *Session) removeAll(bodies *[]*physics.PhysicsBody) {
	for _, b := range *bodies {
		s.world.RemoveNode(b, s.root)
	}
	*bodies = nil
}

// NewCamera places a camera where the spec puts the bowler, looking down
// the table.
func NewCamera(spec *prefabs.BowlingSpec) *scene.Camera {
	if spec == nil {
		return scene.NewCamera(mgl64.Vec3{})
	}
	cam := scene.NewCamera(spec.Camera.Position.Vec())
	cam.LookAt(spec.Camera.Target.Vec())
	return cam
}
