// Package script runs tengo scenarios against a PhysicsWorld. A scenario
// defines setup(engine) and on_frame(engine, n), and may set the globals
// frames and config.
//
// Top-level code runs again before every call. State that has to outlive a
// call goes in the store map.
package script

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/shootgame/physics"
	"github.com/milk9111/shootgame/prefabs"
	"github.com/milk9111/shootgame/scene"
)

const DefaultFrames = 240

const dispatchScript = `
if __phase == "setup" {
	setup(__engine)
} else if __phase == "frame" {
	on_frame(__engine, __frame)
}
`

var ErrNotAttached = errors.New("script runner has no world")

// Runner holds one compiled scenario and the bodies it created.
type Runner struct {
	name     string
	compiled *tengo.Compiled
	engine   *tengo.ImmutableMap
	store    *tengo.Map

	world  *physics.PhysicsWorld
	root   *scene.Scene
	bodies map[physics.Handle]*physics.PhysicsBody

	frames int
	config any
	logger *log.Logger
}

// Load compiles the named scenario from prefabs.
func Load(name string) (*Runner, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Compile(name, src)
}

func Compile(name string, src []byte) (*Runner, error) {
	full := string(src) + "\n" + dispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__phase", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__frame", 0)
	_ = s.Add("store", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	r := &Runner{
		name:     name,
		compiled: compiled,
		store:    &tengo.Map{Value: map[string]tengo.Object{}},
		bodies:   make(map[physics.Handle]*physics.PhysicsBody),
		frames:   DefaultFrames,
		logger:   log.New(log.Writer(), "[script "+name+"] ", log.LstdFlags),
	}
	r.engine = r.buildEngine()

	// Run once with no phase so top-level globals are evaluated.
	if err := r.run("noop", 0); err != nil {
		return nil, err
	}
	if compiled.IsDefined("frames") {
		if n := compiled.Get("frames").Int(); n > 0 {
			r.frames = n
		}
	}
	if compiled.IsDefined("config") {
		r.config = objectToAny(compiled.Get("config").Object())
	}
	return r, nil
}

func (r *Runner) Name() string {
	return r.name
}

// Frames is the scenario's requested run length.
func (r *Runner) Frames() int {
	return r.frames
}

func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// PhysicsConfig overlays the scenario's config map on base.
func (r *Runner) PhysicsConfig(base physics.Config) (physics.Config, error) {
	cfg := base
	if err := prefabs.DecodeSpecInto(r.config, &cfg); err != nil {
		return base, fmt.Errorf("script: %s config: %w", r.name, err)
	}
	return cfg, nil
}

// Setup binds the runner to world and root and calls the scenario's setup.
func (r *Runner) Setup(world *physics.PhysicsWorld, root *scene.Scene) error {
	if world == nil {
		return ErrNotAttached
	}
	r.world = world
	r.root = root
	return r.run("setup", 0)
}

// Frame calls on_frame with frame number n.
func (r *Runner) Frame(n int) error {
	if r.world == nil {
		return ErrNotAttached
	}
	return r.run("frame", n)
}

// Bodies returns the bodies the scenario created and has not removed.
func (r *Runner) Bodies() []*physics.PhysicsBody {
	if r.world == nil {
		return nil
	}
	out := make([]*physics.PhysicsBody, 0, len(r.bodies))
	for _, h := range r.world.Handles() {
		if b, ok := r.bodies[h]; ok {
			out = append(out, b)
		}
	}
	return out
}

func (r *Runner) run(phase string, frame int) error {
	if err := r.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := r.compiled.Set("__engine", r.engine); err != nil {
		return err
	}
	if err := r.compiled.Set("__frame", frame); err != nil {
		return err
	}
	if err := r.compiled.Set("store", r.store); err != nil {
		return err
	}
	if err := r.compiled.Run(); err != nil {
		return fmt.Errorf("script: %s %s: %w", r.name, phase, err)
	}
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
