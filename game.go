package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shootgame/game"
	"github.com/milk9111/shootgame/physics"
	"github.com/milk9111/shootgame/physics/engine/planar"
	"github.com/milk9111/shootgame/prefabs"
	"github.com/milk9111/shootgame/scene"
	"github.com/milk9111/shootgame/script"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	turnRate = 1.2
	focal    = 900.0
)

type Game struct {
	frames int
	debug  bool

	input  *Input
	world  *physics.PhysicsWorld
	root   *scene.Scene
	camera *scene.Camera

	session *game.Session
	runner  *script.Runner
	step    int

	watcher *prefabs.Watcher

	view       scene.Projection
	viewCenter mgl64.Vec3
	viewScale  float64
	overlay    bool
	paused     bool
	status     string
}

// NewGame builds the bowling table viewer, or runs the named scenario when
// scenario is set.
func NewGame(scenario string, debug bool) (*Game, error) {
	cfg, err := prefabs.LoadPhysicsConfig()
	if err != nil {
		log.Printf("physics.yaml: %v, using defaults", err)
		cfg = physics.DefaultConfig()
	}

	g := &Game{
		debug:  debug,
		input:  NewInput(),
		root:   scene.New(),
		view:   scene.ProjectEye,
		status: "C: table  S: start  Space: throw  arrows: aim  V: view  F1: overlay  P: pause",
	}

	if scenario != "" {
		r, err := script.Load(scenario)
		if err != nil {
			return nil, err
		}
		if cfg, err = r.PhysicsConfig(cfg); err != nil {
			return nil, err
		}
		g.runner = r
		g.camera = scene.NewCamera(mgl64.Vec3{0, 6, 24})
		g.camera.LookAt(mgl64.Vec3{0, 3, 0})
		g.viewCenter = mgl64.Vec3{0, 5, 0}
		g.viewScale = 24
	}

	g.world = physics.NewPhysicsWorld(cfg)
	if err := g.world.Init(); err != nil {
		return nil, err
	}

	if g.runner != nil {
		if err := g.runner.Setup(g.world, g.root); err != nil {
			g.world.Destroy()
			return nil, err
		}
	} else {
		spec, err := prefabs.LoadBowlingSpec()
		if err != nil {
			g.world.Destroy()
			return nil, err
		}
		g.camera = game.NewCamera(spec)
		g.session = game.NewSession(g.world, g.root, g.camera, spec)
		g.viewCenter = spec.Top.Position.Vec()
		g.viewScale = 4
	}

	if cfg.Backend == physics.BackendPlanar {
		g.view = scene.ProjectSide
	}

	if info, err := os.Stat("prefabs"); err == nil && info.IsDir() {
		w, err := prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"))
		if err != nil {
			log.Printf("prefab watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.world.Destroy()
}

func (g *Game) Update() error {
	g.frames++
	g.input.Update()
	g.reloadPrefabs()

	dt := 1.0 / float64(ebiten.TPS())
	g.camera.Turn(g.input.TurnX*turnRate*dt, g.input.TurnY*turnRate*dt)
	if g.input.NextView {
		g.view = g.view.Next()
	}
	if g.input.ToggleOverlay {
		g.overlay = !g.overlay
	}
	if g.input.Pause {
		g.paused = !g.paused
	}

	if g.session != nil {
		g.updateSession()
	}
	if g.paused {
		return nil
	}

	if g.session != nil {
		g.session.Update(dt)
		return nil
	}

	g.step++
	if g.step <= g.runner.Frames() {
		if err := g.runner.Frame(g.step); err != nil {
			log.Printf("scenario %s: %v", g.runner.Name(), err)
		}
	}
	g.world.Step(dt)
	g.world.SyncTransforms()
	return nil
}

func (g *Game) updateSession() {
	if g.input.CreateTable {
		if err := g.session.CreateTable(); err != nil {
			log.Printf("create table: %v", err)
		}
	}
	if g.input.Start {
		if err := g.session.Start(); err != nil {
			log.Printf("start: %v", err)
		}
	}
	if g.input.Throw {
		if _, err := g.session.Throw(); err != nil && g.debug {
			log.Printf("throw: %v", err)
		}
	}
}

func (g *Game) reloadPrefabs() {
	for _, path := range g.watcher.Drain() {
		switch filepath.Base(path) {
		case "bowling.yaml":
			if g.session == nil {
				continue
			}
			spec, err := prefabs.LoadBowlingSpec()
			if err != nil {
				log.Printf("reload bowling.yaml: %v", err)
				continue
			}
			if err := g.session.Reload(spec); err != nil {
				log.Printf("reload bowling.yaml: %v", err)
				continue
			}
			log.Printf("reloaded bowling.yaml")
		case "physics.yaml":
			log.Printf("physics.yaml changed; restart to apply")
		default:
			if g.debug {
				log.Printf("prefab changed: %s", path)
			}
		}
	}
}

func (g *Game) viewport() scene.Viewport {
	return scene.Viewport{
		Width:  baseWidth,
		Height: baseHeight,
		Mode:   g.view,
		Center: g.viewCenter,
		Scale:  g.viewScale,
		Camera: g.camera,
		Focal:  focal,
	}
}

type drawItem struct {
	node  *scene.Node
	depth float64
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	view := g.viewport()

	var items []drawItem
	g.root.Walk(func(n *scene.Node) {
		if n.Renderable == nil {
			return
		}
		items = append(items, drawItem{node: n, depth: view.Depth(n.WorldPosition())})
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth > items[j].depth })
	for _, it := range items {
		drawNode(screen, view, it.node)
	}

	if g.overlay {
		if space, ok := g.world.Engine().(*planar.Space); ok {
			drawPlanarOverlay(screen, space, view)
		}
	}

	ebitenutil.DebugPrint(screen, g.hud())
}

func (g *Game) hud() string {
	s := fmt.Sprintf("FPS: %.1f  bodies: %d  view: %s  sim: %.2fs\n%s\n",
		ebiten.ActualFPS(), g.world.BodyCount(), g.view, g.world.SimulatedTime(), g.status)
	if g.session != nil {
		s += fmt.Sprintf("%s  time left: %.0f  score: %d  throws: %d\n",
			g.session.State(), g.session.Remaining(), g.session.Score(), g.session.Throws())
	} else {
		s += fmt.Sprintf("scenario %s  frame %d/%d\n", g.runner.Name(), g.step, g.runner.Frames())
	}
	if g.paused {
		s += "paused\n"
	}
	return s
}

func drawNode(screen *ebiten.Image, view scene.Viewport, n *scene.Node) {
	r := n.Renderable
	fill := r.Color
	if fill == nil {
		fill = colornames.White
	}
	pos := n.WorldPosition()
	half := r.Size.Mul(0.5)

	round := r.Kind == scene.RenderSphere || (r.Kind == scene.RenderCylinder && view.Mode == scene.ProjectTop)
	if round {
		x, y, s, ok := view.Project(pos)
		if !ok {
			return
		}
		vector.FillCircle(screen, float32(x), float32(y), float32(half[0]*s), fill, true)
		vector.StrokeCircle(screen, float32(x), float32(y), float32(half[0]*s), 1, shade(fill), true)
		return
	}

	x0, y0, x1, y1, ok := view.Bounds(pos, half)
	if !ok {
		return
	}
	vector.FillRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), fill, false)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, shade(fill), false)
}

func shade(c color.Color) color.Color {
	r, g, b, a := c.RGBA()
	return color.RGBA64{R: uint16(r / 2), G: uint16(g / 2), B: uint16(b / 2), A: uint16(a)}
}

func vec3(v cp.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, 0}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
