package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/physics"
	"gopkg.in/yaml.v3"
)

func TestLoadPhysicsConfig(t *testing.T) {
	cfg, err := LoadPhysicsConfig()
	if err != nil {
		t.Fatalf("LoadPhysicsConfig error: %v", err)
	}
	if cfg.Backend != physics.BackendRigid {
		t.Fatalf("backend = %q, want %q", cfg.Backend, physics.BackendRigid)
	}
	if cfg.Gravity != [3]float64{0, -9.81, 0} {
		t.Fatalf("gravity = %v", cfg.Gravity)
	}
	if cfg.FixedTimeStep != 1.0/60.0 {
		t.Fatalf("fixed_time_step = %v, want exactly 1/60", cfg.FixedTimeStep)
	}
}

func TestLoadBowlingSpec(t *testing.T) {
	spec, err := LoadBowlingSpec()
	if err != nil {
		t.Fatalf("LoadBowlingSpec error: %v", err)
	}
	if got := len(spec.Legs); got != 4 {
		t.Fatalf("legs = %d, want 4", got)
	}
	if spec.Duration != 15 {
		t.Fatalf("duration = %v, want 15", spec.Duration)
	}
	if spec.Ball.Mass != 6 || spec.Ball.Force != 490 {
		t.Fatalf("ball = %+v", spec.Ball)
	}
	if got := spec.Pins.Color.ColorOr(nil); got == nil {
		t.Fatal("pin color not parsed")
	}

	pins := spec.Pins.PinPositions()
	if len(pins) != 10 {
		t.Fatalf("pins = %d, want 10", len(pins))
	}
	if pins[0] != (mgl64.Vec3{0, -35.5, -160}) {
		t.Fatalf("head pin at %v", pins[0])
	}
	back := pins[len(pins)-1]
	if back != (mgl64.Vec3{18, -35.5, -178}) {
		t.Fatalf("last pin at %v", back)
	}
	for _, p := range pins {
		if !spec.Bounds.Contains(p) {
			t.Fatalf("pin %v starts out of bounds", p)
		}
	}
}

func TestValidateRejectsBadPrefabs(t *testing.T) {
	cases := []struct {
		name string
		file string
		body string
	}{
		{name: "unknown backend", file: "physics.yaml", body: "backend: bullet\n"},
		{name: "short gravity", file: "physics.yaml", body: "gravity: [0, -9.81]\n"},
		{name: "unknown key", file: "physics.yaml", body: "gravity_scale: 2\n"},
		{name: "missing pins", file: "bowling.yaml", body: "duration_seconds: 5\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.file, []byte(tc.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), "prefabs: validate") {
				t.Fatalf("err = %v, want a validation error", err)
			}
		})
	}

	if err := Validate("unknown.yaml", []byte("anything: 1\n")); err != nil {
		t.Fatalf("prefab without schema: %v", err)
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{in: `"#ff0000"`, want: color.NRGBA{R: 255, A: 255}, ok: true},
		{in: `"#00ff0080"`, want: color.NRGBA{G: 255, A: 128}, ok: true},
		{in: `red`, want: color.RGBA{R: 255, A: 255}, ok: true},
		{in: `"#12"`},
		{in: `[1, 2]`},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tc.in), &c)
			if !tc.ok {
				if err == nil {
					t.Fatalf("expected error for %s", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tc.in, err)
			}
			if c.Color != tc.want {
				t.Fatalf("color = %#v, want %#v", c.Color, tc.want)
			}
		})
	}
}

func TestScenariosAndScripts(t *testing.T) {
	names, err := Scenarios()
	if err != nil {
		t.Fatalf("Scenarios error: %v", err)
	}
	for _, want := range []string{"bowling_lane", "free_fall", "planar_drop", "stack"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("scenario %q missing from %v", want, names)
		}
	}

	for _, name := range []string{"free_fall", "free_fall.tengo", "scripts/free_fall.tengo", "prefabs/scripts/free_fall.tengo"} {
		src, err := LoadScript(name)
		if err != nil {
			t.Fatalf("LoadScript(%q) error: %v", name, err)
		}
		if !strings.Contains(string(src), "on_frame") {
			t.Fatalf("LoadScript(%q) returned unexpected source", name)
		}
	}
}

func TestDecodeSpec(t *testing.T) {
	raw := map[string]any{"backend": "planar", "max_sub_steps": 3}
	cfg, err := DecodeSpec[physics.Config](raw)
	if err != nil {
		t.Fatalf("DecodeSpec error: %v", err)
	}
	if cfg.Backend != "planar" || cfg.MaxSubSteps != 3 {
		t.Fatalf("decoded %+v", cfg)
	}
}

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "bowling.yaml")
	if err := os.WriteFile(target, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case name := <-w.Events:
			if filepath.Ext(name) == ".txt" {
				t.Fatalf("non-prefab file reported: %s", name)
			}
			if filepath.Base(name) == "bowling.yaml" {
				if err := w.Close(); err != nil {
					t.Fatalf("Close error: %v", err)
				}
				if err := w.Close(); err != nil {
					t.Fatalf("second Close error: %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("no event for bowling.yaml")
		}
	}
}
