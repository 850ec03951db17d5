package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/physics"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadPhysicsConfig reads physics.yaml over the default config, so missing
// keys keep their defaults.
func LoadPhysicsConfig() (physics.Config, error) {
	cfg := physics.DefaultConfig()
	data, err := Load("physics.yaml")
	if err != nil {
		return cfg, fmt.Errorf("prefabs: load physics.yaml: %w", err)
	}
	if err := Validate("physics.yaml", data); err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("prefabs: unmarshal physics.yaml: %w", err)
	}
	return cfg, nil
}

// Vec3 is a YAML [x, y, z] sequence.
type Vec3 [3]float64

func (v Vec3) Vec() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

type BoxSpec struct {
	Size     Vec3       `yaml:"size"`
	Position Vec3       `yaml:"position"`
	Color    *YAMLColor `yaml:"color"`
}

type PinSpec struct {
	Rows    int        `yaml:"rows"`
	Radius  float64    `yaml:"radius"`
	Height  float64    `yaml:"height"`
	Mass    float64    `yaml:"mass"`
	Spacing float64    `yaml:"spacing"`
	Head    Vec3       `yaml:"head"`
	Color   *YAMLColor `yaml:"color"`
}

type BallSpec struct {
	Radius float64    `yaml:"radius"`
	Mass   float64    `yaml:"mass"`
	Force  float64    `yaml:"force"`
	Color  *YAMLColor `yaml:"color"`
}

// BoundsSpec is the box a pin must stay inside to count as standing.
type BoundsSpec struct {
	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`
}

func (b BoundsSpec) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

type CameraSpec struct {
	Position Vec3 `yaml:"position"`
	Target   Vec3 `yaml:"target"`
}

type BowlingSpec struct {
	Name     string     `yaml:"name"`
	Duration float64    `yaml:"duration_seconds"`
	Legs     []BoxSpec  `yaml:"legs"`
	Top      BoxSpec    `yaml:"top"`
	Pins     PinSpec    `yaml:"pins"`
	Ball     BallSpec   `yaml:"ball"`
	Bounds   BoundsSpec `yaml:"bounds"`
	Camera   CameraSpec `yaml:"camera"`
}

// PinPositions lays the pins out in rows behind the head pin, each row one
// pin wider and half a spacing further back.
func (s PinSpec) PinPositions() []mgl64.Vec3 {
	var out []mgl64.Vec3
	half := s.Spacing / 2
	for row := 0; row < s.Rows; row++ {
		startX := s.Head[0] - float64(row)*half
		z := s.Head[2] - float64(row)*half
		for pin := 0; pin <= row; pin++ {
			out = append(out, mgl64.Vec3{startX + float64(pin)*s.Spacing, s.Head[1], z})
		}
	}
	return out
}

func LoadBowlingSpec() (*BowlingSpec, error) {
	data, err := Load("bowling.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load bowling.yaml: %w", err)
	}
	if err := Validate("bowling.yaml", data); err != nil {
		return nil, err
	}
	var spec BowlingSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal bowling.yaml: %w", err)
	}
	return &spec, nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.Color
}

// ColorOr returns c, or fallback when the YAML omitted the color.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
