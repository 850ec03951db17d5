package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestClockAdvance(t *testing.T) {
	cases := []struct {
		name  string
		steps []float64
		want  []int
	}{
		{name: "exact frames", steps: []float64{1.0 / 60, 1.0 / 60, 1.0 / 60}, want: []int{1, 1, 1}},
		{name: "half frames", steps: []float64{1.0 / 120, 1.0 / 120, 1.0 / 120, 1.0 / 120}, want: []int{0, 1, 0, 1}},
		{name: "rounded yaml step", steps: []float64{0.0166666667 - 1e-10}, want: []int{1}},
		{name: "ignored deltas", steps: []float64{0, -1, math.NaN(), math.Inf(1)}, want: []int{0, 0, 0, 0}},
		{name: "capped", steps: []float64{1}, want: []int{DefaultMaxSubSteps}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClock(DefaultFixedTimeStep, DefaultMaxSubSteps)
			for i, dt := range tc.steps {
				if got := c.Advance(dt); got != tc.want[i] {
					t.Fatalf("step %d: Advance(%v) = %d, want %d", i, dt, got, tc.want[i])
				}
			}
		})
	}
}

func TestClockZeroValueUsesDefaults(t *testing.T) {
	var c Clock
	if got := c.Advance(DefaultFixedTimeStep); got != 1 {
		t.Fatalf("zero clock Advance = %d, want 1", got)
	}
}

func TestShapeValidate(t *testing.T) {
	cases := []struct {
		name  string
		shape Shape
		ok    bool
	}{
		{name: "box", shape: Box(mgl64.Vec3{1, 1, 1}), ok: true},
		{name: "flat box", shape: Box(mgl64.Vec3{1, 0, 1})},
		{name: "cylinder", shape: Cylinder(mgl64.Vec3{2, 4, 2}), ok: true},
		{name: "cylinder no height", shape: Cylinder(mgl64.Vec3{2, 0, 2})},
		{name: "sphere", shape: Sphere(3), ok: true},
		{name: "negative sphere", shape: Sphere(-1)},
		{name: "nan", shape: Box(mgl64.Vec3{math.NaN(), 1, 1})},
		{name: "no kind", shape: Shape{Extents: mgl64.Vec3{1, 1, 1}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.shape.Validate()
			if tc.ok && err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidShape) {
				t.Fatalf("Validate() = %v, want ErrInvalidShape", err)
			}
		})
	}
}

func TestLocalInertia(t *testing.T) {
	sphere := Sphere(3).LocalInertia(6)
	want := 2.0 / 5.0 * 6 * 9
	for i := 0; i < 3; i++ {
		if math.Abs(sphere[i]-want) > 1e-9 {
			t.Fatalf("sphere inertia[%d] = %v, want %v", i, sphere[i], want)
		}
	}

	cyl := Cylinder(mgl64.Vec3{2, 4, 2}).LocalInertia(2)
	if math.Abs(cyl[1]-4) > 1e-9 {
		t.Fatalf("cylinder axial inertia = %v, want 4", cyl[1])
	}

	if got := Box(mgl64.Vec3{1, 1, 1}).LocalInertia(0); got != (mgl64.Vec3{}) {
		t.Fatalf("static inertia = %v, want zero", got)
	}
}

func TestBodyDescValidate(t *testing.T) {
	desc := BodyDesc{Shape: Sphere(1), Mass: -1}
	if err := desc.Validate(); !errors.Is(err, ErrInvalidMass) {
		t.Fatalf("Validate() = %v, want ErrInvalidMass", err)
	}
	desc.Mass = 1
	desc.Position = mgl64.Vec3{math.Inf(-1), 0, 0}
	if err := desc.Validate(); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("Validate() = %v, want ErrInvalidShape", err)
	}
}
