package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// StandardGravity is the default downward acceleration along -Y.
const StandardGravity = 9.81

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FiniteVec reports whether every component of v is finite.
func FiniteVec(v mgl64.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// Normalize returns v scaled to unit length, or the zero vector when v has
// no usable length. mgl64's Normalize divides by zero in that case.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || !IsFinite(l) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

func Vec3(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3(a)
}

func Sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
