// Package vec provides the 3D vector type shared by particle states and
// field samplers.
package vec

import (
	"fmt"
	"math"
)

// Vector3 is a 3D vector in float64. Values are copied, never shared.
type Vector3 struct {
	X, Y, Z float64
}

func New(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Div(s float64) Vector3 {
	return Vector3{v.X / s, v.Y / s, v.Z / s}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) MagSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vector3) Mag() float64 {
	return math.Sqrt(v.MagSq())
}

// Unit returns v scaled to length one. The zero vector is returned unchanged.
func (v Vector3) Unit() Vector3 {
	mag := v.Mag()
	if mag == 0 {
		return v
	}
	return v.Scale(1 / mag)
}

// Floor applies math.Floor component-wise.
func (v Vector3) Floor() Vector3 {
	return Vector3{math.Floor(v.X), math.Floor(v.Y), math.Floor(v.Z)}
}

// Elem returns component i (0=X, 1=Y, 2=Z).
func (v Vector3) Elem(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("vec: component index %d out of range", i))
}

func (v Vector3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every component of v and o differs by at most tol.
func (v Vector3) ApproxEqual(o Vector3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol && math.Abs(v.Z-o.Z) <= tol
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
