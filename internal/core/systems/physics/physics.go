package physics

import (
	"fmt"
	"math"
)

// Vec3 is a plain 3D vector.
type Vec3 struct{ X, Y, Z float64 }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

// Distance computes Euclidean distance between two points.
func (v Vec3) Distance(o Vec3) float64 {
	return math.Sqrt((o.X-v.X)*(o.X-v.X) + (o.Y-v.Y)*(o.Y-v.Y) + (o.Z-v.Z)*(o.Z-v.Z))
}

func (v Vec3) String() string {
	return fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z)
}

// Position is where an entity is. Components are values; replace, don't mutate.
type Position struct{ Vec3 }

// Velocity is units per second.
type Velocity struct{ Vec3 }

func NewPosition(x, y, z float64) Position { return Position{Vec3{x, y, z}} }

func NewVelocity(x, y, z float64) Velocity { return Velocity{Vec3{x, y, z}} }
