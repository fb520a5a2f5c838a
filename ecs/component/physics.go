package component

import "github.com/jakecoffman/cp"

// WallContact records which side of a body touches a vertical wall face.
type WallContact int

const (
	WallNone WallContact = iota
	WallLeft
	WallRight
)

func (w WallContact) String() string {
	switch w {
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	default:
		return "none"
	}
}

// KinematicBody is the integrator-owned motion state of a character. Other
// systems read it; only the physics system writes it.
type KinematicBody struct {
	Position     cp.Vector
	Velocity     cp.Vector
	Grounded     bool
	Wall         WallContact
	GroundNormal cp.Vector
}

// NewKinematicBody returns a body at pos resting on flat-ground orientation.
func NewKinematicBody(pos cp.Vector) KinematicBody {
	return KinematicBody{Position: pos, GroundNormal: cp.Vector{X: 0, Y: 1}}
}

var KinematicBodyComponent = NewComponent[KinematicBody]()

// Collider is the axis-aligned box swept through the world, centred on the
// body position.
type Collider struct {
	Width  float64
	Height float64
}

// HalfExtents returns half the box size.
func (c Collider) HalfExtents() cp.Vector {
	return cp.Vector{X: c.Width / 2, Y: c.Height / 2}
}

var ColliderComponent = NewComponent[Collider]()

// Contact is one surface reported by a sweep: the outward surface normal and
// the distance travelled along the sweep direction before touching it.
type Contact struct {
	Normal   cp.Vector
	Distance float64
}

// Sweeper casts a collider through solid, non-trigger geometry. direction is
// a unit vector; contacts beyond maxDistance are not reported. Contacts come
// nearest first, and contacts at the same distance put the larger Normal.Y
// first.
type Sweeper interface {
	Sweep(shape Collider, filter cp.ShapeFilter, origin, direction cp.Vector, maxDistance float64) []Contact
}
