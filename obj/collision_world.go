package obj

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

// Solid is one piece of static level geometry in world units, y up.
type Solid struct {
	Verts  []cp.Vector
	Kind   int
	Filter cp.ShapeFilter
	Sensor bool

	bb  cp.BB
	box bool
}

// CollisionWorld holds the static geometry of a level and answers shape
// casts against it. Casts run against a per-collider-size copy of the
// geometry grown by the collider's half extents, so a box sweep reduces to a
// segment query from the box centre.
type CollisionWorld struct {
	level  *levels.Level
	space  *cp.Space
	solids []Solid

	expanded map[cp.Vector]*cp.Space
}

func NewCollisionWorld(level *levels.Level) *CollisionWorld {
	cw := &CollisionWorld{
		level:    level,
		space:    cp.NewSpace(),
		expanded: make(map[cp.Vector]*cp.Space),
	}
	cw.buildStaticShapes()
	return cw
}

// Space is the unexpanded geometry, for drawing.
func (cw *CollisionWorld) Space() *cp.Space {
	return cw.space
}

func (cw *CollisionWorld) Level() *levels.Level {
	return cw.level
}

func (cw *CollisionWorld) Solids() []Solid {
	return cw.solids
}

// Bounds is the level rectangle in world units.
func (cw *CollisionWorld) Bounds() cp.BB {
	if cw.level == nil {
		return cp.BB{}
	}
	return cp.BB{L: 0, B: 0, R: float64(cw.level.Width), T: float64(cw.level.Height)}
}

// TileOrigin returns the world position of the bottom-left corner of tile
// (x, y), where row 0 is the top of the level.
func (cw *CollisionWorld) TileOrigin(x, y int) cp.Vector {
	height := 0
	if cw.level != nil {
		height = cw.level.Height
	}
	return cp.Vector{X: float64(x), Y: float64(height - 1 - y)}
}

// AddBox adds a solid axis-aligned box.
func (cw *CollisionWorld) AddBox(bb cp.BB, kind int, filter cp.ShapeFilter) {
	verts := []cp.Vector{{X: bb.L, Y: bb.B}, {X: bb.R, Y: bb.B}, {X: bb.R, Y: bb.T}, {X: bb.L, Y: bb.T}}
	cw.add(Solid{Verts: verts, Kind: kind, Filter: filter, bb: bb, box: true})
}

// AddPolygon adds the convex hull of verts. Sensor polygons never block
// sweeps.
func (cw *CollisionWorld) AddPolygon(verts []cp.Vector, kind int, filter cp.ShapeFilter, sensor bool) {
	if len(verts) < 3 {
		return
	}
	bb := cp.BB{L: verts[0].X, B: verts[0].Y, R: verts[0].X, T: verts[0].Y}
	for _, v := range verts[1:] {
		bb = bb.Expand(v)
	}
	cw.add(Solid{Verts: append([]cp.Vector(nil), verts...), Kind: kind, Filter: filter, Sensor: sensor, bb: bb})
}

func (cw *CollisionWorld) add(solid Solid) {
	cw.solids = append(cw.solids, solid)
	cw.space.AddShape(newStaticShape(cw.space, solid, cp.Vector{}))
	// geometry changed; grown copies are rebuilt on the next cast
	cw.expanded = make(map[cp.Vector]*cp.Space)
}

func newStaticShape(space *cp.Space, solid Solid, grow cp.Vector) *cp.Shape {
	var shape *cp.Shape
	if solid.box {
		bb := cp.BB{L: solid.bb.L - grow.X, B: solid.bb.B - grow.Y, R: solid.bb.R + grow.X, T: solid.bb.T + grow.Y}
		shape = cp.NewBox2(space.StaticBody, bb, 0)
	} else {
		verts := make([]cp.Vector, 0, len(solid.Verts)*4)
		for _, v := range solid.Verts {
			verts = append(verts,
				cp.Vector{X: v.X - grow.X, Y: v.Y - grow.Y},
				cp.Vector{X: v.X + grow.X, Y: v.Y - grow.Y},
				cp.Vector{X: v.X + grow.X, Y: v.Y + grow.Y},
				cp.Vector{X: v.X - grow.X, Y: v.Y + grow.Y},
			)
		}
		shape = cp.NewPolyShape(space.StaticBody, len(verts), verts, cp.NewTransformIdentity(), 0)
	}
	shape.SetSensor(solid.Sensor)
	shape.SetFilter(solid.Filter)
	shape.UserData = solid.Kind
	return shape
}

func (cw *CollisionWorld) configurationSpace(half cp.Vector) *cp.Space {
	if space, ok := cw.expanded[half]; ok {
		return space
	}
	space := cp.NewSpace()
	for _, solid := range cw.solids {
		space.AddShape(newStaticShape(space, solid, half))
	}
	cw.expanded[half] = space
	return space
}

// Sweep implements component.Sweeper.
func (cw *CollisionWorld) Sweep(shape component.Collider, filter cp.ShapeFilter, origin, direction cp.Vector, maxDistance float64) []component.Contact {
	if cw == nil || maxDistance <= 0 || direction.LengthSq() == 0 {
		return nil
	}

	space := cw.configurationSpace(shape.HalfExtents())
	end := origin.Add(direction.Mult(maxDistance))

	var contacts []component.Contact
	space.SegmentQuery(origin, end, 0, filter, func(s *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
		if s.Sensor() {
			return
		}
		if alpha == 0 {
			// started touching or overlapping; only report surfaces being
			// pushed into
			normal = s.PointQuery(origin).Gradient
			if normal.Dot(direction) >= 0 {
				return
			}
		}
		contacts = append(contacts, component.Contact{Normal: normal, Distance: alpha * maxDistance})
	}, nil)
	sortContacts(contacts)
	return contacts
}

// contactTolerance is the distance below which two contacts count as the
// same touch.
const contactTolerance = 1e-6

// sortContacts orders contacts nearest first. Contacts at the same distance
// put flatter surfaces first, so where a slope meets flat ground the slope
// is the last ground contact seen and its normal is the one kept.
func sortContacts(contacts []component.Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		di := math.Round(contacts[i].Distance / contactTolerance)
		dj := math.Round(contacts[j].Distance / contactTolerance)
		if di != dj {
			return di < dj
		}
		return contacts[i].Normal.Y > contacts[j].Normal.Y
	})
}

// Triggers returns the kinds of the sensor solids a collider at position
// overlaps.
func (cw *CollisionWorld) Triggers(shape component.Collider, filter cp.ShapeFilter, position cp.Vector) []int {
	if cw == nil {
		return nil
	}

	space := cw.configurationSpace(shape.HalfExtents())
	point := cp.NewBBForExtents(position, 0, 0)

	var kinds []int
	space.BBQuery(point, filter, func(s *cp.Shape, data interface{}) {
		if !s.Sensor() || s.PointQuery(position).Distance >= 0 {
			return
		}
		if kind, ok := s.UserData.(int); ok {
			kinds = append(kinds, kind)
		}
	}, nil)
	return kinds
}

func (cw *CollisionWorld) buildStaticShapes() {
	if cw == nil || cw.level == nil {
		return
	}
	lvl := cw.level

	for layerIdx, layer := range lvl.Layers {
		if len(layer) != lvl.Width*lvl.Height || !lvl.IsPhysicsLayer(layerIdx) {
			continue
		}
		category := uint(lvl.LayerMeta[layerIdx].Category)
		if category == 0 {
			category = 1
		}
		filter := cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES)

		// Merge contiguous solid tiles into larger rectangles so the query
		// spaces hold fewer boxes and bodies do not catch on tile seams.
		processed := make([]bool, lvl.Width*lvl.Height)
		for y := 0; y < lvl.Height; y++ {
			for x := 0; x < lvl.Width; x++ {
				idx := y*lvl.Width + x
				if processed[idx] {
					continue
				}
				processed[idx] = true

				origin := cw.TileOrigin(x, y)
				x0, y0 := origin.X, origin.Y

				switch layer[idx] {
				case levels.TileEmpty:
					continue
				case levels.TileHazard:
					verts := []cp.Vector{{X: x0, Y: y0}, {X: x0 + 1, Y: y0}, {X: x0 + 0.5, Y: y0 + 1}}
					cw.AddPolygon(verts, levels.TileHazard, filter, true)
					continue
				case levels.TileSlopeUpRight:
					verts := []cp.Vector{{X: x0, Y: y0}, {X: x0 + 1, Y: y0}, {X: x0 + 1, Y: y0 + 1}}
					cw.AddPolygon(verts, levels.TileSlopeUpRight, filter, false)
					continue
				case levels.TileSlopeUpLeft:
					verts := []cp.Vector{{X: x0, Y: y0}, {X: x0 + 1, Y: y0}, {X: x0, Y: y0 + 1}}
					cw.AddPolygon(verts, levels.TileSlopeUpLeft, filter, false)
					continue
				}

				// Greedily expand a rectangle over contiguous solid tiles,
				// width first then height.
				w := 1
				for x+w < lvl.Width {
					idx2 := y*lvl.Width + (x + w)
					if processed[idx2] || layer[idx2] != levels.TileSolid {
						break
					}
					w++
				}

				h := 1
			heightLoop:
				for y+h < lvl.Height {
					for xi := x; xi < x+w; xi++ {
						idx2 := (y+h)*lvl.Width + xi
						if processed[idx2] || layer[idx2] != levels.TileSolid {
							break heightLoop
						}
					}
					h++
				}

				for yy := y; yy < y+h; yy++ {
					for xx := x; xx < x+w; xx++ {
						processed[yy*lvl.Width+xx] = true
					}
				}

				bb := cp.BB{L: x0, B: float64(lvl.Height - y - h), R: x0 + float64(w), T: float64(lvl.Height - y)}
				cw.AddBox(bb, levels.TileSolid, filter)
			}
		}
	}

	// Thick walls just outside the level keep bodies inside it.
	width, height := float64(lvl.Width), float64(lvl.Height)
	if width > 0 && height > 0 {
		bounds := []cp.BB{
			{L: -1, B: -1, R: width + 1, T: 0},
			{L: -1, B: height, R: width + 1, T: height + 1},
			{L: -1, B: -1, R: 0, T: height + 1},
			{L: width, B: -1, R: width + 1, T: height + 1},
		}
		for _, bb := range bounds {
			cw.AddBox(bb, levels.TileSolid, cp.NewShapeFilter(cp.NO_GROUP, 1, cp.ALL_CATEGORIES))
		}
	}
}
