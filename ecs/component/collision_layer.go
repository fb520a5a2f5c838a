package component

import "github.com/jakecoffman/cp"

// CollisionLayer allows entities to declare a collision category and mask
// so sweeps only see the geometry the body should collide with.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// it is treated as category 1.
	Category uint32 `yaml:"category,omitempty" toml:"category,omitempty"`
	// Mask is a bitmask of categories this entity collides with. If zero,
	// it is treated as all-bits set.
	Mask uint32 `yaml:"mask,omitempty" toml:"mask,omitempty"`
}

// Filter converts the layer into a Chipmunk shape filter for queries.
func (l CollisionLayer) Filter() cp.ShapeFilter {
	category := uint(l.Category)
	if category == 0 {
		category = 1
	}
	mask := uint(l.Mask)
	if mask == 0 {
		mask = cp.ALL_CATEGORIES
	}
	return cp.NewShapeFilter(cp.NO_GROUP, category, mask)
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
