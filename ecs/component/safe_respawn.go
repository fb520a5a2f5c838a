package component

import "github.com/jakecoffman/cp"

// SafeRespawn stores the last position an entity stood on safe ground.
type SafeRespawn struct {
	Position    cp.Vector
	Initialized bool
}

var SafeRespawnComponent = NewComponent[SafeRespawn]()
