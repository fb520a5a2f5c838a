package component

// RespawnRequest marks an entity to be moved back to its safe respawn
// position by the respawn system.
type RespawnRequest struct {
	Reason string
}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
