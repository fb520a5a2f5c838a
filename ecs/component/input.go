package component

import "math"

// Input is the per-tick input snapshot for an entity. It is written once by
// the input system and never mutated afterwards within the tick.
type Input struct {
	MoveX         float64
	JumpPressed   bool
	JumpHeld      bool
	AttackPressed bool
	DashPressed   bool
}

// Clamped returns the sample with MoveX limited to [-1, 1]. A NaN axis reads
// as no input.
func (in Input) Clamped() Input {
	if math.IsNaN(in.MoveX) {
		in.MoveX = 0
	} else if in.MoveX > 1 {
		in.MoveX = 1
	} else if in.MoveX < -1 {
		in.MoveX = -1
	}
	return in
}

var InputComponent = NewComponent[Input]()
