package component

// AnimationSignal is the per-tick state handed to the sprite/animation side.
type AnimationSignal struct {
	Grounded      bool
	Speed         float64 // |vx| / MoveSpeed
	VerticalSpeed float64
	Hang          bool
	Slide         bool
	Attack        bool // true only on the tick attack was pressed
	FacingLeft    bool
}

// AnimationSink receives animation signals; it never feeds back into the
// simulation.
type AnimationSink interface {
	ReceiveAnimation(entity uint64, signal AnimationSignal)
}

var AnimationSignalComponent = NewComponent[AnimationSignal]()
