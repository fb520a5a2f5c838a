package system

import (
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// InputView is what an input source may observe when sampling.
type InputView struct {
	Tick uint64
	Body component.KinematicBody
}

// InputSource produces one input snapshot per tick.
type InputSource interface {
	Sample(view InputView) component.Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func(view InputView) component.Input

func (f InputFunc) Sample(view InputView) component.Input {
	return f(view)
}

type InputSystem struct {
	source InputSource
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{source: source}
}

// SetSource replaces the input source, e.g. when switching to a script.
func (i *InputSystem) SetSource(source InputSource) {
	i.source = source
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.PlayerTagComponent.Kind(), component.InputComponent.Kind()) {
		var input component.Input
		if i.source != nil {
			body, _ := ecs.Get(w, e, component.KinematicBodyComponent)
			input = i.source.Sample(InputView{Tick: w.Tick(), Body: body})
		}
		_ = ecs.Add(w, e, component.InputComponent, input.Clamped())
	}
}
