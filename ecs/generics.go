package ecs

import "github.com/milk9111/platformer/ecs/component"

func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	return w.AddComponent(e, handle.Kind(), value)
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, handle.Kind())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.HasComponent(e, handle.Kind())
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	value, ok := w.GetComponent(e, handle.Kind())
	if !ok {
		return zero, false
	}
	cast, ok := value.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// ForEach visits every entity holding handle's component. Changes made
// through the pointer are written back after fn returns.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(e Entity, v *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(handle.Kind()) {
		v, ok := Get(w, e, handle)
		if !ok {
			continue
		}
		fn(e, &v)
		if w.IsAlive(e) {
			w.store(handle.Kind().ID(), true).Set(e, v)
		}
	}
}

// ForEach2 is ForEach over the intersection of two component kinds.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(e Entity, a *A, b *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, e := range w.Query(ha.Kind(), hb.Kind()) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		if !okA || !okB {
			continue
		}
		fn(e, &a, &b)
		if w.IsAlive(e) {
			w.store(ha.Kind().ID(), true).Set(e, a)
			w.store(hb.Kind().ID(), true).Set(e, b)
		}
	}
}
