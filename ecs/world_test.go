package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/platformer/ecs/component"
)

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("destroying twice should fail")
				}
			}
		})
	}
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := w.CreateEntity()
	if err := Add(w, old, h, 1); err != nil {
		t.Fatal(err)
	}
	w.DestroyEntity(old)

	fresh := w.CreateEntity()
	if fresh.id() != old.id() || fresh == old {
		t.Fatalf("expected slot %d reused with a new generation, got %v and %v", old.id(), old, fresh)
	}
	if Has(w, fresh, h) {
		t.Fatalf("recycled slot must not inherit components")
	}
	if err := Add(w, old, h, 2); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("stale handle add error = %v", err)
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, ints, 10) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints)
				if !ok || v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, ints) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, strs, "a"); err != nil {
					return err
				}
				return Add(w, e2, strs, "b")
			},
			check: func(t *testing.T) {
				if !Has(w, e1, strs) || !Has(w, e2, strs) {
					t.Fatalf("expected both entities to have string component")
				}
				if v, _ := Get(w, e2, strs); v != "b" {
					t.Fatalf("e2 string = %q", v)
				}
			},
			teardown: func() bool { return Remove(w, e1, strs) },
		},
		{
			name:  "replace_value",
			setup: func() error { _ = Add(w, e2, ints, 1); return Add(w, e2, ints, 2) },
			check: func(t *testing.T) {
				if v, _ := Get(w, e2, ints); v != 2 {
					t.Fatalf("expected replaced value 2, got %v", v)
				}
			},
			teardown: func() bool { return Remove(w, e2, ints) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if Remove(w, e1, ints) {
		t.Fatalf("removing a missing component should report false")
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()

	if err := w.AddComponent(e, nil, 1); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("nil kind error = %v", err)
	}
	if err := w.AddComponent(e, component.ComponentKind[int]{}, 1); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("zero kind error = %v", err)
	}
	if err := w.AddComponent(e, component.NewComponentKind[int](), nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("nil value error = %v", err)
	}
}

func TestQuery(t *testing.T) {
	w := NewWorld()
	a := component.NewComponent[int]()
	b := component.NewComponent[string]()
	c := component.NewComponent[float64]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()

	_ = Add(w, e1, a, 1)
	_ = Add(w, e2, a, 2)
	_ = Add(w, e2, b, "two")
	_ = Add(w, e3, b, "three")

	cases := []struct {
		name  string
		kinds []component.Kind
		want  []Entity
	}{
		{"single", []component.Kind{a.Kind()}, []Entity{e1, e2}},
		{"intersection", []component.Kind{a.Kind(), b.Kind()}, []Entity{e2}},
		{"missing_store", []component.Kind{a.Kind(), c.Kind()}, nil},
		{"no_kinds", nil, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := w.Query(tc.kinds...)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			set := toSet(got)
			for _, e := range tc.want {
				if _, ok := set[e]; !ok {
					t.Fatalf("expected %v in %v", e, got)
				}
			}
		})
	}

	w.DestroyEntity(e2)
	if got := w.Query(a.Kind(), b.Kind()); len(got) != 0 {
		t.Fatalf("destroyed entities must not match, got %v", got)
	}
	if first, ok := w.First(b.Kind()); !ok || first != e3 {
		t.Fatalf("First = %v %v, want %v", first, ok, e3)
	}
}

func TestForEachWritesBack(t *testing.T) {
	w := NewWorld()
	pos := component.NewComponent[int]()
	vel := component.NewComponent[int]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	_ = Add(w, e1, pos, 1)
	_ = Add(w, e1, vel, 10)
	_ = Add(w, e2, pos, 5)

	ForEach(w, pos, func(e Entity, p *int) { *p *= 2 })
	if v, _ := Get(w, e2, pos); v != 10 {
		t.Fatalf("ForEach should write back, got %v", v)
	}

	var seen []Entity
	ForEach2(w, pos, vel, func(e Entity, p *int, v *int) {
		seen = append(seen, e)
		*p += *v
	})
	if len(seen) != 1 || seen[0] != e1 {
		t.Fatalf("ForEach2 should visit only e1, got %v", seen)
	}
	if v, _ := Get(w, e1, pos); v != 12 {
		t.Fatalf("ForEach2 should write back, got %v", v)
	}
}

func TestUpdateRunsSystemsInOrder(t *testing.T) {
	w := NewWorld()

	var order []string
	var drained []Event
	w.AddSystem(SystemFunc(func(w *World) {
		order = append(order, "first")
		w.Events().Push(Event{Type: "ping", Data: w.Tick()})
	}))
	w.AddSystem(nil)
	w.AddSystem(SystemFunc(func(w *World) {
		order = append(order, "second")
		drained = w.Events().Drain()
	}))

	w.Update()
	w.Update()

	if len(order) != 4 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected order %v", order)
	}
	if len(w.Systems()) != 2 {
		t.Fatalf("nil systems should be ignored, got %d", len(w.Systems()))
	}
	if w.Tick() != 2 {
		t.Fatalf("tick = %d, want 2", w.Tick())
	}
	if len(drained) != 1 || drained[0].Data.(uint64) != 1 {
		t.Fatalf("second update should drain the tick 1 event, got %v", drained)
	}
}

func TestUndrainedEventsAreDropped(t *testing.T) {
	w := NewWorld()
	w.AddSystem(SystemFunc(func(w *World) {
		w.Events().Push(Event{Type: "noise"})
	}))

	w.Update()
	if n := w.Events().Len(); n != 0 {
		t.Fatalf("events should not outlive the tick, %d left", n)
	}
	if got := w.Events().Drain(); got != nil {
		t.Fatalf("expected nothing to drain, got %v", got)
	}
}

func TestNilWorldIsSafe(t *testing.T) {
	var w *World
	if w.IsAlive(1) || w.Entities() != nil || w.Tick() != 0 || w.Events() != nil {
		t.Fatalf("nil world should report nothing")
	}
	w.Update()
	var q *EventQueue
	q.Push(Event{})
	if q.Len() != 0 || q.Drain() != nil {
		t.Fatalf("nil queue should stay empty")
	}
}
