package common

import "testing"

func TestCountdownEndsOnWholeSteps(t *testing.T) {
	cases := []struct {
		name  string
		timer float64
		steps int
	}{
		{"jump_buffer", 0.1, 6},
		{"freeze", 0.15, 9},
		{"coyote", 0.2, 12},
		{"dash", 0.3, 18},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			timer := c.timer
			for i := 1; i < c.steps; i++ {
				timer = Countdown(timer, FixedDelta)
				if timer <= 0 {
					t.Fatalf("timer ran out after %d of %d steps", i, c.steps)
				}
			}
			if timer = Countdown(timer, FixedDelta); timer != 0 {
				t.Fatalf("timer = %v after %d steps, want 0", timer, c.steps)
			}
		})
	}
}

func TestCountdownNeverNegative(t *testing.T) {
	cases := []struct {
		name  string
		timer float64
		dt    float64
		want  float64
	}{
		{"already_zero", 0, FixedDelta, 0},
		{"overshoot", 0.01, FixedDelta, 0},
		{"partial", 0.5, 0.25, 0.25},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Countdown(c.timer, c.dt); got != c.want {
				t.Fatalf("Countdown(%v, %v) = %v, want %v", c.timer, c.dt, got, c.want)
			}
		})
	}
}
