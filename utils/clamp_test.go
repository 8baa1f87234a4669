// SPDX-License-Identifier: EPL-2.0

package utils

import "testing"

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		x, lo, hi  float32
		want       float32
	}{
		{name: "inside range", x: 0.5, lo: 0, hi: 1, want: 0.5},
		{name: "below range", x: -0.2, lo: 0, hi: 1, want: 0},
		{name: "above range", x: 1.7, lo: 0, hi: 1, want: 1},
		{name: "at lower bound", x: 0, lo: 0, hi: 1, want: 0},
		{name: "at upper bound", x: 1, lo: 0, hi: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Clamp(tt.x, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.x, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestMoveToward(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                  string
		current, target, step float32
		want                  float32
	}{
		{name: "step up", current: 0, target: 1, step: 0.25, want: 0.25},
		{name: "step down", current: 1, target: 0, step: 0.25, want: 0.75},
		{name: "no overshoot up", current: 0.9, target: 1, step: 0.25, want: 1},
		{name: "no overshoot down", current: 0.1, target: 0, step: 0.25, want: 0},
		{name: "already at target", current: 0.5, target: 0.5, step: 0.25, want: 0.5},
		{name: "negative step treated as magnitude", current: 0, target: 1, step: -0.25, want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MoveToward(tt.current, tt.target, tt.step); got != tt.want {
				t.Errorf("MoveToward(%v, %v, %v) = %v, want %v",
					tt.current, tt.target, tt.step, got, tt.want)
			}
		})
	}
}
