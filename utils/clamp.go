// SPDX-License-Identifier: EPL-2.0

package utils

// Clamp limits x to the range [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// MoveToward moves current toward target by at most step and returns the
// result. It never overshoots: once within step of the target it returns
// the target exactly.
func MoveToward(current, target, step float32) float32 {
	if step < 0 {
		step = -step
	}
	if current < target {
		current += step
		if current > target {
			return target
		}
		return current
	}
	if current > target {
		current -= step
		if current < target {
			return target
		}
	}
	return current
}
