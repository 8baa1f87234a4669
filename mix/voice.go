// SPDX-License-Identifier: EPL-2.0

package mix

import "github.com/gosnd/spatial/utils"

// VoiceID identifies a voice for the lifetime of an engine. IDs are
// never reused, so a stale ID simply addresses nothing.
type VoiceID uint64

// DefaultPriority is the importance of a freshly played voice. Lower
// numbers are more important when the voice table is full.
const DefaultPriority = 128

// Voice is one playing instance of an Asset. All methods are safe for
// concurrent use and become no-ops once the voice has stopped.
type Voice struct {
	eng   *Engine
	id    VoiceID
	asset *Asset
	group *Group

	pos      Vec3
	gain     float32
	spatial  bool
	loop     bool
	loopBeg  int64 // frames
	loopEnd  int64 // frames, exclusive
	priority int
	paused   bool

	head       int64  // next frame to render
	startClock uint64 // render nothing before this clock
	fadeFrom   uint64 // clock when the fade was scheduled
	fadeAt     uint64 // clock of full silence, 0 = no fade

	stopped bool
}

func (v *Voice) ID() VoiceID { return v.id }

func (v *Voice) SetPosition(p Vec3) {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped {
		return
	}
	v.pos = p
}

func (v *Voice) SetVolume(g float32) {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped {
		return
	}
	v.gain = utils.Clamp(g, 0, 1)
}

func (v *Voice) SetSpatial(on bool) {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped {
		return
	}
	v.spatial = on
}

func (v *Voice) SetLoop(on bool) {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped {
		return
	}
	v.loop = on
}

// SetLoopPointsMS sets the loop region in milliseconds of asset time.
// The region is clamped to the asset and ignored when degenerate.
func (v *Voice) SetLoopPointsMS(startMS, endMS int64) {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped {
		return
	}
	rate := int64(v.asset.rate)
	beg := startMS * rate / 1000
	end := endMS * rate / 1000
	total := int64(v.asset.Frames())
	if end > total {
		end = total
	}
	if beg < 0 || beg >= end {
		return
	}
	v.loopBeg, v.loopEnd = beg, end
}

func (v *Voice) SetPriority(p int) {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped {
		return
	}
	v.priority = p
}

// SetStartDelay holds the voice silent for the given number of frames
// from the current clock. The playback head does not advance while
// the voice waits.
func (v *Voice) SetStartDelay(frames int64) {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped || frames < 0 {
		return
	}
	v.startClock = v.eng.clock + uint64(frames)
}

// FadeToSilence ramps the voice gain linearly from its value now to
// zero at the given clock, then retires the voice with a finished
// event. Looping is switched off so the tail cannot wrap.
func (v *Voice) FadeToSilence(atClock uint64) {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped {
		return
	}
	v.loop = false
	v.fadeFrom = v.eng.clock
	v.fadeAt = atClock
	if v.fadeAt <= v.fadeFrom {
		v.fadeAt = v.fadeFrom + 1
	}
}

func (v *Voice) SetPaused(on bool) {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped {
		return
	}
	v.paused = on
}

// Stop removes the voice immediately. No finished event is emitted;
// the caller initiated the stop and already knows.
func (v *Voice) Stop() {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	if v.stopped {
		return
	}
	v.eng.removeLocked(v, false)
}

func (v *Voice) Active() bool {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	return !v.stopped
}

func (v *Voice) Looping() bool {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	return v.loop
}

func (v *Voice) Spatial() bool {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	return v.spatial
}

func (v *Voice) Gain() float32 {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	return v.gain
}

func (v *Voice) Priority() int {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	return v.priority
}

// FadeAt reports the scheduled silence clock, zero when no fade is
// pending.
func (v *Voice) FadeAt() uint64 {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	return v.fadeAt
}

// StartsAt reports the clock at which the voice begins producing
// samples.
func (v *Voice) StartsAt() uint64 {
	v.eng.mu.Lock()
	defer v.eng.mu.Unlock()
	return v.startClock
}
