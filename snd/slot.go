// SPDX-License-Identifier: EPL-2.0

package snd

import "github.com/gosnd/spatial/mix"

// pickSlotLocked returns the ownership slot for a new sound.
//
// Requests outside the tracked range (bad entity id, channel 0 or
// above 7) get a fresh anonymous slot that is released when its one
// voice ends. Negative channels normalize to the reserved channel 0.
// A tracked slot with a live occupant has that occupant retired
// before the slot is handed back, so the caller's voice is always the
// slot's only live one.
func (s *System) pickSlotLocked(ent, ch int) *slot {
	if ent < 0 || ent >= s.maxEntities || ch == 0 || ch > numEntChannels-1 {
		return &slot{anon: true}
	}
	if ch < 0 {
		ch = 0
	}

	sl := &s.ents[ent].slots[ch]
	if sl.voice != nil {
		s.retireLocked(sl.voice)
		sl.voice = nil
	}
	return sl
}

// retireLocked fades v to silence over the fixed ramp window instead
// of cutting it. Looping is disabled by the fade so the tail cannot
// wrap around mid-ramp. The voice's slot back-reference stays in the
// side table until the engine reports the fade complete.
func (s *System) retireLocked(v *mix.Voice) {
	v.FadeToSilence(s.eng.DSPClock() + retireRampFrames)
}
