// SPDX-License-Identifier: EPL-2.0

package snd

import "github.com/gosnd/spatial/mix"

// UpdateFrame runs once per game tick: it writes the master volume
// through (clamping out-of-range values back into the settings),
// pushes the listener pose to the engine, smooths the ambient beds,
// applies end-of-playback events and resets the per-frame duplicate
// list.
func (s *System) UpdateFrame(frameTime float32, pos, forward, right, up mix.Vec3) {
	if s.disabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings != nil {
		vol := s.settings.Volume()
		if vol != s.lastVolume {
			if vol < 0 || vol > 1 {
				s.settings.SetVolume(vol)
				vol = s.settings.Volume()
			}
			s.grp.SetVolume(vol)
			s.lastVolume = vol
		}
	}

	s.eng.SetListener(pos, forward, right, up)
	s.updateAmbientsLocked(frameTime, pos)
	s.drainFinishedLocked()
	s.sfxThisFrame = s.sfxThisFrame[:0]
}
