// SPDX-License-Identifier: EPL-2.0

package snd

import (
	"go.uber.org/zap"

	"github.com/gosnd/spatial/mix"
)

// applyAssetAttributes sets the playback attributes every new voice
// gets: position, gain and, when the asset carries loop markers, the
// loop region in the asset's own time units.
func applyAssetAttributes(v *mix.Voice, a *mix.Asset, pos mix.Vec3, vol float32) {
	v.SetPosition(pos)
	v.SetVolume(vol)
	if a.LoopStartMS >= 0 {
		v.SetLoop(true)
		v.SetLoopPointsMS(a.LoopStartMS, a.LoopEndMS)
	} else {
		v.SetLoop(false)
	}
}

// bindVoiceLocked commits the voice to its slot and publishes the
// attenuation multiplier for the rolloff callback.
func (s *System) bindVoiceLocked(v *mix.Voice, sl *slot, distMult float32) {
	sl.voice = v
	sl.distMult = distMult
	s.byVoice[v.ID()] = sl
	s.distMults.Store(v.ID(), distMult)
}

// delayFramesLocked picks a random start offset for a sound, capped
// by maxSeconds and by the asset's own duration, converted to mixing
// frames. Always at least one frame so a delayed start is strictly
// later than an undelayed one.
func (s *System) delayFramesLocked(a *mix.Asset, maxSeconds float32) int64 {
	capMS := int64(maxSeconds * 1000)
	if capMS > a.DurationMS() {
		capMS = a.DurationMS()
	}
	var ms int64
	if capMS > 0 {
		ms = s.rng.Int64N(capMS)
	}
	frames := ms * int64(s.eng.SampleRate()) / 1000
	if frames < 1 {
		frames = 1
	}
	return frames
}

// seenThisFrameLocked reports whether sfx already started a voice in
// the current frame, then records it. The record list is bounded and
// cleared by UpdateFrame.
func (s *System) seenThisFrameLocked(sfx *SFX) bool {
	seen := false
	for _, prev := range s.sfxThisFrame {
		if prev == sfx {
			seen = true
			break
		}
	}
	if len(s.sfxThisFrame) < framesListCap {
		s.sfxThisFrame = append(s.sfxThisFrame, sfx)
	}
	return seen
}

// StartEntitySound plays sfx on the given entity channel. Channels
// 1..7 are exclusive per entity: a sound already on the channel is
// faded out first. Channel values outside 0..7 or entity ids outside
// the tracked range play on an anonymous slot. Negative channels mark
// local sounds, which play unattenuated at elevated priority, as do
// sounds from the view entity. Volume is 0..1, attenuation is the
// rolloff factor (1 reaches silence at NominalClipDist).
func (s *System) StartEntitySound(ent, ch int, sfx *SFX, pos mix.Vec3, vol, atten float32) {
	if s.disabled || sfx == nil {
		return
	}
	if s.settings != nil && s.settings.NoSound() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.loadLocked(sfx)
	if a == nil {
		return
	}

	// Retire any conflicting sound before the new voice exists, so
	// the slot never has two live occupants.
	sl := s.pickSlotLocked(ent, ch)

	v, err := s.eng.Play(a, s.grp, true)
	if err != nil {
		s.log.Warn("starting entity sound",
			zap.String("sfx", sfx.Name), zap.Int("entity", ent), zap.Error(err))
		return
	}
	applyAssetAttributes(v, a, pos, vol)
	s.bindVoiceLocked(v, sl, atten/NominalClipDist)

	if ch < 0 || ent == s.viewEntity {
		v.SetSpatial(false)
		v.SetPriority(localPriority)
	}

	// An identical sound started earlier this frame gets a small
	// random offset so the two do not sum into one louder copy.
	if s.seenThisFrameLocked(sfx) {
		v.SetStartDelay(s.delayFramesLocked(a, 0.1))
	}

	v.SetPaused(false)
}

// StartStaticSound plays a looping world sound at a fixed position on
// an anonymous slot. Volume and attenuation arrive on the 0..255 map
// scale. Assets without loop markers are rejected. Every static sound
// starts with a small random offset so co-located copies do not phase
// together.
func (s *System) StartStaticSound(sfx *SFX, pos mix.Vec3, vol, atten float32) {
	if s.disabled || sfx == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.loadLocked(sfx)
	if a == nil {
		return
	}
	if a.LoopStartMS < 0 {
		s.log.Warn("static sound rejected", zap.String("sfx", sfx.Name), zap.Error(ErrNotLooped))
		return
	}

	sl := s.pickSlotLocked(-1, -1)

	v, err := s.eng.Play(a, s.grp, true)
	if err != nil {
		s.log.Warn("starting static sound", zap.String("sfx", sfx.Name), zap.Error(err))
		return
	}
	applyAssetAttributes(v, a, pos, vol/255)
	s.bindVoiceLocked(v, sl, (atten/64)/NominalClipDist)

	v.SetStartDelay(s.delayFramesLocked(a, 0.2))
	v.SetPaused(false)
}

// StopEntitySound fades out whatever is playing on the entity
// channel. Out-of-range ids are ignored.
func (s *System) StopEntitySound(ent, ch int) {
	if s.disabled {
		return
	}
	if ent < 0 || ent >= s.maxEntities || ch < 0 || ch > numEntChannels-1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl := &s.ents[ent].slots[ch]
	if sl.voice != nil {
		s.retireLocked(sl.voice)
		sl.voice = nil
	}
}

// StopAll hard-stops every voice, bypassing fades, and clears all
// slots; the bulk path for level transitions. With keepAmbients the
// ambient channels are restarted fresh at zero gain afterwards.
func (s *System) StopAll(keepAmbients bool) {
	if s.disabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.eng.StopGroup(s.grp)
	s.eng.Finished() // events from voices we just tore down are stale

	s.byVoice = make(map[mix.VoiceID]*slot)
	s.distMults.Range(func(k, _ any) bool {
		s.distMults.Delete(k)
		return true
	})
	for i := range s.ents {
		s.ents[i] = entityChannels{}
	}
	s.ambients = [NumAmbients]*mix.Voice{}
	s.ambientGain = [NumAmbients]float32{}
	s.sfxThisFrame = s.sfxThisFrame[:0]

	if keepAmbients {
		s.startAmbientsLocked()
	}
}
