// SPDX-License-Identifier: EPL-2.0

package snd

import (
	"go.uber.org/zap"

	"github.com/gosnd/spatial/mix"
	"github.com/gosnd/spatial/utils"
)

// Ambient channel indices. These sounds are always playing and never
// spatialized; only their volume tracks the listener's world region.
const (
	AmbientWater = iota
	AmbientSky
	NumAmbients
)

// startAmbientsLocked starts every configured ambient channel as a
// fresh voice at zero gain. Called at System creation and again after
// a bulk stop that keeps ambients.
func (s *System) startAmbientsLocked() {
	for i, name := range s.ambientNames {
		s.ambients[i] = nil
		s.ambientGain[i] = 0
		if name == "" {
			continue
		}

		a := s.loadLocked(s.precacheLocked(name))
		if a == nil {
			continue
		}

		v, err := s.eng.Play(a, s.grp, true)
		if err != nil {
			s.log.Warn("starting ambient sound", zap.String("sfx", name), zap.Error(err))
			continue
		}
		applyAssetAttributes(v, a, mix.Vec3{}, 0)
		v.SetSpatial(false)
		v.SetPaused(false)
		s.ambients[i] = v
	}
}

// updateAmbientsLocked moves each ambient channel's gain toward the
// level of the listener's current region, at most frameTime*fadeRate
// per call so region transitions cross-fade instead of stepping.
func (s *System) updateAmbientsLocked(frameTime float32, pos mix.Vec3) {
	var levels [NumAmbients]uint8
	known := false
	if s.regions != nil {
		levels, known = s.regions.AmbientLevels(pos)
	}

	ambientLevel := float32(0)
	fadeRate := float32(0)
	if s.settings != nil {
		ambientLevel = s.settings.AmbientLevel()
		fadeRate = s.settings.AmbientFade()
	}
	step := frameTime * fadeRate / 255

	for i, v := range s.ambients {
		if v == nil {
			continue
		}

		target := float32(0)
		if known && ambientLevel > 0 {
			target = ambientLevel * float32(levels[i]) / 255
			if target < ambientEpsilon {
				target = 0
			}
		}

		s.ambientGain[i] = utils.MoveToward(s.ambientGain[i], target, step)
		v.SetVolume(s.ambientGain[i])
	}
}
