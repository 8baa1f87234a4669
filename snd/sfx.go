// SPDX-License-Identifier: EPL-2.0

package snd

import (
	"go.uber.org/zap"

	"github.com/gosnd/spatial/mix"
)

// SFX is a resolve-by-name handle to a sound. The decoded asset is
// loaded lazily on first playback and cached for the lifetime of the
// System; a failed load is retried on the next use.
type SFX struct {
	Name  string
	asset *mix.Asset
}

// Precache returns the handle for name, creating it if needed. The
// asset itself is not loaded yet.
func (s *System) Precache(name string) *SFX {
	if s.disabled {
		return &SFX{Name: name}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.precacheLocked(name)
}

func (s *System) precacheLocked(name string) *SFX {
	if sfx, ok := s.cache[name]; ok {
		return sfx
	}
	sfx := &SFX{Name: name}
	s.cache[name] = sfx
	return sfx
}

// loadLocked resolves the decoded asset for sfx, loading it on first
// use. Returns nil (after logging) when the asset cannot be loaded.
func (s *System) loadLocked(sfx *SFX) *mix.Asset {
	if sfx.asset != nil {
		return sfx.asset
	}
	if s.loader == nil {
		s.log.Warn("no asset loader configured", zap.String("sfx", sfx.Name))
		return nil
	}
	a, err := s.loader.Load(sfx.Name)
	if err != nil {
		s.log.Warn("loading sound", zap.String("sfx", sfx.Name), zap.Error(err))
		return nil
	}
	sfx.asset = a
	s.log.Debug("loaded sound",
		zap.String("sfx", sfx.Name),
		zap.Int64("durationMS", a.DurationMS()),
		zap.Int64("loopStartMS", a.LoopStartMS))
	return a
}
