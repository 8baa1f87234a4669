// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gosnd/spatial/utils"
)

// values is the YAML shape of the settings file.
type values struct {
	Volume       float32 `yaml:"volume"`
	AmbientLevel float32 `yaml:"ambient_level"`
	AmbientFade  float32 `yaml:"ambient_fade"`
	NoSound      bool    `yaml:"nosound"`
}

func defaults() values {
	return values{
		Volume:       0.7,
		AmbientLevel: 0.3,
		AmbientFade:  100,
	}
}

// Settings is a concurrency-safe view of the sound configuration.
// Loaded values are kept verbatim; the playback core clamps volume
// back into range on its frame update, matching how it treats any
// out-of-range value written at runtime.
type Settings struct {
	mu sync.RWMutex
	v  values
}

// Default returns settings with the stock values.
func Default() *Settings {
	return &Settings{v: defaults()}
}

// Parse reads YAML settings; keys not present keep their defaults.
func Parse(data []byte) (*Settings, error) {
	v := defaults()
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing sound settings: %w", err)
	}
	return &Settings{v: v}, nil
}

// Load reads YAML settings from a file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sound settings: %w", err)
	}
	return Parse(data)
}

// Volume returns the master volume as stored, which may be out of
// range until the core writes it back.
func (s *Settings) Volume() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.Volume
}

// SetVolume stores the master volume clamped to [0,1].
func (s *Settings) SetVolume(v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Volume = utils.Clamp(v, 0, 1)
}

func (s *Settings) AmbientLevel() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.AmbientLevel
}

func (s *Settings) SetAmbientLevel(v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.AmbientLevel = utils.Clamp(v, 0, 1)
}

// AmbientFade is the ambient smoothing rate in level units per
// second, on the original 0..255 scale.
func (s *Settings) AmbientFade() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.AmbientFade
}

func (s *Settings) SetAmbientFade(v float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v < 0 {
		v = 0
	}
	s.v.AmbientFade = v
}

// NoSound reports whether audio is disabled outright.
func (s *Settings) NoSound() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.NoSound
}
