// SPDX-License-Identifier: EPL-2.0

// Package sndtest provides canned assets, a map-backed asset loader
// and a scripted world-region source for exercising the playback core
// without touching the filesystem or an audio device.
package sndtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gosnd/spatial/mix"
)

// ErrNotFound indicates the loader has no asset under that name.
var ErrNotFound = errors.New("sound not found")

// ConstAsset builds a mono asset holding frames samples of val.
func ConstAsset(name string, rate, frames int, val float32) *mix.Asset {
	pcm := make([]float32, frames)
	for i := range pcm {
		pcm[i] = val
	}
	return mix.NewAssetFromPCM(name, rate, 1, pcm)
}

// LoopedAsset is ConstAsset with loop markers attached.
func LoopedAsset(name string, rate, frames int, loopStartMS, loopEndMS int64) *mix.Asset {
	a := ConstAsset(name, rate, frames, 1)
	a.LoopStartMS = loopStartMS
	a.LoopEndMS = loopEndMS
	return a
}

// MemLoader serves assets from a map and counts loads per name.
type MemLoader struct {
	mu     sync.Mutex
	Assets map[string]*mix.Asset
	loads  map[string]int
}

func (l *MemLoader) Load(name string) (*mix.Asset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loads == nil {
		l.loads = make(map[string]int)
	}
	l.loads[name]++

	a, ok := l.Assets[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return a, nil
}

// Loads reports how many times name has been requested.
func (l *MemLoader) Loads(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[name]
}

// Regions is a scripted region source: it reports the same levels for
// every position until the script is changed.
type Regions struct {
	mu     sync.Mutex
	levels [2]uint8
	known  bool
}

// NewRegions starts with the listener in a known region at the given
// water and sky levels (0..255).
func NewRegions(water, sky uint8) *Regions {
	return &Regions{levels: [2]uint8{water, sky}, known: true}
}

func (r *Regions) AmbientLevels(mix.Vec3) ([2]uint8, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.levels, r.known
}

// Set rescripts the region levels.
func (r *Regions) Set(water, sky uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = [2]uint8{water, sky}
}

// SetKnown scripts whether the listener is inside a valid region.
func (r *Regions) SetKnown(known bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.known = known
}
