// SPDX-License-Identifier: EPL-2.0

package snd

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gosnd/spatial/mix"
)

const (
	// NominalClipDist is the distance, in world units, at which a
	// sound with attenuation 1 falls to silence.
	NominalClipDist float32 = 1000

	// DefaultMaxEntities sizes the tracked slot grid when Config
	// leaves it zero.
	DefaultMaxEntities = 512

	// numEntChannels is the per-entity channel count. Channel 0 is
	// reserved for normalized local sounds; 1..7 are caller-addressable.
	numEntChannels = 8

	// retireRampFrames is the fade window, in mixing frames, applied
	// when a voice is pre-empted or stopped. Short enough to be
	// inaudible as a transient, long enough to avoid a pop.
	retireRampFrames = 64

	// framesListCap bounds the per-frame duplicate tracking list.
	framesListCap = 16

	// localPriority is the scheduling priority of local and
	// view-entity sounds. Lower is more important.
	localPriority = 64

	// ambientEpsilon snaps near-silent ambient targets to exact zero
	// so quiet regions do not hiss.
	ambientEpsilon = 0.03
)

// AssetLoader resolves sound names to decoded assets. Load is called
// synchronously the first time a sound is used.
type AssetLoader interface {
	Load(name string) (*mix.Asset, error)
}

// RegionSource reports the ambient levels of the world region
// enclosing a position, on the 0..255 map scale. ok is false when the
// position is outside any valid region.
type RegionSource interface {
	AmbientLevels(pos mix.Vec3) (levels [NumAmbients]uint8, ok bool)
}

// SettingsSource is the read-mostly view of the sound configuration.
// *config.Settings satisfies it.
type SettingsSource interface {
	Volume() float32
	SetVolume(float32)
	AmbientLevel() float32
	AmbientFade() float32
	NoSound() bool
}

// Config configures a playback System.
type Config struct {
	// Engine is the mixing engine. Nil means audio failed to start;
	// the System then turns every operation into a silent no-op for
	// the rest of the session.
	Engine *mix.Engine

	Loader   AssetLoader
	Regions  RegionSource
	Settings SettingsSource
	Logger   *zap.Logger

	// MaxEntities sizes the tracked slot grid.
	MaxEntities int

	// ViewEntity is the entity id of the local viewpoint; its sounds
	// play at full volume. Adjustable later via SetViewEntity.
	ViewEntity int

	// AmbientNames are the assets for the fixed ambient channels,
	// water then sky. Empty entries leave that channel silent.
	AmbientNames [NumAmbients]string

	// Rand drives duplicate start offsets; tests inject a seeded one.
	Rand *rand.Rand
}

// slot is the ownership unit for one playing voice: either a cell of
// the tracked entity grid or an anonymous single-use unit.
type slot struct {
	anon     bool
	voice    *mix.Voice
	distMult float32
}

type entityChannels struct {
	slots [numEntChannels]slot
}

// System is the playback core. One System owns its slot grid, ambient
// channels and asset cache; independent Systems do not share state.
type System struct {
	mu sync.Mutex

	eng      *mix.Engine
	grp      *mix.Group
	loader   AssetLoader
	regions  RegionSource
	settings SettingsSource
	log      *zap.Logger
	rng      *rand.Rand

	disabled    bool
	maxEntities int
	viewEntity  int

	ents    []entityChannels
	byVoice map[mix.VoiceID]*slot

	// distMults is read by the engine's rolloff callback on the render
	// path, which must not take s.mu. Keyed by voice id.
	distMults sync.Map

	ambientNames [NumAmbients]string
	ambients     [NumAmbients]*mix.Voice
	ambientGain  [NumAmbients]float32

	cache        map[string]*SFX
	sfxThisFrame []*SFX
	lastVolume   float32
}

// New builds a System. With a nil engine the System is permanently
// disabled: every playback call is a silent no-op, logged once here.
func New(cfg Config) *System {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MaxEntities <= 0 {
		cfg.MaxEntities = DefaultMaxEntities
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	s := &System{
		eng:          cfg.Engine,
		loader:       cfg.Loader,
		regions:      cfg.Regions,
		settings:     cfg.Settings,
		log:          cfg.Logger,
		rng:          cfg.Rand,
		maxEntities:  cfg.MaxEntities,
		viewEntity:   cfg.ViewEntity,
		ents:         make([]entityChannels, cfg.MaxEntities),
		byVoice:      make(map[mix.VoiceID]*slot),
		ambientNames: cfg.AmbientNames,
		cache:        make(map[string]*SFX),
		sfxThisFrame: make([]*SFX, 0, framesListCap),
		lastVolume:   -1,
	}

	if s.eng == nil {
		s.disabled = true
		s.log.Warn("audio engine unavailable, sound disabled for this session")
		return s
	}

	s.grp = s.eng.NewGroup("sfx")
	s.eng.SetRolloff(s.rolloff)

	s.mu.Lock()
	s.startAmbientsLocked()
	s.mu.Unlock()
	return s
}

// rolloff runs on the engine's render path; it must stay lock-free
// with respect to s.mu and allocation-free.
func (s *System) rolloff(id mix.VoiceID, distance float32) float32 {
	dm, ok := s.distMults.Load(id)
	if !ok {
		return 1
	}
	return AttenuatedGain(distance, dm.(float32))
}

// SetViewEntity changes which entity's sounds play at full volume.
func (s *System) SetViewEntity(ent int) {
	if s.disabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewEntity = ent
}

// MuteAll silences output without touching the volume setting.
// Playback keeps advancing underneath.
func (s *System) MuteAll() {
	if s.disabled {
		return
	}
	s.eng.SetMasterMute(true)
}

// UnmuteAll lifts MuteAll.
func (s *System) UnmuteAll() {
	if s.disabled {
		return
	}
	s.eng.SetMasterMute(false)
}

// Shutdown stops every voice, releases the asset cache and closes the
// engine. The System must not be used afterwards.
func (s *System) Shutdown() {
	if s.disabled {
		return
	}
	s.StopAll(false)

	s.mu.Lock()
	s.cache = make(map[string]*SFX)
	s.mu.Unlock()

	if err := s.eng.Close(); err != nil {
		s.log.Warn("closing mixing engine", zap.Error(err))
	}
}

// drainFinishedLocked processes end-of-playback events from the
// engine: clears the voice's slot back-reference and drops its
// attenuation entry. Anonymous slots simply become unreachable.
func (s *System) drainFinishedLocked() {
	for _, id := range s.eng.Finished() {
		s.distMults.Delete(id)
		sl, ok := s.byVoice[id]
		if !ok {
			continue
		}
		delete(s.byVoice, id)
		if sl.voice != nil && sl.voice.ID() == id {
			sl.voice = nil
		}
	}
}
