// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/gosnd/spatial/utils"
)

const (
	// DefaultSampleRate is the engine rate when Config leaves it zero.
	DefaultSampleRate = 44100

	// DefaultMaxVoices bounds the voice table when Config leaves it zero.
	DefaultMaxVoices = 128

	// renderBlock is the chunk size, in frames, used by Advance.
	renderBlock = 512
)

// RolloffFunc maps a voice and its distance from the listener to an
// attenuation factor. Results are clamped to [0,1]. The callback runs
// on the render path and must not call back into the engine.
type RolloffFunc func(id VoiceID, distance float32) float32

// Config configures a mixing engine.
type Config struct {
	SampleRate int
	MaxVoices  int

	// Sink receives the rendered stream. Nil runs the engine headless;
	// the clock then only moves through Advance.
	Sink Sink

	Logger *zap.Logger
}

// Engine mixes voices into interleaved stereo float32. It implements
// io.Reader over the little-endian encoding of that stream, which is
// what the sink pulls from.
type Engine struct {
	mu sync.Mutex

	rate      int
	maxVoices int
	log       *zap.Logger
	sink      Sink

	voices   map[VoiceID]*Voice
	nextID   VoiceID
	defGroup *Group

	clock    uint64
	rolloff  RolloffFunc
	listener struct{ pos, forward, right, up Vec3 }
	finished []VoiceID
	mute     bool
	closed   bool

	scratch []float32
	removed []*Voice
}

// New builds an engine and, when a sink is configured, starts it
// pulling immediately.
func New(cfg Config) (*Engine, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.MaxVoices <= 0 {
		cfg.MaxVoices = DefaultMaxVoices
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	e := &Engine{
		rate:      cfg.SampleRate,
		maxVoices: cfg.MaxVoices,
		log:       cfg.Logger,
		sink:      cfg.Sink,
		voices:    make(map[VoiceID]*Voice),
		scratch:   make([]float32, renderBlock*2),
	}
	e.listener.right = Vec3{0, 1, 0}
	e.defGroup = &Group{eng: e, name: "default", gain: 1}

	if e.sink != nil {
		if err := e.sink.Start(e); err != nil {
			return nil, fmt.Errorf("starting sink: %w", err)
		}
	}
	e.log.Info("mixing engine started",
		zap.Int("sampleRate", e.rate),
		zap.Int("maxVoices", e.maxVoices),
		zap.Bool("headless", e.sink == nil))
	return e, nil
}

func (e *Engine) SampleRate() int { return e.rate }

// NewGroup creates a voice group at unity gain.
func (e *Engine) NewGroup(name string) *Group {
	return &Group{eng: e, name: name, gain: 1}
}

// Play adds a voice for a. A nil group plays into the engine's default
// group. When the table is full the least important strictly lower
// priority voice is evicted with a finished event; if none exists the
// play fails with ErrNoFreeVoice.
func (e *Engine) Play(a *Asset, g *Group, paused bool) (*Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	if a == nil || a.Frames() == 0 {
		return nil, ErrNoSamples
	}
	if g == nil {
		g = e.defGroup
	}

	if len(e.voices) >= e.maxVoices {
		if !e.evictLocked(DefaultPriority) {
			return nil, ErrNoFreeVoice
		}
	}

	e.nextID++
	v := &Voice{
		eng:        e,
		id:         e.nextID,
		asset:      a,
		group:      g,
		gain:       1,
		spatial:    true,
		loopEnd:    int64(a.Frames()),
		priority:   DefaultPriority,
		paused:     paused,
		startClock: e.clock,
	}
	e.voices[v.id] = v
	return v, nil
}

// evictLocked removes the voice with the largest priority value that
// is strictly less important than pri. Reports whether a slot was
// freed.
func (e *Engine) evictLocked(pri int) bool {
	var victim *Voice
	for _, v := range e.voices {
		if v.priority <= pri {
			continue
		}
		if victim == nil || v.priority > victim.priority {
			victim = v
		}
	}
	if victim == nil {
		return false
	}
	e.removeLocked(victim, true)
	return true
}

func (e *Engine) removeLocked(v *Voice, emitEvent bool) {
	v.stopped = true
	delete(e.voices, v.id)
	if emitEvent {
		e.finished = append(e.finished, v.id)
	}
}

// StopGroup hard-stops every voice in g. No finished events are
// emitted and no fades run; this is the bulk path for level changes.
func (e *Engine) StopGroup(g *Group) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.voices {
		if v.group == g {
			e.removeLocked(v, false)
		}
	}
}

// Finished drains the queue of voices that ended on their own: ran
// out of samples, completed a fade, or lost their slot to eviction.
func (e *Engine) Finished() []VoiceID {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.finished
	e.finished = nil
	return out
}

// DSPClock reports frames rendered since the engine started.
func (e *Engine) DSPClock() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock
}

func (e *Engine) SetRolloff(fn RolloffFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rolloff = fn
}

func (e *Engine) SetListener(pos, forward, right, up Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener.pos = pos
	e.listener.forward = forward
	e.listener.right = right
	e.listener.up = up
}

// SetMasterMute silences the output. Voices keep advancing so unmuting
// resumes mid-sound rather than replaying missed audio.
func (e *Engine) SetMasterMute(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mute = on
}

// Advance renders and discards the given number of frames. Headless
// engines use this to move the DSP clock; with a sink attached the
// sink is already pulling and Advance should not be used.
func (e *Engine) Advance(frames int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for frames > 0 {
		n := frames
		if n > renderBlock {
			n = renderBlock
		}
		e.renderLocked(e.scratch[:n*2])
		frames -= n
	}
}

// Read renders the stream as little-endian stereo float32 bytes. It
// satisfies the sink's io.Reader and returns io.EOF after Close.
func (e *Engine) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, io.EOF
	}
	if cap(e.scratch) < frames*2 {
		e.scratch = make([]float32, frames*2)
	}
	out := e.scratch[:frames*2]
	e.renderLocked(out)

	for i, s := range out {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return frames * 8, nil
}

// renderLocked mixes every voice into out (interleaved stereo, zeroed
// here) and advances the clock by len(out)/2 frames.
func (e *Engine) renderLocked(out []float32) {
	for i := range out {
		out[i] = 0
	}
	frames := len(out) / 2

	e.removed = e.removed[:0]
	for _, v := range e.voices {
		if e.renderVoiceLocked(v, out, frames) {
			e.removed = append(e.removed, v)
		}
	}
	for _, v := range e.removed {
		e.removeLocked(v, true)
	}
	e.clock += uint64(frames)
}

// renderVoiceLocked mixes v into out and reports whether the voice
// finished during this block.
func (e *Engine) renderVoiceLocked(v *Voice, out []float32, frames int) bool {
	if v.paused {
		return false
	}

	// Attenuation and pan are computed once per block; positions only
	// change between game frames, which are far longer than a block.
	att := float32(1)
	lGain, rGain := float32(1), float32(1)
	if v.spatial {
		delta := v.pos.Sub(e.listener.pos)
		if e.rolloff != nil {
			att = utils.Clamp(e.rolloff(v.id, delta.Length()), 0, 1)
		}
		dot := e.listener.right.Dot(delta.Normalize())
		lGain = utils.Clamp(att*(1-dot), 0, 1)
		rGain = utils.Clamp(att*(1+dot), 0, 1)
	}
	base := v.gain * v.group.gain

	total := int64(v.asset.Frames())
	pcm := v.asset.pcm
	stereo := v.asset.channels == 2

	for f := 0; f < frames; f++ {
		now := e.clock + uint64(f)
		if now < v.startClock {
			continue
		}

		ramp := float32(1)
		if v.fadeAt > 0 {
			if now >= v.fadeAt {
				return true
			}
			ramp = float32(v.fadeAt-now) / float32(v.fadeAt-v.fadeFrom)
		}

		if v.head >= total || (v.loop && v.head >= v.loopEnd) {
			if !v.loop {
				return true
			}
			v.head = v.loopBeg
		}

		g := base * ramp
		if e.mute {
			g = 0
		}
		if stereo {
			// Stereo assets keep their channel identity: distance
			// attenuation still applies, panning does not.
			out[f*2] += pcm[v.head*2] * g * att
			out[f*2+1] += pcm[v.head*2+1] * g * att
		} else {
			s := pcm[v.head] * g
			out[f*2] += s * lGain
			out[f*2+1] += s * rGain
		}
		v.head++
	}
	return false
}

// Close stops the sink and retires every voice. Further Play and Read
// calls fail.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	for _, v := range e.voices {
		v.stopped = true
		delete(e.voices, v.id)
	}
	sink := e.sink
	e.mu.Unlock()

	// The sink's reader goroutine may be blocked on Read; close it
	// outside the lock.
	if sink != nil {
		if err := sink.Close(); err != nil {
			return fmt.Errorf("closing sink: %w", err)
		}
	}
	e.log.Info("mixing engine stopped")
	return nil
}
