// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"fmt"
	"io"

	"github.com/gosnd/spatial/audio"
)

// LoopInfo carries loop markers in milliseconds. Negative values mean
// no marker.
type LoopInfo struct {
	StartMS int64
	EndMS   int64
}

// NoLoop is the LoopInfo for assets without loop markers.
var NoLoop = LoopInfo{StartMS: -1, EndMS: -1}

// Asset is a fully decoded sound: interleaved float32 PCM at the
// engine rate, one or two channels. Assets are immutable once built
// and may be shared by any number of voices.
type Asset struct {
	Name        string
	LoopStartMS int64
	LoopEndMS   int64

	rate     int
	channels int
	pcm      []float32
}

func (a *Asset) SampleRate() int { return a.rate }
func (a *Asset) Channels() int   { return a.channels }

// Frames is the asset length in sample frames.
func (a *Asset) Frames() int { return len(a.pcm) / a.channels }

// DurationMS is the asset length in milliseconds, rounded down.
func (a *Asset) DurationMS() int64 {
	return int64(a.Frames()) * 1000 / int64(a.rate)
}

// NewAsset drains src into an Asset at engineRate. Multi-channel
// sources are downmixed to mono; world sounds are spatialized per
// voice, so assets keep a single channel. Rate conversion goes through
// the cubic resampler.
func NewAsset(name string, src audio.Source, engineRate int, loop LoopInfo) (*Asset, error) {
	s := src
	if s.Channels() > 1 {
		s = audio.NewMonoMixer(s)
	}
	if s.SampleRate() != engineRate {
		s = audio.NewResampler(s, engineRate)
	}

	pcm, err := drain(s)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoSamples)
	}

	a := &Asset{
		Name:        name,
		LoopStartMS: loop.StartMS,
		LoopEndMS:   loop.EndMS,
		rate:        engineRate,
		channels:    1,
		pcm:         pcm,
	}
	if a.LoopStartMS < 0 {
		a.LoopStartMS, a.LoopEndMS = -1, -1
	} else if a.LoopEndMS < 0 || a.LoopEndMS > a.DurationMS() {
		a.LoopEndMS = a.DurationMS()
	}
	return a, nil
}

// NewAssetFromPCM wraps raw interleaved samples; channels must be 1
// or 2. Used by tests and by callers that synthesize audio.
func NewAssetFromPCM(name string, rate, channels int, pcm []float32) *Asset {
	if channels < 1 || channels > 2 {
		channels = 1
	}
	return &Asset{
		Name:        name,
		LoopStartMS: -1,
		LoopEndMS:   -1,
		rate:        rate,
		channels:    channels,
		pcm:         pcm,
	}
}

func drain(src audio.Source) ([]float32, error) {
	out := make([]float32, 0, 1<<14)
	buf := make([]float32, 4096)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return out, nil
		}
	}
}
