// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

// Sink consumes the engine's rendered stream. Start is called once
// with the engine as the reader and must begin pulling; Close must
// stop pulling before it returns.
type Sink interface {
	Start(r io.Reader) error
	Close() error
}

// OtoSink plays the stream on the system audio device through
// github.com/ebitengine/oto. Creating the oto context is process-wide
// and can fail on headless machines; callers treat that as audio
// being unavailable.
type OtoSink struct {
	sampleRate int
	player     *oto.Player
}

func NewOtoSink(sampleRate int) *OtoSink {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &OtoSink{sampleRate: sampleRate}
}

func (s *OtoSink) Start(r io.Reader) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   s.sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	s.player = ctx.NewPlayer(r)
	s.player.Play()
	return nil
}

func (s *OtoSink) Close() error {
	if s.player == nil {
		return nil
	}
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("closing audio device: %w", err)
	}
	return nil
}
