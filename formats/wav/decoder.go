// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/gosnd/spatial/audio"
)

// wavSource streams samples out of a fully decoded PCM buffer. WAV assets
// are small one-shot effects, so decoding whole files up front keeps the
// hot path allocation free and lets loop markers be resolved eagerly.
type wavSource struct {
	data       []int
	pos        int
	sampleRate int
	channels   int
	scale      float32

	loopStart int64
	loopEnd   int64
	hasLoop   bool
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) BufSize() int    { return 4096 }
func (s *wavSource) Close() error    { return nil }

// LoopPoints reports the first sampler-chunk loop in source frames.
func (s *wavSource) LoopPoints() (start, end int64, ok bool) {
	if !s.hasLoop {
		return 0, 0, false
	}
	return s.loopStart, s.loopEnd, true
}

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}

	n := min(len(dst), len(s.data)-s.pos)
	for i := range n {
		dst[i] = float32(s.data[s.pos+i]) * s.scale
	}
	s.pos += n

	if s.pos >= len(s.data) {
		return n, io.EOF
	}
	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if len(raw) < 12 || !bytes.HasPrefix(raw, []byte("RIFF")) || !bytes.Equal(raw[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	// go-audio consumes chunks in file order, so metadata (the smpl chunk
	// usually trails the data chunk) and PCM are read in separate passes.
	meta := gowav.NewDecoder(bytes.NewReader(raw))
	meta.ReadMetadata()

	dec := gowav.NewDecoder(bytes.NewReader(raw))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, ErrNoPCMData
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(dec.BitDepth)
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, ErrUnsupportedWavLayout
	}

	src := &wavSource{
		data:       buf.Data,
		sampleRate: buf.Format.SampleRate,
		channels:   buf.Format.NumChannels,
		scale:      1.0 / float32(int64(1)<<(bitDepth-1)),
	}
	if src.channels <= 0 || src.sampleRate <= 0 {
		return nil, ErrUnsupportedWavLayout
	}

	applyLoopMarkers(src, meta, buf)

	return src, nil
}

func applyLoopMarkers(src *wavSource, meta *gowav.Decoder, buf *goaudio.IntBuffer) {
	if meta.Metadata == nil || meta.Metadata.SamplerInfo == nil {
		return
	}
	loops := meta.Metadata.SamplerInfo.Loops
	if len(loops) == 0 || loops[0] == nil {
		return
	}

	totalFrames := int64(len(buf.Data) / buf.Format.NumChannels)
	start := int64(loops[0].Start)
	end := int64(loops[0].End)
	if start < 0 || start >= totalFrames {
		return
	}
	if end <= start || end > totalFrames {
		end = totalFrames
	}

	src.loopStart = start
	src.loopEnd = end
	src.hasLoop = true
}
