// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/gosnd/spatial/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation over a sliding four-frame window. Works on interleaved
// samples and preserves channel count.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// window[0..3] hold frames t-1, t0, t+1, t+2 for interpolation.
	window [4][]float32
	filled int  // frames currently valid in the window
	primed bool // initial window load done

	// pos is the fractional read position between window[1] and window[2].
	pos float64

	frameBuf []float32
	eof      bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		frameBuf: make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame reads exactly one source frame into dst.
// Returns io.EOF once the source is exhausted.
func (r *Resampler) readFrame(dst []float32) error {
	if r.eof {
		return io.EOF
	}
	n, err := r.src.ReadSamples(dst[:r.channels])
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return fmt.Errorf("%w", err)
	}
	if n < r.channels {
		return io.EOF
	}
	return nil
}

// shift advances the window by one source frame. When the source runs out,
// the trailing edge frame is duplicated so interpolation can drain the tail.
func (r *Resampler) shift() error {
	copy(r.window[0], r.window[1])
	copy(r.window[1], r.window[2])
	copy(r.window[2], r.window[3])

	if err := r.readFrame(r.window[3]); err != nil {
		if err != io.EOF {
			return err
		}
		if r.filled == 0 {
			return io.EOF
		}
		r.filled--
		copy(r.window[3], r.window[2])
		return nil
	}
	return nil
}

func (r *Resampler) prime() error {
	// First window: duplicate the first frame into the t-1 slot.
	if err := r.readFrame(r.window[1]); err != nil {
		return err
	}
	copy(r.window[0], r.window[1])

	for _, i := range []int{2, 3} {
		if err := r.readFrame(r.window[i]); err != nil {
			if err != io.EOF {
				return err
			}
			copy(r.window[i], r.window[i-1])
		}
	}

	// Allow the tail to drain: frames t0..t+2 remain interpolatable for
	// two more shifts after EOF.
	r.filled = 2
	r.primed = true
	return nil
}

// ReadSamples produces samples at the target rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesWanted := len(dst) / r.channels

	for written < framesWanted {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.shift(); err != nil {
				if written == 0 {
					return 0, io.EOF
				}
				return written * r.channels, io.EOF
			}
		}

		alpha := float32(r.pos)
		base := written * r.channels
		for c := 0; c < r.channels; c++ {
			dst[base+c] = utils.CubicInterpolate(
				r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], alpha)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
