// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE files into audio Sources.
//
// Decoding is backed by github.com/go-audio/wav and supports the PCM bit
// depths that library handles. The whole file is decoded eagerly; WAV
// assets in a sound set are short effects, not streams.
//
// Loop markers from the sampler ("smpl") chunk are exposed through the
// audio.LoopMarkers interface so looping assets (torches, machinery,
// ambient beds) carry their loop region into the playback engine:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	if lm, ok := src.(audio.LoopMarkers); ok {
//	    start, end, _ := lm.LoopPoints()
//	    _ = start
//	    _ = end
//	}
package wav
