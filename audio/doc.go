// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM stream primitives that feed asset
// ingestion for the playback engine.
//
// # Source Interface
//
// The Source interface is the foundation of the decode pipeline:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All format decoders return a Source, and the processors in this package
// wrap one Source in another, so stages can be chained:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	conformed := audio.NewMonoMixer(audio.NewResampler(src, engineRate))
//
// # Resampling
//
// Resampler converts a Source to a target sample rate using Catmull-Rom
// cubic interpolation. Decoded assets are conformed to the mixing engine's
// rate exactly once, at load time, so the per-frame mixing path never
// resamples.
//
// # Channel Mixing
//
// MonoMixer averages a multi-channel Source down to mono. Spatialized
// sounds are mono by convention; stereo placement happens in the engine,
// not in the asset.
//
// # Loop Markers
//
// Sources whose container format carries loop points (the WAV sampler
// chunk) additionally implement LoopMarkers. Loop offsets are reported in
// source frames; callers convert to time units before resampling so the
// markers survive a rate change.
//
// # Sample Format
//
// Samples are interleaved float32 in [-1.0, 1.0]. ReadSamples returns
// io.EOF when the stream is exhausted; a short read with a nil error just
// means "call again".
package audio
