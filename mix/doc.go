// SPDX-License-Identifier: EPL-2.0

// Package mix is a small software mixing engine: a bounded table of
// voices rendered to interleaved stereo float32 at a fixed rate.
//
// Voices carry a gain, a 3D position, loop points and a priority. The
// engine keeps a DSP clock in frames and supports scheduled starts,
// fades to silence at an absolute clock value, a per-voice distance
// rolloff callback and a listener pose for panning. Output goes to a
// Sink (an oto player in practice) or, with no sink configured, is
// rendered on demand through Advance so tests can step the clock
// deterministically.
package mix
