// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III streams into audio Sources using
// github.com/hajimehoshi/go-mp3. Output is always stereo 16-bit PCM at the
// stream's native rate; asset ingestion downmixes and resamples as needed.
package mp3
