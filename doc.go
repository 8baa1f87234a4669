// SPDX-License-Identifier: EPL-2.0

// Package spatial ties the playback stack together: it loads sound
// files from an fs.FS through the format decoders, converts them to
// engine-rate assets and hands them to the positional core.
//
// The layering, bottom up:
//
//   - audio: PCM stream abstractions, resampling, downmixing
//   - formats/{wav,vorbis,mp3,aiff}: decoders producing audio.Source
//   - mix: the software mixing engine (voices, DSP clock, fades)
//   - snd: playback policy (slots, attenuation, ambients)
//   - spatial (this package): asset loading and wiring
//
// A minimal setup:
//
//	eng, err := mix.New(mix.Config{Sink: mix.NewOtoSink(44100)})
//	if err != nil {
//		eng = nil // sound stays off for the session
//	}
//	sys := snd.New(snd.Config{
//		Engine:   eng,
//		Loader:   spatial.NewLoader(os.DirFS("sound"), 44100),
//		Settings: config.Default(),
//	})
//	defer sys.Shutdown()
package spatial
