// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/gosnd/spatial/audio"
	"github.com/gosnd/spatial/formats/aiff"
	"github.com/gosnd/spatial/formats/mp3"
	"github.com/gosnd/spatial/formats/vorbis"
	"github.com/gosnd/spatial/formats/wav"
	"github.com/gosnd/spatial/mix"
)

var (
	// ErrSoundNotFound indicates no file matched the requested name
	// under any registered extension.
	ErrSoundNotFound = errors.New("sound file not found")

	// ErrUnknownFormat indicates a file extension with no registered
	// decoder.
	ErrUnknownFormat = errors.New("unknown sound format")
)

// DefaultRegistry returns a registry with every built-in decoder, in
// the order extension probing should try them.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	return r
}

// Loader resolves sound names against a filesystem and decodes them
// into engine-rate assets. It satisfies snd.AssetLoader.
type Loader struct {
	fsys fs.FS
	reg  *audio.Registry
	rate int
}

// NewLoader builds a loader over fsys producing assets at engineRate,
// with the default decoder registry.
func NewLoader(fsys fs.FS, engineRate int) *Loader {
	return &Loader{fsys: fsys, reg: DefaultRegistry(), rate: engineRate}
}

// Registry exposes the decoder registry so callers can add formats.
func (l *Loader) Registry() *audio.Registry { return l.reg }

// Load resolves name to a decoded asset. A name carrying an extension
// is opened directly; a bare name probes the registered extensions in
// registration order and takes the first file that exists.
func (l *Loader) Load(name string) (*mix.Asset, error) {
	if ext := strings.TrimPrefix(path.Ext(name), "."); ext != "" {
		return l.decodeFile(name, ext)
	}

	for _, format := range l.reg.Formats() {
		fname := name + "." + format
		if _, err := fs.Stat(l.fsys, fname); err != nil {
			continue
		}
		return l.decodeFile(fname, format)
	}
	return nil, fmt.Errorf("%s: %w", name, ErrSoundNotFound)
}

func (l *Loader) decodeFile(fname, format string) (*mix.Asset, error) {
	dec, ok := l.reg.Get(format)
	if !ok {
		return nil, fmt.Errorf("%s: %w", fname, ErrUnknownFormat)
	}

	f, err := l.fsys.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", fname, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", fname, err)
	}
	defer src.Close()

	return mix.NewAsset(fname, src, l.rate, loopInfo(src))
}

// loopInfo converts a source's native loop markers from frames to
// milliseconds, the time unit assets carry.
func loopInfo(src audio.Source) mix.LoopInfo {
	lm, ok := src.(audio.LoopMarkers)
	if !ok {
		return mix.NoLoop
	}
	start, end, ok := lm.LoopPoints()
	if !ok {
		return mix.NoLoop
	}
	rate := int64(src.SampleRate())
	return mix.LoopInfo{
		StartMS: start * 1000 / rate,
		EndMS:   end * 1000 / rate,
	}
}
