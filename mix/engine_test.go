// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// Tests run the engine at 1000 Hz so milliseconds and frames coincide.

func newHeadless(t *testing.T, maxVoices int) *Engine {
	t.Helper()
	e, err := New(Config{SampleRate: 1000, MaxVoices: maxVoices})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

// render pulls frames through the Read path and decodes them back to
// interleaved stereo float32.
func render(t *testing.T, e *Engine, frames int) []float32 {
	t.Helper()
	buf := make([]byte, frames*8)
	n, err := e.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Read() n = %d, want %d", n, len(buf))
	}
	out := make([]float32, frames*2)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}

// rampAsset counts 1, 2, 3... so playback position is visible in the
// output.
func rampAsset(frames int) *Asset {
	pcm := make([]float32, frames)
	for i := range pcm {
		pcm[i] = float32(i + 1)
	}
	return NewAssetFromPCM("ramp", 1000, 1, pcm)
}

func constAsset(frames int, val float32) *Asset {
	pcm := make([]float32, frames)
	for i := range pcm {
		pcm[i] = val
	}
	return NewAssetFromPCM("const", 1000, 1, pcm)
}

func playFlat(t *testing.T, e *Engine, a *Asset) *Voice {
	t.Helper()
	v, err := e.Play(a, nil, false)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	v.SetSpatial(false)
	return v
}

func TestPlay_Defaults(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	v, err := e.Play(constAsset(10, 1), nil, false)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !v.Active() {
		t.Error("Active() = false, want true")
	}
	if v.Priority() != DefaultPriority {
		t.Errorf("Priority() = %d, want %d", v.Priority(), DefaultPriority)
	}
	if v.Looping() {
		t.Error("Looping() = true, want false")
	}

	if _, err := e.Play(nil, nil, false); !errors.Is(err, ErrNoSamples) {
		t.Errorf("Play(nil) error = %v, want ErrNoSamples", err)
	}
}

func TestNaturalEnd_EmitsFinished(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	v := playFlat(t, e, rampAsset(10))
	e.Advance(20)

	done := e.Finished()
	if len(done) != 1 || done[0] != v.ID() {
		t.Fatalf("Finished() = %v, want [%d]", done, v.ID())
	}
	if v.Active() {
		t.Error("Active() = true after natural end")
	}
	if len(e.Finished()) != 0 {
		t.Error("Finished() not drained by previous call")
	}
}

func TestStartDelay_SilentBeforeStart(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	v := playFlat(t, e, rampAsset(10))
	v.SetStartDelay(5)
	if v.StartsAt() != 5 {
		t.Fatalf("StartsAt() = %d, want 5", v.StartsAt())
	}

	for i, s := range render(t, e, 5) {
		if s != 0 {
			t.Fatalf("sample %d = %v before start, want 0", i, s)
		}
	}

	out := render(t, e, 3)
	for f, want := range []float32{1, 2, 3} {
		if out[f*2] != want {
			t.Errorf("frame %d = %v, want %v", f, out[f*2], want)
		}
	}
}

func TestFadeToSilence_RampAndRetire(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	v := playFlat(t, e, constAsset(10000, 1))
	v.SetLoop(true)
	v.FadeToSilence(64)
	if v.Looping() {
		t.Error("Looping() = true after FadeToSilence, want false")
	}

	out := render(t, e, 128)
	if out[0] != 1 {
		t.Errorf("frame 0 = %v, want 1 (ramp starts at unity)", out[0])
	}
	want := float32(1) / 64
	if math.Abs(float64(out[63*2]-want)) > 1e-6 {
		t.Errorf("frame 63 = %v, want %v", out[63*2], want)
	}
	for f := 64; f < 128; f++ {
		if out[f*2] != 0 {
			t.Fatalf("frame %d = %v after fade clock, want 0", f, out[f*2])
		}
	}

	done := e.Finished()
	if len(done) != 1 || done[0] != v.ID() {
		t.Errorf("Finished() = %v, want [%d]", done, v.ID())
	}
}

func TestLoop_PointsWrap(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	v := playFlat(t, e, rampAsset(10))
	v.SetLoop(true)
	v.SetLoopPointsMS(2, 8) // frames 2..8 at 1000 Hz

	out := render(t, e, 14)
	want := []float32{1, 2, 3, 4, 5, 6, 7, 8, 3, 4, 5, 6, 7, 8}
	for f := range want {
		if out[f*2] != want[f] {
			t.Errorf("frame %d = %v, want %v", f, out[f*2], want[f])
		}
	}
}

func TestLoop_DefaultsToWholeAsset(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	v := playFlat(t, e, rampAsset(4))
	v.SetLoop(true)

	out := render(t, e, 8)
	want := []float32{1, 2, 3, 4, 1, 2, 3, 4}
	for f := range want {
		if out[f*2] != want[f] {
			t.Errorf("frame %d = %v, want %v", f, out[f*2], want[f])
		}
	}
}

func TestPlay_EvictsLowestPriority(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 2)
	a := constAsset(10000, 1)

	v1, _ := e.Play(a, nil, false)
	v2, _ := e.Play(a, nil, false)
	v1.SetPriority(200)
	v2.SetPriority(100)

	v3, err := e.Play(a, nil, false)
	if err != nil {
		t.Fatalf("Play() error = %v, want eviction of the 200 voice", err)
	}
	if v1.Active() {
		t.Error("v1 still active, want evicted")
	}
	if !v2.Active() || !v3.Active() {
		t.Error("surviving voices inactive")
	}

	done := e.Finished()
	if len(done) != 1 || done[0] != v1.ID() {
		t.Errorf("Finished() = %v, want [%d]", done, v1.ID())
	}

	// Everything remaining is at least as important as a new request.
	if _, err := e.Play(a, nil, false); !errors.Is(err, ErrNoFreeVoice) {
		t.Errorf("Play() error = %v, want ErrNoFreeVoice", err)
	}
}

func TestPan_DotProductLaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pos   Vec3
		wantL float32
		wantR float32
	}{
		{"hard right", Vec3{0, 10, 0}, 0, 1},
		{"hard left", Vec3{0, -10, 0}, 1, 0},
		// Centered sources play both channels at full gain.
		{"dead ahead", Vec3{10, 0, 0}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newHeadless(t, 8)
			e.SetListener(Vec3{}, Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1})

			v, err := e.Play(constAsset(100, 0.5), nil, false)
			if err != nil {
				t.Fatalf("Play() error = %v", err)
			}
			v.SetPosition(tt.pos)

			out := render(t, e, 1)
			if math.Abs(float64(out[0]-0.5*tt.wantL)) > 1e-6 {
				t.Errorf("left = %v, want %v", out[0], 0.5*tt.wantL)
			}
			if math.Abs(float64(out[1]-0.5*tt.wantR)) > 1e-6 {
				t.Errorf("right = %v, want %v", out[1], 0.5*tt.wantR)
			}
		})
	}
}

func TestRolloff_CallbackAttenuates(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	var gotID VoiceID
	var gotDist float32
	e.SetRolloff(func(id VoiceID, distance float32) float32 {
		gotID = id
		gotDist = distance
		return 0.5
	})

	v, err := e.Play(constAsset(100, 1), nil, false)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	v.SetPosition(Vec3{10, 0, 0}) // dead ahead, full gain on both sides

	out := render(t, e, 1)
	if gotID != v.ID() || gotDist != 10 {
		t.Errorf("rolloff called with (%d, %v), want (%d, 10)", gotID, gotDist, v.ID())
	}
	if math.Abs(float64(out[0]-0.5)) > 1e-6 {
		t.Errorf("left = %v, want 0.5", out[0])
	}
}

func TestRolloff_AttenuatesStereoAssets(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)
	e.SetRolloff(func(VoiceID, float32) float32 { return 0.25 })

	a := NewAssetFromPCM("stereo", 1000, 2, []float32{0.8, 0.4})
	v, err := e.Play(a, nil, false)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	v.SetPosition(Vec3{10, 0, 0})

	out := render(t, e, 1)
	if math.Abs(float64(out[0]-0.2)) > 1e-6 {
		t.Errorf("left = %v, want 0.2 (0.8 at quarter gain)", out[0])
	}
	if math.Abs(float64(out[1]-0.1)) > 1e-6 {
		t.Errorf("right = %v, want 0.1 (0.4 at quarter gain)", out[1])
	}
}

func TestRolloff_ResultClamped(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	e.SetRolloff(func(VoiceID, float32) float32 { return -5 })
	v, _ := e.Play(constAsset(100, 1), nil, false)
	v.SetPosition(Vec3{10, 0, 0})

	out := render(t, e, 1)
	if out[0] != 0 || out[1] != 0 {
		t.Errorf("output = (%v, %v) for negative rolloff, want silence", out[0], out[1])
	}
}

func TestMasterMute_HeadsKeepAdvancing(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	playFlat(t, e, rampAsset(100))
	e.SetMasterMute(true)

	for i, s := range render(t, e, 50) {
		if s != 0 {
			t.Fatalf("sample %d = %v while muted, want 0", i, s)
		}
	}

	e.SetMasterMute(false)
	out := render(t, e, 1)
	if out[0] != 51 {
		t.Errorf("frame after unmute = %v, want 51 (head advanced under mute)", out[0])
	}
}

func TestStopGroup_OnlyItsVoices(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)
	a := constAsset(10000, 1)

	g1 := e.NewGroup("world")
	g2 := e.NewGroup("ambient")
	v1, _ := e.Play(a, g1, false)
	v2, _ := e.Play(a, g2, false)

	e.StopGroup(g1)
	if v1.Active() {
		t.Error("v1 active after StopGroup")
	}
	if !v2.Active() {
		t.Error("v2 stopped by another group's StopGroup")
	}
	if done := e.Finished(); len(done) != 0 {
		t.Errorf("Finished() = %v after StopGroup, want none", done)
	}
}

func TestGroupVolume_ScalesAndClamps(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	g := e.NewGroup("sfx")
	g.SetVolume(0.5)
	v, _ := e.Play(constAsset(100, 1), g, false)
	v.SetSpatial(false)

	out := render(t, e, 1)
	if math.Abs(float64(out[0]-0.5)) > 1e-6 {
		t.Errorf("output = %v at half group gain, want 0.5", out[0])
	}

	g.SetVolume(3)
	if g.Volume() != 1 {
		t.Errorf("Volume() = %v after overdrive, want 1", g.Volume())
	}
}

func TestVoice_VolumeClamped(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	v, _ := e.Play(constAsset(100, 1), nil, false)
	v.SetVolume(-1)
	if v.Gain() != 0 {
		t.Errorf("Gain() = %v, want 0", v.Gain())
	}
	v.SetVolume(2)
	if v.Gain() != 1 {
		t.Errorf("Gain() = %v, want 1", v.Gain())
	}
}

func TestAdvance_MovesClock(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	e.Advance(100)
	if e.DSPClock() != 100 {
		t.Errorf("DSPClock() = %d, want 100", e.DSPClock())
	}
	e.Advance(1000)
	if e.DSPClock() != 1100 {
		t.Errorf("DSPClock() = %d, want 1100", e.DSPClock())
	}
}

func TestClose_RejectsFurtherUse(t *testing.T) {
	t.Parallel()

	e, err := New(Config{SampleRate: 1000})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	v, _ := e.Play(constAsset(100, 1), nil, false)

	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if v.Active() {
		t.Error("voice active after Close")
	}
	if _, err := e.Play(constAsset(100, 1), nil, false); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Play() error = %v, want ErrEngineClosed", err)
	}
	if _, err := e.Read(make([]byte, 64)); err != io.EOF {
		t.Errorf("Read() error = %v, want io.EOF", err)
	}
}

func TestPaused_ProducesSilenceWithoutAdvancing(t *testing.T) {
	t.Parallel()
	e := newHeadless(t, 8)

	v, err := e.Play(rampAsset(100), nil, true)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	v.SetSpatial(false)

	for i, s := range render(t, e, 10) {
		if s != 0 {
			t.Fatalf("sample %d = %v while paused, want 0", i, s)
		}
	}

	v.SetPaused(false)
	out := render(t, e, 1)
	if out[0] != 1 {
		t.Errorf("first frame after unpause = %v, want 1", out[0])
	}
}
