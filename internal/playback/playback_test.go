package playback

import (
	"encoding/binary"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestRateController_PressSlowsMonotonically(t *testing.T) {
	r := NewRateController(DefaultRateConfig())
	r.SetHeld(true)
	prev := r.Current()
	for frame := 0; frame < 2000; frame++ {
		cur := r.Update()
		if cur < 0.1 {
			t.Fatalf("frame %d: rate %v below minimum", frame, cur)
		}
		if prev > 0.1 && cur >= prev {
			t.Fatalf("frame %d: rate did not decrease (%v -> %v)", frame, prev, cur)
		}
		prev = cur
	}
	if r.Current() != 0.1 {
		t.Fatalf("expected rate to settle at 0.1, got %v", r.Current())
	}
	// Stays clamped.
	for i := 0; i < 10; i++ {
		if r.Update() != 0.1 {
			t.Fatal("expected rate to stay at 0.1")
		}
	}
}

func TestRateController_ReleaseRecoversMonotonically(t *testing.T) {
	r := NewRateController(DefaultRateConfig())
	r.SetHeld(true)
	for i := 0; i < 2000; i++ {
		r.Update()
	}
	r.SetHeld(false)
	prev := r.Current()
	for frame := 0; frame < 1000; frame++ {
		cur := r.Update()
		if cur > 1.0 {
			t.Fatalf("frame %d: rate %v above maximum", frame, cur)
		}
		if prev < 1.0 && cur <= prev {
			t.Fatalf("frame %d: rate did not increase (%v -> %v)", frame, prev, cur)
		}
		prev = cur
	}
	if r.Current() != 1.0 {
		t.Fatalf("expected rate to settle at 1.0, got %v", r.Current())
	}
}

func framesToWithin(r *RateController, eps float64) int {
	for n := 1; n < 10000; n++ {
		if math.Abs(r.Target()-r.Update()) < eps {
			return n
		}
	}
	return -1
}

func TestRateController_ReleaseFasterThanPress(t *testing.T) {
	press := NewRateController(DefaultRateConfig())
	press.SetHeld(true)
	pressFrames := framesToWithin(press, 0.01)

	release := NewRateController(DefaultRateConfig())
	release.current = 0.1
	release.SetHeld(false)
	releaseFrames := framesToWithin(release, 0.01)

	if pressFrames <= 0 || releaseFrames <= 0 {
		t.Fatalf("did not converge: press=%d release=%d", pressFrames, releaseFrames)
	}
	if releaseFrames >= pressFrames {
		t.Fatalf("expected release (%d frames) to converge faster than press (%d frames)", releaseFrames, pressFrames)
	}
}

func TestRateController_FirstFrameStep(t *testing.T) {
	r := NewRateController(DefaultRateConfig())
	r.SetHeld(true)
	if got := r.Update(); math.Abs(got-(1.0-0.9*0.02)) > 1e-12 {
		t.Fatalf("expected 0.982 after one held frame, got %v", got)
	}
}

type fakeOutput struct{ rates []float64 }

func (f *fakeOutput) SetRate(rate float64) { f.rates = append(f.rates, rate) }

func TestPlayer_OpensLazilyOnce(t *testing.T) {
	var opens atomic.Int32
	out := &fakeOutput{}
	p := NewPlayer(NewRateController(DefaultRateConfig()), func() (Output, error) {
		opens.Add(1)
		return out, nil
	}, nil)

	p.Update()
	p.SetHeld(false)
	p.Wait()
	if opens.Load() != 0 || p.Started() {
		t.Fatal("audio must not open before the first press")
	}
	p.SetHeld(true)
	p.SetHeld(false)
	p.SetHeld(true)
	p.Wait()
	if opens.Load() != 1 {
		t.Fatalf("expected exactly one open, got %d", opens.Load())
	}
	p.Update()
	if !p.Started() || len(out.rates) != 1 {
		t.Fatalf("expected rate pushed to output, got %v", out.rates)
	}
}

func TestPlayer_SlowOpenDoesNotBlockFrames(t *testing.T) {
	release := make(chan struct{})
	out := &fakeOutput{}
	p := NewPlayer(NewRateController(DefaultRateConfig()), func() (Output, error) {
		<-release
		return out, nil
	}, nil)

	p.SetHeld(true)
	for i := 0; i < 5; i++ {
		p.Update()
	}
	if p.Started() || len(out.rates) != 0 {
		t.Fatal("output must not be used before the opener returns")
	}

	close(release)
	p.Wait()
	p.Update()
	if !p.Started() || len(out.rates) != 1 {
		t.Fatalf("expected output picked up on the next frame, rates=%v", out.rates)
	}
}

func TestPlayer_OpenFailureStaysSilent(t *testing.T) {
	var opens atomic.Int32
	p := NewPlayer(NewRateController(DefaultRateConfig()), func() (Output, error) {
		opens.Add(1)
		return nil, errors.New("no device")
	}, nil)
	p.SetHeld(true)
	p.SetHeld(false)
	p.SetHeld(true)
	p.Wait()
	if opens.Load() != 1 || p.Started() {
		t.Fatalf("expected a single failed attempt, opens=%d started=%v", opens.Load(), p.Started())
	}
	// The rate still eases even without output.
	if p.Update() >= 1.0 || p.Started() {
		t.Fatal("expected rate to move toward the held target with no output")
	}
}

// rampSeeker yields frame i as (i/len, -i/len).
type rampSeeker struct {
	n   int
	pos int
}

func (r *rampSeeker) Stream(samples [][2]float64) (int, bool) {
	if r.pos >= r.n {
		return 0, false
	}
	k := 0
	for k < len(samples) && r.pos < r.n {
		v := float64(r.pos) / float64(r.n)
		samples[k] = [2]float64{v, -v}
		r.pos++
		k++
	}
	return k, true
}

func (r *rampSeeker) Err() error { return nil }
func (r *rampSeeker) Len() int { return r.n }
func (r *rampSeeker) Position() int { return r.pos }
func (r *rampSeeker) Seek(p int) error {
	r.pos = p
	return nil
}

func testFormat() beep.Format {
	return beep.Format{SampleRate: 1000, NumChannels: 2, Precision: 2}
}

func TestNewStream_SeeksToStartOffset(t *testing.T) {
	src := &rampSeeker{n: 5000}
	if _, err := NewStream(src, testFormat(), 2*time.Second); err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	if src.Position() != 2000 {
		t.Fatalf("expected seek to frame 2000, got %d", src.Position())
	}
}

func TestNewStream_OffsetPastEndStartsAtZero(t *testing.T) {
	src := &rampSeeker{n: 500, pos: 42}
	if _, err := NewStream(src, testFormat(), 80*time.Second); err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	if src.Position() != 0 {
		t.Fatalf("expected seek to 0 for short tracks, got %d", src.Position())
	}
}

func TestStream_ReadProducesWholeFrames(t *testing.T) {
	s, err := NewStream(&rampSeeker{n: 100}, testFormat(), 0)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	p := make([]byte, 4*64+3)
	n, err := s.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 4*64 {
		t.Fatalf("expected %d bytes, got %d", 4*64, n)
	}
	// Right channel mirrors left.
	for i := 8; i < 64; i++ {
		l := int16(binary.LittleEndian.Uint16(p[i*4:]))
		r := int16(binary.LittleEndian.Uint16(p[i*4+2:]))
		if l < 0 || r > 0 {
			t.Fatalf("frame %d: unexpected sample signs l=%d r=%d", i, l, r)
		}
	}
}

func TestStream_LoopsPastEnd(t *testing.T) {
	src := &rampSeeker{n: 50}
	s, err := NewStream(src, testFormat(), 0)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	p := make([]byte, 4*200)
	for i := 0; i < 3; i++ {
		if n, _ := s.Read(p); n != len(p) {
			t.Fatalf("read %d: short read %d", i, n)
		}
	}
}

func TestStream_SetRate(t *testing.T) {
	s, err := NewStream(&rampSeeker{n: 100}, testFormat(), 0)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	s.SetRate(0.25)
	if s.Rate() != 0.25 {
		t.Fatalf("expected rate 0.25, got %v", s.Rate())
	}
	s.SetRate(0)
	if s.Rate() != 0.25 {
		t.Fatal("non-positive rates must be ignored")
	}
}

func TestToPCM16_Clamps(t *testing.T) {
	if toPCM16(2) != 32767 || toPCM16(-2) != -32767 || toPCM16(0) != 0 {
		t.Fatal("unexpected PCM conversion")
	}
}
