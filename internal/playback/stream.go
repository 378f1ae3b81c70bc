package playback

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"

	"github.com/Garsondee/Drift-Gallery/internal/catalog"
)

// resampleQuality trades CPU for aliasing; 4 is beep's usual choice.
const resampleQuality = 4

// bytesPerFrame is one stereo frame of signed 16-bit little-endian PCM.
const bytesPerFrame = 4

// Stream is a looping, variable-rate PCM reader. The audio backend pulls from
// Read on its own goroutine while the frame loop calls SetRate.
type Stream struct {
	mu        sync.Mutex
	resampler *beep.Resampler
	closer    func() error
	format    beep.Format
	buf       [][2]float64
}

// NewStream loops src forever starting at start and resamples it by rate.
func NewStream(src beep.StreamSeeker, format beep.Format, start time.Duration) (*Stream, error) {
	pos := format.SampleRate.N(start)
	if pos < 0 || pos >= src.Len() {
		pos = 0
	}
	if err := src.Seek(pos); err != nil {
		return nil, fmt.Errorf("seek audio to %s: %w", start, err)
	}
	return &Stream{
		resampler: beep.ResampleRatio(resampleQuality, 1.0, beep.Loop(-1, src)),
		format:    format,
	}, nil
}

// OpenTrack reads the whole soundtrack from src and decodes it. The bytes are
// held in memory so the decoder can seek and loop.
func OpenTrack(ctx context.Context, src catalog.Source, start time.Duration) (*Stream, error) {
	rc, err := src.Open(ctx, catalog.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open soundtrack: %w", err)
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read soundtrack: %w", err)
	}
	decoded, format, err := mp3.Decode(memFile{bytes.NewReader(data)})
	if err != nil {
		return nil, fmt.Errorf("decode soundtrack: %w", err)
	}
	s, err := NewStream(decoded, format, start)
	if err != nil {
		_ = decoded.Close()
		return nil, err
	}
	s.closer = decoded.Close
	return s, nil
}

// memFile is a seekable in-memory ReadCloser.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// SampleRate is the stream's output rate in Hz.
func (s *Stream) SampleRate() int {
	return int(s.format.SampleRate)
}

// SetRate changes the playback speed; 1 is normal.
func (s *Stream) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	s.mu.Lock()
	s.resampler.SetRatio(rate)
	s.mu.Unlock()
}

// Rate returns the current playback speed.
func (s *Stream) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resampler.Ratio()
}

// Read fills p with whole stereo frames. Any shortfall is padded with silence
// so the backend never stalls.
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	s.mu.Lock()
	if cap(s.buf) < frames {
		s.buf = make([][2]float64, frames)
	}
	buf := s.buf[:frames]
	n, _ := s.resampler.Stream(buf)
	s.mu.Unlock()

	for i := 0; i < frames; i++ {
		var l, r int16
		if i < n {
			l = toPCM16(buf[i][0])
			r = toPCM16(buf[i][1])
		}
		binary.LittleEndian.PutUint16(p[i*bytesPerFrame:], uint16(l))
		binary.LittleEndian.PutUint16(p[i*bytesPerFrame+2:], uint16(r))
	}
	return frames * bytesPerFrame, nil
}

// Close releases the decoder.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func toPCM16(v float64) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}
