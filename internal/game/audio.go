package game

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/Garsondee/Drift-Gallery/internal/catalog"
	"github.com/Garsondee/Drift-Gallery/internal/playback"
)

// audioOutput plays a playback.Stream through ebiten's audio context.
type audioOutput struct {
	player *audio.Player
	stream *playback.Stream
}

func (a *audioOutput) SetRate(rate float64) {
	a.stream.SetRate(rate)
}

// trackOpener decodes the background track and starts it looping. It is
// handed to playback.NewPlayer and runs once, off the frame thread, after the
// first press.
func trackOpener(src catalog.Source, start time.Duration, volume float64) playback.Opener {
	return func() (playback.Output, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		stream, err := playback.OpenTrack(ctx, src, start)
		if err != nil {
			return nil, err
		}
		actx := audio.CurrentContext()
		if actx == nil {
			actx = audio.NewContext(stream.SampleRate())
		} else if actx.SampleRate() != stream.SampleRate() {
			_ = stream.Close()
			return nil, fmt.Errorf("audio context runs at %d Hz, track is %d Hz", actx.SampleRate(), stream.SampleRate())
		}
		p, err := actx.NewPlayer(stream)
		if err != nil {
			_ = stream.Close()
			return nil, fmt.Errorf("audio player: %w", err)
		}
		p.SetVolume(volume)
		p.Play()
		return &audioOutput{player: p, stream: stream}, nil
	}
}
