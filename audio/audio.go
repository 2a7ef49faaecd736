// Package audio plays the eat and game over sound effects.
package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player is a NotificationSink backed by the system speaker. Until Init
// succeeds every call is a no-op.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

func NewPlayer(volume float64) *Player {
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the speaker. A failure leaves the player silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences everything still queued.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

func (p *Player) OnFoodEaten() {
	p.play(EatSound(sampleRate, p.volume))
}

func (p *Player) OnGameOver() {
	p.play(GameOverSound(sampleRate, p.volume))
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// EatSound is a short rising two-note chime.
func EatSound(sr beep.SampleRate, volume float64) beep.Streamer {
	n1 := tone(sr, 987.77, 60*time.Millisecond)
	n2 := tone(sr, 1318.51, 90*time.Millisecond)
	if n1 == nil || n2 == nil {
		return nil
	}
	return withVolume(beep.Seq(n1, n2), volume)
}

// GameOverSound is a falling three-note phrase.
func GameOverSound(sr beep.SampleRate, volume float64) beep.Streamer {
	var notes []beep.Streamer
	for _, freq := range []float64{392.0, 329.63, 220.0} {
		n := tone(sr, freq, 180*time.Millisecond)
		if n == nil {
			return nil
		}
		notes = append(notes, n)
	}
	return withVolume(beep.Seq(notes...), volume)
}

func tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		log.Printf("sine tone %.2fHz: %v", freq, err)
		return nil
	}
	return newFade(beep.Take(sr.N(d), sine), sr.N(d))
}

// fade linearly ramps a stream of known length down to silence.
type fade struct {
	streamer beep.Streamer
	pos      int
	total    int
}

func newFade(s beep.Streamer, total int) beep.Streamer {
	return &fade{streamer: s, total: total}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1 - float64(f.pos)/float64(f.total)
		if vol < 0 {
			vol = 0
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume is expressed as silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
