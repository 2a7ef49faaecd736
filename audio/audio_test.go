package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for j := 0; j < n; j++ {
			v := buf[j][0]
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("Expected stream to end")
	return 0, 0
}

func TestEatSoundLength(t *testing.T) {
	sr := beep.SampleRate(44100)
	s := EatSound(sr, 0.5)
	if s == nil {
		t.Fatal("Expected non-nil streamer")
	}

	n, peak := drain(t, s)
	want := sr.N(60*time.Millisecond) + sr.N(90*time.Millisecond)
	if n != want {
		t.Errorf("Expected %d samples, got %d", want, n)
	}
	if peak <= 0 || peak > 1.0 {
		t.Errorf("Expected peak in (0,1], got %f", peak)
	}
}

func TestGameOverSoundLength(t *testing.T) {
	sr := beep.SampleRate(44100)
	n, _ := drain(t, GameOverSound(sr, 1))
	if want := 3 * sr.N(180*time.Millisecond); n != want {
		t.Errorf("Expected %d samples, got %d", want, n)
	}
}

func TestZeroVolumeIsSilent(t *testing.T) {
	_, peak := drain(t, EatSound(beep.SampleRate(44100), 0))
	if peak != 0 {
		t.Errorf("Expected silence, got peak %f", peak)
	}
}

func TestUninitializedPlayerIsNoop(t *testing.T) {
	p := NewPlayer(0.5)
	// must not touch the speaker
	p.OnFoodEaten()
	p.OnGameOver()
	p.Close()
}
