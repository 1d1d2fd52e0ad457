package main

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/playmatatu/lanes/internal/game"
)

const (
	sampleRate = beep.SampleRate(44100)

	// impacts below this are not worth a click
	minContactImpulse = 0.5
	maxVoices         = 8
)

// sound plays short tones for pin impacts and roll outcomes.
type sound struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func newSound() *sound {
	return &sound{mixer: &beep.Mixer{}}
}

func (s *sound) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

func (s *sound) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Clear()
	s.initialized = false
}

// Contact clicks louder for harder impacts.
func (s *sound) Contact(impulse float64) {
	if impulse < minContactImpulse {
		return
	}
	volume := -2.0 + impulse/4
	if volume > 0 {
		volume = 0
	}
	s.play(220, 30*time.Millisecond, volume)
}

// Roll is registered as the game's roll listener.
func (s *sound) Roll(ev game.RollEvent) {
	switch {
	case ev.Strike:
		s.play(660, 120*time.Millisecond, 0)
		s.play(880, 240*time.Millisecond, -0.5)
	case ev.Spare:
		s.play(550, 180*time.Millisecond, -0.5)
	case ev.Foul, ev.Gutter:
		s.play(110, 200*time.Millisecond, -1)
	}
}

func (s *sound) play(freq float64, d time.Duration, volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}

	tone, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Lock()
	busy := s.mixer.Len() >= maxVoices
	speaker.Unlock()
	if busy {
		return
	}

	speaker.Lock()
	s.mixer.Add(&effects.Volume{
		Streamer: beep.Take(sampleRate.N(d), tone),
		Base:     2,
		Volume:   volume,
	})
	speaker.Unlock()
}
