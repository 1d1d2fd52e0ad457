package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/lanes/internal/config"
	"github.com/playmatatu/lanes/internal/game"
	"github.com/playmatatu/lanes/internal/physics"
)

const frameDelay = time.Second / 60

func main() {
	tuningPath := flag.String("tuning", os.Getenv("TUNING_FILE"), "gameplay tuning YAML")
	scoring := flag.String("scoring", "", "scoring mode: traditional or additive")
	mute := flag.Bool("mute", false, "disable sound")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// the terminal owns stdout while the screen is up
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	tuning, err := config.LoadTuning(*tuningPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	settings := tuning.Settings()
	if *scoring != "" {
		mode, err := game.ParseScoringMode(*scoring)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		settings.Rules.Scoring = mode
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen init: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	sound := newSound()
	if !*mute {
		if err := sound.Initialize(); err != nil {
			log.Printf("Audio initialization failed: %v", err)
		}
	}
	defer sound.Cleanup()

	world := physics.NewWorld(settings.Lane, tuning.Physics)
	g := game.NewGame(world, settings)
	g.OnRoll(sound.Roll)
	loop := game.NewLoop(world, g)
	ctl := &controls{maxAim: settings.Launch.MaxAim}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameDelay)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if isQuit(ev) {
					return
				}
				if in, ok := ctl.intent(ev, g.Snapshot().Charging); ok {
					g.Enqueue(in)
				}
			}

		case now := <-ticker.C:
			loop.Advance(now.Sub(last).Seconds())
			last = now
			for _, c := range world.Contacts() {
				sound.Contact(c.Impulse)
			}
			draw(screen, g.Snapshot(), settings.Lane, ctl)
		}
	}
}
