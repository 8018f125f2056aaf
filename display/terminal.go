package zonetone

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	Zt "github.com/maroda/zonetone/types"
)

const (
	screenGutter = 2
	labelWidth   = 8 // "zone N  "
)

// Terminal is the tcell meter view: one horizontal bar per logical
// zone showing the normalized deviation, saturated when the gesture
// would sound a note.
type Terminal struct {
	View   *View
	Screen tcell.Screen
}

func NewTerminal(v *View) (*Terminal, error) {
	screen, err := GetTTY()
	if err != nil {
		slog.Error("Could not get new screen", slog.Any("Error", err))
		return nil, err
	}

	return &Terminal{
		View:   v,
		Screen: screen,
	}, nil
}

// Run redraws on a fixed cadence until Esc, Ctrl-C, or 'q'.
func (t *Terminal) Run() {
	quit := func() {
		// Catch panics in a defer, clean up, and re-raise them,
		// otherwise the application can die without leaving a
		// diagnostic trace.
		maybePanic := recover()
		t.Screen.Fini()
		if maybePanic != nil {
			panic(maybePanic)
		}
	}
	defer quit()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := t.Screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.DrawZones()
			t.Screen.Show()

		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				t.Screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
			}
		}
	}
}

// DrawZones paints one meter per logical zone.
func (t *Terminal) DrawZones() {
	t.Screen.Clear()

	width, _ := t.Screen.Size()
	maxBar := width - labelWidth - screenGutter*2
	if maxBar < 1 {
		maxBar = 1
	}

	threshold := 0.1
	if t.View.MIDI != nil {
		threshold = t.View.MIDI.ConfigSnapshot().Note.Threshold
	}

	labelStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	quietStyle := tcell.StyleDefault.Background(tcell.ColorOliveDrab)
	accentStyle := tcell.StyleDefault.Background(tcell.ColorIndianRed)

	samples := t.View.SnapshotSamples()
	for _, s := range samples {
		row := screenGutter + s.Zone
		magnitude := math.Abs(s.Normalized)

		WriteText(t.Screen, screenGutter, row, labelStyle, fmt.Sprintf("zone %d", s.Zone))

		style := quietStyle
		if magnitude > threshold {
			style = accentStyle
		}

		barEnd := screenGutter + labelWidth + MeterWidth(magnitude, maxBar)
		WriteBar(t.Screen, screenGutter+labelWidth, barEnd, row, style)
	}

	WriteText(t.Screen, screenGutter, screenGutter+Zt.NumZones+1, labelStyle,
		"q to quit")
}
