package zonetone

import (
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
)

func GetTTY() (tcell.Screen, error) {
	defStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)

	// New screen
	s, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Could not get new screen: %+v", err)
	}

	// Initialize screen
	if err := s.Init(); err != nil {
		log.Fatalf("Could not initialize screen: %+v", err)
		os.Exit(1)
	}
	s.SetStyle(defStyle)
	s.Clear()

	return s, err
}

// WriteBar shows a long bar for the amount entered
// x1 = starting X axis (from left), x2 = ending X axis (from left)
// row = the Y axis (from top)
func WriteBar(s tcell.Screen, x1, x2, row int, style tcell.Style) {
	for col := x1; col < x2; col++ {
		s.SetContent(col, row, ' ', nil, style)
	}
}

// WriteText places a plain string at the given position.
func WriteText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// MeterWidth scales a magnitude of roughly 0..1 onto the meter,
// clamping overshoot so a big gesture pins the bar instead of
// wrapping the screen.
func MeterWidth(magnitude float64, maxWidth int) int {
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude > 1.0 {
		magnitude = 1.0
	}
	return int(magnitude * float64(maxWidth))
}
