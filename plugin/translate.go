package plugin

import (
	"math"

	Zt "github.com/maroda/zonetone/types"
	"gitlab.com/gomidi/midi/v2"
)

// SendFunc delivers one wire-ready MIDI message.
type SendFunc func(msg midi.Message) error

// Translator turns normalized zone readings into MIDI messages.
// Control-change mode is stateless; note mode tracks one bit per zone,
// whether that zone's note is currently sounding.
type Translator struct {
	Channel uint8
	Send    SendFunc

	noteOn [Zt.NumZones]bool
}

func NewTranslator(channel uint8, send SendFunc) *Translator {
	return &Translator{Channel: channel, Send: send}
}

// Process runs one translation call under the given configuration.
// Exactly one of the two methods fires; an unknown method is a no-op.
func (tr *Translator) Process(zone int, normalized float64, cfg Zt.MidiConfig) error {
	switch cfg.Method {
	case Zt.MethodControlChange:
		return tr.sendControlChange(zone, normalized, cfg.ControlChange)
	case Zt.MethodNotes:
		return tr.sendNote(zone, normalized, cfg.Note)
	}
	return nil
}

// sendControlChange emits one CC message per call. The controller
// number is the base plus the zone as an 8-bit sum, it wraps rather
// than erroring when the base sits too high.
func (tr *Translator) sendControlChange(zone int, normalized float64, cfg Zt.ControlChangeConfig) error {
	// both clamps: a negative slope must not reach the uint8 conversion
	value := math.Min(math.Max(math.Abs(normalized)*cfg.ControlSlope, 0.0), 1.0)
	ccValue := uint8(math.Round(127.0 * value))
	ccNumber := cfg.BaseControlNumber + uint8(zone)
	return tr.Send(midi.ControlChange(tr.Channel, ccNumber, ccValue))
}

// sendNote runs the per-zone note state machine:
// off and over threshold sends note-on, on and over threshold sends
// aftertouch, on and under threshold sends note-off.
func (tr *Translator) sendNote(zone int, normalized float64, cfg Zt.NoteConfig) error {
	if zone < 0 || zone >= Zt.NumZones {
		return nil // guards a mismatched zone count upstream
	}

	magnitude := math.Abs(normalized)
	note := MapZoneToNote(cfg.Scale, cfg.BaseNote, zone)

	if magnitude > cfg.Threshold {
		velocity := noteVelocity(magnitude, cfg.VelocitySlope)
		if !tr.noteOn[zone] {
			if err := tr.Send(midi.NoteOn(tr.Channel, note, velocity)); err != nil {
				return err
			}
			tr.noteOn[zone] = true
			return nil
		}
		return tr.Send(midi.PolyAfterTouch(tr.Channel, note, velocity))
	}

	if tr.noteOn[zone] {
		if err := tr.Send(midi.NoteOff(tr.Channel, note)); err != nil {
			return err
		}
		tr.noteOn[zone] = false
	}

	return nil
}

// noteVelocity scales a magnitude into 1..127.
func noteVelocity(magnitude, slope float64) uint8 {
	v := math.Round(magnitude * slope)
	if v > 127 {
		v = 127
	}
	if v < 1 {
		v = 1
	}
	return uint8(v)
}
