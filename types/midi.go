package types

// MidiMethod selects which translation the gesture translator runs.
// The set is closed: exactly one of these two per sample.
type MidiMethod string

const (
	MethodControlChange MidiMethod = "control_change"
	MethodNotes         MidiMethod = "notes"
)

// MusicalScale names the interval table used to quantize zones to
// notes. Interval data lives with the translator in the plugin package.
type MusicalScale string

const (
	ScaleChromatic  MusicalScale = "chromatic"
	ScaleMajor      MusicalScale = "major"
	ScaleMinor      MusicalScale = "minor"
	ScalePentatonic MusicalScale = "pentatonic"
	ScaleBlues      MusicalScale = "blues"
	ScaleDorian     MusicalScale = "dorian"
	ScaleMixolydian MusicalScale = "mixolydian"
	ScaleLydian     MusicalScale = "lydian"
	ScalePhrygian   MusicalScale = "phrygian"
	ScaleLocrian    MusicalScale = "locrian"
	ScaleWholeTone  MusicalScale = "whole_tone"
	ScaleDiminished MusicalScale = "diminished"
)

// ControlChangeConfig drives the continuous controller translation.
// The computed controller number is BaseControlNumber + logical zone,
// as an 8-bit sum. Keeping BaseControlNumber + NumZones - 1 <= 255 is
// on the caller.
type ControlChangeConfig struct {
	BaseControlNumber uint8   `json:"baseControlNumber"`
	ControlSlope      float64 `json:"controlSlope"`
}

// NoteConfig drives the discrete note translation.
type NoteConfig struct {
	BaseNote      uint8        `json:"baseNote"`
	Threshold     float64      `json:"threshold"`
	VelocitySlope float64      `json:"velocitySlope"`
	Scale         MusicalScale `json:"scale"`
}

// MidiConfig is the full translation-mode configuration.
// It is immutable during one translation call; the presentation side
// may swap it between calls.
type MidiConfig struct {
	Method        MidiMethod          `json:"method"`
	ControlChange ControlChangeConfig `json:"controlChangeConfig"`
	Note          NoteConfig          `json:"noteConfig"`
}
