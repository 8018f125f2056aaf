package plugin

import (
	Zt "github.com/maroda/zonetone/types"
)

// scaleIntervals holds the ordered semitone offsets within one octave
// for every supported scale.
var scaleIntervals = map[Zt.MusicalScale][]uint8{
	Zt.ScaleChromatic:  {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	Zt.ScaleMajor:      {0, 2, 4, 5, 7, 9, 11},
	Zt.ScaleMinor:      {0, 2, 3, 5, 7, 8, 10},
	Zt.ScalePentatonic: {0, 2, 4, 7, 9},
	Zt.ScaleBlues:      {0, 3, 5, 6, 7, 10},
	Zt.ScaleDorian:     {0, 2, 3, 5, 7, 9, 10},
	Zt.ScaleMixolydian: {0, 2, 4, 5, 7, 9, 10},
	Zt.ScaleLydian:     {0, 2, 4, 6, 7, 9, 11},
	Zt.ScalePhrygian:   {0, 1, 3, 5, 7, 8, 10},
	Zt.ScaleLocrian:    {0, 1, 3, 5, 6, 8, 10},
	Zt.ScaleWholeTone:  {0, 2, 4, 6, 8, 10},
	Zt.ScaleDiminished: {0, 2, 3, 5, 6, 8, 9, 11},
}

var scaleNames = map[Zt.MusicalScale]string{
	Zt.ScaleChromatic:  "Chromatic",
	Zt.ScaleMajor:      "Major",
	Zt.ScaleMinor:      "Minor",
	Zt.ScalePentatonic: "Pentatonic",
	Zt.ScaleBlues:      "Blues",
	Zt.ScaleDorian:     "Dorian",
	Zt.ScaleMixolydian: "Mixolydian",
	Zt.ScaleLydian:     "Lydian",
	Zt.ScalePhrygian:   "Phrygian",
	Zt.ScaleLocrian:    "Locrian",
	Zt.ScaleWholeTone:  "Whole Tone",
	Zt.ScaleDiminished: "Diminished",
}

// ScaleIntervals returns the interval table for a scale,
// falling back to chromatic for an unknown name.
func ScaleIntervals(s Zt.MusicalScale) []uint8 {
	if iv, ok := scaleIntervals[s]; ok {
		return iv
	}
	return scaleIntervals[Zt.ScaleChromatic]
}

// ScaleName is the display name for a scale.
func ScaleName(s Zt.MusicalScale) string {
	if n, ok := scaleNames[s]; ok {
		return n
	}
	return string(s)
}

// AllScales lists every supported scale in a stable order,
// for configuration UIs.
func AllScales() []Zt.MusicalScale {
	return []Zt.MusicalScale{
		Zt.ScaleChromatic,
		Zt.ScaleMajor,
		Zt.ScaleMinor,
		Zt.ScalePentatonic,
		Zt.ScaleBlues,
		Zt.ScaleDorian,
		Zt.ScaleMixolydian,
		Zt.ScaleLydian,
		Zt.ScalePhrygian,
		Zt.ScaleLocrian,
		Zt.ScaleWholeTone,
		Zt.ScaleDiminished,
	}
}

// MapZoneToNote quantizes a logical zone onto a scale. The zone index
// walks the interval table, spilling into the next octave when it runs
// past the end, and the result clamps at the top of the MIDI range.
func MapZoneToNote(scale Zt.MusicalScale, baseNote uint8, zone int) uint8 {
	intervals := ScaleIntervals(scale)
	if len(intervals) == 0 {
		return baseNote
	}

	octave := zone / len(intervals)
	index := zone % len(intervals)

	note := int(baseNote) + int(intervals[index]) + 12*octave
	if note > 127 {
		note = 127
	}
	return uint8(note)
}
