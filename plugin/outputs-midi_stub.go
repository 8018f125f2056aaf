//go:build nomidi

package plugin

import (
	"fmt"

	Zo "github.com/maroda/zonetone/obvy"
	Zt "github.com/maroda/zonetone/types"
)

type MIDIOutput struct {
	Stats *Zo.StatsInternal
}

func NewMIDIOutput(port int, cfg Zt.MidiConfig) (*MIDIOutput, error) {
	return nil, fmt.Errorf("MIDI support not compiled in this build")
}

func (m *MIDIOutput) WriteSample(s Zt.ProcessedSample) error {
	return fmt.Errorf("MIDI support not compiled in this build")
}

func (m *MIDIOutput) SetConfig(cfg Zt.MidiConfig)   {}
func (m *MIDIOutput) ConfigSnapshot() Zt.MidiConfig { return Zt.MidiConfig{} }
func (m *MIDIOutput) Flush() error                  { return nil }
func (m *MIDIOutput) Close() error                  { return nil }
func (m *MIDIOutput) Type() string                  { return "midi-disabled" }
