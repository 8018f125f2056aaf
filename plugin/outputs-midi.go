//go:build !nomidi

package plugin

import (
	"fmt"
	"log/slog"
	"sync"

	Zo "github.com/maroda/zonetone/obvy"
	Zt "github.com/maroda/zonetone/types"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// MIDIOutput drives a hardware or virtual MIDI port through the
// gesture translator. The translation config sits behind the lock so
// the presentation side can swap it while samples keep flowing.
type MIDIOutput struct {
	MU         sync.RWMutex
	Port       drivers.Out
	Send       func(msg midi.Message) error
	Translator *Translator
	Config     Zt.MidiConfig

	// Stats counts MIDI traffic when a registry is attached.
	Stats *Zo.StatsInternal
}

func NewMIDIOutput(port int, cfg Zt.MidiConfig) (*MIDIOutput, error) {
	out, err := midi.OutPort(port)
	if err != nil {
		slog.Error("Error opening MIDI port", slog.Int("Port", port))
		return nil, fmt.Errorf("error opening MIDI port: %q", err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		slog.Error("Error sending to MIDI port", slog.Int("Port", port))
		return nil, fmt.Errorf("error sending to MIDI port: %q", err)
	}

	mo := &MIDIOutput{
		Port:   out,
		Send:   send,
		Config: cfg,
	}
	mo.Translator = NewTranslator(0, mo.sendCounted)

	return mo, nil
}

// sendCounted wraps the port send with the MIDI traffic counters.
func (mo *MIDIOutput) sendCounted(msg midi.Message) error {
	err := mo.Send(msg)
	if mo.Stats != nil {
		if err != nil {
			mo.Stats.MIDIErrors.Inc()
		} else {
			mo.Stats.MIDIEvents.Inc()
		}
	}
	return err
}

// WriteSample translates one processed sample under a snapshot of the
// current config.
func (mo *MIDIOutput) WriteSample(s Zt.ProcessedSample) error {
	cfg := mo.ConfigSnapshot()
	return mo.Translator.Process(s.Zone, s.Normalized, cfg)
}

// ConfigSnapshot copies the config out from under the lock.
func (mo *MIDIOutput) ConfigSnapshot() Zt.MidiConfig {
	mo.MU.RLock()
	defer mo.MU.RUnlock()
	return mo.Config
}

// SetConfig replaces the translation config wholesale.
func (mo *MIDIOutput) SetConfig(cfg Zt.MidiConfig) {
	mo.MU.Lock()
	mo.Config = cfg
	mo.MU.Unlock()
}

func (mo *MIDIOutput) Flush() error {
	return mo.Send(midi.ControlChange(0, midi.AllNotesOff, midi.Off))
}

func (mo *MIDIOutput) Close() error {
	if mo.Port != nil {
		mo.Port.Close()
		midi.CloseDriver()
	}
	return nil
}

func (mo *MIDIOutput) Type() string { return "MIDI" }
