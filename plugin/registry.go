package plugin

import (
	"fmt"

	Zt "github.com/maroda/zonetone/types"
)

// Options carries construction parameters for the output factories.
type Options struct {
	MIDIPort   int
	MidiConfig Zt.MidiConfig
	BadgerPath string
	BatchSize  int
}

// Outputs is a global map of Output plugin factories.
var Outputs = map[string]func(o Options) (Output, error){
	"midi": func(o Options) (Output, error) {
		return NewMIDIOutput(o.MIDIPort, o.MidiConfig)
	},
	"badger": func(o Options) (Output, error) {
		return NewBadgerOutput(o.BadgerPath, o.BatchSize)
	},
}

func OutputLookup(name string, o Options) (Output, error) {
	factory, ok := Outputs[name]
	if !ok {
		return nil, fmt.Errorf("unknown output: %s", name)
	}
	return factory(o)
}
