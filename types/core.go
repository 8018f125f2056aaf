package types

/*

	These are the "immutable" core types of Zonetone,
	provided for cross-package use (e.g. Plugins) and testing.

	There are no functions defined here.
	Struct constructors and codecs are housed in their own packages.
	Methods taking these types should create local aliases,
	for example: type Samples []Mt.ProcessedSample

*/

// NumZones is how many independent sensing zones the device reports.
// The wire formats (sample packets and calibration transfers) are
// sized against this, so it is fixed per hardware revision.
const NumZones = 8

// CalibrationSize is the fixed on-wire size of one ZoneCalibration
// record: 1 + 1 + 2 (padding) + 4 + 4 + 4 + 4, kept 4-byte aligned
// to match the device firmware struct.
const CalibrationSize = 20

// SamplePacketSize is the fixed on-wire size of one sensor packet:
// 4 (timestamp) + 4 (value) + 1 (zone).
const SamplePacketSize = 9

// Sample is one raw device measurement as decoded off the wire.
// Timestamp is the device clock in milliseconds; it wraps on its own
// schedule and is only monotonic within a single connection.
// HasValue is false when the device sent the zero sentinel, meaning
// the zone is disabled or below the detection floor.
type Sample struct {
	Timestamp int32
	Zone      int // physical zone, 0 <= Zone < NumZones
	Value     int32
	HasValue  bool
}

// ProcessedSample is a Sample after remapping and normalization.
// Zone here is the logical zone, post-permutation. Consumers receive
// copies and never mutate them.
type ProcessedSample struct {
	Timestamp  int32   `json:"timestamp"`
	Zone       int     `json:"zone"`
	Raw        float64 `json:"raw"`
	Normalized float64 `json:"normalized"`
}

// ZoneCalibration is one zone's sensing parameters as persisted on
// the device itself. The codec enforces no ordering between Lo/Hi or
// Begin/End, that is a caller contract.
type ZoneCalibration struct {
	Enabled         bool   `json:"enabled"`
	MidiControl     uint8  `json:"midiControl"` // legacy field, not the computed CC number
	CycleCountBegin uint32 `json:"cycleCountBegin"`
	CycleCountEnd   uint32 `json:"cycleCountEnd"`
	CompThreshLo    uint32 `json:"compThreshLo"`
	CompThreshHi    uint32 `json:"compThreshHi"`
}
