package zonetone

import (
	"encoding/binary"
	"errors"
	"fmt"

	Zt "github.com/maroda/zonetone/types"
)

var (
	// ErrDataTooShort covers any truncated binary input,
	// sample packets and calibration records alike.
	ErrDataTooShort = errors.New("data too short")
	// ErrInvalidZone is a decoded zone index outside the device range.
	ErrInvalidZone = errors.New("invalid zone")
)

// DecodeSample parses one notification payload into a Sample.
// Layout is little-endian: 4 bytes signed timestamp, 4 bytes signed
// value, 1 byte zone index. A value of exactly zero is the device
// sentinel for "no reading" and decodes to HasValue=false.
func DecodeSample(data []byte) (Zt.Sample, error) {
	if len(data) < Zt.SamplePacketSize {
		return Zt.Sample{}, fmt.Errorf("%w: sample packet is %d bytes, want %d",
			ErrDataTooShort, len(data), Zt.SamplePacketSize)
	}

	timestamp := int32(binary.LittleEndian.Uint32(data[0:4]))
	value := int32(binary.LittleEndian.Uint32(data[4:8]))
	zone := data[8]

	if zone >= Zt.NumZones {
		return Zt.Sample{}, fmt.Errorf("%w: %d", ErrInvalidZone, zone)
	}

	return Zt.Sample{
		Timestamp: timestamp,
		Zone:      int(zone),
		Value:     value,
		HasValue:  value != 0,
	}, nil
}

// EncodeSample is the inverse of DecodeSample.
// The simulated device link and tests use it to build packets.
func EncodeSample(s Zt.Sample) []byte {
	data := make([]byte, Zt.SamplePacketSize)
	binary.LittleEndian.PutUint32(data[0:4], uint32(s.Timestamp))
	if s.HasValue {
		binary.LittleEndian.PutUint32(data[4:8], uint32(s.Value))
	}
	data[8] = byte(s.Zone)
	return data
}
