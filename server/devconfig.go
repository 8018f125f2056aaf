package zonetone

import (
	"encoding/binary"
	"fmt"

	Zt "github.com/maroda/zonetone/types"
)

/*

	Zone calibration codec.

	The device keeps one 20-byte record per zone and exchanges all of
	them as a single contiguous transfer of CalibrationSize * NumZones
	bytes. Little-endian, 4-byte aligned to match the firmware struct:

	  offset 0     enabled (0/1)
	  offset 1     midi control (legacy)
	  offset 2-3   padding, zero on encode, ignored on decode
	  offset 4-7   cycle count begin (u32)
	  offset 8-11  cycle count end (u32)
	  offset 12-15 comparator threshold lo (u32)
	  offset 16-19 comparator threshold hi (u32)

	No framing or length prefix; the transfer size itself carries the
	record count.

*/

// DefaultZoneCalibration matches the firmware factory values.
func DefaultZoneCalibration() Zt.ZoneCalibration {
	return Zt.ZoneCalibration{
		Enabled:         true,
		MidiControl:     0,
		CycleCountBegin: 1000,
		CycleCountEnd:   10000,
		CompThreshLo:    100,
		CompThreshHi:    4000,
	}
}

// DefaultCalibrations fills the whole zone array with factory values.
func DefaultCalibrations() [Zt.NumZones]Zt.ZoneCalibration {
	var cals [Zt.NumZones]Zt.ZoneCalibration
	for i := range cals {
		cals[i] = DefaultZoneCalibration()
	}
	return cals
}

// EncodeZoneCalibration serializes one record into its fixed layout.
func EncodeZoneCalibration(c Zt.ZoneCalibration) []byte {
	data := make([]byte, Zt.CalibrationSize)
	if c.Enabled {
		data[0] = 1
	}
	data[1] = c.MidiControl
	binary.LittleEndian.PutUint32(data[4:8], c.CycleCountBegin)
	binary.LittleEndian.PutUint32(data[8:12], c.CycleCountEnd)
	binary.LittleEndian.PutUint32(data[12:16], c.CompThreshLo)
	binary.LittleEndian.PutUint32(data[16:20], c.CompThreshHi)
	return data
}

// DecodeZoneCalibration parses one record from the first 20 bytes.
func DecodeZoneCalibration(data []byte) (Zt.ZoneCalibration, error) {
	if len(data) < Zt.CalibrationSize {
		return Zt.ZoneCalibration{}, fmt.Errorf("%w: calibration record is %d bytes, want %d",
			ErrDataTooShort, len(data), Zt.CalibrationSize)
	}
	return Zt.ZoneCalibration{
		Enabled:         data[0] != 0,
		MidiControl:     data[1],
		CycleCountBegin: binary.LittleEndian.Uint32(data[4:8]),
		CycleCountEnd:   binary.LittleEndian.Uint32(data[8:12]),
		CompThreshLo:    binary.LittleEndian.Uint32(data[12:16]),
		CompThreshHi:    binary.LittleEndian.Uint32(data[16:20]),
	}, nil
}

// DecodeZoneCalibrations parses a full device transfer. The buffer
// length must equal exactly CalibrationSize * n, partial records are
// rejected.
func DecodeZoneCalibrations(data []byte, n int) ([]Zt.ZoneCalibration, error) {
	if len(data) != Zt.CalibrationSize*n {
		return nil, fmt.Errorf("%w: calibration transfer is %d bytes, want %d",
			ErrDataTooShort, len(data), Zt.CalibrationSize*n)
	}
	cals := make([]Zt.ZoneCalibration, 0, n)
	for i := 0; i < n; i++ {
		c, err := DecodeZoneCalibration(data[i*Zt.CalibrationSize:])
		if err != nil {
			return nil, err
		}
		cals = append(cals, c)
	}
	return cals, nil
}

// EncodeZoneCalibrations concatenates each record's encoding in order.
func EncodeZoneCalibrations(cals []Zt.ZoneCalibration) []byte {
	data := make([]byte, 0, Zt.CalibrationSize*len(cals))
	for _, c := range cals {
		data = append(data, EncodeZoneCalibration(c)...)
	}
	return data
}
