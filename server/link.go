package zonetone

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	Zt "github.com/maroda/zonetone/types"
)

// SimLink is an in-memory DeviceLink. It backs the -sim mode and the
// test suite, standing in for the wireless transport with the same
// contract: one packet per notification, calibration exchanged as one
// contiguous transfer.
type SimLink struct {
	MU     sync.Mutex
	notify chan []byte
	config []byte

	// FailRead and FailWrite force the next transfer to error,
	// used to exercise the last-known-good calibration policy.
	FailRead  bool
	FailWrite bool
}

func NewSimLink() *SimLink {
	return &SimLink{
		notify: make(chan []byte, 100),
		config: EncodeZoneCalibrations(defaultCalibrationSlice()),
	}
}

func defaultCalibrationSlice() []Zt.ZoneCalibration {
	cals := DefaultCalibrations()
	return cals[:]
}

func (sl *SimLink) Notifications() <-chan []byte {
	return sl.notify
}

func (sl *SimLink) ReadZoneConfig(_ context.Context) ([]byte, error) {
	sl.MU.Lock()
	defer sl.MU.Unlock()
	if sl.FailRead {
		return nil, fmt.Errorf("simulated read failure")
	}
	data := make([]byte, len(sl.config))
	copy(data, sl.config)
	return data, nil
}

func (sl *SimLink) WriteZoneConfig(_ context.Context, data []byte) error {
	sl.MU.Lock()
	defer sl.MU.Unlock()
	if sl.FailWrite {
		return fmt.Errorf("simulated write failure")
	}
	sl.config = make([]byte, len(data))
	copy(sl.config, data)
	return nil
}

// Emit queues one raw packet as if the device had notified it.
func (sl *SimLink) Emit(data []byte) {
	sl.notify <- data
}

// EmitSample encodes and queues a typed sample.
func (sl *SimLink) EmitSample(s Zt.Sample) {
	sl.Emit(EncodeSample(s))
}

// Close ends the notification stream, which ends the bridge loop.
func (sl *SimLink) Close() {
	close(sl.notify)
}

// ReaderLink adapts a byte stream of back-to-back 9-byte packets into
// a DeviceLink, for feeding captured or relayed sensor data through
// stdin or a pipe. Calibration transfers are not available over a
// one-way stream, those calls report as much.
type ReaderLink struct {
	notify chan []byte
}

func NewReaderLink(r io.Reader) *ReaderLink {
	rl := &ReaderLink{notify: make(chan []byte, 100)}

	go func() {
		defer close(rl.notify)
		for {
			packet := make([]byte, Zt.SamplePacketSize)
			if _, err := io.ReadFull(r, packet); err != nil {
				if err != io.EOF {
					slog.Error("Packet stream read failed", slog.Any("Error", err))
				}
				return
			}
			rl.notify <- packet
		}
	}()

	return rl
}

func (rl *ReaderLink) Notifications() <-chan []byte {
	return rl.notify
}

func (rl *ReaderLink) ReadZoneConfig(_ context.Context) ([]byte, error) {
	return nil, fmt.Errorf("calibration read not supported on a one-way stream")
}

func (rl *ReaderLink) WriteZoneConfig(_ context.Context, _ []byte) error {
	return fmt.Errorf("calibration write not supported on a one-way stream")
}
