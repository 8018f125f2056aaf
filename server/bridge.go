package zonetone

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	Zo "github.com/maroda/zonetone/obvy"
	Zt "github.com/maroda/zonetone/types"
)

// DefaultAlpha is the smoothing coefficient for the per-zone baseline.
// It tracks slow drift in the sensor while leaving gestures visible.
const DefaultAlpha = 0.001

// DeviceLink is the connection boundary to the sensor hardware.
// Discovery and connection establishment live behind it; the bridge
// only sees the notification stream and the calibration characteristic.
type DeviceLink interface {
	// Notifications yields one raw sample packet per message.
	// The channel closing is the signal that the device is gone.
	Notifications() <-chan []byte
	// ReadZoneConfig returns the full calibration transfer.
	ReadZoneConfig(ctx context.Context) ([]byte, error)
	// WriteZoneConfig sends the full calibration transfer,
	// write-with-acknowledgement.
	WriteZoneConfig(ctx context.Context, data []byte) error
}

// SampleOutput is where the bridge delivers each processed sample,
// typically a MIDI adapter from the plugin package.
type SampleOutput interface {
	WriteSample(s Zt.ProcessedSample) error
	Flush() error
	Close() error
	Type() string
}

// Bridge owns the device connection and runs the per-packet pipeline:
// decode, remap, normalize, translate, fan out. A single Run loop
// serializes all device I/O, so sample processing never interleaves
// with calibration transfers.
type Bridge struct {
	MU   sync.RWMutex
	Link DeviceLink

	// Output receives every processed sample. Send failures are
	// logged and skipped, a dropped MIDI event never halts the loop.
	Output SampleOutput

	// Samples fans processed samples out to the presentation side.
	// Nil means no presentation consumer is attached.
	Samples chan Zt.ProcessedSample

	// Stats counts pipeline traffic when a registry is attached.
	Stats *Zo.StatsInternal

	zoneMap  []int
	averages [Zt.NumZones]*ExponentialAverage
	calib    [Zt.NumZones]Zt.ZoneCalibration

	configWrites chan [Zt.NumZones]Zt.ZoneCalibration
	configReads  chan struct{}
}

// NewBridge wires a bridge to a device link. The zone map must already
// be validated (ParseZoneMap or DefaultZoneMap).
func NewBridge(link DeviceLink, zoneMap []int, alpha float64) (*Bridge, error) {
	b := &Bridge{
		Link:         link,
		zoneMap:      zoneMap,
		calib:        DefaultCalibrations(),
		configWrites: make(chan [Zt.NumZones]Zt.ZoneCalibration, 10),
		configReads:  make(chan struct{}, 10),
	}
	for i := range b.averages {
		ea, err := NewExponentialAverage(alpha)
		if err != nil {
			return nil, err
		}
		b.averages[i] = ea
	}
	return b, nil
}

// Calibrations returns a copy of the last-known-good device calibration.
func (b *Bridge) Calibrations() [Zt.NumZones]Zt.ZoneCalibration {
	b.MU.RLock()
	defer b.MU.RUnlock()
	return b.calib
}

// RequestCalibrationWrite queues a wholesale calibration replacement
// for the Run loop to push to the device.
func (b *Bridge) RequestCalibrationWrite(cals [Zt.NumZones]Zt.ZoneCalibration) error {
	select {
	case b.configWrites <- cals:
		return nil
	default:
		return fmt.Errorf("calibration write queue is full")
	}
}

// RequestCalibrationRead queues a re-read of the device calibration.
func (b *Bridge) RequestCalibrationRead() error {
	select {
	case b.configReads <- struct{}{}:
		return nil
	default:
		return fmt.Errorf("calibration read queue is full")
	}
}

// Process runs one sample through remap and normalization.
// The baseline only updates when the sample carries a reading, and a
// zone with no baseline yet normalizes to zero.
func (b *Bridge) Process(s Zt.Sample) Zt.ProcessedSample {
	zone := RemapZone(s.Zone, b.zoneMap)

	var raw, normalized float64
	if s.HasValue {
		raw = float64(s.Value)
		b.averages[zone].Update(raw)
		normalized = b.averages[zone].Normalize(raw)
	}

	return Zt.ProcessedSample{
		Timestamp:  s.Timestamp,
		Zone:       zone,
		Raw:        raw,
		Normalized: normalized,
	}
}

// Run is the event loop. It reads the initial calibration, then waits
// on the notification stream and the two calibration request queues,
// reacting to one at a time. It returns when the stream closes or the
// context is canceled.
func (b *Bridge) Run(ctx context.Context) error {
	if err := b.refreshCalibrations(ctx); err != nil {
		slog.Error("Could not read initial calibration", slog.Any("Error", err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case data, ok := <-b.Link.Notifications():
			if !ok {
				slog.Info("Notification stream closed, exiting")
				return nil
			}
			b.handlePacket(ctx, data)

		case cals := <-b.configWrites:
			if err := b.writeCalibrations(ctx, cals); err != nil {
				slog.Error("Could not write calibration", slog.Any("Error", err))
			}

		case <-b.configReads:
			if err := b.refreshCalibrations(ctx); err != nil {
				slog.Error("Could not read calibration", slog.Any("Error", err))
			}
		}
	}
}

// handlePacket runs the full pipeline for one notification.
// A malformed packet is logged and skipped, never fatal.
func (b *Bridge) handlePacket(ctx context.Context, data []byte) {
	sample, err := DecodeSample(data)
	if err != nil {
		slog.Error("Could not decode sample", slog.Any("Error", err))
		if b.Stats != nil {
			b.Stats.DecodeErrors.Inc()
		}
		return
	}

	ps := b.Process(sample)

	if b.Output != nil {
		if err := b.Output.WriteSample(ps); err != nil {
			slog.Error("Output write failed", slog.String("Type", b.Output.Type()), slog.Any("Error", err))
		}
	}

	if b.Samples != nil {
		select {
		case b.Samples <- ps:
		case <-ctx.Done():
		}
	}
}

// refreshCalibrations replaces the host-side calibration copy with a
// fresh device read. On failure the last-known-good copy stays put.
func (b *Bridge) refreshCalibrations(ctx context.Context) error {
	data, err := b.Link.ReadZoneConfig(ctx)
	if err != nil {
		return err
	}

	cals, err := DecodeZoneCalibrations(data, Zt.NumZones)
	if err != nil {
		return err
	}

	b.MU.Lock()
	copy(b.calib[:], cals)
	b.MU.Unlock()

	slog.Info("Calibration read from device", slog.Int("Zones", len(cals)))
	return nil
}

// writeCalibrations pushes a new calibration array to the device and,
// only after the acknowledged write, replaces the host-side copy.
func (b *Bridge) writeCalibrations(ctx context.Context, cals [Zt.NumZones]Zt.ZoneCalibration) error {
	if err := b.Link.WriteZoneConfig(ctx, EncodeZoneCalibrations(cals[:])); err != nil {
		return err
	}

	b.MU.Lock()
	b.calib = cals
	b.MU.Unlock()

	slog.Info("Calibration written to device", slog.Int("Zones", len(cals)))
	return nil
}
