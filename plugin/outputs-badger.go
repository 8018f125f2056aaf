package plugin

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	Zt "github.com/maroda/zonetone/types"
)

// SampleRecord is what BadgerOutput persists: the processed sample
// plus its host-side ingest time. The device timestamp wraps on its
// own clock, so range queries key off ingest time instead.
type SampleRecord struct {
	Ingest time.Time
	Sample Zt.ProcessedSample
}

// BadgerOutput persists processed samples for later inspection,
// batching writes to keep the per-packet hot path cheap.
type BadgerOutput struct {
	MU        sync.Mutex
	DB        *badger.DB
	BatchSize int
	Buffer    []SampleRecord
}

func NewBadgerOutput(path string, batchSize int) (*BadgerOutput, error) {
	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		slog.Error("Could not open sample database", slog.Any("Error", err))
		return nil, fmt.Errorf("database error: %w", err)
	}

	slog.Info("Sample database opened",
		slog.String("Path", path),
		slog.Int("BatchSize", batchSize))

	return &BadgerOutput{
		DB:        db,
		BatchSize: batchSize,
		Buffer:    make([]SampleRecord, 0, batchSize),
	}, nil
}

// WriteSample stamps the sample with ingest time and buffers it.
// A full buffer flushes inline, so the hot path pays the write cost
// once per batch rather than once per packet.
func (bo *BadgerOutput) WriteSample(s Zt.ProcessedSample) error {
	bo.MU.Lock()
	defer bo.MU.Unlock()

	bo.Buffer = append(bo.Buffer, SampleRecord{Ingest: time.Now(), Sample: s})
	if len(bo.Buffer) >= bo.BatchSize {
		return bo.flushLocked()
	}
	return nil
}

// WriteBatch stamps and stores a slice of samples in one transaction.
func (bo *BadgerOutput) WriteBatch(samples []Zt.ProcessedSample) error {
	records := make([]SampleRecord, 0, len(samples))
	now := time.Now()
	for _, s := range samples {
		records = append(records, SampleRecord{Ingest: now, Sample: s})
	}
	return bo.WriteBatchRecords(records)
}

// WriteBatchRecords keys, encodes, and commits one batch.
func (bo *BadgerOutput) WriteBatchRecords(records []SampleRecord) error {
	wb := bo.DB.NewWriteBatch()
	defer wb.Cancel()

	for i := range records {
		k := SampleKey(&records[i])
		v := SampleEncode(&records[i])
		if err := wb.Set(k, v); err != nil {
			slog.Error("Could not set sample key in batch",
				slog.Any("Error", err),
				slog.Int("Zone", records[i].Sample.Zone))
			return fmt.Errorf("write batch error: %w", err)
		}
	}

	if err := wb.Flush(); err != nil {
		slog.Error("Could not flush sample batch", slog.Any("Error", err))
		return fmt.Errorf("batch flush error: %w", err)
	}

	return nil
}

// Flush commits whatever the buffer holds.
func (bo *BadgerOutput) Flush() error {
	bo.MU.Lock()
	defer bo.MU.Unlock()

	if len(bo.Buffer) == 0 {
		return nil
	}
	return bo.flushLocked()
}

// flushLocked commits and clears the buffer, caller holds the lock.
func (bo *BadgerOutput) flushLocked() error {
	err := bo.WriteBatchRecords(bo.Buffer)
	bo.Buffer = bo.Buffer[:0] // keep capacity
	return err
}

// Close flushes the buffer, then closes the database either way.
func (bo *BadgerOutput) Close() error {
	slog.Info("Closing sample database", slog.Int("Buffered", len(bo.Buffer)))
	flushErr := bo.Flush()
	closeErr := bo.DB.Close()

	if flushErr != nil {
		return fmt.Errorf("flush failed, close may have failed: %v", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close failed: %v", closeErr)
	}
	return nil
}

func (bo *BadgerOutput) Type() string { return "BadgerDB" }

// SampleKey creates a composite key: ingest time + logical zone.
// Using positive BigEndian integers so keys sort chronologically
// inside BadgerDB.
func SampleKey(r *SampleRecord) []byte {
	key := make([]byte, 8+1)
	binary.BigEndian.PutUint64(key[0:8], uint64(r.Ingest.UnixNano()))
	key[8] = byte(r.Sample.Zone)
	return key
}

// SampleEncode serializes the sample record for data storage
func SampleEncode(r *SampleRecord) []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	enc.Encode(r)
	return buf.Bytes()
}

// SampleDecode deserializes the sample record data
func SampleDecode(data []byte) (*SampleRecord, error) {
	var r SampleRecord
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	err := dec.Decode(&r)
	return &r, err
}

// QueryRange retrieves samples ingested within a time range,
// flushing first so the query sees everything written so far.
func (bo *BadgerOutput) QueryRange(start, end time.Time) ([]Zt.ProcessedSample, error) {
	if err := bo.Flush(); err != nil {
		return nil, err
	}

	var samples []Zt.ProcessedSample

	// keys sort by ingest time, so a forward iteration walks the
	// log chronologically
	err := bo.DB.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				r, err := SampleDecode(val)
				if err != nil {
					return fmt.Errorf("sample decode error: %w", err)
				}
				if r.Ingest.After(start) && r.Ingest.Before(end) {
					samples = append(samples, r.Sample)
				}
				return nil
			})
			if err != nil {
				slog.Error("Could not read stored sample", slog.Any("Error", err))
				return fmt.Errorf("item data error: %w", err)
			}
		}
		return nil
	})

	slog.Debug("Sample range query finished", slog.Int("Count", len(samples)))

	return samples, err
}
