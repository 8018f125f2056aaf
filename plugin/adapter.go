package plugin

/*

	The Adapter sits aside /zonetone/
	Contains core interfaces for Plugin

*/

import (
	"time"

	Zt "github.com/maroda/zonetone/types"
)

// Output is the minimum contract for a downstream sample consumer.
// The bridge drives one of these per processed sample.
type Output interface {
	WriteSample(s Zt.ProcessedSample) error // Write singleton sample data
	Flush() error                           // Flush any buffered data
	Close() error                           // Close the adapter and release resources
	Type() string                           // ID for output
}

// OutputAdapter extends Output with batching and history for adapters
// backed by storage (e.g. BadgerDB).
type OutputAdapter interface {
	Output
	WriteBatch(samples []Zt.ProcessedSample) error                 // Write batches of samples
	QueryRange(start, end time.Time) ([]Zt.ProcessedSample, error) // Time range query tool
}
