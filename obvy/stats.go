package zonetone

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsInternal is the internal prometheus registry for the bridge:
// pipeline throughput, decode failures, MIDI traffic, and API usage.
type StatsInternal struct {
	Registry *prometheus.Registry

	SamplesProcessed prometheus.Counter
	DecodeErrors     prometheus.Counter
	MIDIEvents       prometheus.Counter
	MIDIErrors       prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
}

func NewStatsInternal() *StatsInternal {
	reg := prometheus.NewRegistry()

	s := &StatsInternal{
		Registry: reg,
		SamplesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zonetone_samples_processed_total",
			Help: "Sensor packets decoded and run through the pipeline",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zonetone_decode_errors_total",
			Help: "Malformed sensor packets skipped",
		}),
		MIDIEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zonetone_midi_events_total",
			Help: "MIDI messages handed to the output",
		}),
		MIDIErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zonetone_midi_errors_total",
			Help: "MIDI sends that failed and were dropped",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zonetone_http_requests_total",
			Help: "API requests by path",
		}, []string{"path"}),
	}

	reg.MustRegister(
		s.SamplesProcessed,
		s.DecodeErrors,
		s.MIDIEvents,
		s.MIDIErrors,
		s.HTTPRequests,
	)

	return s
}

// Handler serves the registry for the /metrics endpoint.
func (s *StatsInternal) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})
}
