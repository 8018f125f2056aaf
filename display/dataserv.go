package zonetone

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	Zo "github.com/maroda/zonetone/obvy"
	Zs "github.com/maroda/zonetone/server"
	Zt "github.com/maroda/zonetone/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// MidiConfigurator is how the presentation side reads and swaps the
// live translation config, satisfied by the plugin MIDI output.
type MidiConfigurator interface {
	ConfigSnapshot() Zt.MidiConfig
	SetConfig(cfg Zt.MidiConfig)
}

// View is the presentation collaborator: it drains the bridge fan-out,
// keeps the latest reading per logical zone, and serves it over HTTP,
// websocket, and the terminal.
type View struct {
	MU         sync.RWMutex
	Bridge     *Zs.Bridge
	MIDI       MidiConfigurator
	Stats      *Zo.StatsInternal
	Supervisor *DrainSupervisor
	server     *http.Server

	latest     [Zt.NumZones]Zt.ProcessedSample
	haveSample [Zt.NumZones]bool
}

func NewView(bridge *Zs.Bridge, midi MidiConfigurator) *View {
	return &View{
		Bridge: bridge,
		MIDI:   midi,
		Stats:  Zo.NewStatsInternal(),
	}
}

// RecordSample keeps the newest reading for its logical zone.
func (v *View) RecordSample(s Zt.ProcessedSample) {
	v.MU.Lock()
	defer v.MU.Unlock()
	if s.Zone < 0 || s.Zone >= Zt.NumZones {
		return
	}
	v.latest[s.Zone] = s
	v.haveSample[s.Zone] = true
}

// SnapshotSamples copies out the latest reading per zone.
func (v *View) SnapshotSamples() []Zt.ProcessedSample {
	v.MU.RLock()
	defer v.MU.RUnlock()

	samples := make([]Zt.ProcessedSample, 0, Zt.NumZones)
	for i := 0; i < Zt.NumZones; i++ {
		if v.haveSample[i] {
			samples = append(samples, v.latest[i])
		}
	}
	return samples
}

// SetupMux handles all data serving:
// - Prometheus metric endpoint
// - Websocket zone stream for UI feedback
// - Version for programmatic use
// - Zone calibration read/write against the live device
// - MIDI translation config read/write
func (v *View) SetupMux() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", v.Stats.Handler())
	r.HandleFunc("/ws", v.WebsocketHandler)
	r.HandleFunc("/api/version", v.VersionHandler).Methods("GET")
	r.HandleFunc("/api/samples", v.SamplesHandler).Methods("GET")
	r.HandleFunc("/api/zones", v.ZonesHandler).Methods("GET")
	r.HandleFunc("/api/zones", v.ZonesUpdateHandler).Methods("PUT")
	r.HandleFunc("/api/zones/refresh", v.ZonesRefreshHandler).Methods("POST")
	r.HandleFunc("/api/midi", v.MidiConfigHandler).Methods("GET")
	r.HandleFunc("/api/midi", v.MidiConfigUpdateHandler).Methods("PUT")

	r.Use(v.StatsMiddleware)

	return r
}

// StartDataServ runs the HTTP side on its own listener,
// wrapped for OTel trace propagation.
func (v *View) StartDataServ(addr string) *http.Server {
	v.server = &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(v.SetupMux(), "zonetone-dataserv"),
	}
	return v.server
}

// StatsMiddleware counts every API request by path.
func (v *View) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.Stats.HTTPRequests.WithLabelValues(r.URL.Path).Inc()
		next.ServeHTTP(w, r)
	})
}

var Version = "dev"

func (v *View) VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": Version})
}

// SamplesHandler returns the latest reading for every logical zone.
func (v *View) SamplesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v.SnapshotSamples())
}

// ZonesHandler returns the last-known-good device calibration.
func (v *View) ZonesHandler(w http.ResponseWriter, r *http.Request) {
	cals := v.Bridge.Calibrations()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cals[:])
}

// ZonesUpdateHandler queues a full calibration write to the device.
// The host copy only changes after the device acknowledges.
func (v *View) ZonesUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var incoming []Zt.ZoneCalibration
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		http.Error(w, "invalid calibration payload", http.StatusBadRequest)
		return
	}
	if len(incoming) != Zt.NumZones {
		http.Error(w, "invalid calibration payload: wrong zone count", http.StatusBadRequest)
		return
	}

	var cals [Zt.NumZones]Zt.ZoneCalibration
	copy(cals[:], incoming)

	if err := v.Bridge.RequestCalibrationWrite(cals); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ZonesRefreshHandler queues a calibration re-read from the device.
func (v *View) ZonesRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := v.Bridge.RequestCalibrationRead(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// MidiConfigHandler returns the live translation config.
func (v *View) MidiConfigHandler(w http.ResponseWriter, r *http.Request) {
	if v.MIDI == nil {
		http.Error(w, "no MIDI output configured", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v.MIDI.ConfigSnapshot())
}

// MidiConfigUpdateHandler swaps the live translation config.
func (v *View) MidiConfigUpdateHandler(w http.ResponseWriter, r *http.Request) {
	if v.MIDI == nil {
		http.Error(w, "no MIDI output configured", http.StatusNotFound)
		return
	}

	var cfg Zt.MidiConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid MIDI config payload", http.StatusBadRequest)
		return
	}

	v.MIDI.SetConfig(cfg)
	w.WriteHeader(http.StatusOK)
}
