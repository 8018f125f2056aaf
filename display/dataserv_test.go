package zonetone_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	Zd "github.com/maroda/zonetone/display"
	Zs "github.com/maroda/zonetone/server"
	Zt "github.com/maroda/zonetone/types"
)

// fakeConfigurator stands in for the MIDI output's live config.
type fakeConfigurator struct {
	cfg Zt.MidiConfig
}

func (f *fakeConfigurator) ConfigSnapshot() Zt.MidiConfig { return f.cfg }
func (f *fakeConfigurator) SetConfig(cfg Zt.MidiConfig)   { f.cfg = cfg }

func makeTestView(t *testing.T) (*Zd.View, *fakeConfigurator) {
	t.Helper()
	bridge, err := Zs.NewBridge(Zs.NewSimLink(), Zs.DefaultZoneMap(), Zs.DefaultAlpha)
	if err != nil {
		t.Fatal(err)
	}
	fc := &fakeConfigurator{cfg: Zs.DefaultMidiConfig()}
	return Zd.NewView(bridge, fc), fc
}

func TestVersionHandler(t *testing.T) {
	view, _ := makeTestView(t)
	srv := httptest.NewServer(view.SetupMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["version"] != Zd.Version {
		t.Errorf("version = %q, want %q", body["version"], Zd.Version)
	}
}

func TestSamplesHandler(t *testing.T) {
	view, _ := makeTestView(t)
	view.RecordSample(Zt.ProcessedSample{Timestamp: 10, Zone: 2, Raw: 4100, Normalized: 0.3})

	srv := httptest.NewServer(view.SetupMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/samples")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var samples []Zt.ProcessedSample
	if err := json.NewDecoder(resp.Body).Decode(&samples); err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want the 1 recorded", len(samples))
	}
	if samples[0].Zone != 2 {
		t.Errorf("zone = %d, want 2", samples[0].Zone)
	}
}

func TestZonesHandlers(t *testing.T) {
	t.Run("GET returns the full calibration", func(t *testing.T) {
		view, _ := makeTestView(t)
		srv := httptest.NewServer(view.SetupMux())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/zones")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		var cals []Zt.ZoneCalibration
		if err := json.NewDecoder(resp.Body).Decode(&cals); err != nil {
			t.Fatal(err)
		}
		if len(cals) != Zt.NumZones {
			t.Fatalf("got %d zones, want %d", len(cals), Zt.NumZones)
		}
	})

	t.Run("PUT with a full set is accepted", func(t *testing.T) {
		view, _ := makeTestView(t)
		srv := httptest.NewServer(view.SetupMux())
		defer srv.Close()

		cals := Zs.DefaultCalibrations()
		cals[0].CompThreshHi = 9000
		body, _ := json.Marshal(cals[:])

		resp := doPut(t, srv.URL+"/api/zones", body)
		if resp.StatusCode != http.StatusAccepted {
			t.Errorf("status = %d, want 202", resp.StatusCode)
		}
	})

	t.Run("PUT with the wrong zone count is rejected", func(t *testing.T) {
		view, _ := makeTestView(t)
		srv := httptest.NewServer(view.SetupMux())
		defer srv.Close()

		body, _ := json.Marshal([]Zt.ZoneCalibration{{Enabled: true}})
		resp := doPut(t, srv.URL+"/api/zones", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("PUT with garbage is rejected", func(t *testing.T) {
		view, _ := makeTestView(t)
		srv := httptest.NewServer(view.SetupMux())
		defer srv.Close()

		resp := doPut(t, srv.URL+"/api/zones", []byte("{oops"))
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("POST refresh queues a device read", func(t *testing.T) {
		view, _ := makeTestView(t)
		srv := httptest.NewServer(view.SetupMux())
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/api/zones/refresh", "application/json", nil)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusAccepted {
			t.Errorf("status = %d, want 202", resp.StatusCode)
		}
	})
}

func TestMidiConfigHandlers(t *testing.T) {
	t.Run("GET returns the live config", func(t *testing.T) {
		view, _ := makeTestView(t)
		srv := httptest.NewServer(view.SetupMux())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/midi")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		var cfg Zt.MidiConfig
		if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
			t.Fatal(err)
		}
		if cfg.Method != Zt.MethodControlChange {
			t.Errorf("method = %q, want the default %q", cfg.Method, Zt.MethodControlChange)
		}
	})

	t.Run("PUT swaps the live config", func(t *testing.T) {
		view, fc := makeTestView(t)
		srv := httptest.NewServer(view.SetupMux())
		defer srv.Close()

		newCfg := Zs.DefaultMidiConfig()
		newCfg.Method = Zt.MethodNotes
		newCfg.Note.Scale = Zt.ScaleBlues
		body, _ := json.Marshal(newCfg)

		resp := doPut(t, srv.URL+"/api/midi", body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if fc.cfg.Method != Zt.MethodNotes || fc.cfg.Note.Scale != Zt.ScaleBlues {
			t.Errorf("configurator holds %+v, want the PUT payload", fc.cfg)
		}
	})

	t.Run("No MIDI output means 404", func(t *testing.T) {
		bridge, err := Zs.NewBridge(Zs.NewSimLink(), Zs.DefaultZoneMap(), Zs.DefaultAlpha)
		if err != nil {
			t.Fatal(err)
		}
		view := Zd.NewView(bridge, nil)
		srv := httptest.NewServer(view.SetupMux())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/midi")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestRecordSample(t *testing.T) {
	t.Run("Keeps only the newest per zone", func(t *testing.T) {
		view, _ := makeTestView(t)
		view.RecordSample(Zt.ProcessedSample{Timestamp: 1, Zone: 0, Raw: 10})
		view.RecordSample(Zt.ProcessedSample{Timestamp: 2, Zone: 0, Raw: 20})

		samples := view.SnapshotSamples()
		if len(samples) != 1 {
			t.Fatalf("got %d samples, want 1", len(samples))
		}
		if samples[0].Timestamp != 2 {
			t.Errorf("kept timestamp %d, want the newer 2", samples[0].Timestamp)
		}
	})

	t.Run("Drops zones off the sensor", func(t *testing.T) {
		view, _ := makeTestView(t)
		view.RecordSample(Zt.ProcessedSample{Zone: -1})
		view.RecordSample(Zt.ProcessedSample{Zone: Zt.NumZones})

		if got := len(view.SnapshotSamples()); got != 0 {
			t.Errorf("snapshot holds %d samples, want 0", got)
		}
	})
}

func TestStatsMiddleware(t *testing.T) {
	view, _ := makeTestView(t)
	srv := httptest.NewServer(view.SetupMux())
	defer srv.Close()

	if _, err := http.Get(srv.URL + "/api/version"); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("zonetone_http_requests_total")) {
		t.Error("metrics output is missing the request counter")
	}
}

// Helpers //

func doPut(t *testing.T, url string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
