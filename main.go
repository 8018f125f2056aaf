package main

import (
	"context"
	"flag"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	Zd "github.com/maroda/zonetone/display"
	Zo "github.com/maroda/zonetone/obvy"
	Zp "github.com/maroda/zonetone/plugin"
	Zs "github.com/maroda/zonetone/server"
	Zt "github.com/maroda/zonetone/types"
)

// initLogger configures the shared slog logger and calls
// slog.SetDefault so the stdlib log package routes through it too.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

func main() {
	var (
		configFile = flag.String("config", "zonetone_config.json", "app config JSON file")
		mapStr     = flag.String("map", "", "zone permutation, comma-separated (e.g. \"5,6,7,2,1,3,4,0\")")
		headless   = flag.Bool("headless", false, "no terminal view, MIDI output only")
		sim        = flag.Bool("sim", false, "run against a simulated device")
		stream     = flag.Bool("stream", false, "read raw sample packets from stdin")
		listen     = flag.String("listen", ":8090", "data server listen address")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()
	initLogger(*debug)

	// Optional tracing, only when the collector side is configured
	if os.Getenv("ZONETONE_ENABLE_OTEL") != "" {
		shutdown, err := Zo.InitOTelHNY()
		if err != nil {
			slog.Error("Could not configure OTel", slog.Any("Error", err))
		} else {
			defer shutdown()
		}
	}

	appConfig, err := Zs.LoadAppConfigFile(*configFile)
	if err != nil {
		slog.Error("Could not load app config, using defaults", slog.Any("Error", err))
	}

	zoneMap := Zs.DefaultZoneMap()
	if *mapStr != "" {
		zoneMap, err = Zs.ParseZoneMap(*mapStr)
		if err != nil {
			slog.Error("Bad zone map", slog.Any("Error", err))
			os.Exit(1)
		}
	}

	link, simLink := buildLink(*sim, *stream)
	if link == nil {
		slog.Error("No device link: pass -sim, -stream, or configure a transport")
		os.Exit(1)
	}

	bridge, err := Zs.NewBridge(link, zoneMap, Zs.DefaultAlpha)
	if err != nil {
		slog.Error("Could not create bridge", slog.Any("Error", err))
		os.Exit(1)
	}
	bridge.Samples = make(chan Zt.ProcessedSample, 100)

	outputName := Zs.FillEnvVar("ZONETONE_OUTPUT")
	if outputName == "ENOENT" {
		outputName = "midi"
	}
	badgerPath := Zs.FillEnvVar("ZONETONE_BADGER_PATH")
	if badgerPath == "ENOENT" {
		badgerPath = "zonetone_samples"
	}
	output, err := Zp.OutputLookup(outputName, Zp.Options{
		MIDIPort:   Zs.FillEnvVarInt("ZONETONE_MIDI_PORT", 0),
		MidiConfig: appConfig.Midi,
		BadgerPath: badgerPath,
		BatchSize:  Zs.FillEnvVarInt("ZONETONE_BADGER_BATCH", 50),
	})
	var midiCfg Zd.MidiConfigurator
	if err != nil {
		slog.Error("Could not create output, continuing without one",
			slog.String("Output", outputName), slog.Any("Error", err))
	} else {
		bridge.Output = output
		defer output.Close()
		if mo, ok := output.(*Zp.MIDIOutput); ok {
			midiCfg = mo
		}
	}

	view := Zd.NewView(bridge, midiCfg)
	bridge.Stats = view.Stats
	if mo, ok := midiCfg.(*Zp.MIDIOutput); ok {
		mo.Stats = view.Stats
	}
	view.NewDrainSupervisor()
	view.Supervisor.Start()
	defer view.Supervisor.Stop()

	// Data server: /metrics, /ws, /api
	server := view.StartDataServ(*listen)
	go func() {
		slog.Info("Starting Zonetone data server", slog.String("Addr", *listen))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Could not start data server", slog.Any("Error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if simLink != nil {
		go runSimDevice(ctx, simLink)
	}

	bridgeDone := make(chan error, 1)
	go func() {
		bridgeDone <- bridge.Run(ctx)
	}()

	if *headless {
		slog.Info("Running in headless mode (MIDI output only)")
		if err := <-bridgeDone; err != nil && err != context.Canceled {
			slog.Error("Bridge exited", slog.Any("Error", err))
		}
		return
	}

	terminal, err := Zd.NewTerminal(view)
	if err != nil {
		slog.Error("Could not start terminal view", slog.Any("Error", err))
		os.Exit(1)
	}
	terminal.Run()
}

// buildLink picks the transport. The BLE connection itself lives
// outside this program; what arrives here is either the simulator or
// a relayed packet stream on stdin.
func buildLink(sim, stream bool) (Zs.DeviceLink, *Zs.SimLink) {
	if sim {
		sl := Zs.NewSimLink()
		return sl, sl
	}
	if stream {
		return Zs.NewReaderLink(os.Stdin), nil
	}
	return nil, nil
}

// runSimDevice emits a slow breathing pattern across all zones so the
// pipeline, MIDI output, and meters have something to chew on.
func runSimDevice(ctx context.Context, link *Zs.SimLink) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	zone := 0
	for {
		select {
		case <-ctx.Done():
			link.Close()
			return
		case <-ticker.C:
			elapsed := time.Since(start)
			phase := elapsed.Seconds() + float64(zone)*0.7
			value := int32(50000 + 20000*math.Sin(phase))
			link.EmitSample(Zt.Sample{
				Timestamp: int32(elapsed.Milliseconds()),
				Zone:      zone,
				Value:     value,
				HasValue:  true,
			})
			zone = (zone + 1) % Zt.NumZones
		}
	}
}
