package zonetone

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	Zt "github.com/maroda/zonetone/types"
)

// AppConfig is the host-side persisted configuration: the MIDI
// translation parameters plus presentation preferences. It round-trips
// through JSON on disk; the device's own calibration never lives here.
type AppConfig struct {
	Midi    Zt.MidiConfig `json:"midi"`
	PlotRaw bool          `json:"plotRaw"`
}

// DefaultMidiConfig matches the values the hardware ships tuned for.
func DefaultMidiConfig() Zt.MidiConfig {
	return Zt.MidiConfig{
		Method: Zt.MethodControlChange,
		ControlChange: Zt.ControlChangeConfig{
			BaseControlNumber: 41,
			ControlSlope:      20.0,
		},
		Note: Zt.NoteConfig{
			BaseNote:      60, // Middle C
			Threshold:     0.1,
			VelocitySlope: 100.0,
			Scale:         Zt.ScaleChromatic,
		},
	}
}

func DefaultAppConfig() AppConfig {
	return AppConfig{Midi: DefaultMidiConfig()}
}

// LoadAppConfigFile pulls a given filename config off local disk.
// Validation is performed on the file before decoding. A missing file
// is not an error: the defaults come back instead.
func LoadAppConfigFile(filename string) (AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("No app config file found, using defaults", slog.String("File", filename))
			return DefaultAppConfig(), nil
		}
		return DefaultAppConfig(), err
	}
	defer file.Close()

	if err := validateLoad(file); err != nil {
		slog.Error("Validation failed", slog.Any("Error", err))
		return DefaultAppConfig(), err
	}

	var config AppConfig
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		slog.Error("Could not decode config file", slog.Any("Error", err))
		return DefaultAppConfig(), err
	}

	slog.Info("App config loaded", slog.String("File", filename))
	return config, nil
}

func validateLoad(file *os.File) error {
	info, err := file.Stat()
	if err != nil {
		slog.Error("could not stat file")
		return err
	}

	if info.Size() == 0 {
		slog.Error("file is empty")
		return errors.New("file is empty")
	}

	return nil
}

// SaveAppConfigFile writes the config as indented JSON.
func SaveAppConfigFile(filename string, config AppConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return err
	}
	slog.Info("App config saved", slog.String("File", filename))
	return nil
}
