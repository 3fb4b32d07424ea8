// Package config turns the key/value settings table into typed values,
// falling back to built-in defaults for missing or malformed keys.
package config

import (
	"strconv"
	"time"

	"github.com/sadopc/chronomark/internal/geometry"
)

// Setting keys stored in the settings table.
const (
	KeyPixelsPerMinute  = "pixels_per_minute"
	KeyMinBlockHeight   = "min_block_height"
	KeyDragThreshold    = "drag_threshold"
	KeyTickInterval     = "tick_interval"
	KeyRowMinutes       = "row_minutes"
	KeyAnalysisEndpoint = "analysis_endpoint"
	KeyAnalysisModel    = "analysis_model"
)

// APIKeyEnv names the environment variable holding the analysis API key.
// Secrets are never written to the settings table.
const APIKeyEnv = "CHRONOMARK_API_KEY"

const (
	DefaultPixelsPerMinute  = 1.5
	DefaultMinBlockHeight   = 20.0
	DefaultDragThreshold    = 10.0
	DefaultTickInterval     = 60 * time.Second
	DefaultRowMinutes       = 15
	DefaultAnalysisEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultAnalysisModel    = "gpt-4o-mini"
)

type Config struct {
	PixelsPerMinute float64
	MinBlockHeight  float64
	// DragThreshold is the pointer travel, in pixels, below which a drag
	// counts as a stray click.
	DragThreshold float64
	TickInterval  time.Duration
	// RowMinutes is how much of the day one terminal row of the timeline covers.
	RowMinutes int

	AnalysisEndpoint string
	AnalysisModel    string
	APIKey           string
}

// SettingsReader is the part of the store config needs.
type SettingsReader interface {
	GetSetting(key string) (string, error)
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		PixelsPerMinute:  DefaultPixelsPerMinute,
		MinBlockHeight:   DefaultMinBlockHeight,
		DragThreshold:    DefaultDragThreshold,
		TickInterval:     DefaultTickInterval,
		RowMinutes:       DefaultRowMinutes,
		AnalysisEndpoint: DefaultAnalysisEndpoint,
		AnalysisModel:    DefaultAnalysisModel,
	}
}

// Load reads every known key from r. Unreadable or out-of-range values keep
// their defaults; Load never fails.
func Load(r SettingsReader, getenv func(string) string) Config {
	cfg := Defaults()

	cfg.PixelsPerMinute = positiveFloat(r, KeyPixelsPerMinute, cfg.PixelsPerMinute)
	cfg.MinBlockHeight = positiveFloat(r, KeyMinBlockHeight, cfg.MinBlockHeight)
	cfg.DragThreshold = positiveFloat(r, KeyDragThreshold, cfg.DragThreshold)
	if secs := positiveInt(r, KeyTickInterval, 0); secs > 0 {
		cfg.TickInterval = time.Duration(secs) * time.Second
	}
	if rm := positiveInt(r, KeyRowMinutes, cfg.RowMinutes); rm <= 60 && 60%rm == 0 {
		cfg.RowMinutes = rm
	}
	if v, err := r.GetSetting(KeyAnalysisEndpoint); err == nil && v != "" {
		cfg.AnalysisEndpoint = v
	}
	if v, err := r.GetSetting(KeyAnalysisModel); err == nil && v != "" {
		cfg.AnalysisModel = v
	}
	if getenv != nil {
		cfg.APIKey = getenv(APIKeyEnv)
	}
	return cfg
}

// Scale returns the timeline geometry described by cfg.
func (c Config) Scale() geometry.Scale {
	return geometry.Scale{
		PixelsPerMinute: c.PixelsPerMinute,
		MinBlockHeight:  c.MinBlockHeight,
	}
}

// RowHeight is the pixel height of one terminal row.
func (c Config) RowHeight() float64 {
	return float64(c.RowMinutes) * c.PixelsPerMinute
}

func positiveFloat(r SettingsReader, key string, fallback float64) float64 {
	v, err := r.GetSetting(key)
	if err != nil {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func positiveInt(r SettingsReader, key string, fallback int) int {
	v, err := r.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
