// Package config holds runtime configuration: defaults, the optional YAML
// config file, CLI flag parsing, and validation. A Config is immutable
// once Validate has accepted it; the pipeline only reads it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/backmassage/moshmaster/internal/policy"
)

// --- Enum types for validated string fields ---

// AudioMode controls audio handling during delivery.
type AudioMode string

const (
	AudioNone     AudioMode = "none"     // Drop audio entirely (default).
	AudioCopy     AudioMode = "copy"     // Copy audio from the source; timing must match.
	AudioReencode AudioMode = "reencode" // Re-encode audio, trimmed/padded to video duration.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by a YAML config file, then mutated by [ParseFlags]
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Run inputs (set from positional args).
	Inputs []string // ordered clip paths; position 0 is the anchor
	Output string   // delivery path; extension selects raw vs transcode

	// Canonical intermediate profile.
	GOP     int    // Default: 600. Passed to the encoder verbatim.
	Quality int    // MPEG-4 qscale, default 10. Higher is blockier.
	Width   int    // Target width (height auto). 0 = anchor clip's width.
	FPS     string // Rate override (e.g. "30000/1001"). "" = derive from anchor.
	PixFmt  string // Fixed default: "yuv420p".

	// Delivery settings (transcode path).
	OutputCodec string // Default: "libx264".
	DeliveryCRF int    // Default: 20.
	Preset      string // Default: "medium".

	// Mosh behavior.
	DropPolicy policy.DropPolicy // Default: all_after_first.
	Postcut    policy.Postcut    // Default: fixed 8.
	HoldSec    float64           // Smear hold appended to each non-final clip.
	Seed       int64             // Postcut RNG seed; 0 = derive at run start and log it.

	// Audio.
	AudioMode AudioMode
	AudioFrom string // Audio source path; "" = the anchor clip's source file.

	// Execution.
	Jobs     int  // Normalization pool size. Default: NumCPU, capped at 4.
	KeepTemp bool // Keep the run workspace for debugging.

	// Display and logging.
	Verbose     bool
	ColorMode   ColorMode // Default: "auto".
	LogFile     string    // Optional log file path.
	CheckOnly   bool      // Run --check diagnostics and exit.
	InspectOnly bool      // Write a per-frame GOP CSV for one input and exit.

	// Raw flag captures resolved during parsing.
	PostcutFixed int
	PostcutRand  string
	ConfigFile   string
}

// DefaultConfig returns a Config with the pipeline's defaults.
func DefaultConfig() Config {
	jobs := runtime.NumCPU()
	if jobs > 4 {
		jobs = 4
	}
	return Config{
		GOP:          600,
		Quality:      10,
		PixFmt:       "yuv420p",
		OutputCodec:  "libx264",
		DeliveryCRF:  20,
		Preset:       "medium",
		DropPolicy:   policy.DropAllAfterFirst,
		Postcut:      policy.FixedPostcut(8),
		AudioMode:    AudioNone,
		Jobs:         jobs,
		ColorMode:    ColorAuto,
		PostcutFixed: 8,
	}
}

// RawDelivery reports whether the output extension selects the raw
// (copy, no re-encode) delivery branch.
func (c *Config) RawDelivery() bool {
	return strings.EqualFold(filepath.Ext(c.Output), ".avi")
}

// Validate checks enum fields and numeric ranges, and resolves the
// postcut specification from the raw flag captures. When not in
// CheckOnly/InspectOnly mode it also requires inputs and an output path.
func (c *Config) Validate() error {
	switch c.AudioMode {
	case AudioNone, AudioCopy, AudioReencode:
	default:
		return errors.New("invalid audio mode (use 'none', 'copy' or 'reencode')")
	}

	switch c.DropPolicy {
	case policy.DropAllAfterFirst, policy.DropBoundariesOnly:
	default:
		return errors.New("invalid drop policy (use 'all_after_first' or 'boundaries_only')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.GOP < 1 {
		return fmt.Errorf("GOP must be at least 1, got %d", c.GOP)
	}
	if c.Quality < 1 || c.Quality > 31 {
		return fmt.Errorf("quality must be in 1..31 (MPEG-4 qscale), got %d", c.Quality)
	}
	if c.DeliveryCRF < 0 || c.DeliveryCRF > 51 {
		return fmt.Errorf("crf must be in 0..51, got %d", c.DeliveryCRF)
	}
	if c.HoldSec < 0 {
		return fmt.Errorf("hold seconds must be non-negative, got %g", c.HoldSec)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}

	if c.PostcutRand != "" {
		pc, err := policy.ParsePostcutRange(c.PostcutRand)
		if err != nil {
			return err
		}
		c.Postcut = pc
	} else {
		c.Postcut = policy.FixedPostcut(c.PostcutFixed)
	}
	if err := c.Postcut.Validate(); err != nil {
		return err
	}

	if c.CheckOnly {
		return nil
	}
	if c.InspectOnly {
		if len(c.Inputs) != 1 {
			return errors.New("--inspect takes exactly one input file")
		}
		return nil
	}

	if len(c.Inputs) == 0 || c.Output == "" {
		return errors.New("need at least one input file and an output path")
	}
	if c.RawDelivery() && c.AudioMode != AudioNone {
		return errors.New("raw AVI delivery is video-only; use audio mode 'none' or a transcoded container")
	}
	if c.AudioMode == AudioCopy || c.AudioMode == AudioReencode {
		if c.AudioFrom != "" {
			if _, err := os.Stat(c.AudioFrom); err != nil {
				return fmt.Errorf("audio source not readable: %s", c.AudioFrom)
			}
		}
	}
	return nil
}
