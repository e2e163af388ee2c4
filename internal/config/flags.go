package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into mosh behavior, intermediate profile, delivery,
// execution, and display. A YAML config file (--config) is applied before
// flags so that flags always win.

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/backmassage/moshmaster/internal/policy"
)

// version is shown in --version and help; override at build time with
// -ldflags "-X .../internal/config.version=...".
var version = "1.0.0-dev"

// ParseFlags parses args (os.Args[1:] in production) into cfg. On --help
// or --version it prints and exits. On error it returns non-nil (unknown
// flag, bad value, missing positional args).
func ParseFlags(cfg *Config, args []string) error {
	if path := findConfigArg(args); path != "" {
		cfg.ConfigFile = path
		if err := ApplyFile(cfg, path); err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet("moshmaster", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var misc miscFlags

	defineMoshFlags(fs, cfg)
	defineProfileFlags(fs, cfg)
	defineDeliveryFlags(fs, cfg)
	defineExecutionFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &misc)
	defineUtilityFlags(fs, &misc)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyMiscFlags(cfg, &misc)

	if misc.showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if misc.showVersion {
		fmt.Fprintln(os.Stdout, "moshmaster v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// miscFlags holds boolean flags applied after Parse: color overrides and
// the exit-after-printing pair.
type miscFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineMoshFlags registers the knobs that shape the artifact itself.
func defineMoshFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&dropPolicyValue{&cfg.DropPolicy}, "drop", "Drop policy: all_after_first | boundaries_only")
	fs.IntVar(&cfg.PostcutFixed, "postcut", cfg.PostcutFixed, "Frames to drop after each destroyed keyframe")
	fs.StringVar(&cfg.PostcutRand, "postcut-rand", "", "Randomize postcut per boundary, format A:B")
	fs.Float64Var(&cfg.HoldSec, "hold-sec", cfg.HoldSec, "Smear hold seconds appended to each clip (except last)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Postcut RNG seed (0 = derive and log)")
}

// defineProfileFlags registers the canonical intermediate profile knobs.
func defineProfileFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.GOP, "gop", cfg.GOP, "Keyframe interval for the intermediate encode")
	fs.IntVar(&cfg.GOP, "g", cfg.GOP, "Same as --gop")
	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "MPEG-4 quantizer 1-31 (higher = blockier)")
	fs.IntVar(&cfg.Quality, "q", cfg.Quality, "Same as --quality")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Target width, height auto (default: anchor clip width)")
	fs.StringVar(&cfg.FPS, "fps", cfg.FPS, "Frame rate override, e.g. 30 or 30000/1001 (default: anchor clip rate)")
}

// defineDeliveryFlags registers output codec and audio handling.
func defineDeliveryFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputCodec, "codec", cfg.OutputCodec, "Delivery video encoder for transcoded output")
	fs.IntVar(&cfg.DeliveryCRF, "crf", cfg.DeliveryCRF, "Delivery CRF for transcoded output")
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "Delivery encoder preset")
	fs.Var(&audioModeValue{&cfg.AudioMode}, "audio", "Audio mode: none | copy | reencode")
	fs.StringVar(&cfg.AudioFrom, "audio-from", cfg.AudioFrom, "Audio source file (default: the anchor clip)")
}

// defineExecutionFlags registers worker pool and workspace flags.
func defineExecutionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Jobs, "jobs", cfg.Jobs, "Parallel clip normalizations")
	fs.IntVar(&cfg.Jobs, "j", cfg.Jobs, "Same as --jobs")
	fs.BoolVar(&cfg.KeepTemp, "keep-temp", false, "Keep the run workspace for debugging")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check,
// --inspect, --log, --config.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, m *miscFlags) {
	fs.BoolVar(&m.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&m.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (tee ffmpeg stderr)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&cfg.InspectOnly, "inspect", false, "Write a per-frame GOP CSV for one input and exit")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file (flags override it)")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, m *miscFlags) {
	fs.BoolVar(&m.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&m.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&m.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&m.showHelp, "h", false, "Same as --help")
}

func applyMiscFlags(cfg *Config, m *miscFlags) {
	if m.noColor {
		cfg.ColorMode = ColorNever
	} else if m.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets Inputs and Output. The last positional is the
// output path, everything before it an input clip in run order. In
// inspect mode the single positional is the input and the CSV path is
// derived from it.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if cfg.InspectOnly {
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("--inspect needs <input> [csv_out]")
		}
		cfg.Inputs = args[:1]
		if len(args) == 2 {
			cfg.Output = args[1]
		}
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("need at least one input and an output path: moshmaster [OPTIONS] <input>... <output>")
	}
	cfg.Inputs = args[:len(args)-1]
	cfg.Output = args[len(args)-1]
	return nil
}

// findConfigArg pre-scans raw args for --config so the file can be
// applied before the real flag parse (flags must override file values).
func findConfigArg(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		}
	}
	return ""
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 30
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "moshmaster v" + version + " - keyframe-destruction datamosh pipeline"},
		{"", ""},
		{"  moshmaster [OPTIONS] <input>... <output>", ""},
		{"", ""},
		{"Mosh", ""},
		{"  --drop <policy>", "all_after_first (default) or boundaries_only"},
		{"  --postcut <n>", "Frames dropped after each destroyed keyframe (default: 8)"},
		{"  --postcut-rand <A:B>", "Randomize postcut per boundary (overrides --postcut)"},
		{"  --hold-sec <sec>", "Smear hold cloned onto each clip except the last"},
		{"  --seed <n>", "Postcut RNG seed for reproducible runs"},
		{"", ""},
		{"Intermediate profile", ""},
		{"  -g, --gop <n>", "Keyframe interval (default: 600)"},
		{"  -q, --quality <1-31>", "MPEG-4 quantizer, higher = blockier (default: 10)"},
		{"  --width <px>", "Target width, height auto (default: anchor width)"},
		{"  --fps <rate>", "Constant frame rate override (default: anchor rate)"},
		{"", ""},
		{"Delivery", ""},
		{"  --codec <name>", "Transcode encoder (default: libx264)"},
		{"  --crf <n>", "Transcode quality (default: 20)"},
		{"  --preset <name>", "Transcode preset (default: medium)"},
		{"  --audio <mode>", "none (default), copy, or reencode"},
		{"  --audio-from <path>", "Audio source file (default: anchor clip)"},
		{"", ""},
		{"Execution", ""},
		{"  -j, --jobs <n>", "Parallel clip normalizations"},
		{"  --keep-temp", "Keep the run workspace for debugging"},
		{"  --config <path>", "YAML config file (flags override it)"},
		{"", ""},
		{"Display & utility", ""},
		{"  --color / --no-color", "Force / disable colored logs"},
		{"  -v, --verbose", "Verbose output (tee ffmpeg stderr)"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, encoders)"},
		{"  --inspect", "Write per-frame GOP CSV for one input and exit"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so enum types work with flag.Var.

type dropPolicyValue struct{ p *policy.DropPolicy }

func (d *dropPolicyValue) String() string {
	if d.p == nil {
		return ""
	}
	return string(*d.p)
}

func (d *dropPolicyValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "all_after_first":
		*d.p = policy.DropAllAfterFirst
	case "boundaries_only":
		*d.p = policy.DropBoundariesOnly
	default:
		return fmt.Errorf("invalid drop policy %q (use 'all_after_first' or 'boundaries_only')", s)
	}
	return nil
}

type audioModeValue struct{ p *AudioMode }

func (a *audioModeValue) String() string {
	if a.p == nil {
		return ""
	}
	return string(*a.p)
}

func (a *audioModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "none":
		*a.p = AudioNone
	case "copy":
		*a.p = AudioCopy
	case "reencode", "re-encode":
		*a.p = AudioReencode
	default:
		return fmt.Errorf("invalid audio mode %q (use 'none', 'copy' or 'reencode')", s)
	}
	return nil
}
