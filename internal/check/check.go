// Package check provides system diagnostics (--check mode) and
// pre-pipeline dependency validation (CheckDeps) for ffmpeg, ffprobe,
// the MPEG-4 intermediate encoders, and the delivery encoders.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/backmassage/moshmaster/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder
// is missing.
var (
	ErrFfmpegNotFound   = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound  = errors.New("ffprobe not found on PATH")
	ErrMPEG4Unavailable = errors.New("neither libxvid nor mpeg4 test encode succeeded")
	ErrDeliveryEncoder  = errors.New("delivery encoder test encode failed")
	ErrAACUnavailable   = errors.New("audio re-encode requested but AAC test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of
// ffmpeg, ffprobe, the MPEG-4 intermediate encoders, the configured
// delivery encoder, and AAC. Informational only; it does not stop on
// failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkFfmpeg(log)
	checkFfprobe(log)
	checkIntermediateEncoders(log)
	checkDeliveryEncoder(cfg.OutputCodec, log)
	checkAAC(log)
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return
	}
	cmd := exec.Command("ffmpeg", "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
}

// checkFfprobe verifies ffprobe is on PATH.
func checkFfprobe(log Logger) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		log.Error("ffprobe not found")
		return
	}
	log.Success("ffprobe found")
}

// checkIntermediateEncoders probes for the MPEG-4 ASP encoders the
// canonical intermediate relies on. libxvid is preferred, plain mpeg4
// with an XVID tag is the fallback; at least one must work.
func checkIntermediateEncoders(log Logger) {
	log.Info("Testing intermediate encoders...")
	if runSilent("ffmpeg", encodeTestArgs("libxvid")...) {
		log.Success("libxvid works (preferred)")
	} else {
		log.Warn("libxvid unavailable, falling back to mpeg4")
	}
	if runSilent("ffmpeg", encodeTestArgs("mpeg4")...) {
		log.Success("mpeg4 works")
	} else {
		log.Error("mpeg4 test encode failed")
	}
}

// checkDeliveryEncoder runs a minimal encode with the configured
// delivery codec.
func checkDeliveryEncoder(codec string, log Logger) {
	log.Info("Testing delivery encoder %s...", codec)
	if runSilent("ffmpeg", encodeTestArgs(codec)...) {
		log.Success("%s works", codec)
	} else {
		log.Error("%s test encode failed", codec)
	}
}

// checkAAC runs a minimal AAC encode to verify the audio encoder works.
func checkAAC(log Logger) {
	log.Info("Testing AAC encoder...")
	if runSilent("ffmpeg",
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
	}
}

// CheckDeps is the pre-pipeline validation: ffmpeg and ffprobe must be
// on PATH, at least one MPEG-4 intermediate encoder must pass a short
// test encode, and for transcoded delivery the configured codec must
// too. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}

	if !runSilent("ffmpeg", encodeTestArgs("libxvid")...) &&
		!runSilent("ffmpeg", encodeTestArgs("mpeg4")...) {
		return ErrMPEG4Unavailable
	}

	if !cfg.RawDelivery() {
		if !runSilent("ffmpeg", encodeTestArgs(cfg.OutputCodec)...) {
			return ErrDeliveryEncoder
		}
	}
	if cfg.AudioMode == config.AudioReencode {
		if !runSilent("ffmpeg",
			"-hide_banner", "-nostdin", "-loglevel", "error",
			"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
			"-c:a", "aac", "-f", "null", "-",
		) {
			return ErrAACUnavailable
		}
	}
	return nil
}

// --- internal helpers ---

// encodeTestArgs returns the ffmpeg arguments for a minimal test encode
// with the given video encoder.
func encodeTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", codec,
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
