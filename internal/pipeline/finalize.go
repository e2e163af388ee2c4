package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/backmassage/moshmaster/internal/config"
	"github.com/backmassage/moshmaster/internal/ffmpeg"
	"github.com/backmassage/moshmaster/internal/probe"
)

// audioTolerance is the maximum drift (seconds) allowed between copied
// audio and the final video before copy mode is refused.
const audioTolerance = 0.5

// finalize turns the moshed intermediate into the delivery file. The
// output extension dispatches: .avi moves the intermediate as-is (the
// corruption stays live), the transcode containers bake it into a clean
// stream. Everything is staged in the workspace and placed at the
// requested path atomically, so a failed run never leaves a partial
// output behind.
func (r *Runner) finalize(ctx context.Context, ws *Workspace, comp *composition) error {
	ext := strings.ToLower(filepath.Ext(r.cfg.Output))

	switch ext {
	case ".avi":
		r.log.Debug("raw delivery: placing intermediate at %s", r.cfg.Output)
		return placeAtomically(comp.Path, r.cfg.Output)
	case ".mp4", ".mov", ".m4v", ".mkv":
	default:
		return &FinalizationError{Msg: fmt.Sprintf("unrecognized output extension %q (use .avi, .mp4, .mov, .m4v or .mkv)", ext)}
	}

	audioFrom := ""
	if r.cfg.AudioMode != config.AudioNone {
		audioFrom = r.cfg.AudioFrom
		if audioFrom == "" {
			audioFrom = r.cfg.Inputs[0]
		}
		if err := r.checkAudioSource(ctx, audioFrom, comp.KeptDuration); err != nil {
			return err
		}
	}

	staged := ws.Path("delivery" + ext)
	spec := ffmpeg.FinalizeSpec{
		Input:     comp.Path,
		Output:    staged,
		Codec:     r.cfg.OutputCodec,
		CRF:       r.cfg.DeliveryCRF,
		Preset:    r.cfg.Preset,
		PixFmt:    r.cfg.PixFmt,
		GOP:       r.cfg.GOP,
		FastStart: ext == ".mp4" || ext == ".mov" || ext == ".m4v",
		AudioMode: r.cfg.AudioMode,
		AudioFrom: audioFrom,
	}

	res := ffmpeg.Execute(ctx, ffmpeg.BuildFinalize(spec, r.cfg.Verbose), r.cfg.Verbose)
	if res.Err != nil {
		msg := "delivery encode failed"
		if ffmpeg.MatchEncoderMissing(res.Stderr) {
			msg = fmt.Sprintf("encoder %q not available in this ffmpeg build", r.cfg.OutputCodec)
		}
		return &FinalizationError{Msg: msg, Stderr: res.Stderr, Err: res.Err}
	}

	return placeAtomically(staged, r.cfg.Output)
}

// checkAudioSource verifies copy-mode preconditions: the source must
// carry an audio stream, and in copy mode its duration must line up with
// the final video within tolerance. Re-encode mode pads or trims, so it
// only needs the stream to exist.
func (r *Runner) checkAudioSource(ctx context.Context, path string, videoSec float64) error {
	pr, err := probe.Probe(ctx, path)
	if err != nil {
		return &FinalizationError{Msg: "probe audio source " + path, Err: err}
	}
	if !pr.HasAudio() {
		return &FinalizationError{Msg: "audio source has no audio stream: " + path}
	}

	if r.cfg.AudioMode != config.AudioCopy {
		return nil
	}
	audioSec := pr.AudioStreams[0].Duration
	if audioSec == 0 {
		audioSec = pr.Format.Duration
	}
	if diff := audioSec - videoSec; diff > audioTolerance || diff < -audioTolerance {
		return &AudioMismatchError{AudioSec: audioSec, VideoSec: videoSec}
	}
	return nil
}

// placeAtomically copies src to dst via a same-directory temp file and
// rename, so dst is either absent or complete.
func placeAtomically(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &FinalizationError{Msg: "create output directory", Err: err}
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return &FinalizationError{Msg: "open staged delivery", Err: err}
	}
	defer in.Close()

	pending, err := renameio.NewPendingFile(dst, renameio.WithPermissions(0o644))
	if err != nil {
		return &FinalizationError{Msg: "stage output file", Err: err}
	}
	defer pending.Cleanup()

	if _, err := io.Copy(pending, in); err != nil {
		return &FinalizationError{Msg: "write output file", Err: err}
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return &FinalizationError{Msg: "place output file", Err: err}
	}
	return nil
}
