package pipeline

import (
	"context"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/moshmaster/internal/config"
	"github.com/backmassage/moshmaster/internal/ffmpeg"
	"github.com/backmassage/moshmaster/internal/logging"
	"github.com/backmassage/moshmaster/internal/policy"
	"github.com/backmassage/moshmaster/internal/probe"
)

// Stage identifies where in the run's lifecycle the pipeline is.
type Stage int

const (
	StageValidating Stage = iota
	StageNormalizing
	StageComposing
	StageFinalizing
	StageDone
	StageAborted
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StageNormalizing:
		return "normalizing"
	case StageComposing:
		return "composing"
	case StageFinalizing:
		return "finalizing"
	case StageDone:
		return "done"
	case StageAborted:
		return "aborted"
	}
	return "unknown"
}

// Runner drives one run through the stage sequence. Stages run strictly
// in order; parallelism exists only inside the Normalizing stage. The
// first error aborts the run.
type Runner struct {
	cfg *config.Config
	log *logging.Logger

	stage Stage
}

// New returns a Runner for the given configuration.
func New(cfg *config.Config, log *logging.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Stage returns the stage the last Run reached.
func (r *Runner) Stage() Stage { return r.stage }

// Run executes the full pipeline. On any error the returned stats are
// partial, the stage is Aborted, and no file exists at the output path
// that was not there before.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	start := time.Now()
	var stats RunStats

	r.stage = StageValidating
	r.log.Stage("validating %d input(s)", len(r.cfg.Inputs))

	seed, rng, err := r.validate()
	if err != nil {
		r.stage = StageAborted
		return stats, err
	}
	stats.Seed = seed
	stats.Clips = len(r.cfg.Inputs)

	ws, err := NewWorkspace(r.cfg.KeepTemp)
	if err != nil {
		r.stage = StageAborted
		return stats, &ValidationError{Msg: "workspace", Err: err}
	}
	defer ws.Cleanup(r.log)

	r.stage = StageNormalizing
	r.log.Stage("normalizing %d clip(s), %d at a time", len(r.cfg.Inputs), r.cfg.Jobs)

	prof, fps, err := r.baselineProfile(ctx)
	if err != nil {
		r.stage = StageAborted
		return stats, err
	}
	r.log.Info("canonical profile: %dx%d @ %s, q=%d, gop=%d",
		prof.Width, prof.Height, prof.Rate, prof.Quality, prof.GOP)

	clips, err := r.normalizeAll(ctx, ws, prof)
	if err != nil {
		r.stage = StageAborted
		return stats, err
	}

	// Verdicts are decided per clip before any composition work so a
	// policy failure costs nothing downstream. Clip order fixes the
	// random draw order, which is what makes a seed reproducible.
	verdicts := make([][]policy.Verdict, len(clips))
	for i, c := range clips {
		v, err := policy.Decide(c.Frames, policy.Options{
			Position: i,
			Drop:     r.cfg.DropPolicy,
			Postcut:  r.cfg.Postcut,
			Rand:     rng,
		})
		if err != nil {
			r.stage = StageAborted
			return stats, err
		}
		verdicts[i] = v
	}

	r.stage = StageComposing
	r.log.Stage("composing")

	comp, err := r.compose(ctx, ws, clips, verdicts, fps, prof)
	if err != nil {
		r.stage = StageAborted
		return stats, err
	}
	stats.FramesTotal = comp.FramesTotal
	stats.FramesKept = comp.FramesKept
	stats.FramesDropped = len(comp.DropIndices)
	stats.KeyframesDropped = comp.DroppedKeys
	stats.OutputDuration = comp.KeptDuration
	r.log.Info("dropped %d frames (%d keyframes destroyed) of %d",
		stats.FramesDropped, stats.KeyframesDropped, stats.FramesTotal)

	r.stage = StageFinalizing
	r.log.Stage("finalizing %s", r.cfg.Output)

	if err := r.finalize(ctx, ws, comp); err != nil {
		r.stage = StageAborted
		return stats, err
	}

	stats.OutputPath = r.cfg.Output
	if fi, err := os.Stat(r.cfg.Output); err == nil {
		stats.OutputBytes = fi.Size()
	}
	stats.Elapsed = time.Since(start)

	r.stage = StageDone
	r.log.Success("wrote %s (%d frames, %.2fs)", r.cfg.Output, stats.FramesKept, stats.OutputDuration)
	return stats, nil
}

// validate resolves directory inputs, checks every path is readable, and
// fixes the run's random source. A zero seed derives one from the clock
// and logs it so the run can be reproduced.
func (r *Runner) validate() (int64, *rand.Rand, error) {
	inputs, err := ExpandInputs(r.cfg.Inputs)
	if err != nil {
		return 0, nil, &ValidationError{Msg: "inputs", Err: err}
	}
	r.cfg.Inputs = inputs

	for _, in := range inputs {
		fi, err := os.Stat(in)
		if err != nil {
			return 0, nil, &ValidationError{Msg: "input not readable: " + in, Err: err}
		}
		if fi.IsDir() {
			return 0, nil, &ValidationError{Msg: "nested directory input: " + in}
		}
	}

	if err := checkOutputDir(r.cfg.Output); err != nil {
		return 0, nil, err
	}

	seed := r.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.log.Info("postcut seed: %d", seed)
	return seed, rand.New(rand.NewSource(seed)), nil
}

// baselineProfile probes the anchor clip and derives the canonical
// intermediate profile, applying any width/rate overrides. A width
// override rescales the height to preserve aspect; both dimensions are
// forced even for 4:2:0 chroma.
func (r *Runner) baselineProfile(ctx context.Context) (ffmpeg.Profile, float64, error) {
	anchor := r.cfg.Inputs[0]
	pr, err := probe.Probe(ctx, anchor)
	if err != nil {
		return ffmpeg.Profile{}, 0, &NormalizationError{Clip: anchor, Msg: "probe failed", Err: err}
	}
	if pr.PrimaryVideo == nil {
		return ffmpeg.Profile{}, 0, &NormalizationError{Clip: anchor, Msg: "anchor has no video stream"}
	}

	w := pr.PrimaryVideo.Width
	h := pr.PrimaryVideo.Height
	if r.cfg.Width > 0 && w > 0 {
		h = int(math.Round(float64(h) * float64(r.cfg.Width) / float64(w)))
		w = r.cfg.Width
	}
	w = even(w)
	h = even(h)
	if w < 2 || h < 2 {
		return ffmpeg.Profile{}, 0, &NormalizationError{Clip: anchor, Msg: "anchor dimensions unusable"}
	}

	rate := r.cfg.FPS
	fps := pr.FPS()
	if rate == "" {
		if fps <= 0 {
			return ffmpeg.Profile{}, 0, &NormalizationError{Clip: anchor, Msg: "anchor frame rate unknown; pass --fps"}
		}
		rate = ffmpeg.SafeRate(fps)
	} else {
		fps = ffmpeg.RateToFloat(rate)
	}

	prof := ffmpeg.Profile{
		Width:   w,
		Height:  h,
		Rate:    rate,
		PixFmt:  r.cfg.PixFmt,
		Quality: r.cfg.Quality,
		GOP:     r.cfg.GOP,
		UseXvid: ffmpeg.HaveEncoder(ctx, "libxvid"),
	}
	return prof, fps, nil
}

// checkOutputDir verifies the output location before any stage runs:
// the parent directory must exist (or be creatable) and accept writes.
// Catching this up front keeps a doomed run from spending the whole
// normalize/compose budget first.
func checkOutputDir(output string) error {
	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ValidationError{Msg: "output directory not usable: " + dir, Err: err}
	}
	f, err := os.CreateTemp(dir, ".moshmaster-write-*")
	if err != nil {
		return &ValidationError{Msg: "output directory not writable: " + dir, Err: err}
	}
	f.Close()
	os.Remove(f.Name())
	return nil
}

func even(n int) int { return n - n%2 }
