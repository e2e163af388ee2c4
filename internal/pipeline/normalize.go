package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/moshmaster/internal/ffmpeg"
	"github.com/backmassage/moshmaster/internal/probe"
)

// normalizedClip is the Normalizing stage's per-clip artifact: the
// canonical intermediate file plus its probed structure.
type normalizedClip struct {
	Source      string
	Path        string
	Fingerprint probe.Fingerprint
	Frames      []probe.FrameRecord
}

// normalizeAll converts every input clip to the canonical intermediate,
// at most cfg.Jobs at a time. The first failure cancels in-flight work
// and is returned as a NormalizationError; results keep input order
// regardless of completion order.
func (r *Runner) normalizeAll(ctx context.Context, ws *Workspace, prof ffmpeg.Profile) ([]*normalizedClip, error) {
	clips := make([]*normalizedClip, len(r.cfg.Inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Jobs)

	for i, input := range r.cfg.Inputs {
		i, input := i, input
		last := i == len(r.cfg.Inputs)-1
		g.Go(func() error {
			clip, err := r.normalizeOne(gctx, ws, input, prof, last)
			if err != nil {
				return err
			}
			clips[i] = clip
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clips, nil
}

// normalizeOne runs one clip through the canonical encode, then probes
// the artifact for its fingerprint and frame records.
func (r *Runner) normalizeOne(ctx context.Context, ws *Workspace, input string, prof ffmpeg.Profile, last bool) (*normalizedClip, error) {
	dir, err := ws.TaskDir()
	if err != nil {
		return nil, &NormalizationError{Clip: input, Msg: err.Error(), Err: err}
	}
	out := filepath.Join(dir, "normalized.avi")

	spec := ffmpeg.NormalizeSpec{
		Input:   input,
		Output:  out,
		Profile: prof,
	}
	// The smear hold belongs to the clip boundary, so the final clip
	// never gets one.
	if !last {
		spec.HoldSec = r.cfg.HoldSec
	}

	r.log.Debug("normalize %s -> %s", input, out)
	res := ffmpeg.Execute(ctx, ffmpeg.BuildNormalize(spec, r.cfg.Verbose), r.cfg.Verbose)
	if res.Err != nil {
		msg := "encode failed"
		if ffmpeg.MatchUnreadableSource(res.Stderr) {
			msg = "source is not decodable video"
		}
		return nil, &NormalizationError{Clip: input, Msg: msg, Stderr: res.Stderr, Err: res.Err}
	}
	// ffmpeg clamps an oversized keyframe interval with a warning and a
	// zero exit; that silently reintroduces keyframes, so it is fatal.
	if ffmpeg.MatchGOPRejection(res.Stderr) {
		return nil, &NormalizationError{
			Clip:   input,
			Msg:    fmt.Sprintf("encoder rejected keyframe interval %d", prof.GOP),
			Stderr: res.Stderr,
		}
	}

	pr, err := probe.Probe(ctx, out)
	if err != nil {
		return nil, &NormalizationError{Clip: input, Msg: "probe of normalized artifact failed", Err: err}
	}
	if pr.PrimaryVideo == nil {
		return nil, &NormalizationError{Clip: input, Msg: "normalized artifact has no video stream"}
	}

	frames, err := probe.Frames(ctx, out)
	if err != nil {
		return nil, &NormalizationError{Clip: input, Msg: "frame scan of normalized artifact failed", Err: err}
	}
	if len(frames) == 0 {
		return nil, &NormalizationError{Clip: input, Msg: "no decodable frames"}
	}

	return &normalizedClip{
		Source:      input,
		Path:        out,
		Fingerprint: pr.Fingerprint(),
		Frames:      frames,
	}, nil
}
