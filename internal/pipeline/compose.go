package pipeline

import (
	"context"
	"os"

	"github.com/backmassage/moshmaster/internal/ffmpeg"
	"github.com/backmassage/moshmaster/internal/policy"
)

// composition carries the Composing stage's outputs forward: the moshed
// intermediate plus the frame accounting the finalizer and stats need.
type composition struct {
	Path         string // moshed intermediate (canonical profile)
	FramesTotal  int
	FramesKept   int
	DroppedKeys  int // destroyed keyframes, excluding postcut collateral
	DropIndices  []int
	KeptDuration float64 // seconds, kept frames at the canonical rate
}

// planComposition maps per-clip drop indices onto the combined stream by
// offsetting each clip's verdicts with the frame count of everything
// before it. Under boundaries_only it also pins a coded keyframe where
// each surviving clip head lands after selection, so boundary GOP
// placement is deterministic instead of whatever cadence the encoder
// felt like.
func planComposition(clips []*normalizedClip, verdicts [][]policy.Verdict, drop policy.DropPolicy, fps float64) (*composition, []float64) {
	comp := &composition{}
	offset := 0
	keptBefore := 0
	var forceKF []float64
	for i, c := range clips {
		for _, idx := range policy.Dropped(verdicts[i]) {
			comp.DropIndices = append(comp.DropIndices, offset+idx)
		}
		for _, rec := range c.Frames {
			if rec.Keyframe() && !verdicts[i][rec.Index].Keep {
				comp.DroppedKeys++
			}
		}
		if drop == policy.DropBoundariesOnly && fps > 0 {
			forceKF = append(forceKF, float64(keptBefore)/fps)
		}
		offset += len(c.Frames)
		keptBefore += policy.KeptCount(verdicts[i])
	}
	comp.FramesTotal = offset
	comp.FramesKept = keptBefore
	if fps > 0 {
		comp.KeptDuration = float64(keptBefore) / fps
	}
	return comp, forceKF
}

// compose concatenates the normalized clips packet-for-packet, then
// applies the per-clip verdicts in a single re-encode over the combined
// stream. Doing the selection after concatenation is what preserves the
// single-keyframe invariant: a per-clip filter pass would hand the
// encoder a fresh stream start and it would re-insert a keyframe at
// every clip head.
func (r *Runner) compose(ctx context.Context, ws *Workspace, clips []*normalizedClip, verdicts [][]policy.Verdict, fps float64, prof ffmpeg.Profile) (*composition, error) {
	base := clips[0].Fingerprint
	for _, c := range clips[1:] {
		if !c.Fingerprint.Equal(base) {
			return nil, &CompositionError{
				Msg: "normalized clips diverge: " + c.Source + " is " +
					c.Fingerprint.String() + ", expected " + base.String(),
			}
		}
	}

	listFile := ws.Path("concat.txt")
	paths := make([]string, len(clips))
	for i, c := range clips {
		paths[i] = c.Path
	}
	if err := os.WriteFile(listFile, []byte(ffmpeg.ConcatListing(paths)), 0o644); err != nil {
		return nil, &CompositionError{Msg: "write concat list", Err: err}
	}

	combined := ws.Path("combined.avi")
	r.log.Debug("concat %d clips -> %s", len(clips), combined)
	res := ffmpeg.Execute(ctx, ffmpeg.BuildConcat(listFile, combined, r.cfg.Verbose), r.cfg.Verbose)
	if res.Err != nil {
		return nil, &CompositionError{Msg: "concat demuxer failed", Stderr: res.Stderr, Err: res.Err}
	}

	comp, forceKF := planComposition(clips, verdicts, r.cfg.DropPolicy, fps)
	comp.Path = ws.Path("moshed.avi")

	spec := ffmpeg.SelectSpec{
		Input:          combined,
		Output:         comp.Path,
		Profile:        prof,
		DropIndices:    comp.DropIndices,
		ForceKeyframes: forceKF,
	}
	r.log.Debug("select pass dropping %d of %d frames", len(comp.DropIndices), comp.FramesTotal)
	res = ffmpeg.Execute(ctx, ffmpeg.BuildSelect(spec, r.cfg.Verbose), r.cfg.Verbose)
	if res.Err != nil {
		return nil, &CompositionError{Msg: "selection re-encode failed", Stderr: res.Stderr, Err: res.Err}
	}
	if ffmpeg.MatchGOPRejection(res.Stderr) {
		return nil, &CompositionError{Msg: "encoder rejected keyframe interval during selection", Stderr: res.Stderr}
	}

	return comp, nil
}
