// Package policy implements the frame-selection policy: a pure decision
// function mapping a clip's frame records and ordinal position to keep/drop
// verdicts. The cross-clip invariant lives here: across the whole
// concatenation exactly one coded keyframe survives (the anchor clip's
// first frame), unless boundaries_only additionally retains one keyframe
// per clip boundary.
package policy

import (
	"math/rand"

	"github.com/backmassage/moshmaster/internal/probe"
)

// DropPolicy selects which keyframes are destroyed.
type DropPolicy string

const (
	// DropAllAfterFirst drops every keyframe except the anchor clip's
	// first frame. Strongest smear: secondary clips decode against
	// whatever reference state carries over the cut.
	DropAllAfterFirst DropPolicy = "all_after_first"

	// DropBoundariesOnly keeps the first frame of every clip and drops
	// all other keyframes. Each cut re-anchors once, interior GOPs bleed.
	DropBoundariesOnly DropPolicy = "boundaries_only"
)

// Verdict is the policy's decision for a single frame.
type Verdict struct {
	Index int
	Keep  bool
}

// Options configure a Decide call for one clip.
type Options struct {
	Position int // ordinal position in the run; 0 is the anchor clip
	Drop     DropPolicy
	Postcut  Postcut
	Rand     *rand.Rand // required when Postcut.Random
}

// PolicyError reports input the selection policy cannot produce verdicts
// for: a clip too short to mosh, or an invalid postcut specification.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return "policy: " + e.Reason }

// Decide produces one verdict per frame record, deterministically for a
// fixed random source. Rules:
//
//   - Anchor clip (position 0): frame 0 is kept unconditionally, every
//     other keyframe is dropped.
//   - Secondary clip under all_after_first: every keyframe is dropped.
//   - Under boundaries_only: frame 0 of every clip is kept, all other
//     keyframes are dropped.
//   - After each dropped keyframe the next K frames are dropped too
//     (postcut), K fixed or drawn once per boundary from the configured
//     range. The window is clamped to the clip's last frame; it never
//     crosses into another clip because verdicts are strictly per clip.
func Decide(records []probe.FrameRecord, opts Options) ([]Verdict, error) {
	if len(records) < 2 {
		return nil, &PolicyError{Reason: "clip has fewer than 2 frames, nothing to drop"}
	}
	if opts.Postcut.Random && opts.Rand == nil {
		return nil, &PolicyError{Reason: "randomized postcut requires an explicit random source"}
	}

	verdicts := make([]Verdict, len(records))
	pending := 0

	for i, r := range records {
		keep := true

		if r.Keyframe() {
			// Keyframe branch takes precedence over a pending postcut
			// window; a dropped keyframe re-arms the window instead of
			// consuming it.
			switch {
			case i == 0 && (opts.Position == 0 || opts.Drop == DropBoundariesOnly):
				keep = true
			default:
				keep = false
				pending = opts.Postcut.draw(opts.Rand)
			}
		} else {
			switch {
			case i == 0 && opts.Position == 0:
				// The anchor's first frame is kept even when it is not a
				// keyframe, so at least one decodable reference exists at
				// stream start.
				keep = true
			case i == 0 && opts.Drop == DropBoundariesOnly:
				keep = true
			case pending > 0:
				pending--
				keep = false
			}
		}

		verdicts[i] = Verdict{Index: i, Keep: keep}
	}

	return verdicts, nil
}

// Dropped returns the indices of all frames with a drop verdict, in order.
func Dropped(verdicts []Verdict) []int {
	var out []int
	for _, v := range verdicts {
		if !v.Keep {
			out = append(out, v.Index)
		}
	}
	return out
}

// KeptCount returns the number of keep verdicts.
func KeptCount(verdicts []Verdict) int {
	n := 0
	for _, v := range verdicts {
		if v.Keep {
			n++
		}
	}
	return n
}
