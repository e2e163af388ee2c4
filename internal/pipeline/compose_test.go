package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/moshmaster/internal/policy"
	"github.com/backmassage/moshmaster/internal/probe"
)

// fakeClip builds a normalizedClip with frames from a type pattern.
func fakeClip(name, pattern string) *normalizedClip {
	frames := make([]probe.FrameRecord, len(pattern))
	for i, c := range pattern {
		frames[i] = probe.FrameRecord{Index: i, Type: probe.FrameType(string(c))}
	}
	return &normalizedClip{Source: name, Path: name + ".avi", Frames: frames}
}

func decideAll(t *testing.T, clips []*normalizedClip, drop policy.DropPolicy, postcut int) [][]policy.Verdict {
	t.Helper()
	verdicts := make([][]policy.Verdict, len(clips))
	for i, c := range clips {
		v, err := policy.Decide(c.Frames, policy.Options{
			Position: i,
			Drop:     drop,
			Postcut:  policy.FixedPostcut(postcut),
		})
		require.NoError(t, err)
		verdicts[i] = v
	}
	return verdicts
}

func TestPlanCompositionGlobalOffsets(t *testing.T) {
	// Clip 0: 8 frames, keyframes at 0 (kept) and 4 (dropped).
	// Clip 1: 6 frames, keyframe at 0, global index 8 (dropped).
	clips := []*normalizedClip{
		fakeClip("a", "IPPPIPPP"),
		fakeClip("b", "IPPPPP"),
	}
	verdicts := decideAll(t, clips, policy.DropAllAfterFirst, 0)

	comp, forceKF := planComposition(clips, verdicts, policy.DropAllAfterFirst, 30)

	assert.Equal(t, []int{4, 8}, comp.DropIndices)
	assert.Equal(t, 14, comp.FramesTotal)
	assert.Equal(t, 12, comp.FramesKept)
	assert.Equal(t, 2, comp.DroppedKeys)
	assert.InDelta(t, 12.0/30, comp.KeptDuration, 1e-9)
	assert.Empty(t, forceKF)
}

func TestPlanCompositionPostcutWindows(t *testing.T) {
	clips := []*normalizedClip{
		fakeClip("a", "IPPPIPPPPP"),
		fakeClip("b", "IPPPPPPPPP"),
	}
	verdicts := decideAll(t, clips, policy.DropAllAfterFirst, 2)

	comp, _ := planComposition(clips, verdicts, policy.DropAllAfterFirst, 30)

	// Clip 0 drops 4,5,6; clip 1 drops its head 0,1,2 at global 10,11,12.
	assert.Equal(t, []int{4, 5, 6, 10, 11, 12}, comp.DropIndices)
	assert.Equal(t, 20, comp.FramesTotal)
	assert.Equal(t, 14, comp.FramesKept)
	assert.Equal(t, 2, comp.DroppedKeys)
}

func TestPlanCompositionBoundaryKeyframes(t *testing.T) {
	// Under boundaries_only every clip head survives and gets a pinned
	// keyframe at its post-selection timestamp.
	clips := []*normalizedClip{
		fakeClip("a", "IPPPIPPP"), // keeps 7 of 8 (drops index 4)
		fakeClip("b", "IPPPPPPP"), // keeps all 8
		fakeClip("c", "IPPPIPPP"),
	}
	verdicts := decideAll(t, clips, policy.DropBoundariesOnly, 0)

	comp, forceKF := planComposition(clips, verdicts, policy.DropBoundariesOnly, 30)

	assert.Equal(t, []int{4, 20}, comp.DropIndices)
	require.Len(t, forceKF, 3)
	assert.InDelta(t, 0, forceKF[0], 1e-9)
	assert.InDelta(t, 7.0/30, forceKF[1], 1e-9)
	assert.InDelta(t, 15.0/30, forceKF[2], 1e-9)

	// Timestamps are strictly increasing.
	for i := 1; i < len(forceKF); i++ {
		assert.Greater(t, forceKF[i], forceKF[i-1])
	}
}

func TestPlanCompositionUnknownRate(t *testing.T) {
	clips := []*normalizedClip{fakeClip("a", "IPPP")}
	verdicts := decideAll(t, clips, policy.DropBoundariesOnly, 0)

	comp, forceKF := planComposition(clips, verdicts, policy.DropBoundariesOnly, 0)
	assert.Empty(t, forceKF)
	assert.Equal(t, float64(0), comp.KeptDuration)
}
