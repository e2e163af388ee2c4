package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomyAs(t *testing.T) {
	base := errors.New("exit status 1")

	var ve *ValidationError
	err := fmt.Errorf("run: %w", &ValidationError{Msg: "no inputs"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "no inputs")

	var ne *NormalizationError
	err = fmt.Errorf("run: %w", &NormalizationError{Clip: "b.mp4", Msg: "encode failed", Stderr: "boom", Err: base})
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "b.mp4", ne.Clip)
	assert.ErrorIs(t, err, base)

	var ce *CompositionError
	require.ErrorAs(t, &CompositionError{Msg: "mismatch"}, &ce)

	var fe *FinalizationError
	require.ErrorAs(t, &FinalizationError{Msg: "bad extension", Err: base}, &fe)
	assert.ErrorIs(t, fe, base)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation: no inputs",
		(&ValidationError{Msg: "no inputs"}).Error())
	assert.Equal(t, "normalize clip.mp4: encode failed",
		(&NormalizationError{Clip: "clip.mp4", Msg: "encode failed"}).Error())
	assert.Equal(t, "compose: fingerprint mismatch",
		(&CompositionError{Msg: "fingerprint mismatch"}).Error())
	assert.Equal(t, "finalize: encode failed",
		(&FinalizationError{Msg: "encode failed"}).Error())
}

func TestAudioMismatchError(t *testing.T) {
	err := &AudioMismatchError{AudioSec: 12.5, VideoSec: 9.9}
	assert.Contains(t, err.Error(), "12.50")
	assert.Contains(t, err.Error(), "9.90")
	assert.Contains(t, err.Error(), "reencode")
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageValidating, "validating"},
		{StageNormalizing, "normalizing"},
		{StageComposing, "composing"},
		{StageFinalizing, "finalizing"},
		{StageDone, "done"},
		{StageAborted, "aborted"},
		{Stage(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.stage.String())
	}
}
