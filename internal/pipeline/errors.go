package pipeline

import "fmt"

// Typed error taxonomy for the run. Every failure surfaces as exactly one
// of these; none is ever downgraded to a warning. Collaborator stderr is
// attached where available so the caller sees the underlying diagnostic.

// ValidationError reports a bad run configuration, missing or unreadable
// inputs, or an unusable output location. No stage runs after one.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %v", e.Msg, e.Err)
	}
	return "validation: " + e.Msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NormalizationError reports a per-clip decode/encode failure during the
// Normalizing stage. It is fatal for the run; in-flight normalizations of
// other clips are cancelled.
type NormalizationError struct {
	Clip   string
	Msg    string
	Stderr string
	Err    error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.Clip, e.Msg)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// CompositionError reports a structural mismatch between normalized clips
// or a failure of the concatenation/selection passes. A mismatch here
// indicates a normalization-profile bug, since the Normalizing stage is
// supposed to unify all clips.
type CompositionError struct {
	Msg    string
	Stderr string
	Err    error
}

func (e *CompositionError) Error() string { return "compose: " + e.Msg }

func (e *CompositionError) Unwrap() error { return e.Err }

// AudioMismatchError reports that copy-mode audio timing does not match
// the final video duration.
type AudioMismatchError struct {
	AudioSec float64
	VideoSec float64
}

func (e *AudioMismatchError) Error() string {
	return fmt.Sprintf("audio copy: source audio is %.2fs but final video is %.2fs; use audio mode 'reencode'",
		e.AudioSec, e.VideoSec)
}

// FinalizationError reports an unrecognized output extension or a
// delivery encode failure.
type FinalizationError struct {
	Msg    string
	Stderr string
	Err    error
}

func (e *FinalizationError) Error() string { return "finalize: " + e.Msg }

func (e *FinalizationError) Unwrap() error { return e.Err }
