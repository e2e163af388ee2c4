package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr output. Unlike a
// library-bound encoder, ffmpeg sometimes clamps an out-of-range keyframe
// interval with only a warning and a zero exit status; the pipeline treats
// that as a rejection because a silently shortened GOP reintroduces
// keyframes the policy was supposed to destroy.
var (
	reGOPRejected = regexp.MustCompile(
		`(?i)keyframe interval too large|` +
			`invalid.*gop|` +
			`-g.*out of range`)

	reEncoderMissing = regexp.MustCompile(
		`Unknown encoder|` +
			`Encoder not found|` +
			`Unrecognized option`)

	reUnreadableSource = regexp.MustCompile(
		`(?i)invalid data found when processing input|` +
			`could not find codec parameters|` +
			`does not contain any stream|` +
			`no such file or directory|` +
			`output file is empty`)
)

// MatchGOPRejection reports whether stderr shows the encoder rejecting or
// clamping the requested keyframe interval.
func MatchGOPRejection(stderr string) bool {
	return reGOPRejected.MatchString(stderr)
}

// MatchEncoderMissing reports whether stderr shows the requested encoder
// is absent from the local ffmpeg build.
func MatchEncoderMissing(stderr string) bool {
	return reEncoderMissing.MatchString(stderr)
}

// MatchUnreadableSource reports whether stderr shows an undecodable or
// frameless input.
func MatchUnreadableSource(stderr string) bool {
	return reUnreadableSource.MatchString(stderr)
}
