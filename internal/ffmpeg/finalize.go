package ffmpeg

import (
	"strconv"

	"github.com/backmassage/moshmaster/internal/config"
)

// FinalizeSpec describes the transcoded-delivery pass: re-encode the
// moshed intermediate with the requested output codec, re-attaching audio
// per the configured mode.
type FinalizeSpec struct {
	Input  string
	Output string

	Codec  string // delivery encoder, e.g. "libx264"
	CRF    int
	Preset string
	PixFmt string
	GOP    int

	// FastStart adds +faststart for the MP4 container family.
	FastStart bool

	AudioMode config.AudioMode
	AudioFrom string // source file for copy/re-encode modes
}

// BuildFinalize constructs the delivery transcode command. The encode
// keeps the no-B-frame, long-GOP shape so the baked smear is not
// re-anchored mid-stream.
func BuildFinalize(spec FinalizeSpec, verbose bool) []string {
	args := preamble(verbose)
	args = append(args, "-i", spec.Input)

	withAudio := spec.AudioMode != config.AudioNone && spec.AudioFrom != ""
	if withAudio {
		args = append(args, "-i", spec.AudioFrom, "-map", "0:v:0", "-map", "1:a:0")
	} else {
		args = append(args, "-map", "0:v:0", "-an")
	}

	args = append(args,
		"-c:v", spec.Codec,
		"-crf", strconv.Itoa(spec.CRF),
		"-preset", spec.Preset,
		"-g", strconv.Itoa(spec.GOP),
		"-bf", "0",
		"-sc_threshold", "0",
		"-pix_fmt", spec.PixFmt,
	)

	if withAudio {
		switch spec.AudioMode {
		case config.AudioCopy:
			args = append(args, "-c:a", "copy", "-shortest")
		case config.AudioReencode:
			// apad + shortest trims or pads audio to the final video
			// duration.
			args = append(args, "-c:a", "aac", "-b:a", "192k", "-af", "apad", "-shortest")
		}
	}

	if spec.FastStart {
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, spec.Output)
}
