package ffmpeg

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// preamble returns the shared argument prefix for every ffmpeg invocation.
func preamble(verbose bool) []string {
	args := []string{"ffmpeg", "-hide_banner", "-nostdin", "-y"}
	if verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}
	return args
}

// Profile is the canonical intermediate encoding profile shared by the
// normalize and compose passes: MPEG-4 ASP, fixed rate and pixel format,
// long GOP, zero B-frames, scene-cut detection disabled.
type Profile struct {
	Width   int
	Height  int
	Rate    string // ffmpeg rational rate string, e.g. "30000/1001"
	PixFmt  string
	Quality int // MPEG-4 qscale; higher is blockier
	GOP     int
	UseXvid bool // libxvid when available, else mpeg4 with an XVID tag
}

// codecArgs returns the video codec section of the profile. The GOP value
// is passed through verbatim; if the encoder rejects or clamps it, the
// executor's stderr classification surfaces that instead of hiding it.
func (p Profile) codecArgs() []string {
	var args []string
	if p.UseXvid {
		args = append(args, "-c:v", "libxvid")
	} else {
		args = append(args, "-c:v", "mpeg4", "-vtag", "XVID")
	}
	return append(args,
		"-qscale:v", strconv.Itoa(p.Quality),
		"-g", strconv.Itoa(p.GOP),
		"-bf", "0",
		"-sc_threshold", "0",
		"-pix_fmt", p.PixFmt,
	)
}

// NormalizeSpec describes one clip-to-canonical-intermediate conversion.
type NormalizeSpec struct {
	Input   string
	Output  string
	Profile Profile

	// HoldSec appends a reference-duplicating tail (tpad clone of the
	// final frame) so the smear extends before the next cut. Zero on the
	// run's final clip.
	HoldSec float64
}

// BuildNormalize constructs the ffmpeg argument slice that maps one input
// clip onto the canonical intermediate: even dimensions, constant frame
// rate, fixed pixel format, long GOP, no B-frames, no audio.
func BuildNormalize(spec NormalizeSpec, verbose bool) []string {
	p := spec.Profile

	vf := fmt.Sprintf("scale=trunc(iw/2)*2:trunc(ih/2)*2,scale=%d:%d,fps=%s", p.Width, p.Height, p.Rate)
	if spec.HoldSec > 0 {
		vf += fmt.Sprintf(",tpad=stop_mode=clone:stop_duration=%g", spec.HoldSec)
	}

	args := preamble(verbose)
	args = append(args, "-i", spec.Input, "-an", "-vf", vf)
	args = append(args, "-r", p.Rate, "-vsync", "cfr")
	args = append(args, p.codecArgs()...)
	return append(args, spec.Output)
}

// BuildConcat constructs the packet-level concatenation command: the
// concat demuxer with stream copy, video only. Valid only between
// structurally identical inputs; the composer verifies that first.
func BuildConcat(listFile, output string, verbose bool) []string {
	args := preamble(verbose)
	return append(args,
		"-f", "concat", "-safe", "0",
		"-i", listFile,
		"-map", "0:v:0", "-c", "copy", "-an",
		output,
	)
}

// ConcatListing renders the concat demuxer's list-file body, escaping
// single quotes the way the demuxer expects.
func ConcatListing(inputs []string) string {
	var b strings.Builder
	for _, p := range inputs {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

// SelectSpec describes the compose pass: one re-encode of the combined
// stream that discards the dropped frames and rewrites presentation
// timestamps to a dense monotonic sequence.
type SelectSpec struct {
	Input   string
	Output  string
	Profile Profile

	// DropIndices are global frame indices (within the combined stream)
	// to discard.
	DropIndices []int

	// ForceKeyframes pins coded keyframes at the given post-filter
	// timestamps, making boundary GOP placement deterministic under
	// boundaries_only. Empty means only the stream start gets one.
	ForceKeyframes []float64
}

// BuildSelect constructs the verdict-application command.
func BuildSelect(spec SelectSpec, verbose bool) []string {
	vf := fmt.Sprintf("select=%s,setpts=N/FRAME_RATE/TB", SelectExpr(spec.DropIndices))

	args := preamble(verbose)
	args = append(args, "-i", spec.Input, "-an", "-vf", vf)
	args = append(args, "-r", spec.Profile.Rate, "-vsync", "cfr")
	args = append(args, spec.Profile.codecArgs()...)
	if len(spec.ForceKeyframes) > 0 {
		args = append(args, "-force_key_frames", keyframeList(spec.ForceKeyframes))
	}
	return append(args, spec.Output)
}

// SelectExpr renders the select-filter expression that rejects the given
// frame indices. Consecutive indices collapse into between() terms so the
// expression stays small for wide postcut windows.
func SelectExpr(drop []int) string {
	if len(drop) == 0 {
		return "'1'"
	}

	sorted := append([]int(nil), drop...)
	sort.Ints(sorted)

	var terms []string
	runStart := sorted[0]
	prev := sorted[0]
	flush := func(end int) {
		if runStart == end {
			terms = append(terms, fmt.Sprintf(`eq(n\,%d)`, runStart))
		} else {
			terms = append(terms, fmt.Sprintf(`between(n\,%d\,%d)`, runStart, end))
		}
	}
	for _, n := range sorted[1:] {
		if n == prev { // duplicates are harmless, skip
			continue
		}
		if n != prev+1 {
			flush(prev)
			runStart = n
		}
		prev = n
	}
	flush(prev)

	return "'not(" + strings.Join(terms, "+") + ")'"
}

func keyframeList(ts []float64) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = strconv.FormatFloat(t, 'f', 6, 64)
	}
	return strings.Join(parts, ",")
}
