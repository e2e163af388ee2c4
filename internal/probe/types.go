package probe

import "fmt"

// FrameType is the coded picture type reported by ffprobe.
type FrameType string

const (
	FrameI FrameType = "I"
	FrameP FrameType = "P"
	FrameB FrameType = "B"
)

// FrameRecord describes one coded frame of a video stream: its position
// within the stream, coded type, presentation time, and packet size.
// Records are produced by [Frames] and consumed by the selection policy;
// they are never persisted beyond a run.
type FrameRecord struct {
	Index int
	Type  FrameType
	PTS   float64 // presentation time in seconds
	Bytes int64
}

// Keyframe reports whether the frame is a coded keyframe.
func (r FrameRecord) Keyframe() bool { return r.Type == FrameI }

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	NbStreams  int
	FormatName string
	Duration   float64
	Size       int64
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index        int
	Codec        string
	PixFmt       string
	Width        int
	Height       int
	AvgFrameRate string
	RFrameRate   string
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index      int
	Codec      string
	Channels   int
	SampleRate int
	Duration   float64
}

// ProbeResult is the fully parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first video stream (nil if none).
type ProbeResult struct {
	Format       FormatInfo
	PrimaryVideo *VideoStream
	AudioStreams []AudioStream
}

// HasAudio reports whether the file carries at least one audio stream.
func (p *ProbeResult) HasAudio() bool { return len(p.AudioStreams) > 0 }

// FPS returns the primary video stream's average frame rate, or 0 when
// unknown.
func (p *ProbeResult) FPS() float64 {
	if p.PrimaryVideo == nil {
		return 0
	}
	return parseRational(p.PrimaryVideo.AvgFrameRate)
}

// Fingerprint returns the structural identity of the primary video stream.
func (p *ProbeResult) Fingerprint() Fingerprint {
	if p.PrimaryVideo == nil {
		return Fingerprint{}
	}
	v := p.PrimaryVideo
	rate := v.RFrameRate
	if rate == "" {
		rate = v.AvgFrameRate
	}
	return Fingerprint{
		Codec:     v.Codec,
		Width:     v.Width,
		Height:    v.Height,
		FrameRate: rate,
		PixFmt:    v.PixFmt,
	}
}

// Fingerprint is the structural identity of a video stream: the properties
// that must match across clips before packet-level concatenation is valid.
type Fingerprint struct {
	Codec     string
	Width     int
	Height    int
	FrameRate string // rational form, e.g. "30000/1001"
	PixFmt    string
}

// Equal reports whether two fingerprints describe structurally identical
// streams.
func (f Fingerprint) Equal(o Fingerprint) bool { return f == o }

func (f Fingerprint) String() string {
	return fmt.Sprintf("%s %dx%d %s %s", f.Codec, f.Width, f.Height, f.FrameRate, f.PixFmt)
}
