package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbeJSON = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "mpeg4",
      "codec_type": "video",
      "width": 1280,
      "height": 720,
      "pix_fmt": "yuv420p",
      "r_frame_rate": "30000/1001",
      "avg_frame_rate": "30000/1001"
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "channels": 2,
      "sample_rate": "48000",
      "duration": "12.480000"
    }
  ],
  "format": {
    "filename": "clip.avi",
    "nb_streams": 2,
    "format_name": "avi",
    "duration": "12.512500",
    "size": "1048576"
  }
}`

func TestParseJSON(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleProbeJSON))
	require.NoError(t, err)

	require.NotNil(t, pr.PrimaryVideo)
	assert.Equal(t, "mpeg4", pr.PrimaryVideo.Codec)
	assert.Equal(t, 1280, pr.PrimaryVideo.Width)
	assert.Equal(t, 720, pr.PrimaryVideo.Height)
	assert.Equal(t, "yuv420p", pr.PrimaryVideo.PixFmt)

	assert.True(t, pr.HasAudio())
	require.Len(t, pr.AudioStreams, 1)
	assert.Equal(t, 48000, pr.AudioStreams[0].SampleRate)
	assert.InDelta(t, 12.48, pr.AudioStreams[0].Duration, 1e-9)

	assert.Equal(t, "avi", pr.Format.FormatName)
	assert.Equal(t, int64(1048576), pr.Format.Size)
	assert.InDelta(t, 29.97, pr.FPS(), 0.001)
}

func TestParseJSONNoVideo(t *testing.T) {
	pr, err := ParseJSON([]byte(`{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3"}],"format":{}}`))
	require.NoError(t, err)
	assert.Nil(t, pr.PrimaryVideo)
	assert.Equal(t, float64(0), pr.FPS())
	assert.Equal(t, Fingerprint{}, pr.Fingerprint())
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := ParseJSON([]byte("not json"))
	require.Error(t, err)
}

func TestFingerprintEqual(t *testing.T) {
	pr, err := ParseJSON([]byte(sampleProbeJSON))
	require.NoError(t, err)

	a := pr.Fingerprint()
	b := a
	assert.True(t, a.Equal(b))

	b.Width = 640
	assert.False(t, a.Equal(b))
	assert.Equal(t, "mpeg4 1280x720 30000/1001 yuv420p", a.String())
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30000/1001", 29.97002997002997},
		{"25/1", 25},
		{"30", 30},
		{"0/0", 0},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, parseRational(tt.in), 1e-9, "parseRational(%q)", tt.in)
	}
}
