package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRate(t *testing.T) {
	tests := []struct {
		name string
		fps  float64
		want string
	}{
		{"ntsc film", 23.976, "24000/1001"},
		{"ntsc film measured", 23.98, "24000/1001"},
		{"ntsc", 29.97, "30000/1001"},
		{"ntsc rational", 29.97002997002997, "30000/1001"},
		{"ntsc double", 59.94, "60000/1001"},
		{"ntsc double measured", 59.95, "60000/1001"},
		{"pal", 25.0, "25"},
		{"integer 24 not snapped", 24.0, "24"},
		{"integer 30", 30.0, "30"},
		{"integer 60 not snapped", 60.0, "60"},
		{"near 30 rounds", 30.02, "30"},
		{"high", 120.0, "120"},
		{"degenerate", 0.2, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeRate(tt.fps))
		})
	}
}

func TestRateToFloat(t *testing.T) {
	assert.InDelta(t, 29.97003, RateToFloat("30000/1001"), 0.0001)
	assert.InDelta(t, 25, RateToFloat("25"), 1e-9)
	assert.InDelta(t, 23.976, RateToFloat("23.976"), 1e-9)
	assert.Equal(t, float64(0), RateToFloat("x/y"))
	assert.Equal(t, float64(0), RateToFloat("30/0"))
	assert.Equal(t, float64(0), RateToFloat(""))
}

func TestSafeRateRoundTrips(t *testing.T) {
	for _, fps := range []float64{23.976, 29.97, 59.94, 24, 25, 30, 60} {
		assert.InDelta(t, fps, RateToFloat(SafeRate(fps)), 0.01, "fps %g", fps)
	}
}
