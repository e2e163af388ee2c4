package ffmpeg

import (
	"fmt"
	"math"
	"strconv"
)

// SafeRate converts a measured frame rate into an ffmpeg rate string,
// snapping the common NTSC rates to their exact rational forms so CFR
// output does not drift against the source. An exact integer rate is
// never an NTSC approximation; snapping a true 24 or 60 fps source to
// the /1001 form would retime it.
func SafeRate(fps float64) string {
	if fps == math.Trunc(fps) {
		r := int(fps)
		if r < 1 {
			r = 1
		}
		return strconv.Itoa(r)
	}
	switch {
	case math.Abs(fps-23.976) < 0.02:
		return "24000/1001"
	case math.Abs(fps-29.97) < 0.02:
		return "30000/1001"
	case math.Abs(fps-59.94) < 0.03:
		return "60000/1001"
	}
	r := int(math.Round(fps))
	if r < 1 {
		r = 1
	}
	return strconv.Itoa(r)
}

// RateToFloat parses an ffmpeg rate string ("30", "30000/1001") back to
// frames per second. Returns 0 when the string is unparseable.
func RateToFloat(rate string) float64 {
	if n, err := strconv.ParseFloat(rate, 64); err == nil {
		return n
	}
	var num, den float64
	if _, err := fmt.Sscanf(rate, "%g/%g", &num, &den); err == nil && den != 0 {
		return num / den
	}
	return 0
}
