package policy

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Postcut specifies how many additional frames are dropped immediately
// after each destroyed keyframe. Either a fixed count, or a per-boundary
// draw from the inclusive range [Min, Max].
type Postcut struct {
	Fixed  int
	Min    int
	Max    int
	Random bool
}

// FixedPostcut returns a fixed-count postcut.
func FixedPostcut(n int) Postcut { return Postcut{Fixed: n} }

// ParsePostcutRange parses the "A:B" form into a randomized Postcut.
// A and B must be non-negative integers with B >= A.
func ParsePostcutRange(s string) (Postcut, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return Postcut{}, &PolicyError{Reason: fmt.Sprintf("invalid postcut range %q, expected A:B", s)}
	}
	lo, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Postcut{}, &PolicyError{Reason: fmt.Sprintf("invalid postcut range %q: bad lower bound", s)}
	}
	hi, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return Postcut{}, &PolicyError{Reason: fmt.Sprintf("invalid postcut range %q: bad upper bound", s)}
	}
	if lo < 0 || hi < lo {
		return Postcut{}, &PolicyError{Reason: fmt.Sprintf("invalid postcut range %q: need 0 <= A <= B", s)}
	}
	return Postcut{Min: lo, Max: hi, Random: true}, nil
}

// Validate checks the postcut values without drawing.
func (p Postcut) Validate() error {
	if p.Random {
		if p.Min < 0 || p.Max < p.Min {
			return &PolicyError{Reason: fmt.Sprintf("invalid postcut range %d:%d", p.Min, p.Max)}
		}
		return nil
	}
	if p.Fixed < 0 {
		return &PolicyError{Reason: fmt.Sprintf("postcut must be non-negative, got %d", p.Fixed)}
	}
	return nil
}

func (p Postcut) String() string {
	if p.Random {
		return fmt.Sprintf("%d:%d", p.Min, p.Max)
	}
	return strconv.Itoa(p.Fixed)
}

// draw returns the drop count for one boundary. Random draws come from
// the supplied source only, never from process-global state.
func (p Postcut) draw(rng *rand.Rand) int {
	if !p.Random {
		return max(0, p.Fixed)
	}
	return p.Min + rng.Intn(p.Max-p.Min+1)
}
