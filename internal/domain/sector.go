package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Sector is a clockwise arc of the compass used as a direction filter.
// The arc runs clockwise from From to To, both inclusive. When From > To the
// arc crosses north: Sector{270, 90} is the upper half circle and
// Sector{90, 270} the lower.
type Sector struct {
	From int
	To   int
}

// Named sectors for the common quadrant and half-circle configurations.
var (
	North180 = Sector{From: 270, To: 90}
	South180 = Sector{From: 90, To: 270}
	East180  = Sector{From: 0, To: 180}
	West180  = Sector{From: 180, To: 0}
	North90  = Sector{From: 315, To: 45}
	East90   = Sector{From: 45, To: 135}
	South90  = Sector{From: 135, To: 225}
	West90   = Sector{From: 225, To: 315}
)

// Test reports whether the bearing falls inside the sector. The angle is
// normalized modulo 360 first, so callers may pass values outside [0,360).
func (s Sector) Test(angle int) bool {
	angle = ((angle % 360) + 360) % 360
	if s.From <= s.To {
		return s.From <= angle && angle <= s.To
	}
	return s.From <= angle || angle <= s.To
}

func (s Sector) String() string {
	return fmt.Sprintf("%d-%d", s.From, s.To)
}

// ParseSector parses a "from-to" degree pair, e.g. "135-225".
func ParseSector(value string) (Sector, error) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return Sector{}, fmt.Errorf("parse sector %q: want \"from-to\"", value)
	}
	from, err := parseBearing(parts[0])
	if err != nil {
		return Sector{}, fmt.Errorf("parse sector %q: %w", value, err)
	}
	to, err := parseBearing(parts[1])
	if err != nil {
		return Sector{}, fmt.Errorf("parse sector %q: %w", value, err)
	}
	return Sector{From: from, To: to}, nil
}

func parseBearing(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= 360 {
		return 0, fmt.Errorf("bearing %d out of range [0,360)", v)
	}
	return v, nil
}
