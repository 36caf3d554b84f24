package domain

import (
	"fmt"
	"time"
)

// Observation is one timestamped anemometer sample. Two observations with
// the same Time are considered the same sample regardless of the poll that
// delivered them.
type Observation struct {
	Time      time.Time `json:"time"`
	Direction int       `json:"direction"` // compass bearing, degrees in [0,360)
	AvgSpeed  float64   `json:"avg_speed"` // m/s
}

// compassPoints maps the eight principal bearings to their short name and an
// arrow showing where the wind blows to (a north wind blows southward).
var compassPoints = []struct {
	degrees int
	name    string
	arrow   string
}{
	{0, "N", "↓"},
	{45, "NE", "↙"},
	{90, "E", "←"},
	{135, "SE", "↖"},
	{180, "S", "↑"},
	{225, "SW", "↗"},
	{270, "W", "→"},
	{315, "NW", "↘"},
	{360, "N", "↓"},
}

// String renders the observation for logs and notification messages,
// e.g. "22:45 7.3 m/s SE ↖ (135°)".
func (o Observation) String() string {
	nearest := compassPoints[0]
	for _, p := range compassPoints[1:] {
		if abs(o.Direction-p.degrees) < abs(o.Direction-nearest.degrees) {
			nearest = p
		}
	}
	return fmt.Sprintf("%s %.1f m/s %s %s (%d°)",
		o.Time.Format("15:04"), o.AvgSpeed, nearest.name, nearest.arrow, o.Direction)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
