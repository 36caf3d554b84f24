package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservation_String(t *testing.T) {
	loc := time.FixedZone("VLAT", 10*3600)
	obs := Observation{
		Time:      time.Date(2022, 10, 29, 22, 45, 0, 0, loc),
		Direction: 135,
		AvgSpeed:  7.3,
	}
	assert.Equal(t, "22:45 7.3 m/s SE ↖ (135°)", obs.String())
}

func TestObservation_String_NearestCompassPoint(t *testing.T) {
	loc := time.FixedZone("VLAT", 10*3600)
	at := time.Date(2022, 10, 29, 12, 0, 0, 0, loc)

	tests := []struct {
		direction int
		want      string
	}{
		{0, "12:00 5.0 m/s N ↓ (0°)"},
		{40, "12:00 5.0 m/s NE ↙ (40°)"},
		{301, "12:00 5.0 m/s NW ↘ (301°)"},
		{350, "12:00 5.0 m/s N ↓ (350°)"},
	}
	for _, tt := range tests {
		obs := Observation{Time: at, Direction: tt.direction, AvgSpeed: 5.0}
		assert.Equal(t, tt.want, obs.String())
	}
}
