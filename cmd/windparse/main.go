// Command windparse fetches the station page once and replays its history,
// oldest first, through a fresh wind tracker, printing each step. It is a
// diagnostic for checking the parser against the live page and for eyeballing
// how threshold and step settings behave on real data.
//
// Usage:
//
//	go run ./cmd/windparse -url http://3volna.ru/anemometer/getwind?id=1 \
//	  -speed 5.0 -sector 45-135 -candidate-steps 2 -cooldown-steps 2
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/telewind/telewind/internal/anemometer"
	"github.com/telewind/telewind/internal/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	url := flag.String("url", "http://3volna.ru/anemometer/getwind?id=1", "station page to fetch")
	speed := flag.Float64("speed", 5.0, "average speed threshold, m/s")
	sectorFlag := flag.String("sector", "45-135", "target sector as from-to degrees")
	candidateSteps := flag.Uint("candidate-steps", 2, "matching samples required to confirm")
	cooldownSteps := flag.Uint("cooldown-steps", 2, "non-matching samples required to reset")
	tzOffset := flag.Int("tz-offset", 10, "station UTC offset, hours")
	flag.Parse()

	sector, err := domain.ParseSector(*sectorFlag)
	if err != nil {
		return err
	}

	loc := time.FixedZone(fmt.Sprintf("UTC%+d", *tzOffset), *tzOffset*3600)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := anemometer.NewClient(*url, 30*time.Second, loc, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	observations, err := client.Fetch(ctx)
	if err != nil {
		return err
	}
	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Time.Before(observations[j].Time)
	})

	tracker := domain.NewWindTracker(sector, *speed, uint8(*candidateSteps), uint8(*cooldownSteps))
	for _, obs := range observations {
		fired := tracker.Step(obs)
		fmt.Printf("%s %6t    %s\n", obs, fired, tracker.State())
	}

	return nil
}
