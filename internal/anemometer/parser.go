// Package anemometer fetches and parses the wind station's HTML page.
//
// The station publishes recent readings as an HTML table:
//
//	<tr><th>Время</th><th>Направление</th><th>Скорость</th>...</tr>
//	<tr><td>29.10.2022 22:45</td><td>СЗЗ (301°)</td><td>7.3</td>...</tr>
//
// Timestamps are station-local with a fixed UTC offset and no DST.
package anemometer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/telewind/telewind/internal/domain"
)

// stationTimeLayout matches the table's "29.10.2022 22:45" timestamps.
const stationTimeLayout = "02.01.2006 15:04"

// directionRe extracts the numeric bearing from cells like "СЗЗ (301°)".
var directionRe = regexp.MustCompile(`([0-9]{1,3})°`)

// Parse reads the station HTML and returns one observation per table row,
// in document order. Header rows are skipped. Any malformed data row fails
// the whole parse: a half-read table is worse than a retried poll.
func Parse(r io.Reader, loc *time.Location) ([]domain.Observation, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse station page: %w", err)
	}

	var observations []domain.Observation
	var rowErr error

	doc.Find("table tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if row.Find("th").Length() > 0 {
			return true
		}
		cells := row.Find("td")
		if cells.Length() < 3 {
			rowErr = fmt.Errorf("parse station page: row %d has %d columns, want 3", i, cells.Length())
			return false
		}

		obs, err := parseRow(
			cells.Eq(0).Text(),
			cells.Eq(1).Text(),
			cells.Eq(2).Text(),
			loc,
		)
		if err != nil {
			rowErr = fmt.Errorf("parse station page: row %d: %w", i, err)
			return false
		}
		observations = append(observations, obs)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return observations, nil
}

func parseRow(timeCell, directionCell, speedCell string, loc *time.Location) (domain.Observation, error) {
	at, err := time.ParseInLocation(stationTimeLayout, strings.TrimSpace(timeCell), loc)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("time %q: %w", timeCell, err)
	}

	direction, err := parseDirection(directionCell)
	if err != nil {
		return domain.Observation{}, err
	}

	speed, err := strconv.ParseFloat(strings.TrimSpace(speedCell), 64)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("speed %q: %w", speedCell, err)
	}

	return domain.Observation{Time: at, Direction: direction, AvgSpeed: speed}, nil
}

// parseDirection pulls the degree figure out of a "СЗЗ (301°)" cell.
// The station reports 360 for due north; it is folded to 0.
func parseDirection(cell string) (int, error) {
	m := directionRe.FindStringSubmatch(cell)
	if m == nil {
		return 0, fmt.Errorf("direction %q: no bearing found", cell)
	}
	direction, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("direction %q: %w", cell, err)
	}
	if direction > 360 {
		return 0, fmt.Errorf("direction %q: bearing %d out of range", cell, direction)
	}
	return direction % 360, nil
}
