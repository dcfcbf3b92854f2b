// Package parsers reads season fixture lists into feed records.
package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/xuri/excelize/v2"
)

// ErrNoFixtures is returned when a sheet has a header but no fixture rows.
var ErrNoFixtures = errors.New("no fixtures found in sheet")

// columns maps accepted header spellings to fields.
var columns = map[string]string{
	"league":      "league",
	"competition": "league",
	"home":        "home",
	"home team":   "home",
	"home_team":   "home",
	"away":        "away",
	"away team":   "away",
	"away_team":   "away",
	"date":        "date",
	"kickoff":     "date",
	"time":        "time",
	"status":      "status",
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006", "01-02-06"}

// SeasonRow is a parsed fixture row and the sheet row it came from.
type SeasonRow struct {
	Row    int
	Record fixturedomain.FeedRecord
}

// ParseSeasonXLSX reads the first sheet of an XLSX workbook. The first row
// must be a header naming at least the home, away and date columns. Dates
// without an offset are written in loc.
func ParseSeasonXLSX(data []byte, defaultLeague string, loc *time.Location) ([]SeasonRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrNoFixtures
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var out []SeasonRow
	for i, row := range rows[1:] {
		cell := func(field string) string {
			col, ok := index[field]
			if !ok || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}
		if cell("home") == "" && cell("away") == "" {
			continue
		}

		kickoff, err := joinDateTime(cell("date"), cell("time"), loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		league := cell("league")
		if league == "" {
			league = defaultLeague
		}
		status := cell("status")
		if status == "" {
			status = string(fixturedomain.PreEvent)
		}

		out = append(out, SeasonRow{
			Row: i + 2,
			Record: fixturedomain.FeedRecord{
				League:   league,
				HomeTeam: cell("home"),
				AwayTeam: cell("away"),
				Date:     kickoff.Format(time.RFC3339),
				Status:   status,
			},
		})
	}
	if len(out) == 0 {
		return nil, ErrNoFixtures
	}
	return out, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, h := range header {
		if field, ok := columns[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := index[field]; !dup {
				index[field] = i
			}
		}
	}
	for _, required := range []string{"home", "away", "date"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("header is missing a %s column", required)
		}
	}
	return index, nil
}

// joinDateTime accepts a full ISO-8601 timestamp in the date column, or a
// date plus an optional HH:MM time column.
func joinDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if date == "" {
		return time.Time{}, errors.New("date is empty")
	}
	if t, err := fixturedomain.ParseKickoff(date, loc); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		day, err := time.ParseInLocation(layout, date, loc)
		if err != nil {
			continue
		}
		if clock == "" {
			return day, nil
		}
		hm, err := time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, fmt.Errorf("unparseable time %q", clock)
		}
		return time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", date)
}
