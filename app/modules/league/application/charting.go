package leagueservice

import (
	"bytes"
	"context"
	"strconv"
	"time"

	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	chartBackground = drawing.ColorFromHex("0f172a")
	chartLine       = drawing.ColorFromHex("22c55e")
	chartDots       = drawing.ColorFromHex("facc15")
	chartText       = drawing.ColorFromHex("e2e8f0")
)

func (s *LeagueService) SurvivalChart(ctx context.Context, leagueID int64, userID string) (results.OperationResult[[]byte, error], error) {
	return withTelemetry(s, ctx, "SurvivalChart", strconv.FormatInt(leagueID, 10), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		row, failure, err := s.memberLeague(ctx, leagueID, userID)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		if failure != nil {
			return results.FailureResult[[]byte, error](failure), nil
		}

		members, err := s.repo.ListMemberships(ctx, nil, leagueID)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}

		league := row.ToDomain()
		start := league.CreatedAt
		if league.ActivatedAt != nil {
			start = *league.ActivatedAt
		}
		end := s.clock.Now()
		if league.FinishedAt != nil {
			end = *league.FinishedAt
		}

		png, err := GenerateSurvivalChart(league.Name, leaguedomain.SurvivalCurve(leaguedb.MembershipsToDomain(members), start), len(members), end)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](png), nil
	})
}

// GenerateSurvivalChart produces a PNG step chart of the survivor count,
// extended flat to end.
func GenerateSurvivalChart(title string, points []leaguedomain.SurvivalPoint, members int, end time.Time) ([]byte, error) {
	if members == 0 || len(points) == 0 {
		return renderNoDataPlaceholder("Nobody has joined yet")
	}

	var xValues []time.Time
	var yValues []float64
	for i, p := range points {
		if i > 0 {
			// hold the previous count until the elimination
			xValues = append(xValues, p.At)
			yValues = append(yValues, yValues[len(yValues)-1])
		}
		xValues = append(xValues, p.At)
		yValues = append(yValues, float64(p.Remaining))
	}
	last := xValues[len(xValues)-1]
	if !end.After(last) {
		end = last.Add(time.Hour)
	}
	xValues = append(xValues, end)
	yValues = append(yValues, yValues[len(yValues)-1])

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: chartText,
		},
		Background: chart.Style{
			FillColor: chartBackground,
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style: chart.Style{
				FontColor: chartText,
			},
		},
		YAxis: chart.YAxis{
			Name: "Still standing",
			Style: chart.Style{
				FontColor: chartText,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: float64(members),
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Survivors",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chartLine,
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    chartDots,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: chartBackground,
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(chartText)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
